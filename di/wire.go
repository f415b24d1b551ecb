//go:build wireinject
// +build wireinject

package di

import (
	"parking/config"
	"parking/infras/jwt"
	"parking/infras/kafka"
	"parking/infras/otel"
	"parking/infras/postgres"
	"parking/infras/redis"
	"parking/infras/s3"
	"parking/internal/jobs"
	"parking/permissions"
	"parking/shared/cache"
	"parking/shared/timezone"
	"parking/transport/http"
	"parking/transport/http/middleware"
	"parking/transport/http/router"

	"github.com/google/wire"

	areaRepository "parking/internal/domains/area/repository"
	areaService "parking/internal/domains/area/service"
	authService "parking/internal/domains/auth/service"
	bookingEvent "parking/internal/domains/booking/event"
	bookingRepository "parking/internal/domains/booking/repository"
	bookingService "parking/internal/domains/booking/service"
	carRepository "parking/internal/domains/car/repository"
	carService "parking/internal/domains/car/service"
	reportRepository "parking/internal/domains/report/repository"
	reportService "parking/internal/domains/report/service"
	spotRepository "parking/internal/domains/spot/repository"
	userRepository "parking/internal/domains/user/repository"
	userService "parking/internal/domains/user/service"
	areaHandler "parking/internal/handlers/area"
	authHandler "parking/internal/handlers/auth"
	bookingHandler "parking/internal/handlers/booking"
	carHandler "parking/internal/handlers/car"
	reportHandler "parking/internal/handlers/report"
	userHandler "parking/internal/handlers/user"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	postgres.NewTransactor,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	timezone.NewClock,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
	authService.New,
)

var parkingDomain = wire.NewSet(
	areaRepository.New,
	spotRepository.New,
	areaService.New,
	carRepository.New,
	carService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingEvent.NewPublisher,
	bookingService.New,
	jobs.New,
	wire.Bind(new(bookingHandler.Expirer), new(*jobs.Scheduler)),
)

var reportDomain = wire.NewSet(
	reportRepository.New,
	reportService.New,
)

var domains = wire.NewSet(
	userDomain,
	parkingDomain,
	bookingDomain,
	reportDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	areaHandler.New,
	carHandler.New,
	bookingHandler.New,
	reportHandler.New,
	router.New,
)

func InitializeService() (*App, error) {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
		wire.Struct(new(App), "*"),
	)

	return &App{}, nil
}
