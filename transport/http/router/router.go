package router

import (
	"parking/internal/handlers/area"
	"parking/internal/handlers/auth"
	"parking/internal/handlers/booking"
	"parking/internal/handlers/car"
	"parking/internal/handlers/report"
	"parking/internal/handlers/user"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Auth    auth.Handler
	User    user.Handler
	Area    area.Handler
	Car     car.Handler
	Booking booking.Handler
	Report  report.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.User.Router(routerGroup)
		r.DomainHandlers.Area.Router(routerGroup)
		r.DomainHandlers.Car.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Report.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
