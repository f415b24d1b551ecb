package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"parking/config"
	_ "parking/docs" // swagger spec
	"parking/shared/constant"
	"parking/transport/http/middleware"
	"parking/transport/http/response"
	"parking/transport/http/router"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
	httpSwagger "github.com/swaggo/http-swagger"
)

type ServerState int32

const (
	ServerStateReady ServerState = iota + 1
	ServerStateInGracePeriod
	ServerStateInCleanupPeriod
)

type HTTP struct {
	Config   *config.Config
	Router   router.Router
	App      middleware.AppMiddleware
	AuthRole middleware.AuthRole

	state   atomic.Int32
	handler http.Handler
	server  *http.Server
}

func New(cfg *config.Config, r router.Router, app middleware.AppMiddleware, authRole middleware.AuthRole) *HTTP {
	return &HTTP{
		Config:   cfg,
		Router:   r,
		App:      app,
		AuthRole: authRole,
	}
}

func (h *HTTP) State() ServerState {
	return ServerState(h.state.Load())
}

// Serve blocks until SIGINT or SIGTERM, then drains in-flight requests.
// onShutdown runs after the listener is closed.
func (h *HTTP) Serve(onShutdown ...func(ctx context.Context)) {
	h.setup()

	h.server = &http.Server{
		Addr:              net.JoinHostPort(h.Config.Server.Host, h.Config.Server.Port),
		Handler:           h.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", h.Config.Server.Port).Msg("Starting up HTTP server.")

		if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	<-signals

	h.shutdown(onShutdown)
}

// Handler returns the routed handler without starting a listener.
func (h *HTTP) Handler() http.Handler {
	h.setup()

	return h.handler
}

func (h *HTTP) setup() {
	if h.handler != nil {
		return
	}

	h.handler = h.setupRoutes()
	h.state.Store(int32(ServerStateReady))
}

func (h *HTTP) setupRoutes() http.Handler {
	mux := chi.NewRouter()

	mux.Use(chiMiddleware.RequestID, chiMiddleware.RealIP, chiMiddleware.Recoverer)

	if h.Config.App.CORS.Enable {
		mux.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.Config.App.CORS.AllowedOrigins,
			AllowedMethods:   h.Config.App.CORS.AllowedMethods,
			AllowedHeaders:   h.Config.App.CORS.AllowedHeaders,
			AllowCredentials: h.Config.App.CORS.AllowCredentials,
			MaxAge:           h.Config.App.CORS.MaxAgeSeconds,
		}))
	}

	mux.Get("/health", h.health)

	if h.Config.Server.Env != constant.ServerEnvProduction {
		mux.Get("/swagger/*", httpSwagger.WrapHandler)
	}

	mux.Group(func(r chi.Router) {
		r.Use(h.App.Tracing, h.App.RateLimit(), h.AuthRole.APIKey, h.AuthRole.Auth, h.AuthRole.RBAC)

		h.Router.SetupRoutes(r)
	})

	return mux
}

func (h *HTTP) health(w http.ResponseWriter, _ *http.Request) {
	switch h.State() {
	case ServerStateReady:
		response.WithMessage(w, http.StatusOK, "OK")
	case ServerStateInGracePeriod, ServerStateInCleanupPeriod:
		response.WithPreparingShutdown(w)
	default:
		response.WithUnhealthy(w)
	}
}

func (h *HTTP) shutdown(hooks []func(ctx context.Context)) {
	shutdownConfig := h.Config.Server.Shutdown
	grace := time.Duration(shutdownConfig.GracePeriodSeconds) * time.Second
	cleanup := time.Duration(shutdownConfig.CleanupPeriodSeconds) * time.Second

	if h.Config.Server.Env == constant.ServerEnvDevelopment {
		log.Warn().Msg("Received SIGTERM. Shutting down now.")

		grace = 0
	} else {
		log.Info().Int64("seconds", shutdownConfig.GracePeriodSeconds).Msg("Received SIGTERM. Entering grace period.")
	}

	h.state.Store(int32(ServerStateInGracePeriod))

	time.Sleep(grace)

	log.Info().Int64("seconds", shutdownConfig.CleanupPeriodSeconds).Msg("Entering cleanup period.")

	h.state.Store(int32(ServerStateInCleanupPeriod))

	ctx, cancel := context.WithTimeout(context.Background(), cleanup+time.Second)
	defer cancel()

	if err := h.server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("failed to shut down HTTP server cleanly")
	}

	for _, hook := range hooks {
		hook(ctx)
	}

	log.Info().Msg("Cleaning up completed. Shutting down now.")
}
