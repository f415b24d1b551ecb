package handler

import (
	"net/http"
	"parking/config"
	"parking/di"
	"parking/shared/logger"
	"sync"

	"github.com/rs/zerolog/log"
)

var (
	once    sync.Once
	handler http.Handler
)

// Handler serves a single request for serverless deployments. The scheduler
// does not run here.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger()

		logger.SetLogLevel(cfg)

		app, err := di.InitializeService()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize service")
		}

		handler = app.HTTP.Handler()
	})

	handler.ServeHTTP(w, r)
}
