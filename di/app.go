package di

import (
	"context"
	"parking/config"
	"parking/helper"
	"parking/infras/kafka"
	"parking/internal/jobs"
	"parking/transport/http"

	"github.com/rs/zerolog/log"
)

// App holds the long-running parts started by cmd/app.
type App struct {
	Config    *config.Config
	HTTP      *http.HTTP
	Scheduler *jobs.Scheduler
	Kafka     kafka.Client
}

// Run migrates when configured, starts the scheduler and blocks serving HTTP
// until the process is signalled.
func (a *App) Run() {
	if a.Config.DB.Postgres.AutoMigrate {
		if err := helper.Up(a.Config); err != nil {
			log.Fatal().Err(err).Msg("failed to run database migrations")
		}
	}

	a.Scheduler.Start()

	a.HTTP.Serve(a.Scheduler.Stop, a.closeKafka)
}

func (a *App) closeKafka(_ context.Context) {
	if err := a.Kafka.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close kafka client")
	}
}
