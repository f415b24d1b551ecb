package main

import (
	"parking/config"
	"parking/di"
	"parking/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title Parking Reservation API
// @version 1.0
// @description Multi-tenant parking areas, spot requests, walk-ins and billing.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	app, err := di.InitializeService()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize service")
	}

	app.Run()
}
