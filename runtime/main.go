package main

import (
	"github.com/alphabatem/common/context"
	"github.com/avvalues/trade-hub/services"
	"github.com/avvalues/trade-hub/shared"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, using process environment")
	}
	shared.ConfigureLogging(shared.GetEnvString("LOG_LEVEL", "info"))

	ctx, err := context.NewCtx(
		&services.DatabaseService{},
		&services.RedisService{},
		&services.MonitoringService{},
		&services.EventService{},
		&services.ModerationService{},
		&services.RateLimitService{},
		&services.TradeService{},
		&services.ExpiryService{},

		&services.HttpService{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build service context")
		return
	}

	err = ctx.Run()
	if err != nil {
		log.Fatal().Err(err).Msg("Service context stopped")
		return
	}
}
