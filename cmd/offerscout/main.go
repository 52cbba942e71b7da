package main

import (
	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"offerscout/internal/config"
	"offerscout/internal/httpapi"
	"offerscout/internal/logger"
	"offerscout/internal/server"
	"offerscout/pkg/db"
	"offerscout/pkg/health"
	"offerscout/pkg/redis"
	"offerscout/services/aggregator"
	"offerscout/services/cache"
	"offerscout/services/network"
	"offerscout/services/refresher"
	"offerscout/services/scoring"
	"offerscout/services/signal"
)

func main() {
	_ = godotenv.Load()

	app := fx.New(
		config.Module,
		logger.Module,
		db.Module,
		redis.Module,
		health.Module,

		signal.Module,
		network.Module,
		scoring.Module,
		cache.Module,
		aggregator.Module,
		refresher.Module,

		httpapi.Module,
		server.Module,
	)

	app.Run()
}
