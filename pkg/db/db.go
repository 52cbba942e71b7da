// Package db opens the gorm connection backing the offer cache.
package db

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"offerscout/internal/config"
)

var Module = fx.Module("database",
	fx.Provide(
		Dialect,
		New,
	),
	fx.Invoke(RegisterClose),
)

// Dialect picks the gorm dialector from config: an embedded sqlite file by
// default, postgres when configured.
func Dialect(cfg *config.Config) gorm.Dialector {
	if cfg.Database.Type == "postgres" {
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.User,
			cfg.Database.Password, cfg.Database.DBName, cfg.Database.SSLMode)
		return postgres.Open(dsn)
	}
	return sqlite.Open(cfg.Database.Path)
}

// retryDelay is the pause between connection attempts; tests shorten it.
var retryDelay = 3 * time.Second

// New opens the gorm connection. An unreachable database is not fatal: after
// the retries run out New returns nil and the service starts without a cache
// store.
func New(cfg *config.Config, dialector gorm.Dialector) *gorm.DB {
	var logLevel logger.LogLevel
	var showSQL bool
	if cfg.AppEnv == "production" {
		logLevel = logger.Warn
	} else {
		logLevel = logger.Info
		showSQL = true
	}
	gormLogger := NewZapGormLogger(zap.L(), logLevel, showSQL)

	var db *gorm.DB
	var err error
	for i := 0; i < 5; i++ {
		db, err = gorm.Open(dialector, &gorm.Config{Logger: gormLogger})
		if err == nil {
			break
		}
		zap.L().Warn("[DB] Database not ready, retrying...",
			zap.Int("retry", i+1), zap.Error(err))
		time.Sleep(retryDelay)
	}
	if err != nil {
		zap.L().Error("[DB] Database unavailable, continuing without offer cache",
			zap.Error(err))
		return nil
	}

	zap.L().Info("[DB] Database connection established",
		zap.String("type", cfg.Database.Type))
	return db
}

type closeParams struct {
	fx.In
	Lifecycle fx.Lifecycle
	DB        *gorm.DB
}

func RegisterClose(p closeParams) {
	if p.DB == nil {
		return
	}
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			sqlDB, err := p.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})
}
