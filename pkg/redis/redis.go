// Package redis provides the optional client used by the day-scoped signal
// cache. Without a configured address the provider yields nil and callers
// run uncached.
package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"offerscout/internal/config"
)

var Module = fx.Module("redis",
	fx.Provide(New),
)

func New(lc fx.Lifecycle, cfg *config.Config) *redis.Client {
	if cfg.Redis.Addr == "" {
		zap.L().Info("[Redis] No address configured, signal cache disabled")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		zap.L().Warn("[Redis] Ping failed, lookups will retry per request",
			zap.String("addr", cfg.Redis.Addr), zap.Error(err))
	} else {
		zap.L().Info("[Redis] Connected", zap.String("addr", cfg.Redis.Addr))
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return rdb.Close()
		},
	})
	return rdb
}
