// Package refresher re-warms the discovery cache on a daily schedule so the
// first user of the day is not the one paying for the provider sweep.
package refresher

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"offerscout/internal/config"
	"offerscout/services/aggregator"
	"offerscout/services/cache"
)

// Refresher runs a cron job that force-refreshes every search key used
// within the recency window.
type Refresher struct {
	cron       *cron.Cron
	agg        *aggregator.Service
	store      *cache.Store
	logger     *zap.Logger
	spec       string
	windowDays int
	limit      int
}

type Params struct {
	fx.In

	Aggregator *aggregator.Service
	Store      *cache.Store `optional:"true"`
	Config     *config.Config
	Logger     *zap.Logger
}

func New(p Params) *Refresher {
	return &Refresher{
		cron:       cron.New(),
		agg:        p.Aggregator,
		store:      p.Store,
		logger:     p.Logger,
		spec:       p.Config.Refresher.Schedule,
		windowDays: p.Config.Refresher.WindowDays,
		limit:      p.Config.Refresher.Limit,
	}
}

// Start registers the re-warm job and starts the scheduler. Without a cache
// store there is nothing to re-warm and the scheduler stays idle.
func (r *Refresher) Start(ctx context.Context) error {
	if r.store == nil {
		r.logger.Info("cache store not configured, re-warm disabled")
		return nil
	}

	if _, err := r.cron.AddFunc(r.spec, func() { r.rewarm(ctx) }); err != nil {
		return err
	}

	r.cron.Start()
	r.logger.Info("re-warm scheduler started",
		zap.String("spec", r.spec), zap.Int("window_days", r.windowDays))
	return nil
}

func (r *Refresher) Stop() {
	r.cron.Stop()
}

// rewarm refreshes every recently used key. Keys fail independently; one
// broken sweep never stops the rest of the batch.
func (r *Refresher) rewarm(ctx context.Context) {
	keys, err := r.store.RecentKeys(ctx, r.windowDays)
	if err != nil {
		r.logger.Error("re-warm key listing failed", zap.Error(err))
		return
	}
	if len(keys) == 0 {
		r.logger.Info("re-warm found no recent keys")
		return
	}

	r.logger.Info("re-warm cycle started", zap.Int("keys", len(keys)))
	for _, key := range keys {
		if err := r.agg.Refresh(ctx, key, r.limit); err != nil {
			r.logger.Warn("re-warm failed for key", zap.String("key", key), zap.Error(err))
		}
	}
	r.logger.Info("re-warm cycle complete")
}

var Module = fx.Module("refresher.module",
	fx.Provide(New),
	fx.Invoke(register),
)

func register(lc fx.Lifecycle, r *Refresher) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return r.Start(context.WithoutCancel(ctx))
		},
		OnStop: func(context.Context) error {
			r.Stop()
			return nil
		},
	})
}
