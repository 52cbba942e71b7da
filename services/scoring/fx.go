package scoring

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"offerscout/services/signal"
)

var Module = fx.Module("scoring.module",
	fx.Provide(ProvideEngine),
)

type EngineParams struct {
	fx.In

	Trend  signal.TrendProvider  `optional:"true"`
	Volume signal.VolumeProvider `optional:"true"`
	Logger *zap.Logger
}

func ProvideEngine(p EngineParams) *Engine {
	return NewEngine(p.Trend, p.Volume, p.Logger)
}
