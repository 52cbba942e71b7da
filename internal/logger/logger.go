package logger

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"offerscout/internal/config"
)

var Module = fx.Module("zap",
	fx.Provide(New),
)

type Params struct {
	fx.In
	Cfg *config.Config
}

// New builds the application logger: human-readable in development, JSON in
// production. The result also replaces zap's globals so leaf packages can
// use zap.L().
func New(p Params) *zap.Logger {
	log := zap.Must(zap.NewDevelopment())

	if p.Cfg.AppEnv == "production" {
		cfg := zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.EncoderConfig.LevelKey = "severity"
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		cfg.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
		cfg.Encoding = "json"
		cfg.OutputPaths = []string{"stdout"}
		cfg.ErrorOutputPaths = []string{"stderr"}

		log = zap.Must(cfg.Build())
	}

	log = log.With(
		zap.String("env", p.Cfg.AppEnv),
		zap.String("service_name", p.Cfg.AppName),
	)

	zap.ReplaceGlobals(log)
	return log
}
