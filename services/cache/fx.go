package cache

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("cache.module",
	fx.Provide(ProvideStore),
)

// ProvideStore degrades to a nil store when the database never came up;
// discovery then runs uncached instead of the process dying.
func ProvideStore(db *gorm.DB, logger *zap.Logger) (*Store, error) {
	if db == nil {
		logger.Warn("offer cache disabled, database unavailable")
		return nil, nil
	}
	return NewStore(db, logger)
}
