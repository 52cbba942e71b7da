package db

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"

	"offerscout/internal/config"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

type lifecycleRecorder struct {
	hooks []fx.Hook
}

func (l *lifecycleRecorder) Append(h fx.Hook) { l.hooks = append(l.hooks, h) }

func TestNewSurvivesUnavailableDatabase(t *testing.T) {
	retryDelay = 0

	cfg := &config.Config{}
	cfg.Database.Type = "sqlite"

	// /dev/null is not a directory, so the file can never be opened
	db := New(cfg, sqlite.Open("/dev/null/unreachable.db"))
	require.Nil(t, db, "a dead database must degrade to nil, not abort startup")
}

func TestRegisterCloseSkipsNilDB(t *testing.T) {
	lc := &lifecycleRecorder{}
	RegisterClose(closeParams{Lifecycle: lc, DB: nil})
	require.Empty(t, lc.hooks)
}
