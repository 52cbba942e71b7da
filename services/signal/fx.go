package signal

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/redis/go-redis/v9"

	"offerscout/internal/config"
)

var Module = fx.Module("signal.module",
	fx.Provide(Provide),
)

type Params struct {
	fx.In

	Config *config.Config
	Redis  *redis.Client `optional:"true"`
}

type Result struct {
	fx.Out

	Client   *SerpAPIClient
	Trend    TrendProvider
	Volume   VolumeProvider
	Searcher Searcher
}

// Provide wires the SerpAPI-backed signals. Without an API key every signal
// interface comes out nil and consumers degrade to their neutral defaults.
func Provide(p Params) Result {
	client := NewSerpAPIClient(p.Config.SerpAPI.APIKey)
	if !client.Configured() {
		zap.L().Info("serpapi key not configured, external signals disabled")
		return Result{Client: client}
	}

	cached := NewCachedLookups(client, client, p.Redis)
	return Result{
		Client:   client,
		Trend:    cached,
		Volume:   cached,
		Searcher: client,
	}
}
