package network

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"offerscout/internal/config"
	"offerscout/services/signal"
)

var Module = fx.Module("network.module",
	fx.Provide(ProvideRegistry),
)

type RegistryParams struct {
	fx.In

	Config   *config.Config
	Searcher signal.Searcher `optional:"true"`
	Logger   *zap.Logger
}

// ProvideRegistry assembles the provider set from config. Credentialed
// providers join only when their credentials are present; the public
// directories are always on.
func ProvideRegistry(p RegistryParams) *Registry {
	r := NewRegistry()

	if p.Config.Impact.AccountSID != "" && p.Config.Impact.AuthToken != "" {
		r.AddCredentialed(NewImpactProvider(
			p.Config.Impact.AccountSID, p.Config.Impact.AuthToken, p.Logger))
	}

	r.AddDiscovery(NewAffbankProvider(p.Logger))
	r.AddDiscovery(NewOfferVaultProvider(p.Searcher, p.Logger))

	p.Logger.Info("provider registry assembled",
		zap.Strings("credentialed", r.CredentialedNames()),
		zap.Int("discovery", len(r.Discovery())))
	return r
}
