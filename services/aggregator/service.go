// Package aggregator orchestrates offer searches: provider fan-out, scoring,
// and the daily read-through cache.
package aggregator

import (
	"context"
	"sort"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"offerscout/services/cache"
	"offerscout/services/network"
	"offerscout/services/offer"
	"offerscout/services/scoring"
)

// Discovery result filter modes, applied after the cache so switching modes
// never triggers another provider sweep.
const (
	ModeAll    = "all"
	ModeDirect = "direct"
	ModeBlog   = "blog"
)

// DefaultKeyword is searched when a discovery request names none.
const DefaultKeyword = "software"

// SearchParams carries the criteria for a credentialed-network search.
type SearchParams struct {
	Keyword         string
	Category        string
	MinEPC          *float64
	MinCommission   *float64
	LimitPerNetwork int
}

// DiscoveryParams carries the criteria for a discovery sweep. Analyze gates
// the opportunity and scalability enrichment on a miss; suitability ranking
// always runs.
type DiscoveryParams struct {
	Keyword      string
	Limit        int
	Mode         string
	Analyze      bool
	ForceRefresh bool
}

// Service fans searches out to the registered providers, enriches the merged
// results and keeps the per-keyword daily cache. Store may be nil; discovery
// then runs uncached.
type Service struct {
	registry *network.Registry
	engine   *scoring.Engine
	store    *cache.Store
	node     *snowflake.Node
	logger   *zap.Logger

	// collapses concurrent discovery misses for the same key
	group singleflight.Group
}

func NewService(registry *network.Registry, engine *scoring.Engine, store *cache.Store, logger *zap.Logger) *Service {
	return &Service{
		registry: registry,
		engine:   engine,
		store:    store,
		logger:   logger,
	}
}

// AvailableNetworks lists the configured credentialed provider names.
func (s *Service) AvailableNetworks() []string {
	return s.registry.CredentialedNames()
}

// TestConnections probes every configured provider and reports reachability
// by name.
func (s *Service) TestConnections(ctx context.Context) map[string]bool {
	status := make(map[string]bool)
	for _, p := range s.registry.All() {
		status[p.Name()] = p.TestConnection(ctx)
	}
	return status
}

// SearchAllNetworks queries every credentialed provider in registration
// order, concatenates their results, applies the minimum-commission filter
// and ranks by suitability. One provider coming back empty never affects the
// others' contributions.
func (s *Service) SearchAllNetworks(ctx context.Context, p SearchParams) []offer.Offer {
	providers := s.registry.Credentialed()
	s.logger.Info("searching credentialed networks",
		zap.Int("networks", len(providers)), zap.String("keyword", p.Keyword))

	q := network.Query{
		Keyword:  p.Keyword,
		Category: p.Category,
		MinEPC:   p.MinEPC,
		Limit:    p.LimitPerNetwork,
	}

	var all []offer.Offer
	for _, prov := range providers {
		offers := prov.SearchOffers(ctx, q)
		s.logger.Info("provider search complete",
			zap.String("provider", prov.Name()), zap.Int("offers", len(offers)))
		all = append(all, offers...)
	}

	if p.MinCommission != nil {
		filtered := all[:0]
		for _, o := range all {
			if o.CommissionValue != nil && *o.CommissionValue >= *p.MinCommission {
				filtered = append(filtered, o)
			}
		}
		all = filtered
	}

	s.engine.ScoreSuitability(all)
	sortBySuitability(all)
	return all
}

// SearchDiscovery answers a discovery request from the daily cache when the
// key is fresh, otherwise sweeps every provider, enriches and ranks the
// results, and writes them back. Concurrent misses for the same key share
// one sweep. The mode filter runs last, over whatever the cache or the sweep
// produced.
func (s *Service) SearchDiscovery(ctx context.Context, p DiscoveryParams) ([]offer.Offer, error) {
	keyword := p.Keyword
	if keyword == "" {
		keyword = DefaultKeyword
	}
	key := cache.SanitizeKey(keyword)

	var offers []offer.Offer

	if s.store != nil && !p.ForceRefresh && s.store.IsFresh(ctx, key) {
		cached, err := s.store.Read(ctx, key)
		if err != nil {
			s.logger.Warn("cache read failed, falling through to providers",
				zap.String("key", key), zap.Error(err))
		} else {
			s.logger.Info("discovery cache hit", zap.String("key", key), zap.Int("offers", len(cached)))
			offers = cached
		}
	}

	if offers == nil {
		fetched, err, shared := s.group.Do(key, func() (any, error) {
			return s.sweep(ctx, keyword, key, p.Limit, p.Analyze), nil
		})
		if err != nil {
			return nil, err
		}
		if shared {
			s.logger.Debug("discovery sweep shared", zap.String("key", key))
		}
		offers = fetched.([]offer.Offer)
	}

	offers = filterByMode(offers, p.Mode)
	if p.Limit > 0 && len(offers) > p.Limit {
		offers = offers[:p.Limit]
	}
	return offers, nil
}

// sweep runs the full miss path: every provider in order, enrichment,
// ranking, write-back. An empty sweep is still written so the day's
// remaining requests for this key stay off the providers. With analyze off
// the signal-backed enrichment is skipped and the cached rows carry only
// the suitability score; the day's cache holds whatever the first sweep
// computed.
func (s *Service) sweep(ctx context.Context, keyword, key string, limit int, analyze bool) []offer.Offer {
	providers := s.registry.All()
	s.logger.Info("discovery sweep", zap.String("key", key), zap.Int("providers", len(providers)))

	// fetch wide so the post-cache mode filter still has enough to show
	q := network.Query{Keyword: keyword, Limit: limit * 2}

	var all []offer.Offer
	for _, prov := range providers {
		offers := prov.SearchOffers(ctx, q)
		s.logger.Info("provider sweep complete",
			zap.String("provider", prov.Name()), zap.Int("offers", len(offers)))
		all = append(all, offers...)
	}

	// rows without a source id still need a stable one for the cache
	if s.node != nil {
		for i := range all {
			if all[i].ID == "" {
				all[i].ID = s.node.Generate().String()
			}
		}
	}

	if analyze {
		s.engine.Enrich(ctx, all)
	} else {
		s.engine.ScoreSuitability(all)
	}
	sortBySuitability(all)

	if s.store != nil {
		if err := s.store.Write(ctx, key, all); err != nil {
			s.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return all
}

// Refresh re-runs the discovery sweep for an already-cached key, bypassing
// freshness. The daily re-warm job drives it.
func (s *Service) Refresh(ctx context.Context, keyword string, limit int) error {
	_, err := s.SearchDiscovery(ctx, DiscoveryParams{
		Keyword:      keyword,
		Limit:        limit,
		Mode:         ModeAll,
		Analyze:      true,
		ForceRefresh: true,
	})
	return err
}

func filterByMode(offers []offer.Offer, mode string) []offer.Offer {
	var want string
	switch mode {
	case ModeDirect:
		want = offer.CategoryDirectBrand
	case ModeBlog:
		want = offer.CategoryBlogPost
	default:
		return offers
	}

	filtered := make([]offer.Offer, 0, len(offers))
	for _, o := range offers {
		if o.Category == want {
			filtered = append(filtered, o)
		}
	}
	return filtered
}

// sortBySuitability ranks descending; offers without a score sink to the
// bottom. The sort is stable so provider registration order breaks ties.
func sortBySuitability(offers []offer.Offer) {
	sort.SliceStable(offers, func(i, j int) bool {
		return offers[i].Suitability() > offers[j].Suitability()
	})
}
