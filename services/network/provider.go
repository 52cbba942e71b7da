// Package network holds the source-provider contract and the concrete
// providers that list offers from external affiliate sources.
package network

import (
	"context"
	"strings"

	"offerscout/services/offer"
)

// Query carries the search criteria passed to a provider.
type Query struct {
	Keyword  string
	Category string
	MinEPC   *float64
	Limit    int
}

// Provider is the capability contract every offer source implements.
//
// SearchOffers never propagates a failure: a provider that cannot reach its
// source returns an empty slice and logs the cause itself. OfferDetails may
// be a no-op for bulk-only sources. TestConnection is a cheap liveness probe
// and likewise never fails loudly.
type Provider interface {
	Name() string
	SearchOffers(ctx context.Context, q Query) []offer.Offer
	OfferDetails(ctx context.Context, id string) (*offer.Offer, bool)
	TestConnection(ctx context.Context) bool
}

// Registry keeps the configured providers split into the credentialed set
// (authenticated network APIs) and the discovery set (public directories).
// Iteration order is registration order.
type Registry struct {
	credentialed []Provider
	discovery    []Provider
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) AddCredentialed(p Provider) { r.credentialed = append(r.credentialed, p) }
func (r *Registry) AddDiscovery(p Provider)    { r.discovery = append(r.discovery, p) }

func (r *Registry) Credentialed() []Provider { return r.credentialed }
func (r *Registry) Discovery() []Provider    { return r.discovery }

// All returns credentialed providers followed by discovery providers.
func (r *Registry) All() []Provider {
	out := make([]Provider, 0, len(r.credentialed)+len(r.discovery))
	out = append(out, r.credentialed...)
	out = append(out, r.discovery...)
	return out
}

// CredentialedNames lists the names of the authenticated providers.
func (r *Registry) CredentialedNames() []string {
	names := make([]string, 0, len(r.credentialed))
	for _, p := range r.credentialed {
		names = append(names, p.Name())
	}
	return names
}

// MatchesKeyword reports whether the offer mentions the keyword in its name,
// description or advertiser name, case-insensitively. An empty keyword
// matches everything.
func MatchesKeyword(o *offer.Offer, keyword string) bool {
	if keyword == "" {
		return true
	}
	kw := strings.ToLower(keyword)
	return strings.Contains(strings.ToLower(o.Name), kw) ||
		strings.Contains(strings.ToLower(o.Description), kw) ||
		strings.Contains(strings.ToLower(o.AdvertiserName), kw)
}

// Filter applies the query's keyword and min-EPC filters and truncates the
// result to the query limit. Providers whose upstream is not keyword-scoped
// run their raw results through this before returning.
func Filter(offers []offer.Offer, q Query) []offer.Offer {
	filtered := make([]offer.Offer, 0, len(offers))
	for i := range offers {
		o := offers[i]
		if !MatchesKeyword(&o, q.Keyword) {
			continue
		}
		if q.MinEPC != nil && (o.EPC == nil || *o.EPC < *q.MinEPC) {
			continue
		}
		filtered = append(filtered, o)
		if q.Limit > 0 && len(filtered) >= q.Limit {
			break
		}
	}
	return filtered
}
