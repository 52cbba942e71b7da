package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"offerscout/internal/config"
	"offerscout/pkg/health"
	"offerscout/services/aggregator"
	"offerscout/services/cache"
	"offerscout/services/network"
	"offerscout/services/offer"
	"offerscout/services/scoring"
	"offerscout/services/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
	zap.ReplaceGlobals(zap.NewNop())
}

func f64(v float64) *float64 { return &v }

type fixedProvider struct {
	name   string
	offers []offer.Offer
	calls  int
}

func (p *fixedProvider) Name() string { return p.name }
func (p *fixedProvider) SearchOffers(context.Context, network.Query) []offer.Offer {
	p.calls++
	return p.offers
}
func (p *fixedProvider) OfferDetails(context.Context, string) (*offer.Offer, bool) {
	return nil, false
}
func (p *fixedProvider) TestConnection(context.Context) bool { return true }

func newTestRouter(t *testing.T, providers ...*fixedProvider) *gin.Engine {
	t.Helper()

	registry := network.NewRegistry()
	for _, p := range providers {
		registry.AddDiscovery(p)
	}

	now := time.Now()
	store, err := cache.NewStoreWithClock(testutil.NewTestDB(t), zap.NewNop(),
		func() time.Time { return now })
	require.NoError(t, err)

	engine := scoring.NewEngine(nil, nil, zap.NewNop())
	agg := aggregator.NewService(registry, engine, store, zap.NewNop())

	cfg := &config.Config{}
	cfg.Search.DefaultLimit = 20
	cfg.Search.LimitPerNetwork = 50

	h := NewHandler(HandlerParams{Aggregator: agg, Store: store, Config: cfg, Logger: zap.NewNop()})
	hs := health.ProvideHealth(health.HealthParams{})
	return NewRouter(cfg, h, hs)
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "healthy")
}

func TestDiscoveryEndpoint(t *testing.T) {
	provider := &fixedProvider{name: "alpha", offers: []offer.Offer{
		{ID: "1", Name: "NordVPN Affiliate", Category: offer.CategoryDirectBrand,
			CommissionType: offer.CommissionFixed, CommissionValue: f64(75)},
		{ID: "2", Name: "Top VPN Programs", Category: offer.CategoryBlogPost},
	}}
	router := newTestRouter(t, provider)

	w := doRequest(router, http.MethodGet, "/api/v1/offers/discovery?keyword=vpn", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Keyword string        `json:"keyword"`
		Count   int           `json:"count"`
		Offers  []offer.Offer `json:"offers"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "vpn", resp.Keyword)
	require.Equal(t, 2, resp.Count)
	require.NotNil(t, resp.Offers[0].SuitabilityScore)
	require.NotNil(t, resp.Offers[0].PotentialScore)
}

func TestDiscoveryEndpointAnalyzeOff(t *testing.T) {
	provider := &fixedProvider{name: "alpha", offers: []offer.Offer{
		{ID: "1", Name: "NordVPN Affiliate",
			CommissionType: offer.CommissionFixed, CommissionValue: f64(75)},
	}}
	router := newTestRouter(t, provider)

	w := doRequest(router, http.MethodGet, "/api/v1/offers/discovery?keyword=vpn&analyze=false", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Offers []offer.Offer `json:"offers"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Offers, 1)
	require.NotNil(t, resp.Offers[0].SuitabilityScore)
	require.Nil(t, resp.Offers[0].PotentialScore)
}

func TestDiscoveryEndpointRefreshBypassesCache(t *testing.T) {
	provider := &fixedProvider{name: "alpha", offers: []offer.Offer{
		{ID: "1", Name: "NordVPN Affiliate"},
	}}
	router := newTestRouter(t, provider)

	w := doRequest(router, http.MethodGet, "/api/v1/offers/discovery?keyword=vpn", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, provider.calls)

	// fresh key, but refresh=true sweeps again
	w = doRequest(router, http.MethodGet, "/api/v1/offers/discovery?keyword=vpn&refresh=true", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 2, provider.calls)
}

func TestDiscoveryEndpointModeFilter(t *testing.T) {
	provider := &fixedProvider{name: "alpha", offers: []offer.Offer{
		{ID: "1", Name: "Brand", Category: offer.CategoryDirectBrand},
		{ID: "2", Name: "Listicle", Category: offer.CategoryBlogPost},
	}}
	router := newTestRouter(t, provider)

	w := doRequest(router, http.MethodGet, "/api/v1/offers/discovery?keyword=vpn&mode=blog", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Count  int           `json:"count"`
		Offers []offer.Offer `json:"offers"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	require.Equal(t, "Listicle", resp.Offers[0].Name)
}

func TestDiscoveryEndpointRejectsBadMode(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/v1/offers/discovery?mode=bogus", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchEndpoint(t *testing.T) {
	router := newTestRouter(t)

	// no credentialed providers configured: empty result, not an error
	w := doRequest(router, http.MethodGet, "/api/v1/offers/search?keyword=vpn&min_commission=50", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 0, resp.Count)
}

func TestNetworksEndpoint(t *testing.T) {
	provider := &fixedProvider{name: "affbank"}
	router := newTestRouter(t, provider)

	w := doRequest(router, http.MethodGet, "/api/v1/networks", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Networks []string        `json:"networks"`
		Status   map[string]bool `json:"status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Empty(t, resp.Networks)
	require.True(t, resp.Status["affbank"])
}

func TestFeedbackEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/v1/feedback",
		`{"name":"alex","message":"more cashback offers"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	// message is mandatory
	w = doRequest(router, http.MethodPost, "/api/v1/feedback", `{"name":"alex"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
