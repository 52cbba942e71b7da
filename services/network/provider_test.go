package network

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"offerscout/services/offer"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func f64(v float64) *float64 { return &v }

type stubProvider struct {
	name string
}

func (s *stubProvider) Name() string { return s.name }
func (s *stubProvider) SearchOffers(context.Context, Query) []offer.Offer {
	return nil
}
func (s *stubProvider) OfferDetails(context.Context, string) (*offer.Offer, bool) {
	return nil, false
}
func (s *stubProvider) TestConnection(context.Context) bool { return true }

func TestRegistryOrdering(t *testing.T) {
	r := NewRegistry()
	r.AddDiscovery(&stubProvider{name: "offervault"})
	r.AddCredentialed(&stubProvider{name: "impact"})
	r.AddCredentialed(&stubProvider{name: "awin"})

	require.Equal(t, []string{"impact", "awin"}, r.CredentialedNames())

	all := r.All()
	require.Len(t, all, 3)
	require.Equal(t, "impact", all[0].Name())
	require.Equal(t, "awin", all[1].Name())
	require.Equal(t, "offervault", all[2].Name())
}

func TestMatchesKeyword(t *testing.T) {
	o := &offer.Offer{
		Name:           "NordVPN Affiliate Program",
		Description:    "Earn commission promoting online privacy",
		AdvertiserName: "Nord Security",
	}

	require.True(t, MatchesKeyword(o, ""))
	require.True(t, MatchesKeyword(o, "vpn"))
	require.True(t, MatchesKeyword(o, "PRIVACY"))
	require.True(t, MatchesKeyword(o, "nord security"))
	require.False(t, MatchesKeyword(o, "crypto"))
}

func TestFilterMinEPC(t *testing.T) {
	offers := []offer.Offer{
		{Name: "A", EPC: f64(0.5)},
		{Name: "B", EPC: f64(2.0)},
		{Name: "C"}, // no EPC reported
	}

	got := Filter(offers, Query{MinEPC: f64(1.0)})
	require.Len(t, got, 1)
	require.Equal(t, "B", got[0].Name)
}

func TestFilterKeywordAndLimit(t *testing.T) {
	offers := []offer.Offer{
		{Name: "VPN Deal One"},
		{Name: "Hosting Deal"},
		{Name: "VPN Deal Two"},
		{Name: "VPN Deal Three"},
	}

	got := Filter(offers, Query{Keyword: "vpn", Limit: 2})
	require.Len(t, got, 2)
	require.Equal(t, "VPN Deal One", got[0].Name)
	require.Equal(t, "VPN Deal Two", got[1].Name)
}

func TestParsePayout(t *testing.T) {
	kind, value := ParsePayout("$45.50 per sale")
	require.Equal(t, offer.CommissionFixed, kind)
	require.NotNil(t, value)
	require.Equal(t, 45.5, *value)

	kind, value = ParsePayout("30% revshare")
	require.Equal(t, offer.CommissionPercentage, kind)
	require.NotNil(t, value)
	require.Equal(t, 30.0, *value)

	kind, value = ParsePayout("contact manager")
	require.Empty(t, kind)
	require.Nil(t, value)
}

func TestParsePayoutDollarWinsOverPercent(t *testing.T) {
	kind, value := ParsePayout("$10 + 5% bonus")
	require.Equal(t, offer.CommissionFixed, kind)
	require.Equal(t, 10.0, *value)
}

func TestCleanOfferName(t *testing.T) {
	require.Equal(t, "Acme Casino", cleanOfferName("Acme  Casino Gambling & betting"))
	require.Equal(t, "Shiny Offer", cleanOfferName("Shiny Offer Sponsored"))
	require.Equal(t, "Plain", cleanOfferName("  Plain  "))
}

func TestClassifyResult(t *testing.T) {
	// affiliate-style URL path on a brand domain
	require.Equal(t, offer.CategoryDirectBrand,
		classifyResult("Join our program", "https://nordvpn.com/affiliate/", "nordvpn.com"))

	// known publisher domain is always a blog post
	require.Equal(t, offer.CategoryBlogPost,
		classifyResult("NordVPN affiliate details", "https://forbes.com/nordvpn-affiliate", "forbes.com"))

	// listicle title on an unknown domain
	require.Equal(t, offer.CategoryBlogPost,
		classifyResult("17 Best VPN Affiliate Programs in 2025", "https://example.com/post", "example.com"))

	// unknown domain, non-listicle title defaults to a brand page
	require.Equal(t, offer.CategoryDirectBrand,
		classifyResult("Partner With Acme", "https://acme.com/partners", "acme.com"))
}

func TestCuratedOffersNeverEmpty(t *testing.T) {
	p := NewOfferVaultProvider(nil, zap.NewNop())

	offers := p.curatedOffers("vpn", 3)
	require.Len(t, offers, 3)
	for _, o := range offers {
		require.NotEmpty(t, o.ID)
		require.NotEmpty(t, o.Name)
		require.Contains(t, o.Name, "Vpn")
		require.Equal(t, offer.CommissionVaries, o.CommissionType)
		require.NotEmpty(t, o.TrackingURL)
	}

	all := p.curatedOffers("vpn", 0)
	require.Len(t, all, 8)
}

func TestExtractDomain(t *testing.T) {
	require.Equal(t, "nordvpn.com", extractDomain("https://www.nordvpn.com/affiliate/"))
	require.Equal(t, "example.org", extractDomain("http://example.org"))
}
