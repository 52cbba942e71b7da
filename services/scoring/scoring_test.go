package scoring

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"offerscout/services/offer"
	"offerscout/services/signal"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func f64(v float64) *float64 { return &v }

func TestBrandToken(t *testing.T) {
	require.Equal(t, "Rewardful", BrandToken("Rewardful Affiliate Program"))
	require.Equal(t, "Shopify", BrandToken("Shopify Partners"))
	require.Equal(t, "NordVPN", BrandToken("NordVPN affiliate commission referral"))
	require.Equal(t, "Acme", BrandToken("Acme CPA Offer!"))
	require.Equal(t, "unknown", BrandToken(""))
}

func TestSuitabilityComponents(t *testing.T) {
	// all components at their caps
	o := &offer.Offer{
		EPC:             f64(5),
		CommissionType:  offer.CommissionFixed,
		CommissionValue: f64(200),
		PopularityScore: f64(100),
	}
	require.Equal(t, 100.0, Suitability(o))

	// EPC alone, below its cap
	require.Equal(t, 20.0, Suitability(&offer.Offer{EPC: f64(1)}))

	// percentage commission scaled x2
	require.Equal(t, 20.0, Suitability(&offer.Offer{
		CommissionType:  offer.CommissionPercentage,
		CommissionValue: f64(10),
	}))

	// absent inputs contribute nothing
	require.Equal(t, 0.0, Suitability(&offer.Offer{}))
}

func TestSuitabilityMonotonicInEPC(t *testing.T) {
	lo := Suitability(&offer.Offer{EPC: f64(0.5)})
	hi := Suitability(&offer.Offer{EPC: f64(1.5)})
	require.Greater(t, hi, lo)
}

func TestOpportunityFixedCommission(t *testing.T) {
	score, rating, analysis := Opportunity(&offer.Offer{
		CommissionType:  offer.CommissionFixed,
		CommissionValue: f64(50),
	})
	require.Equal(t, 100, score)
	require.Equal(t, offer.RatingExcellent, rating)
	require.Contains(t, analysis, "$50 fixed commission")

	score, rating, _ = Opportunity(&offer.Offer{
		CommissionType:  offer.CommissionFixed,
		CommissionValue: f64(25),
	})
	require.Equal(t, 50, score)
	require.Equal(t, offer.RatingFair, rating)
}

func TestOpportunityPercentageCommission(t *testing.T) {
	score, _, _ := Opportunity(&offer.Offer{
		CommissionType:  offer.CommissionPercentage,
		CommissionValue: f64(10),
	})
	require.Equal(t, 100, score)

	score, _, _ = Opportunity(&offer.Offer{
		CommissionType:  offer.CommissionPercentage,
		CommissionValue: f64(5),
	})
	require.Equal(t, 50, score)
}

func TestOpportunityNoCommissionData(t *testing.T) {
	score, rating, analysis := Opportunity(&offer.Offer{})
	require.Equal(t, 50, score)
	require.Equal(t, offer.RatingFair, rating)
	require.Contains(t, analysis, "not available")

	// unrecognized kind is also neutral
	score, _, _ = Opportunity(&offer.Offer{
		CommissionType:  "Tiered",
		CommissionValue: f64(80),
	})
	require.Equal(t, 50, score)
}

func TestRateOpportunityBands(t *testing.T) {
	require.Equal(t, offer.RatingExcellent, RateOpportunity(75))
	require.Equal(t, offer.RatingGood, RateOpportunity(60))
	require.Equal(t, offer.RatingFair, RateOpportunity(40))
	require.Equal(t, offer.RatingPoor, RateOpportunity(39))
}

func TestSEOKeywords(t *testing.T) {
	keywords := SEOKeywords("Rewardful Affiliate Program")
	require.Len(t, keywords, 5)
	require.Equal(t, "rewardful", keywords[0].Keyword)
	require.Equal(t, "rewardful affiliate", keywords[1].Keyword)
	require.Equal(t, "rewardful affiliate program", keywords[2].Keyword)
	require.Equal(t, "rewardful review", keywords[3].Keyword)
	require.Equal(t, "rewardful discount", keywords[4].Keyword)
	for _, kw := range keywords {
		require.NotEmpty(t, kw.Volume)
	}

	// deterministic for the same brand
	require.Equal(t, keywords, SEOKeywords("Rewardful Affiliate Program"))
}

func TestCompetitionFromResults(t *testing.T) {
	require.Equal(t, offer.CompetitionVeryLow, CompetitionFromResults(0))
	require.Equal(t, offer.CompetitionLow, CompetitionFromResults(9999))
	require.Equal(t, offer.CompetitionMedium, CompetitionFromResults(10000))
	require.Equal(t, offer.CompetitionMedium, CompetitionFromResults(99999))
	require.Equal(t, offer.CompetitionHigh, CompetitionFromResults(100000))
}

func TestCookieFromCommission(t *testing.T) {
	require.Equal(t, 90, CookieFromCommission(f64(100)))
	require.Equal(t, 60, CookieFromCommission(f64(50)))
	require.Equal(t, 45, CookieFromCommission(f64(20)))
	require.Equal(t, 30, CookieFromCommission(f64(5)))
	require.Equal(t, 30, CookieFromCommission(nil))
}

func TestScalabilityDeterministic(t *testing.T) {
	a := Scalability("Shopify Partners", f64(150), offer.CompetitionLow)
	b := Scalability("Shopify Partners", f64(150), offer.CompetitionLow)
	require.Equal(t, a, b)

	require.GreaterOrEqual(t, a.ScalabilityScore, 0)
	require.LessOrEqual(t, a.ScalabilityScore, 100)
	require.Equal(t, 90, a.CookieDuration)
	require.Equal(t, offer.CompetitionLow, a.CompetitionLevel)
	require.NotEmpty(t, a.TrafficMonthly)
	require.NotEmpty(t, a.GrowthPercentage)
	require.NotEmpty(t, a.InstagramFollowers)
}

func TestScalabilityScoreBands(t *testing.T) {
	// premium commission, very low competition maxes the top bands
	high := scalabilityScore(f64(150), offer.CompetitionVeryLow, 90, 200000, 80)
	require.Equal(t, 100, high)

	// everything unknown or at the floor
	low := scalabilityScore(nil, "", 30, 500, 25)
	require.Equal(t, 35, low)
}

type stubTrend struct {
	data signal.TrendData
	err  error
}

func (s *stubTrend) Interest(context.Context, string) (signal.TrendData, error) {
	return s.data, s.err
}

type stubVolume struct {
	count int64
	err   error
}

func (s *stubVolume) ResultCount(context.Context, string) (int64, error) {
	return s.count, s.err
}

func TestEngineEnrich(t *testing.T) {
	engine := NewEngine(
		&stubTrend{data: signal.TrendData{Interest: 72, Trend: signal.TrendRising}},
		&stubVolume{count: 5000},
		zap.NewNop(),
	)

	offers := []offer.Offer{{
		ID:              "1",
		Name:            "Rewardful Affiliate Program",
		CommissionType:  offer.CommissionFixed,
		CommissionValue: f64(75),
		EPC:             f64(1.5),
	}}
	engine.Enrich(context.Background(), offers)

	o := offers[0]
	require.NotNil(t, o.SuitabilityScore)
	require.Greater(t, *o.SuitabilityScore, 0.0)

	require.NotNil(t, o.PotentialScore)
	require.Equal(t, 100, *o.PotentialScore)
	require.Equal(t, offer.RatingExcellent, o.PotentialRating)

	require.NotNil(t, o.SearchInterest)
	require.Equal(t, 72, *o.SearchInterest)
	require.Equal(t, signal.TrendRising, o.SearchTrend)
	require.Len(t, o.RelatedKeywords, 5)

	require.NotNil(t, o.ScalabilityScore)
	require.Equal(t, offer.CompetitionLow, o.CompetitionLevel)
	require.NotNil(t, o.CookieDuration)
	require.Equal(t, 60, *o.CookieDuration)
}

func TestEngineEnrichSignalFailure(t *testing.T) {
	engine := NewEngine(
		&stubTrend{err: errors.New("quota exceeded")},
		&stubVolume{err: errors.New("quota exceeded")},
		zap.NewNop(),
	)

	offers := []offer.Offer{{
		ID:              "1",
		Name:            "Acme Affiliate Program",
		CommissionType:  offer.CommissionPercentage,
		CommissionValue: f64(8),
	}}
	engine.Enrich(context.Background(), offers)

	o := offers[0]
	// score and rating still compute without signals
	require.NotNil(t, o.PotentialScore)
	require.Equal(t, 80, *o.PotentialScore)

	// trend-dependent fields stay unset, keyword list omitted
	require.Nil(t, o.SearchInterest)
	require.Empty(t, o.SearchTrend)
	require.Empty(t, o.RelatedKeywords)

	// scalability still computes with a neutral competition band
	require.NotNil(t, o.ScalabilityScore)
	require.Empty(t, o.CompetitionLevel)
}

func TestEngineEnrichNoProviders(t *testing.T) {
	engine := NewEngine(nil, nil, zap.NewNop())

	offers := []offer.Offer{{ID: "1", Name: "Acme"}}
	engine.Enrich(context.Background(), offers)

	require.NotNil(t, offers[0].SuitabilityScore)
	require.NotNil(t, offers[0].PotentialScore)
	require.Nil(t, offers[0].SearchInterest)
}

func TestFormatters(t *testing.T) {
	require.Equal(t, "500", formatCount(500))
	require.Equal(t, "1k", formatCount(1000))
	require.Equal(t, "1.5k", formatCount(1500))

	require.Equal(t, "800/mo", formatTraffic(800))
	require.Equal(t, "45K/mo", formatTraffic(45000))
	require.Equal(t, "2.3M/mo", formatTraffic(2300000))

	require.Equal(t, "12K", formatFollowers(12000))
	require.Equal(t, "1.2M", formatFollowers(1200000))
}
