package scoring

import (
	"context"

	"go.uber.org/zap"

	"offerscout/services/offer"
	"offerscout/services/signal"
)

// Engine runs the three scorers over offer batches, consulting the signal
// providers for trend and competition data. Either provider may be nil; the
// corresponding fields are then simply left unset.
type Engine struct {
	trend  signal.TrendProvider
	volume signal.VolumeProvider
	logger *zap.Logger
}

func NewEngine(trend signal.TrendProvider, volume signal.VolumeProvider, logger *zap.Logger) *Engine {
	return &Engine{trend: trend, volume: volume, logger: logger}
}

// ScoreSuitability writes the suitability score onto every offer in place.
func (e *Engine) ScoreSuitability(offers []offer.Offer) {
	for i := range offers {
		s := Suitability(&offers[i])
		offers[i].SuitabilityScore = &s
	}
}

// Enrich runs the full analysis over every offer in place: suitability,
// opportunity score with keyword suggestions, search-interest signal and
// brand scalability metrics. One offer's signal failure never blocks the
// rest; signal-dependent fields just stay unset for that offer.
func (e *Engine) Enrich(ctx context.Context, offers []offer.Offer) {
	e.ScoreSuitability(offers)

	for i := range offers {
		o := &offers[i]

		score, rating, analysis := Opportunity(o)
		o.PotentialScore = &score
		o.PotentialRating = rating
		o.PotentialAnalysis = analysis

		e.attachSearchInterest(ctx, o)
		e.attachScalability(ctx, o)
	}
}

// attachSearchInterest resolves the brand's trend signal. Keyword
// suggestions ride along with it: without a live interest signal the volume
// estimates would be pure guesswork, so both are attached together.
func (e *Engine) attachSearchInterest(ctx context.Context, o *offer.Offer) {
	if e.trend == nil {
		return
	}

	brand := BrandToken(o.Name)
	data, err := e.trend.Interest(ctx, brand)
	if err != nil {
		e.logger.Debug("trend signal unavailable",
			zap.String("offer", o.Name), zap.String("brand", brand), zap.Error(err))
		return
	}

	interest := data.Interest
	o.SearchInterest = &interest
	o.SearchTrend = data.Trend
	o.RelatedKeywords = SEOKeywords(o.Name)
}

func (e *Engine) attachScalability(ctx context.Context, o *offer.Offer) {
	brand := BrandToken(o.Name)

	var competition string
	if e.volume != nil {
		count, err := e.volume.ResultCount(ctx, brand+" affiliate program")
		if err != nil {
			e.logger.Debug("volume signal unavailable",
				zap.String("offer", o.Name), zap.String("brand", brand), zap.Error(err))
		} else {
			competition = CompetitionFromResults(count)
		}
	}

	m := Scalability(o.Name, o.CommissionValue, competition)
	o.ScalabilityScore = &m.ScalabilityScore
	o.CookieDuration = &m.CookieDuration
	o.TrafficMonthly = m.TrafficMonthly
	o.GrowthPercentage = m.GrowthPercentage
	o.CompetitionLevel = m.CompetitionLevel
	o.DomainAuthority = &m.DomainAuthority
	o.InstagramFollowers = m.InstagramFollowers
}
