package scoring

import (
	"math"

	"offerscout/services/offer"
)

// Suitability computes the channel-fit score in [0,100] from reported
// performance metrics. Absent inputs contribute nothing rather than a
// neutral default; only the final sum is capped.
//
// EPC contributes up to 40 points, commission up to 30 (scaled by kind)
// and popularity up to 30.
func Suitability(o *offer.Offer) float64 {
	var score float64

	if o.EPC != nil {
		score += math.Min(*o.EPC*20, 40)
	}

	if o.CommissionValue != nil {
		switch o.CommissionType {
		case offer.CommissionFixed:
			score += math.Min(*o.CommissionValue/2, 30)
		case offer.CommissionPercentage:
			score += math.Min(*o.CommissionValue*2, 30)
		}
	}

	if o.PopularityScore != nil {
		score += math.Min(*o.PopularityScore/3, 30)
	}

	return math.Round(math.Min(score, 100)*100) / 100
}
