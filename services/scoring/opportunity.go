package scoring

import (
	"fmt"
	"strings"

	"offerscout/services/offer"
)

// Opportunity computes the commission-driven potential score in [0,100]
// with its rating label and a one-line rationale.
//
// A $50 fixed commission or a 10% percentage commission both map to 100;
// missing or unrecognized commission data scores a neutral 50.
func Opportunity(o *offer.Offer) (score int, rating string, analysis string) {
	var desc string

	switch {
	case o.CommissionValue == nil:
		score = 50
		desc = "Commission info not available"
	case o.CommissionType == offer.CommissionFixed:
		score = min(100, int(*o.CommissionValue/50*100))
		desc = fmt.Sprintf("$%d fixed commission", int(*o.CommissionValue))
	case o.CommissionType == offer.CommissionPercentage:
		score = min(100, int(*o.CommissionValue*10))
		desc = fmt.Sprintf("%d%% commission", int(*o.CommissionValue))
	default:
		score = 50
		desc = "Commission type unknown"
	}

	rating = RateOpportunity(score)
	return score, rating, rating + " - " + desc
}

// RateOpportunity maps an opportunity score to its rating label.
func RateOpportunity(score int) string {
	switch {
	case score >= 75:
		return offer.RatingExcellent
	case score >= 60:
		return offer.RatingGood
	case score >= 40:
		return offer.RatingFair
	default:
		return offer.RatingPoor
	}
}

// keyword variations generated per brand, most generic first
var keywordSuffixes = []string{"", "affiliate", "affiliate program", "review", "discount"}

// SEOKeywords generates up to five keyword variations for the offer's brand
// token with estimated monthly volumes. Volume shrinks with keyword length:
// the bare brand carries the base volume, each added word narrows it.
func SEOKeywords(offerName string) []offer.KeywordVolume {
	brand := strings.ToLower(BrandToken(offerName))
	baseVolume := pick(brand, 800, 2000)

	keywords := make([]offer.KeywordVolume, 0, len(keywordSuffixes))
	for _, suffix := range keywordSuffixes {
		kw := brand
		if suffix != "" {
			kw = brand + " " + suffix
		}
		keywords = append(keywords, offer.KeywordVolume{
			Keyword: kw,
			Volume:  estimateKeywordVolume(kw, baseVolume),
		})
	}
	return keywords
}

func estimateKeywordVolume(keyword string, baseVolume int) string {
	var volume int
	switch len(strings.Fields(keyword)) {
	case 1:
		volume = baseVolume
	case 2:
		volume = baseVolume * 40 / 100
	case 3:
		volume = baseVolume * 20 / 100
	default:
		volume = baseVolume * 10 / 100
	}
	return formatCount(volume)
}
