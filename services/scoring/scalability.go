package scoring

import (
	"fmt"

	"offerscout/services/offer"
)

// BrandMetrics holds the scalability analysis for one offer. Traffic, growth,
// domain authority and follower figures are heuristic estimates derived from
// the brand token, not measurements.
type BrandMetrics struct {
	ScalabilityScore   int
	CookieDuration     int
	TrafficMonthly     string
	GrowthPercentage   string
	CompetitionLevel   string
	DomainAuthority    int
	InstagramFollowers string
}

// CompetitionFromResults buckets a web result count for "<brand> affiliate
// program" into a competition label.
func CompetitionFromResults(totalResults int64) string {
	switch {
	case totalResults == 0:
		return offer.CompetitionVeryLow
	case totalResults < 10000:
		return offer.CompetitionLow
	case totalResults < 100000:
		return offer.CompetitionMedium
	default:
		return offer.CompetitionHigh
	}
}

// CookieFromCommission derives a cookie window in days from commission size.
// Higher-paying programs tend to run longer attribution windows.
func CookieFromCommission(commissionValue *float64) int {
	if commissionValue == nil {
		return 30
	}
	switch {
	case *commissionValue >= 100:
		return 90
	case *commissionValue >= 50:
		return 60
	case *commissionValue >= 20:
		return 45
	default:
		return 30
	}
}

// estimateTraffic derives a monthly visit estimate from the brand token.
// Short memorable brand names tend to carry more traffic.
func estimateTraffic(brand string) int {
	switch n := len(brand); {
	case n <= 5:
		return pick(brand+":traffic", 50000, 500000)
	case n <= 8:
		return pick(brand+":traffic", 10000, 100000)
	default:
		return pick(brand+":traffic", 1000, 20000)
	}
}

// estimateGrowth derives a growth percentage from competition: less crowded
// niches leave more room to grow.
func estimateGrowth(brand, competitionLevel string) string {
	var growth int
	switch competitionLevel {
	case offer.CompetitionVeryLow, offer.CompetitionLow:
		growth = pick(brand+":growth", 40, 80)
	case offer.CompetitionMedium:
		growth = pick(brand+":growth", 10, 40)
	default:
		growth = pick(brand+":growth", -10, 20)
	}
	if growth > 0 {
		return fmt.Sprintf("+%d%%", growth)
	}
	return fmt.Sprintf("%d%%", growth)
}

func estimateDomainAuthority(brand string, traffic int) int {
	switch {
	case traffic >= 1000000:
		return pick(brand+":da", 70, 90)
	case traffic >= 100000:
		return pick(brand+":da", 50, 70)
	case traffic >= 10000:
		return pick(brand+":da", 35, 55)
	default:
		return pick(brand+":da", 20, 40)
	}
}

// estimateFollowers approximates a social following as 5-10% of monthly
// traffic.
func estimateFollowers(brand string, traffic int) int {
	pct := pick(brand+":followers", 5, 10)
	return traffic * pct / 100
}

// Scalability analyzes the offer's growth potential. The caller supplies the
// competition level from the volume signal, or "" when that signal was
// unavailable; everything else is estimated from the brand token and the
// commission value.
func Scalability(offerName string, commissionValue *float64, competitionLevel string) BrandMetrics {
	brand := BrandToken(offerName)

	cookie := CookieFromCommission(commissionValue)
	traffic := estimateTraffic(brand)
	da := estimateDomainAuthority(brand, traffic)

	m := BrandMetrics{
		CookieDuration:     cookie,
		TrafficMonthly:     formatTraffic(traffic),
		GrowthPercentage:   estimateGrowth(brand, competitionLevel),
		CompetitionLevel:   competitionLevel,
		DomainAuthority:    da,
		InstagramFollowers: formatFollowers(estimateFollowers(brand, traffic)),
	}
	m.ScalabilityScore = scalabilityScore(commissionValue, competitionLevel, cookie, traffic, da)
	return m
}

// scalabilityScore sums five weighted components: commission 30, competition
// 25, cookie 15, traffic 15, domain authority 15. Unknown inputs take a
// neutral band, and the total is capped at 100.
func scalabilityScore(commissionValue *float64, competitionLevel string, cookieDays, traffic, domainAuthority int) int {
	score := 0

	switch {
	case commissionValue == nil:
		score += 10
	case *commissionValue >= 100:
		score += 30
	case *commissionValue >= 50:
		score += 25
	case *commissionValue >= 20:
		score += 15
	default:
		score += 5
	}

	switch competitionLevel {
	case offer.CompetitionVeryLow:
		score += 25
	case offer.CompetitionLow:
		score += 20
	case offer.CompetitionMedium:
		score += 12
	case offer.CompetitionHigh:
		score += 5
	default:
		score += 10
	}

	switch {
	case cookieDays >= 90:
		score += 15
	case cookieDays >= 60:
		score += 12
	case cookieDays >= 45:
		score += 8
	default:
		score += 5
	}

	switch {
	case traffic >= 100000:
		score += 15
	case traffic >= 50000:
		score += 12
	case traffic >= 10000:
		score += 8
	default:
		score += 5
	}

	switch {
	case domainAuthority >= 70:
		score += 15
	case domainAuthority >= 50:
		score += 12
	case domainAuthority >= 35:
		score += 8
	default:
		score += 5
	}

	return min(100, score)
}
