// Package scoring derives suitability, opportunity and scalability metrics
// for offers. Scorers are pure over the offer plus optional signal lookups
// and degrade to neutral contributions when a signal is absent.
package scoring

import (
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"
)

var (
	genericAffiliateWords = regexp.MustCompile(`(?i)\b(affiliate|program|partners?|associates?|referral|cpa|commission)\b`)
	nonWordChars          = regexp.MustCompile(`[^\w\s-]`)
)

// BrandToken extracts the brand keyword from an offer name: the first word
// left after stripping generic affiliate vocabulary and symbols.
//
// "Rewardful Affiliate Program" yields "Rewardful".
func BrandToken(offerName string) string {
	clean := genericAffiliateWords.ReplaceAllString(offerName, "")
	clean = nonWordChars.ReplaceAllString(clean, "")

	if words := strings.Fields(clean); len(words) > 0 {
		return words[0]
	}
	if words := strings.Fields(offerName); len(words) > 0 {
		return words[0]
	}
	return "unknown"
}

// pick returns a deterministic value in [lo, hi] derived from the seed.
// Estimates built on it are stable across runs for the same brand, which
// keeps daily cache rewrites from churning rows that did not change.
func pick(seed string, lo, hi int) int {
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(seed)))
	span := hi - lo + 1
	return lo + int(h.Sum32()%uint32(span))
}

// formatCount renders 1500 as "1.5k" and 1000 as "1k"; values under a
// thousand print as-is.
func formatCount(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	s := fmt.Sprintf("%.1fk", float64(n)/1000)
	return strings.Replace(s, ".0k", "k", 1)
}

// formatTraffic renders a monthly traffic estimate: "45K/mo", "2.3M/mo".
func formatTraffic(n int) string {
	switch {
	case n >= 1000000:
		s := fmt.Sprintf("%.1fM/mo", float64(n)/1000000)
		return strings.Replace(s, ".0M", "M", 1)
	case n >= 1000:
		return fmt.Sprintf("%dK/mo", n/1000)
	default:
		return fmt.Sprintf("%d/mo", n)
	}
}

// formatFollowers renders a follower estimate: "12K", "1.2M".
func formatFollowers(n int) string {
	switch {
	case n >= 1000000:
		s := fmt.Sprintf("%.1fM", float64(n)/1000000)
		return strings.Replace(s, ".0M", "M", 1)
	case n >= 1000:
		return fmt.Sprintf("%dK", n/1000)
	default:
		return fmt.Sprintf("%d", n)
	}
}
