// Package signal defines the external signal-provider contracts consumed by
// the scoring engine and the discovery provider, plus the SerpAPI-backed
// implementations.
package signal

import "context"

// Trend values reported by the search-interest signal.
const (
	TrendRising    = "rising"
	TrendStable    = "stable"
	TrendDeclining = "declining"
)

// TrendData is the search-interest lookup result for one term.
type TrendData struct {
	Interest int    // average interest over the lookback window, 0-100
	Trend    string // rising, stable or declining
}

// TrendProvider looks up search-interest data for a brand term.
type TrendProvider interface {
	Interest(ctx context.Context, term string) (TrendData, error)
}

// VolumeProvider reports the number of web results for a query, used as a
// competitive-density proxy.
type VolumeProvider interface {
	ResultCount(ctx context.Context, query string) (int64, error)
}

// OrganicResult is one web search hit returned by a Searcher.
type OrganicResult struct {
	Title   string
	Link    string
	Snippet string
}

// Searcher runs a plain web search, used by discovery providers to find
// affiliate programs beyond the scraped directories.
type Searcher interface {
	Organic(ctx context.Context, query string, limit int) ([]OrganicResult, error)
}
