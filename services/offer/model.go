// Package offer defines the normalized offer entity shared by every source
// provider, the scoring engine and the cache store.
package offer

// Commission kinds. A commission value is only meaningful together with its
// kind: Fixed values are currency units, Percentage values are percentage
// points. Values of differing kinds must never be compared directly.
const (
	CommissionFixed      = "Fixed"
	CommissionPercentage = "Percentage"
	CommissionVaries     = "Varies"
)

// Categories observed in discovery results. The set is open; providers may
// tag offers with values outside this list.
const (
	CategoryDirectBrand = "Direct Brand"
	CategoryBlogPost    = "Blog Post"
)

// Opportunity rating labels, keyed off the opportunity score.
const (
	RatingExcellent = "Excellent"
	RatingGood      = "Good"
	RatingFair      = "Fair"
	RatingPoor      = "Poor"
)

// Competition level labels produced by the volume signal.
const (
	CompetitionVeryLow = "Very Low"
	CompetitionLow     = "Low"
	CompetitionMedium  = "Medium"
	CompetitionHigh    = "High"
)

// KeywordVolume is one generated SEO keyword with its estimated monthly
// search volume (formatted magnitude string such as "1.2k").
type KeywordVolume struct {
	Keyword string `json:"keyword"`
	Volume  string `json:"volume"`
}

// Offer is one promotable program normalized across heterogeneous sources.
//
// ID, Name and Network are set once at construction and never mutated. All
// score fields stay nil until the scoring engine runs; providers never write
// them. Optional numerics are pointers so that "absent" survives a cache
// round trip without collapsing to zero.
type Offer struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Network     string `json:"network"`

	AdvertiserName string `json:"advertiser_name"`
	AdvertiserID   string `json:"advertiser_id"`

	CommissionType     string   `json:"commission_type,omitempty"`
	CommissionValue    *float64 `json:"commission_value,omitempty"`
	CommissionCurrency string   `json:"commission_currency"`

	EPC            *float64 `json:"epc,omitempty"`
	ConversionRate *float64 `json:"conversion_rate,omitempty"`
	AvgSaleValue   *float64 `json:"avg_sale_value,omitempty"`

	PopularityScore *float64 `json:"popularity_score,omitempty"`

	Category    string `json:"category,omitempty"`
	Subcategory string `json:"subcategory,omitempty"`

	TrackingURL    string `json:"tracking_url,omitempty"`
	LandingPageURL string `json:"landing_page_url,omitempty"`

	// Channel-fit suitability score, written by the scoring engine.
	SuitabilityScore *float64 `json:"youtube_score,omitempty"`

	// Search interest signal and commission-driven opportunity analysis.
	SearchInterest    *int            `json:"search_interest,omitempty"`
	SearchTrend       string          `json:"search_trend,omitempty"`
	PotentialScore    *int            `json:"potential_score,omitempty"`
	PotentialRating   string          `json:"potential_rating,omitempty"`
	PotentialAnalysis string          `json:"potential_analysis,omitempty"`
	RelatedKeywords   []KeywordVolume `json:"related_keywords,omitempty"`

	// Brand scalability analysis. Traffic, growth, domain authority and
	// follower figures are heuristic estimates, not measurements.
	ScalabilityScore   *int   `json:"scalability_score,omitempty"`
	CookieDuration     *int   `json:"cookie_duration,omitempty"`
	TrafficMonthly     string `json:"traffic_monthly,omitempty"`
	GrowthPercentage   string `json:"growth_percentage,omitempty"`
	CompetitionLevel   string `json:"competition_level,omitempty"`
	DomainAuthority    *int   `json:"domain_authority,omitempty"`
	InstagramFollowers string `json:"instagram_followers,omitempty"`
}

// DefaultCurrency is applied when a provider does not report one.
const DefaultCurrency = "USD"

// Suitability returns the suitability score, treating absent as zero for
// ranking purposes.
func (o *Offer) Suitability() float64 {
	if o.SuitabilityScore == nil {
		return 0
	}
	return *o.SuitabilityScore
}
