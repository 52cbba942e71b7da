package cache

import (
	"encoding/json"
	"time"

	"offerscout/services/offer"
)

// CachedOffer is one offer row under a search key. Column order mirrors the
// offer attribute list so the table doubles as a human-readable export.
// Numeric columns are nullable so that "unset" survives a round trip without
// collapsing to zero. RowID preserves the write order of a key's rows.
type CachedOffer struct {
	RowID     int64  `gorm:"column:row_id;primaryKey;autoIncrement"`
	SearchKey string `gorm:"column:search_key;index"`

	OfferID            string   `gorm:"column:id"`
	Name               string   `gorm:"column:name"`
	Description        string   `gorm:"column:description"`
	Network            string   `gorm:"column:network"`
	AdvertiserName     string   `gorm:"column:advertiser_name"`
	AdvertiserID       string   `gorm:"column:advertiser_id"`
	CommissionType     string   `gorm:"column:commission_type"`
	CommissionValue    *float64 `gorm:"column:commission_value"`
	CommissionCurrency string   `gorm:"column:commission_currency"`
	EPC                *float64 `gorm:"column:epc"`
	ConversionRate     *float64 `gorm:"column:conversion_rate"`
	AvgSaleValue       *float64 `gorm:"column:avg_sale_value"`
	PopularityScore    *float64 `gorm:"column:popularity_score"`
	Category           string   `gorm:"column:category"`
	Subcategory        string   `gorm:"column:subcategory"`
	TrackingURL        string   `gorm:"column:tracking_url"`
	LandingPageURL     string   `gorm:"column:landing_page_url"`
	SuitabilityScore   *float64 `gorm:"column:youtube_score"`
	SearchInterest     *int     `gorm:"column:search_interest"`
	SearchTrend        string   `gorm:"column:search_trend"`
	PotentialScore     *int     `gorm:"column:potential_score"`
	PotentialRating    string   `gorm:"column:potential_rating"`
	PotentialAnalysis  string   `gorm:"column:potential_analysis"`
	RelatedKeywords    string   `gorm:"column:related_keywords"`
	ScalabilityScore   *int     `gorm:"column:scalability_score"`
	CookieDuration     *int     `gorm:"column:cookie_duration"`
	TrafficMonthly     string   `gorm:"column:traffic_monthly"`
	GrowthPercentage   string   `gorm:"column:growth_percentage"`
	CompetitionLevel   string   `gorm:"column:competition_level"`
	DomainAuthority    *int     `gorm:"column:domain_authority"`
	InstagramFollowers string   `gorm:"column:instagram_followers"`
}

func (CachedOffer) TableName() string { return "cached_offers" }

// Freshness records the calendar date a key's rows were last rewritten.
type Freshness struct {
	SearchKey       string `gorm:"column:search_key;primaryKey"`
	LastUpdatedDate string `gorm:"column:last_updated_date"`
}

func (Freshness) TableName() string { return "cache_freshness" }

// FeedbackEntry is one append-only user feedback record.
type FeedbackEntry struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Timestamp time.Time `gorm:"column:timestamp"`
	Name      string    `gorm:"column:name"`
	Message   string    `gorm:"column:message"`
}

func (FeedbackEntry) TableName() string { return "feedback_entries" }

func newCachedOffer(key string, o *offer.Offer) CachedOffer {
	var related string
	if len(o.RelatedKeywords) > 0 {
		if raw, err := json.Marshal(o.RelatedKeywords); err == nil {
			related = string(raw)
		}
	}

	return CachedOffer{
		SearchKey:          key,
		OfferID:            o.ID,
		Name:               o.Name,
		Description:        o.Description,
		Network:            o.Network,
		AdvertiserName:     o.AdvertiserName,
		AdvertiserID:       o.AdvertiserID,
		CommissionType:     o.CommissionType,
		CommissionValue:    o.CommissionValue,
		CommissionCurrency: o.CommissionCurrency,
		EPC:                o.EPC,
		ConversionRate:     o.ConversionRate,
		AvgSaleValue:       o.AvgSaleValue,
		PopularityScore:    o.PopularityScore,
		Category:           o.Category,
		Subcategory:        o.Subcategory,
		TrackingURL:        o.TrackingURL,
		LandingPageURL:     o.LandingPageURL,
		SuitabilityScore:   o.SuitabilityScore,
		SearchInterest:     o.SearchInterest,
		SearchTrend:        o.SearchTrend,
		PotentialScore:     o.PotentialScore,
		PotentialRating:    o.PotentialRating,
		PotentialAnalysis:  o.PotentialAnalysis,
		RelatedKeywords:    related,
		ScalabilityScore:   o.ScalabilityScore,
		CookieDuration:     o.CookieDuration,
		TrafficMonthly:     o.TrafficMonthly,
		GrowthPercentage:   o.GrowthPercentage,
		CompetitionLevel:   o.CompetitionLevel,
		DomainAuthority:    o.DomainAuthority,
		InstagramFollowers: o.InstagramFollowers,
	}
}

// toOffer converts the row back. Rows missing both id and name are treated
// as corrupt and skipped; a bad keyword blob only drops the keyword list.
func (c *CachedOffer) toOffer() (offer.Offer, bool) {
	if c.OfferID == "" && c.Name == "" {
		return offer.Offer{}, false
	}

	var related []offer.KeywordVolume
	if c.RelatedKeywords != "" {
		if err := json.Unmarshal([]byte(c.RelatedKeywords), &related); err != nil {
			related = nil
		}
	}

	currency := c.CommissionCurrency
	if currency == "" {
		currency = offer.DefaultCurrency
	}

	return offer.Offer{
		ID:                 c.OfferID,
		Name:               c.Name,
		Description:        c.Description,
		Network:            c.Network,
		AdvertiserName:     c.AdvertiserName,
		AdvertiserID:       c.AdvertiserID,
		CommissionType:     c.CommissionType,
		CommissionValue:    c.CommissionValue,
		CommissionCurrency: currency,
		EPC:                c.EPC,
		ConversionRate:     c.ConversionRate,
		AvgSaleValue:       c.AvgSaleValue,
		PopularityScore:    c.PopularityScore,
		Category:           c.Category,
		Subcategory:        c.Subcategory,
		TrackingURL:        c.TrackingURL,
		LandingPageURL:     c.LandingPageURL,
		SuitabilityScore:   c.SuitabilityScore,
		SearchInterest:     c.SearchInterest,
		SearchTrend:        c.SearchTrend,
		PotentialScore:     c.PotentialScore,
		PotentialRating:    c.PotentialRating,
		PotentialAnalysis:  c.PotentialAnalysis,
		RelatedKeywords:    related,
		ScalabilityScore:   c.ScalabilityScore,
		CookieDuration:     c.CookieDuration,
		TrafficMonthly:     c.TrafficMonthly,
		GrowthPercentage:   c.GrowthPercentage,
		CompetitionLevel:   c.CompetitionLevel,
		DomainAuthority:    c.DomainAuthority,
		InstagramFollowers: c.InstagramFollowers,
	}, true
}
