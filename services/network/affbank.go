package network

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"offerscout/services/offer"
)

const affbankBaseURL = "https://affbank.com"

var (
	dollarPattern  = regexp.MustCompile(`\$(\d+(?:\.\d{2})?)`)
	percentPattern = regexp.MustCompile(`(\d+)%`)
)

// AffbankProvider scrapes the affbank.com public offer directory. The
// directory lists offers in a table: name, network, country, payout.
type AffbankProvider struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

func NewAffbankProvider(logger *zap.Logger) *AffbankProvider {
	return &AffbankProvider{
		baseURL: affbankBaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

func (p *AffbankProvider) Name() string { return "affbank" }

func (p *AffbankProvider) TestConnection(ctx context.Context) bool {
	doc, err := p.fetch(ctx, p.baseURL+"/offers/")
	return err == nil && doc != nil
}

// OfferDetails is a no-op: the directory only supports bulk listing.
func (p *AffbankProvider) OfferDetails(ctx context.Context, id string) (*offer.Offer, bool) {
	return nil, false
}

func (p *AffbankProvider) SearchOffers(ctx context.Context, q Query) []offer.Offer {
	target := p.baseURL + "/offers/"
	if q.Keyword != "" {
		target += "?search=" + url.QueryEscape(q.Keyword)
	}

	doc, err := p.fetch(ctx, target)
	if err != nil {
		p.logger.Warn("affbank scrape failed", zap.Error(err))
		return nil
	}

	var offers []offer.Offer
	doc.Find("table tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 { // header row
			return
		}
		if o, ok := p.parseRow(i, row); ok {
			offers = append(offers, o)
		}
	})

	p.logger.Info("affbank scrape complete", zap.Int("offers", len(offers)))
	return Filter(offers, q)
}

func (p *AffbankProvider) parseRow(idx int, row *goquery.Selection) (offer.Offer, bool) {
	cells := row.Find("td, th")
	if cells.Length() < 4 {
		return offer.Offer{}, false
	}

	nameLink := cells.Eq(0).Find("a").First()
	if nameLink.Length() == 0 {
		return offer.Offer{}, false
	}
	name := cleanOfferName(strings.TrimSpace(nameLink.Text()))
	if name == "" {
		return offer.Offer{}, false
	}

	href, _ := nameLink.Attr("href")
	if strings.HasPrefix(href, "/") {
		href = p.baseURL + href
	}

	networkName := "unknown"
	if link := cells.Eq(1).Find("a").First(); link.Length() > 0 {
		networkName = strings.TrimSpace(link.Text())
	}
	country := strings.TrimSpace(cells.Eq(2).Text())

	kind, value := ParsePayout(cells.Eq(3).Text())

	desc := fmt.Sprintf("Affiliate offer from %s", networkName)
	if country != "" {
		desc += fmt.Sprintf(" (Country: %s)", country)
	}
	if value != nil {
		if kind == offer.CommissionFixed {
			desc += fmt.Sprintf(" - Earn $%d", int(*value))
		} else {
			desc += fmt.Sprintf(" - Earn %d%%", int(*value))
		}
	}

	id := "affbank-" + strconv.Itoa(idx)
	return offer.Offer{
		ID:                 id,
		Name:               name,
		Description:        desc,
		Network:            strings.ToLower(networkName),
		AdvertiserName:     firstWord(name),
		AdvertiserID:       id,
		CommissionType:     kind,
		CommissionValue:    value,
		CommissionCurrency: offer.DefaultCurrency,
		Category:           offer.CategoryDirectBrand,
		TrackingURL:        href,
		LandingPageURL:     href,
	}, true
}

func (p *AffbankProvider) fetch(ctx context.Context, target string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", directoryUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("affbank returned status %d", resp.StatusCode)
	}
	return goquery.NewDocumentFromReader(resp.Body)
}

const directoryUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"

var categoryTagPattern = regexp.MustCompile(`(Sponsored|Gambling & betting|Dating|Finance|Sweepstakes)`)

// cleanOfferName strips the directory's inline category tags from a listing
// title and collapses whitespace.
func cleanOfferName(name string) string {
	name = categoryTagPattern.ReplaceAllString(name, "")
	return strings.Join(strings.Fields(name), " ")
}

// ParsePayout extracts a commission kind and value from free-form payout
// text: a dollar amount means a fixed commission, a percentage means a
// percentage commission, anything else is left unspecified.
func ParsePayout(text string) (string, *float64) {
	if m := dollarPattern.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return offer.CommissionFixed, &v
		}
	}
	if m := percentPattern.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return offer.CommissionPercentage, &v
		}
	}
	return "", nil
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return "Unknown"
	}
	return fields[0]
}
