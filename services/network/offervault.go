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
	"offerscout/services/signal"
)

const offervaultBaseURL = "https://offervault.com"

// minimum directory hits before the web-search tier is skipped
const directScrapeThreshold = 10

// maximum landing pages probed for commission terms per search
const maxCommissionProbes = 5

// OfferVaultProvider discovers affiliate programs in three tiers: scrape the
// offervault.com directory, fall back to a web search for "<keyword>
// affiliate program" when the directory is thin, and finally emit curated
// directory links so a search never comes back empty.
type OfferVaultProvider struct {
	baseURL  string
	http     *http.Client
	searcher signal.Searcher // may be nil when no search backend is configured
	logger   *zap.Logger
}

func NewOfferVaultProvider(searcher signal.Searcher, logger *zap.Logger) *OfferVaultProvider {
	return &OfferVaultProvider{
		baseURL:  offervaultBaseURL,
		http:     &http.Client{Timeout: 10 * time.Second},
		searcher: searcher,
		logger:   logger,
	}
}

func (p *OfferVaultProvider) Name() string { return "offervault" }

func (p *OfferVaultProvider) TestConnection(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", directoryUserAgent)
	resp, err := p.http.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// OfferDetails is a no-op: discovery listings have no detail lookup.
func (p *OfferVaultProvider) OfferDetails(ctx context.Context, id string) (*offer.Offer, bool) {
	return nil, false
}

func (p *OfferVaultProvider) SearchOffers(ctx context.Context, q Query) []offer.Offer {
	keyword := q.Keyword
	if keyword == "" {
		keyword = "software"
	}

	if offers := p.scrapeDirectory(ctx, keyword, q.Limit); len(offers) >= directScrapeThreshold {
		p.logger.Info("offervault directory scrape succeeded", zap.Int("offers", len(offers)))
		return offers
	}

	if p.searcher != nil {
		if offers := p.searchPrograms(ctx, keyword, q.Limit); len(offers) >= 5 {
			p.logger.Info("offervault web-search discovery succeeded", zap.Int("offers", len(offers)))
			return offers
		}
	}

	return p.curatedOffers(keyword, q.Limit)
}

// ── Tier 1: directory scrape ──────────────────────────────────────────

func (p *OfferVaultProvider) scrapeDirectory(ctx context.Context, keyword string, limit int) []offer.Offer {
	target := fmt.Sprintf("%s/search/?query=%s", p.baseURL, url.QueryEscape(keyword))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", directoryUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := p.http.Do(req)
	if err != nil {
		p.logger.Warn("offervault scrape failed", zap.Error(err))
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		p.logger.Warn("offervault scrape rejected", zap.Int("status", resp.StatusCode))
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil
	}

	listings := doc.Find("tr.offer-row")
	if listings.Length() == 0 {
		listings = doc.Find("div.offer-item, div.offer-card")
	}

	var offers []offer.Offer
	listings.EachWithBreak(func(i int, row *goquery.Selection) bool {
		if limit > 0 && len(offers) >= limit {
			return false
		}
		if o, ok := p.parseListing(i+1, row); ok {
			offers = append(offers, o)
		}
		return true
	})
	return offers
}

func (p *OfferVaultProvider) parseListing(idx int, row *goquery.Selection) (offer.Offer, bool) {
	nameElem := row.Find("a.offer-name, td.name, h3, a").First()
	if nameElem.Length() == 0 {
		return offer.Offer{}, false
	}
	name := strings.TrimSpace(nameElem.Text())
	if name == "" {
		return offer.Offer{}, false
	}

	href, _ := nameElem.Attr("href")
	if href != "" && !strings.HasPrefix(href, "http") {
		href = p.baseURL + href
	}

	networkName := "unknown"
	if elem := row.Find("td.network, span.network").First(); elem.Length() > 0 {
		networkName = strings.TrimSpace(elem.Text())
	}

	kind, value := ParsePayout(row.Find("td.payout, span.payout").Text())

	id := "offervault-" + strconv.Itoa(idx)
	return offer.Offer{
		ID:                 id,
		Name:               name,
		Description:        fmt.Sprintf("Affiliate offer from %s", networkName),
		Network:            strings.ToLower(networkName),
		AdvertiserName:     firstWord(name),
		AdvertiserID:       "ov-" + strconv.Itoa(idx),
		CommissionType:     kind,
		CommissionValue:    value,
		CommissionCurrency: offer.DefaultCurrency,
		Category:           offer.CategoryDirectBrand,
		TrackingURL:        href,
		LandingPageURL:     href,
	}, true
}

// ── Tier 2: web-search discovery ──────────────────────────────────────

var (
	domainPattern      = regexp.MustCompile(`https?://(?:www\.)?([^/]+)`)
	affiliatePathRe    = regexp.MustCompile(`/(affiliate|partner|associates|referral)`)
	numberedListicleRe = regexp.MustCompile(`\d+\s+(best|top|great|affiliate)`)
)

// aggregator directories excluded from web-search discovery; they are
// covered by the scraping tiers already.
var skipDomains = []string{"offervault", "affbank", "odigger", "reddit.com", "quora.com"}

var blogDomains = []string{
	"medium.com", "blogger.com", "wordpress.com", "blogspot.com",
	"forbes.com", "entrepreneur.com", "inc.com", "techcrunch.com",
	"venturebeat.com", "mashable.com", "cnet.com", "zdnet.com",
	"influencermarketinghub.com", "affiliatebay.net", "smartpassiveincome.com",
	"neilpatel.com", "hubspot.com", "moz.com", "searchenginejournal.com",
	"investopedia.com", "pcmag.com", "tomsguide.com", "wired.com",
	"themeisle.com", "wpbeginner.com", "authorityhacker.com",
}

var listiclePhrases = []string{
	"best", "top ", "list of", "review", "comparison", "vs ",
	"how to", "guide", "ultimate", "complete", "beginner",
	" programs", " networks", " sites", "revealed",
}

func (p *OfferVaultProvider) searchPrograms(ctx context.Context, keyword string, limit int) []offer.Offer {
	query := keyword + " affiliate program"
	results, err := p.searcher.Organic(ctx, query, limit*2)
	if err != nil {
		p.logger.Warn("offervault web search failed", zap.String("query", query), zap.Error(err))
		return nil
	}

	var offers []offer.Offer
	probes := 0
	for idx, r := range results {
		if r.Link == "" || r.Title == "" {
			continue
		}

		domain := extractDomain(r.Link)
		if containsAny(strings.ToLower(domain), skipDomains) {
			continue
		}

		category := classifyResult(r.Title, r.Link, domain)

		kind := offer.CommissionVaries
		var value *float64
		var desc string
		if category == offer.CategoryDirectBrand {
			if probes < maxCommissionProbes {
				probes++
				if k, v := p.probeCommission(ctx, r.Link); v != nil {
					kind, value = k, v
				}
			}
			desc = fmt.Sprintf("Direct affiliate program from: %s\n\n%s", domain, truncate(r.Snippet, 150))
		} else {
			desc = fmt.Sprintf("Blog post listing multiple affiliate programs: %s\n\n%s", domain, truncate(r.Snippet, 150))
		}

		slug := strings.ReplaceAll(strings.ToLower(keyword), " ", "-")
		offers = append(offers, offer.Offer{
			ID:                 fmt.Sprintf("serp-%s-%d", slug, idx+1),
			Name:               truncate(r.Title, 60),
			Description:        desc,
			Network:            "discovery",
			AdvertiserName:     domain,
			AdvertiserID:       fmt.Sprintf("serp-%d", idx+1),
			CommissionType:     kind,
			CommissionValue:    value,
			CommissionCurrency: offer.DefaultCurrency,
			Category:           category,
			TrackingURL:        r.Link,
			LandingPageURL:     r.Link,
		})

		if limit > 0 && len(offers) >= limit {
			break
		}
	}
	return offers
}

// classifyResult distinguishes a brand's own affiliate page from a blog
// article listing many programs. A company page carries an affiliate-style
// URL path; listicle titles and known publisher domains mark blog posts.
func classifyResult(title, link, domain string) string {
	domainLower := strings.ToLower(domain)
	titleLower := strings.ToLower(title)

	isAffiliatePath := affiliatePathRe.MatchString(strings.ToLower(link))
	isBlogDomain := containsAny(domainLower, blogDomains)
	isListicle := numberedListicleRe.MatchString(titleLower) || containsAny(titleLower, listiclePhrases)

	if isAffiliatePath && !isBlogDomain {
		return offer.CategoryDirectBrand
	}
	if isBlogDomain || isListicle {
		return offer.CategoryBlogPost
	}
	return offer.CategoryDirectBrand
}

// commission phrasings seen on brand affiliate pages, most specific first
var (
	dollarContextRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)earn\s+\$(\d+)`),
		regexp.MustCompile(`(?i)\$(\d+)\s+(?:per|for|commission)`),
		regexp.MustCompile(`(?i)(?:commission|payout|earn|get paid)\s+(?:of|is)?\s*\$(\d+)`),
		regexp.MustCompile(`(?i)\$(\d+)\s+(?:per\s+)?(?:sale|customer|referral|signup)`),
	}
	percentContextRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)earn\s+(\d+)%`),
		regexp.MustCompile(`(?i)(\d+)%\s+commission`),
		regexp.MustCompile(`(?i)commission\s+(?:of|is)?\s*(\d+)%`),
		regexp.MustCompile(`(?i)(\d+)%\s+(?:on|per)`),
	}
)

// probeCommission fetches a brand affiliate page and pattern-matches its
// text for commission terms. Best-effort with a short timeout.
func (p *OfferVaultProvider) probeCommission(ctx context.Context, pageURL string) (string, *float64) {
	probeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", nil
	}
	req.Header.Set("User-Agent", directoryUserAgent)

	resp, err := p.http.Do(req)
	if err != nil {
		return "", nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", nil
	}
	text := doc.Text()

	for _, re := range dollarContextRes {
		if m := re.FindStringSubmatch(text); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil && v >= 10 {
				return offer.CommissionFixed, &v
			}
		}
	}
	for _, re := range percentContextRes {
		if m := re.FindStringSubmatch(text); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil && v >= 1 && v <= 100 {
				return offer.CommissionPercentage, &v
			}
		}
	}
	return "", nil
}

// ── Tier 3: curated fallback ──────────────────────────────────────────

// curatedOffers emits directory search links so a discovery sweep is never
// empty even when both scraping and web search are unavailable.
func (p *OfferVaultProvider) curatedOffers(keyword string, limit int) []offer.Offer {
	titled := titleCase(keyword)
	variations := []struct {
		title string
		term  string
	}{
		{"All " + titled + " Offers", keyword},
		{"Top " + titled + " Programs", keyword},
		{"High Paying " + titled, keyword},
		{titled + " CPA Offers", keyword},
		{titled + " Recurring", keyword},
		{"Best " + titled + " Networks", keyword},
		{titled + " Affiliate Programs", keyword},
		{"New " + titled + " Offers", keyword},
	}

	if limit <= 0 || limit > len(variations) {
		limit = len(variations)
	}

	offers := make([]offer.Offer, 0, limit)
	for idx, v := range variations[:limit] {
		slug := strings.ReplaceAll(strings.ToLower(v.term), " ", "-")
		link := fmt.Sprintf("%s/?selectedTab=topOffers&search=%s&page=1", p.baseURL, url.QueryEscape(v.term))
		offers = append(offers, offer.Offer{
			ID:   fmt.Sprintf("offervault-%s-%d", slug, idx+1),
			Name: v.title,
			Description: fmt.Sprintf(
				"Browse %s offers on OfferVault from 100+ affiliate networks including MaxBounty, ClickBank, CJ, ShareASale, Awin, and more.",
				v.term),
			Network:            p.Name(),
			AdvertiserName:     "Discovery",
			AdvertiserID:       fmt.Sprintf("discovery-%d", idx+1),
			CommissionType:     offer.CommissionVaries,
			CommissionCurrency: offer.DefaultCurrency,
			Category:           offer.CategoryBlogPost,
			TrackingURL:        link,
			LandingPageURL:     link,
		})
	}
	return offers
}

func extractDomain(link string) string {
	if m := domainPattern.FindStringSubmatch(link); m != nil {
		return m[1]
	}
	return link
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func titleCase(s string) string {
	fields := strings.Fields(strings.ToLower(s))
	for i, f := range fields {
		fields[i] = strings.ToUpper(f[:1]) + f[1:]
	}
	return strings.Join(fields, " ")
}
