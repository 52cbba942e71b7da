package network

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"offerscout/services/offer"
)

const impactBaseURL = "https://api.impact.com"

// ImpactProvider lists active campaigns from the Impact partner API.
// Impact calls offers "campaigns"; commission terms live on a separate
// contract resource referenced from each campaign.
type ImpactProvider struct {
	accountSID string
	http       *resty.Client
	logger     *zap.Logger
}

func NewImpactProvider(accountSID, authToken string, logger *zap.Logger) *ImpactProvider {
	return &ImpactProvider{
		accountSID: accountSID,
		http: resty.New().
			SetBaseURL(impactBaseURL).
			SetBasicAuth(accountSID, authToken).
			SetTimeout(15 * time.Second).
			SetHeader("Accept", "application/json"),
		logger: logger,
	}
}

func (p *ImpactProvider) Name() string { return "impact" }

func (p *ImpactProvider) TestConnection(ctx context.Context) bool {
	resp, err := p.http.R().
		SetContext(ctx).
		SetQueryParam("PageSize", "1").
		Get(p.campaignsPath())
	if err != nil {
		p.logger.Warn("impact connection probe failed", zap.Error(err))
		return false
	}
	return resp.IsSuccess()
}

type impactCampaignList struct {
	Campaigns []impactCampaign `json:"Campaigns"`
}

type impactCampaign struct {
	CampaignID          any    `json:"CampaignId"`
	CampaignName        string `json:"CampaignName"`
	CampaignDescription string `json:"CampaignDescription"`
	AdvertiserName      string `json:"AdvertiserName"`
	AdvertiserID        any    `json:"AdvertiserId"`
	Category            string `json:"Category"`
	TrackingLink        string `json:"TrackingLink"`
	CampaignURL         string `json:"CampaignUrl"`
	ContractURI         string `json:"ContractUri"`
	Stats               struct {
		EPC             *float64 `json:"EPC"`
		ConversionRate  *float64 `json:"ConversionRate"`
		PopularityScore *float64 `json:"PopularityScore"`
	} `json:"Stats"`
}

type impactContract struct {
	Terms struct {
		EventPayouts []struct {
			DefaultPayoutRate *float64 `json:"DefaultPayoutRate"`
			PayoutGroups      []struct {
				Payout *float64 `json:"Payout"`
			} `json:"PayoutGroups"`
		} `json:"EventPayouts"`
	} `json:"Terms"`
}

func (p *ImpactProvider) SearchOffers(ctx context.Context, q Query) []offer.Offer {
	req := p.http.R().
		SetContext(ctx).
		SetQueryParam("CampaignState", "ACTIVE")
	if q.Limit > 0 {
		req.SetQueryParam("PageSize", strconv.Itoa(q.Limit))
	}
	if q.Category != "" {
		req.SetQueryParam("CampaignCategory", q.Category)
	}

	var list impactCampaignList
	resp, err := req.SetResult(&list).Get(p.campaignsPath())
	if err != nil {
		p.logger.Warn("impact search failed", zap.Error(err))
		return nil
	}
	if resp.IsError() {
		p.logger.Warn("impact search rejected", zap.Int("status", resp.StatusCode()))
		return nil
	}

	offers := make([]offer.Offer, 0, len(list.Campaigns))
	for i := range list.Campaigns {
		o := p.campaignToOffer(&list.Campaigns[i])
		p.attachContractTerms(ctx, &o, list.Campaigns[i].ContractURI)
		offers = append(offers, o)
	}

	return Filter(offers, q)
}

func (p *ImpactProvider) OfferDetails(ctx context.Context, id string) (*offer.Offer, bool) {
	var campaign impactCampaign
	resp, err := p.http.R().
		SetContext(ctx).
		SetResult(&campaign).
		Get(p.campaignsPath() + "/" + id)
	if err != nil || resp.IsError() {
		return nil, false
	}

	o := p.campaignToOffer(&campaign)
	p.attachContractTerms(ctx, &o, campaign.ContractURI)
	return &o, true
}

func (p *ImpactProvider) campaignsPath() string {
	return fmt.Sprintf("/Mediapartners/%s/Campaigns", p.accountSID)
}

// attachContractTerms resolves the campaign's contract to fill commission
// kind and value. A rate maps to a percentage commission, a payout-group
// amount to a fixed one. Failures leave the offer without commission data.
func (p *ImpactProvider) attachContractTerms(ctx context.Context, o *offer.Offer, contractURI string) {
	if contractURI == "" {
		return
	}

	var contract impactContract
	resp, err := p.http.R().SetContext(ctx).SetResult(&contract).Get(contractURI)
	if err != nil || resp.IsError() {
		p.logger.Debug("impact contract fetch failed", zap.String("offer", o.Name), zap.Error(err))
		return
	}

	payouts := contract.Terms.EventPayouts
	if len(payouts) == 0 {
		return
	}
	first := payouts[0]

	if first.DefaultPayoutRate != nil {
		o.CommissionType = offer.CommissionPercentage
		o.CommissionValue = first.DefaultPayoutRate
		return
	}
	if len(first.PayoutGroups) > 0 && first.PayoutGroups[0].Payout != nil {
		o.CommissionType = offer.CommissionFixed
		o.CommissionValue = first.PayoutGroups[0].Payout
	}
}

func (p *ImpactProvider) campaignToOffer(c *impactCampaign) offer.Offer {
	return offer.Offer{
		ID:                 anyToString(c.CampaignID),
		Name:               c.CampaignName,
		Description:        c.CampaignDescription,
		Network:            p.Name(),
		AdvertiserName:     c.AdvertiserName,
		AdvertiserID:       anyToString(c.AdvertiserID),
		CommissionCurrency: offer.DefaultCurrency,
		EPC:                c.Stats.EPC,
		ConversionRate:     c.Stats.ConversionRate,
		PopularityScore:    c.Stats.PopularityScore,
		Category:           c.Category,
		TrackingURL:        c.TrackingLink,
		LandingPageURL:     c.CampaignURL,
	}
}

// anyToString renders the API's sometimes-numeric, sometimes-string ids.
func anyToString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}
