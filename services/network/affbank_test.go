package network

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"offerscout/services/offer"
)

const affbankFixture = `<html><body><table>
<tr><th>Offer</th><th>Network</th><th>Country</th><th>Payout</th></tr>
<tr>
  <td><a href="/offer/101">SuperVPN Trial</a></td>
  <td><a href="/network/maxbounty">MaxBounty</a></td>
  <td>US</td>
  <td>$42.00</td>
</tr>
<tr>
  <td><a href="/offer/102">CloudHost Signup Sponsored</a></td>
  <td><a href="/network/clickbank">ClickBank</a></td>
  <td>DE</td>
  <td>25%</td>
</tr>
<tr>
  <td>malformed row</td>
</tr>
</table></body></html>`

func TestAffbankSearchOffers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(affbankFixture))
	}))
	defer srv.Close()

	p := NewAffbankProvider(zap.NewNop())
	p.baseURL = srv.URL

	offers := p.SearchOffers(context.Background(), Query{})
	require.Len(t, offers, 2)

	first := offers[0]
	require.Equal(t, "SuperVPN Trial", first.Name)
	require.Equal(t, "maxbounty", first.Network)
	require.Equal(t, "SuperVPN", first.AdvertiserName)
	require.Equal(t, offer.CommissionFixed, first.CommissionType)
	require.Equal(t, 42.0, *first.CommissionValue)
	require.Equal(t, srv.URL+"/offer/101", first.TrackingURL)
	require.Contains(t, first.Description, "Country: US")

	second := offers[1]
	require.Equal(t, "CloudHost Signup", second.Name)
	require.Equal(t, offer.CommissionPercentage, second.CommissionType)
	require.Equal(t, 25.0, *second.CommissionValue)
}

func TestAffbankSearchOffersKeywordFilter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(affbankFixture))
	}))
	defer srv.Close()

	p := NewAffbankProvider(zap.NewNop())
	p.baseURL = srv.URL

	offers := p.SearchOffers(context.Background(), Query{Keyword: "vpn"})
	require.Len(t, offers, 1)
	require.Equal(t, "SuperVPN Trial", offers[0].Name)
}

func TestAffbankScrapeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	p := NewAffbankProvider(zap.NewNop())
	p.baseURL = srv.URL

	require.Empty(t, p.SearchOffers(context.Background(), Query{}))
	require.False(t, p.TestConnection(context.Background()))
}
