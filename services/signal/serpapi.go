package signal

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const serpAPIBaseURL = "https://serpapi.com/search"

// SerpAPIClient implements TrendProvider, VolumeProvider and Searcher against
// the SerpAPI REST endpoint.
type SerpAPIClient struct {
	apiKey string
	http   *resty.Client
}

// NewSerpAPIClient builds a client. The key may be empty; every lookup then
// fails fast, which callers treat as "signal unavailable".
func NewSerpAPIClient(apiKey string) *SerpAPIClient {
	return &SerpAPIClient{
		apiKey: apiKey,
		http: resty.New().
			SetBaseURL(serpAPIBaseURL).
			SetTimeout(10 * time.Second).
			SetHeader("Accept", "application/json"),
	}
}

// Configured reports whether an API key is present.
func (c *SerpAPIClient) Configured() bool { return c.apiKey != "" }

var errNotConfigured = fmt.Errorf("serpapi: api key not configured")

type trendsResponse struct {
	InterestOverTime struct {
		TimelineData []struct {
			Values []struct {
				Value string `json:"value"`
			} `json:"values"`
		} `json:"timeline_data"`
	} `json:"interest_over_time"`
}

// Interest fetches Google Trends time-series data for the term and reduces
// the last 12 points to an average interest and a trend direction.
func (c *SerpAPIClient) Interest(ctx context.Context, term string) (TrendData, error) {
	if !c.Configured() {
		return TrendData{}, errNotConfigured
	}

	var out trendsResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"engine":    "google_trends",
			"q":         term,
			"data_type": "TIMESERIES",
			"api_key":   c.apiKey,
		}).
		SetResult(&out).
		Get("")
	if err != nil {
		return TrendData{}, fmt.Errorf("serpapi trends: %w", err)
	}
	if resp.IsError() {
		return TrendData{}, fmt.Errorf("serpapi trends: status %d", resp.StatusCode())
	}

	points := out.InterestOverTime.TimelineData
	if len(points) > 12 {
		points = points[len(points)-12:]
	}
	var values []float64
	for _, p := range points {
		if len(p.Values) == 0 {
			continue
		}
		v, err := strconv.ParseFloat(p.Values[0].Value, 64)
		if err != nil {
			continue
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return TrendData{}, fmt.Errorf("serpapi trends: no timeline data for %q", term)
	}

	return TrendData{
		Interest: int(mean(values)),
		Trend:    classifyTrend(values),
	}, nil
}

// classifyTrend compares the most recent three points against the earliest
// three: >20% up is rising, >20% down is declining, otherwise stable.
func classifyTrend(values []float64) string {
	avg := mean(values)
	recent, earlier := avg, avg
	if len(values) >= 3 {
		recent = mean(values[len(values)-3:])
		earlier = mean(values[:3])
	}
	switch {
	case recent > earlier*1.2:
		return TrendRising
	case recent < earlier*0.8:
		return TrendDeclining
	default:
		return TrendStable
	}
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

type searchResponse struct {
	SearchInformation struct {
		TotalResults int64 `json:"total_results"`
	} `json:"search_information"`
	OrganicResults []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic_results"`
}

// ResultCount returns the total web result count for the query.
func (c *SerpAPIClient) ResultCount(ctx context.Context, query string) (int64, error) {
	out, err := c.search(ctx, query, 0)
	if err != nil {
		return 0, err
	}
	return out.SearchInformation.TotalResults, nil
}

// Organic returns up to limit organic results for the query, paging through
// the API ten results at a time.
func (c *SerpAPIClient) Organic(ctx context.Context, query string, limit int) ([]OrganicResult, error) {
	if limit <= 0 {
		limit = 10
	}
	var results []OrganicResult
	for start := 0; len(results) < limit; start += 10 {
		out, err := c.search(ctx, query, start)
		if err != nil {
			if len(results) > 0 {
				zap.L().Warn("serpapi organic page failed, returning partial results",
					zap.String("query", query), zap.Error(err))
				break
			}
			return nil, err
		}
		if len(out.OrganicResults) == 0 {
			break
		}
		for _, r := range out.OrganicResults {
			results = append(results, OrganicResult{Title: r.Title, Link: r.Link, Snippet: r.Snippet})
			if len(results) >= limit {
				break
			}
		}
	}
	return results, nil
}

func (c *SerpAPIClient) search(ctx context.Context, query string, start int) (*searchResponse, error) {
	if !c.Configured() {
		return nil, errNotConfigured
	}

	var out searchResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"engine":  "google",
			"q":       query,
			"num":     "10",
			"start":   strconv.Itoa(start),
			"api_key": c.apiKey,
		}).
		SetResult(&out).
		Get("")
	if err != nil {
		return nil, fmt.Errorf("serpapi search: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("serpapi search: status %d", resp.StatusCode())
	}
	return &out, nil
}
