package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"CrossoverSentinel/internal/model"

	"github.com/shopspring/decimal"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// YahooFetcher implements Fetcher and FinancialsFetcher using Yahoo Finance public APIs.
type YahooFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewYahooFetcher creates a new Yahoo Finance fetcher with optional proxy support.
func NewYahooFetcher(proxyURL string) *YahooFetcher {
	return &YahooFetcher{
		BaseURL: yahooBaseURL,
		Client:  newHTTPClient(proxyURL),
	}
}

func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// yahooChart is the response structure from Yahoo Finance chart API.
// Prices are pointers because Yahoo reports holidays and halts as null.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				GMTOffset int64 `json:"gmtoffset"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"chart"`
}

type yahooError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// yahooRange maps a trailing period onto the closest Yahoo range that covers it.
func yahooRange(period time.Duration) string {
	days := int(period.Hours() / 24)
	switch {
	case days <= 31:
		return "1mo"
	case days <= 92:
		return "3mo"
	case days <= 186:
		return "6mo"
	case days <= 366:
		return "1y"
	case days <= 731:
		return "2y"
	case days <= 1827:
		return "5y"
	default:
		return "max"
	}
}

func decimalAt(values []*float64, i int) decimal.Decimal {
	if i >= len(values) || values[i] == nil {
		return decimal.Zero
	}
	return decimal.NewFromFloat(*values[i])
}

func (f *YahooFetcher) get(ctx context.Context, u string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("yahoo decode: %w", err)
	}
	return nil
}

// FetchDailyBars returns daily bars covering the trailing period, oldest first.
func (f *YahooFetcher) FetchDailyBars(ctx context.Context, symbol string, period time.Duration) (*model.PriceSeries, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%s",
		f.BaseURL, url.PathEscape(symbol), yahooRange(period))

	var chart yahooChart
	if err := f.get(ctx, u, &chart); err != nil {
		return nil, err
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned")
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	points := make([]model.PricePoint, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue // null bar (holiday, halt)
		}
		// Exchange-local calendar day of the session.
		date := time.Unix(ts+result.Meta.GMTOffset, 0).UTC().Truncate(24 * time.Hour)
		points = append(points, model.PricePoint{
			Date:   date,
			Open:   decimalAt(quote.Open, i),
			High:   decimalAt(quote.High, i),
			Low:    decimalAt(quote.Low, i),
			Close:  decimalAt(quote.Close, i),
			Volume: decimalAt(quote.Volume, i),
		})
	}

	return &model.PriceSeries{
		Symbol:    symbol,
		Points:    normalizePoints(points),
		FetchedAt: time.Now(),
	}, nil
}

// normalizePoints sorts points by date and keeps the last point seen for a
// repeated date, so dates come out strictly increasing.
func normalizePoints(points []model.PricePoint) []model.PricePoint {
	sort.SliceStable(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	out := points[:0]
	for _, p := range points {
		if n := len(out); n > 0 && out[n-1].Date.Equal(p.Date) {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}
	return out
}
