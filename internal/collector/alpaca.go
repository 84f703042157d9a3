package collector

import (
	"context"
	"fmt"
	"time"

	"CrossoverSentinel/internal/model"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/shopspring/decimal"
)

// AlpacaFetcher implements Fetcher using the Alpaca market data API.
type AlpacaFetcher struct {
	Client *marketdata.Client
}

// NewAlpacaFetcher creates a fetcher authenticated with the given key pair.
func NewAlpacaFetcher(apiKey, apiSecret string) *AlpacaFetcher {
	return &AlpacaFetcher{
		Client: marketdata.NewClient(marketdata.ClientOpts{
			APIKey:    apiKey,
			APISecret: apiSecret,
		}),
	}
}

func (f *AlpacaFetcher) Name() string { return "alpaca" }

func (f *AlpacaFetcher) FetchDailyBars(ctx context.Context, symbol string, period time.Duration) (*model.PriceSeries, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	end := time.Now()
	bars, err := f.Client.GetBars(symbol, marketdata.GetBarsRequest{
		TimeFrame: marketdata.OneDay,
		Start:     end.Add(-period),
		End:       end,
	})
	if err != nil {
		return nil, fmt.Errorf("alpaca bars: %w", err)
	}

	points := make([]model.PricePoint, 0, len(bars))
	for _, b := range bars {
		points = append(points, model.PricePoint{
			Date:   b.Timestamp.UTC().Truncate(24 * time.Hour),
			Open:   decimal.NewFromFloat(b.Open),
			High:   decimal.NewFromFloat(b.High),
			Low:    decimal.NewFromFloat(b.Low),
			Close:  decimal.NewFromFloat(b.Close),
			Volume: decimal.NewFromFloat(float64(b.Volume)),
		})
	}
	return &model.PriceSeries{
		Symbol:    symbol,
		Points:    normalizePoints(points),
		FetchedAt: time.Now(),
	}, nil
}
