package collector

import (
	"context"
	"hash/fnv"
	"math"
	"time"

	"CrossoverSentinel/internal/model"

	"github.com/shopspring/decimal"
)

// MockFetcher returns controllable fixed data for development and testing.
// Symbols without explicit closes get a deterministic wave derived from the symbol.
type MockFetcher struct {
	Price     float64
	Closes    map[string][]float64
	Errors    map[string]error
	Snapshots map[string]*model.FinancialSnapshot
	Start     time.Time
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(ctx context.Context, symbol string, period time.Duration) (*model.PriceSeries, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := m.Errors[symbol]; err != nil {
		return nil, err
	}
	start := m.Start
	if start.IsZero() {
		start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	if closes, ok := m.Closes[symbol]; ok {
		return SeriesFromCloses(symbol, start, closes), nil
	}
	days := int(period.Hours()/24) * 5 / 7
	return SeriesFromCloses(symbol, start, generateMockCloses(symbol, m.Price, days)), nil
}

func (m *MockFetcher) FetchFinancials(ctx context.Context, symbol string) (*model.FinancialSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := m.Errors[symbol]; err != nil {
		return nil, err
	}
	return m.Snapshots[symbol], nil
}

// generateMockCloses builds a sine wave whose cycle length depends on the symbol,
// so a mock scan produces a spread of crossovers.
func generateMockCloses(symbol string, basePrice float64, count int) []float64 {
	if basePrice <= 0 {
		basePrice = 100
	}
	h := fnv.New32a()
	h.Write([]byte(symbol))
	cycle := 20 + float64(h.Sum32()%40)

	closes := make([]float64, count)
	for i := range closes {
		closes[i] = basePrice * (1 + 0.05*math.Sin(2*math.Pi*float64(i)/cycle))
	}
	return closes
}

// SeriesFromCloses builds a daily series on consecutive weekdays from start.
func SeriesFromCloses(symbol string, start time.Time, closes []float64) *model.PriceSeries {
	points := make([]model.PricePoint, len(closes))
	day := start
	for i, c := range closes {
		for day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			day = day.AddDate(0, 0, 1)
		}
		p := decimal.NewFromFloat(c)
		points[i] = model.PricePoint{
			Date:   day,
			Open:   p,
			High:   p.Mul(decimal.NewFromFloat(1.005)),
			Low:    p.Mul(decimal.NewFromFloat(0.995)),
			Close:  p,
			Volume: decimal.NewFromInt(1000000),
		}
		day = day.AddDate(0, 0, 1)
	}
	return &model.PriceSeries{Symbol: symbol, Points: points, FetchedAt: start}
}
