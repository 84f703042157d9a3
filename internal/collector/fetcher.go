package collector

import (
	"context"
	"time"

	"CrossoverSentinel/internal/model"
)

// Fetcher defines the interface for fetching daily price history.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, symbol string, period time.Duration) (*model.PriceSeries, error)
	Name() string
}

// FinancialsFetcher defines the interface for fetching fundamentals.
type FinancialsFetcher interface {
	FetchFinancials(ctx context.Context, symbol string) (*model.FinancialSnapshot, error)
}

// UniverseProvider supplies the symbols of one scan.
type UniverseProvider interface {
	ListSymbols(ctx context.Context) ([]string, error)
}

// Standard history periods.
const (
	PeriodSixMonths = 183 * 24 * time.Hour
	PeriodOneYear   = 365 * 24 * time.Hour
)
