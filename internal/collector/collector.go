package collector

import (
	"context"
	"fmt"
	"time"

	"CrossoverSentinel/internal/model"

	"go.uber.org/zap"
)

// Collector turns fetcher errors into explicit "no data" results.
// Nothing it returns is an error: unavailable data is (nil, false).
type Collector struct {
	Fetcher    Fetcher
	Financials FinancialsFetcher
	Timeout    time.Duration
	Logger     *zap.Logger
}

// NewCollector creates a new Collector. financials may be nil.
func NewCollector(fetcher Fetcher, financials FinancialsFetcher, timeout time.Duration, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{
		Fetcher:    fetcher,
		Financials: financials,
		Timeout:    timeout,
		Logger:     logger,
	}
}

func (c *Collector) Name() string { return c.Fetcher.Name() }

// FetchHistory returns the daily history of symbol over the trailing period.
func (c *Collector) FetchHistory(ctx context.Context, symbol string, period time.Duration) (*model.PriceSeries, bool) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	series, err := c.Fetcher.FetchDailyBars(ctx, symbol, period)
	if err != nil {
		c.unavailable("history", symbol, err)
		return nil, false
	}
	if series.IsEmpty() {
		c.Logger.Debug("empty history", zap.String("symbol", symbol), zap.String("source", c.Fetcher.Name()))
		return nil, false
	}
	return series, true
}

// FetchFinancials returns the fundamentals snapshot of symbol.
func (c *Collector) FetchFinancials(ctx context.Context, symbol string) (*model.FinancialSnapshot, bool) {
	if c.Financials == nil {
		return nil, false
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	snap, err := c.Financials.FetchFinancials(ctx, symbol)
	if err != nil {
		c.unavailable("financials", symbol, err)
		return nil, false
	}
	return snap, snap != nil
}

func (c *Collector) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.Timeout)
}

func (c *Collector) unavailable(what, symbol string, err error) {
	err = fmt.Errorf("%w: %s for %s: %v", model.ErrDataUnavailable, what, symbol, err)
	c.Logger.Warn("fetch failed",
		zap.String("symbol", symbol),
		zap.String("source", c.Fetcher.Name()),
		zap.Error(err),
	)
}
