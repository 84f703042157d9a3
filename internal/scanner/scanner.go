// Package scanner runs the crossover detector over a universe of symbols.
package scanner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"CrossoverSentinel/internal/aggregator"
	"CrossoverSentinel/internal/calculator"
	"CrossoverSentinel/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HistoryProvider returns the daily history of a symbol, or false when none is available.
type HistoryProvider interface {
	FetchHistory(ctx context.Context, symbol string, period time.Duration) (*model.PriceSeries, bool)
}

// ProgressFunc is told how many symbols have been processed so far.
type ProgressFunc func(completed, total int)

// Scanner detects recent crossovers across many symbols.
type Scanner struct {
	History HistoryProvider
	Workers int
	Logger  *zap.Logger
}

// New creates a Scanner. Fewer than one worker means sequential processing.
func New(history HistoryProvider, workers int, logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if workers < 1 {
		workers = 1
	}
	return &Scanner{History: history, Workers: workers, Logger: logger}
}

// Scan processes symbols and returns the aggregated crossovers of the
// trailing req.LookbackDays rows of each one. A symbol without data adds
// nothing. If ctx is cancelled the events gathered so far are returned with
// Partial set, together with an error wrapping ErrScanAborted.
func (s *Scanner) Scan(ctx context.Context, symbols []string, req Request, onProgress ProgressFunc) (*model.ScanResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var (
		mu        sync.Mutex
		events    []model.CrossoverEvent
		completed int
		noData    int
		total     = len(symbols)
		started   = time.Now()
	)

	jobs := make(chan string)
	workers := s.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > total {
		workers = total
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for symbol := range jobs {
				if ctx.Err() != nil {
					continue
				}
				found, ok := s.scanSymbol(ctx, symbol, req)

				mu.Lock()
				if ctx.Err() == nil {
					events = append(events, found...)
					completed++
					if !ok {
						noData++
					}
					if onProgress != nil {
						onProgress(completed, total)
					}
				}
				mu.Unlock()
			}
		}()
	}

feed:
	for _, symbol := range symbols {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- symbol:
		}
	}
	close(jobs)
	wg.Wait()

	res := aggregator.Aggregate(events, req.Filter)
	res.RunID = uuid.NewString()
	res.Params = req.Params()
	res.Stats = model.ScanStats{
		Total:      total,
		Processed:  completed,
		NoData:     noData,
		StartedAt:  started,
		FinishedAt: time.Now(),
	}

	if completed < total && ctx.Err() != nil {
		res.Partial = true
		s.Logger.Warn("scan aborted",
			zap.String("run_id", res.RunID),
			zap.Int("processed", completed),
			zap.Int("total", total),
		)
		return res, fmt.Errorf("%w after %d of %d symbols: %w", model.ErrScanAborted, completed, total, ctx.Err())
	}

	s.Logger.Info("scan finished",
		zap.String("run_id", res.RunID),
		zap.Int("symbols", total),
		zap.Int("no_data", noData),
		zap.Int("golden", res.GoldenCount),
		zap.Int("death", res.DeathCount),
		zap.Duration("elapsed", res.Duration()),
	)
	return res, nil
}

// scanSymbol returns the symbol's events in the lookback window and whether any history was found.
func (s *Scanner) scanSymbol(ctx context.Context, symbol string, req Request) ([]model.CrossoverEvent, bool) {
	series, ok := s.History.FetchHistory(ctx, symbol, req.historyPeriod())
	if !ok {
		return nil, false
	}
	ind, ok := calculator.Compute(series, req.EMAPeriod, req.SMAPeriod)
	if !ok {
		return nil, false
	}
	found := calculator.Crossovers(ind, req.LookbackDays)
	if len(found) > 0 {
		s.Logger.Debug("crossover", zap.String("symbol", symbol), zap.Int("events", len(found)))
	}
	return found, true
}
