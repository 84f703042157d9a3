// Package detail assembles the per-symbol views: the EMA/SMA overlay chart and
// the fundamentals report.
package detail

import (
	"context"
	"fmt"
	"sort"
	"time"

	"CrossoverSentinel/internal/calculator"
	"CrossoverSentinel/internal/collector"
	"CrossoverSentinel/internal/model"
	"CrossoverSentinel/internal/scanner"

	"go.uber.org/zap"
)

// FinancialsProvider returns the fundamentals snapshot of a symbol, or false when none is available.
type FinancialsProvider interface {
	FetchFinancials(ctx context.Context, symbol string) (*model.FinancialSnapshot, bool)
}

// Service builds detail views from a history and a financials provider.
type Service struct {
	History       scanner.HistoryProvider
	Financials    FinancialsProvider
	OverlayPeriod time.Duration
	ReportPeriod  time.Duration
	TopHolders    int
	Logger        *zap.Logger
}

// NewService uses six months of history for overlays and one year for reports.
func NewService(history scanner.HistoryProvider, financials FinancialsProvider, topHolders int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		History:       history,
		Financials:    financials,
		OverlayPeriod: collector.PeriodSixMonths,
		ReportPeriod:  collector.PeriodOneYear,
		TopHolders:    topHolders,
		Logger:        logger,
	}
}

// Overlay returns the close, EMA and SMA series of symbol with every point classified.
func (s *Service) Overlay(ctx context.Context, symbol string, emaPeriod, smaPeriod int) (*model.IndicatorSeries, error) {
	req := scanner.Request{EMAPeriod: emaPeriod, SMAPeriod: smaPeriod, LookbackDays: scanner.MinLookback}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	series, ok := s.History.FetchHistory(ctx, symbol, s.OverlayPeriod)
	if !ok {
		return nil, fmt.Errorf("%w: no history for %s", model.ErrDataUnavailable, symbol)
	}
	ind, ok := calculator.Compute(series, emaPeriod, smaPeriod)
	if !ok {
		return nil, fmt.Errorf("%w: no history for %s", model.ErrDataUnavailable, symbol)
	}
	return ind, nil
}

// Report gathers the financial snapshot and one year of performance of symbol.
// Either part may be missing; it is an error only when both are.
func (s *Service) Report(ctx context.Context, symbol string) (*model.SymbolDetail, error) {
	d := &model.SymbolDetail{Symbol: symbol}

	if s.Financials != nil {
		if snap, ok := s.Financials.FetchFinancials(ctx, symbol); ok {
			cp := *snap
			cp.Holders = topHolders(snap.Holders, s.TopHolders)
			d.Snapshot = &cp
		}
	}

	if series, ok := s.History.FetchHistory(ctx, symbol, s.ReportPeriod); ok {
		perf, err := performance(series)
		if err != nil {
			s.Logger.Warn("performance", zap.String("symbol", symbol), zap.Error(err))
		} else {
			d.Performance = perf
		}
	}

	if d.Snapshot == nil && d.Performance == nil {
		return nil, fmt.Errorf("%w: no detail for %s", model.ErrDataUnavailable, symbol)
	}
	return d, nil
}

func performance(series *model.PriceSeries) (*model.Performance, error) {
	high, low, err := calculator.Calculate52WeekRange(series)
	if err != nil {
		return nil, err
	}
	last := series.Points[series.Len()-1].Close.InexactFloat64()
	pos, err := calculator.CalculatePosition(last, high, low)
	if err != nil {
		return nil, err
	}
	rsi, err := calculator.RSI(series.Closes(), calculator.RSIPeriod)
	if err != nil {
		return nil, err
	}
	return &model.Performance{
		Points:   calculator.CumulativeReturns(series),
		High:     high,
		Low:      low,
		Position: pos,
		RSI:      rsi,
	}, nil
}

// topHolders returns the n largest holders by shares held.
func topHolders(holders []model.Holder, n int) []model.Holder {
	out := make([]model.Holder, len(holders))
	copy(out, holders)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Shares > out[j].Shares })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
