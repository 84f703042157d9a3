package scanner

import (
	"context"
	"fmt"

	"CrossoverSentinel/internal/collector"
	"CrossoverSentinel/internal/model"

	"go.uber.org/zap"
)

// Service scans the configured universe.
type Service interface {
	Scan(ctx context.Context, req Request) (*model.ScanResult, error)
}

type service struct {
	universe collector.UniverseProvider
	scanner  *Scanner
	logger   *zap.Logger
}

// NewService resolves the universe on every call and hands it to scanner.
func NewService(universe collector.UniverseProvider, scanner *Scanner, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{universe: universe, scanner: scanner, logger: logger}
}

func (s *service) Scan(ctx context.Context, req Request) (*model.ScanResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	symbols, err := s.universe.ListSymbols(ctx)
	if err != nil {
		return nil, fmt.Errorf("list symbols: %w", err)
	}
	s.logger.Info("scan started", zap.Int("symbols", len(symbols)))
	return s.scanner.Scan(ctx, symbols, req, s.logProgress)
}

func (s *service) logProgress(completed, total int) {
	if completed == total || completed%50 == 0 {
		s.logger.Debug("scan progress", zap.Int("completed", completed), zap.Int("total", total))
	}
}
