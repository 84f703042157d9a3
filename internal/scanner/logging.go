package scanner

import (
	"context"
	"time"

	"CrossoverSentinel/internal/model"

	"go.uber.org/zap"
)

// loggingMiddleware wraps Service and logs every scan request.
type loggingMiddleware struct {
	logger *zap.Logger
	svc    Service
}

func (s *loggingMiddleware) Scan(ctx context.Context, req Request) (res *model.ScanResult, err error) {
	defer func(begin time.Time) {
		fields := []zap.Field{
			zap.String("method", "Scan"),
			zap.Int("ema", req.EMAPeriod),
			zap.Int("sma", req.SMAPeriod),
			zap.Int("lookback", req.LookbackDays),
			zap.Stringer("filter", req.Filter),
			zap.Duration("elapsed", time.Since(begin)),
		}
		if res != nil {
			fields = append(fields,
				zap.String("run_id", res.RunID),
				zap.Int("events", len(res.Events)),
				zap.Bool("partial", res.Partial),
			)
		}
		if err != nil {
			s.logger.Error("request failed", append(fields, zap.Error(err))...)
			return
		}
		s.logger.Debug("request served", fields...)
	}(time.Now())
	return s.svc.Scan(ctx, req)
}

// NewLoggingMiddleware ...
func NewLoggingMiddleware(logger *zap.Logger, svc Service) Service {
	return &loggingMiddleware{
		logger: logger,
		svc:    svc,
	}
}
