package scanner

import (
	"context"
	"strconv"
	"time"

	"CrossoverSentinel/internal/model"

	"github.com/go-kit/kit/metrics"
)

// instrumentingMiddleware wraps Service and records scan metrics.
type instrumentingMiddleware struct {
	reqCount    metrics.Counter
	reqDuration metrics.Histogram
	crossovers  metrics.Counter
	svc         Service
}

func (s *instrumentingMiddleware) Scan(ctx context.Context, req Request) (res *model.ScanResult, err error) {
	defer func(begin time.Time) {
		s.recordMetrics("Scan", begin, err)
		if res != nil {
			s.crossovers.With("direction", string(model.CrossoverGolden)).Add(float64(res.GoldenCount))
			s.crossovers.With("direction", string(model.CrossoverDeath)).Add(float64(res.DeathCount))
		}
	}(time.Now())
	return s.svc.Scan(ctx, req)
}

func (s *instrumentingMiddleware) recordMetrics(method string, startTime time.Time, err error) {
	labels := []string{
		"method", method,
		"error", strconv.FormatBool(err != nil),
	}
	s.reqCount.With(labels...).Add(1)
	s.reqDuration.With(labels...).Observe(time.Since(startTime).Seconds())
}

// NewInstrumentingMiddleware ...
func NewInstrumentingMiddleware(reqCount metrics.Counter, reqDuration metrics.Histogram, crossovers metrics.Counter, svc Service) Service {
	return &instrumentingMiddleware{
		reqCount:    reqCount,
		reqDuration: reqDuration,
		crossovers:  crossovers,
		svc:         svc,
	}
}
