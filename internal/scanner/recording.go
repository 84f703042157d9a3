package scanner

import (
	"context"

	"CrossoverSentinel/internal/model"
	"CrossoverSentinel/internal/recorder"

	"go.uber.org/zap"
)

// recordingMiddleware stores an audit row for every scan that produced a result,
// including aborted ones.
type recordingMiddleware struct {
	rec    recorder.Recorder
	logger *zap.Logger
	svc    Service
}

func (s *recordingMiddleware) Scan(ctx context.Context, req Request) (*model.ScanResult, error) {
	res, err := s.svc.Scan(ctx, req)
	if res != nil {
		if rerr := s.rec.RecordScan(recorder.RunFromResult(res, err)); rerr != nil {
			s.logger.Error("record scan", zap.String("run_id", res.RunID), zap.Error(rerr))
		}
	}
	return res, err
}

// NewRecordingMiddleware ...
func NewRecordingMiddleware(rec recorder.Recorder, logger *zap.Logger, svc Service) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &recordingMiddleware{rec: rec, logger: logger, svc: svc}
}
