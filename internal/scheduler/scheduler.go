package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"CrossoverSentinel/internal/aggregator"
	"CrossoverSentinel/internal/collector"
	"CrossoverSentinel/internal/model"
	"CrossoverSentinel/internal/notifier"
	"CrossoverSentinel/internal/recorder"
	"CrossoverSentinel/internal/scanner"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// reportLimit caps the events listed in one Telegram report.
const reportLimit = 30

// recentRuns is how many runs /runs lists.
const recentRuns = 5

// Notifier delivers a text report.
type Notifier interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Publisher forwards the events of a scan to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, res *model.ScanResult) error
}

// DetailReporter builds the detail view of one symbol.
type DetailReporter interface {
	Report(ctx context.Context, symbol string) (*model.SymbolDetail, error)
}

// Scheduler runs the scan on a cron schedule, reports it and answers bot commands.
// It also holds the latest result so readers can refilter it without rescanning.
type Scheduler struct {
	Cron      *cron.Cron
	Scans     scanner.Service
	Request   scanner.Request
	Details   DetailReporter
	Notifier  Notifier
	Publisher Publisher
	Recorder  recorder.Recorder
	Logger    *zap.Logger
	Ctx       context.Context

	scanMu sync.Mutex
	mu     sync.RWMutex
	latest *model.ScanResult
}

// NewScheduler creates a new Scheduler. Publisher is optional and may be set afterwards.
func NewScheduler(ctx context.Context, scans scanner.Service, req scanner.Request, details DetailReporter, n Notifier, rec recorder.Recorder, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		Scans:    scans,
		Request:  req,
		Details:  details,
		Notifier: n,
		Recorder: rec,
		Logger:   logger,
		Ctx:      ctx,
	}
}

// Register adds the scan task on scanCron.
func (s *Scheduler) Register(scanCron string) error {
	if _, err := s.Cron.AddFunc(scanCron, s.scanTask); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Logger.Info("scheduler started", zap.Int("jobs", len(s.Cron.Entries())))
}

// Stop stops the cron scheduler and waits for a running scan to return.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Logger.Info("scheduler stopped")
}

// RunScanNow executes the scan task immediately (RUN_ON_START).
func (s *Scheduler) RunScanNow() {
	s.scanTask()
}

// Latest returns the most recent scan result, or nil before the first scan.
func (s *Scheduler) Latest() *model.ScanResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// RunScan scans the universe with the configured request. A partial result
// of an aborted scan replaces the latest one as well; the error is returned with it.
// Concurrent callers wait for the running scan instead of starting another.
func (s *Scheduler) RunScan(ctx context.Context) (*model.ScanResult, error) {
	s.scanMu.Lock()
	defer s.scanMu.Unlock()

	res, err := s.Scans.Scan(ctx, s.Request)
	if res != nil {
		s.mu.Lock()
		s.latest = res
		s.mu.Unlock()
	}
	return res, err
}

func (s *Scheduler) scanTask() {
	s.Logger.Info("running scan task")
	res, err := s.RunScan(s.Ctx)
	if err != nil && res == nil {
		s.Logger.Error("scan task", zap.Error(err))
		s.trySend(fmt.Sprintf("❌ Scan failed: %v", err))
		return
	}
	if err != nil {
		s.Logger.Warn("scan task aborted", zap.Error(err))
	}

	s.trySend(notifier.FormatScanReport(res, reportLimit))

	if s.Publisher != nil {
		if err := s.Publisher.Publish(s.Ctx, res); err != nil {
			s.Logger.Error("publish crossovers", zap.Error(err))
		}
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.FormatHelp()
	}

	switch strings.ToLower(fields[0]) {
	case "/scan":
		return s.report(ctx, model.FilterAll)
	case "/golden":
		return s.report(ctx, model.FilterGolden)
	case "/death":
		return s.report(ctx, model.FilterDeath)
	case "/detail":
		if len(fields) < 2 {
			return "Usage: /detail SYMBOL"
		}
		return s.detail(ctx, collector.NormalizeSymbol(fields[1]))
	case "/runs":
		runs, err := s.Recorder.RecentScans(recentRuns)
		if err != nil {
			s.Logger.Error("list scan runs", zap.Error(err))
			return "❌ Could not load scan history"
		}
		return notifier.FormatRuns(runs)
	default:
		return notifier.FormatHelp()
	}
}

// report answers from the latest result, scanning first when there is none yet.
func (s *Scheduler) report(ctx context.Context, filter model.DirectionFilter) string {
	res := s.Latest()
	if res == nil {
		var err error
		res, err = s.RunScan(ctx)
		if res == nil {
			return fmt.Sprintf("❌ Scan failed: %v", err)
		}
	}
	return notifier.FormatScanReport(aggregator.Refilter(res, filter), reportLimit)
}

func (s *Scheduler) detail(ctx context.Context, symbol string) string {
	if s.Details == nil {
		return "Details are not available"
	}
	d, err := s.Details.Report(ctx, symbol)
	if errors.Is(err, model.ErrDataUnavailable) {
		return fmt.Sprintf("No data available for %s", symbol)
	}
	if err != nil {
		s.Logger.Error("detail report", zap.String("symbol", symbol), zap.Error(err))
		return fmt.Sprintf("❌ Detail for %s failed", symbol)
	}
	return notifier.FormatDetail(d)
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.Logger.Error("send notification", zap.Error(err))
	}
}
