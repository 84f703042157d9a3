package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"CrossoverSentinel/internal/aggregator"
	"CrossoverSentinel/internal/model"
	"CrossoverSentinel/internal/recorder"
	"CrossoverSentinel/internal/scanner"

	"github.com/guregu/null/v6"
)

type stubScans struct {
	res   *model.ScanResult
	err   error
	calls int
}

func (s *stubScans) Scan(context.Context, scanner.Request) (*model.ScanResult, error) {
	s.calls++
	return s.res, s.err
}

type sentMessages struct{ texts []string }

func (n *sentMessages) SendWithRetry(_ context.Context, text string, _ int) error {
	n.texts = append(n.texts, text)
	return nil
}

type stubPublisher struct{ published []*model.ScanResult }

func (p *stubPublisher) Publish(_ context.Context, res *model.ScanResult) error {
	p.published = append(p.published, res)
	return nil
}

type stubDetails struct{}

func (stubDetails) Report(_ context.Context, symbol string) (*model.SymbolDetail, error) {
	if symbol != "AAPL" {
		return nil, fmt.Errorf("%w: no detail for %s", model.ErrDataUnavailable, symbol)
	}
	snap := &model.FinancialSnapshot{Symbol: symbol}
	snap.General.ForwardPE = null.FloatFrom(28.5)
	return &model.SymbolDetail{Symbol: symbol, Snapshot: snap}, nil
}

type stubRecorder struct {
	recorder.NoopRecorder
	runs []recorder.ScanRun
	err  error
}

func (r *stubRecorder) RecentScans(limit int) ([]recorder.ScanRun, error) {
	if len(r.runs) > limit {
		return r.runs[:limit], r.err
	}
	return r.runs, r.err
}

func scanResult() *model.ScanResult {
	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	res := aggregator.Aggregate([]model.CrossoverEvent{
		{Symbol: "AAPL", Date: day, ClosePrice: 190, EMAValue: 189, SMAValue: 188, Direction: model.CrossoverGolden},
		{Symbol: "MSFT", Date: day, ClosePrice: 410, EMAValue: 409, SMAValue: 411, Direction: model.CrossoverDeath},
	}, model.FilterAll)
	res.RunID = "run-1"
	res.Stats = model.ScanStats{Total: 2, Processed: 2, FinishedAt: day}
	return res
}

func newTestScheduler(scans *stubScans, n *sentMessages, rec recorder.Recorder) *Scheduler {
	return NewScheduler(context.Background(), scans, scanner.DefaultRequest(), stubDetails{}, n, rec, nil)
}

func TestScanTask_ReportsAndPublishes(t *testing.T) {
	scans := &stubScans{res: scanResult()}
	n := &sentMessages{}
	pub := &stubPublisher{}
	s := newTestScheduler(scans, n, nil)
	s.Publisher = pub

	s.RunScanNow()

	if len(n.texts) != 1 || !strings.Contains(n.texts[0], "AAPL") || !strings.Contains(n.texts[0], "MSFT") {
		t.Fatalf("expected one report with both events, got %v", n.texts)
	}
	if len(pub.published) != 1 || pub.published[0].RunID != "run-1" {
		t.Errorf("expected the result to be published once, got %d", len(pub.published))
	}
	if s.Latest() == nil {
		t.Error("expected the latest result to be kept")
	}
}

func TestScanTask_Failure(t *testing.T) {
	scans := &stubScans{err: errors.New("universe unavailable")}
	n := &sentMessages{}
	pub := &stubPublisher{}
	s := newTestScheduler(scans, n, nil)
	s.Publisher = pub

	s.RunScanNow()

	if len(n.texts) != 1 || !strings.Contains(n.texts[0], "Scan failed: universe unavailable") {
		t.Errorf("expected a failure message, got %v", n.texts)
	}
	if len(pub.published) != 0 {
		t.Error("expected nothing published after a failed scan")
	}
	if s.Latest() != nil {
		t.Error("expected no latest result")
	}
}

func TestScanTask_PartialIsStillReported(t *testing.T) {
	res := scanResult()
	res.Partial = true
	scans := &stubScans{res: res, err: fmt.Errorf("%w: stopped", model.ErrScanAborted)}
	n := &sentMessages{}
	s := newTestScheduler(scans, n, nil)

	s.RunScanNow()

	if len(n.texts) != 1 || !strings.Contains(n.texts[0], "results are partial") {
		t.Errorf("expected a partial report, got %v", n.texts)
	}
	if s.Latest() != res {
		t.Error("expected the partial result to be kept")
	}
}

func TestHandleCommand_Filters(t *testing.T) {
	scans := &stubScans{res: scanResult()}
	s := newTestScheduler(scans, &sentMessages{}, nil)
	ctx := context.Background()

	golden := s.HandleCommand(ctx, "/golden")
	if !strings.Contains(golden, "AAPL") || strings.Contains(golden, "MSFT") {
		t.Errorf("unexpected golden reply:\n%s", golden)
	}
	death := s.HandleCommand(ctx, "/death")
	if strings.Contains(death, "AAPL") || !strings.Contains(death, "MSFT") {
		t.Errorf("unexpected death reply:\n%s", death)
	}
	all := s.HandleCommand(ctx, "/scan")
	if !strings.Contains(all, "AAPL") || !strings.Contains(all, "MSFT") {
		t.Errorf("unexpected scan reply:\n%s", all)
	}
	if scans.calls != 1 {
		t.Errorf("expected a single scan reused by every command, got %d", scans.calls)
	}
	if len(s.Latest().Events) != 2 {
		t.Error("refiltering must not change the latest result")
	}
}

func TestHandleCommand_Detail(t *testing.T) {
	s := newTestScheduler(&stubScans{}, &sentMessages{}, nil)
	ctx := context.Background()

	if got := s.HandleCommand(ctx, "/detail"); got != "Usage: /detail SYMBOL" {
		t.Errorf("unexpected usage reply %q", got)
	}
	if got := s.HandleCommand(ctx, "/detail aapl"); !strings.Contains(got, "P/E Ratio: 28.50") {
		t.Errorf("unexpected detail reply:\n%s", got)
	}
	if got := s.HandleCommand(ctx, "/detail ZZZZ"); got != "No data available for ZZZZ" {
		t.Errorf("unexpected missing reply %q", got)
	}
}

func TestHandleCommand_Runs(t *testing.T) {
	rec := &stubRecorder{}
	for i := 0; i < 8; i++ {
		rec.runs = append(rec.runs, recorder.ScanRun{RunID: fmt.Sprint(i), EMAPeriod: 14, SMAPeriod: 50})
	}
	s := newTestScheduler(&stubScans{}, &sentMessages{}, rec)

	got := s.HandleCommand(context.Background(), "/runs")
	if n := strings.Count(got, "EMA 14 / SMA 50"); n != recentRuns {
		t.Errorf("expected %d runs listed, got %d:\n%s", recentRuns, n, got)
	}

	rec.err = errors.New("database is locked")
	if got := s.HandleCommand(context.Background(), "/runs"); !strings.Contains(got, "Could not load") {
		t.Errorf("unexpected error reply %q", got)
	}
}

func TestHandleCommand_Help(t *testing.T) {
	s := newTestScheduler(&stubScans{}, &sentMessages{}, nil)
	for _, cmd := range []string{"", "hello", "/start"} {
		if got := s.HandleCommand(context.Background(), cmd); !strings.Contains(got, "/detail SYMBOL") {
			t.Errorf("%q: expected help, got %q", cmd, got)
		}
	}
}

func TestRegister_InvalidCron(t *testing.T) {
	s := newTestScheduler(&stubScans{}, &sentMessages{}, nil)
	if err := s.Register("not a cron"); err == nil {
		t.Error("expected error for invalid cron expression")
	}
	if err := s.Register("0 30 22 * * 1-5"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if len(s.Cron.Entries()) != 1 {
		t.Errorf("expected one entry, got %d", len(s.Cron.Entries()))
	}
}
