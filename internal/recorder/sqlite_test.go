package recorder

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"CrossoverSentinel/internal/model"
)

func TestSQLiteRecorder_RecordAndList(t *testing.T) {
	rec, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "scans.db"), nil)
	if err != nil {
		t.Fatalf("open recorder: %v", err)
	}
	defer rec.Close()

	start := time.Date(2024, 6, 3, 21, 0, 0, 0, time.UTC)
	older := &model.ScanResult{
		RunID:       "run-old",
		Params:      model.ScanParams{EMAPeriod: 14, SMAPeriod: 50, LookbackDays: 7},
		Filter:      model.FilterAll,
		GoldenCount: 3,
		DeathCount:  2,
		Stats:       model.ScanStats{Total: 500, Processed: 500, NoData: 4, StartedAt: start, FinishedAt: start.Add(time.Minute)},
	}
	newer := &model.ScanResult{
		RunID:   "run-new",
		Params:  model.ScanParams{EMAPeriod: 12, SMAPeriod: 26, LookbackDays: 5},
		Filter:  model.FilterGolden,
		Partial: true,
		Stats:   model.ScanStats{Total: 500, Processed: 120, StartedAt: start.Add(24 * time.Hour), FinishedAt: start.Add(25 * time.Hour)},
	}

	if err := rec.RecordScan(RunFromResult(older, nil)); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := rec.RecordScan(RunFromResult(newer, errors.New("scan aborted"))); err != nil {
		t.Fatalf("record: %v", err)
	}

	runs, err := rec.RecentScans(10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].RunID != "run-new" || !runs[0].Partial || runs[0].Error != "scan aborted" {
		t.Errorf("unexpected newest run %+v", runs[0])
	}
	if runs[0].Filter != "GOLDEN" {
		t.Errorf("expected filter GOLDEN, got %s", runs[0].Filter)
	}
	old := runs[1]
	if old.GoldenCount != 3 || old.DeathCount != 2 || old.NoData != 4 || old.Partial {
		t.Errorf("unexpected older run %+v", old)
	}
	if !old.StartedAt.Equal(start) {
		t.Errorf("expected start %s, got %s", start, old.StartedAt)
	}

	if runs, _ := rec.RecentScans(1); len(runs) != 1 {
		t.Errorf("expected limit to apply, got %d runs", len(runs))
	}

	if err := rec.RecordScan(RunFromResult(older, nil)); err == nil {
		t.Error("expected duplicate run id to be rejected")
	}
}
