package recorder

import (
	"time"

	"CrossoverSentinel/internal/model"
)

// ScanRun is the audit record of one scan. Events are not stored.
type ScanRun struct {
	RunID        string
	StartedAt    time.Time
	FinishedAt   time.Time
	EMAPeriod    int
	SMAPeriod    int
	LookbackDays int
	Filter       string
	Total        int
	Processed    int
	NoData       int
	GoldenCount  int
	DeathCount   int
	Partial      bool
	Error        string
}

// RunFromResult summarises a scan result. err is the error the scan returned, if any.
func RunFromResult(res *model.ScanResult, err error) *ScanRun {
	run := &ScanRun{
		RunID:        res.RunID,
		StartedAt:    res.Stats.StartedAt,
		FinishedAt:   res.Stats.FinishedAt,
		EMAPeriod:    res.Params.EMAPeriod,
		SMAPeriod:    res.Params.SMAPeriod,
		LookbackDays: res.Params.LookbackDays,
		Filter:       res.Filter.String(),
		Total:        res.Stats.Total,
		Processed:    res.Stats.Processed,
		NoData:       res.Stats.NoData,
		GoldenCount:  res.GoldenCount,
		DeathCount:   res.DeathCount,
		Partial:      res.Partial,
	}
	if err != nil {
		run.Error = err.Error()
	}
	return run
}

// Recorder persists scan history for later analysis.
type Recorder interface {
	RecordScan(run *ScanRun) error
	RecentScans(limit int) ([]ScanRun, error)
	Close() error
}
