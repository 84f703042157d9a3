package recorder

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists scan runs to a SQLite database.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *zap.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger *zap.Logger) (*SQLiteRecorder, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL so dashboards can read while a scan is being written.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, logger: logger}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info("sqlite recorder opened", zap.String("path", dbPath))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scan_runs (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id        TEXT NOT NULL UNIQUE,
			started_at    INTEGER NOT NULL,
			finished_at   INTEGER NOT NULL,
			ema_period    INTEGER,
			sma_period    INTEGER,
			lookback_days INTEGER,
			filter        TEXT,
			total         INTEGER,
			processed     INTEGER,
			no_data       INTEGER,
			golden_count  INTEGER,
			death_count   INTEGER,
			partial       INTEGER,
			error         TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scan_runs_started ON scan_runs(started_at)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordScan(run *ScanRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO scan_runs
		(run_id, started_at, finished_at, ema_period, sma_period, lookback_days, filter,
		 total, processed, no_data, golden_count, death_count, partial, error)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		run.RunID, run.StartedAt.UnixMilli(), run.FinishedAt.UnixMilli(),
		run.EMAPeriod, run.SMAPeriod, run.LookbackDays, run.Filter,
		run.Total, run.Processed, run.NoData, run.GoldenCount, run.DeathCount,
		run.Partial, run.Error,
	)
	if err != nil {
		return fmt.Errorf("insert scan run %s: %w", run.RunID, err)
	}
	return nil
}

// RecentScans returns up to limit runs, newest first.
func (r *SQLiteRecorder) RecentScans(limit int) ([]ScanRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT run_id, started_at, finished_at, ema_period, sma_period,
		lookback_days, filter, total, processed, no_data, golden_count, death_count, partial, error
		FROM scan_runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query scan runs: %w", err)
	}
	defer rows.Close()

	var runs []ScanRun
	for rows.Next() {
		var (
			run               ScanRun
			started, finished int64
		)
		if err := rows.Scan(&run.RunID, &started, &finished, &run.EMAPeriod, &run.SMAPeriod,
			&run.LookbackDays, &run.Filter, &run.Total, &run.Processed, &run.NoData,
			&run.GoldenCount, &run.DeathCount, &run.Partial, &run.Error); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		run.StartedAt = time.UnixMilli(started)
		run.FinishedAt = time.UnixMilli(finished)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.logger.Info("closing sqlite recorder")
	return r.db.Close()
}
