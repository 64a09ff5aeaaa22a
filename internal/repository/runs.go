package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/DanielZo0/CMS-Sales/constants"
)

// RunLedger records batch runs and their per-file outcomes. It is strictly
// best-effort bookkeeping: callers log ledger errors and keep going.
type RunLedger struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewRunLedger(db *sql.DB, logger *slog.Logger) *RunLedger {
	if logger == nil {
		logger = slog.Default()
	}
	return &RunLedger{db: db, logger: logger}
}

// StartRun inserts a new run row and returns its ID.
func (l *RunLedger) StartRun(ctx context.Context, inputDir, outputDir string) (uuid.UUID, error) {
	id := uuid.New()
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, input_dir, output_dir) VALUES (?, ?, ?, ?)`,
		id.String(), time.Now().UTC(), inputDir, outputDir)
	if err != nil {
		return uuid.Nil, err
	}
	l.logger.Debug("run started", "run_id", id)
	return id, nil
}

// RecordFile stores one per-file outcome for the run.
func (l *RunLedger) RecordFile(ctx context.Context, runID uuid.UUID, path string, format constants.FileFormat, status constants.FileStatus, reason, identityKey string) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO run_files (run_id, path, format, status, reason, identity_key)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		runID.String(), path, string(format), string(status), reason, identityKey)
	return err
}

// FinishRun closes the run row with the final counts.
func (l *RunLedger) FinishRun(ctx context.Context, runID uuid.UUID, succeeded, failed, skipped int) error {
	_, err := l.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, succeeded = ?, failed = ?, skipped = ? WHERE id = ?`,
		time.Now().UTC(), succeeded, failed, skipped, runID.String())
	return err
}

// Close closes the underlying database.
func (l *RunLedger) Close() error {
	return l.db.Close()
}
