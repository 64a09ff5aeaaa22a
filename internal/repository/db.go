package repository

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"
)

// Open opens (or creates) the SQLite run ledger at the given path and
// ensures the schema exists. Pass ":memory:" for an in-memory ledger.
func Open(path string, logger *slog.Logger) (*sql.DB, error) {
	logger.Debug("opening run ledger", "path", path)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create ledger tables: %w", err)
	}
	return db, nil
}

func createTables(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at DATETIME NOT NULL,
			finished_at DATETIME,
			input_dir TEXT NOT NULL,
			output_dir TEXT NOT NULL,
			succeeded INTEGER NOT NULL DEFAULT 0,
			failed INTEGER NOT NULL DEFAULT 0,
			skipped INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS run_files (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			path TEXT NOT NULL,
			format TEXT NOT NULL,
			status TEXT NOT NULL,
			reason TEXT,
			identity_key TEXT,
			FOREIGN KEY (run_id) REFERENCES runs(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_run_files_run ON run_files(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_run_files_status ON run_files(status)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
