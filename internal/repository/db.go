// Package repository persists run history in an embedded SQLite database.
// The pipeline itself is stateless; history exists so operators can audit
// past runs and re-download exports.
package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"github.com/aworks-dev/bol-extractor/internal/common"
)

// Config holds store configuration.
type Config struct {
	// Path is the SQLite file path; ":memory:" keeps history for the process
	// lifetime only.
	Path        string
	BusyTimeout time.Duration
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id              TEXT PRIMARY KEY,
	created_at      TIMESTAMP NOT NULL,
	status          TEXT NOT NULL,
	pages           INTEGER NOT NULL,
	shipments       INTEGER NOT NULL,
	line_items      INTEGER NOT NULL,
	matched         INTEGER NOT NULL,
	shipment_only   INTEGER NOT NULL,
	reference_only  INTEGER NOT NULL,
	diagnostics     INTEGER NOT NULL,
	diagnostics_json TEXT NOT NULL,
	dataset_json    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS runs_created_at ON runs (created_at DESC);
`

// Open opens (creating if needed) the run-history database and applies the
// schema.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*sql.DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("opening run history store", "path", cfg.Path)

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, common.NewAppError("STORE_OPEN", "opening sqlite database", err)
	}
	// modernc sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY under concurrent HTTP handlers.
	db.SetMaxOpenConns(1)

	if cfg.BusyTimeout > 0 {
		if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = "+strconv.FormatInt(cfg.BusyTimeout.Milliseconds(), 10)); err != nil {
			_ = db.Close()
			return nil, common.NewAppError("STORE_OPEN", "setting busy timeout", err)
		}
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, common.NewAppError("STORE_OPEN", "applying schema", err)
	}

	logger.Info("run history store ready")
	return db, nil
}

// Close closes the database gracefully.
func Close(db *sql.DB, logger *slog.Logger) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		logger.Error("failed to close run history store", "error", err)
	}
}

// HealthCheck pings the store to catch path/permission issues early.
func HealthCheck(ctx context.Context, db *sql.DB, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return db.PingContext(ctx)
}
