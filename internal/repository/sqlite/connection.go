package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3" // registers the "sqlite3" driver
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	DB     *sql.DB
	Logger *slog.Logger
}

// DefaultBusyTimeout is used when no busy timeout is configured. An upload
// holds the write lock while its archive is extracted, so this has to cover
// the extraction of a large archive, not only a row insert.
const DefaultBusyTimeout = 60 * time.Second

// DSN builds the go-sqlite3 connection string for the database file at path.
//
// Foreign keys are off by default in SQLite. Transactions start with BEGIN
// IMMEDIATE so a read-then-write transaction never fails on lock upgrade;
// concurrent writers wait up to busyTimeout instead (zero means
// DefaultBusyTimeout).
func DSN(path string, busyTimeout time.Duration) string {
	if busyTimeout <= 0 {
		busyTimeout = DefaultBusyTimeout
	}
	params := url.Values{}
	params.Set("_foreign_keys", "on")
	params.Set("_busy_timeout", strconv.FormatInt(busyTimeout.Milliseconds(), 10))
	params.Set("_journal_mode", "WAL")
	params.Set("_txlock", "immediate")
	return fmt.Sprintf("file:%s?%s", path, params.Encode())
}

// Open opens (creating if needed) the database file at path
func Open(ctx context.Context, path string, busyTimeout time.Duration) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create database folder: %w", err)
	}

	db, err := sql.Open("sqlite3", DSN(path, busyTimeout))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}
