// Package storage opens the bun database the catalog's durable stores run
// on. SQLite connections are opened directly; postgres callers hand in their
// own *sql.DB so the host application keeps control of driver registration
// and pooling.
package storage

import (
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "github.com/mattn/go-sqlite3"
)

// Config captures the runtime configuration for the storage backend.
type Config struct {
	Driver string
	DSN    string
}

// Open creates a bun DB for the configured driver. Only sqlite can be opened
// from a DSN; use NewPostgresDB for postgres.
func Open(cfg Config) (*bun.DB, error) {
	switch cfg.Driver {
	case "", "sqlite", "sqlite3":
		return NewSQLiteDB(cfg.DSN)
	default:
		return nil, fmt.Errorf("storage: unsupported driver %q", cfg.Driver)
	}
}

// NewSQLiteDB opens a sqlite-backed bun DB. An empty DSN yields a shared
// in-memory database, which is what the test suites use.
func NewSQLiteDB(dsn string) (*bun.DB, error) {
	if dsn == "" {
		dsn = "file::memory:?cache=shared"
	}
	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: open sqlite: %w", err)
	}
	return bun.NewDB(sqlDB, sqlitedialect.New()), nil
}

// NewPostgresDB wraps a caller-provided postgres connection. The host owns
// driver registration and connection pooling.
func NewPostgresDB(sqlDB *sql.DB) *bun.DB {
	return bun.NewDB(sqlDB, pgdialect.New())
}
