// Package migrate applies the embedded SQL migrations.
//
// Migration files use goose ENVSUB, so every table name is written as
// ${TABLE_PREFIX}name and resolved from the environment at apply time.
package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed sql/*.sql
var migrations embed.FS

// Migrator runs goose against one database and table prefix
type Migrator struct {
	dsn    string
	prefix string
}

// New creates a Migrator. prefix is prepended to every table, including goose's version table.
func New(dsn, prefix string) *Migrator {
	return &Migrator{dsn: dsn, prefix: prefix}
}

// Up applies all pending migrations
func (m *Migrator) Up(ctx context.Context) error {
	return m.run(ctx, func(db *sql.DB) error {
		return goose.UpContext(ctx, db, "sql")
	})
}

// Down rolls back the most recent migration
func (m *Migrator) Down(ctx context.Context) error {
	return m.run(ctx, func(db *sql.DB) error {
		return goose.DownContext(ctx, db, "sql")
	})
}

// Reset rolls back every applied migration
func (m *Migrator) Reset(ctx context.Context) error {
	return m.run(ctx, func(db *sql.DB) error {
		return goose.ResetContext(ctx, db, "sql")
	})
}

// Status prints applied and pending migrations through goose's logger
func (m *Migrator) Status(ctx context.Context) error {
	return m.run(ctx, func(db *sql.DB) error {
		return goose.StatusContext(ctx, db, "sql")
	})
}

// VersionTable is goose's bookkeeping table for this prefix
func (m *Migrator) VersionTable() string {
	return m.prefix + "goose_db_version"
}

func (m *Migrator) run(ctx context.Context, fn func(db *sql.DB) error) error {
	if err := os.Setenv("TABLE_PREFIX", m.prefix); err != nil {
		return fmt.Errorf("set TABLE_PREFIX: %w", err)
	}

	db, err := sql.Open("pgx", m.dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	goose.SetBaseFS(migrations)
	goose.SetTableName(m.VersionTable())
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	return fn(db)
}
