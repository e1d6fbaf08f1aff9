package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

//go:embed sql/*.sql
var files embed.FS

// Migration is one versioned SQL script.
type Migration struct {
	Version string
	Name    string
	SQL     string
}

// Migrator applies embedded migrations and records them in schema_migrations.
type Migrator struct {
	db     *sqlx.DB
	logger *zap.Logger
	source fs.FS
}

// NewMigrator creates a migrator over the embedded SQL files.
func NewMigrator(db *sqlx.DB, logger *zap.Logger) *Migrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Migrator{db: db, logger: logger, source: files}
}

// Load returns the migrations ordered by version ("001_init.sql" has version "001").
func (m *Migrator) Load() ([]Migration, error) {
	entries, err := fs.Glob(m.source, "sql/*.sql")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(entries)

	migrations := make([]Migration, 0, len(entries))
	for _, entry := range entries {
		raw, err := fs.ReadFile(m.source, entry)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", entry, err)
		}
		name := path.Base(entry)
		migrations = append(migrations, Migration{
			Version: strings.SplitN(name, "_", 2)[0],
			Name:    name,
			SQL:     string(raw),
		})
	}
	return migrations, nil
}

// Up applies every migration not yet recorded. Each runs in its own transaction.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	const createTable = `CREATE TABLE IF NOT EXISTS schema_migrations (version VARCHAR(255) PRIMARY KEY, applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW())`
	if _, err := m.db.ExecContext(ctx, createTable); err != nil {
		return 0, fmt.Errorf("create schema_migrations: %w", err)
	}

	migrations, err := m.Load()
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, mig := range migrations {
		var exists bool
		if err := m.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, mig.Version); err != nil {
			return applied, fmt.Errorf("check migration %s: %w", mig.Version, err)
		}
		if exists {
			continue
		}

		if err := m.apply(ctx, mig); err != nil {
			return applied, err
		}
		m.logger.Info("migration applied", zap.String("version", mig.Version), zap.String("name", mig.Name))
		applied++
	}

	return applied, nil
}

func (m *Migrator) apply(ctx context.Context, mig Migration) error {
	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration %s: %w", mig.Version, err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, mig.SQL); err != nil {
		return fmt.Errorf("apply migration %s: %w", mig.Name, err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, mig.Version); err != nil {
		return fmt.Errorf("record migration %s: %w", mig.Version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %s: %w", mig.Version, err)
	}
	return nil
}
