package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"shoplist/internal/core"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// migrationsTable records the applied schema version of the kv store.
const migrationsTable = "kv_schema_migrations"

// migrateSchema applies pending kv_entries migrations to the database file
// and returns the resulting schema version. A half-applied migration is
// reported as core.ErrCorruptState rather than retried.
func migrateSchema(dbPath string, logger *slog.Logger) (uint, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return 0, fmt.Errorf("load embedded migrations: %w", err)
	}

	// The migrator closes its connection, so it gets its own
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return 0, fmt.Errorf("open migration connection: %w", err)
	}
	defer conn.Close()

	driver, err := sqlite.WithInstance(conn, &sqlite.Config{MigrationsTable: migrationsTable})
	if err != nil {
		return 0, fmt.Errorf("create sqlite driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return 0, fmt.Errorf("create migrator: %w", err)
	}
	defer m.Close()

	before, err := schemaVersion(m)
	if err != nil {
		return 0, err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("apply migrations: %w", err)
	}
	after, err := schemaVersion(m)
	if err != nil {
		return 0, err
	}

	if after != before {
		logger.Info("Migrated kv schema", "from_version", before, "to_version", after, "db_path", dbPath)
	}
	return after, nil
}

// schemaVersion is 0 for a database that has never been migrated.
func schemaVersion(m *migrate.Migrate) (uint, error) {
	v, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("read schema version: %w", err)
	case dirty:
		return v, fmt.Errorf("%w: schema version %d was left half-applied", core.ErrCorruptState, v)
	}
	return v, nil
}
