package database

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// Migrate applies all pending up migrations for db's dialect. The schema
// carries the unique constraints on users.email and categories.name that
// settle concurrent duplicate writes.
func Migrate(db *bun.DB) error {
	m, release, err := newMigrator(db)
	if err != nil {
		return err
	}
	defer release()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}

// MigrateDown rolls back the given number of migrations.
func MigrateDown(db *bun.DB, steps int) error {
	m, release, err := newMigrator(db)
	if err != nil {
		return err
	}
	defer release()

	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to roll back migrations: %w", err)
	}

	return nil
}

// MigrationVersion reports the applied schema version.
func MigrationVersion(db *bun.DB) (version uint, dirty bool, err error) {
	m, release, err := newMigrator(db)
	if err != nil {
		return 0, false, err
	}
	defer release()

	version, dirty, err = m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

// newMigrator builds a migrate instance over db's connection pool. The
// migrate drivers close the pool they were given on Close, so the instance is
// never closed; the returned release func only frees the connection pinned
// for Postgres.
func newMigrator(db *bun.DB) (*migrate.Migrate, func(), error) {
	var (
		driver  database.Driver
		dir     string
		name    string
		release = func() {}
		err     error
	)

	switch db.Dialect().Name() {
	case dialect.PG:
		conn, connErr := db.DB.Conn(context.Background())
		if connErr != nil {
			return nil, nil, fmt.Errorf("failed to acquire migration connection: %w", connErr)
		}
		release = func() { _ = conn.Close() }
		driver, err = postgres.WithConnection(context.Background(), conn, &postgres.Config{})
		dir, name = "migrations/postgres", "postgres"
	case dialect.SQLite:
		driver, err = sqlite.WithInstance(db.DB, &sqlite.Config{})
		dir, name = "migrations/sqlite", "sqlite"
	default:
		return nil, nil, fmt.Errorf("unsupported dialect %s", db.Dialect().Name())
	}
	if err != nil {
		release()
		return nil, nil, fmt.Errorf("failed to create %s migration driver: %w", name, err)
	}

	source, err := iofs.New(migrationsFS, dir)
	if err != nil {
		release()
		return nil, nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, name, driver)
	if err != nil {
		release()
		return nil, nil, fmt.Errorf("failed to create migrator: %w", err)
	}

	return m, release, nil
}
