// Package store persists document snapshots and a history of saved
// snapshots to Postgres via sqlx, and runs schema migrations with golang-migrate,
// scaled down from spencerandtheteagues-apex-build-platform's
// internal/database.MigrationRunner to the single Postgres driver this
// module actually ships.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// MigrationRunner applies the SQL migrations under migrationsPath to a
// Postgres database.
type MigrationRunner struct {
	migrate *migrate.Migrate
	logger  *log.Logger
}

// NewMigrationRunner opens db and binds a migrate instance to the
// migrations directory at migrationsPath ("file://..." source).
func NewMigrationRunner(db *sql.DB, migrationsPath string) (*MigrationRunner, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("store: postgres driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("store: migrate instance: %w", err)
	}

	return &MigrationRunner{migrate: m, logger: log.Default()}, nil
}

// Up applies every pending migration.
func (r *MigrationRunner) Up() error {
	r.logger.Println("running database migrations...")
	if err := r.migrate.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			r.logger.Println("no migrations to apply - database is up to date")
			return nil
		}
		return fmt.Errorf("store: migration failed: %w", err)
	}
	version, dirty, _ := r.migrate.Version()
	r.logger.Printf("migrations complete, now at version %d (dirty: %v)", version, dirty)
	return nil
}

// Close releases the underlying source and database handles.
func (r *MigrationRunner) Close() error {
	srcErr, dbErr := r.migrate.Close()
	if srcErr != nil {
		return fmt.Errorf("store: closing migration source: %w", srcErr)
	}
	return dbErr
}
