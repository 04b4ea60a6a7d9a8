package db

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate brings the schema up to the latest version. A dirty schema left
// by an interrupted run is forced back to its recorded version first.
func (d *DB) Migrate() error {
	m, err := d.migrator()
	if err != nil {
		return err
	}
	defer m.Close()

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("reading schema version: %w", err)
	}
	if dirty {
		d.logger.Warn("schema is dirty, forcing version", "version", version)
		if err := m.Force(int(version)); err != nil {
			return fmt.Errorf("forcing schema version %d: %w", version, err)
		}
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			d.logger.Info("schema up to date", "version", version)
			return nil
		}
		return fmt.Errorf("applying migrations: %w", err)
	}
	version, _, _ = m.Version()
	d.logger.Info("migrations applied", "version", version)
	return nil
}

// Rollback reverts every migration. Only tests use it.
func (d *DB) Rollback() error {
	m, err := d.migrator()
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("reverting migrations: %w", err)
	}
	return nil
}

func (d *DB) migrator() (*migrate.Migrate, error) {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("opening migration source: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", source, d.dsn)
	if err != nil {
		return nil, fmt.Errorf("creating migrator: %w", err)
	}
	return m, nil
}
