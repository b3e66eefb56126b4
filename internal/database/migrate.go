package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	log "github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate brings the schema at dbURL to the latest version.
func Migrate(dbURL string) error {
	m, db, err := newMigrator(dbURL)
	if err != nil {
		return err
	}
	defer db.Close()

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		log.Info("schema is up to date")
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot apply migrations, %w", err)
	}

	version, _, _ := m.Version()
	log.WithField("version", version).Info("migrations applied")
	return nil
}

// MigrateDown rolls back every migration.
func MigrateDown(dbURL string) error {
	m, db, err := newMigrator(dbURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err = m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("cannot roll back migrations, %w", err)
	}
	return nil
}

func newMigrator(dbURL string) (*migrate.Migrate, *sql.DB, error) {
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open database, %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("cannot create migration driver, %w", err)
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("cannot read embedded migrations, %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("cannot create migrator, %w", err)
	}
	return m, db, nil
}
