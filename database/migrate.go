package database

import (
	"embed"
	"errors"
	"fmt"
	"log"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migrate applies every pending up migration. When root is empty the SQL
// files compiled into the binary are used, otherwise the files under root.
func Migrate(connStr, root string) error {
	mig, err := newMigrate(connStr, root)
	if err != nil {
		return err
	}
	defer mig.Close()

	if err := mig.Up(); err != nil {
		if !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("applying migrations: %w", err)
		}
		log.Printf("migrations: %s", err.Error())
		return nil
	}

	version, _, _ := mig.Version()
	log.Printf("migrations: schema at version %d", version)
	return nil
}

func newMigrate(connStr, root string) (*migrate.Migrate, error) {
	if root != "" {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("resolving migrations root: %w", err)
		}
		mig, err := migrate.New("file://"+filepath.ToSlash(abs), connStr)
		if err != nil {
			return nil, fmt.Errorf("opening migrations in %s: %w", abs, err)
		}
		return mig, nil
	}

	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("opening embedded migrations: %w", err)
	}
	mig, err := migrate.NewWithSourceInstance("iofs", src, connStr)
	if err != nil {
		return nil, fmt.Errorf("opening embedded migrations: %w", err)
	}
	return mig, nil
}
