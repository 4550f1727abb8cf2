package store

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationFS embed.FS

// Migrate applies every pending up migration for the driver. It opens its own
// connection so the service pool is never closed by the migrator.
func Migrate(driver, dsn string) error {
	src, err := iofs.New(migrationFS, "migrations/"+driver)
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	target, err := migrationURL(driver, dsn)
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, target)
	if err != nil {
		return fmt.Errorf("init migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

func migrationURL(driver, dsn string) (string, error) {
	switch driver {
	case DriverPostgres:
		i := strings.Index(dsn, "://")
		if i < 0 {
			return "", fmt.Errorf("postgres dsn must be a URL to run migrations")
		}
		return "pgx5" + dsn[i:], nil
	case DriverSQLite:
		return "sqlite3://" + dsn, nil
	default:
		return "", fmt.Errorf("unsupported driver %q", driver)
	}
}
