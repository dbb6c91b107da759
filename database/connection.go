package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"SafeEduBackend/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Open connects to the configured SQL database, checks the connection and
// applies the schema. dsn is a lib/pq connection string for postgres or a
// file path / URI for sqlite.
func Open(ctx context.Context, driver, dsn string, log *logger.Logger) (*Store, error) {
	switch driver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if driver == DriverSQLite {
		// A single connection keeps in-memory databases shared and
		// serialises writers.
		conn.SetMaxOpenConns(1)
	} else {
		conn.SetMaxOpenConns(25)
		conn.SetMaxIdleConns(5)
		conn.SetConnMaxLifetime(30 * time.Minute)
	}

	if err = conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	log.Info("Successfully connected to database", "driver", driver)

	store := NewStore(conn, driver)
	if err := store.runMigrations(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("error running migrations: %w", err)
	}
	log.Info("Migrations completed successfully")

	return store, nil
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}
