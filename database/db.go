// Package database opens the SQL stores a dataset can be loaded from and reads
// restaurant tables out of them.
package database

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"restaurantmap/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var ErrNoDatabaseURL = errors.New("DATABASE_URL not set")

// Connect opens a PostgreSQL pool tuned for serverless hosts such as Neon,
// where idle connections keep suspended compute awake.
func Connect(connStr string) (*sql.DB, error) {
	if connStr == "" {
		return nil, ErrNoDatabaseURL
	}

	db, err := sql.Open(DriverPostgres, connStr)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		logger.L().Warn("postgres_ping_failed", "err", err)
	}

	db.SetMaxIdleConns(0)
	db.SetMaxOpenConns(10)

	logger.L().Info("postgres_connected")
	return db, nil
}

// OpenSQLite opens a SQLite database file. A single connection avoids
// SQLITE_BUSY on the reload path.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open(DriverSQLite, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", path, err)
	}
	return db, nil
}
