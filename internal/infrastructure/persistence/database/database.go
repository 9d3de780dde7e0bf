// Package database opens the document store connection. Local deployments
// use SQLite; remote deployments use libSQL (Turso).
package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/observability/logging"
	_ "github.com/mattn/go-sqlite3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

const (
	DriverSQLite = "sqlite3"
	DriverLibSQL = "libsql"
)

// DB wraps the standard SQL connection with the driver it was opened with
type DB struct {
	*sql.DB
	Driver string
}

// Options controls the connection pool
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// NewConnection establishes a new database connection for the specified driver.
func NewConnection(driverName, dataSourceName string) (*DB, error) {
	return NewConnectionWithLogger(driverName, dataSourceName, Options{}, logging.NewDiscardLogger())
}

// NewConnectionWithLogger establishes a new database connection for the specified driver with logging.
func NewConnectionWithLogger(driverName, dataSourceName string, opts Options, logger *logging.ChanneledLogger) (*DB, error) {
	start := time.Now()
	logger.Database().Debug("Creating new database connection", "driverName", driverName)

	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		logger.Database().Error("Failed to open database connection", "error", err.Error(), "driverName", driverName)
		return nil, fmt.Errorf("failed to open %s connection: %w", driverName, err)
	}

	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		logger.Database().Error("Database ping failed", "error", err.Error(), "driverName", driverName)
		return nil, fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	duration := time.Since(start)
	logger.Database().Info("Database connection established", "driverName", driverName, "duration", duration)
	CheckAndLogSlowQuery(logger, "DATABASE_CONNECTION", duration)

	return &DB{DB: db, Driver: driverName}, nil
}

// Open picks the driver from the configuration: libsql when a Turso URL is
// present or explicitly requested, SQLite on a local file otherwise
func Open(driver, path, tursoURL, tursoToken string, opts Options, logger *logging.ChanneledLogger) (*DB, error) {
	if driver == DriverLibSQL || (driver == "" && tursoURL != "") {
		if tursoURL == "" {
			return nil, fmt.Errorf("libsql driver selected but no database URL configured")
		}
		return NewConnectionWithLogger(DriverLibSQL, TursoDSN(tursoURL, tursoToken), opts, logger)
	}
	return NewConnectionWithLogger(DriverSQLite, SQLiteDSN(path), opts, logger)
}

// SQLiteDSN enables foreign keys and a busy timeout on a local file
func SQLiteDSN(path string) string {
	return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
}

// TursoDSN appends the auth token to a libSQL URL
func TursoDSN(databaseURL, authToken string) string {
	if authToken == "" {
		return databaseURL
	}
	return fmt.Sprintf("%s?authToken=%s", databaseURL, authToken)
}
