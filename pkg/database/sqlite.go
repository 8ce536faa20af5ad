package database

import (
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Config holds database configuration
type Config struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// pragmas applied to every connection. WAL lets the refresh worker read
// while a mutation writes.
var pragmas = url.Values{
	"_journal_mode": {"WAL"},
	"_busy_timeout": {"5000"},
	"_foreign_keys": {"on"},
}

// DSN is the go-sqlite3 connection string for the configured file
func (c Config) DSN() string {
	return "file:" + c.Path + "?" + pragmas.Encode()
}

func (c Config) applyPool(sqlDB *sql.DB) {
	if c.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(c.MaxOpenConns)
	}
	if c.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(c.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(c.ConnMaxLifetime)
}

// DB is the billing database handle. Transactions go through
// persistence/sqlite.DB, which wraps the embedded *sql.DB.
type DB struct {
	*sql.DB
	path   string
	logger *zap.Logger
}

// New opens and pings the billing database
func New(cfg Config, logger *zap.Logger) (*DB, error) {
	sqlDB, err := sql.Open("sqlite3", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", cfg.Path, err)
	}
	cfg.applyPool(sqlDB)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database %s: %w", cfg.Path, err)
	}

	logger.Info("Billing database opened", zap.String("path", cfg.Path))
	return &DB{DB: sqlDB, path: cfg.Path, logger: logger}, nil
}

// Path returns the database file the handle was opened on
func (db *DB) Path() string {
	return db.path
}

// Close closes the database connection
func (db *DB) Close() error {
	db.logger.Info("Billing database closed", zap.String("path", db.path))
	return db.DB.Close()
}
