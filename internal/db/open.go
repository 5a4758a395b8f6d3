// Package db wraps the MySQL connection pool used by the loader and benchmark.
package db

import (
	"database/sql"
	"time"

	"github.com/pkg/errors"

	_ "github.com/go-sql-driver/mysql" // Register the MySQL driver.
)

// DB wraps a database/sql pool.
type DB struct {
	*sql.DB
}

// Open connects to the store and verifies the connection.
func Open(dsn string) (*DB, error) {
	raw, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open mysql")
	}
	raw.SetMaxOpenConns(16)
	raw.SetMaxIdleConns(4)
	raw.SetConnMaxLifetime(30 * time.Minute)
	if err := raw.Ping(); err != nil {
		_ = raw.Close()
		return nil, errors.Wrap(err, "ping mysql")
	}
	return &DB{DB: raw}, nil
}
