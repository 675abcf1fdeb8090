// Package database provides database setup, models, and the data access layer (Store).
package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"

	"github.com/botiran/initinfobot/migrations"

	_ "modernc.org/sqlite" //revive:disable:blank-imports
)

// connPragmas are applied by the driver to every pooled connection.
// foreign_keys is off by default in SQLite and Chats.AddedByUserId depends on it.
var connPragmas = []string{
	"foreign_keys(1)",
	"busy_timeout(5000)",
}

// NewDB opens the SQLite database at dbPath (a file path or a file: URI),
// creates the schema if needed and returns the pool. Any failure is fatal to
// startup; a pool that was opened is closed again.
func NewDB(dbPath string) (*sqlx.DB, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, errors.New("database path cannot be empty")
	}

	db, err := sqlx.Connect("sqlite", withPragmas(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite has a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := ensureSchema(db.DB); err != nil {
		CloseDB(db)
		return nil, err
	}

	slog.Info("Database ready", "path", dbPath)
	return db, nil
}

// CloseDB closes the pool, logging a failure instead of returning it.
func CloseDB(db *sqlx.DB) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		slog.Error("Failed to close database", "error", err)
	}
}

// ensureSchema runs the embedded Users/Chats migrations. An up-to-date schema is success.
func ensureSchema(db *sql.DB) error {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}
	target, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to prepare schema migration: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", target)
	if err != nil {
		return fmt.Errorf("failed to prepare schema migration: %w", err)
	}

	switch err := m.Up(); {
	case errors.Is(err, migrate.ErrNoChange):
		slog.Debug("Database schema up to date")
	case err != nil:
		return fmt.Errorf("failed to apply schema migration: %w", err)
	default:
		slog.Info("Database schema created")
	}
	return nil
}

// withPragmas appends the connection pragmas to dbPath as modernc _pragma parameters,
// leaving any pragma the caller already set untouched.
func withPragmas(dbPath string) string {
	var params []string
	for _, p := range connPragmas {
		name := p[:strings.Index(p, "(")]
		if strings.Contains(dbPath, "_pragma="+name) {
			continue
		}
		params = append(params, "_pragma="+p)
	}
	if len(params) == 0 {
		return dbPath
	}

	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	return dbPath + sep + strings.Join(params, "&")
}
