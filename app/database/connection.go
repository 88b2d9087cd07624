package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// DB wraps a database handle together with the SQL dialect it speaks.
type DB struct {
	*sql.DB
	dialect Dialect
}

// NewConnection opens the article store described by storeURL. Postgres
// URLs (postgres://user@host:port/db) use storeKey as the password; SQLite
// URLs (sqlite://path or sqlite::memory:) ignore it.
func NewConnection(ctx context.Context, storeURL, storeKey string) (*DB, error) {
	dialect, dsn, err := parseStoreURL(storeURL, storeKey)
	if err != nil {
		return nil, err
	}

	sqlDB, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	switch dialect {
	case DialectSQLite:
		// A single connection keeps :memory: databases shared and avoids
		// SQLITE_BUSY on concurrent writers.
		sqlDB.SetMaxOpenConns(1)
	case DialectPostgres:
		sqlDB.SetMaxOpenConns(5)
		sqlDB.SetMaxIdleConns(2)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: sqlDB, dialect: dialect}, nil
}

func (db *DB) Dialect() Dialect {
	return db.dialect
}

func (db *DB) builder() sq.StatementBuilderType {
	if db.dialect == DialectPostgres {
		return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

func parseStoreURL(storeURL, storeKey string) (Dialect, string, error) {
	switch {
	case strings.HasPrefix(storeURL, "postgres://"), strings.HasPrefix(storeURL, "postgresql://"):
		u, err := url.Parse(storeURL)
		if err != nil {
			return "", "", fmt.Errorf("invalid store URL: %w", err)
		}
		username := "postgres"
		if u.User != nil && u.User.Username() != "" {
			username = u.User.Username()
		}
		u.User = url.UserPassword(username, storeKey)
		return DialectPostgres, u.String(), nil

	case strings.HasPrefix(storeURL, "sqlite://"):
		path := strings.TrimPrefix(storeURL, "sqlite://")
		if path == "" {
			return "", "", fmt.Errorf("invalid store URL: missing sqlite database path")
		}
		return DialectSQLite, path, nil

	case strings.HasPrefix(storeURL, "sqlite:"):
		path := strings.TrimPrefix(storeURL, "sqlite:")
		if path == "" {
			return "", "", fmt.Errorf("invalid store URL: missing sqlite database path")
		}
		return DialectSQLite, path, nil
	}

	return "", "", fmt.Errorf("unsupported store URL scheme: %q", redact(storeURL))
}

// redact drops everything after the scheme so credentials never reach logs.
func redact(storeURL string) string {
	if i := strings.Index(storeURL, ":"); i >= 0 {
		return storeURL[:i] + ":..."
	}
	return "..."
}
