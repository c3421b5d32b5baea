// Package database opens the PostgreSQL pool backing the audit log.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/XSAM/otelsql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"libraryfront/internal/config"
)

const (
	applicationName = "libraryfront"
	pingTimeout     = 5 * time.Second
)

// ErrIncompleteConfig is returned when a required connection setting is missing.
var ErrIncompleteConfig = errors.New("incomplete database config")

var sqlOpen = sql.Open

// BuildPostgresDSN renders c as a postgres:// URL tagged with the application name,
// e.g. postgres://audit:secret@db:5432/library?application_name=libraryfront&sslmode=disable
func BuildPostgresDSN(c config.DatabaseConfig) (string, error) {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"host", c.Host}, {"port", c.Port}, {"user", c.User}, {"name", c.Name},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("%w: missing %s", ErrIncompleteConfig, strings.Join(missing, ", "))
	}

	u := &url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(c.Host, c.Port),
		Path:   c.Name,
		User:   url.User(c.User),
	}
	if c.Password != "" {
		u.User = url.UserPassword(c.User, c.Password)
	}

	q := url.Values{}
	q.Set("application_name", applicationName)
	if c.SSLMode != "" {
		q.Set("sslmode", c.SSLMode)
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// NewPostgres opens the audit database through the pgx stdlib driver wrapped by otelsql,
// sizes the pool and verifies connectivity. The pool is closed again when the ping fails.
func NewPostgres(ctx context.Context, c config.DatabaseConfig, log zerolog.Logger) (*sql.DB, error) {
	dsn, err := BuildPostgresDSN(c)
	if err != nil {
		return nil, err
	}

	driverName, err := otelsql.Register("pgx",
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL, semconv.DBName(c.Name)),
		otelsql.WithSQLCommenter(true),
	)
	if err != nil {
		return nil, fmt.Errorf("register traced driver: %w", err)
	}

	db, err := sqlOpen(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	configurePool(db, c)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		log.Error().Err(err).Str("db_host", c.Host).Str("db_name", c.Name).Msg("audit_db_unreachable")
		return nil, fmt.Errorf("db ping: %w", err)
	}

	log.Info().
		Str("db_host", c.Host).
		Str("db_name", c.Name).
		Int("max_open_conns", c.MaxOpenConns).
		Msg("audit_db_connected")
	return db, nil
}

// configurePool applies the non-zero pool settings of c.
func configurePool(db *sql.DB, c config.DatabaseConfig) {
	if c.MaxOpenConns > 0 {
		db.SetMaxOpenConns(c.MaxOpenConns)
	}
	if c.MaxIdleConns > 0 {
		db.SetMaxIdleConns(c.MaxIdleConns)
	}
	if c.ConnMaxLifetimeSec > 0 {
		db.SetConnMaxLifetime(time.Duration(c.ConnMaxLifetimeSec) * time.Second)
	}
}
