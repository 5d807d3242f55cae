// Package db opens the Postgres pool backing run history.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// DefaultMaxConns is the pool size used when Options.MaxConns is zero.
const DefaultMaxConns = 10

type Options struct {
	MaxConns        int
	ConnMaxLifetime time.Duration
	PingTimeout     time.Duration
}

// Open connects through the pgx stdlib driver, which callers must import,
// and verifies the connection before returning.
func Open(ctx context.Context, databaseURL string, opts Options) (*sql.DB, error) {
	if opts.MaxConns <= 0 {
		opts.MaxConns = DefaultMaxConns
	}
	if opts.ConnMaxLifetime <= 0 {
		opts.ConnMaxLifetime = 30 * time.Minute
	}
	if opts.PingTimeout <= 0 {
		opts.PingTimeout = 5 * time.Second
	}

	conn, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("db.Open: open postgres database: %w", err)
	}

	conn.SetMaxOpenConns(opts.MaxConns)
	conn.SetMaxIdleConns(opts.MaxConns)
	conn.SetConnMaxLifetime(opts.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, opts.PingTimeout)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("db.Open: verify postgres connection: %w", err)
	}

	return conn, nil
}
