package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
)

// Connect opens the connection pool and verifies reachability. The initial
// ping is retried with exponential backoff so the server survives a database
// that comes up slightly later than the app.
func Connect(ctx context.Context, connStr string) (*sql.DB, error) {
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("database.Connect open: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	ping := func() error {
		return db.PingContext(ctx)
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5), ctx)
	if err := backoff.Retry(ping, policy); err != nil {
		db.Close()
		return nil, fmt.Errorf("database.Connect ping: %w", err)
	}

	return db, nil
}

// EnsureSchema creates the tables the service needs. The composite unique
// constraint on participations is the single synchronization point the whole
// design relies on; it must live here, not in application code.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS contests (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			slug TEXT NOT NULL,
			time_limit_minutes INT NOT NULL CHECK (time_limit_minutes >= 1),
			questions JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS participations (
			contest_id UUID NOT NULL REFERENCES contests(id),
			wallet_address TEXT NOT NULL,
			joined_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT participations_contest_wallet_key UNIQUE (contest_id, wallet_address)
		)`,
		`CREATE INDEX IF NOT EXISTS participations_contest_idx ON participations (contest_id)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("database.EnsureSchema: %w", err)
		}
	}
	return nil
}
