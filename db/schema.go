// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Open connects to the database and verifies the connection.
// sqlite gets a single connection: writers then queue instead of failing
// with SQLITE_BUSY.
func Open(dbType, url string) (*sql.DB, error) {
	driver := dbType
	if driver != "postgres" && driver != "sqlite" {
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}

	conn, err := sql.Open(driver, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driver == "sqlite" {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return conn, nil
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// SeedElection creates the election state row if missing. An existing row
// keeps its state.
func SeedElection(ctx context.Context, db *sql.DB, name string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO election_state (id, name, is_open, winner_revealed)
		VALUES (1, $1, TRUE, FALSE)
		ON CONFLICT (id) DO NOTHING
	`, name)
	if err != nil {
		return fmt.Errorf("failed to seed election: %w", err)
	}
	return nil
}

// SeedCandidates inserts candidates with ids 1..n in the given order, but
// only into an empty candidate table. Candidates are never replaced while an
// election exists.
func SeedCandidates(ctx context.Context, db *sql.DB, names []string) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM candidate`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count candidates: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	inserted := 0
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		inserted++
		_, err := tx.ExecContext(ctx, `
			INSERT INTO candidate (id, name, vote_count)
			VALUES ($1, $2, 0)
		`, inserted, name)
		if err != nil {
			return 0, fmt.Errorf("failed to insert candidate %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit candidates: %w", err)
	}
	return inserted, nil
}

const schema = `
-- Candidates
CREATE TABLE IF NOT EXISTS candidate (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    vote_count INTEGER NOT NULL DEFAULT 0 CHECK (vote_count >= 0)
);

CREATE INDEX IF NOT EXISTS idx_candidate_vote_count ON candidate(vote_count);

-- Voters (one row per identity, created on first contact)
CREATE TABLE IF NOT EXISTS voter (
    voter_id TEXT PRIMARY KEY,
    has_voted BOOLEAN NOT NULL DEFAULT FALSE,
    voted_for INTEGER REFERENCES candidate(id),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    voted_at TIMESTAMP,
    CHECK ((has_voted AND voted_for IS NOT NULL) OR (NOT has_voted AND voted_for IS NULL))
);

CREATE INDEX IF NOT EXISTS idx_voter_voted_for ON voter(voted_for);

-- Election state (singleton row)
CREATE TABLE IF NOT EXISTS election_state (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    name TEXT NOT NULL,
    is_open BOOLEAN NOT NULL DEFAULT TRUE,
    winner_revealed BOOLEAN NOT NULL DEFAULT FALSE,
    winner_id INTEGER REFERENCES candidate(id),
    revealed_at TIMESTAMP,
    CHECK ((winner_revealed AND winner_id IS NOT NULL) OR (NOT winner_revealed AND winner_id IS NULL)),
    CHECK (is_open <> winner_revealed)
);
`
