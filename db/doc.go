// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates the schema.

# Connecting

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

Both postgres (lib/pq) and sqlite (modernc.org/sqlite) are supported. sqlite
connections are limited to one so that concurrent writers queue.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - candidate: id, name, vote_count
  - voter: one row per identity, has_voted and voted_for
  - election_state: singleton row (id = 1) with is_open, winner_revealed, winner_id

CHECK constraints keep the invariants in the database itself: voted_for is
set exactly when has_voted is true, and winner_id exactly when
winner_revealed is true.

# Seeding

	db.SeedElection(ctx, conn, cfg.ElectionName)
	db.SeedCandidates(ctx, conn, cfg.Candidates)

Candidates are only seeded into an empty table.
*/
package db
