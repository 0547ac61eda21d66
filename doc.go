// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the vote-ledger API server.

vote-ledger runs a single-choice election: every identity votes once, an
admin reveals the candidate with the most votes, and a reset starts over.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=file:ledger.db ADMIN_KEY_SALT=... CANDIDATES=Alice,Bob go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -c "Alice,Bob"

A .env file in the working directory (or DOTENV_FILE) is loaded first and
never overrides variables that are already set.

# Configuration

Required settings:

  - DATABASE_URL (-d): sqlite file or PostgreSQL connection string
  - ADMIN_KEY_SALT (-admin-salt): Secret for admin key HMAC

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - ELECTION_NAME (-e), CANDIDATES (-c): seeded on first start only
  - JWT_SECRET (-jwt-secret): take voter ids from HS256 bearer tokens
  - STORE_TIMEOUT (-timeout): per-operation deadline (default: 3s)
  - FEED_MODE (-feed), POLL_INTERVAL (-poll-interval): push or poll
  - AMQP_URL (-amqp), AMQP_EXCHANGE: mirror snapshots to RabbitMQ

Run with -admin-key to print the key for the configured election.

# Architecture

  - ledger: vote casting, reveal and reset over the store contracts
  - store: SQL implementation of the registry, tally and election stores
  - feed: push broker, poller and RabbitMQ mirror for snapshots
  - handlers: HTTP request handlers
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response and domain types
  - auth: Admin keys and identity tokens
  - db: Connection, schema and seeding
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
