// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cliparse.LoadDotEnv("")
	cfg, err := cliparse.ParseFlags(os.Args[1:])

LoadDotEnv reads a .env file into the environment first, never overriding
variables that are already set.

# CLI Flags and Environment Variables

	-p              PORT            Server port (default: 3318)
	-d              DATABASE_URL    Database URL (required)
	-t              DATABASE_TYPE   sqlite or postgres (default: sqlite)
	-timeout        STORE_TIMEOUT   Store operation timeout (default: 3s)
	-e              ELECTION_NAME   Election name (default: "default")
	-c              CANDIDATES      Comma-separated candidate names
	-feed           FEED_MODE       push or poll (default: push)
	-poll-interval  POLL_INTERVAL   1s to 5s (default: 3s)
	-amqp           AMQP_URL        RabbitMQ URL for snapshot mirroring
	                AMQP_EXCHANGE   Fanout exchange (default: vote-ledger.snapshots)
	-admin-salt     ADMIN_KEY_SALT  Secret for admin key HMAC (required)
	-jwt-secret     JWT_SECRET      Identity provider token secret
	-admin-key                      Print the admin key and exit

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if DATABASE_URL or ADMIN_KEY_SALT is missing, or
if a value is out of range (database type, feed mode, poll interval).
*/
package cliparse
