// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the vote-ledger API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(svc, admin, feed, cfg)

# Endpoints

Health:

	GET /health

Voting:

	POST /vote        - Cast a vote
	GET  /voters/{id} - Voter record

Read-only views:

	GET /tally      - Counts, highest first
	GET /candidates - Ballot without counts
	GET /election   - Open/revealed state
	GET /winner     - Revealed winner (403 before reveal)
	GET /snapshot   - Tally and state together, for polling clients
	GET /feed       - Server-sent snapshot stream

Admin (requires X-Admin-Key):

	POST /admin/reveal - Close voting and reveal the winner
	POST /admin/reset  - Clear voters, zero the tally, reopen voting
*/
package router
