// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the vote-ledger API.

# Handler Types

Each handler is a struct built by a constructor over the ledger service:

  - VotingHandler: vote casting and voter records
  - ResultsHandler: tally, ballot, election state, winner and snapshot reads
  - AdminHandler: winner reveal and election reset
  - FeedHandler: server-sent snapshot stream

	votingHandler := handlers.NewVotingHandler(svc, cfg)

# Voting

	POST /vote         → CastVote
	GET  /voters/{id}  → GetVoter (creates the record on first contact)

When a JWT secret is configured the voter id is the subject of the bearer
token and a mismatching voter_id in the request is rejected with 403.

# Election Lifecycle

The election is open until an admin reveals the winner, then closed until
an admin resets it:

	POST /admin/reveal → RevealWinner
	POST /admin/reset  → ResetElection (207 on partial failure)

Admin operations require the X-Admin-Key header.

# Errors

Domain errors map to fixed statuses: 409 for a repeat vote or reveal, 404
for an unknown candidate, 423 while voting is closed, 403 for an unrevealed
winner and 503 with Retry-After when the store times out.
*/
package handlers
