// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

  - CastVoteRequest: voter_id, candidate_id

# Response Types

  - CastVoteResponse: message, voter
  - RevealWinnerResponse: winner, election
  - ResetElectionResponse: message, completed, failed_step
  - ErrorResponse: error, message

# Domain Types

  - Candidate: an option that can receive votes, with its live vote_count
  - VoterRecord: whether an identity has voted and for whom
  - ElectionState: the singleton open/revealed state with the winner id
  - Snapshot: tally plus election state, as delivered to observers

# Phases

ElectionState.Phase derives the state machine position:

	PhaseOpen           = "open"
	PhaseWinnerRevealed = "winner_revealed"
*/
package models
