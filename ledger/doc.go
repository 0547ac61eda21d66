// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ledger enforces one vote per voter, keeps the live tally and gates
the winner until an administrator reveals it.

# Stores

Three store contracts, all implemented by package store:

  - Registry: who has voted (Register is a single atomic statement)
  - Tally: vote counts per candidate (Increment never reads first)
  - Election: the Open → WinnerRevealed → Open state machine

Store.InTx runs a function against all three inside one transaction.

# Voting

	svc := ledger.NewService(st, feed, cfg.StoreTimeout)
	record, err := svc.CastVote(ctx, "u1", 1)

CastVote checks the election is open and the candidate exists, registers the
voter and increments the tally in one transaction, then publishes a snapshot.

# Administration

	admin := ledger.NewAdmin(svc)
	winner, err := admin.RevealWinner(ctx)
	err = admin.ResetElection(ctx)

RevealWinner picks the highest count, lowest id on ties. ResetElection is
not atomic: on failure it returns a *ResetError listing the steps that
completed, which also matches ErrPartialFailure.

# Errors

Domain errors are sentinels checked with errors.Is. ErrTimeout marks a store
operation that ran past the configured timeout and may be retried.
*/
package ledger
