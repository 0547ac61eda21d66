// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"

	"github.com/danielhkuo/vote-ledger/models"
)

// Registry tracks which identities have voted
type Registry interface {
	// HasVoted is false for unknown voters
	HasVoted(ctx context.Context, voterID string) (bool, error)

	// Lookup returns the voter record, creating an empty one on first contact
	Lookup(ctx context.Context, voterID string) (models.VoterRecord, error)

	// Register marks the voter as having voted for candidateID in a single
	// statement. Errors: ErrAlreadyVoted
	Register(ctx context.Context, voterID string, candidateID int64) error

	ClearAll(ctx context.Context) error
}

// Tally holds per-candidate vote counts
type Tally interface {
	Exists(ctx context.Context, candidateID int64) (bool, error)

	// Errors: ErrNotFound
	Get(ctx context.Context, candidateID int64) (models.Candidate, error)

	// Increment adds one vote without reading the count first.
	// Errors: ErrNotFound
	Increment(ctx context.Context, candidateID int64) error

	// Snapshot is ordered by vote count descending, then id ascending
	Snapshot(ctx context.Context) ([]models.Candidate, error)

	ResetAll(ctx context.Context) error
}

// Election is the open/revealed state machine
type Election interface {
	State(ctx context.Context) (models.ElectionState, error)

	// Lock reads the state and holds a row lock until the enclosing
	// transaction ends. Outside a transaction it behaves like State.
	Lock(ctx context.Context, exclusive bool) (models.ElectionState, error)

	// Errors: ErrInvalidCandidate, ErrAlreadyRevealed
	Reveal(ctx context.Context, winnerID int64) error

	Reset(ctx context.Context) error
}

// Stores groups the three stores over one connection or transaction
type Stores interface {
	Registry() Registry
	Tally() Tally
	Election() Election
}

// Store adds a transactional boundary spanning all three stores.
// If fn returns an error, nothing fn wrote is kept.
type Store interface {
	Stores
	InTx(ctx context.Context, fn func(tx Stores) error) error

	// View runs fn against one read-only transaction whose reads all see
	// the same committed state
	View(ctx context.Context, fn func(tx Stores) error) error
}

// Publisher receives snapshots after every state change. Publish must not block.
type Publisher interface {
	Publish(snap models.Snapshot)
}
