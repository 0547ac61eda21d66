// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrAlreadyVoted     = errors.New("voter has already voted")
	ErrUnknownCandidate = errors.New("unknown candidate")
	ErrElectionClosed   = errors.New("election is closed")
	ErrAlreadyRevealed  = errors.New("winner already revealed")
	ErrNoCandidates     = errors.New("no candidates")
	ErrNotFound         = errors.New("not found")
	ErrInvalidCandidate = errors.New("invalid candidate")
	ErrNotRevealed      = errors.New("winner not revealed")
	ErrInvalidVoter     = errors.New("voter id is required")

	// ErrTimeout is retryable. It never means the operation was rejected.
	ErrTimeout = errors.New("store operation timed out")

	ErrPartialFailure = errors.New("election reset partially failed")
)

// Reset steps, in execution order
const (
	StepClearVoters    = "clear_voters"
	StepResetTally     = "reset_tally"
	StepReopenElection = "reopen_election"
)

// ResetError describes a reset that stopped midway. The stores listed in
// Completed were reset; the remaining ones were not touched.
type ResetError struct {
	Completed []string
	Step      string
	Err       error
}

func (e *ResetError) Error() string {
	return fmt.Sprintf("%s: step %s failed after [%s]: %v",
		ErrPartialFailure, e.Step, strings.Join(e.Completed, ", "), e.Err)
}

func (e *ResetError) Unwrap() []error {
	return []error{ErrPartialFailure, e.Err}
}
