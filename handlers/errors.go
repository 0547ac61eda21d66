// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/vote-ledger/ledger"
	"github.com/danielhkuo/vote-ledger/middleware"
)

// ledgerError maps domain errors to user-facing responses. Anything
// unexpected is logged and reported as a 500.
func ledgerError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, ledger.ErrTimeout):
		slog.Warn("store timeout", "op", op, "error", err)
		w.Header().Set("Retry-After", "1")
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "The election is busy, please try again")
	case errors.Is(err, ledger.ErrInvalidVoter):
		middleware.ErrorResponse(w, http.StatusBadRequest, "voter_id is required")
	case errors.Is(err, ledger.ErrAlreadyVoted):
		middleware.ErrorResponse(w, http.StatusConflict, "You have already voted")
	case errors.Is(err, ledger.ErrUnknownCandidate):
		middleware.ErrorResponse(w, http.StatusNotFound, "Candidate not found")
	case errors.Is(err, ledger.ErrElectionClosed):
		middleware.ErrorResponse(w, http.StatusLocked, "Voting is closed")
	case errors.Is(err, ledger.ErrAlreadyRevealed):
		middleware.ErrorResponse(w, http.StatusConflict, "Winner has already been revealed")
	case errors.Is(err, ledger.ErrNoCandidates):
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity, "There are no candidates")
	case errors.Is(err, ledger.ErrNotRevealed):
		middleware.ErrorResponse(w, http.StatusForbidden, "The winner has not been revealed yet")
	case errors.Is(err, ledger.ErrNotFound), errors.Is(err, ledger.ErrInvalidCandidate):
		middleware.ErrorResponse(w, http.StatusNotFound, "Not found")
	default:
		slog.Error("ledger operation failed", "op", op, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
	}
}
