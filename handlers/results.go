// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/danielhkuo/vote-ledger/cliparse"
	"github.com/danielhkuo/vote-ledger/ledger"
	"github.com/danielhkuo/vote-ledger/middleware"
	"github.com/danielhkuo/vote-ledger/models"
)

type ResultsHandler struct {
	svc *ledger.Service
	cfg cliparse.Config
}

func NewResultsHandler(svc *ledger.Service, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{svc: svc, cfg: cfg}
}

// GetTally handles GET /tally
// Ordered by vote count, highest first, ties by candidate id
func (h *ResultsHandler) GetTally(w http.ResponseWriter, r *http.Request) {
	tally, err := h.svc.Tally(r.Context())
	if err != nil {
		ledgerError(w, err, "get_tally")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, tally)
}

// GetCandidates handles GET /candidates
// Returns the ballot (ids and names) without counts
func (h *ResultsHandler) GetCandidates(w http.ResponseWriter, r *http.Request) {
	candidates, err := h.svc.Candidates(r.Context())
	if err != nil {
		ledgerError(w, err, "get_candidates")
		return
	}

	ballot := make([]models.BallotEntry, len(candidates))
	for i, c := range candidates {
		ballot[i] = models.BallotEntry{ID: c.ID, Name: c.Name}
	}

	middleware.JSONResponse(w, http.StatusOK, ballot)
}

// GetElection handles GET /election
func (h *ResultsHandler) GetElection(w http.ResponseWriter, r *http.Request) {
	state, err := h.svc.Election(r.Context())
	if err != nil {
		ledgerError(w, err, "get_election")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, state)
}

// GetWinner handles GET /winner
// Returns 403 until the winner is revealed
func (h *ResultsHandler) GetWinner(w http.ResponseWriter, r *http.Request) {
	winner, err := h.svc.Winner(r.Context())
	if err != nil {
		ledgerError(w, err, "get_winner")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, winner)
}

// GetSnapshot handles GET /snapshot
// The polling convention: clients re-fetch every X-Poll-Interval seconds
func (h *ResultsHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Snapshot(r.Context())
	if err != nil {
		ledgerError(w, err, "get_snapshot")
		return
	}

	w.Header().Set("X-Poll-Interval", strconv.Itoa(int(h.cfg.PollInterval.Seconds())))
	w.Header().Set("Cache-Control", "no-store")
	middleware.JSONResponse(w, http.StatusOK, snap)
}
