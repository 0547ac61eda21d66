// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/vote-ledger/auth"
	"github.com/danielhkuo/vote-ledger/cliparse"
	"github.com/danielhkuo/vote-ledger/ledger"
	"github.com/danielhkuo/vote-ledger/middleware"
	"github.com/danielhkuo/vote-ledger/models"
)

type VotingHandler struct {
	svc *ledger.Service
	cfg cliparse.Config
}

func NewVotingHandler(svc *ledger.Service, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{svc: svc, cfg: cfg}
}

// CastVote handles POST /vote
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	voterID, ok := h.resolveVoter(w, r, req.VoterID)
	if !ok {
		return
	}

	if req.CandidateID == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "candidate_id is required")
		return
	}

	record, err := h.svc.CastVote(r.Context(), voterID, req.CandidateID)
	if err != nil {
		ledgerError(w, err, "cast_vote")
		return
	}

	ipHash := auth.HashIP(middleware.GetClientIP(r), h.cfg.AdminKeySalt) // Reuse admin salt for IP hashing
	slog.Info("vote accepted", "voter_id", voterID, "candidate_id", req.CandidateID, "ip_hash", ipHash)

	middleware.JSONResponse(w, http.StatusOK, models.CastVoteResponse{
		Message: "Vote recorded",
		Voter:   record,
	})
}

// GetVoter handles GET /voters/{id}
// Creates the voter record on first contact
func (h *VotingHandler) GetVoter(w http.ResponseWriter, r *http.Request) {
	voterID, ok := h.resolveVoter(w, r, r.PathValue("id"))
	if !ok {
		return
	}

	record, err := h.svc.Voter(r.Context(), voterID)
	if err != nil {
		ledgerError(w, err, "get_voter")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, record)
}

// resolveVoter returns the voter id for the request. With a JWT secret
// configured the verified token subject wins, and a different claimed id is
// rejected; otherwise the claimed id is trusted as-is.
func (h *VotingHandler) resolveVoter(w http.ResponseWriter, r *http.Request, claimed string) (string, bool) {
	if h.cfg.JWTSecret == "" {
		if claimed == "" {
			middleware.ErrorResponse(w, http.StatusBadRequest, "voter_id is required")
			return "", false
		}
		return claimed, true
	}

	subject, err := auth.VoterIDFromBearer(r.Header.Get("Authorization"), h.cfg.JWTSecret)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Sign in to vote")
		return "", false
	}

	if claimed != "" && claimed != subject {
		middleware.ErrorResponse(w, http.StatusForbidden, "voter_id does not match the signed-in user")
		return "", false
	}
	return subject, true
}
