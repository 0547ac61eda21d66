// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/vote-ledger/auth"
	"github.com/danielhkuo/vote-ledger/cliparse"
	"github.com/danielhkuo/vote-ledger/ledger"
	"github.com/danielhkuo/vote-ledger/middleware"
	"github.com/danielhkuo/vote-ledger/models"
)

type AdminHandler struct {
	admin *ledger.Admin
	svc   *ledger.Service
	cfg   cliparse.Config
}

func NewAdminHandler(admin *ledger.Admin, svc *ledger.Service, cfg cliparse.Config) *AdminHandler {
	return &AdminHandler{admin: admin, svc: svc, cfg: cfg}
}

// RevealWinner handles POST /admin/reveal
// Requires X-Admin-Key header
func (h *AdminHandler) RevealWinner(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(w, r) {
		return
	}

	winner, err := h.admin.RevealWinner(r.Context())
	if err != nil {
		ledgerError(w, err, "reveal_winner")
		return
	}

	state, err := h.svc.Election(r.Context())
	if err != nil {
		ledgerError(w, err, "reveal_winner")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.RevealWinnerResponse{
		Winner:   winner,
		Election: state,
	})
}

// ResetElection handles POST /admin/reset
// Requires X-Admin-Key header. A partial reset answers 207 with the steps
// that did complete.
func (h *AdminHandler) ResetElection(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(w, r) {
		return
	}

	err := h.admin.ResetElection(r.Context())

	var resetErr *ledger.ResetError
	switch {
	case err == nil:
		middleware.JSONResponse(w, http.StatusOK, models.ResetElectionResponse{
			Message:   "Election reset",
			Completed: []string{ledger.StepClearVoters, ledger.StepResetTally, ledger.StepReopenElection},
		})
	case errors.As(err, &resetErr):
		middleware.JSONResponse(w, http.StatusMultiStatus, models.ResetElectionResponse{
			Message:    "Election reset partially failed, manual reconciliation required",
			Completed:  resetErr.Completed,
			FailedStep: resetErr.Step,
		})
	default:
		ledgerError(w, err, "reset_election")
	}
}

func (h *AdminHandler) authorized(w http.ResponseWriter, r *http.Request) bool {
	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(h.cfg.ElectionName, adminKey, h.cfg.AdminKeySalt); err != nil {
		slog.Warn("admin request rejected", "path", r.URL.Path, "ip_hash", auth.HashIP(middleware.GetClientIP(r), h.cfg.AdminKeySalt))
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return false
	}
	return true
}
