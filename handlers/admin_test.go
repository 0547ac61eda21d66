// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/vote-ledger/ledger"
	"github.com/danielhkuo/vote-ledger/models"
	"github.com/danielhkuo/vote-ledger/testutil"
)

// brokenTallyStore fails every tally reset
type brokenTallyStore struct {
	ledger.Store
}

func (s brokenTallyStore) Tally() ledger.Tally {
	return brokenTally{s.Store.Tally()}
}

type brokenTally struct {
	ledger.Tally
}

func (brokenTally) ResetAll(context.Context) error {
	return errors.New("disk I/O error")
}

func TestRevealWinner(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	testutil.SeedCandidates(t, conn, "Alice", "Bob", "Carol")

	cfg := testutil.GetTestConfig()
	l := testutil.NewLedger(t, conn, cfg)
	handler := NewAdminHandler(l.Admin, l.Service, cfg)
	adminKey := testutil.AdminKey(cfg)

	for voter, candidate := range map[string]int64{"u1": 2, "u2": 2, "u3": 3} {
		_, err := l.Service.CastVote(t.Context(), voter, candidate)
		require.NoError(t, err)
	}

	t.Run("missing admin key", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.RevealWinner(w, testutil.MakeRequest("POST", "/admin/reveal", nil, nil))
		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})

	t.Run("wrong admin key", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := testutil.MakeRequest("POST", "/admin/reveal", nil, map[string]string{"X-Admin-Key": "nope"})
		handler.RevealWinner(w, req)
		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})

	t.Run("reveal", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := testutil.MakeRequest("POST", "/admin/reveal", nil, map[string]string{"X-Admin-Key": adminKey})
		handler.RevealWinner(w, req)
		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.RevealWinnerResponse
		testutil.AssertJSON(t, w, &resp)

		assert.Equal(t, models.Candidate{ID: 2, Name: "Bob", VoteCount: 2}, resp.Winner)
		assert.False(t, resp.Election.IsOpen)
		assert.True(t, resp.Election.WinnerRevealed)
		require.NotNil(t, resp.Election.WinnerID)
		assert.Equal(t, int64(2), *resp.Election.WinnerID)
	})

	t.Run("second reveal conflicts", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := testutil.MakeRequest("POST", "/admin/reveal", nil, map[string]string{"X-Admin-Key": adminKey})
		handler.RevealWinner(w, req)
		testutil.AssertStatus(t, w, http.StatusConflict)

		winner, err := l.Service.Winner(t.Context())
		require.NoError(t, err)
		assert.Equal(t, int64(2), winner.ID, "winner must not change")
	})
}

func TestRevealWinner_NoCandidates(t *testing.T) {
	conn := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	l := testutil.NewLedger(t, conn, cfg)
	handler := NewAdminHandler(l.Admin, l.Service, cfg)

	w := httptest.NewRecorder()
	req := testutil.MakeRequest("POST", "/admin/reveal", nil, map[string]string{"X-Admin-Key": testutil.AdminKey(cfg)})
	handler.RevealWinner(w, req)

	testutil.AssertStatus(t, w, http.StatusUnprocessableEntity)

	state, err := l.Service.Election(t.Context())
	require.NoError(t, err)
	assert.True(t, state.IsOpen, "failed reveal must leave voting open")
}

func TestResetElection(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	testutil.SeedCandidates(t, conn, "Alice", "Bob")

	cfg := testutil.GetTestConfig()
	l := testutil.NewLedger(t, conn, cfg)
	handler := NewAdminHandler(l.Admin, l.Service, cfg)
	headers := map[string]string{"X-Admin-Key": testutil.AdminKey(cfg)}

	_, err := l.Service.CastVote(t.Context(), "u1", 1)
	require.NoError(t, err)
	_, err = l.Admin.RevealWinner(t.Context())
	require.NoError(t, err)

	t.Run("wrong admin key", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := testutil.MakeRequest("POST", "/admin/reset", nil, map[string]string{"X-Admin-Key": "nope"})
		handler.ResetElection(w, req)
		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})

	w := httptest.NewRecorder()
	handler.ResetElection(w, testutil.MakeRequest("POST", "/admin/reset", nil, headers))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.ResetElectionResponse
	testutil.AssertJSON(t, w, &resp)
	assert.Equal(t, []string{ledger.StepClearVoters, ledger.StepResetTally, ledger.StepReopenElection}, resp.Completed)
	assert.Empty(t, resp.FailedStep)

	state, err := l.Service.Election(t.Context())
	require.NoError(t, err)
	assert.True(t, state.IsOpen)
	assert.False(t, state.WinnerRevealed)
	assert.Nil(t, state.WinnerID)

	tally, err := l.Service.Tally(t.Context())
	require.NoError(t, err)
	for _, c := range tally {
		assert.Zero(t, c.VoteCount, "candidate %d", c.ID)
	}

	// u1 may vote again after the reset
	_, err = l.Service.CastVote(t.Context(), "u1", 2)
	assert.NoError(t, err)
}

func TestResetElection_PartialFailure(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	testutil.SeedCandidates(t, conn, "Alice", "Bob")

	cfg := testutil.GetTestConfig()
	l := testutil.NewLedger(t, conn, cfg)

	_, err := l.Service.CastVote(t.Context(), "u1", 1)
	require.NoError(t, err)
	_, err = l.Admin.RevealWinner(t.Context())
	require.NoError(t, err)

	svc := ledger.NewService(brokenTallyStore{l.Store}, l.Feed, cfg.StoreTimeout)
	handler := NewAdminHandler(ledger.NewAdmin(svc), svc, cfg)

	w := httptest.NewRecorder()
	req := testutil.MakeRequest("POST", "/admin/reset", nil, map[string]string{"X-Admin-Key": testutil.AdminKey(cfg)})
	handler.ResetElection(w, req)
	testutil.AssertStatus(t, w, http.StatusMultiStatus)

	var resp models.ResetElectionResponse
	testutil.AssertJSON(t, w, &resp)
	assert.Equal(t, []string{ledger.StepClearVoters}, resp.Completed)
	assert.Equal(t, ledger.StepResetTally, resp.FailedStep)

	// Voters were cleared, the tally and election state were not touched
	u1, err := l.Service.Voter(t.Context(), "u1")
	require.NoError(t, err)
	assert.False(t, u1.HasVoted)

	tally, err := l.Service.Tally(t.Context())
	require.NoError(t, err)
	assert.Equal(t, int64(1), tally[0].VoteCount)

	state, err := l.Service.Election(t.Context())
	require.NoError(t, err)
	assert.True(t, state.WinnerRevealed)
}
