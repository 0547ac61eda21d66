// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bufio"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/vote-ledger/models"
	"github.com/danielhkuo/vote-ledger/testutil"
)

// readEvent reads one server-sent event and decodes its data line
func readEvent(t *testing.T, scanner *bufio.Scanner) (string, models.Snapshot) {
	t.Helper()

	var id, event string
	var snap models.Snapshot
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			break
		}
		key, value, _ := strings.Cut(line, ": ")
		switch key {
		case "id":
			id = value
		case "event":
			event = value
		case "data":
			require.NoError(t, json.Unmarshal([]byte(value), &snap))
		}
	}
	require.NoError(t, scanner.Err())
	require.Equal(t, "snapshot", event)
	return id, snap
}

func TestStreamFeed(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	testutil.SeedCandidates(t, conn, "Alice", "Bob")

	cfg := testutil.GetTestConfig()
	l := testutil.NewLedger(t, conn, cfg)
	handler := NewFeedHandler(l.Feed)

	srv := httptest.NewServer(http.HandlerFunc(handler.StreamFeed))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	scanner := bufio.NewScanner(resp.Body)

	// Current state arrives first
	id, snap := readEvent(t, scanner)
	assert.Equal(t, "0", id)
	require.Len(t, snap.Tally, 2)
	assert.Zero(t, snap.Tally[0].VoteCount)
	assert.True(t, snap.Election.IsOpen)

	_, err = l.Service.CastVote(t.Context(), "u1", 2)
	require.NoError(t, err)

	id, snap = readEvent(t, scanner)
	assert.Equal(t, "1", id)
	assert.Equal(t, models.Candidate{ID: 2, Name: "Bob", VoteCount: 1}, snap.Tally[0])

	_, err = l.Admin.RevealWinner(t.Context())
	require.NoError(t, err)

	id, snap = readEvent(t, scanner)
	assert.Equal(t, "2", id)
	assert.True(t, snap.Election.WinnerRevealed)
	assert.False(t, snap.Election.IsOpen)
}
