// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/vote-ledger/ledger"
)

func TestRevealWinner(t *testing.T) {
	ctx := context.Background()
	svc, admin, pub, _ := newService(t, "Alice", "Bob", "Carol")

	for voter, candidate := range map[string]int64{"u1": 3, "u2": 3, "u3": 1} {
		_, err := svc.CastVote(ctx, voter, candidate)
		require.NoError(t, err)
	}
	before := len(pub.published())

	winner, err := admin.RevealWinner(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), winner.ID)
	assert.Equal(t, int64(2), winner.VoteCount)

	state, err := svc.Election(ctx)
	require.NoError(t, err)
	assert.False(t, state.IsOpen)
	assert.True(t, state.WinnerRevealed)
	require.NotNil(t, state.WinnerID)
	assert.Equal(t, int64(3), *state.WinnerID)

	snaps := pub.published()
	require.Len(t, snaps, before+1)
	assert.True(t, snaps[len(snaps)-1].Election.WinnerRevealed)
}

func TestRevealWinner_TieGoesToLowestID(t *testing.T) {
	ctx := context.Background()
	svc, admin, _, _ := newService(t, "Alice", "Bob", "Carol")

	_, err := svc.CastVote(ctx, "u1", 3)
	require.NoError(t, err)
	_, err = svc.CastVote(ctx, "u2", 2)
	require.NoError(t, err)

	winner, err := admin.RevealWinner(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), winner.ID)
}

func TestRevealWinner_NoVotes(t *testing.T) {
	svc, admin, _, _ := newService(t, "Alice", "Bob")

	winner, err := admin.RevealWinner(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), winner.ID)
	assert.Zero(t, winner.VoteCount)

	_, err = svc.Winner(context.Background())
	assert.NoError(t, err)
}

func TestRevealWinner_NoCandidates(t *testing.T) {
	svc, admin, pub, _ := newService(t)

	_, err := admin.RevealWinner(context.Background())
	assert.ErrorIs(t, err, ledger.ErrNoCandidates)

	state, err := svc.Election(context.Background())
	require.NoError(t, err)
	assert.True(t, state.IsOpen)
	assert.Empty(t, pub.published())
}

func TestRevealWinner_Idempotent(t *testing.T) {
	ctx := context.Background()
	svc, admin, pub, _ := newService(t, "Alice", "Bob")

	_, err := svc.CastVote(ctx, "u1", 1)
	require.NoError(t, err)

	first, err := admin.RevealWinner(ctx)
	require.NoError(t, err)
	published := len(pub.published())

	_, err = admin.RevealWinner(ctx)
	assert.ErrorIs(t, err, ledger.ErrAlreadyRevealed)

	winner, err := svc.Winner(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, winner.ID)
	assert.Len(t, pub.published(), published, "a refused reveal publishes nothing")
}

func TestRevealWinner_Concurrent(t *testing.T) {
	ctx := context.Background()
	_, admin, _, _ := newService(t, "Alice", "Bob")

	var wg sync.WaitGroup
	results := make(chan error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := admin.RevealWinner(ctx)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ledger.ErrAlreadyRevealed)
	}
	assert.Equal(t, 1, succeeded)
}

func TestResetElection(t *testing.T) {
	ctx := context.Background()
	svc, admin, pub, st := newService(t, "Alice", "Bob")

	for i := 0; i < 4; i++ {
		_, err := svc.CastVote(ctx, fmt.Sprintf("u%d", i), int64(i%2)+1)
		require.NoError(t, err)
	}
	_, err := admin.RevealWinner(ctx)
	require.NoError(t, err)
	before := len(pub.published())

	require.NoError(t, admin.ResetElection(ctx))

	for i := 0; i < 4; i++ {
		voted, err := st.Registry().HasVoted(ctx, fmt.Sprintf("u%d", i))
		require.NoError(t, err)
		assert.False(t, voted)
	}

	tally, err := svc.Tally(ctx)
	require.NoError(t, err)
	assert.Zero(t, sumVotes(tally))
	assert.Len(t, tally, 2, "candidates survive a reset")

	state, err := svc.Election(ctx)
	require.NoError(t, err)
	assert.True(t, state.IsOpen)
	assert.False(t, state.WinnerRevealed)
	assert.Nil(t, state.WinnerID)

	snaps := pub.published()
	require.Len(t, snaps, before+1)
	assert.True(t, snaps[len(snaps)-1].Election.IsOpen)

	// The same identities can vote again
	_, err = svc.CastVote(ctx, "u0", 2)
	assert.NoError(t, err)
}

func TestResetElection_OpenElection(t *testing.T) {
	ctx := context.Background()
	svc, admin, _, _ := newService(t, "Alice")

	_, err := svc.CastVote(ctx, "u1", 1)
	require.NoError(t, err)

	require.NoError(t, admin.ResetElection(ctx))

	tally, err := svc.Tally(ctx)
	require.NoError(t, err)
	assert.Zero(t, sumVotes(tally))
}

// failingStore fails one reset step
type failingStore struct {
	ledger.Store
	step string
}

var errDisk = errors.New("disk I/O error")

func (s failingStore) Registry() ledger.Registry {
	if s.step == ledger.StepClearVoters {
		return failingRegistry{s.Store.Registry()}
	}
	return s.Store.Registry()
}

func (s failingStore) Tally() ledger.Tally {
	if s.step == ledger.StepResetTally {
		return failingTally{s.Store.Tally()}
	}
	return s.Store.Tally()
}

func (s failingStore) Election() ledger.Election {
	if s.step == ledger.StepReopenElection {
		return failingElection{s.Store.Election()}
	}
	return s.Store.Election()
}

type failingRegistry struct{ ledger.Registry }

func (failingRegistry) ClearAll(context.Context) error { return errDisk }

type failingTally struct{ ledger.Tally }

func (failingTally) ResetAll(context.Context) error { return errDisk }

type failingElection struct{ ledger.Election }

func (failingElection) Reset(context.Context) error { return errDisk }

func TestResetElection_PartialFailure(t *testing.T) {
	tests := []struct {
		step      string
		completed []string
	}{
		{ledger.StepClearVoters, []string{}},
		{ledger.StepResetTally, []string{ledger.StepClearVoters}},
		{ledger.StepReopenElection, []string{ledger.StepClearVoters, ledger.StepResetTally}},
	}

	for _, tt := range tests {
		t.Run(tt.step, func(t *testing.T) {
			ctx := context.Background()
			svc, admin, _, st := newService(t, "Alice", "Bob")

			_, err := svc.CastVote(ctx, "u1", 1)
			require.NoError(t, err)
			_, err = admin.RevealWinner(ctx)
			require.NoError(t, err)

			pub := &recorder{}
			broken := ledger.NewAdmin(ledger.NewService(failingStore{Store: st, step: tt.step}, pub, 0))

			err = broken.ResetElection(ctx)
			require.Error(t, err)
			assert.ErrorIs(t, err, ledger.ErrPartialFailure)
			assert.ErrorIs(t, err, errDisk)

			var resetErr *ledger.ResetError
			require.True(t, errors.As(err, &resetErr))
			assert.Equal(t, tt.step, resetErr.Step)
			assert.Equal(t, tt.completed, resetErr.Completed)

			// Steps after the failure did not run
			voted, err := st.Registry().HasVoted(ctx, "u1")
			require.NoError(t, err)
			assert.Equal(t, tt.step == ledger.StepClearVoters, voted)

			state, err := st.Election().State(ctx)
			require.NoError(t, err)
			assert.True(t, state.WinnerRevealed, "election must stay revealed")

			if len(tt.completed) == 0 {
				assert.Empty(t, pub.published())
			} else {
				assert.Len(t, pub.published(), 1)
			}
		})
	}
}
