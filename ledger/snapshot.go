// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"sort"
	"time"

	"github.com/danielhkuo/vote-ledger/models"
)

// ReadSnapshot reads the tally and the election state in one read-only
// transaction, so a concurrent reset never shows up half applied.
func ReadSnapshot(ctx context.Context, st Store) (models.Snapshot, error) {
	var snap models.Snapshot
	err := st.View(ctx, func(tx Stores) error {
		tally, err := tx.Tally().Snapshot(ctx)
		if err != nil {
			return err
		}

		state, err := tx.Election().State(ctx)
		if err != nil {
			return err
		}

		snap = models.Snapshot{Tally: tally, Election: state}
		return nil
	})
	if err != nil {
		return models.Snapshot{}, err
	}

	snap.TakenAt = time.Now()
	return snap, nil
}

// SnapshotSource adapts st to the feed's source signature. Every read is
// bounded by timeout.
func SnapshotSource(st Store, timeout time.Duration) func(ctx context.Context) (models.Snapshot, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return func(ctx context.Context) (models.Snapshot, error) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		snap, err := ReadSnapshot(ctx, st)
		return snap, timeoutErr(ctx, err)
	}
}

// pickWinner expects the Tally.Snapshot ordering: highest count first, lowest id on ties
func pickWinner(tally []models.Candidate) (models.Candidate, error) {
	if len(tally) == 0 {
		return models.Candidate{}, ErrNoCandidates
	}
	return tally[0], nil
}

func sortByID(candidates []models.Candidate) {
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].ID < candidates[j].ID
	})
}
