// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"log/slog"

	"github.com/danielhkuo/vote-ledger/models"
)

// Admin reveals the winner and resets the election. It shares the
// service's store and holds the exclusive side of its lock.
type Admin struct {
	svc *Service
}

func NewAdmin(svc *Service) *Admin {
	return &Admin{svc: svc}
}

// RevealWinner closes voting and publishes the candidate with the most votes.
// Ties go to the lowest candidate id.
func (a *Admin) RevealWinner(ctx context.Context) (models.Candidate, error) {
	a.svc.admin.Lock()
	defer a.svc.admin.Unlock()

	ctx, cancel := context.WithTimeout(ctx, a.svc.timeout)
	defer cancel()

	var winner models.Candidate
	err := a.svc.store.InTx(ctx, func(tx Stores) error {
		state, err := tx.Election().Lock(ctx, true)
		if err != nil {
			return err
		}
		if state.WinnerRevealed {
			return ErrAlreadyRevealed
		}

		tally, err := tx.Tally().Snapshot(ctx)
		if err != nil {
			return err
		}

		winner, err = pickWinner(tally)
		if err != nil {
			return err
		}

		return tx.Election().Reveal(ctx, winner.ID)
	})
	if err != nil {
		return models.Candidate{}, timeoutErr(ctx, err)
	}

	slog.Info("winner revealed", "candidate_id", winner.ID, "name", winner.Name, "votes", winner.VoteCount)
	a.svc.publish(ctx)

	return winner, nil
}

// ResetElection wipes the registry, zeroes the tally and reopens voting, in
// that order. A failed step stops the reset and returns a *ResetError; the
// stores are then left as reported and need manual reconciliation. The reset
// is never retried here.
func (a *Admin) ResetElection(ctx context.Context) error {
	a.svc.admin.Lock()
	defer a.svc.admin.Unlock()

	ctx, cancel := context.WithTimeout(ctx, a.svc.timeout)
	defer cancel()

	steps := []struct {
		name string
		run  func(context.Context) error
	}{
		{StepClearVoters, a.svc.store.Registry().ClearAll},
		{StepResetTally, a.svc.store.Tally().ResetAll},
		{StepReopenElection, a.svc.store.Election().Reset},
	}

	completed := make([]string, 0, len(steps))
	for _, step := range steps {
		if err := step.run(ctx); err != nil {
			resetErr := &ResetError{
				Completed: completed,
				Step:      step.name,
				Err:       timeoutErr(ctx, err),
			}
			slog.Error("ELECTION RESET PARTIALLY FAILED - manual reconciliation required",
				"failed_step", step.name,
				"completed", completed,
				"error", err,
			)
			if len(completed) > 0 {
				a.svc.publish(ctx)
			}
			return resetErr
		}
		completed = append(completed, step.name)
	}

	slog.Info("election reset")
	a.svc.publish(ctx)

	return nil
}
