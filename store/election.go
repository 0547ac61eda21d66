// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"

	"github.com/danielhkuo/vote-ledger/ledger"
	"github.com/danielhkuo/vote-ledger/models"
)

const selectState = `
	SELECT name, is_open, winner_revealed, winner_id
	FROM election_state
	WHERE id = 1
`

type election struct {
	q       queryer
	dialect string
}

func (e *election) State(ctx context.Context) (models.ElectionState, error) {
	return e.read(ctx, selectState)
}

// Lock takes a row lock on postgres. sqlite runs on a single connection, so
// the transaction itself already excludes everyone else.
func (e *election) Lock(ctx context.Context, exclusive bool) (models.ElectionState, error) {
	query := selectState
	if e.dialect == DialectPostgres {
		if exclusive {
			query += " FOR UPDATE"
		} else {
			query += " FOR SHARE"
		}
	}
	return e.read(ctx, query)
}

func (e *election) read(ctx context.Context, query string) (models.ElectionState, error) {
	var state models.ElectionState
	var winnerID sql.NullInt64
	err := e.q.QueryRowContext(ctx, query).Scan(
		&state.Name, &state.IsOpen, &state.WinnerRevealed, &winnerID,
	)

	if err == sql.ErrNoRows {
		return models.ElectionState{}, errors.Wrap(ledger.ErrNotFound, "election state missing")
	}
	if err != nil {
		return models.ElectionState{}, errors.Wrap(err, "failed to query election state")
	}

	if winnerID.Valid {
		state.WinnerID = &winnerID.Int64
	}
	return state, nil
}

func (e *election) Reveal(ctx context.Context, winnerID int64) error {
	var exists bool
	err := e.q.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM candidate WHERE id = $1)
	`, winnerID).Scan(&exists)
	if err != nil {
		return errors.Wrap(err, "failed to query candidate")
	}
	if !exists {
		return ledger.ErrInvalidCandidate
	}

	res, err := e.q.ExecContext(ctx, `
		UPDATE election_state
		SET is_open = FALSE, winner_revealed = TRUE, winner_id = $1, revealed_at = $2
		WHERE id = 1 AND winner_revealed = FALSE
	`, winnerID, time.Now())
	if err != nil {
		return errors.Wrap(err, "failed to reveal winner")
	}

	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return ledger.ErrAlreadyRevealed
	}
	return nil
}

func (e *election) Reset(ctx context.Context) error {
	_, err := e.q.ExecContext(ctx, `
		UPDATE election_state
		SET is_open = TRUE, winner_revealed = FALSE, winner_id = NULL, revealed_at = NULL
		WHERE id = 1
	`)
	return errors.Wrap(err, "failed to reset election state")
}
