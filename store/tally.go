// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/danielhkuo/vote-ledger/ledger"
	"github.com/danielhkuo/vote-ledger/models"
)

type tally struct {
	q queryer
}

func (t *tally) Exists(ctx context.Context, candidateID int64) (bool, error) {
	var exists bool
	err := t.q.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM candidate WHERE id = $1)
	`, candidateID).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "failed to query candidate")
	}
	return exists, nil
}

func (t *tally) Get(ctx context.Context, candidateID int64) (models.Candidate, error) {
	var c models.Candidate
	err := t.q.QueryRowContext(ctx, `
		SELECT id, name, vote_count FROM candidate WHERE id = $1
	`, candidateID).Scan(&c.ID, &c.Name, &c.VoteCount)

	if err == sql.ErrNoRows {
		return models.Candidate{}, errors.Wrapf(ledger.ErrNotFound, "candidate %d", candidateID)
	}
	if err != nil {
		return models.Candidate{}, errors.Wrap(err, "failed to query candidate")
	}
	return c, nil
}

// Increment is a single UPDATE so concurrent votes never lose a count
func (t *tally) Increment(ctx context.Context, candidateID int64) error {
	res, err := t.q.ExecContext(ctx, `
		UPDATE candidate SET vote_count = vote_count + 1 WHERE id = $1
	`, candidateID)
	if err != nil {
		return errors.Wrap(err, "failed to increment tally")
	}

	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.Wrapf(ledger.ErrNotFound, "candidate %d", candidateID)
	}
	return nil
}

func (t *tally) Snapshot(ctx context.Context) ([]models.Candidate, error) {
	rows, err := t.q.QueryContext(ctx, `
		SELECT id, name, vote_count
		FROM candidate
		ORDER BY vote_count DESC, id ASC
	`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query tally")
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.ID, &c.Name, &c.VoteCount); err != nil {
			return nil, errors.Wrap(err, "failed to scan candidate")
		}
		candidates = append(candidates, c)
	}
	return candidates, errors.Wrap(rows.Err(), "failed to read tally")
}

func (t *tally) ResetAll(ctx context.Context) error {
	_, err := t.q.ExecContext(ctx, `UPDATE candidate SET vote_count = 0`)
	return errors.Wrap(err, "failed to reset tally")
}
