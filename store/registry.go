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

type registry struct {
	q queryer
}

func (r *registry) HasVoted(ctx context.Context, voterID string) (bool, error) {
	var hasVoted bool
	err := r.q.QueryRowContext(ctx, `
		SELECT has_voted FROM voter WHERE voter_id = $1
	`, voterID).Scan(&hasVoted)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "failed to query voter")
	}
	return hasVoted, nil
}

func (r *registry) Lookup(ctx context.Context, voterID string) (models.VoterRecord, error) {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO voter (voter_id, has_voted, created_at)
		VALUES ($1, FALSE, $2)
		ON CONFLICT (voter_id) DO NOTHING
	`, voterID, time.Now())
	if err != nil {
		return models.VoterRecord{}, errors.Wrap(err, "failed to create voter")
	}

	var record models.VoterRecord
	var votedFor sql.NullInt64
	err = r.q.QueryRowContext(ctx, `
		SELECT voter_id, has_voted, voted_for FROM voter WHERE voter_id = $1
	`, voterID).Scan(&record.VoterID, &record.HasVoted, &votedFor)
	if err != nil {
		return models.VoterRecord{}, errors.Wrap(err, "failed to query voter")
	}

	if votedFor.Valid {
		record.VotedFor = &votedFor.Int64
	}
	return record, nil
}

// Register creates the record or flips an unvoted one in a single upsert.
// The conditional DO UPDATE leaves voted records untouched, so zero affected
// rows means the voter already voted.
func (r *registry) Register(ctx context.Context, voterID string, candidateID int64) error {
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO voter (voter_id, has_voted, voted_for, created_at, voted_at)
		VALUES ($1, TRUE, $2, $3, $3)
		ON CONFLICT (voter_id) DO UPDATE
		SET has_voted = TRUE, voted_for = excluded.voted_for, voted_at = excluded.voted_at
		WHERE voter.has_voted = FALSE
	`, voterID, candidateID, time.Now())
	if err != nil {
		return errors.Wrap(err, "failed to register voter")
	}

	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return ledger.ErrAlreadyVoted
	}
	return nil
}

func (r *registry) ClearAll(ctx context.Context) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM voter`)
	return errors.Wrap(err, "failed to clear voters")
}
