// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/danielhkuo/vote-ledger/models"
)

// DefaultTimeout bounds every store operation when no timeout is configured
const DefaultTimeout = 3 * time.Second

// Service casts votes and serves read-only views of the election
type Service struct {
	store   Store
	pub     Publisher
	timeout time.Duration

	// votes hold the read side, admin operations the write side
	admin sync.RWMutex

	// held across snapshot read and publish: snapshots reach pub in commit order
	publishing sync.Mutex
}

func NewService(store Store, pub Publisher, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{store: store, pub: pub, timeout: timeout}
}

// CastVote records one vote for voterID. Registration and increment commit
// together or not at all.
func (s *Service) CastVote(ctx context.Context, voterID string, candidateID int64) (models.VoterRecord, error) {
	voterID = strings.TrimSpace(voterID)
	if voterID == "" {
		return models.VoterRecord{}, ErrInvalidVoter
	}

	s.admin.RLock()
	defer s.admin.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := s.store.InTx(ctx, func(tx Stores) error {
		state, err := tx.Election().Lock(ctx, false)
		if err != nil {
			return err
		}
		if !state.IsOpen {
			return ErrElectionClosed
		}

		exists, err := tx.Tally().Exists(ctx, candidateID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrUnknownCandidate
		}

		if err := tx.Registry().Register(ctx, voterID, candidateID); err != nil {
			return err
		}

		// A vanished candidate here aborts the transaction, which also
		// discards the registration above.
		if err := tx.Tally().Increment(ctx, candidateID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return ErrUnknownCandidate
			}
			return err
		}
		return nil
	})
	if err != nil {
		return models.VoterRecord{}, timeoutErr(ctx, err)
	}

	slog.Info("vote cast", "voter_id", voterID, "candidate_id", candidateID)
	s.publish(ctx)

	votedFor := candidateID
	return models.VoterRecord{VoterID: voterID, HasVoted: true, VotedFor: &votedFor}, nil
}

// Tally returns the ordered vote counts
func (s *Service) Tally(ctx context.Context) ([]models.Candidate, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	tally, err := s.store.Tally().Snapshot(ctx)
	return tally, timeoutErr(ctx, err)
}

// Candidates returns the candidates ordered by id, without counts
func (s *Service) Candidates(ctx context.Context) ([]models.Candidate, error) {
	tally, err := s.Tally(ctx)
	if err != nil {
		return nil, err
	}

	candidates := make([]models.Candidate, len(tally))
	for i, c := range tally {
		candidates[i] = models.Candidate{ID: c.ID, Name: c.Name}
	}
	sortByID(candidates)
	return candidates, nil
}

// Election returns the current election state
func (s *Service) Election(ctx context.Context) (models.ElectionState, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	state, err := s.store.Election().State(ctx)
	return state, timeoutErr(ctx, err)
}

// Voter returns the voter record, creating it on first contact
func (s *Service) Voter(ctx context.Context, voterID string) (models.VoterRecord, error) {
	voterID = strings.TrimSpace(voterID)
	if voterID == "" {
		return models.VoterRecord{}, ErrInvalidVoter
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	record, err := s.store.Registry().Lookup(ctx, voterID)
	return record, timeoutErr(ctx, err)
}

// Winner returns the revealed winner. Errors: ErrNotRevealed
func (s *Service) Winner(ctx context.Context) (models.Candidate, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	state, err := s.store.Election().State(ctx)
	if err != nil {
		return models.Candidate{}, timeoutErr(ctx, err)
	}

	winnerID, ok := state.Winner()
	if !ok {
		return models.Candidate{}, ErrNotRevealed
	}

	winner, err := s.store.Tally().Get(ctx, winnerID)
	return winner, timeoutErr(ctx, err)
}

// Snapshot reads tally and election state together
func (s *Service) Snapshot(ctx context.Context) (models.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	snap, err := ReadSnapshot(ctx, s.store)
	return snap, timeoutErr(ctx, err)
}

// publish is best effort: observers can always re-read the stores
func (s *Service) publish(ctx context.Context) {
	if s.pub == nil {
		return
	}

	s.publishing.Lock()
	defer s.publishing.Unlock()

	snap, err := ReadSnapshot(ctx, s.store)
	if err != nil {
		slog.Warn("failed to read snapshot for feed", "error", err)
		return
	}
	s.pub.Publish(snap)
}

// timeoutErr reports an expired deadline as ErrTimeout, whatever error the
// driver surfaced for the cancelled statement.
func timeoutErr(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return errors.Join(ErrTimeout, err)
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) && !isDomainErr(err) {
		return errors.Join(ErrTimeout, err)
	}
	return err
}

func isDomainErr(err error) bool {
	for _, target := range []error{
		ErrAlreadyVoted, ErrUnknownCandidate, ErrElectionClosed, ErrAlreadyRevealed,
		ErrNoCandidates, ErrNotFound, ErrInvalidCandidate, ErrNotRevealed, ErrInvalidVoter,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
