package models

import "time"

// Election phases
const (
	PhaseOpen           = "open"
	PhaseWinnerRevealed = "winner_revealed"
)

// Feed modes
const (
	FeedModePush = "push"
	FeedModePoll = "poll"
)

// Feed poll interval bounds
const (
	MinPollInterval     = 1 * time.Second
	MaxPollInterval     = 5 * time.Second
	DefaultPollInterval = 3 * time.Second
)

// Request types

type CastVoteRequest struct {
	VoterID     string `json:"voter_id"`
	CandidateID int64  `json:"candidate_id"`
}

// Response types

type CastVoteResponse struct {
	Message string      `json:"message"`
	Voter   VoterRecord `json:"voter"`
}

type RevealWinnerResponse struct {
	Winner   Candidate     `json:"winner"`
	Election ElectionState `json:"election"`
}

// BallotEntry is a candidate as listed on the ballot, without its count
type BallotEntry struct {
	ID   int64  `json:"candidate_id"`
	Name string `json:"name"`
}

type ResetElectionResponse struct {
	Message    string   `json:"message"`
	Completed  []string `json:"completed"`
	FailedStep string   `json:"failed_step,omitempty"`
}

// Domain types

type Candidate struct {
	ID        int64  `json:"candidate_id"`
	Name      string `json:"name"`
	VoteCount int64  `json:"vote_count"`
}

type VoterRecord struct {
	VoterID  string `json:"voter_id"`
	HasVoted bool   `json:"has_voted"`
	VotedFor *int64 `json:"voted_for,omitempty"`
}

type ElectionState struct {
	Name           string `json:"name,omitempty"`
	IsOpen         bool   `json:"is_open"`
	WinnerRevealed bool   `json:"winner_revealed"`
	WinnerID       *int64 `json:"winner_id"`
}

// Phase reports the state machine position derived from the flags
func (s ElectionState) Phase() string {
	if s.WinnerRevealed {
		return PhaseWinnerRevealed
	}
	return PhaseOpen
}

// Winner returns the revealed winner id, if any
func (s ElectionState) Winner() (int64, bool) {
	if !s.WinnerRevealed || s.WinnerID == nil {
		return 0, false
	}
	return *s.WinnerID, true
}

// Snapshot is a read-only projection of tally and election state
type Snapshot struct {
	Version  uint64        `json:"version"`
	Tally    []Candidate   `json:"tally"`
	Election ElectionState `json:"election"`
	TakenAt  time.Time     `json:"taken_at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
