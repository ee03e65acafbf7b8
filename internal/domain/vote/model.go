package vote

import (
	"context"
	"time"

	"agm-voting/internal/domain/ballot"
	"agm-voting/internal/domain/resolution"
)

// Vote is one immutable cast ballot. VoteValue holds the canonical encoding
// produced by the ballot package for the owning resolution's method.
type Vote struct {
	ID            int64     `json:"id"`
	ResolutionID  int64     `json:"resolution_id"`
	ShareholderID int64     `json:"shareholder_id"`
	VoteValue     string    `json:"vote_value"`
	SharesUsed    int64     `json:"shares_used"`
	IPAddress     *string   `json:"ip_address,omitempty"`
	UserAgent     *string   `json:"user_agent,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type Repository interface {
	Create(ctx context.Context, v *Vote) error
	Delete(ctx context.Context, id int64) error
	ListByResolution(ctx context.Context, resolutionID int64) ([]Vote, error)
	ListByMeeting(ctx context.Context, meetingID int64) ([]Vote, error)
}

// Gate is the read-side the casting service needs to decide whether a ballot
// may be accepted: the resolution's method, lifecycle, window and the
// selectable universe to validate the decoded ballot against.
type Gate struct {
	MeetingID      int64
	Method         ballot.Method
	Status         resolution.Status
	IsActive       bool
	MaxChoices     int
	VotingStart    *time.Time
	VotingEnd      *time.Time
	OptionIDs      map[int64]bool
	CandidateCodes map[string]bool
}

type GateReader interface {
	VotingGate(ctx context.Context, resolutionID int64) (*Gate, error)
	EligibleShares(ctx context.Context, meetingID, shareholderID int64) (int64, error)
}
