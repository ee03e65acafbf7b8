package vote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"agm-voting/internal/domain/ballot"
	"agm-voting/internal/domain/resolution"
)

// Reason codes carried by NotAllowedError. The write boundary rejects the
// whole ballot with exactly one of these; nothing is partially applied.
const (
	ReasonInactive           = "resolution_inactive"
	ReasonVotingClosed       = "voting_closed"
	ReasonWindowNotOpen      = "window_not_open"
	ReasonWindowClosed       = "window_closed"
	ReasonAlreadyVoted       = "already_voted"
	ReasonInsufficientShares = "insufficient_shares"
)

// NotAllowedError covers all state errors of vote submission: voting outside
// the window, voting on an inactive or closed resolution, duplicate ballots
// and over-weight ballots.
type NotAllowedError struct {
	Reason string
}

func (e *NotAllowedError) Error() string {
	return fmt.Sprintf("vote not allowed: %s", e.Reason)
}

// ErrAlreadyVoted is returned by repositories when the unique
// (resolution, shareholder) constraint rejects an insert.
var ErrAlreadyVoted = &NotAllowedError{Reason: ReasonAlreadyVoted}

var ErrInvalidShares = errors.New("shares_used must be positive")

type Service struct {
	repo Repository
	gate GateReader
	now  func() time.Time
}

func NewService(repo Repository, gate GateReader) *Service {
	return &Service{repo: repo, gate: gate, now: time.Now}
}

type CastRequest struct {
	ResolutionID  int64
	ShareholderID int64
	VoteValue     string
	SharesUsed    int64
	IPAddress     *string
	UserAgent     *string
}

// Cast validates and persists one ballot. Validation errors (malformed
// ballot, unknown options) and state errors (window, lifecycle, duplicate)
// are rejected synchronously; nothing retries on behalf of the caller.
func (s *Service) Cast(ctx context.Context, req CastRequest) (*Vote, error) {
	if req.SharesUsed <= 0 {
		return nil, ErrInvalidShares
	}

	g, err := s.gate.VotingGate(ctx, req.ResolutionID)
	if err != nil {
		return nil, err
	}

	if !g.IsActive {
		return nil, &NotAllowedError{Reason: ReasonInactive}
	}
	if g.Status != resolution.StatusOpen {
		return nil, &NotAllowedError{Reason: ReasonVotingClosed}
	}

	now := s.now()
	if g.VotingStart != nil && now.Before(*g.VotingStart) {
		return nil, &NotAllowedError{Reason: ReasonWindowNotOpen}
	}
	if g.VotingEnd != nil && !now.Before(*g.VotingEnd) {
		return nil, &NotAllowedError{Reason: ReasonWindowClosed}
	}

	eligible, err := s.gate.EligibleShares(ctx, g.MeetingID, req.ShareholderID)
	if err != nil {
		return nil, err
	}
	if req.SharesUsed > eligible {
		return nil, &NotAllowedError{Reason: ReasonInsufficientShares}
	}

	b, err := ballot.Decode(g.Method, req.VoteValue)
	if err != nil {
		return nil, err
	}
	if err := s.checkAgainstRegistry(g, b); err != nil {
		return nil, err
	}

	v := &Vote{
		ResolutionID:  req.ResolutionID,
		ShareholderID: req.ShareholderID,
		VoteValue:     req.VoteValue,
		SharesUsed:    req.SharesUsed,
		IPAddress:     req.IPAddress,
		UserAgent:     req.UserAgent,
	}
	if err := s.repo.Create(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// checkAgainstRegistry verifies the decoded ballot references only entries
// of the resolution's own registry and respects maxChoices.
func (s *Service) checkAgainstRegistry(g *Gate, b ballot.Ballot) error {
	switch bb := b.(type) {
	case ballot.ChoiceBallot:
		if g.MaxChoices > 0 && len(bb.OptionIDs) > g.MaxChoices {
			return fmt.Errorf("%w: %d selected, %d allowed", ballot.ErrTooManyChoices, len(bb.OptionIDs), g.MaxChoices)
		}
		for _, id := range bb.OptionIDs {
			if !g.OptionIDs[id] {
				return fmt.Errorf("option %d does not belong to the resolution: %w", id, ballot.ErrMalformedValue)
			}
		}
	case ballot.RankBallot:
		for code := range bb.Ranks {
			if !g.CandidateCodes[code] {
				return fmt.Errorf("candidate %s does not belong to the resolution: %w", code, ballot.ErrMalformedValue)
			}
		}
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListByResolution(ctx context.Context, resolutionID int64) ([]Vote, error) {
	return s.repo.ListByResolution(ctx, resolutionID)
}

func (s *Service) ListByMeeting(ctx context.Context, meetingID int64) ([]Vote, error) {
	return s.repo.ListByMeeting(ctx, meetingID)
}
