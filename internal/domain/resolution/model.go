package resolution

import (
	"context"
	"time"

	"agm-voting/internal/domain/ballot"
)

// Status is the voting lifecycle of a resolution. Votes are accepted only
// while OPEN; FINALIZED freezes approval and isElected flags.
type Status string

const (
	StatusOpen      Status = "OPEN"
	StatusClosed    Status = "CLOSED"
	StatusFinalized Status = "FINALIZED"
)

type Resolution struct {
	ID                int64         `json:"id"`
	MeetingID         int64         `json:"meeting_id"`
	ResolutionCode    string        `json:"resolution_code"`
	ResolutionNumber  int           `json:"resolution_number"`
	Title             string        `json:"title"`
	Content           *string       `json:"content,omitempty"`
	VotingMethod      ballot.Method `json:"voting_method"`
	ApprovalThreshold int           `json:"approval_threshold"`
	MaxChoices        int           `json:"max_choices"`
	Status            Status        `json:"status"`
	IsActive          bool          `json:"is_active"`
	DisplayOrder      int           `json:"display_order"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// Option is one selectable value of a YES_NO or MULTIPLE_CHOICE resolution.
// VoteCount is a denormalized shares-weighted tally cache, reconciled from
// the vote log; it is never the source of truth.
type Option struct {
	ID           int64     `json:"id"`
	ResolutionID int64     `json:"resolution_id"`
	OptionCode   string    `json:"option_code"`
	OptionValue  string    `json:"option_value"`
	OptionText   string    `json:"option_text"`
	DisplayOrder int       `json:"display_order"`
	VoteCount    int64     `json:"vote_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// Candidate is one electable entry of a RANKING resolution. VoteCount here
// counts ballots naming the candidate at any rank, unweighted.
type Candidate struct {
	ID            int64     `json:"id"`
	ResolutionID  int64     `json:"resolution_id"`
	CandidateCode string    `json:"candidate_code"`
	CandidateName string    `json:"candidate_name"`
	CandidateInfo *string   `json:"candidate_info,omitempty"`
	DisplayOrder  int       `json:"display_order"`
	VoteCount     int64     `json:"vote_count"`
	IsElected     bool      `json:"is_elected"`
	CreatedAt     time.Time `json:"created_at"`
}

type Repository interface {
	Create(ctx context.Context, res *Resolution) error
	GetByID(ctx context.Context, id int64) (*Resolution, error)
	ListByMeeting(ctx context.Context, meetingID int64) ([]Resolution, error)
	Update(ctx context.Context, res *Resolution) error
	UpdateStatus(ctx context.Context, id int64, status Status) error
	Delete(ctx context.Context, id int64) error
	CountVotes(ctx context.Context, resolutionID int64) (int64, error)

	CreateOption(ctx context.Context, o *Option) error
	ListOptions(ctx context.Context, resolutionID int64) ([]Option, error)
	GetOption(ctx context.Context, id int64) (*Option, error)
	DeleteOption(ctx context.Context, id int64) error

	CreateCandidate(ctx context.Context, c *Candidate) error
	ListCandidates(ctx context.Context, resolutionID int64) ([]Candidate, error)
	GetCandidate(ctx context.Context, id int64) (*Candidate, error)
	SetElected(ctx context.Context, candidateID int64, elected bool) error
	DeleteCandidate(ctx context.Context, id int64) error
}
