package meeting

import (
	"context"
	"time"
)

type Meeting struct {
	ID                int64      `json:"id"`
	MeetingCode       string     `json:"meeting_code"`
	Title             string     `json:"title"`
	Description       *string    `json:"description,omitempty"`
	VotingStart       *time.Time `json:"voting_start,omitempty"`
	VotingEnd         *time.Time `json:"voting_end,omitempty"`
	TotalShareholders int64      `json:"total_shareholders"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

type Repository interface {
	Create(ctx context.Context, m *Meeting) error
	GetByID(ctx context.Context, id int64) (*Meeting, error)
	List(ctx context.Context) ([]Meeting, error)
	Update(ctx context.Context, m *Meeting) error
	Delete(ctx context.Context, id int64) error
}
