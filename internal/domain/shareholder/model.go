package shareholder

import (
	"context"
	"time"
)

// Shareholder is one registered participant of a meeting. Shares is the
// eligible voting weight established by the registration process upstream.
type Shareholder struct {
	ID          int64     `json:"id"`
	MeetingID   int64     `json:"meeting_id"`
	HolderCode  string    `json:"holder_code"`
	FullName    string    `json:"full_name"`
	Email       *string   `json:"email,omitempty"`
	Shares      int64     `json:"shares"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Repository interface {
	Create(ctx context.Context, sh *Shareholder) error
	GetByID(ctx context.Context, id int64) (*Shareholder, error)
	ListByMeeting(ctx context.Context, meetingID int64) ([]Shareholder, error)
	Update(ctx context.Context, sh *Shareholder) error
	Delete(ctx context.Context, id int64) error
}
