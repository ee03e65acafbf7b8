package operator

import (
	"context"
	"time"
)

// Operator is an admin-console account. Shareholders are not operators;
// they are registry entries whose ballots arrive through the vote endpoint.
type Operator struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

type Repository interface {
	Create(ctx context.Context, o *Operator) error
	GetByEmail(ctx context.Context, email string) (*Operator, error)
	GetByID(ctx context.Context, id int64) (*Operator, error)
	List(ctx context.Context) ([]Operator, error)
	UpdateRole(ctx context.Context, id int64, role string) error
	Deactivate(ctx context.Context, id int64) error
}
