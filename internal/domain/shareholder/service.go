package shareholder

import (
	"context"
	"errors"
)

var (
	ErrNotFound      = errors.New("shareholder not found")
	ErrDuplicateCode = errors.New("holder code already registered for this meeting")
	ErrInvalidShares = errors.New("shares must be positive")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, sh *Shareholder) error {
	if sh.FullName == "" || sh.HolderCode == "" {
		return errors.New("holder code and full name required")
	}
	if sh.Shares <= 0 {
		return ErrInvalidShares
	}
	return s.repo.Create(ctx, sh)
}

func (s *Service) Get(ctx context.Context, id int64) (*Shareholder, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByMeeting(ctx context.Context, meetingID int64) ([]Shareholder, error) {
	return s.repo.ListByMeeting(ctx, meetingID)
}

func (s *Service) Update(ctx context.Context, sh *Shareholder) error {
	if sh.Shares <= 0 {
		return ErrInvalidShares
	}
	return s.repo.Update(ctx, sh)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
