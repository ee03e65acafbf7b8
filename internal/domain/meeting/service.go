package meeting

import (
	"context"
	"errors"
	"regexp"
)

var (
	ErrNotFound     = errors.New("meeting not found")
	ErrInvalidCode  = errors.New("meeting code must match [A-Z0-9_-]+")
	ErrInvalidDates = errors.New("voting_end must be after voting_start")
)

var codePattern = regexp.MustCompile(`^[A-Z0-9_-]+$`)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, m *Meeting) error {
	if m.Title == "" {
		return errors.New("title required")
	}
	if !codePattern.MatchString(m.MeetingCode) {
		return ErrInvalidCode
	}
	if m.VotingStart != nil && m.VotingEnd != nil && !m.VotingEnd.After(*m.VotingStart) {
		return ErrInvalidDates
	}
	return s.repo.Create(ctx, m)
}

func (s *Service) Get(ctx context.Context, id int64) (*Meeting, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Meeting, error) {
	return s.repo.List(ctx)
}

func (s *Service) Update(ctx context.Context, m *Meeting) error {
	if m.VotingStart != nil && m.VotingEnd != nil && !m.VotingEnd.After(*m.VotingStart) {
		return ErrInvalidDates
	}
	return s.repo.Update(ctx, m)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
