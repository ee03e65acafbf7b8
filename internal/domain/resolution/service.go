package resolution

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"agm-voting/internal/domain/ballot"
)

var (
	ErrNotFound          = errors.New("resolution not found")
	ErrInvalidCodeFormat = errors.New("code must match [A-Z0-9_-]+")
	ErrDuplicateCode     = errors.New("code already exists for this resolution")
	ErrInvalidMethod     = errors.New("invalid voting method")
	ErrInvalidThreshold  = errors.New("approval threshold must be between 0 and 100")
	ErrInvalidMaxChoices = errors.New("max choices must be at least 1")
	ErrMethodMismatch    = errors.New("operation does not match the resolution's voting method")
	ErrMethodLocked      = errors.New("voting method cannot change once votes exist")
	ErrHasVotes          = errors.New("votes already reference this entry")
	ErrYesNoCodeRestrict = errors.New("yes/no options are limited to YES, NO and ABSTAIN")
	ErrInvalidStatus     = errors.New("invalid resolution status")
)

var codePattern = regexp.MustCompile(`^[A-Z0-9_-]+$`)

// yesNoDefaults maps the fixed YES_NO triple to its canonical value and
// display text. Value equals the code; text is the Vietnamese ballot label.
var yesNoDefaults = map[string]struct{ value, text string }{
	ballot.ChoiceYes:     {ballot.ChoiceYes, "Đồng ý"},
	ballot.ChoiceNo:      {ballot.ChoiceNo, "Không đồng ý"},
	ballot.ChoiceAbstain: {ballot.ChoiceAbstain, "Trắng/Bỏ phiếu"},
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, res *Resolution) error {
	if res.Title == "" {
		return errors.New("title required")
	}
	if !codePattern.MatchString(res.ResolutionCode) {
		return ErrInvalidCodeFormat
	}
	if !res.VotingMethod.Valid() {
		return ErrInvalidMethod
	}
	if res.ApprovalThreshold < 0 || res.ApprovalThreshold > 100 {
		return ErrInvalidThreshold
	}
	if res.VotingMethod == ballot.MethodMultipleChoice && res.MaxChoices < 1 {
		return ErrInvalidMaxChoices
	}
	if res.MaxChoices == 0 {
		res.MaxChoices = 1
	}
	res.Status = StatusOpen
	res.IsActive = true
	return s.repo.Create(ctx, res)
}

func (s *Service) Get(ctx context.Context, id int64) (*Resolution, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByMeeting(ctx context.Context, meetingID int64) ([]Resolution, error) {
	return s.repo.ListByMeeting(ctx, meetingID)
}

// Update applies mutable fields. The voting method is locked once any vote
// exists: the registry shape and every stored vote value depend on it.
func (s *Service) Update(ctx context.Context, res *Resolution) error {
	current, err := s.repo.GetByID(ctx, res.ID)
	if err != nil {
		return err
	}
	if res.VotingMethod != current.VotingMethod {
		n, err := s.repo.CountVotes(ctx, res.ID)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrMethodLocked
		}
		if !res.VotingMethod.Valid() {
			return ErrInvalidMethod
		}
	}
	if res.ApprovalThreshold < 0 || res.ApprovalThreshold > 100 {
		return ErrInvalidThreshold
	}
	return s.repo.Update(ctx, res)
}

func (s *Service) UpdateStatus(ctx context.Context, id int64, status Status) error {
	switch status {
	case StatusOpen, StatusClosed, StatusFinalized:
	default:
		return ErrInvalidStatus
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

func (s *Service) Delete(ctx context.Context, id int64, force bool) error {
	if !force {
		n, err := s.repo.CountVotes(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrHasVotes
		}
	}
	return s.repo.Delete(ctx, id)
}

// CreateOption registers a selectable value. For YES_NO resolutions only the
// fixed YES/NO/ABSTAIN codes are accepted and value/text are derived from
// the fixed map when the caller supplies the code alone. For MULTIPLE_CHOICE
// an empty code is auto-assigned as OPT_<n> with value option_<n>.
func (s *Service) CreateOption(ctx context.Context, o *Option) (*Option, error) {
	res, err := s.repo.GetByID(ctx, o.ResolutionID)
	if err != nil {
		return nil, err
	}
	if res.VotingMethod == ballot.MethodRanking {
		return nil, ErrMethodMismatch
	}

	existing, err := s.repo.ListOptions(ctx, o.ResolutionID)
	if err != nil {
		return nil, err
	}

	switch res.VotingMethod {
	case ballot.MethodYesNo:
		def, ok := yesNoDefaults[o.OptionCode]
		if !ok {
			return nil, ErrYesNoCodeRestrict
		}
		if o.OptionValue == "" {
			o.OptionValue = def.value
		}
		if o.OptionText == "" {
			o.OptionText = def.text
		}
	case ballot.MethodMultipleChoice:
		if o.OptionCode == "" {
			n := nextOptionNumber(existing)
			o.OptionCode = fmt.Sprintf("OPT_%d", n)
			if o.OptionValue == "" {
				o.OptionValue = fmt.Sprintf("option_%d", n)
			}
		}
		if o.OptionValue == "" {
			if rest, ok := strings.CutPrefix(o.OptionCode, "OPT_"); ok {
				if n, err := strconv.Atoi(rest); err == nil {
					o.OptionValue = fmt.Sprintf("option_%d", n)
				}
			}
		}
		if o.OptionValue == "" {
			o.OptionValue = strings.ToLower(o.OptionCode)
		}
	}

	if !codePattern.MatchString(o.OptionCode) {
		return nil, ErrInvalidCodeFormat
	}
	for _, ex := range existing {
		if ex.OptionCode == o.OptionCode {
			return nil, ErrDuplicateCode
		}
	}
	if o.DisplayOrder == 0 {
		o.DisplayOrder = len(existing) + 1
	}
	if err := s.repo.CreateOption(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *Service) ListOptions(ctx context.Context, resolutionID int64) ([]Option, error) {
	return s.repo.ListOptions(ctx, resolutionID)
}

// DeleteOption refuses to drop an option that ballots already reference
// unless the caller forces the override.
func (s *Service) DeleteOption(ctx context.Context, id int64, force bool) error {
	o, err := s.repo.GetOption(ctx, id)
	if err != nil {
		return err
	}
	if o.VoteCount > 0 && !force {
		return ErrHasVotes
	}
	return s.repo.DeleteOption(ctx, id)
}

func (s *Service) CreateCandidate(ctx context.Context, c *Candidate) (*Candidate, error) {
	res, err := s.repo.GetByID(ctx, c.ResolutionID)
	if err != nil {
		return nil, err
	}
	if res.VotingMethod != ballot.MethodRanking {
		return nil, ErrMethodMismatch
	}
	if c.CandidateName == "" {
		return nil, errors.New("candidate name required")
	}
	if !codePattern.MatchString(c.CandidateCode) {
		return nil, ErrInvalidCodeFormat
	}

	existing, err := s.repo.ListCandidates(ctx, c.ResolutionID)
	if err != nil {
		return nil, err
	}
	for _, ex := range existing {
		if ex.CandidateCode == c.CandidateCode {
			return nil, ErrDuplicateCode
		}
	}
	if c.DisplayOrder == 0 {
		c.DisplayOrder = len(existing) + 1
	}
	if err := s.repo.CreateCandidate(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) ListCandidates(ctx context.Context, resolutionID int64) ([]Candidate, error) {
	return s.repo.ListCandidates(ctx, resolutionID)
}

// SetElected freezes the election outcome flag on a candidate. Called when a
// RANKING resolution is finalized.
func (s *Service) SetElected(ctx context.Context, candidateID int64, elected bool) error {
	return s.repo.SetElected(ctx, candidateID, elected)
}

func (s *Service) DeleteCandidate(ctx context.Context, id int64, force bool) error {
	c, err := s.repo.GetCandidate(ctx, id)
	if err != nil {
		return err
	}
	if c.VoteCount > 0 && !force {
		return ErrHasVotes
	}
	return s.repo.DeleteCandidate(ctx, id)
}

// nextOptionNumber finds the smallest unused n for OPT_<n> codes.
func nextOptionNumber(existing []Option) int {
	used := make(map[int]bool, len(existing))
	for _, o := range existing {
		if rest, ok := strings.CutPrefix(o.OptionCode, "OPT_"); ok {
			if n, err := strconv.Atoi(rest); err == nil {
				used[n] = true
			}
		}
	}
	n := 1
	for used[n] {
		n++
	}
	return n
}
