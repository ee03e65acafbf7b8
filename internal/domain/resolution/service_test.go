package resolution

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"agm-voting/internal/domain/ballot"
)

type memoryRepo struct {
	mu          sync.Mutex
	resolutions map[int64]*Resolution
	options     map[int64][]Option
	candidates  map[int64][]Candidate
	voteCounts  map[int64]int64
	nextID      int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		resolutions: make(map[int64]*Resolution),
		options:     make(map[int64][]Option),
		candidates:  make(map[int64][]Candidate),
		voteCounts:  make(map[int64]int64),
		nextID:      1,
	}
}

func (r *memoryRepo) Create(ctx context.Context, res *Resolution) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	res.ID = r.nextID
	r.nextID++
	res.CreatedAt = time.Now()
	res.UpdatedAt = res.CreatedAt
	copyRes := *res
	r.resolutions[res.ID] = &copyRes
	return nil
}

func (r *memoryRepo) GetByID(ctx context.Context, id int64) (*Resolution, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.resolutions[id]
	if !ok {
		return nil, ErrNotFound
	}
	copyRes := *res
	return &copyRes, nil
}

func (r *memoryRepo) ListByMeeting(ctx context.Context, meetingID int64) ([]Resolution, error) {
	return nil, nil
}

func (r *memoryRepo) Update(ctx context.Context, res *Resolution) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copyRes := *res
	r.resolutions[res.ID] = &copyRes
	return nil
}

func (r *memoryRepo) UpdateStatus(ctx context.Context, id int64, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.resolutions[id]
	if !ok {
		return ErrNotFound
	}
	res.Status = status
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.resolutions, id)
	return nil
}

func (r *memoryRepo) CountVotes(ctx context.Context, resolutionID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.voteCounts[resolutionID], nil
}

func (r *memoryRepo) CreateOption(ctx context.Context, o *Option) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o.ID = r.nextID
	r.nextID++
	r.options[o.ResolutionID] = append(r.options[o.ResolutionID], *o)
	return nil
}

func (r *memoryRepo) ListOptions(ctx context.Context, resolutionID int64) ([]Option, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	opts := make([]Option, len(r.options[resolutionID]))
	copy(opts, r.options[resolutionID])
	return opts, nil
}

func (r *memoryRepo) GetOption(ctx context.Context, id int64) (*Option, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, opts := range r.options {
		for _, o := range opts {
			if o.ID == id {
				copyOpt := o
				return &copyOpt, nil
			}
		}
	}
	return nil, ErrNotFound
}

func (r *memoryRepo) DeleteOption(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for resID, opts := range r.options {
		for i, o := range opts {
			if o.ID == id {
				r.options[resID] = append(opts[:i], opts[i+1:]...)
				return nil
			}
		}
	}
	return ErrNotFound
}

func (r *memoryRepo) CreateCandidate(ctx context.Context, c *Candidate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = r.nextID
	r.nextID++
	r.candidates[c.ResolutionID] = append(r.candidates[c.ResolutionID], *c)
	return nil
}

func (r *memoryRepo) ListCandidates(ctx context.Context, resolutionID int64) ([]Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cands := make([]Candidate, len(r.candidates[resolutionID]))
	copy(cands, r.candidates[resolutionID])
	return cands, nil
}

func (r *memoryRepo) GetCandidate(ctx context.Context, id int64) (*Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cands := range r.candidates {
		for _, c := range cands {
			if c.ID == id {
				copyCand := c
				return &copyCand, nil
			}
		}
	}
	return nil, ErrNotFound
}

func (r *memoryRepo) SetElected(ctx context.Context, candidateID int64, elected bool) error {
	return nil
}

func (r *memoryRepo) DeleteCandidate(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for resID, cands := range r.candidates {
		for i, c := range cands {
			if c.ID == id {
				r.candidates[resID] = append(cands[:i], cands[i+1:]...)
				return nil
			}
		}
	}
	return ErrNotFound
}

func createResolution(t *testing.T, svc *Service, method ballot.Method) *Resolution {
	t.Helper()
	res := &Resolution{
		MeetingID:         1,
		ResolutionCode:    "RES-" + string(method),
		ResolutionNumber:  1,
		Title:             "Test resolution",
		VotingMethod:      method,
		ApprovalThreshold: 50,
		MaxChoices:        3,
	}
	if err := svc.Create(context.Background(), res); err != nil {
		t.Fatalf("create resolution: %v", err)
	}
	return res
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	if err := svc.Create(ctx, &Resolution{Title: "x", ResolutionCode: "lower-case", VotingMethod: ballot.MethodYesNo}); !errors.Is(err, ErrInvalidCodeFormat) {
		t.Fatalf("lowercase code must fail, got %v", err)
	}
	if err := svc.Create(ctx, &Resolution{Title: "x", ResolutionCode: "R1", VotingMethod: "APPROVAL"}); !errors.Is(err, ErrInvalidMethod) {
		t.Fatalf("unknown method must fail, got %v", err)
	}
	if err := svc.Create(ctx, &Resolution{Title: "x", ResolutionCode: "R1", VotingMethod: ballot.MethodYesNo, ApprovalThreshold: 101}); !errors.Is(err, ErrInvalidThreshold) {
		t.Fatalf("threshold > 100 must fail, got %v", err)
	}

	res := &Resolution{Title: "x", ResolutionCode: "R_1-A", VotingMethod: ballot.MethodYesNo, ApprovalThreshold: 50}
	if err := svc.Create(ctx, res); err != nil {
		t.Fatalf("valid resolution must create: %v", err)
	}
	if res.Status != StatusOpen || !res.IsActive {
		t.Fatalf("new resolutions start OPEN and active: %+v", res)
	}
}

func TestYesNoOptionDerivation(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()
	res := createResolution(t, svc, ballot.MethodYesNo)

	o, err := svc.CreateOption(ctx, &Option{ResolutionID: res.ID, OptionCode: "YES"})
	if err != nil {
		t.Fatalf("create YES option: %v", err)
	}
	if o.OptionValue != "YES" || o.OptionText != "Đồng ý" {
		t.Fatalf("YES defaults not derived: %+v", o)
	}

	if _, err := svc.CreateOption(ctx, &Option{ResolutionID: res.ID, OptionCode: "YES"}); !errors.Is(err, ErrDuplicateCode) {
		t.Fatalf("duplicate YES must fail, got %v", err)
	}
	if _, err := svc.CreateOption(ctx, &Option{ResolutionID: res.ID, OptionCode: "OTHER"}); !errors.Is(err, ErrYesNoCodeRestrict) {
		t.Fatalf("yes/no accepts only the fixed triple, got %v", err)
	}

	// Caller-supplied text is honored.
	o, err = svc.CreateOption(ctx, &Option{ResolutionID: res.ID, OptionCode: "NO", OptionText: "Custom"})
	if err != nil {
		t.Fatalf("create NO option: %v", err)
	}
	if o.OptionText != "Custom" || o.OptionValue != "NO" {
		t.Fatalf("custom text must win over defaults: %+v", o)
	}
}

func TestMultipleChoiceCodeDerivation(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()
	res := createResolution(t, svc, ballot.MethodMultipleChoice)

	o1, err := svc.CreateOption(ctx, &Option{ResolutionID: res.ID, OptionText: "First"})
	if err != nil {
		t.Fatalf("create option: %v", err)
	}
	if o1.OptionCode != "OPT_1" || o1.OptionValue != "option_1" {
		t.Fatalf("auto-derivation wrong: %+v", o1)
	}

	o2, _ := svc.CreateOption(ctx, &Option{ResolutionID: res.ID, OptionText: "Second"})
	if o2.OptionCode != "OPT_2" {
		t.Fatalf("next unused number expected, got %s", o2.OptionCode)
	}

	// Explicit numbered code with no value keeps the option_<n> convention.
	o3, err := svc.CreateOption(ctx, &Option{ResolutionID: res.ID, OptionCode: "OPT_9", OptionText: "Ninth"})
	if err != nil {
		t.Fatalf("explicit code: %v", err)
	}
	if o3.OptionValue != "option_9" {
		t.Fatalf("value must derive from numbered code: %+v", o3)
	}

	// Non-numbered codes fall back to lowercasing.
	o4, err := svc.CreateOption(ctx, &Option{ResolutionID: res.ID, OptionCode: "OPT_ABSTAIN", OptionText: "Abstain"})
	if err != nil {
		t.Fatalf("non-numbered code: %v", err)
	}
	if o4.OptionValue != "opt_abstain" {
		t.Fatalf("value must lowercase non-numbered code: %+v", o4)
	}

	if _, err := svc.CreateOption(ctx, &Option{ResolutionID: res.ID, OptionCode: "bad code"}); !errors.Is(err, ErrInvalidCodeFormat) {
		t.Fatalf("invalid code format must fail, got %v", err)
	}
}

func TestCandidateRegistry(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()
	res := createResolution(t, svc, ballot.MethodRanking)

	c, err := svc.CreateCandidate(ctx, &Candidate{ResolutionID: res.ID, CandidateCode: "CAND_A", CandidateName: "Alice"})
	if err != nil {
		t.Fatalf("create candidate: %v", err)
	}
	if c.DisplayOrder != 1 {
		t.Fatalf("display order auto-assigned: %+v", c)
	}

	if _, err := svc.CreateCandidate(ctx, &Candidate{ResolutionID: res.ID, CandidateCode: "CAND_A", CandidateName: "Dup"}); !errors.Is(err, ErrDuplicateCode) {
		t.Fatalf("duplicate code must fail, got %v", err)
	}
	if _, err := svc.CreateCandidate(ctx, &Candidate{ResolutionID: res.ID, CandidateCode: "cand_b", CandidateName: "Bob"}); !errors.Is(err, ErrInvalidCodeFormat) {
		t.Fatalf("lowercase code must fail, got %v", err)
	}

	// Options cannot be attached to a ranking resolution, nor candidates to
	// a yes/no one.
	if _, err := svc.CreateOption(ctx, &Option{ResolutionID: res.ID, OptionCode: "YES"}); !errors.Is(err, ErrMethodMismatch) {
		t.Fatalf("expected method mismatch, got %v", err)
	}
	yn := createResolution(t, svc, ballot.MethodYesNo)
	if _, err := svc.CreateCandidate(ctx, &Candidate{ResolutionID: yn.ID, CandidateCode: "CAND_A", CandidateName: "A"}); !errors.Is(err, ErrMethodMismatch) {
		t.Fatalf("expected method mismatch, got %v", err)
	}
}

func TestDeleteGuards(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()
	res := createResolution(t, svc, ballot.MethodMultipleChoice)

	o, err := svc.CreateOption(ctx, &Option{ResolutionID: res.ID, OptionText: "First"})
	if err != nil {
		t.Fatalf("create option: %v", err)
	}

	// Simulate ballots referencing the option.
	repo.mu.Lock()
	repo.options[res.ID][0].VoteCount = 5
	repo.mu.Unlock()

	if err := svc.DeleteOption(ctx, o.ID, false); !errors.Is(err, ErrHasVotes) {
		t.Fatalf("delete with votes must fail without force, got %v", err)
	}
	if err := svc.DeleteOption(ctx, o.ID, true); err != nil {
		t.Fatalf("forced delete must succeed: %v", err)
	}

	repo.voteCounts[res.ID] = 3
	if err := svc.Delete(ctx, res.ID, false); !errors.Is(err, ErrHasVotes) {
		t.Fatalf("resolution delete with votes must fail, got %v", err)
	}
}

func TestVotingMethodLockedAfterVotes(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()
	res := createResolution(t, svc, ballot.MethodYesNo)

	repo.voteCounts[res.ID] = 1

	changed := *res
	changed.VotingMethod = ballot.MethodRanking
	if err := svc.Update(ctx, &changed); !errors.Is(err, ErrMethodLocked) {
		t.Fatalf("method change with votes must fail, got %v", err)
	}

	// Other fields stay mutable.
	changed = *res
	changed.Title = "Amended"
	if err := svc.Update(ctx, &changed); err != nil {
		t.Fatalf("title update must pass: %v", err)
	}
}
