package vote

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"agm-voting/internal/domain/ballot"
	"agm-voting/internal/domain/resolution"
)

type memoryVoteRepo struct {
	mu     sync.Mutex
	votes  []Vote
	byKey  map[[2]int64]bool
	nextID int64
}

func newMemoryVoteRepo() *memoryVoteRepo {
	return &memoryVoteRepo{byKey: make(map[[2]int64]bool), nextID: 1}
}

func (r *memoryVoteRepo) Create(ctx context.Context, v *Vote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := [2]int64{v.ResolutionID, v.ShareholderID}
	if r.byKey[key] {
		return ErrAlreadyVoted
	}
	r.byKey[key] = true
	v.ID = r.nextID
	r.nextID++
	v.CreatedAt = time.Now()
	r.votes = append(r.votes, *v)
	return nil
}

func (r *memoryVoteRepo) Delete(ctx context.Context, id int64) error { return nil }

func (r *memoryVoteRepo) ListByResolution(ctx context.Context, resolutionID int64) ([]Vote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []Vote
	for _, v := range r.votes {
		if v.ResolutionID == resolutionID {
			res = append(res, v)
		}
	}
	return res, nil
}

func (r *memoryVoteRepo) ListByMeeting(ctx context.Context, meetingID int64) ([]Vote, error) {
	return nil, nil
}

type fakeGate struct {
	gate   Gate
	shares int64
}

func (g *fakeGate) VotingGate(ctx context.Context, resolutionID int64) (*Gate, error) {
	copyGate := g.gate
	return &copyGate, nil
}

func (g *fakeGate) EligibleShares(ctx context.Context, meetingID, shareholderID int64) (int64, error) {
	return g.shares, nil
}

func openGate(method ballot.Method) *fakeGate {
	start := time.Now().Add(-time.Hour)
	end := time.Now().Add(time.Hour)
	return &fakeGate{
		gate: Gate{
			MeetingID:      1,
			Method:         method,
			Status:         resolution.StatusOpen,
			IsActive:       true,
			MaxChoices:     2,
			VotingStart:    &start,
			VotingEnd:      &end,
			OptionIDs:      map[int64]bool{10: true, 11: true, 12: true},
			CandidateCodes: map[string]bool{"CAND_A": true, "CAND_B": true},
		},
		shares: 100,
	}
}

func notAllowedReason(t *testing.T, err error) string {
	t.Helper()
	var na *NotAllowedError
	if !errors.As(err, &na) {
		t.Fatalf("expected NotAllowedError, got %v", err)
	}
	return na.Reason
}

func TestCastAndDuplicateRejected(t *testing.T) {
	repo := newMemoryVoteRepo()
	svc := NewService(repo, openGate(ballot.MethodYesNo))
	ctx := context.Background()

	req := CastRequest{ResolutionID: 1, ShareholderID: 7, VoteValue: "YES", SharesUsed: 50}
	if _, err := svc.Cast(ctx, req); err != nil {
		t.Fatalf("first vote must succeed: %v", err)
	}

	_, err := svc.Cast(ctx, req)
	if reason := notAllowedReason(t, err); reason != ReasonAlreadyVoted {
		t.Fatalf("expected already_voted, got %s", reason)
	}

	votes, _ := repo.ListByResolution(ctx, 1)
	if len(votes) != 1 {
		t.Fatalf("tally input must reflect exactly one vote, got %d", len(votes))
	}
}

func TestCastStateChecks(t *testing.T) {
	ctx := context.Background()
	req := CastRequest{ResolutionID: 1, ShareholderID: 7, VoteValue: "YES", SharesUsed: 50}

	g := openGate(ballot.MethodYesNo)
	g.gate.IsActive = false
	if _, err := NewService(newMemoryVoteRepo(), g).Cast(ctx, req); notAllowedReason(t, err) != ReasonInactive {
		t.Fatalf("inactive resolution must be rejected")
	}

	g = openGate(ballot.MethodYesNo)
	g.gate.Status = resolution.StatusClosed
	if _, err := NewService(newMemoryVoteRepo(), g).Cast(ctx, req); notAllowedReason(t, err) != ReasonVotingClosed {
		t.Fatalf("closed resolution must be rejected")
	}

	g = openGate(ballot.MethodYesNo)
	future := time.Now().Add(time.Hour)
	g.gate.VotingStart = &future
	if _, err := NewService(newMemoryVoteRepo(), g).Cast(ctx, req); notAllowedReason(t, err) != ReasonWindowNotOpen {
		t.Fatalf("early vote must be rejected")
	}

	g = openGate(ballot.MethodYesNo)
	past := time.Now().Add(-time.Minute)
	g.gate.VotingEnd = &past
	if _, err := NewService(newMemoryVoteRepo(), g).Cast(ctx, req); notAllowedReason(t, err) != ReasonWindowClosed {
		t.Fatalf("late vote must be rejected")
	}

	g = openGate(ballot.MethodYesNo)
	g.shares = 10
	if _, err := NewService(newMemoryVoteRepo(), g).Cast(ctx, req); notAllowedReason(t, err) != ReasonInsufficientShares {
		t.Fatalf("over-weight vote must be rejected")
	}
}

func TestCastWindowBoundaryIsHalfOpen(t *testing.T) {
	g := openGate(ballot.MethodYesNo)
	end := time.Now().Add(time.Hour)
	g.gate.VotingEnd = &end

	svc := NewService(newMemoryVoteRepo(), g)
	svc.now = func() time.Time { return end }

	_, err := svc.Cast(context.Background(), CastRequest{ResolutionID: 1, ShareholderID: 7, VoteValue: "YES", SharesUsed: 1})
	if notAllowedReason(t, err) != ReasonWindowClosed {
		t.Fatalf("a vote exactly at votingEnd falls outside the window")
	}
}

func TestCastValidatesBallotAgainstRegistry(t *testing.T) {
	ctx := context.Background()

	svc := NewService(newMemoryVoteRepo(), openGate(ballot.MethodMultipleChoice))
	if _, err := svc.Cast(ctx, CastRequest{ResolutionID: 1, ShareholderID: 7, VoteValue: "[10,99]", SharesUsed: 1}); err == nil {
		t.Fatalf("unknown option id must be rejected")
	}
	if _, err := svc.Cast(ctx, CastRequest{ResolutionID: 1, ShareholderID: 7, VoteValue: "[10,11,12]", SharesUsed: 1}); !errors.Is(err, ballot.ErrTooManyChoices) {
		t.Fatalf("maxChoices must be enforced, got error %v", err)
	}
	if _, err := svc.Cast(ctx, CastRequest{ResolutionID: 1, ShareholderID: 7, VoteValue: "[10,11]", SharesUsed: 1}); err != nil {
		t.Fatalf("valid choice ballot must pass: %v", err)
	}

	svc = NewService(newMemoryVoteRepo(), openGate(ballot.MethodRanking))
	if _, err := svc.Cast(ctx, CastRequest{ResolutionID: 1, ShareholderID: 7, VoteValue: `{"CAND_X":1}`, SharesUsed: 1}); err == nil {
		t.Fatalf("unknown candidate code must be rejected")
	}
	if _, err := svc.Cast(ctx, CastRequest{ResolutionID: 1, ShareholderID: 7, VoteValue: `{"CAND_A":1,"CAND_B":2}`, SharesUsed: 1}); err != nil {
		t.Fatalf("valid rank ballot must pass: %v", err)
	}
}

func TestCastRejectsMalformedValueBeforePersisting(t *testing.T) {
	repo := newMemoryVoteRepo()
	svc := NewService(repo, openGate(ballot.MethodYesNo))

	if _, err := svc.Cast(context.Background(), CastRequest{ResolutionID: 1, ShareholderID: 7, VoteValue: "MAYBE", SharesUsed: 1}); !errors.Is(err, ballot.ErrInvalidChoice) {
		t.Fatalf("expected ErrInvalidChoice, got %v", err)
	}
	if len(repo.votes) != 0 {
		t.Fatalf("nothing may be persisted on validation failure")
	}

	if _, err := svc.Cast(context.Background(), CastRequest{ResolutionID: 1, ShareholderID: 7, VoteValue: "YES", SharesUsed: 0}); !errors.Is(err, ErrInvalidShares) {
		t.Fatalf("expected ErrInvalidShares, got %v", err)
	}
}
