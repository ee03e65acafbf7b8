package worker

import (
	"context"
	"log"
	"time"

	"agm-voting/internal/domain/ballot"
	"agm-voting/internal/domain/resolution"
	"agm-voting/internal/domain/tally"
	"agm-voting/internal/domain/vote"
	"agm-voting/internal/retry"
)

// VoteEvent signals that a ballot landed on a resolution and its
// denormalized counters should be refreshed.
type VoteEvent struct {
	ResolutionID int64
}

type Registry interface {
	GetByID(ctx context.Context, id int64) (*resolution.Resolution, error)
	ListOptions(ctx context.Context, resolutionID int64) ([]resolution.Option, error)
	ListCandidates(ctx context.Context, resolutionID int64) ([]resolution.Candidate, error)
}

type VoteLog interface {
	ListByResolution(ctx context.Context, resolutionID int64) ([]vote.Vote, error)
}

type CountStore interface {
	SetOptionVoteCount(ctx context.Context, optionID, count int64) error
	SetCandidateVoteCount(ctx context.Context, candidateID, count int64) error
	CloseExpired(ctx context.Context, now time.Time) (int64, error)
}

// ReconcileWorker keeps the vote_count caches honest and sweeps expired
// voting windows. The caches are always recomputed from the vote log, never
// incremented in place, so a missed event costs freshness at worst.
type ReconcileWorker struct {
	Ch       <-chan VoteEvent
	registry Registry
	votes    VoteLog
	store    CountStore
	engine   *tally.Engine
	interval time.Duration
}

func NewReconcileWorker(ch <-chan VoteEvent, registry Registry, votes VoteLog, store CountStore, engine *tally.Engine) *ReconcileWorker {
	return &ReconcileWorker{
		Ch:       ch,
		registry: registry,
		votes:    votes,
		store:    store,
		engine:   engine,
		interval: 30 * time.Second,
	}
}

func (w *ReconcileWorker) Run(ctx context.Context) {
	log.Println("reconcile worker started")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("reconcile worker stopped")
			return
		case ev := <-w.Ch:
			err := retry.Do(ctx, 3, time.Second, func() error {
				return w.Reconcile(ctx, ev.ResolutionID)
			})
			if err != nil {
				log.Printf("reconcile resolution %d: %v", ev.ResolutionID, err)
			}
		case <-ticker.C:
			now := time.Now()
			closed, err := w.store.CloseExpired(ctx, now)
			if err != nil {
				log.Printf("close expired resolutions: %v", err)
				continue
			}
			if closed > 0 {
				log.Printf("closed %d resolutions past their voting window", closed)
			}
		}
	}
}

// Reconcile recomputes a resolution's denormalized counters from the vote
// log: shares-weighted per-option totals for choice methods, unweighted
// ballot counts for candidates.
func (w *ReconcileWorker) Reconcile(ctx context.Context, resolutionID int64) error {
	res, err := w.registry.GetByID(ctx, resolutionID)
	if err != nil {
		return err
	}
	votes, err := w.votes.ListByResolution(ctx, resolutionID)
	if err != nil {
		return err
	}

	switch res.VotingMethod {
	case ballot.MethodYesNo, ballot.MethodMultipleChoice:
		options, err := w.registry.ListOptions(ctx, resolutionID)
		if err != nil {
			return err
		}
		for _, row := range w.optionCounts(res.VotingMethod, options, votes) {
			if err := w.store.SetOptionVoteCount(ctx, row.id, row.count); err != nil {
				return err
			}
		}
	case ballot.MethodRanking:
		candidates, err := w.registry.ListCandidates(ctx, resolutionID)
		if err != nil {
			return err
		}
		for _, cr := range w.engine.Ranking(candidates, votes) {
			if err := w.store.SetCandidateVoteCount(ctx, cr.CandidateID, cr.VoteCount); err != nil {
				return err
			}
		}
	}
	return nil
}

type countRow struct {
	id    int64
	count int64
}

func (w *ReconcileWorker) optionCounts(method ballot.Method, options []resolution.Option, votes []vote.Vote) []countRow {
	rows := make([]countRow, 0, len(options))
	if method == ballot.MethodYesNo {
		r := w.engine.YesNo(0, votes)
		byCode := map[string]int64{
			ballot.ChoiceYes:     r.YesShares,
			ballot.ChoiceNo:      r.NoShares,
			ballot.ChoiceAbstain: r.AbstainShares,
		}
		for _, o := range options {
			rows = append(rows, countRow{id: o.ID, count: byCode[o.OptionCode]})
		}
		return rows
	}
	for _, or := range w.engine.MultipleChoice(options, votes) {
		rows = append(rows, countRow{id: or.OptionID, count: or.VoteCount})
	}
	return rows
}
