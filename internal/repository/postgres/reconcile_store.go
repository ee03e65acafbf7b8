package postgres

import (
	"context"
	"database/sql"
	"time"
)

// ReconcileStore backs the background worker: refreshing the denormalized
// vote_count caches and closing resolutions whose meeting window has ended.
type ReconcileStore struct {
	db *sql.DB
}

func NewReconcileStore(db *sql.DB) *ReconcileStore {
	return &ReconcileStore{db: db}
}

func (s *ReconcileStore) SetOptionVoteCount(ctx context.Context, optionID, count int64) error {
	_, err := s.db.ExecContext(ctx, `UPDATE options SET vote_count = $1 WHERE id = $2`, count, optionID)
	return err
}

func (s *ReconcileStore) SetCandidateVoteCount(ctx context.Context, candidateID, count int64) error {
	_, err := s.db.ExecContext(ctx, `UPDATE candidates SET vote_count = $1 WHERE id = $2`, count, candidateID)
	return err
}

// CloseExpired flips OPEN resolutions to CLOSED once their meeting's voting
// window has passed, by wall-clock comparison against the stored bounds.
func (s *ReconcileStore) CloseExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
        UPDATE resolutions r
        SET status = 'CLOSED', updated_at = now()
        FROM meetings m
        WHERE m.id = r.meeting_id
          AND r.status = 'OPEN'
          AND m.voting_end IS NOT NULL
          AND m.voting_end <= $1
    `, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
