package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"agm-voting/internal/domain/resolution"
	"agm-voting/internal/domain/vote"
)

type VoteRepo struct {
	db *sql.DB
}

func NewVoteRepo(db *sql.DB) *VoteRepo {
	return &VoteRepo{db: db}
}

// Create inserts one ballot. The unique (resolution_id, shareholder_id)
// constraint is the single serialization point preventing double voting
// under concurrent requests.
func (r *VoteRepo) Create(ctx context.Context, v *vote.Vote) error {
	query := `
        INSERT INTO votes (resolution_id, shareholder_id, vote_value, shares_used, ip_address, user_agent)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at
    `
	err := r.db.QueryRowContext(ctx, query,
		v.ResolutionID, v.ShareholderID, v.VoteValue, v.SharesUsed, v.IPAddress, v.UserAgent,
	).Scan(&v.ID, &v.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return vote.ErrAlreadyVoted
		}
		return err
	}
	return nil
}

func (r *VoteRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM votes WHERE id = $1`, id)
	return err
}

func (r *VoteRepo) ListByResolution(ctx context.Context, resolutionID int64) ([]vote.Vote, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, resolution_id, shareholder_id, vote_value, shares_used, ip_address, user_agent, created_at
        FROM votes WHERE resolution_id = $1 ORDER BY created_at
    `, resolutionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanVotes(rows)
}

func (r *VoteRepo) ListByMeeting(ctx context.Context, meetingID int64) ([]vote.Vote, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT v.id, v.resolution_id, v.shareholder_id, v.vote_value, v.shares_used, v.ip_address, v.user_agent, v.created_at
        FROM votes v
        JOIN resolutions r ON r.id = v.resolution_id
        WHERE r.meeting_id = $1
        ORDER BY v.created_at
    `, meetingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanVotes(rows)
}

// VotingGate loads everything the casting service needs to admit or reject
// a ballot: resolution lifecycle, meeting window and the registry universe.
func (r *VoteRepo) VotingGate(ctx context.Context, resolutionID int64) (*vote.Gate, error) {
	g := &vote.Gate{
		OptionIDs:      make(map[int64]bool),
		CandidateCodes: make(map[string]bool),
	}
	err := r.db.QueryRowContext(ctx, `
        SELECT r.meeting_id, r.voting_method, r.status, r.is_active, r.max_choices, m.voting_start, m.voting_end
        FROM resolutions r
        JOIN meetings m ON m.id = r.meeting_id
        WHERE r.id = $1
    `, resolutionID).Scan(
		&g.MeetingID, &g.Method, &g.Status, &g.IsActive, &g.MaxChoices, &g.VotingStart, &g.VotingEnd,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, resolution.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	optRows, err := r.db.QueryContext(ctx, `SELECT id FROM options WHERE resolution_id = $1`, resolutionID)
	if err != nil {
		return nil, err
	}
	defer optRows.Close()
	for optRows.Next() {
		var id int64
		if err := optRows.Scan(&id); err != nil {
			return nil, err
		}
		g.OptionIDs[id] = true
	}
	if err := optRows.Err(); err != nil {
		return nil, err
	}

	candRows, err := r.db.QueryContext(ctx, `SELECT candidate_code FROM candidates WHERE resolution_id = $1`, resolutionID)
	if err != nil {
		return nil, err
	}
	defer candRows.Close()
	for candRows.Next() {
		var code string
		if err := candRows.Scan(&code); err != nil {
			return nil, err
		}
		g.CandidateCodes[code] = true
	}
	return g, candRows.Err()
}

func (r *VoteRepo) EligibleShares(ctx context.Context, meetingID, shareholderID int64) (int64, error) {
	var shares int64
	err := r.db.QueryRowContext(ctx, `
        SELECT shares FROM shareholders WHERE meeting_id = $1 AND id = $2
    `, meetingID, shareholderID).Scan(&shares)
	return shares, err
}

func scanVotes(rows *sql.Rows) ([]vote.Vote, error) {
	var votes []vote.Vote
	for rows.Next() {
		var v vote.Vote
		if err := rows.Scan(&v.ID, &v.ResolutionID, &v.ShareholderID, &v.VoteValue,
			&v.SharesUsed, &v.IPAddress, &v.UserAgent, &v.CreatedAt); err != nil {
			return nil, err
		}
		votes = append(votes, v)
	}
	return votes, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
