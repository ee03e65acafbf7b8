package postgres

import (
	"context"
	"database/sql"
	"errors"

	"agm-voting/internal/domain/resolution"
)

type ResolutionRepo struct {
	db *sql.DB
}

func NewResolutionRepo(db *sql.DB) *ResolutionRepo {
	return &ResolutionRepo{db: db}
}

func (r *ResolutionRepo) Create(ctx context.Context, res *resolution.Resolution) error {
	query := `
        INSERT INTO resolutions (meeting_id, resolution_code, resolution_number, title, content,
                                 voting_method, approval_threshold, max_choices, status, is_active, display_order)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING id, created_at, updated_at
    `
	err := r.db.QueryRowContext(ctx, query,
		res.MeetingID, res.ResolutionCode, res.ResolutionNumber, res.Title, res.Content,
		res.VotingMethod, res.ApprovalThreshold, res.MaxChoices, res.Status, res.IsActive, res.DisplayOrder,
	).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return resolution.ErrDuplicateCode
		}
		return err
	}
	return nil
}

func (r *ResolutionRepo) GetByID(ctx context.Context, id int64) (*resolution.Resolution, error) {
	res := &resolution.Resolution{}
	err := r.db.QueryRowContext(ctx, `
        SELECT id, meeting_id, resolution_code, resolution_number, title, content,
               voting_method, approval_threshold, max_choices, status, is_active, display_order,
               created_at, updated_at
        FROM resolutions WHERE id = $1
    `, id).Scan(
		&res.ID, &res.MeetingID, &res.ResolutionCode, &res.ResolutionNumber, &res.Title, &res.Content,
		&res.VotingMethod, &res.ApprovalThreshold, &res.MaxChoices, &res.Status, &res.IsActive, &res.DisplayOrder,
		&res.CreatedAt, &res.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, resolution.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *ResolutionRepo) ListByMeeting(ctx context.Context, meetingID int64) ([]resolution.Resolution, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, meeting_id, resolution_code, resolution_number, title, content,
               voting_method, approval_threshold, max_choices, status, is_active, display_order,
               created_at, updated_at
        FROM resolutions WHERE meeting_id = $1
        ORDER BY display_order, resolution_number
    `, meetingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []resolution.Resolution
	for rows.Next() {
		var res resolution.Resolution
		if err := rows.Scan(
			&res.ID, &res.MeetingID, &res.ResolutionCode, &res.ResolutionNumber, &res.Title, &res.Content,
			&res.VotingMethod, &res.ApprovalThreshold, &res.MaxChoices, &res.Status, &res.IsActive, &res.DisplayOrder,
			&res.CreatedAt, &res.UpdatedAt,
		); err != nil {
			return nil, err
		}
		list = append(list, res)
	}
	return list, rows.Err()
}

func (r *ResolutionRepo) Update(ctx context.Context, res *resolution.Resolution) error {
	_, err := r.db.ExecContext(ctx, `
        UPDATE resolutions
        SET title = $1, content = $2, voting_method = $3, approval_threshold = $4,
            max_choices = $5, is_active = $6, display_order = $7, updated_at = now()
        WHERE id = $8
    `, res.Title, res.Content, res.VotingMethod, res.ApprovalThreshold,
		res.MaxChoices, res.IsActive, res.DisplayOrder, res.ID)
	return err
}

func (r *ResolutionRepo) UpdateStatus(ctx context.Context, id int64, status resolution.Status) error {
	_, err := r.db.ExecContext(ctx, `
        UPDATE resolutions SET status = $1, updated_at = now() WHERE id = $2
    `, status, id)
	return err
}

func (r *ResolutionRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM resolutions WHERE id = $1`, id)
	return err
}

func (r *ResolutionRepo) CountVotes(ctx context.Context, resolutionID int64) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM votes WHERE resolution_id = $1`, resolutionID).Scan(&n)
	return n, err
}

func (r *ResolutionRepo) CreateOption(ctx context.Context, o *resolution.Option) error {
	query := `
        INSERT INTO options (resolution_id, option_code, option_value, option_text, display_order)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at
    `
	err := r.db.QueryRowContext(ctx, query,
		o.ResolutionID, o.OptionCode, o.OptionValue, o.OptionText, o.DisplayOrder,
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return resolution.ErrDuplicateCode
		}
		return err
	}
	return nil
}

func (r *ResolutionRepo) ListOptions(ctx context.Context, resolutionID int64) ([]resolution.Option, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, resolution_id, option_code, option_value, option_text, display_order, vote_count, created_at
        FROM options WHERE resolution_id = $1 ORDER BY display_order, id
    `, resolutionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var opts []resolution.Option
	for rows.Next() {
		var o resolution.Option
		if err := rows.Scan(&o.ID, &o.ResolutionID, &o.OptionCode, &o.OptionValue,
			&o.OptionText, &o.DisplayOrder, &o.VoteCount, &o.CreatedAt); err != nil {
			return nil, err
		}
		opts = append(opts, o)
	}
	return opts, rows.Err()
}

func (r *ResolutionRepo) GetOption(ctx context.Context, id int64) (*resolution.Option, error) {
	o := &resolution.Option{}
	err := r.db.QueryRowContext(ctx, `
        SELECT id, resolution_id, option_code, option_value, option_text, display_order, vote_count, created_at
        FROM options WHERE id = $1
    `, id).Scan(&o.ID, &o.ResolutionID, &o.OptionCode, &o.OptionValue,
		&o.OptionText, &o.DisplayOrder, &o.VoteCount, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *ResolutionRepo) DeleteOption(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM options WHERE id = $1`, id)
	return err
}

func (r *ResolutionRepo) CreateCandidate(ctx context.Context, c *resolution.Candidate) error {
	query := `
        INSERT INTO candidates (resolution_id, candidate_code, candidate_name, candidate_info, display_order)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at
    `
	err := r.db.QueryRowContext(ctx, query,
		c.ResolutionID, c.CandidateCode, c.CandidateName, c.CandidateInfo, c.DisplayOrder,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return resolution.ErrDuplicateCode
		}
		return err
	}
	return nil
}

func (r *ResolutionRepo) ListCandidates(ctx context.Context, resolutionID int64) ([]resolution.Candidate, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, resolution_id, candidate_code, candidate_name, candidate_info, display_order, vote_count, is_elected, created_at
        FROM candidates WHERE resolution_id = $1 ORDER BY display_order, id
    `, resolutionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cands []resolution.Candidate
	for rows.Next() {
		var c resolution.Candidate
		if err := rows.Scan(&c.ID, &c.ResolutionID, &c.CandidateCode, &c.CandidateName,
			&c.CandidateInfo, &c.DisplayOrder, &c.VoteCount, &c.IsElected, &c.CreatedAt); err != nil {
			return nil, err
		}
		cands = append(cands, c)
	}
	return cands, rows.Err()
}

func (r *ResolutionRepo) GetCandidate(ctx context.Context, id int64) (*resolution.Candidate, error) {
	c := &resolution.Candidate{}
	err := r.db.QueryRowContext(ctx, `
        SELECT id, resolution_id, candidate_code, candidate_name, candidate_info, display_order, vote_count, is_elected, created_at
        FROM candidates WHERE id = $1
    `, id).Scan(&c.ID, &c.ResolutionID, &c.CandidateCode, &c.CandidateName,
		&c.CandidateInfo, &c.DisplayOrder, &c.VoteCount, &c.IsElected, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *ResolutionRepo) SetElected(ctx context.Context, candidateID int64, elected bool) error {
	_, err := r.db.ExecContext(ctx, `UPDATE candidates SET is_elected = $1 WHERE id = $2`, elected, candidateID)
	return err
}

func (r *ResolutionRepo) DeleteCandidate(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM candidates WHERE id = $1`, id)
	return err
}
