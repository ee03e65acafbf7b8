package postgres

import (
	"context"
	"database/sql"

	"agm-voting/internal/domain/shareholder"
)

type ShareholderRepo struct {
	db *sql.DB
}

func NewShareholderRepo(db *sql.DB) *ShareholderRepo {
	return &ShareholderRepo{db: db}
}

func (r *ShareholderRepo) Create(ctx context.Context, sh *shareholder.Shareholder) error {
	query := `
        INSERT INTO shareholders (meeting_id, holder_code, full_name, email, shares)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at
    `
	err := r.db.QueryRowContext(ctx, query,
		sh.MeetingID, sh.HolderCode, sh.FullName, sh.Email, sh.Shares,
	).Scan(&sh.ID, &sh.CreatedAt, &sh.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return shareholder.ErrDuplicateCode
		}
		return err
	}
	return nil
}

func (r *ShareholderRepo) GetByID(ctx context.Context, id int64) (*shareholder.Shareholder, error) {
	sh := &shareholder.Shareholder{}
	err := r.db.QueryRowContext(ctx, `
        SELECT id, meeting_id, holder_code, full_name, email, shares, created_at, updated_at
        FROM shareholders WHERE id = $1
    `, id).Scan(
		&sh.ID, &sh.MeetingID, &sh.HolderCode, &sh.FullName,
		&sh.Email, &sh.Shares, &sh.CreatedAt, &sh.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return sh, nil
}

func (r *ShareholderRepo) ListByMeeting(ctx context.Context, meetingID int64) ([]shareholder.Shareholder, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, meeting_id, holder_code, full_name, email, shares, created_at, updated_at
        FROM shareholders WHERE meeting_id = $1 ORDER BY holder_code
    `, meetingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []shareholder.Shareholder
	for rows.Next() {
		var sh shareholder.Shareholder
		if err := rows.Scan(&sh.ID, &sh.MeetingID, &sh.HolderCode, &sh.FullName,
			&sh.Email, &sh.Shares, &sh.CreatedAt, &sh.UpdatedAt); err != nil {
			return nil, err
		}
		res = append(res, sh)
	}
	return res, rows.Err()
}

func (r *ShareholderRepo) Update(ctx context.Context, sh *shareholder.Shareholder) error {
	_, err := r.db.ExecContext(ctx, `
        UPDATE shareholders
        SET full_name = $1, email = $2, shares = $3, updated_at = now()
        WHERE id = $4
    `, sh.FullName, sh.Email, sh.Shares, sh.ID)
	return err
}

func (r *ShareholderRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM shareholders WHERE id = $1`, id)
	return err
}
