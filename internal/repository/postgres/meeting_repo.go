package postgres

import (
	"context"
	"database/sql"

	"agm-voting/internal/domain/meeting"
)

type MeetingRepo struct {
	db *sql.DB
}

func NewMeetingRepo(db *sql.DB) *MeetingRepo {
	return &MeetingRepo{db: db}
}

func (r *MeetingRepo) Create(ctx context.Context, m *meeting.Meeting) error {
	query := `
        INSERT INTO meetings (meeting_code, title, description, voting_start, voting_end, total_shareholders)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at
    `
	return r.db.QueryRowContext(ctx, query,
		m.MeetingCode,
		m.Title,
		m.Description,
		m.VotingStart,
		m.VotingEnd,
		m.TotalShareholders,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
}

func (r *MeetingRepo) GetByID(ctx context.Context, id int64) (*meeting.Meeting, error) {
	m := &meeting.Meeting{}
	err := r.db.QueryRowContext(ctx, `
        SELECT id, meeting_code, title, description, voting_start, voting_end, total_shareholders, created_at, updated_at
        FROM meetings WHERE id = $1
    `, id).Scan(
		&m.ID, &m.MeetingCode, &m.Title, &m.Description,
		&m.VotingStart, &m.VotingEnd, &m.TotalShareholders, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *MeetingRepo) List(ctx context.Context) ([]meeting.Meeting, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, meeting_code, title, description, voting_start, voting_end, total_shareholders, created_at, updated_at
        FROM meetings ORDER BY created_at DESC
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []meeting.Meeting
	for rows.Next() {
		var m meeting.Meeting
		if err := rows.Scan(&m.ID, &m.MeetingCode, &m.Title, &m.Description,
			&m.VotingStart, &m.VotingEnd, &m.TotalShareholders, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		res = append(res, m)
	}
	return res, rows.Err()
}

func (r *MeetingRepo) Update(ctx context.Context, m *meeting.Meeting) error {
	_, err := r.db.ExecContext(ctx, `
        UPDATE meetings
        SET title = $1, description = $2, voting_start = $3, voting_end = $4,
            total_shareholders = $5, updated_at = now()
        WHERE id = $6
    `, m.Title, m.Description, m.VotingStart, m.VotingEnd, m.TotalShareholders, m.ID)
	return err
}

func (r *MeetingRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM meetings WHERE id = $1`, id)
	return err
}
