package postgres

import (
	"context"
	"database/sql"

	"agm-voting/internal/domain/operator"
)

type OperatorRepo struct {
	db *sql.DB
}

func NewOperatorRepo(db *sql.DB) *OperatorRepo {
	return &OperatorRepo{db: db}
}

func (r *OperatorRepo) Create(ctx context.Context, o *operator.Operator) error {
	query := `
        INSERT INTO operators (email, password_hash, role, is_active)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at
    `
	err := r.db.QueryRowContext(ctx, query, o.Email, o.PasswordHash, o.Role, o.IsActive).
		Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return operator.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *OperatorRepo) GetByEmail(ctx context.Context, email string) (*operator.Operator, error) {
	query := `
        SELECT id, email, password_hash, role, is_active, created_at
        FROM operators WHERE email = $1
    `
	o := &operator.Operator{}
	err := r.db.QueryRowContext(ctx, query, email).
		Scan(&o.ID, &o.Email, &o.PasswordHash, &o.Role, &o.IsActive, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *OperatorRepo) GetByID(ctx context.Context, id int64) (*operator.Operator, error) {
	query := `
        SELECT id, email, password_hash, role, is_active, created_at
        FROM operators WHERE id = $1
    `
	o := &operator.Operator{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&o.ID, &o.Email, &o.PasswordHash, &o.Role, &o.IsActive, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *OperatorRepo) List(ctx context.Context) ([]operator.Operator, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, email, password_hash, role, is_active, created_at
        FROM operators ORDER BY id
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ops []operator.Operator
	for rows.Next() {
		var o operator.Operator
		if err := rows.Scan(&o.ID, &o.Email, &o.PasswordHash, &o.Role, &o.IsActive, &o.CreatedAt); err != nil {
			return nil, err
		}
		ops = append(ops, o)
	}
	return ops, rows.Err()
}

func (r *OperatorRepo) UpdateRole(ctx context.Context, id int64, role string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE operators SET role = $1 WHERE id = $2`, role, id)
	return err
}

func (r *OperatorRepo) Deactivate(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE operators SET is_active = false WHERE id = $1`, id)
	return err
}
