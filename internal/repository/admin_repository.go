package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"attendly/api/internal/models"
)

type AdminRepository struct {
	pool *pgxpool.Pool
}

func NewAdminRepository(pool *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{pool: pool}
}

func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	const query = `
		SELECT id, company_id, email, password_hash, kind, is_active, created_at, updated_at
		FROM admins WHERE email = $1
	`

	row := r.pool.QueryRow(ctx, query, email)
	var admin models.Admin
	if err := row.Scan(
		&admin.ID,
		&admin.CompanyID,
		&admin.Email,
		&admin.PasswordHash,
		&admin.Kind,
		&admin.IsActive,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &admin, nil
}
