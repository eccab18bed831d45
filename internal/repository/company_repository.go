package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"attendly/api/internal/models"
)

type CompanyRepository struct {
	pool *pgxpool.Pool
}

func NewCompanyRepository(pool *pgxpool.Pool) *CompanyRepository {
	return &CompanyRepository{pool: pool}
}

// FindByCode returns nil without error when no such company exists.
func (r *CompanyRepository) FindByCode(ctx context.Context, code string) (*models.Company, error) {
	const query = `
		SELECT id, code, name, is_active, created_at, updated_at
		FROM companies WHERE code = $1
	`

	row := r.pool.QueryRow(ctx, query, code)
	var company models.Company
	if err := row.Scan(
		&company.ID,
		&company.Code,
		&company.Name,
		&company.IsActive,
		&company.CreatedAt,
		&company.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &company, nil
}
