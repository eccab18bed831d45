package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"attendly/api/internal/models"
)

type EmployeeRepository struct {
	pool *pgxpool.Pool
}

func NewEmployeeRepository(pool *pgxpool.Pool) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

func (r *EmployeeRepository) FindByUsername(ctx context.Context, username string, companyID string) (*models.Employee, error) {
	const query = `
		SELECT id, company_id, username, password_hash, display_name, is_active, created_at, updated_at
		FROM employees WHERE username = $1 AND company_id = $2
	`

	row := r.pool.QueryRow(ctx, query, username, companyID)
	var employee models.Employee
	if err := row.Scan(
		&employee.ID,
		&employee.CompanyID,
		&employee.Username,
		&employee.PasswordHash,
		&employee.DisplayName,
		&employee.IsActive,
		&employee.CreatedAt,
		&employee.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &employee, nil
}
