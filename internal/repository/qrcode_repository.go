package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"attendly/api/internal/models"
)

type QrCodeRepository struct {
	pool *pgxpool.Pool
}

func NewQrCodeRepository(pool *pgxpool.Pool) *QrCodeRepository {
	return &QrCodeRepository{pool: pool}
}

// Find resolves a QR config scoped to the company. The geofence columns are
// nullable as a group; a row either has all three or none.
func (r *QrCodeRepository) Find(ctx context.Context, id string, companyID string) (*models.QrCodeConfig, error) {
	const query = `
		SELECT id, company_id, type, is_active, geo_latitude, geo_longitude, geo_radius_m, created_at
		FROM qr_codes WHERE id = $1 AND company_id = $2
	`

	row := r.pool.QueryRow(ctx, query, id, companyID)
	var (
		qr       models.QrCodeConfig
		lat, lon *float64
		radius   *float64
	)
	if err := row.Scan(
		&qr.ID,
		&qr.CompanyID,
		&qr.Type,
		&qr.IsActive,
		&lat,
		&lon,
		&radius,
		&qr.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if lat != nil && lon != nil && radius != nil {
		qr.Geofence = &models.Geofence{
			Latitude:     *lat,
			Longitude:    *lon,
			RadiusMeters: *radius,
		}
	}
	return &qr, nil
}
