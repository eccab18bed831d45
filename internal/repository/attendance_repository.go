package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"attendly/api/internal/models"
)

type AttendanceRepository struct {
	pool *pgxpool.Pool
}

func NewAttendanceRepository(pool *pgxpool.Pool) *AttendanceRepository {
	return &AttendanceRepository{pool: pool}
}

func (r *AttendanceRepository) ExistsForDay(ctx context.Context, employeeID, qrCodeID string, scanType models.ScanType, dayStart, dayEnd time.Time) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM attendance_events
			WHERE employee_id = $1 AND qr_code_id = $2 AND type = $3
			  AND recorded_at >= $4 AND recorded_at < $5
		)
	`

	row := r.pool.QueryRow(ctx, query, employeeID, qrCodeID, scanType, dayStart, dayEnd)
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *AttendanceRepository) Create(ctx context.Context, event models.AttendanceEvent) (models.AttendanceEvent, error) {
	const query = `
		INSERT INTO attendance_events (
			id, employee_id, qr_code_id, type, recorded_at, latitude, longitude
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
	`

	var lat, lon *float64
	if event.Location != nil {
		lat = &event.Location.Latitude
		lon = &event.Location.Longitude
	}

	_, err := r.pool.Exec(ctx, query,
		event.ID,
		event.EmployeeID,
		event.QrCodeID,
		event.Type,
		event.Timestamp,
		lat,
		lon,
	)
	if err != nil {
		return models.AttendanceEvent{}, err
	}
	return event, nil
}

func (r *AttendanceRepository) ListByEmployee(ctx context.Context, employeeID string, limit int) ([]models.AttendanceEvent, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	const query = `
		SELECT id, employee_id, qr_code_id, type, recorded_at, latitude, longitude
		FROM attendance_events
		WHERE employee_id = $1
		ORDER BY recorded_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, employeeID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.AttendanceEvent
	for rows.Next() {
		var (
			event    models.AttendanceEvent
			lat, lon *float64
		)
		if err := rows.Scan(
			&event.ID,
			&event.EmployeeID,
			&event.QrCodeID,
			&event.Type,
			&event.Timestamp,
			&lat,
			&lon,
		); err != nil {
			return nil, err
		}
		if lat != nil && lon != nil {
			event.Location = &models.Location{Latitude: *lat, Longitude: *lon}
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
