package service

import (
	"context"
	"time"

	"attendly/api/internal/models"
)

// The validator consumes persistence through these narrow interfaces; the
// pgx-backed implementations live in internal/repository. A nil entity with
// a nil error means "not found".

type CompanyStore interface {
	FindByCode(ctx context.Context, code string) (*models.Company, error)
}

type QrConfigStore interface {
	Find(ctx context.Context, id string, companyID string) (*models.QrCodeConfig, error)
}

type EmployeeStore interface {
	FindByUsername(ctx context.Context, username string, companyID string) (*models.Employee, error)
}

type AttendanceStore interface {
	ExistsForDay(ctx context.Context, employeeID, qrCodeID string, scanType models.ScanType, dayStart, dayEnd time.Time) (bool, error)
	Create(ctx context.Context, event models.AttendanceEvent) (models.AttendanceEvent, error)
	ListByEmployee(ctx context.Context, employeeID string, limit int) ([]models.AttendanceEvent, error)
}

// ReservationStore grants short-lived exclusive claims on a scan tuple so
// that of two concurrent identical scans exactly one passes the duplicate
// guard. Redis SetNX in production, an in-memory map in tests.
type ReservationStore interface {
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}
