package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"attendly/api/internal/geo"
	"attendly/api/internal/models"
	"attendly/api/internal/policy"
)

// ScanRequest is the ephemeral input to a validation pass. It is never
// persisted; the durable AttendanceEvent is written by the caller after a
// success verdict.
type ScanRequest struct {
	CompanyCode      string
	QrCodeID         string
	Type             string
	EmployeeUsername string
	ClientLatitude   *float64
	ClientLongitude  *float64
	ClientIP         string
	UserAgent        string
	Timestamp        time.Time
}

// ScanGrant is the success verdict. Geofence is carried back for client
// display when one was configured. ReservationKey lets the caller release
// the duplicate-guard claim if the attendance write fails afterwards.
type ScanGrant struct {
	EmployeeID     string
	QrCodeID       string
	Type           models.ScanType
	Timestamp      time.Time
	Location       *models.Location
	Geofence       *models.Geofence
	ReservationKey string
}

type ScanService struct {
	companies    CompanyStore
	qrConfigs    QrConfigStore
	employees    EmployeeStore
	attendance   AttendanceStore
	reservations ReservationStore
	schedule     policy.Schedule
	auditor      *Auditor
	log          zerolog.Logger
	now          func() time.Time
}

func NewScanService(
	companies CompanyStore,
	qrConfigs QrConfigStore,
	employees EmployeeStore,
	attendance AttendanceStore,
	reservations ReservationStore,
	schedule policy.Schedule,
	auditor *Auditor,
	log zerolog.Logger,
) *ScanService {
	return &ScanService{
		companies:    companies,
		qrConfigs:    qrConfigs,
		employees:    employees,
		attendance:   attendance,
		reservations: reservations,
		schedule:     schedule,
		auditor:      auditor,
		log:          log,
		now:          time.Now,
	}
}

// Validate runs the fixed-order scan pipeline and returns either a grant or
// a *Rejection. The order matters: a duplicate must surface as
// DUPLICATE_SCAN, never be masked by a cheaper rejection reported out of
// order. Store failures are logged and surfaced as INTERNAL_ERROR only; the
// pipeline fails closed on anything unexpected.
func (s *ScanService) Validate(ctx context.Context, req ScanRequest) (grant *ScanGrant, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Interface("panic", r).Msg("scan validation panicked")
			grant = nil
			err = reject(ReasonInternalError, "scan could not be processed")
		}
	}()

	now := req.Timestamp
	if now.IsZero() {
		now = s.now()
	}

	scanType := models.ScanType(req.Type)
	if req.Type != "" && !scanType.Valid() {
		return nil, reject(ReasonInvalidFormat, "scan type must be CHECK_IN or CHECK_OUT")
	}
	if req.CompanyCode == "" || req.QrCodeID == "" || req.Type == "" {
		return nil, reject(ReasonIncompleteData, "companyCode, qrCodeId and type are required")
	}

	company, err := s.companies.FindByCode(ctx, req.CompanyCode)
	if err != nil {
		return nil, s.internal(err, "company lookup failed")
	}
	if company == nil || !company.IsActive {
		return nil, reject(ReasonInvalidCompany, "company not found or inactive")
	}

	qr, err := s.qrConfigs.Find(ctx, req.QrCodeID, company.ID)
	if err != nil {
		return nil, s.internal(err, "qr config lookup failed")
	}
	if qr == nil || !qr.IsActive || qr.Type != scanType {
		return nil, reject(ReasonInvalidQr, "QR code not recognized for this company")
	}

	employee, err := s.employees.FindByUsername(ctx, req.EmployeeUsername, company.ID)
	if err != nil {
		return nil, s.internal(err, "employee lookup failed")
	}
	if employee == nil || !employee.IsActive {
		return nil, reject(ReasonUnknownEmployee, "employee not found or inactive")
	}

	var location *models.Location
	if qr.Geofence != nil {
		if req.ClientLatitude == nil || req.ClientLongitude == nil {
			return nil, reject(ReasonLocationRequired, "location is required for this QR code")
		}
		distance := geo.Distance(qr.Geofence.Latitude, qr.Geofence.Longitude, *req.ClientLatitude, *req.ClientLongitude)
		if distance > qr.Geofence.RadiusMeters {
			return nil, rejectDetail(ReasonOutOfRange,
				fmt.Sprintf("you are %.0f m from the scan point (allowed: %.0f m)", distance, qr.Geofence.RadiusMeters),
				map[string]any{
					"distanceMeters": math.Round(distance),
					"allowedRadius":  qr.Geofence.RadiusMeters,
				})
		}
		location = &models.Location{Latitude: *req.ClientLatitude, Longitude: *req.ClientLongitude}
	}

	if err := s.schedule.Check(scanType, now); err != nil {
		return nil, reject(ReasonTimeRestricted, err.Error())
	}

	reservationKey, err := s.guardDuplicate(ctx, employee.ID, qr.ID, scanType, now)
	if err != nil {
		return nil, err
	}

	s.auditor.Record(ctx, AuditEntry{
		CompanyID:  company.ID,
		EmployeeID: employee.ID,
		QrCodeID:   qr.ID,
		Type:       string(scanType),
		ClientIP:   req.ClientIP,
		UserAgent:  req.UserAgent,
		Timestamp:  now,
	})

	return &ScanGrant{
		EmployeeID:     employee.ID,
		QrCodeID:       qr.ID,
		Type:           scanType,
		Timestamp:      now,
		Location:       location,
		Geofence:       qr.Geofence,
		ReservationKey: reservationKey,
	}, nil
}

// guardDuplicate enforces at most one event per employee, QR code, type and
// calendar day. The existence check catches events already written; the
// reservation closes the race between two in-flight scans for the same
// tuple, so exactly one of them proceeds.
func (s *ScanService) guardDuplicate(ctx context.Context, employeeID, qrCodeID string, scanType models.ScanType, now time.Time) (string, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	exists, err := s.attendance.ExistsForDay(ctx, employeeID, qrCodeID, scanType, dayStart, dayEnd)
	if err != nil {
		return "", s.internal(err, "duplicate lookup failed")
	}
	if exists {
		return "", reject(ReasonDuplicateScan, "already recorded today")
	}

	key := fmt.Sprintf("scan:%s:%s:%s:%s", employeeID, qrCodeID, scanType, dayStart.Format("2006-01-02"))
	ok, err := s.reservations.Reserve(ctx, key, dayEnd.Sub(now))
	if err != nil {
		return "", s.internal(err, "scan reservation failed")
	}
	if !ok {
		return "", reject(ReasonDuplicateScan, "already recorded today")
	}
	return key, nil
}

// ReleaseReservation frees the duplicate-guard claim after a failed
// attendance write so the employee can retry. The release runs on its own
// short deadline: the request context may already be canceled by the time
// the caller gets here, and a claim that is never freed locks the tuple
// until midnight.
func (s *ScanService) ReleaseReservation(_ context.Context, key string) {
	if key == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.reservations.Release(ctx, key); err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("release scan reservation failed")
	}
}

func (s *ScanService) internal(err error, msg string) *Rejection {
	s.log.Error().Err(err).Msg(msg)
	return reject(ReasonInternalError, "scan could not be processed")
}
