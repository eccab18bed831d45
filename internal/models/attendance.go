package models

import "time"

type ScanType string

const (
	ScanTypeCheckIn  ScanType = "CHECK_IN"
	ScanTypeCheckOut ScanType = "CHECK_OUT"
)

func (t ScanType) Valid() bool {
	return t == ScanTypeCheckIn || t == ScanTypeCheckOut
}

// Geofence is a circular boundary attached to a QR code. When present all
// three fields are required together.
type Geofence struct {
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
}

type QrCodeConfig struct {
	ID        string
	CompanyID string
	Type      ScanType
	IsActive  bool
	Geofence  *Geofence
	CreatedAt time.Time
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// AttendanceEvent is the durable output of a successful scan. Created exactly
// once per successful validation and never mutated here.
type AttendanceEvent struct {
	ID         string
	EmployeeID string
	QrCodeID   string
	Type       ScanType
	Timestamp  time.Time
	Location   *Location
}
