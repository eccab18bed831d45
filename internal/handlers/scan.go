package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"attendly/api/internal/ids"
	"attendly/api/internal/middleware"
	"attendly/api/internal/models"
	"attendly/api/internal/service"
)

const (
	headerLatitude  = "X-Latitude"
	headerLongitude = "X-Longitude"
)

type scanPayload struct {
	CompanyCode string `json:"companyCode"`
	QrCodeID    string `json:"qrCodeId"`
	Type        string `json:"type"`
}

type scanResponse struct {
	Recorded  bool             `json:"recorded"`
	EventID   string           `json:"eventId"`
	Type      models.ScanType  `json:"type"`
	Timestamp time.Time        `json:"timestamp"`
	Geofence  *geofenceDisplay `json:"geofence,omitempty"`
}

type geofenceDisplay struct {
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters float64 `json:"radiusMeters"`
}

// Scan validates a presented QR scan and, only on a success verdict, writes
// the attendance event. The validator itself never writes.
func (h HandlerSet) Scan(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	// Strict decode: unknown fields are as suspect as a broken body.
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	var payload scanPayload
	if err := decoder.Decode(&payload); err != nil {
		c.JSON(http.StatusBadRequest, service.Rejection{
			Code:    service.ReasonInvalidFormat,
			Message: "scan payload could not be parsed",
		})
		return
	}

	lat, lon, err := clientCoordinates(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.Rejection{
			Code:    service.ReasonInvalidFormat,
			Message: "location headers could not be parsed",
		})
		return
	}

	req := service.ScanRequest{
		CompanyCode:      payload.CompanyCode,
		QrCodeID:         payload.QrCodeID,
		Type:             payload.Type,
		EmployeeUsername: sess.PrincipalName,
		ClientLatitude:   lat,
		ClientLongitude:  lon,
		ClientIP:         c.ClientIP(),
		UserAgent:        c.GetHeader("User-Agent"),
		Timestamp:        time.Now(),
	}

	grant, err := h.scanService.Validate(c.Request.Context(), req)
	if err != nil {
		h.sendScanRejection(c, err)
		return
	}

	event := models.AttendanceEvent{
		ID:         ids.New(),
		EmployeeID: grant.EmployeeID,
		QrCodeID:   grant.QrCodeID,
		Type:       grant.Type,
		Timestamp:  grant.Timestamp,
		Location:   grant.Location,
	}
	if _, err := h.attendance.Create(c.Request.Context(), event); err != nil {
		// Free the duplicate-guard claim so the employee can retry.
		h.scanService.ReleaseReservation(c.Request.Context(), grant.ReservationKey)
		h.log.Error().Err(err).Str("employee_id", grant.EmployeeID).Msg("attendance write failed")
		c.JSON(http.StatusInternalServerError, service.Rejection{
			Code:    service.ReasonInternalError,
			Message: "scan could not be recorded",
		})
		return
	}

	resp := scanResponse{
		Recorded:  true,
		EventID:   event.ID,
		Type:      event.Type,
		Timestamp: event.Timestamp,
	}
	if grant.Geofence != nil {
		resp.Geofence = &geofenceDisplay{
			Latitude:     grant.Geofence.Latitude,
			Longitude:    grant.Geofence.Longitude,
			RadiusMeters: grant.Geofence.RadiusMeters,
		}
	}
	c.JSON(http.StatusOK, resp)
}

// clientCoordinates reads the out-of-band geolocation headers. Both absent
// is fine (the validator decides whether location is required); a lone or
// malformed value is a format error.
func clientCoordinates(c *gin.Context) (*float64, *float64, error) {
	latStr := c.GetHeader(headerLatitude)
	lonStr := c.GetHeader(headerLongitude)
	if latStr == "" && lonStr == "" {
		return nil, nil, nil
	}
	if latStr == "" || lonStr == "" {
		return nil, nil, errors.New("latitude and longitude must be sent together")
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil, nil, err
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return nil, nil, err
	}
	return &lat, &lon, nil
}

func (h HandlerSet) sendScanRejection(c *gin.Context, err error) {
	var rej *service.Rejection
	if !errors.As(err, &rej) {
		h.log.Error().Err(err).Msg("scan validation failed")
		c.JSON(http.StatusInternalServerError, service.Rejection{
			Code:    service.ReasonInternalError,
			Message: "scan could not be processed",
		})
		return
	}

	status := http.StatusUnprocessableEntity
	switch rej.Code {
	case service.ReasonInvalidFormat, service.ReasonIncompleteData:
		status = http.StatusBadRequest
	case service.ReasonInvalidCompany, service.ReasonInvalidQr, service.ReasonUnknownEmployee:
		status = http.StatusNotFound
	case service.ReasonDuplicateScan:
		status = http.StatusConflict
	case service.ReasonInternalError:
		status = http.StatusInternalServerError
	}
	c.JSON(status, rej)
}

type attendanceResponse struct {
	ID        string           `json:"id"`
	QrCodeID  string           `json:"qrCodeId"`
	Type      models.ScanType  `json:"type"`
	Timestamp time.Time        `json:"timestamp"`
	Location  *models.Location `json:"location,omitempty"`
}

func (h HandlerSet) ListAttendance(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	events, err := h.attendance.ListByEmployee(c.Request.Context(), sess.PrincipalID, limit)
	if err != nil {
		h.log.Error().Err(err).Str("employee_id", sess.PrincipalID).Msg("attendance list failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	out := make([]attendanceResponse, 0, len(events))
	for _, e := range events {
		out = append(out, attendanceResponse{
			ID:        e.ID,
			QrCodeID:  e.QrCodeID,
			Type:      e.Type,
			Timestamp: e.Timestamp,
			Location:  e.Location,
		})
	}
	c.JSON(http.StatusOK, gin.H{"events": out})
}
