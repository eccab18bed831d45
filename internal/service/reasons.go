package service

// ReasonCode identifies a user-facing validation outcome. These are expected
// results, not internal failures: handlers map them straight to responses.
type ReasonCode string

const (
	ReasonInvalidFormat    ReasonCode = "INVALID_FORMAT"
	ReasonIncompleteData   ReasonCode = "INCOMPLETE_DATA"
	ReasonInvalidCompany   ReasonCode = "INVALID_COMPANY"
	ReasonInvalidQr        ReasonCode = "INVALID_QR"
	ReasonUnknownEmployee  ReasonCode = "UNKNOWN_EMPLOYEE"
	ReasonLocationRequired ReasonCode = "LOCATION_REQUIRED"
	ReasonOutOfRange       ReasonCode = "OUT_OF_RANGE"
	ReasonTimeRestricted   ReasonCode = "TIME_RESTRICTED"
	ReasonDuplicateScan    ReasonCode = "DUPLICATE_SCAN"
	ReasonSessionExpired   ReasonCode = "SESSION_EXPIRED"
	ReasonSessionInvalid   ReasonCode = "SESSION_INVALID"
	ReasonRateLimited      ReasonCode = "RATE_LIMITED"
	ReasonInternalError    ReasonCode = "INTERNAL_ERROR"
)

// Rejection is a machine-readable scan verdict carrying the reason code, a
// message fit for user display and optional structured detail.
type Rejection struct {
	Code    ReasonCode     `json:"code"`
	Message string         `json:"message"`
	Detail  map[string]any `json:"detail,omitempty"`
}

func (r *Rejection) Error() string {
	return string(r.Code) + ": " + r.Message
}

func reject(code ReasonCode, message string) *Rejection {
	return &Rejection{Code: code, Message: message}
}

func rejectDetail(code ReasonCode, message string, detail map[string]any) *Rejection {
	return &Rejection{Code: code, Message: message, Detail: detail}
}
