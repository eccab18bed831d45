package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const auditStream = "attendance:audit"

// AuditEntry describes a scan attempt that passed validation. Recording it
// is best effort only: an audit failure must never affect the verdict.
type AuditEntry struct {
	CompanyID  string
	EmployeeID string
	QrCodeID   string
	Type       string
	ClientIP   string
	UserAgent  string
	Timestamp  time.Time
}

type Auditor struct {
	stream *redis.Client
	log    zerolog.Logger
}

func NewAuditor(stream *redis.Client, log zerolog.Logger) *Auditor {
	return &Auditor{stream: stream, log: log}
}

// Record writes the entry to the audit stream in the background, detached
// from the request context so an abandoned request still gets audited.
func (a *Auditor) Record(_ context.Context, entry AuditEntry) {
	if a == nil || a.stream == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		err := a.stream.XAdd(ctx, &redis.XAddArgs{
			Stream: auditStream,
			Values: map[string]any{
				"company_id":  entry.CompanyID,
				"employee_id": entry.EmployeeID,
				"qr_code_id":  entry.QrCodeID,
				"type":        entry.Type,
				"client_ip":   entry.ClientIP,
				"user_agent":  entry.UserAgent,
				"timestamp":   entry.Timestamp.Format(time.RFC3339),
			},
		}).Err()
		if err != nil {
			a.log.Error().Err(err).Str("employee_id", entry.EmployeeID).Msg("audit write failed")
		}
	}()
}
