package models

import "time"

// Session is the server-side record backing a signed bearer token, trackable
// and revocable independent of the token's own expiry.
type Session struct {
	ID             string
	PrincipalID    string
	PrincipalName  string // username for employees, email for admins
	PrincipalKind  PrincipalKind
	CompanyID      string
	IPAddress      string
	UserAgent      string
	CreatedAt      time.Time
	LastActivityAt time.Time
	Active         bool
}
