package models

import "time"

type PrincipalKind string

const (
	PrincipalKindAdmin      PrincipalKind = "admin"
	PrincipalKindEmployee   PrincipalKind = "employee"
	PrincipalKindSuperAdmin PrincipalKind = "superadmin"
)

type Company struct {
	ID        string
	Code      string
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Employee struct {
	ID           string
	CompanyID    string
	Username     string
	PasswordHash []byte
	DisplayName  string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Admin struct {
	ID           string
	CompanyID    *string // nil for super admins
	Email        string
	PasswordHash []byte
	Kind         PrincipalKind
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
