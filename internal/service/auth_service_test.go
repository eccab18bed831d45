package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"attendly/api/internal/models"
	"attendly/api/internal/security"
	"attendly/api/internal/session"
)

type fakeAdminStore struct {
	admins map[string]*models.Admin
}

func (f *fakeAdminStore) FindByEmail(_ context.Context, email string) (*models.Admin, error) {
	return f.admins[email], nil
}

func newTestAuthService(t *testing.T) (*AuthService, *session.Registry) {
	t.Helper()

	hash, err := security.HashPassword("hunter2!")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	companies := &fakeCompanyStore{companies: map[string]*models.Company{
		"ACME": {ID: "co-1", Code: "ACME", IsActive: true},
	}}
	employees := &fakeEmployeeStore{employees: map[string]*models.Employee{
		"jdoe": {ID: "emp-1", CompanyID: "co-1", Username: "jdoe", PasswordHash: hash, IsActive: true},
		"gone": {ID: "emp-2", CompanyID: "co-1", Username: "gone", PasswordHash: hash, IsActive: false},
	}}
	companyID := "co-1"
	admins := &fakeAdminStore{admins: map[string]*models.Admin{
		"boss@acme.test": {
			ID: "adm-1", CompanyID: &companyID, Email: "boss@acme.test",
			PasswordHash: hash, Kind: models.PrincipalKindAdmin, IsActive: true,
		},
	}}

	registry := session.New(session.Config{TokenSecret: "test-secret"}, zerolog.Nop())
	return NewAuthService(companies, employees, admins, registry, zerolog.Nop()), registry
}

func TestLoginEmployee(t *testing.T) {
	svc, registry := newTestAuthService(t)

	result, err := svc.LoginEmployee(context.Background(), EmployeeLoginInput{
		CompanyCode: "ACME",
		Username:    "jdoe",
		Password:    "hunter2!",
		IPAddress:   "10.0.0.1",
	})
	if err != nil {
		t.Fatalf("LoginEmployee() error = %v", err)
	}
	if result.Session.PrincipalID != "emp-1" || result.Session.PrincipalKind != models.PrincipalKindEmployee {
		t.Errorf("session = %+v", result.Session)
	}
	if result.Session.PrincipalName != "jdoe" {
		t.Errorf("PrincipalName = %q, want jdoe", result.Session.PrincipalName)
	}

	if _, err := registry.Validate(result.Token, "10.0.0.1"); err != nil {
		t.Errorf("issued token does not validate: %v", err)
	}
}

func TestLoginEmployeeFailures(t *testing.T) {
	tests := []struct {
		name  string
		input EmployeeLoginInput
		want  error
	}{
		{"Wrong password", EmployeeLoginInput{CompanyCode: "ACME", Username: "jdoe", Password: "nope"}, ErrInvalidCredentials},
		{"Unknown username", EmployeeLoginInput{CompanyCode: "ACME", Username: "ghost", Password: "hunter2!"}, ErrInvalidCredentials},
		{"Unknown company", EmployeeLoginInput{CompanyCode: "NOPE", Username: "jdoe", Password: "hunter2!"}, ErrInvalidCredentials},
		{"Deactivated employee", EmployeeLoginInput{CompanyCode: "ACME", Username: "gone", Password: "hunter2!"}, ErrPrincipalInactive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestAuthService(t)
			if _, err := svc.LoginEmployee(context.Background(), tt.input); !errors.Is(err, tt.want) {
				t.Errorf("LoginEmployee() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoginAdmin(t *testing.T) {
	svc, _ := newTestAuthService(t)

	result, err := svc.LoginAdmin(context.Background(), AdminLoginInput{
		Email:    "Boss@ACME.test", // normalized before lookup
		Password: "hunter2!",
	})
	if err != nil {
		t.Fatalf("LoginAdmin() error = %v", err)
	}
	if result.Session.PrincipalKind != models.PrincipalKindAdmin || result.Session.CompanyID != "co-1" {
		t.Errorf("session = %+v", result.Session)
	}
}

func TestLoginAdminWrongPassword(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.LoginAdmin(context.Background(), AdminLoginInput{
		Email:    "boss@acme.test",
		Password: "nope",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("LoginAdmin() error = %v, want ErrInvalidCredentials", err)
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	svc, registry := newTestAuthService(t)

	result, err := svc.LoginEmployee(context.Background(), EmployeeLoginInput{
		CompanyCode: "ACME", Username: "jdoe", Password: "hunter2!",
	})
	if err != nil {
		t.Fatalf("LoginEmployee() error = %v", err)
	}

	svc.Logout(result.Session.ID)
	if _, err := registry.Validate(result.Token, ""); !errors.Is(err, session.ErrInvalid) {
		t.Errorf("Validate() after logout error = %v, want ErrInvalid", err)
	}
}
