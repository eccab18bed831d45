package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"attendly/api/internal/models"
	"attendly/api/internal/security"
	"attendly/api/internal/session"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPrincipalInactive  = errors.New("principal inactive")
)

type AdminStore interface {
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
}

// AuthService performs the credential check that gates session creation.
type AuthService struct {
	companies CompanyStore
	employees EmployeeStore
	admins    AdminStore
	sessions  *session.Registry
	log       zerolog.Logger
}

func NewAuthService(
	companies CompanyStore,
	employees EmployeeStore,
	admins AdminStore,
	sessions *session.Registry,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		companies: companies,
		employees: employees,
		admins:    admins,
		sessions:  sessions,
		log:       log,
	}
}

type LoginResult struct {
	Token   string
	Session models.Session
}

type EmployeeLoginInput struct {
	CompanyCode string
	Username    string
	Password    string
	IPAddress   string
	UserAgent   string
}

func (s *AuthService) LoginEmployee(ctx context.Context, input EmployeeLoginInput) (LoginResult, error) {
	input.Username = strings.TrimSpace(input.Username)

	company, err := s.companies.FindByCode(ctx, input.CompanyCode)
	if err != nil {
		return LoginResult{}, err
	}
	if company == nil || !company.IsActive {
		return LoginResult{}, ErrInvalidCredentials
	}

	employee, err := s.employees.FindByUsername(ctx, input.Username, company.ID)
	if err != nil {
		return LoginResult{}, err
	}
	if employee == nil {
		return LoginResult{}, ErrInvalidCredentials
	}
	if !employee.IsActive {
		return LoginResult{}, ErrPrincipalInactive
	}

	ok, err := security.VerifyPassword(input.Password, employee.PasswordHash)
	if err != nil || !ok {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, sess, err := s.sessions.Create(employee.ID, models.PrincipalKindEmployee, company.ID, employee.Username, input.IPAddress, input.UserAgent)
	if err != nil {
		return LoginResult{}, err
	}

	s.log.Info().
		Str("employee_id", employee.ID).
		Str("company_id", company.ID).
		Str("session_id", sess.ID).
		Msg("employee logged in")

	return LoginResult{Token: token, Session: sess}, nil
}

type AdminLoginInput struct {
	Email     string
	Password  string
	IPAddress string
	UserAgent string
}

func (s *AuthService) LoginAdmin(ctx context.Context, input AdminLoginInput) (LoginResult, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))

	admin, err := s.admins.FindByEmail(ctx, input.Email)
	if err != nil {
		return LoginResult{}, err
	}
	if admin == nil {
		return LoginResult{}, ErrInvalidCredentials
	}
	if !admin.IsActive {
		return LoginResult{}, ErrPrincipalInactive
	}

	ok, err := security.VerifyPassword(input.Password, admin.PasswordHash)
	if err != nil || !ok {
		return LoginResult{}, ErrInvalidCredentials
	}

	companyID := ""
	if admin.CompanyID != nil {
		companyID = *admin.CompanyID
	}

	token, sess, err := s.sessions.Create(admin.ID, admin.Kind, companyID, admin.Email, input.IPAddress, input.UserAgent)
	if err != nil {
		return LoginResult{}, err
	}

	s.log.Info().
		Str("admin_id", admin.ID).
		Str("kind", string(admin.Kind)).
		Str("session_id", sess.ID).
		Msg("admin logged in")

	return LoginResult{Token: token, Session: sess}, nil
}

func (s *AuthService) Logout(sessionID string) {
	s.sessions.Invalidate(sessionID)
}
