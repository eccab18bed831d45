package session

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"attendly/api/internal/models"
)

func newTestRegistry(t *testing.T) (*Registry, *time.Time) {
	t.Helper()
	r := New(Config{
		TokenSecret:     "test-secret",
		TokenTTL:        7 * 24 * time.Hour,
		IdleTimeout:     24 * time.Hour,
		MaxPerPrincipal: 3,
	}, zerolog.Nop())

	current := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return current }
	return r, &current
}

func TestCreateAndValidate(t *testing.T) {
	r, _ := newTestRegistry(t)

	token, created, err := r.Create("emp-1", models.PrincipalKindEmployee, "co-1", "jdoe", "10.0.0.1", "test-agent")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := r.Validate(token, "10.0.0.1")
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if got.ID != created.ID || got.PrincipalID != "emp-1" || got.PrincipalKind != models.PrincipalKindEmployee {
		t.Errorf("Validate() returned session %+v, want id %s for emp-1", got, created.ID)
	}
	if got.CompanyID != "co-1" {
		t.Errorf("CompanyID = %q, want co-1", got.CompanyID)
	}
}

func TestValidateRefreshesActivity(t *testing.T) {
	r, now := newTestRegistry(t)

	token, _, _ := r.Create("emp-1", models.PrincipalKindEmployee, "co-1", "jdoe", "10.0.0.1", "a")

	*now = now.Add(23 * time.Hour)
	if _, err := r.Validate(token, "10.0.0.1"); err != nil {
		t.Fatalf("Validate() after 23h idle error = %v", err)
	}

	// Another 23h is fine because the first validation refreshed activity.
	*now = now.Add(23 * time.Hour)
	if _, err := r.Validate(token, "10.0.0.1"); err != nil {
		t.Fatalf("Validate() after refresh error = %v", err)
	}
}

func TestValidateIdleTimeout(t *testing.T) {
	r, now := newTestRegistry(t)

	token, _, _ := r.Create("emp-1", models.PrincipalKindEmployee, "co-1", "jdoe", "10.0.0.1", "a")

	*now = now.Add(24*time.Hour + time.Minute)
	if _, err := r.Validate(token, "10.0.0.1"); !errors.Is(err, ErrExpired) {
		t.Fatalf("Validate() after idle timeout error = %v, want ErrExpired", err)
	}
	if r.Len() != 0 {
		t.Errorf("expired session not removed, Len() = %d", r.Len())
	}

	// The token itself is still cryptographically valid but the session is gone.
	if _, err := r.Validate(token, "10.0.0.1"); !errors.Is(err, ErrInvalid) {
		t.Fatalf("Validate() of removed session error = %v, want ErrInvalid", err)
	}
}

func TestValidateRejectsInvalidatedSession(t *testing.T) {
	r, _ := newTestRegistry(t)

	token, created, _ := r.Create("emp-1", models.PrincipalKindEmployee, "co-1", "jdoe", "10.0.0.1", "a")
	r.Invalidate(created.ID)

	if _, err := r.Validate(token, "10.0.0.1"); !errors.Is(err, ErrInvalid) {
		t.Fatalf("Validate() error = %v, want ErrInvalid", err)
	}
}

func TestValidateRejectsTamperedToken(t *testing.T) {
	r, _ := newTestRegistry(t)

	token, _, _ := r.Create("emp-1", models.PrincipalKindEmployee, "co-1", "jdoe", "10.0.0.1", "a")

	if _, err := r.Validate(token+"x", "10.0.0.1"); !errors.Is(err, ErrInvalid) {
		t.Fatalf("Validate() of tampered token error = %v, want ErrInvalid", err)
	}
}

func TestIPMismatchLogOnly(t *testing.T) {
	r, _ := newTestRegistry(t)

	token, _, _ := r.Create("emp-1", models.PrincipalKindEmployee, "co-1", "jdoe", "10.0.0.1", "a")

	if _, err := r.Validate(token, "192.168.1.50"); err != nil {
		t.Fatalf("Validate() with mismatched ip under log policy error = %v", err)
	}
}

func TestIPMismatchInvalidate(t *testing.T) {
	r := New(Config{
		TokenSecret:      "test-secret",
		IPMismatchPolicy: IPMismatchInvalidate,
	}, zerolog.Nop())

	token, _, _ := r.Create("emp-1", models.PrincipalKindEmployee, "co-1", "jdoe", "10.0.0.1", "a")

	if _, err := r.Validate(token, "192.168.1.50"); !errors.Is(err, ErrInvalid) {
		t.Fatalf("Validate() error = %v, want ErrInvalid", err)
	}
	if r.Len() != 0 {
		t.Errorf("session survived hard invalidation, Len() = %d", r.Len())
	}
}

func TestConcurrentSessionLimitEvictsOldest(t *testing.T) {
	r, now := newTestRegistry(t)

	tokenOldest, _, _ := r.Create("emp-1", models.PrincipalKindEmployee, "co-1", "jdoe", "10.0.0.1", "a")
	*now = now.Add(time.Minute)
	r.Create("emp-1", models.PrincipalKindEmployee, "co-1", "jdoe", "10.0.0.1", "b")
	*now = now.Add(time.Minute)
	r.Create("emp-1", models.PrincipalKindEmployee, "co-1", "jdoe", "10.0.0.1", "c")
	*now = now.Add(time.Minute)
	r.Create("emp-1", models.PrincipalKindEmployee, "co-1", "jdoe", "10.0.0.1", "d")

	if r.Len() != 3 {
		t.Fatalf("Len() = %d, want 3 after limit enforcement", r.Len())
	}
	if _, err := r.Validate(tokenOldest, "10.0.0.1"); !errors.Is(err, ErrInvalid) {
		t.Fatalf("oldest session still valid after eviction, err = %v", err)
	}
}

func TestInvalidateAllForPrincipal(t *testing.T) {
	r, _ := newTestRegistry(t)

	r.Create("emp-1", models.PrincipalKindEmployee, "co-1", "jdoe", "10.0.0.1", "a")
	r.Create("emp-1", models.PrincipalKindEmployee, "co-1", "jdoe", "10.0.0.1", "b")
	r.Create("emp-2", models.PrincipalKindEmployee, "co-1", "asmith", "10.0.0.1", "c")
	// Same id, different kind: must not be touched.
	r.Create("emp-1", models.PrincipalKindAdmin, "co-1", "jdoe@acme.test", "10.0.0.1", "d")

	if n := r.InvalidateAllForPrincipal("emp-1", models.PrincipalKindEmployee); n != 2 {
		t.Errorf("InvalidateAllForPrincipal() = %d, want 2", n)
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2 remaining", r.Len())
	}
}

func TestSweep(t *testing.T) {
	r, now := newTestRegistry(t)

	r.Create("emp-1", models.PrincipalKindEmployee, "co-1", "jdoe", "10.0.0.1", "a")
	*now = now.Add(25 * time.Hour)
	tokenFresh, _, _ := r.Create("emp-2", models.PrincipalKindEmployee, "co-1", "asmith", "10.0.0.1", "b")

	if removed := r.Sweep(); removed != 1 {
		t.Errorf("Sweep() = %d, want 1", removed)
	}
	if _, err := r.Validate(tokenFresh, "10.0.0.1"); err != nil {
		t.Errorf("fresh session removed by sweep: %v", err)
	}
}

func TestListForPrincipal(t *testing.T) {
	r, now := newTestRegistry(t)

	r.Create("emp-1", models.PrincipalKindEmployee, "co-1", "jdoe", "10.0.0.1", "a")
	*now = now.Add(time.Minute)
	_, newest, _ := r.Create("emp-1", models.PrincipalKindEmployee, "co-1", "jdoe", "10.0.0.1", "b")

	list := r.ListForPrincipal("emp-1", models.PrincipalKindEmployee)
	if len(list) != 2 {
		t.Fatalf("ListForPrincipal() returned %d sessions, want 2", len(list))
	}
	if list[0].ID != newest.ID {
		t.Errorf("sessions not ordered by recency: first = %s, want %s", list[0].ID, newest.ID)
	}
}
