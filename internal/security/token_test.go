package security_test

import (
	"testing"
	"time"

	"attendly/api/internal/models"
	"attendly/api/internal/security"
)

func testSession() models.Session {
	return models.Session{
		ID:            "sess-1",
		PrincipalID:   "emp-1",
		PrincipalKind: models.PrincipalKindEmployee,
		CompanyID:     "co-1",
	}
}

func TestSessionTokenRoundTrip(t *testing.T) {
	token, err := security.GenerateSessionToken("secret", testSession(), time.Hour)
	if err != nil {
		t.Fatalf("GenerateSessionToken() error = %v", err)
	}

	claims, err := security.ParseSessionToken(token, "secret")
	if err != nil {
		t.Fatalf("ParseSessionToken() error = %v", err)
	}
	if claims.SessionID != "sess-1" || claims.PrincipalID != "emp-1" {
		t.Errorf("claims = %+v", claims)
	}
	if claims.PrincipalKind != string(models.PrincipalKindEmployee) {
		t.Errorf("PrincipalKind = %q", claims.PrincipalKind)
	}
	if claims.CompanyID != "co-1" {
		t.Errorf("CompanyID = %q", claims.CompanyID)
	}
}

func TestParseSessionTokenWrongSecret(t *testing.T) {
	token, _ := security.GenerateSessionToken("secret", testSession(), time.Hour)

	if _, err := security.ParseSessionToken(token, "other-secret"); err == nil {
		t.Error("ParseSessionToken() accepted token signed with different secret")
	}
}

func TestParseSessionTokenExpired(t *testing.T) {
	token, _ := security.GenerateSessionToken("secret", testSession(), -time.Minute)

	if _, err := security.ParseSessionToken(token, "secret"); err == nil {
		t.Error("ParseSessionToken() accepted expired token")
	}
}

func TestParseSessionTokenTampered(t *testing.T) {
	token, _ := security.GenerateSessionToken("secret", testSession(), time.Hour)

	if _, err := security.ParseSessionToken(token+"x", "secret"); err == nil {
		t.Error("ParseSessionToken() accepted tampered token")
	}
}
