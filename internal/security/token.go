package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"attendly/api/internal/models"
)

type SessionClaims struct {
	SessionID     string `json:"sid"`
	PrincipalID   string `json:"pid"`
	PrincipalKind string `json:"kind"`
	CompanyID     string `json:"cid,omitempty"`
	jwt.RegisteredClaims
}

func GenerateSessionToken(secret string, session models.Session, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		SessionID:     session.ID,
		PrincipalID:   session.PrincipalID,
		PrincipalKind: string(session.PrincipalKind),
		CompanyID:     session.CompanyID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Subject:   session.PrincipalID,
			ID:        session.ID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign jwt: %w", err)
	}
	return signed, nil
}

func ParseSessionToken(tokenStr string, secret string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}
