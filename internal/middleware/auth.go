package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"attendly/api/internal/models"
	"attendly/api/internal/service"
	"attendly/api/internal/session"
)

const (
	ContextSession = "current_session"
	cookieToken    = "attendly_token"
)

// Auth validates the bearer token against the session registry and stores
// the live session on the context. The token may arrive either as an
// Authorization header or as a cookie.
func Auth(sessions *session.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    service.ReasonSessionInvalid,
				"message": "authentication required",
			})
			return
		}

		sess, err := sessions.Validate(token, c.ClientIP())
		if err != nil {
			code := service.ReasonSessionInvalid
			if errors.Is(err, session.ErrExpired) {
				code = service.ReasonSessionExpired
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    code,
				"message": "please sign in again",
			})
			return
		}

		c.Set(ContextSession, sess)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	if cookie, err := c.Cookie(cookieToken); err == nil {
		return cookie
	}
	return ""
}

// CurrentSession returns the session placed on the context by Auth.
func CurrentSession(c *gin.Context) (models.Session, bool) {
	val, exists := c.Get(ContextSession)
	if !exists {
		return models.Session{}, false
	}
	sess, ok := val.(models.Session)
	return sess, ok
}

// RequireKinds restricts a route to the given principal kinds.
func RequireKinds(kinds ...models.PrincipalKind) gin.HandlerFunc {
	kindSet := make(map[models.PrincipalKind]struct{}, len(kinds))
	for _, kind := range kinds {
		kindSet[kind] = struct{}{}
	}

	return func(c *gin.Context) {
		sess, ok := CurrentSession(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    service.ReasonSessionInvalid,
				"message": "authentication required",
			})
			return
		}

		if _, ok := kindSet[sess.PrincipalKind]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		c.Next()
	}
}
