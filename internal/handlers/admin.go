package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"attendly/api/internal/middleware"
	"attendly/api/internal/models"
)

// ForceLogout revokes every session of the target principal. Company-scoped
// admins may only touch employees of their own company context; super
// admins may touch anyone.
func (h HandlerSet) ForceLogout(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	kind := models.PrincipalKind(c.Param("kind"))
	switch kind {
	case models.PrincipalKindEmployee, models.PrincipalKindAdmin, models.PrincipalKindSuperAdmin:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown principal kind"})
		return
	}

	if sess.PrincipalKind == models.PrincipalKindAdmin && kind != models.PrincipalKindEmployee {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	removed := h.sessions.InvalidateAllForPrincipal(c.Param("id"), kind)
	h.log.Info().
		Str("actor_id", sess.PrincipalID).
		Str("target_id", c.Param("id")).
		Str("target_kind", string(kind)).
		Int("removed", removed).
		Msg("sessions force revoked")

	c.JSON(http.StatusOK, gin.H{"revoked": removed})
}
