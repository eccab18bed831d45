package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"attendly/api/internal/middleware"
	"attendly/api/internal/service"
)

type employeeLoginRequest struct {
	CompanyCode string `json:"companyCode" binding:"required"`
	Username    string `json:"username" binding:"required"`
	Password    string `json:"password" binding:"required"`
}

type adminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token     string `json:"token"`
	SessionID string `json:"sessionId"`
	ExpiresIn int64  `json:"expiresIn"`
}

func (h HandlerSet) LoginEmployee(c *gin.Context) {
	var req employeeLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authService.LoginEmployee(c.Request.Context(), service.EmployeeLoginInput{
		CompanyCode: req.CompanyCode,
		Username:    req.Username,
		Password:    req.Password,
		IPAddress:   c.ClientIP(),
		UserAgent:   c.GetHeader("User-Agent"),
	})
	if err != nil {
		h.sendLoginError(c, err)
		return
	}

	h.sendLoginResponse(c, result)
}

func (h HandlerSet) LoginAdmin(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authService.LoginAdmin(c.Request.Context(), service.AdminLoginInput{
		Email:     req.Email,
		Password:  req.Password,
		IPAddress: c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	})
	if err != nil {
		h.sendLoginError(c, err)
		return
	}

	h.sendLoginResponse(c, result)
}

func (h HandlerSet) sendLoginError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case errors.Is(err, service.ErrPrincipalInactive):
		c.JSON(http.StatusForbidden, gin.H{"error": "account disabled"})
	default:
		h.log.Error().Err(err).Msg("login failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (h HandlerSet) sendLoginResponse(c *gin.Context, result service.LoginResult) {
	c.JSON(http.StatusOK, loginResponse{
		Token:     result.Token,
		SessionID: result.Session.ID,
		ExpiresIn: int64(h.cfg.Security.TokenTTL.Seconds()),
	})
}

func (h HandlerSet) Logout(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	h.authService.Logout(sess.ID)
	c.Status(http.StatusNoContent)
}

type sessionResponse struct {
	ID             string    `json:"id"`
	IPAddress      string    `json:"ipAddress"`
	UserAgent      string    `json:"userAgent"`
	CreatedAt      time.Time `json:"createdAt"`
	LastActivityAt time.Time `json:"lastActivityAt"`
	Current        bool      `json:"current"`
}

func (h HandlerSet) ListSessions(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	list := h.sessions.ListForPrincipal(sess.PrincipalID, sess.PrincipalKind)
	out := make([]sessionResponse, 0, len(list))
	for _, s := range list {
		out = append(out, sessionResponse{
			ID:             s.ID,
			IPAddress:      s.IPAddress,
			UserAgent:      s.UserAgent,
			CreatedAt:      s.CreatedAt,
			LastActivityAt: s.LastActivityAt,
			Current:        s.ID == sess.ID,
		})
	}

	c.JSON(http.StatusOK, gin.H{"sessions": out})
}

func (h HandlerSet) RevokeSession(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	targetID := c.Param("sessionId")
	owned := false
	for _, s := range h.sessions.ListForPrincipal(sess.PrincipalID, sess.PrincipalKind) {
		if s.ID == targetID {
			owned = true
			break
		}
	}
	if !owned {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	h.sessions.Invalidate(targetID)
	c.Status(http.StatusNoContent)
}
