package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"attendly/api/internal/config"
	"attendly/api/internal/ratelimit"
	"attendly/api/internal/service"
)

// RateLimit rejects clients exceeding the configured request budget. The
// identifier combines client IP and user agent so shared NATs are not
// throttled as a single client.
func RateLimit(limiter *ratelimit.Limiter, cfg config.RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		identifier := c.ClientIP() + "|" + c.GetHeader("User-Agent")

		ok, retryAfter := limiter.Allow(identifier, cfg.MaxRequests, cfg.Window)
		if !ok {
			seconds := int(roundUpSeconds(retryAfter).Seconds())
			c.Header("Retry-After", fmt.Sprintf("%d", seconds))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":              service.ReasonRateLimited,
				"message":           "too many requests, slow down",
				"retryAfterSeconds": seconds,
			})
			return
		}

		c.Next()
	}
}

// Round up so a client never retries before the window actually resets.
func roundUpSeconds(d time.Duration) time.Duration {
	if r := d % time.Second; r > 0 {
		return d + time.Second - r
	}
	return d
}
