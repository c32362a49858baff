package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"network-subsite-menu/internal/config"
)

// RateLimitMiddleware limits the request rate per client IP. A nil manager
// disables limiting.
func RateLimitMiddleware(cfg *config.Config, manager *RateLimitManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if manager == nil || cfg == nil || shouldBypassRateLimit(c.Request) {
			c.Next()
			return
		}

		limiter := manager.GetVisitor(
			c.ClientIP(),
			cfg.RateLimitRequests,
			cfg.RateLimitWindow,
			cfg.RateLimitBurst,
		)

		if limiter == nil {
			c.Next()
			return
		}

		if !limiter.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "too many requests, please try again later",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func shouldBypassRateLimit(r *http.Request) bool {
	if r == nil || r.URL == nil {
		return false
	}

	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return false
	}

	switch path := r.URL.Path; {
	case path == "/health", path == "/metrics":
		return true
	case strings.HasPrefix(path, "/static/"):
		return true
	}

	return false
}
