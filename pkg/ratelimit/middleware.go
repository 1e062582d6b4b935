package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	"nexusems/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

// Middleware applies per-client sliding window limits before the handlers run
func Middleware(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := getClientIP(c)
		limitType := classify(c.FullPath())

		result, err := limiter.IsAllowed(c.Request.Context(), clientIP, limitType)
		if err != nil {
			// Redis trouble should not take the API down with it.
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", result.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", result.Remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", result.ResetTime))

		if !result.Allowed {
			response.Error(c, http.StatusTooManyRequests, "Rate limit exceeded", map[string]interface{}{
				"limit":      result.Limit,
				"reset_time": result.ResetTime,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// classify picks the traffic class for a route template
func classify(path string) Type {
	switch {
	case strings.Contains(path, "/admin/"):
		return TypeAdmin
	case strings.Contains(path, "/auth/"):
		return TypeAuth
	case strings.Contains(path, "/bookings"), strings.Contains(path, "/waitlist"):
		return TypeBooking
	case strings.Contains(path, "/events"):
		return TypePublic
	default:
		return TypeDefault
	}
}

// getClientIP extracts the real client address behind proxies
func getClientIP(c *gin.Context) string {
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.Split(xff, ",")[0])
		if net.ParseIP(first) != nil {
			return first
		}
	}
	if realIP := c.GetHeader("X-Real-IP"); realIP != "" && net.ParseIP(realIP) != nil {
		return realIP
	}

	ip, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}
	return ip
}
