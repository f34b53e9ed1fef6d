package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const ContextKeyClientIP = "client_ip"

// ClientIPMiddleware extracts the client IP address from the request
// and stores it for the logger and the rate limiters.
func ClientIPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKeyClientIP, extractIPAddress(c.Request))
		c.Next()
	}
}

// ClientIP returns the address stored by ClientIPMiddleware, or gin's own guess
func ClientIP(c *gin.Context) string {
	if ip := c.GetString(ContextKeyClientIP); ip != "" {
		return ip
	}
	return c.ClientIP()
}

// extractIPAddress extracts real client IP from request
func extractIPAddress(r *http.Request) string {
	// 1. Try X-Real-IP header (set by reverse proxy like Nginx)
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}

	// 2. Try X-Forwarded-For header (may contain multiple IPs, first is the original client)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first := strings.TrimSpace(strings.Split(xff, ",")[0]); first != "" {
			return first
		}
	}

	// 3. Fallback to RemoteAddr
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
