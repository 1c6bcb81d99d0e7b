// internal/interfaces/http/middleware/security.go
package middleware

import (
	"github.com/gin-gonic/gin"
)

// contentSecurityPolicy allows only what the printable invoice page needs:
// its inline stylesheet and product images. JSON responses need nothing.
const contentSecurityPolicy = "default-src 'none'; style-src 'unsafe-inline'; img-src 'self' https: data:; frame-ancestors 'none'; base-uri 'none'"

// SecurityHeaders hardens every response. serverName replaces the Server
// header. hsts adds Strict-Transport-Security and belongs behind TLS only.
// Authenticated responses are marked no-store so admin order data is not
// cached by browsers or proxies.
func SecurityHeaders(serverName string, hsts bool) gin.HandlerFunc {
	headers := [][2]string{
		{"X-Frame-Options", "DENY"},
		{"X-Content-Type-Options", "nosniff"},
		{"X-XSS-Protection", "0"},
		{"Referrer-Policy", "strict-origin-when-cross-origin"},
		{"Permissions-Policy", "camera=(), microphone=(), geolocation=()"},
		{"Content-Security-Policy", contentSecurityPolicy},
		{"Server", serverName},
	}
	if hsts {
		headers = append(headers, [2]string{"Strict-Transport-Security", "max-age=31536000; includeSubDomains"})
	}

	return func(c *gin.Context) {
		h := c.Writer.Header()
		for _, kv := range headers {
			h.Set(kv[0], kv[1])
		}
		if c.GetHeader("Authorization") != "" {
			h.Set("Cache-Control", "no-store")
		}
		c.Next()
	}
}
