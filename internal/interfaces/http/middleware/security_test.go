package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func securedEngine(hsts bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SecurityHeaders("Toy Shop", hsts))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	securedEngine(false).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, "Toy Shop", rec.Header().Get("Server"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "style-src 'unsafe-inline'")
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))
	assert.Empty(t, rec.Header().Get("Cache-Control"))
}

func TestSecurityHeaders_HSTSAndAuthenticatedNoStore(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	securedEngine(true).ServeHTTP(rec, req)

	assert.Contains(t, rec.Header().Get("Strict-Transport-Security"), "max-age=")
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}
