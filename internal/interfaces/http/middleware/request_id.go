// internal/interfaces/http/middleware/request_id.go
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the request id in both directions
	RequestIDHeader = "X-Request-ID"
	// RequestIDKey is the gin context key of the request id
	RequestIDKey = "request_id"
)

// RequestID reuses the caller's X-Request-ID or assigns a new uuid
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}

		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)

		c.Next()
	}
}
