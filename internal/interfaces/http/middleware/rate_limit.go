// internal/interfaces/http/middleware/rate_limit.go
package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Counter increments a key that expires after window
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimit allows limit requests per client IP per minute
func RateLimit(counter Counter, limit int, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 {
			c.Next()
			return
		}

		key := "rate_limit:" + c.ClientIP()

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		current, err := counter.Incr(ctx, key, time.Minute)
		if err != nil {
			// If Redis is down, allow the request
			log.WithError(err).Warn("Rate limit check failed")
			c.Next()
			return
		}

		remaining := int64(limit) - current
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(time.Minute).Unix(), 10))

		if current > int64(limit) {
			c.Header("Retry-After", "60")
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"retry_after": 60,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
