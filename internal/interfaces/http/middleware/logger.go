// internal/interfaces/http/middleware/logger.go
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Logger returns a gin.HandlerFunc that logs HTTP requests through log
func Logger(log logrus.FieldLogger) gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		entry := log.WithFields(logrus.Fields{
			"request_id":    param.Keys[RequestIDKey],
			"timestamp":     param.TimeStamp.Format(time.RFC3339),
			"method":        param.Method,
			"path":          param.Path,
			"status_code":   param.StatusCode,
			"latency":       param.Latency,
			"client_ip":     param.ClientIP,
			"user_agent":    param.Request.UserAgent(),
			"response_size": param.BodySize,
		})

		if param.ErrorMessage != "" {
			entry = entry.WithField("error", param.ErrorMessage)
		}

		// Log based on status code
		switch {
		case param.StatusCode >= 500:
			entry.Error("HTTP request completed with server error")
		case param.StatusCode >= 400:
			entry.Warn("HTTP request completed with client error")
		default:
			entry.Info("HTTP request completed successfully")
		}

		return ""
	})
}
