// internal/pkg/logger/logger.go
package logger

import (
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/toyshop-storefront/internal/config"
)

// New builds the application logger from the logging configuration
func New(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	// Set log format based on config
	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	}

	// Set log level
	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}

// Discard returns a logger that drops everything, for tests
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
