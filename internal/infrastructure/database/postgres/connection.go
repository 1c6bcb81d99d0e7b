// internal/infrastructure/database/postgres/connection.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/toyshop-storefront/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB wraps the gorm connection to the hosted backend
type DB struct {
	*gorm.DB
}

// NewConnection opens the backend connection and applies the pool settings
func NewConnection(cfg *config.Config, log logrus.FieldLogger) (*DB, error) {
	dsn := cfg.BackendDSN()

	logLevel := logger.Warn
	if cfg.App.Debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to backend: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.Backend.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Backend.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Backend.MaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping backend: %w", err)
	}

	log.Info("Backend connection established")

	return &DB{DB: db}, nil
}

// Health checks the backend connection
func (d *DB) Health() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

// Close closes the connection pool
func (d *DB) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetDB returns the gorm handle
func (d *DB) GetDB() *gorm.DB {
	return d.DB
}
