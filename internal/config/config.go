// internal/config/config.go
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for our application
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Backend  BackendConfig
	Redis    RedisConfig
	Storage  StorageConfig
	Catalog  CatalogConfig
	Session  SessionConfig
	Admin    AdminConfig
	JWT      JWTConfig
	Security SecurityConfig
	Invoice  InvoiceConfig
	Logging  LoggingConfig
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string
	Version     string
	Environment string
	Debug       bool
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration
}

// BackendConfig points at the hosted Postgres backend that owns products,
// categories, collections and orders.
type BackendConfig struct {
	URL          string
	APIKey       string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

// RedisConfig contains Redis configuration
type RedisConfig struct {
	Host         string
	Port         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
}

// StorageConfig selects the key/value store that mirrors the shop state
type StorageConfig struct {
	Driver     string // redis, sqlite or memory
	SQLitePath string
	TTL        time.Duration
}

// CatalogConfig contains catalog lookup configuration
type CatalogConfig struct {
	SampleFallback bool
	SearchLimit    int
	// SearchCacheTTL is how long the shared search snapshot is reused
	SearchCacheTTL time.Duration
}

// SessionConfig contains visitor session configuration
type SessionConfig struct {
	CookieName   string
	CookieMaxAge int
	IdleTimeout  time.Duration
}

// AdminConfig contains the single admin account
type AdminConfig struct {
	Email        string
	PasswordHash string
}

// JWTConfig contains JWT token configuration
type JWTConfig struct {
	Secret            string
	AccessTokenExpiry time.Duration
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	RateLimitPerMinute int
	MaxBodyBytes       int64
	CORSAllowedOrigins []string
	CORSAllowedMethods []string
	CORSAllowedHeaders []string
}

// InvoiceConfig contains the company block printed on invoices
type InvoiceConfig struct {
	CompanyName    string
	CompanyAddress string
	CompanyPhone   string
	CompanyEmail   string
	CompanyWebsite string
	Currency       string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	config := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Toy Shop Storefront"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
			Debug:       getEnvAsBool("APP_DEBUG", true),
		},
		Server: ServerConfig{
			Port:           getEnv("APP_PORT", "8080"),
			ReadTimeout:    getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:   getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:    getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			RequestTimeout: getEnvAsDuration("SERVER_REQUEST_TIMEOUT", 30*time.Second),
		},
		Backend: BackendConfig{
			URL:          os.Getenv("BACKEND_URL"),
			APIKey:       os.Getenv("BACKEND_API_KEY"),
			MaxOpenConns: getEnvAsInt("BACKEND_MAX_OPEN_CONNS", 10),
			MaxIdleConns: getEnvAsInt("BACKEND_MAX_IDLE_CONNS", 2),
			MaxLifetime:  getEnvAsDuration("BACKEND_MAX_LIFETIME", 300*time.Second),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 2),
		},
		Storage: StorageConfig{
			Driver:     strings.ToLower(getEnv("STORAGE_DRIVER", "redis")),
			SQLitePath: getEnv("STORAGE_SQLITE_PATH", "data/shop.db"),
			TTL:        getEnvAsDuration("STORAGE_TTL", 30*24*time.Hour),
		},
		Catalog: CatalogConfig{
			SampleFallback: getEnvAsBool("CATALOG_SAMPLE_FALLBACK", false),
			SearchLimit:    getEnvAsInt("SEARCH_LIMIT", 5),
			SearchCacheTTL: getEnvAsDuration("SEARCH_CACHE_TTL", 5*time.Minute),
		},
		Session: SessionConfig{
			CookieName:   getEnv("SESSION_COOKIE", "session_id"),
			CookieMaxAge: getEnvAsInt("SESSION_COOKIE_MAX_AGE", 30*24*3600),
			IdleTimeout:  getEnvAsDuration("SESSION_IDLE_TIMEOUT", 2*time.Hour),
		},
		Admin: AdminConfig{
			Email:        getEnv("ADMIN_EMAIL", ""),
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		},
		JWT: JWTConfig{
			Secret:            getEnv("JWT_SECRET", "change-me-to-a-long-random-admin-token-secret"),
			AccessTokenExpiry: getEnvAsDuration("JWT_ACCESS_EXPIRE", 12*time.Hour),
		},
		Security: SecurityConfig{
			RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 120),
			MaxBodyBytes:       getEnvAsInt64("MAX_BODY_BYTES", 1<<20),
			CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
			CORSAllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			CORSAllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Accept", "Authorization"}),
		},
		Invoice: InvoiceConfig{
			CompanyName:    getEnv("COMPANY_NAME", "Toy Shop"),
			CompanyAddress: getEnv("COMPANY_ADDRESS", ""),
			CompanyPhone:   getEnv("COMPANY_PHONE", ""),
			CompanyEmail:   getEnv("COMPANY_EMAIL", ""),
			CompanyWebsite: getEnv("COMPANY_WEBSITE", ""),
			Currency:       getEnv("CURRENCY_SUFFIX", "DT"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	// The backend endpoint and key are the only hard requirements
	if c.Backend.URL == "" {
		return fmt.Errorf("BACKEND_URL is required")
	}
	if c.Backend.APIKey == "" {
		return fmt.Errorf("BACKEND_API_KEY is required")
	}
	if _, err := url.Parse(c.Backend.URL); err != nil {
		return fmt.Errorf("BACKEND_URL is not a valid URL: %w", err)
	}

	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters long")
	}

	switch c.Storage.Driver {
	case "redis":
		if c.Redis.Host == "" {
			return fmt.Errorf("REDIS_HOST is required when STORAGE_DRIVER=redis")
		}
	case "sqlite":
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("STORAGE_SQLITE_PATH is required when STORAGE_DRIVER=sqlite")
		}
	case "memory":
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER: %s", c.Storage.Driver)
	}

	if c.Catalog.SearchLimit <= 0 {
		return fmt.Errorf("SEARCH_LIMIT must be positive")
	}
	if c.Catalog.SearchCacheTTL <= 0 {
		return fmt.Errorf("SEARCH_CACHE_TTL must be positive")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("APP_PORT is required")
	}

	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// UsesRedis reports whether a Redis connection is needed
func (c *Config) UsesRedis() bool {
	return c.Storage.Driver == "redis"
}

// BackendDSN returns the backend connection string. The API key is used as
// the password when the URL does not carry one.
func (c *Config) BackendDSN() string {
	u, err := url.Parse(c.Backend.URL)
	if err != nil || u.Scheme == "" {
		return c.Backend.URL
	}

	if _, hasPassword := u.User.Password(); !hasPassword {
		username := "postgres"
		if u.User != nil && u.User.Username() != "" {
			username = u.User.Username()
		}
		u.User = url.UserPassword(username, c.Backend.APIKey)
	}

	return u.String()
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}
