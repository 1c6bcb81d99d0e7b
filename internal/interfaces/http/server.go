// internal/interfaces/http/server.go
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/toyshop-storefront/internal/config"
	"github.com/your-org/toyshop-storefront/internal/interfaces/http/middleware"
	"github.com/your-org/toyshop-storefront/internal/interfaces/http/routes"
	"github.com/your-org/toyshop-storefront/internal/pkg/auth"
)

// HealthCheck is a named dependency check reported by /health
type HealthCheck struct {
	Name  string
	Check func() error
}

// Server represents the HTTP server
type Server struct {
	config     *config.Config
	log        logrus.FieldLogger
	gin        *gin.Engine
	httpServer *http.Server
	handlers   *routes.Handlers
	tokens     *auth.JWTManager
	limiter    middleware.Counter
	checks     []HealthCheck
	startedAt  time.Time
}

// NewServer creates a new HTTP server instance. A nil limiter disables rate
// limiting.
func NewServer(cfg *config.Config, log logrus.FieldLogger, h *routes.Handlers, tokens *auth.JWTManager, limiter middleware.Counter, checks ...HealthCheck) *Server {
	return &Server{
		config:   cfg,
		log:      log,
		handlers: h,
		tokens:   tokens,
		limiter:  limiter,
		checks:   checks,
	}
}

// Handler builds the gin engine with middleware and routes
func (s *Server) Handler() http.Handler {
	if s.gin != nil {
		return s.gin
	}

	s.gin = gin.New()
	s.setupMiddleware()
	s.setupRoutes()
	return s.gin
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	// Set Gin mode based on environment
	if s.config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	s.httpServer = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.Handler(),
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}
	s.startedAt = time.Now()

	s.log.WithFields(logrus.Fields{
		"port":     s.config.Server.Port,
		"api_base": fmt.Sprintf("http://localhost:%s/api/v1", s.config.Server.Port),
	}).Info("HTTP server starting")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	s.log.Info("Shutting down HTTP server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.log.Info("HTTP server stopped gracefully")
	return nil
}

// setupMiddleware configures all middleware for the server
func (s *Server) setupMiddleware() {
	s.gin.Use(gin.Recovery())
	s.gin.Use(middleware.RequestID())
	s.gin.Use(middleware.Logger(s.log))
	s.gin.Use(middleware.CORS(s.config))
	s.gin.Use(middleware.SecurityHeaders(s.config.App.Name, s.config.IsProduction()))

	if s.limiter != nil {
		s.gin.Use(middleware.RateLimit(s.limiter, s.config.Security.RateLimitPerMinute, s.log))
	}

	s.gin.Use(middleware.RequestSizeLimit(s.config.Security.MaxBodyBytes))
	s.gin.Use(middleware.Timeout(s.config.Server.RequestTimeout))
}

// setupRoutes configures all routes for the server
func (s *Server) setupRoutes() {
	s.gin.GET("/health", s.healthCheck)
	s.gin.GET("/ready", s.readinessCheck)

	apiV1 := s.gin.Group("/api/v1")
	routes.SetupRoutes(apiV1, s.handlers, s.tokens)

	if s.config.IsDevelopment() {
		s.gin.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"message":     s.config.App.Name,
				"version":     s.config.App.Version,
				"environment": s.config.App.Environment,
				"health":      "/health",
				"endpoints": gin.H{
					"products": "/api/v1/products",
					"search":   "/api/v1/search",
					"cart":     "/api/v1/cart",
					"wishlist": "/api/v1/wishlist",
					"checkout": "/api/v1/checkout",
					"admin":    "/api/v1/admin",
				},
			})
		})
	}
}

// healthCheck runs every dependency check
func (s *Server) healthCheck(c *gin.Context) {
	for _, check := range s.checks {
		if err := check.Check(); err != nil {
			s.log.WithError(err).WithField("dependency", check.Name).Warn("Health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  check.Name + " ping failed",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"version":     s.config.App.Version,
		"environment": s.config.App.Environment,
	})
}

// readinessCheck handles readiness check requests
func (s *Server) readinessCheck(c *gin.Context) {
	uptime := time.Duration(0)
	if !s.startedAt.IsZero() {
		uptime = time.Since(s.startedAt).Round(time.Second)
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"timestamp": time.Now().UTC(),
		"uptime":    uptime.String(),
	})
}
