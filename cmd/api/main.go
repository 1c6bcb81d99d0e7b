// cmd/api/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/toyshop-storefront/internal/config"
	"github.com/your-org/toyshop-storefront/internal/domain/analytics"
	"github.com/your-org/toyshop-storefront/internal/domain/checkout"
	"github.com/your-org/toyshop-storefront/internal/domain/order"
	"github.com/your-org/toyshop-storefront/internal/domain/product"
	"github.com/your-org/toyshop-storefront/internal/domain/shop"
	"github.com/your-org/toyshop-storefront/internal/infrastructure/database/postgres"
	"github.com/your-org/toyshop-storefront/internal/infrastructure/database/redis"
	"github.com/your-org/toyshop-storefront/internal/infrastructure/storage"
	"github.com/your-org/toyshop-storefront/internal/interfaces/http"
	"github.com/your-org/toyshop-storefront/internal/interfaces/http/handlers"
	"github.com/your-org/toyshop-storefront/internal/interfaces/http/middleware"
	"github.com/your-org/toyshop-storefront/internal/interfaces/http/routes"
	"github.com/your-org/toyshop-storefront/internal/pkg/auth"
	"github.com/your-org/toyshop-storefront/internal/pkg/logger"
	"github.com/your-org/toyshop-storefront/internal/pkg/pdf"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logg := logger.New(cfg)
	logg.WithFields(logrus.Fields{
		"app":         cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	}).Info("Starting storefront")

	// Connect to the hosted backend
	db, err := postgres.NewConnection(cfg, logg)
	if err != nil {
		logg.WithError(err).Fatal("Failed to connect to backend")
	}
	defer db.Close()

	if cfg.IsDevelopment() {
		migration := postgres.NewMigration(db.GetDB(), logg)
		if err := migration.RunAutoMigrations(); err != nil {
			logg.WithError(err).Fatal("Database migration failed")
		}
		if err := migration.CreateIndexes(); err != nil {
			logg.WithError(err).Warn("Index creation failed")
		}
		if err := migration.SeedInitialData(); err != nil {
			logg.WithError(err).Warn("Data seeding failed")
		}
	}

	checks := []http.HealthCheck{{Name: "backend", Check: db.Health}}

	// Redis serves both the shop state and the rate limiter
	var redisClient *redis.Client
	var limiter middleware.Counter
	if cfg.UsesRedis() {
		redisClient, err = redis.NewConnection(cfg, logg)
		if err != nil {
			logg.WithError(err).Fatal("Failed to connect to Redis")
		}
		defer redisClient.Close()

		limiter = redisClient
		checks = append(checks, http.HealthCheck{Name: "redis", Check: redisClient.Health})
	}

	kv, closeStore, err := storage.Open(cfg, redisClient, logg)
	if err != nil {
		logg.WithError(err).Fatal("Failed to open shop storage")
	}
	defer closeStore()

	// Services
	catalog := product.NewService(product.NewRepository(db.GetDB()), cfg, logg)
	searchCache := shop.NewProductCache(catalog, cfg.Catalog.SearchCacheTTL, logg)
	sessions := shop.NewSessions(storage.PersisterFor(kv), searchCache, cfg.Session.IdleTimeout, cfg.Catalog.SearchLimit, logg)
	orders := order.NewService(order.NewRepository(db.GetDB()), logg)
	checkoutService := checkout.NewService(orders, logg)
	sessions.OnEvict(checkoutService.Forget)
	dashboard := analytics.NewDashboard(orders, logg)
	tokens := auth.NewJWTManager(cfg)
	authenticator := auth.NewAdminAuthenticator(cfg, tokens)
	if !authenticator.Enabled() {
		logg.Warn("ADMIN_EMAIL or ADMIN_PASSWORD_HASH not set; admin login is disabled")
	}

	cookie := handlers.NewSessionCookie(cfg)
	h := &routes.Handlers{
		Catalog:  handlers.NewCatalogHandler(catalog),
		Cart:     handlers.NewCartHandler(sessions, catalog, cookie, logg),
		Wishlist: handlers.NewWishlistHandler(sessions, catalog, cookie, logg),
		Checkout: handlers.NewCheckoutHandler(checkoutService, sessions, cookie, logg),
		Admin:    handlers.NewAdminHandler(authenticator, dashboard, orders, pdf.NewService(cfg), logg),
	}

	server := http.NewServer(cfg, logg, h, tokens, limiter, checks...)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			logg.WithError(err).Fatal("Failed to start HTTP server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logg.Info("Shutting down gracefully")

	// Give server 30 seconds to shutdown gracefully
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		logg.WithError(err).Error("Failed to shutdown HTTP server gracefully")
	}

	logg.Info("Server shutdown completed")
}
