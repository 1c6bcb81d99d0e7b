// cmd/migrate/main.go manages the schema of a local development backend
package main

import (
	"flag"
	"log"

	"github.com/your-org/toyshop-storefront/internal/config"
	"github.com/your-org/toyshop-storefront/internal/infrastructure/database/postgres"
	"github.com/your-org/toyshop-storefront/internal/pkg/logger"
)

func main() {
	reset := flag.Bool("reset", false, "drop every storefront table before migrating")
	seed := flag.Bool("seed", true, "insert the sample catalog")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logg := logger.New(cfg)

	if cfg.IsProduction() {
		logg.Fatal("Refusing to migrate the production backend")
	}

	db, err := postgres.NewConnection(cfg, logg)
	if err != nil {
		logg.WithError(err).Fatal("Failed to connect to backend")
	}
	defer db.Close()

	migration := postgres.NewMigration(db.GetDB(), logg)

	if *reset {
		if err := migration.DropAllTables(); err != nil {
			logg.WithError(err).Fatal("Failed to drop tables")
		}
	}

	if err := migration.RunAutoMigrations(); err != nil {
		logg.WithError(err).Fatal("Database migration failed")
	}
	if err := migration.CreateIndexes(); err != nil {
		logg.WithError(err).Warn("Index creation failed")
	}

	if *seed {
		if err := migration.SeedInitialData(); err != nil {
			logg.WithError(err).Fatal("Data seeding failed")
		}
	}

	logg.Info("Migration completed")
}
