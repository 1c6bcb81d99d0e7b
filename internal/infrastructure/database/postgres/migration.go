// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/your-org/toyshop-storefront/internal/domain/order"
	"github.com/your-org/toyshop-storefront/internal/domain/product"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Migration handles database migrations for local development databases.
// The hosted backend owns its schema in production.
type Migration struct {
	db  *gorm.DB
	log logrus.FieldLogger
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, log logrus.FieldLogger) *Migration {
	return &Migration{
		db:  db,
		log: log.WithField("component", "migration"),
	}
}

// Models lists every table the storefront reads or writes
func Models() []interface{} {
	return []interface{}{
		// Catalog
		&product.Category{},
		&product.Collection{},
		&product.Character{},
		&product.Banner{},
		&product.Product{},
		&product.Pack{},
		&product.ProductPack{},
		&product.BlindBox{},
		&product.TshirtOption{},
		&product.TshirtDetail{},

		// Orders
		&order.Order{},
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	m.log.Info("Running database auto-migrations")

	for _, model := range Models() {
		m.log.Debugf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	m.log.Info("Database auto-migrations completed")
	return nil
}

// CreateIndexes creates the indexes the lookups rely on
func (m *Migration) CreateIndexes() error {
	indexes := []string{
		// Case-insensitive field lookups
		"CREATE INDEX IF NOT EXISTS idx_products_category_lower ON products(LOWER(category))",
		"CREATE INDEX IF NOT EXISTS idx_products_collection_lower ON products(LOWER(collection))",
		"CREATE INDEX IF NOT EXISTS idx_products_character_lower ON products(LOWER(character))",
		"CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_products_flags ON products(is_featured, is_new, on_sale)",

		"CREATE INDEX IF NOT EXISTS idx_categories_slug ON categories(slug)",
		"CREATE INDEX IF NOT EXISTS idx_collections_slug ON collections(slug)",
		"CREATE INDEX IF NOT EXISTS idx_characters_slug ON characters(slug)",
		"CREATE INDEX IF NOT EXISTS idx_banners_active_order ON banners(is_active, sort_order)",

		"CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_status_created ON orders(status, created_at DESC)",
	}

	successCount := 0
	failCount := 0

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			m.log.WithError(err).Warn("Failed to create index")
			failCount++
		} else {
			successCount++
		}
	}

	m.log.WithFields(logrus.Fields{"created": successCount, "failed": failCount}).Info("Indexes created")
	return nil
}

// SeedInitialData inserts the sample catalog. Existing rows are left alone.
func (m *Migration) SeedInitialData() error {
	m.log.Info("Seeding initial data")

	if err := m.seedCategories(); err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}
	if err := m.seedCollections(); err != nil {
		return fmt.Errorf("failed to seed collections: %w", err)
	}
	if err := m.seedCharacters(); err != nil {
		return fmt.Errorf("failed to seed characters: %w", err)
	}
	if err := m.seedProducts(); err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}
	if err := m.seedBanners(); err != nil {
		return fmt.Errorf("failed to seed banners: %w", err)
	}

	m.log.Info("Initial data seeded")
	return nil
}

func (m *Migration) insertMissing(rows interface{}) error {
	return m.db.Clauses(clause.OnConflict{DoNothing: true}).Create(rows).Error
}

func (m *Migration) seedCategories() error {
	return m.insertMissing(&[]product.Category{
		{ID: "blind-boxes", Name: "Blind Boxes", Slug: "blind-boxes", Description: "Surprise figures, one at random"},
		{ID: "plush", Name: "Plush", Slug: "plush", Description: "Soft toys for every age"},
		{ID: "t-shirts", Name: "T-Shirts", Slug: "t-shirts", Description: "Printed tees for kids and adults"},
		{ID: "pochettes", Name: "Pochettes", Slug: "pochettes", Description: "Phone pouches with character prints"},
	})
}

func (m *Migration) seedCollections() error {
	return m.insertMissing(&[]product.Collection{
		{ID: "spring-garden", Name: "Spring Garden", Slug: "spring-garden"},
		{ID: "cozy-night", Name: "Cozy Night", Slug: "cozy-night"},
	})
}

func (m *Migration) seedCharacters() error {
	return m.insertMissing(&[]product.Character{
		{ID: "bunny", Name: "Bunny", Slug: "bunny"},
		{ID: "bear", Name: "Bear", Slug: "bear"},
	})
}

func (m *Migration) seedProducts() error {
	var productCount int64
	if err := m.db.Model(&product.Product{}).Count(&productCount).Error; err != nil {
		return err
	}
	if productCount > 0 {
		m.log.Debug("Products already exist")
		return nil
	}

	products := product.SampleProducts()
	for i := range products {
		products[i].ID = products[i].ID[len("sample-"):]
		categoryID := slugify(products[i].Category)
		products[i].CategoryID = &categoryID
	}
	return m.insertMissing(&products)
}

func (m *Migration) seedBanners() error {
	return m.insertMissing(&[]product.Banner{
		{ID: "spring", Title: "Spring Garden is here", Subtitle: "New bunnies in every box", Image: "/images/banners/spring.jpg", Link: "/collections/spring-garden", SortOrder: 1, IsActive: true},
		{ID: "cozy", Title: "Cozy Night sale", Subtitle: "Plush friends for bedtime", Image: "/images/banners/cozy.jpg", Link: "/collections/cozy-night", SortOrder: 2, IsActive: true},
	})
}

// DropAllTables drops every storefront table
func (m *Migration) DropAllTables() error {
	m.log.Warn("Dropping all database tables")

	models := Models()
	for i := len(models) - 1; i >= 0; i-- {
		if err := m.db.Migrator().DropTable(models[i]); err != nil {
			m.log.WithError(err).Warnf("Failed to drop table for %T", models[i])
		}
	}
	return nil
}

func slugify(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}
