package product

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// sqlRecorder keeps the statements gorm would have sent
type sqlRecorder struct {
	gormlogger.Interface
	statements []string
}

func (r *sqlRecorder) LogMode(gormlogger.LogLevel) gormlogger.Interface { return r }

func (r *sqlRecorder) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	sql, _ := fc()
	r.statements = append(r.statements, sql)
}

func (r *sqlRecorder) last(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, r.statements)
	return r.statements[len(r.statements)-1]
}

func dryRunRepository(t *testing.T) (*Repository, *sqlRecorder) {
	t.Helper()
	rec := &sqlRecorder{Interface: gormlogger.Discard}
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=toyshop dbname=toyshop sslmode=disable",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               rec,
	})
	require.NoError(t, err)
	return NewRepository(db), rec
}

func boolPtr(b bool) *bool { return &b }

func TestRepository_ProductsAddsOneClausePerOption(t *testing.T) {
	const base = `SELECT * FROM "products"`
	const order = ` ORDER BY created_at DESC`

	tests := []struct {
		name string
		opts *FetchOptions
		want string
	}{
		{"nil options", nil, base + order},
		{"zero options", &FetchOptions{}, base + order},
		{"category", &FetchOptions{Category: "Plush"}, base + ` WHERE category = 'Plush'` + order},
		{"collection", &FetchOptions{Collection: "Night Garden"}, base + ` WHERE collection = 'Night Garden'` + order},
		{"featured", &FetchOptions{Featured: boolPtr(true)}, base + ` WHERE is_featured = true` + order},
		{"not featured", &FetchOptions{Featured: boolPtr(false)}, base + ` WHERE is_featured = false` + order},
		{"new", &FetchOptions{New: boolPtr(true)}, base + ` WHERE is_new = true` + order},
		{"on sale", &FetchOptions{OnSale: boolPtr(true)}, base + ` WHERE on_sale = true` + order},
		{"limit", &FetchOptions{Limit: 8}, base + order + ` LIMIT 8`},
		{"negative limit", &FetchOptions{Limit: -1}, base + order},
		{
			"everything",
			&FetchOptions{Category: "Plush", Collection: "Bunnies", Featured: boolPtr(true), New: boolPtr(false), OnSale: boolPtr(true), Limit: 4},
			base + ` WHERE category = 'Plush' AND collection = 'Bunnies' AND is_featured = true AND is_new = false AND on_sale = true` + order + ` LIMIT 4`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, rec := dryRunRepository(t)
			_, err := repo.Products(context.Background(), tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rec.last(t))
		})
	}
}

func TestRepository_ProductsByField(t *testing.T) {
	repo, rec := dryRunRepository(t)

	_, err := repo.ProductsByField(context.Background(), "category", " Plush ", "", "Blind Boxes")
	require.NoError(t, err)
	assert.Equal(t,
		`SELECT * FROM "products" WHERE LOWER(category) IN ('plush','blind boxes') ORDER BY created_at DESC`,
		rec.last(t))

	n := len(rec.statements)
	products, err := repo.ProductsByField(context.Background(), "collection", " ", "")
	require.NoError(t, err)
	assert.Nil(t, products)
	assert.Len(t, rec.statements, n)

	_, err = repo.ProductsByField(context.Background(), "price; DROP TABLE products", "x")
	assert.Error(t, err)
	assert.Len(t, rec.statements, n)
}

func TestRepository_ProductsMatchingTextEscapesWildcards(t *testing.T) {
	repo, rec := dryRunRepository(t)

	_, err := repo.ProductsMatchingText(context.Background(), "50%_OFF")
	require.NoError(t, err)
	assert.Equal(t,
		`SELECT * FROM "products" WHERE LOWER(name) LIKE '%50\%\_off%' ESCAPE '\' OR LOWER(COALESCE(description, '')) LIKE '%50\%\_off%' ESCAPE '\' ORDER BY created_at DESC`,
		rec.last(t))

	_, err = repo.ProductsMatchingText(context.Background(), "%")
	require.NoError(t, err)
	assert.Contains(t, rec.last(t), `LIKE '%\%%'`)
}
