package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/toyshop-storefront/internal/config"
	"github.com/your-org/toyshop-storefront/internal/domain/product"
	"github.com/your-org/toyshop-storefront/internal/domain/shop"
	"github.com/your-org/toyshop-storefront/internal/pkg/logger"
)

func exerciseKV(t *testing.T, kv KV) {
	ctx := context.Background()

	_, ok, err := kv.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set(ctx, "k", "one"))
	require.NoError(t, kv.Set(ctx, "k", "two"))

	v, ok, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "two", v)
}

func TestMemory(t *testing.T) {
	exerciseKV(t, NewMemory())
}

func TestSQLite_InMemory(t *testing.T) {
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer db.Close()

	exerciseKV(t, db)
}

func TestSQLite_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "shop.db")

	db, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, db.Set(ctx, "shop:s1:cart", "[]"))
	require.NoError(t, db.Close())

	db, err = OpenSQLite(path)
	require.NoError(t, err)
	defer db.Close()

	v, ok, err := db.Get(ctx, "shop:s1:cart")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)
}

func TestScoped_IsolatesSessions(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()

	alice := Scoped(mem, "alice")
	bob := Scoped(mem, "bob")

	require.NoError(t, alice.Set(ctx, shop.CartKey, `["a"]`))

	_, ok, err := bob.Get(ctx, shop.CartKey)
	require.NoError(t, err)
	assert.False(t, ok)

	raw, ok, _ := mem.Get(ctx, "shop:alice:cart")
	assert.True(t, ok)
	assert.Equal(t, `["a"]`, raw)
}

func TestStoreRoundTripThroughSQLite(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer db.Close()

	bear := product.Product{ID: "bear", Name: "Sleepy Bear", Price: 49}

	store := shop.NewStore(Scoped(db, "s1"))
	_, err = store.AddToCart(ctx, bear, 1, shop.NoCustomization(), nil)
	require.NoError(t, err)
	_, err = store.ToggleWishlist(ctx, bear)
	require.NoError(t, err)

	reloaded := shop.NewStore(Scoped(db, "s1"))
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, store.Cart(), reloaded.Cart())
	assert.Equal(t, store.Wishlist(), reloaded.Wishlist())
}

func TestOpen_SelectsDriver(t *testing.T) {
	log := logger.Discard()

	kv, closeFn, err := Open(&config.Config{Storage: config.StorageConfig{Driver: DriverMemory}}, nil, log)
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, kv)
	assert.NoError(t, closeFn())

	kv, closeFn, err = Open(&config.Config{Storage: config.StorageConfig{Driver: DriverSQLite, SQLitePath: ":memory:"}}, nil, log)
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, kv)
	assert.NoError(t, closeFn())

	_, _, err = Open(&config.Config{Storage: config.StorageConfig{Driver: DriverRedis}}, nil, log)
	assert.Error(t, err)

	_, _, err = Open(&config.Config{Storage: config.StorageConfig{Driver: "etcd"}}, nil, log)
	assert.Error(t, err)
}
