// internal/domain/shop/catalog.go
package shop

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/toyshop-storefront/internal/domain/product"
)

// ProductLister lists the full catalog
type ProductLister interface {
	FetchProducts(ctx context.Context, opts *product.FetchOptions) []product.Product
}

// ProductSource supplies the products SearchProducts runs over. The returned
// slice is shared and must not be modified.
type ProductSource interface {
	Products(ctx context.Context) []product.Product
}

// ProductCache is one catalog snapshot shared by every session. It is
// refetched on the first read after the TTL has passed.
type ProductCache struct {
	catalog ProductLister
	ttl     time.Duration
	log     logrus.FieldLogger
	now     func() time.Time

	mu        sync.Mutex
	products  []product.Product
	fetchedAt time.Time
}

// NewProductCache creates an empty cache over catalog
func NewProductCache(catalog ProductLister, ttl time.Duration, log logrus.FieldLogger) *ProductCache {
	return &ProductCache{
		catalog: catalog,
		ttl:     ttl,
		log:     log.WithField("component", "product_cache"),
		now:     time.Now,
	}
}

// Products returns the snapshot, refetching it when stale. Concurrent
// callers wait for a single refetch.
func (c *ProductCache) Products(ctx context.Context) []product.Product {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if !c.fetchedAt.IsZero() && now.Sub(c.fetchedAt) < c.ttl {
		return c.products
	}

	c.products = c.catalog.FetchProducts(ctx, nil)
	c.fetchedAt = now
	c.log.WithField("products", len(c.products)).Debug("Search catalog refreshed")
	return c.products
}
