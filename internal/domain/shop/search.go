package shop

import (
	"context"
	"strings"

	"github.com/your-org/toyshop-storefront/internal/domain/product"
)

// SearchProducts matches query case-insensitively against the name,
// description and category of the catalog snapshot. An empty query, or a
// store without a product source, matches nothing. At most the configured
// limit is returned.
func (s *Store) SearchProducts(ctx context.Context, query string) []product.Product {
	q := strings.ToLower(strings.TrimSpace(query))
	results := []product.Product{}
	if q == "" || s.products == nil {
		return results
	}

	for _, p := range s.products.Products(ctx) {
		if len(results) >= s.searchLimit {
			break
		}
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.DescriptionText()), q) ||
			strings.Contains(strings.ToLower(p.Category), q) {
			results = append(results, p)
		}
	}
	return results
}
