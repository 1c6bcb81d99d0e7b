// internal/domain/product/lookup.go
package product

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Strategy is one named way of finding products
type Strategy struct {
	Name string
	Find func(ctx context.Context) ([]Product, error)
}

// Chain is an ordered list of strategies tried until one yields products
type Chain []Strategy

// LookupResult is the outcome of running a chain
type LookupResult struct {
	Products []Product `json:"products"`
	Strategy string    `json:"strategy,omitempty"`
}

// Run evaluates the strategies in order and returns the first non-empty
// result. A failing strategy is logged and skipped.
func (c Chain) Run(ctx context.Context, log logrus.FieldLogger) LookupResult {
	for _, s := range c {
		if err := ctx.Err(); err != nil {
			log.WithError(err).Warn("Product lookup cancelled")
			break
		}

		products, err := s.Find(ctx)
		if err != nil {
			log.WithError(err).WithField("strategy", s.Name).Warn("Product lookup strategy failed")
			continue
		}
		if len(products) > 0 {
			return LookupResult{Products: products, Strategy: s.Name}
		}
	}

	return LookupResult{Products: []Product{}}
}
