// internal/domain/product/sample.go
package product

import (
	"context"
	"strings"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

// SampleProducts is the built-in catalog shown when the backend has nothing
// for a listing and the sample fallback is enabled
func SampleProducts() []Product {
	return []Product{
		{
			ID:          "sample-blindbox-1",
			Name:        "Mystery Bunny Blind Box",
			Price:       35,
			Images:      []string{"/images/sample/bunny-box.jpg"},
			Category:    "Blind Boxes",
			Collection:  "Spring Garden",
			Character:   "Bunny",
			IsNew:       true,
			StockStatus: StockInStock,
			Description: strPtr("One of twelve garden bunnies, chosen at random."),
		},
		{
			ID:            "sample-plush-1",
			Name:          "Sleepy Bear Plush",
			Price:         49,
			OriginalPrice: floatPtr(59),
			Images:        []string{"/images/sample/bear-plush.jpg"},
			Category:      "Plush",
			Collection:    "Cozy Night",
			Character:     "Bear",
			OnSale:        true,
			IsFeatured:    true,
			StockStatus:   StockInStock,
			Description:   strPtr("Soft bear plush, 30cm."),
		},
		{
			ID:          "sample-tshirt-1",
			Name:        "Bunny Crew T-Shirt",
			Price:       45,
			Images:      []string{"/images/sample/bunny-tee.jpg"},
			Category:    "T-Shirts",
			Collection:  "Spring Garden",
			Character:   "Bunny",
			StockStatus: StockInStock,
			Description: strPtr("Cotton tee with the bunny crew print."),
		},
		{
			ID:          "sample-pochette-1",
			Name:        "Bear Phone Pochette",
			Price:       39,
			Images:      []string{"/images/sample/bear-pochette.jpg"},
			Category:    "Pochettes",
			Collection:  "Cozy Night",
			Character:   "Bear",
			StockStatus: StockLowStock,
			Description: strPtr("Crossbody phone pouch, fits most models."),
		},
	}
}

// sampleStrategy filters the sample catalog with match
func sampleStrategy(match func(p Product) bool) Strategy {
	return Strategy{
		Name: "sample",
		Find: func(ctx context.Context) ([]Product, error) {
			var out []Product
			for _, p := range SampleProducts() {
				if match(p) {
					out = append(out, p)
				}
			}
			return out, nil
		},
	}
}

// matchesRef compares a product field with a slug or display name
func matchesRef(value, ref string) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	ref = strings.ToLower(strings.TrimSpace(ref))
	if value == "" || ref == "" {
		return false
	}
	return value == ref || value == humanize(ref) || strings.ReplaceAll(value, " ", "-") == ref
}
