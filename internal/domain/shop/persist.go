// internal/domain/shop/persist.go
package shop

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/your-org/toyshop-storefront/internal/domain/product"
)

// Storage keys mirrored for every visitor
const (
	CartKey     = "cart"
	WishlistKey = "wishlist"
)

// ErrPersist wraps failures to mirror state into storage. The in-memory
// state has already been updated when it is returned.
var ErrPersist = errors.New("failed to persist shop state")

// Persister is the key/value side effect the store mirrors into
type Persister interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Load hydrates the cart and wishlist from the persister. Malformed content
// is reset to empty without error; only storage read failures are returned.
func (s *Store) Load(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}

	rawCart, okCart, err := s.persister.Get(ctx, CartKey)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", CartKey, err)
	}
	rawWishlist, okWishlist, err := s.persister.Get(ctx, WishlistKey)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", WishlistKey, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart = nil
	if okCart {
		s.cart = DecodeCart(rawCart)
	}
	s.wishlist = nil
	if okWishlist {
		s.wishlist = DecodeWishlist(rawWishlist)
	}
	s.selected = make(map[string]bool)

	return nil
}

// DecodeCart parses a stored cart. Anything that is not a JSON array yields
// an empty cart; entries that fail validation are dropped.
func DecodeCart(raw string) []CartItem {
	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return []CartItem{}
	}

	items := make([]CartItem, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for _, entry := range entries {
		var item CartItem
		if err := json.Unmarshal(entry, &item); err != nil {
			continue
		}
		if item.validate() != nil || seen[item.Key] {
			continue
		}
		item.Customization = item.Customization.normalized()
		seen[item.Key] = true
		items = append(items, item)
	}
	return items
}

// DecodeWishlist parses a stored wishlist with the same rules as DecodeCart
func DecodeWishlist(raw string) []product.Product {
	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return []product.Product{}
	}

	items := make([]product.Product, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for _, entry := range entries {
		var p product.Product
		if err := json.Unmarshal(entry, &p); err != nil {
			continue
		}
		if p.ID == "" || p.Name == "" || seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		items = append(items, p)
	}
	return items
}

// saveCart mirrors the cart; caller holds s.mu
func (s *Store) saveCart(ctx context.Context) error {
	if s.cart == nil {
		return s.save(ctx, CartKey, []CartItem{})
	}
	return s.save(ctx, CartKey, s.cart)
}

// saveWishlist mirrors the wishlist; caller holds s.mu
func (s *Store) saveWishlist(ctx context.Context) error {
	if s.wishlist == nil {
		return s.save(ctx, WishlistKey, []product.Product{})
	}
	return s.save(ctx, WishlistKey, s.wishlist)
}

func (s *Store) save(ctx context.Context, key string, v any) error {
	if s.persister == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", ErrPersist, key, err)
	}
	if err := s.persister.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrPersist, key, err)
	}
	return nil
}
