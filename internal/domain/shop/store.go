// internal/domain/shop/store.go
package shop

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/your-org/toyshop-storefront/internal/domain/product"
)

var (
	// ErrInvalidQuantity is returned for quantities below one
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	// ErrLineNotFound is returned when a cart line key is unknown
	ErrLineNotFound = errors.New("cart line not found")
	// ErrInvalidProduct is returned when a product lacks an id or name
	ErrInvalidProduct = errors.New("product must have an id and a name")
)

// DefaultSearchLimit caps SearchProducts results
const DefaultSearchLimit = 5

// Store holds one visitor's cart, wishlist and checkout selection. Every cart or wishlist mutation is mirrored through the Persister.
// When the write fails the in-memory state is kept and ErrPersist is
// returned alongside the result.
type Store struct {
	mu          sync.Mutex
	persister   Persister
	newKey      func() string
	searchLimit int
	products    ProductSource

	cart     []CartItem
	wishlist []product.Product
	selected map[string]bool
}

// Option configures a Store
type Option func(*Store)

// WithKeyGenerator replaces the uuid line-key generator
func WithKeyGenerator(fn func() string) Option {
	return func(s *Store) { s.newKey = fn }
}

// WithSearchLimit sets the maximum number of search results
func WithSearchLimit(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.searchLimit = n
		}
	}
}

// WithProducts sets the products SearchProducts runs over
func WithProducts(src ProductSource) Option {
	return func(s *Store) { s.products = src }
}

// NewStore creates an empty store. A nil persister keeps state in memory only.
func NewStore(persister Persister, opts ...Option) *Store {
	s := &Store{
		persister:   persister,
		newKey:      func() string { return uuid.NewString() },
		searchLimit: DefaultSearchLimit,
		selected:    make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Cart returns a copy of the cart lines
func (s *Store) Cart() []CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartCopy()
}

// AddToCart adds quantity units of p. A multi-unit add folds into an
// existing single-unit line with the same product and choices; everything
// else becomes a new line.
func (s *Store) AddToCart(ctx context.Context, p product.Product, quantity int, c Customization, blindBox *BlindBoxSelection) (CartItem, error) {
	if quantity < 1 {
		return CartItem{}, ErrInvalidQuantity
	}
	if p.ID == "" || p.Name == "" {
		return CartItem{}, ErrInvalidProduct
	}
	c = c.normalized()
	if err := c.Validate(); err != nil {
		return CartItem{}, err
	}
	if blindBox != nil {
		bb := *blindBox
		if bb.Level == "" || bb.Quantity < 1 {
			return CartItem{}, fmt.Errorf("blind box selection requires a level and a quantity")
		}
		blindBox = &bb
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity > 1 {
		for i := range s.cart {
			line := &s.cart[i]
			if line.Product.ID == p.ID && line.Quantity == 1 &&
				line.Customization.Equal(c) && line.BlindBox.equal(blindBox) {
				line.Quantity += quantity
				return *line, s.saveCart(ctx)
			}
		}
	}

	item := CartItem{
		Key:           s.newKey(),
		Product:       Snapshot(p),
		Quantity:      quantity,
		Customization: c,
		BlindBox:      blindBox,
	}
	s.cart = append(s.cart, item)

	return item, s.saveCart(ctx)
}

// UpdateQuantity removes the line and re-adds it at the end of the cart under
// a new key with the new quantity. A selected line stays selected. A quantity
// of zero or less only removes the line.
func (s *Store) UpdateQuantity(ctx context.Context, key string, quantity int) (*CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(key)
	if idx < 0 {
		return nil, ErrLineNotFound
	}

	line := s.cart[idx]
	wasSelected := s.selected[key]
	s.cart = append(s.cart[:idx], s.cart[idx+1:]...)
	delete(s.selected, key)

	if quantity <= 0 {
		return nil, s.saveCart(ctx)
	}

	line.Key = s.newKey()
	line.Quantity = quantity
	s.cart = append(s.cart, line)
	if wasSelected {
		s.selected[line.Key] = true
	}
	return &line, s.saveCart(ctx)
}

// RemoveFromCart drops every line for productID
func (s *Store) RemoveFromCart(ctx context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.cart[:0]
	for _, line := range s.cart {
		if line.Product.ID == productID {
			delete(s.selected, line.Key)
			continue
		}
		kept = append(kept, line)
	}
	s.cart = kept

	return s.saveCart(ctx)
}

// RemoveLines drops the lines with the given keys
func (s *Store) RemoveLines(ctx context.Context, keys []string) error {
	drop := make(map[string]bool, len(keys))
	for _, k := range keys {
		drop[k] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.cart[:0]
	for _, line := range s.cart {
		if drop[line.Key] {
			delete(s.selected, line.Key)
			continue
		}
		kept = append(kept, line)
	}
	s.cart = kept

	return s.saveCart(ctx)
}

// ClearCart empties the cart and the checkout selection
func (s *Store) ClearCart(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart = nil
	s.selected = make(map[string]bool)
	return s.saveCart(ctx)
}

// SetSelectedCartItems marks the lines to check out. Unknown keys are
// ignored; the number of selected lines is returned.
func (s *Store) SetSelectedCartItems(keys []string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selected = make(map[string]bool, len(keys))
	for _, k := range keys {
		if s.indexOf(k) >= 0 {
			s.selected[k] = true
		}
	}
	return len(s.selected)
}

// ClearSelectedCartItems drops the checkout selection
func (s *Store) ClearSelectedCartItems() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = make(map[string]bool)
}

// SelectedCartItems returns the selected lines in cart order
func (s *Store) SelectedCartItems() []CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedLines()
}

// CheckoutItems returns the lines to check out: the selection when there is
// one, else the whole cart. whole reports which case applied.
func (s *Store) CheckoutItems() (items []CartItem, whole bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sel := s.selectedLines(); len(sel) > 0 {
		return sel, len(sel) == len(s.cart)
	}
	return s.cartCopy(), true
}

// Wishlist returns a copy of the wishlist
func (s *Store) Wishlist() []product.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]product.Product{}, s.wishlist...)
}

// AddToWishlist adds p unless it is already present. It reports whether the
// wishlist changed.
func (s *Store) AddToWishlist(ctx context.Context, p product.Product) (bool, error) {
	if p.ID == "" || p.Name == "" {
		return false, ErrInvalidProduct
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.wishlistIndex(p.ID) >= 0 {
		return false, nil
	}
	s.wishlist = append(s.wishlist, p)
	return true, s.saveWishlist(ctx)
}

// RemoveFromWishlist removes productID. It reports whether the wishlist
// changed.
func (s *Store) RemoveFromWishlist(ctx context.Context, productID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.wishlistIndex(productID)
	if idx < 0 {
		return false, nil
	}
	s.wishlist = append(s.wishlist[:idx], s.wishlist[idx+1:]...)
	return true, s.saveWishlist(ctx)
}

// ToggleWishlist adds p when absent and removes it when present. It returns
// whether p is in the wishlist afterwards.
func (s *Store) ToggleWishlist(ctx context.Context, p product.Product) (bool, error) {
	if p.ID == "" || p.Name == "" {
		return false, ErrInvalidProduct
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := s.wishlistIndex(p.ID); idx >= 0 {
		s.wishlist = append(s.wishlist[:idx], s.wishlist[idx+1:]...)
		return false, s.saveWishlist(ctx)
	}
	s.wishlist = append(s.wishlist, p)
	return true, s.saveWishlist(ctx)
}

// IsInWishlist reports wishlist membership
func (s *Store) IsInWishlist(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wishlistIndex(productID) >= 0
}

// Helpers; callers hold s.mu

func (s *Store) cartCopy() []CartItem {
	return append([]CartItem{}, s.cart...)
}

func (s *Store) indexOf(key string) int {
	for i := range s.cart {
		if s.cart[i].Key == key {
			return i
		}
	}
	return -1
}

func (s *Store) wishlistIndex(productID string) int {
	for i := range s.wishlist {
		if s.wishlist[i].ID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) selectedLines() []CartItem {
	if len(s.selected) == 0 {
		return nil
	}
	out := make([]CartItem, 0, len(s.selected))
	for _, line := range s.cart {
		if s.selected[line.Key] {
			out = append(out, line)
		}
	}
	return out
}
