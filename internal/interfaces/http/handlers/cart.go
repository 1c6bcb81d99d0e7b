// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/toyshop-storefront/internal/domain/checkout"
	"github.com/your-org/toyshop-storefront/internal/domain/product"
	"github.com/your-org/toyshop-storefront/internal/domain/shop"
)

// ProductFinder resolves the products added to a cart or wishlist
type ProductFinder interface {
	FetchProduct(ctx context.Context, id string) (*product.Product, error)
	FetchBlindBox(ctx context.Context, productID string) []product.BlindBox
}

// AddToCartRequest is the body of POST /cart/items
type AddToCartRequest struct {
	ProductID     string                  `json:"product_id" binding:"required"`
	Quantity      int                     `json:"quantity"`
	Customization shop.Customization      `json:"customization"`
	BlindBox      *shop.BlindBoxSelection `json:"blind_box,omitempty"`
}

// UpdateQuantityRequest is the body of PUT /cart/items/:key
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// SelectionRequest is the body of PUT /cart/selection
type SelectionRequest struct {
	Keys []string `json:"keys"`
}

// CartView is the cart as returned to the client
type CartView struct {
	Items     []shop.CartItem `json:"items"`
	ItemCount int             `json:"item_count"`
	Subtotal  float64         `json:"subtotal"`
	Selected  []string        `json:"selected"`
}

func cartView(store *shop.Store) CartView {
	items := store.Cart()
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	selected := []string{}
	for _, item := range store.SelectedCartItems() {
		selected = append(selected, item.Key)
	}
	return CartView{
		Items:     items,
		ItemCount: count,
		Subtotal:  checkout.Subtotal(items),
		Selected:  selected,
	}
}

// CartHandler handles cart endpoints
type CartHandler struct {
	sessions *shop.Sessions
	products ProductFinder
	cookie   SessionCookie
	log      logrus.FieldLogger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(sessions *shop.Sessions, products ProductFinder, cookie SessionCookie, log logrus.FieldLogger) *CartHandler {
	return &CartHandler{
		sessions: sessions,
		products: products,
		cookie:   cookie,
		log:      log.WithField("handler", "cart"),
	}
}

func (h *CartHandler) store(c *gin.Context) *shop.Store {
	return h.sessions.Open(c.Request.Context(), h.cookie.ID(c))
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    cartView(h.store(c)),
	})
}

// AddItem handles POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request data", err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	p, ok := resolveProduct(c, h.products, req.ProductID)
	if !ok {
		return
	}
	if req.BlindBox != nil {
		price, ok := blindBoxPrice(h.products.FetchBlindBox(c.Request.Context(), p.ID), req.BlindBox.Level)
		if !ok {
			badRequest(c, "Unknown blind box level", nil)
			return
		}
		if price > 0 {
			p.Price = price
		}
	}

	store := h.store(c)
	item, err := store.AddToCart(c.Request.Context(), *p, req.Quantity, req.Customization, req.BlindBox)
	if err != nil && !errors.Is(err, shop.ErrPersist) {
		badRequest(c, err.Error(), nil)
		return
	}

	respond(c, h.log, http.StatusCreated, "Item added to cart successfully", gin.H{
		"item": item,
		"cart": cartView(store),
	}, err)
}

// UpdateItem handles PUT /cart/items/:key. The line comes back under a new
// key; a quantity of zero removes it.
func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request data", err)
		return
	}

	store := h.store(c)
	item, err := store.UpdateQuantity(c.Request.Context(), c.Param("key"), req.Quantity)
	if errors.Is(err, shop.ErrLineNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Cart item not found",
		})
		return
	}

	respond(c, h.log, http.StatusOK, "Cart item updated successfully", gin.H{
		"item": item,
		"cart": cartView(store),
	}, err)
}

// RemoveItem handles DELETE /cart/items/:key
func (h *CartHandler) RemoveItem(c *gin.Context) {
	store := h.store(c)
	err := store.RemoveLines(c.Request.Context(), []string{c.Param("key")})
	respond(c, h.log, http.StatusOK, "Cart item removed successfully", cartView(store), err)
}

// RemoveProduct handles DELETE /cart/products/:id
func (h *CartHandler) RemoveProduct(c *gin.Context) {
	store := h.store(c)
	err := store.RemoveFromCart(c.Request.Context(), c.Param("id"))
	respond(c, h.log, http.StatusOK, "Product removed from cart successfully", cartView(store), err)
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	store := h.store(c)
	err := store.ClearCart(c.Request.Context())
	respond(c, h.log, http.StatusOK, "Cart cleared successfully", cartView(store), err)
}

// SetSelection handles PUT /cart/selection
func (h *CartHandler) SetSelection(c *gin.Context) {
	var req SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request data", err)
		return
	}

	store := h.store(c)
	n := store.SetSelectedCartItems(req.Keys)

	c.JSON(http.StatusOK, gin.H{
		"message":  "Selection updated successfully",
		"selected": n,
		"data":     cartView(store),
	})
}

// ClearSelection handles DELETE /cart/selection
func (h *CartHandler) ClearSelection(c *gin.Context) {
	store := h.store(c)
	store.ClearSelectedCartItems()

	c.JSON(http.StatusOK, gin.H{
		"message": "Selection cleared successfully",
		"data":    cartView(store),
	})
}

// resolveProduct fetches id and writes the error response when it cannot
func resolveProduct(c *gin.Context, products ProductFinder, id string) (*product.Product, bool) {
	p, err := products.FetchProduct(c.Request.Context(), id)
	if errors.Is(err, product.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": err.Error(),
		})
		return nil, false
	}
	return p, true
}

// blindBoxPrice returns the price of level. Products without configured
// levels accept any level at the product price.
func blindBoxPrice(levels []product.BlindBox, level string) (float64, bool) {
	if len(levels) == 0 {
		return 0, true
	}
	for _, l := range levels {
		if l.Level == level {
			return l.Price, true
		}
	}
	return 0, false
}
