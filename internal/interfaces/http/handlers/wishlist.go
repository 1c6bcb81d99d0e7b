// internal/interfaces/http/handlers/wishlist.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/toyshop-storefront/internal/domain/shop"
)

// WishlistRequest is the body of POST /wishlist and POST /wishlist/toggle
type WishlistRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

// WishlistHandler handles wishlist and search endpoints
type WishlistHandler struct {
	sessions *shop.Sessions
	products ProductFinder
	cookie   SessionCookie
	log      logrus.FieldLogger
}

// NewWishlistHandler creates a new wishlist handler
func NewWishlistHandler(sessions *shop.Sessions, products ProductFinder, cookie SessionCookie, log logrus.FieldLogger) *WishlistHandler {
	return &WishlistHandler{
		sessions: sessions,
		products: products,
		cookie:   cookie,
		log:      log.WithField("handler", "wishlist"),
	}
}

func (h *WishlistHandler) store(c *gin.Context) *shop.Store {
	return h.sessions.Open(c.Request.Context(), h.cookie.ID(c))
}

// GetWishlist handles GET /wishlist
func (h *WishlistHandler) GetWishlist(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Wishlist retrieved successfully",
		"data":    h.store(c).Wishlist(),
	})
}

// AddToWishlist handles POST /wishlist. Adding a product already present is
// a no-op.
func (h *WishlistHandler) AddToWishlist(c *gin.Context) {
	var req WishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request data", err)
		return
	}

	p, ok := resolveProduct(c, h.products, req.ProductID)
	if !ok {
		return
	}

	store := h.store(c)
	added, err := store.AddToWishlist(c.Request.Context(), *p)

	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	respond(c, h.log, status, "Item added to wishlist successfully", store.Wishlist(), err)
}

// ToggleWishlist handles POST /wishlist/toggle
func (h *WishlistHandler) ToggleWishlist(c *gin.Context) {
	var req WishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request data", err)
		return
	}

	store := h.store(c)
	ctx := c.Request.Context()

	var (
		in  bool
		err error
	)
	// Removing must work even if the product has since left the catalog
	if store.IsInWishlist(req.ProductID) {
		_, err = store.RemoveFromWishlist(ctx, req.ProductID)
	} else {
		p, ok := resolveProduct(c, h.products, req.ProductID)
		if !ok {
			return
		}
		in, err = store.ToggleWishlist(ctx, *p)
	}

	respond(c, h.log, http.StatusOK, "Wishlist updated successfully", gin.H{
		"in_wishlist": in,
		"wishlist":    store.Wishlist(),
	}, err)
}

// CheckWishlist handles GET /wishlist/:id
func (h *WishlistHandler) CheckWishlist(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Wishlist status retrieved successfully",
		"data": gin.H{
			"product_id":  c.Param("id"),
			"in_wishlist": h.store(c).IsInWishlist(c.Param("id")),
		},
	})
}

// RemoveFromWishlist handles DELETE /wishlist/:id. Removing an absent
// product is a no-op.
func (h *WishlistHandler) RemoveFromWishlist(c *gin.Context) {
	store := h.store(c)
	removed, err := store.RemoveFromWishlist(c.Request.Context(), c.Param("id"))

	respond(c, h.log, http.StatusOK, "Item removed from wishlist successfully", gin.H{
		"removed":  removed,
		"wishlist": store.Wishlist(),
	}, err)
}

// Search handles GET /search?q=
func (h *WishlistHandler) Search(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Search completed successfully",
		"data":    h.store(c).SearchProducts(c.Request.Context(), c.Query("q")),
	})
}
