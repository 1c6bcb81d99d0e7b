// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/toyshop-storefront/internal/interfaces/http/handlers"
	"github.com/your-org/toyshop-storefront/internal/interfaces/http/middleware"
	"github.com/your-org/toyshop-storefront/internal/pkg/auth"
)

// Handlers bundles every route handler
type Handlers struct {
	Catalog  *handlers.CatalogHandler
	Cart     *handlers.CartHandler
	Wishlist *handlers.WishlistHandler
	Checkout *handlers.CheckoutHandler
	Admin    *handlers.AdminHandler
}

// SetupCatalogRoutes sets up catalog and search routes
func SetupCatalogRoutes(rg *gin.RouterGroup, h *handlers.CatalogHandler, search gin.HandlerFunc) {
	products := rg.Group("/products")
	{
		products.GET("", h.GetProducts)
		products.GET("/newest", h.GetNewestProducts)
		products.GET("/:id", h.GetProduct)
		products.GET("/:id/blindbox", h.GetBlindBox)
		products.GET("/:id/tshirt", h.GetTshirtInfo)
	}

	rg.GET("/categories", h.GetCategories)
	rg.GET("/categories/:slug/products", h.GetCategoryProducts)
	rg.GET("/collections", h.GetCollections)
	rg.GET("/collections/:slug/products", h.GetCollectionProducts)
	rg.GET("/characters", h.GetCharacters)
	rg.GET("/characters/:slug/products", h.GetCharacterProducts)
	rg.GET("/packs", h.GetPacks)
	rg.GET("/packs/:id/products", h.GetPackProducts)
	rg.GET("/banners", h.GetBanners)
	rg.GET("/search", search)
}

// SetupCartRoutes sets up cart routes
func SetupCartRoutes(rg *gin.RouterGroup, h *handlers.CartHandler) {
	cart := rg.Group("/cart")
	{
		cart.GET("", h.GetCart)
		cart.DELETE("", h.ClearCart)
		cart.POST("/items", h.AddItem)
		cart.PUT("/items/:key", h.UpdateItem)
		cart.DELETE("/items/:key", h.RemoveItem)
		cart.DELETE("/products/:id", h.RemoveProduct)
		cart.PUT("/selection", h.SetSelection)
		cart.DELETE("/selection", h.ClearSelection)
	}
}

// SetupWishlistRoutes sets up wishlist routes
func SetupWishlistRoutes(rg *gin.RouterGroup, h *handlers.WishlistHandler) {
	wishlist := rg.Group("/wishlist")
	{
		wishlist.GET("", h.GetWishlist)
		wishlist.POST("", h.AddToWishlist)
		wishlist.POST("/toggle", h.ToggleWishlist)
		wishlist.GET("/:id", h.CheckWishlist)
		wishlist.DELETE("/:id", h.RemoveFromWishlist)
	}
}

// SetupCheckoutRoutes sets up checkout routes
func SetupCheckoutRoutes(rg *gin.RouterGroup, h *handlers.CheckoutHandler) {
	rg.GET("/checkout", h.GetCheckout)
	rg.POST("/checkout", h.Submit)
}

// SetupAdminRoutes sets up admin routes
func SetupAdminRoutes(rg *gin.RouterGroup, h *handlers.AdminHandler, tokens *auth.JWTManager) {
	admin := rg.Group("/admin")
	{
		admin.POST("/login", h.Login)

		// Protected admin endpoints
		protected := admin.Group("")
		protected.Use(middleware.AdminAuth(tokens))
		{
			protected.GET("/orders", h.GetOrders)
			protected.GET("/orders/analytics", h.GetAnalytics)
			protected.PUT("/orders/:id/status", h.UpdateStatus)
			protected.GET("/orders/:id/invoice", h.GetInvoice)
		}
	}
}

// SetupRoutes sets up every API route
func SetupRoutes(rg *gin.RouterGroup, h *Handlers, tokens *auth.JWTManager) {
	SetupCatalogRoutes(rg, h.Catalog, h.Wishlist.Search)
	SetupCartRoutes(rg, h.Cart)
	SetupWishlistRoutes(rg, h.Wishlist)
	SetupCheckoutRoutes(rg, h.Checkout)
	SetupAdminRoutes(rg, h.Admin, tokens)
}
