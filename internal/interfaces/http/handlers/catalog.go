// internal/interfaces/http/handlers/catalog.go
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/toyshop-storefront/internal/domain/product"
)

// Catalog is the read side of the product service
type Catalog interface {
	FetchProducts(ctx context.Context, opts *product.FetchOptions) []product.Product
	NewestProducts(ctx context.Context, n int) []product.Product
	FetchProduct(ctx context.Context, id string) (*product.Product, error)
	FetchCategories(ctx context.Context) []product.Category
	FetchCollections(ctx context.Context) []product.Collection
	FetchBanners(ctx context.Context) []product.Banner
	FetchCharacters(ctx context.Context) []product.Character
	FetchPacks(ctx context.Context) []product.Pack
	FetchBlindBox(ctx context.Context, productID string) []product.BlindBox
	FetchTshirtInfo(ctx context.Context, productID string) product.TshirtInfo
	ProductsByCategory(ctx context.Context, slug string) product.LookupResult
	ProductsByCollection(ctx context.Context, slug string) product.LookupResult
	ProductsByCharacter(ctx context.Context, slug string) product.LookupResult
	ProductsByPack(ctx context.Context, packID string) product.LookupResult
}

const defaultNewest = 8

// CatalogHandler handles catalog endpoints. Read failures surface as empty
// lists with 200.
type CatalogHandler struct {
	catalog Catalog
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalog Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// GetProducts handles GET /products
func (h *CatalogHandler) GetProducts(c *gin.Context) {
	var opts product.FetchOptions
	if err := c.ShouldBindQuery(&opts); err != nil {
		badRequest(c, "Invalid query parameters", err)
		return
	}
	if opts.Limit < 0 || opts.Limit > 100 {
		opts.Limit = 0
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Products retrieved successfully",
		"data":    h.catalog.FetchProducts(c.Request.Context(), &opts),
	})
}

// GetNewestProducts handles GET /products/newest
func (h *CatalogHandler) GetNewestProducts(c *gin.Context) {
	n := defaultNewest
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 50 {
			n = l
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Products retrieved successfully",
		"data":    h.catalog.NewestProducts(c.Request.Context(), n),
	})
}

// GetProduct handles GET /products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	p, err := h.catalog.FetchProduct(c.Request.Context(), c.Param("id"))
	if errors.Is(err, product.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product retrieved successfully",
		"data":    p,
	})
}

// GetBlindBox handles GET /products/:id/blindbox
func (h *CatalogHandler) GetBlindBox(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Blind box levels retrieved successfully",
		"data":    h.catalog.FetchBlindBox(c.Request.Context(), c.Param("id")),
	})
}

// GetTshirtInfo handles GET /products/:id/tshirt
func (h *CatalogHandler) GetTshirtInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "T-shirt options retrieved successfully",
		"data":    h.catalog.FetchTshirtInfo(c.Request.Context(), c.Param("id")),
	})
}

// GetCategories handles GET /categories
func (h *CatalogHandler) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Categories retrieved successfully",
		"data":    h.catalog.FetchCategories(c.Request.Context()),
	})
}

// GetCategoryProducts handles GET /categories/:slug/products
func (h *CatalogHandler) GetCategoryProducts(c *gin.Context) {
	h.lookup(c, h.catalog.ProductsByCategory(c.Request.Context(), c.Param("slug")))
}

// GetCollections handles GET /collections
func (h *CatalogHandler) GetCollections(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Collections retrieved successfully",
		"data":    h.catalog.FetchCollections(c.Request.Context()),
	})
}

// GetCollectionProducts handles GET /collections/:slug/products
func (h *CatalogHandler) GetCollectionProducts(c *gin.Context) {
	h.lookup(c, h.catalog.ProductsByCollection(c.Request.Context(), c.Param("slug")))
}

// GetCharacters handles GET /characters
func (h *CatalogHandler) GetCharacters(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Characters retrieved successfully",
		"data":    h.catalog.FetchCharacters(c.Request.Context()),
	})
}

// GetCharacterProducts handles GET /characters/:slug/products
func (h *CatalogHandler) GetCharacterProducts(c *gin.Context) {
	h.lookup(c, h.catalog.ProductsByCharacter(c.Request.Context(), c.Param("slug")))
}

// GetPacks handles GET /packs
func (h *CatalogHandler) GetPacks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Packs retrieved successfully",
		"data":    h.catalog.FetchPacks(c.Request.Context()),
	})
}

// GetPackProducts handles GET /packs/:id/products
func (h *CatalogHandler) GetPackProducts(c *gin.Context) {
	h.lookup(c, h.catalog.ProductsByPack(c.Request.Context(), c.Param("id")))
}

// GetBanners handles GET /banners
func (h *CatalogHandler) GetBanners(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Banners retrieved successfully",
		"data":    h.catalog.FetchBanners(c.Request.Context()),
	})
}

func (h *CatalogHandler) lookup(c *gin.Context, result product.LookupResult) {
	c.JSON(http.StatusOK, gin.H{
		"message":  "Products retrieved successfully",
		"data":     result.Products,
		"strategy": result.Strategy,
	})
}
