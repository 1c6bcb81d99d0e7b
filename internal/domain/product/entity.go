// internal/domain/product/entity.go
package product

import (
	"time"
)

// Stock status values used by the backend
const (
	StockInStock    = "in_stock"
	StockLowStock   = "low_stock"
	StockOutOfStock = "out_of_stock"
)

// Product represents a catalog product as stored in the backend
type Product struct {
	ID            string     `gorm:"primaryKey;size:64" json:"id"`
	Name          string     `gorm:"not null;size:255" json:"name"`
	Price         float64    `gorm:"not null" json:"price"`
	OriginalPrice *float64   `json:"original_price,omitempty"`
	Images        []string   `gorm:"serializer:json;type:jsonb" json:"images"`
	Category      string     `gorm:"size:255;index" json:"category"`
	CategoryID    *string    `gorm:"size:64;index" json:"category_id,omitempty"`
	Collection    string     `gorm:"size:255;index" json:"collection"`
	Character     string     `gorm:"size:255" json:"character,omitempty"`
	IsNew         bool       `gorm:"column:is_new;default:false" json:"is_new"`
	IsFeatured    bool       `gorm:"default:false" json:"is_featured"`
	OnSale        bool       `gorm:"default:false" json:"on_sale"`
	StockStatus   string     `gorm:"size:50;default:'in_stock'" json:"stock_status"`
	Description   *string    `gorm:"type:text" json:"description,omitempty"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
}

// Category represents a product category
type Category struct {
	ID          string `gorm:"primaryKey;size:64" json:"id"`
	Name        string `gorm:"not null;size:255" json:"name"`
	Slug        string `gorm:"size:255;index" json:"slug"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	Image       string `gorm:"size:500" json:"image,omitempty"`
}

// Collection represents a themed product collection
type Collection struct {
	ID          string     `gorm:"primaryKey;size:64" json:"id"`
	Name        string     `gorm:"not null;size:255" json:"name"`
	Slug        string     `gorm:"size:255;index" json:"slug"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	Image       string     `gorm:"size:500" json:"image,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

// Banner represents a home page banner
type Banner struct {
	ID        string `gorm:"primaryKey;size:64" json:"id"`
	Title     string `gorm:"size:255" json:"title"`
	Subtitle  string `gorm:"size:500" json:"subtitle,omitempty"`
	Image     string `gorm:"size:500" json:"image"`
	Link      string `gorm:"size:500" json:"link,omitempty"`
	SortOrder int    `gorm:"default:0" json:"sort_order"`
	IsActive  bool   `gorm:"default:true" json:"is_active"`
}

// Character represents a toy character line
type Character struct {
	ID          string `gorm:"primaryKey;size:64" json:"id"`
	Name        string `gorm:"not null;size:255" json:"name"`
	Slug        string `gorm:"size:255;index" json:"slug"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	Image       string `gorm:"size:500" json:"image,omitempty"`
}

// Pack represents a bundle of products sold together
type Pack struct {
	ID          string   `gorm:"primaryKey;size:64" json:"id"`
	Name        string   `gorm:"not null;size:255" json:"name"`
	Description string   `gorm:"type:text" json:"description,omitempty"`
	Image       string   `gorm:"size:500" json:"image,omitempty"`
	Price       *float64 `json:"price,omitempty"`
}

// ProductPack links products to packs
type ProductPack struct {
	PackID    string `gorm:"primaryKey;size:64" json:"pack_id"`
	ProductID string `gorm:"primaryKey;size:64" json:"product_id"`
}

// BlindBox describes a blind-box level offered for a product
type BlindBox struct {
	ID        string   `gorm:"primaryKey;size:64" json:"id"`
	ProductID string   `gorm:"size:64;index" json:"product_id"`
	Level     string   `gorm:"size:100" json:"level"`
	Colors    []string `gorm:"serializer:json;type:jsonb" json:"colors"`
	Price     float64  `json:"price"`
}

// TshirtOption lists the selectable variants of a T-shirt product
type TshirtOption struct {
	ID        string   `gorm:"primaryKey;size:64" json:"id"`
	ProductID string   `gorm:"size:64;index" json:"product_id"`
	Sizes     []string `gorm:"serializer:json;type:jsonb" json:"sizes"`
	Colors    []string `gorm:"serializer:json;type:jsonb" json:"colors"`
	Styles    []string `gorm:"serializer:json;type:jsonb" json:"styles"`
	Ages      []string `gorm:"serializer:json;type:jsonb" json:"ages"`
}

// TshirtDetail holds descriptive content for a T-shirt product
type TshirtDetail struct {
	ID        string `gorm:"primaryKey;size:64" json:"id"`
	ProductID string `gorm:"size:64;index" json:"product_id"`
	Material  string `gorm:"size:255" json:"material,omitempty"`
	Care      string `gorm:"type:text" json:"care,omitempty"`
	SizeGuide string `gorm:"type:text" json:"size_guide,omitempty"`
}

// TableName overrides
func (Product) TableName() string      { return "products" }
func (Category) TableName() string     { return "categories" }
func (Collection) TableName() string   { return "collections" }
func (Banner) TableName() string       { return "banners" }
func (Character) TableName() string    { return "characters" }
func (Pack) TableName() string         { return "packs" }
func (ProductPack) TableName() string  { return "product_packs" }
func (BlindBox) TableName() string     { return "blindbox" }
func (TshirtOption) TableName() string { return "tshirt_options" }
func (TshirtDetail) TableName() string { return "tshirt_details" }

// Business methods for Product

// DescriptionText returns the description or an empty string
func (p *Product) DescriptionText() string {
	if p.Description == nil {
		return ""
	}
	return *p.Description
}
