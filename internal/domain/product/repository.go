// internal/domain/product/repository.go
package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a single-row lookup matches nothing
var ErrNotFound = errors.New("not found")

// FetchOptions filters a product listing. Each set field adds one clause;
// zero values impose no constraint.
type FetchOptions struct {
	Category   string `form:"category"`
	Collection string `form:"collection"`
	Featured   *bool  `form:"featured"`
	New        *bool  `form:"new"`
	OnSale     *bool  `form:"on_sale"`
	Limit      int    `form:"limit"`
}

// Source is the read side of the remote backend
type Source interface {
	Products(ctx context.Context, opts *FetchOptions) ([]Product, error)
	Product(ctx context.Context, id string) (*Product, error)
	ProductsByField(ctx context.Context, field string, values ...string) ([]Product, error)
	ProductsByCategoryRef(ctx context.Context, ref string) ([]Product, error)
	ProductsByCollectionRef(ctx context.Context, ref string) ([]Product, error)
	ProductsMatchingText(ctx context.Context, text string) ([]Product, error)
	ProductsInPack(ctx context.Context, packID string) ([]Product, error)
	Categories(ctx context.Context) ([]Category, error)
	Collections(ctx context.Context) ([]Collection, error)
	Banners(ctx context.Context) ([]Banner, error)
	Characters(ctx context.Context) ([]Character, error)
	Packs(ctx context.Context) ([]Pack, error)
	Pack(ctx context.Context, id string) (*Pack, error)
	BlindBoxes(ctx context.Context, productID string) ([]BlindBox, error)
	TshirtOptions(ctx context.Context, productID string) (*TshirtOption, error)
	TshirtDetails(ctx context.Context, productID string) (*TshirtDetail, error)
}

// Repository reads catalog data from the hosted backend
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new catalog repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Fields that may be matched exactly by ProductsByField
var matchableFields = map[string]bool{
	"category":   true,
	"collection": true,
	"character":  true,
}

// Products lists products newest first, applying the given filters
func (r *Repository) Products(ctx context.Context, opts *FetchOptions) ([]Product, error) {
	query := r.db.WithContext(ctx).Model(&Product{})

	if opts != nil {
		if opts.Category != "" {
			query = query.Where("category = ?", opts.Category)
		}
		if opts.Collection != "" {
			query = query.Where("collection = ?", opts.Collection)
		}
		if opts.Featured != nil {
			query = query.Where("is_featured = ?", *opts.Featured)
		}
		if opts.New != nil {
			query = query.Where("is_new = ?", *opts.New)
		}
		if opts.OnSale != nil {
			query = query.Where("on_sale = ?", *opts.OnSale)
		}
		if opts.Limit > 0 {
			query = query.Limit(opts.Limit)
		}
	}

	var products []Product
	if err := query.Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	return products, nil
}

// Product fetches one product by id
func (r *Repository) Product(ctx context.Context, id string) (*Product, error) {
	var p Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product %s: %w", id, err)
	}
	return &p, nil
}

// ProductsByField matches one of the given values against a product column,
// case-insensitively
func (r *Repository) ProductsByField(ctx context.Context, field string, values ...string) ([]Product, error) {
	if !matchableFields[field] {
		return nil, fmt.Errorf("field %q cannot be matched", field)
	}

	lowered := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			lowered = append(lowered, strings.ToLower(v))
		}
	}
	if len(lowered) == 0 {
		return nil, nil
	}

	var products []Product
	err := r.db.WithContext(ctx).
		Where(fmt.Sprintf("LOWER(%s) IN ?", field), lowered).
		Order("created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products by %s: %w", field, err)
	}
	return products, nil
}

// ProductsByCategoryRef joins through the categories table, matching the
// category by slug or by name
func (r *Repository) ProductsByCategoryRef(ctx context.Context, ref string) ([]Product, error) {
	var products []Product
	err := r.db.WithContext(ctx).
		Joins("JOIN categories ON categories.id = products.category_id").
		Where("categories.slug = ? OR LOWER(categories.name) = ?", ref, strings.ToLower(humanize(ref))).
		Order("products.created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products for category %s: %w", ref, err)
	}
	return products, nil
}

// ProductsByCollectionRef resolves the collection row by slug, then matches
// products on the collection's display name
func (r *Repository) ProductsByCollectionRef(ctx context.Context, ref string) ([]Product, error) {
	var col Collection
	err := r.db.WithContext(ctx).
		Where("slug = ? OR LOWER(name) = ?", ref, strings.ToLower(humanize(ref))).
		First(&col).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve collection %s: %w", ref, err)
	}
	return r.ProductsByField(ctx, "collection", col.Name, col.Slug)
}

// likeEscaper makes LIKE wildcards in user text match literally
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// ProductsMatchingText runs a free-text substring match over name and
// description
func (r *Repository) ProductsMatchingText(ctx context.Context, text string) ([]Product, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	pattern := "%" + likeEscaper.Replace(strings.ToLower(text)) + "%"
	var products []Product
	err := r.db.WithContext(ctx).
		Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(COALESCE(description, '')) LIKE ? ESCAPE '\'`, pattern, pattern).
		Order("created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search products for %q: %w", text, err)
	}
	return products, nil
}

// ProductsInPack lists the products linked to a pack
func (r *Repository) ProductsInPack(ctx context.Context, packID string) ([]Product, error) {
	var products []Product
	err := r.db.WithContext(ctx).
		Joins("JOIN product_packs ON product_packs.product_id = products.id").
		Where("product_packs.pack_id = ?", packID).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products for pack %s: %w", packID, err)
	}
	return products, nil
}

// Categories lists all categories by name
func (r *Repository) Categories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	return categories, nil
}

// Collections lists all collections, newest first
func (r *Repository) Collections(ctx context.Context) ([]Collection, error) {
	var collections []Collection
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&collections).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch collections: %w", err)
	}
	return collections, nil
}

// Banners lists the active banners in display order
func (r *Repository) Banners(ctx context.Context) ([]Banner, error) {
	var banners []Banner
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC").
		Find(&banners).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch banners: %w", err)
	}
	return banners, nil
}

// Characters lists all characters by name
func (r *Repository) Characters(ctx context.Context) ([]Character, error) {
	var characters []Character
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&characters).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch characters: %w", err)
	}
	return characters, nil
}

// Packs lists all packs by name
func (r *Repository) Packs(ctx context.Context) ([]Pack, error) {
	var packs []Pack
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&packs).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch packs: %w", err)
	}
	return packs, nil
}

// Pack fetches one pack by id
func (r *Repository) Pack(ctx context.Context, id string) (*Pack, error) {
	var p Pack
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pack %s: %w", id, err)
	}
	return &p, nil
}

// BlindBoxes lists the blind-box levels of a product
func (r *Repository) BlindBoxes(ctx context.Context, productID string) ([]BlindBox, error) {
	var boxes []BlindBox
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("price ASC").
		Find(&boxes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch blind boxes for %s: %w", productID, err)
	}
	return boxes, nil
}

// TshirtOptions fetches the selectable options of a T-shirt product
func (r *Repository) TshirtOptions(ctx context.Context, productID string) (*TshirtOption, error) {
	var opt TshirtOption
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).First(&opt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tshirt options for %s: %w", productID, err)
	}
	return &opt, nil
}

// TshirtDetails fetches the descriptive content of a T-shirt product
func (r *Repository) TshirtDetails(ctx context.Context, productID string) (*TshirtDetail, error) {
	var detail TshirtDetail
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).First(&detail).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tshirt details for %s: %w", productID, err)
	}
	return &detail, nil
}

// humanize turns a route slug such as "blind-boxes" into "blind boxes"
func humanize(slug string) string {
	return strings.TrimSpace(strings.NewReplacer("-", " ", "_", " ").Replace(slug))
}
