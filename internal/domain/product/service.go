// internal/domain/product/service.go
package product

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/your-org/toyshop-storefront/internal/config"
)

// Service exposes the catalog to the rest of the application. Read failures
// are logged and turned into empty results, so callers cannot tell "backend
// down" from "no matches".
type Service struct {
	source         Source
	log            logrus.FieldLogger
	sampleFallback bool
}

// NewService creates a new catalog service
func NewService(source Source, cfg *config.Config, log logrus.FieldLogger) *Service {
	return &Service{
		source:         source,
		log:            log.WithField("component", "catalog"),
		sampleFallback: cfg.Catalog.SampleFallback,
	}
}

// FetchProducts lists products matching opts; nil opts lists everything
func (s *Service) FetchProducts(ctx context.Context, opts *FetchOptions) []Product {
	products, err := s.source.Products(ctx, opts)
	if err != nil {
		s.log.WithError(err).Error("Failed to fetch products")
		return []Product{}
	}
	if products == nil {
		products = []Product{}
	}
	return products
}

// NewestProducts returns the n most recently created products
func (s *Service) NewestProducts(ctx context.Context, n int) []Product {
	return s.FetchProducts(ctx, &FetchOptions{Limit: n})
}

// FetchProduct returns one product. ErrNotFound is returned for an unknown
// id; other failures are returned wrapped.
func (s *Service) FetchProduct(ctx context.Context, id string) (*Product, error) {
	p, err := s.source.Product(ctx, id)
	if err == nil {
		return p, nil
	}
	if errors.Is(err, ErrNotFound) && s.sampleFallback {
		for _, sp := range SampleProducts() {
			if sp.ID == id {
				sp := sp
				return &sp, nil
			}
		}
	}
	if !errors.Is(err, ErrNotFound) {
		s.log.WithError(err).WithField("product_id", id).Error("Failed to fetch product")
	}
	return nil, err
}

// FetchCategories lists categories
func (s *Service) FetchCategories(ctx context.Context) []Category {
	categories, err := s.source.Categories(ctx)
	if err != nil {
		s.log.WithError(err).Error("Failed to fetch categories")
		return []Category{}
	}
	return nonNil(categories)
}

// FetchCollections lists collections
func (s *Service) FetchCollections(ctx context.Context) []Collection {
	collections, err := s.source.Collections(ctx)
	if err != nil {
		s.log.WithError(err).Error("Failed to fetch collections")
		return []Collection{}
	}
	return nonNil(collections)
}

// FetchBanners lists the active banners
func (s *Service) FetchBanners(ctx context.Context) []Banner {
	banners, err := s.source.Banners(ctx)
	if err != nil {
		s.log.WithError(err).Error("Failed to fetch banners")
		return []Banner{}
	}
	return nonNil(banners)
}

// FetchCharacters lists characters
func (s *Service) FetchCharacters(ctx context.Context) []Character {
	characters, err := s.source.Characters(ctx)
	if err != nil {
		s.log.WithError(err).Error("Failed to fetch characters")
		return []Character{}
	}
	return nonNil(characters)
}

// FetchPacks lists packs
func (s *Service) FetchPacks(ctx context.Context) []Pack {
	packs, err := s.source.Packs(ctx)
	if err != nil {
		s.log.WithError(err).Error("Failed to fetch packs")
		return []Pack{}
	}
	return nonNil(packs)
}

// FetchBlindBox lists the blind-box levels for a product
func (s *Service) FetchBlindBox(ctx context.Context, productID string) []BlindBox {
	boxes, err := s.source.BlindBoxes(ctx, productID)
	if err != nil {
		s.log.WithError(err).WithField("product_id", productID).Error("Failed to fetch blind box levels")
		return []BlindBox{}
	}
	return nonNil(boxes)
}

// TshirtInfo bundles the options and details of a T-shirt product
type TshirtInfo struct {
	Options *TshirtOption `json:"options"`
	Details *TshirtDetail `json:"details"`
}

// FetchTshirtInfo returns options and details for a T-shirt; missing parts
// are left nil
func (s *Service) FetchTshirtInfo(ctx context.Context, productID string) TshirtInfo {
	var info TshirtInfo

	opts, err := s.source.TshirtOptions(ctx, productID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		s.log.WithError(err).WithField("product_id", productID).Error("Failed to fetch tshirt options")
	}
	info.Options = opts

	details, err := s.source.TshirtDetails(ctx, productID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		s.log.WithError(err).WithField("product_id", productID).Error("Failed to fetch tshirt details")
	}
	info.Details = details

	return info
}

// ProductsByCategory finds the products of a category route
func (s *Service) ProductsByCategory(ctx context.Context, slug string) LookupResult {
	chain := Chain{
		{Name: "category-field", Find: func(ctx context.Context) ([]Product, error) {
			return s.source.ProductsByField(ctx, "category", slug, humanize(slug))
		}},
		{Name: "category-id", Find: func(ctx context.Context) ([]Product, error) {
			return s.source.ProductsByCategoryRef(ctx, slug)
		}},
		{Name: "text-match", Find: func(ctx context.Context) ([]Product, error) {
			return s.source.ProductsMatchingText(ctx, humanize(slug))
		}},
	}
	chain = s.withSample(chain, func(p Product) bool { return matchesRef(p.Category, slug) })

	return s.run(ctx, chain, "category", slug)
}

// ProductsByCollection finds the products of a collection route
func (s *Service) ProductsByCollection(ctx context.Context, slug string) LookupResult {
	chain := Chain{
		{Name: "collection-field", Find: func(ctx context.Context) ([]Product, error) {
			return s.source.ProductsByField(ctx, "collection", slug, humanize(slug))
		}},
		{Name: "collection-ref", Find: func(ctx context.Context) ([]Product, error) {
			return s.source.ProductsByCollectionRef(ctx, slug)
		}},
		{Name: "text-match", Find: func(ctx context.Context) ([]Product, error) {
			return s.source.ProductsMatchingText(ctx, humanize(slug))
		}},
	}
	chain = s.withSample(chain, func(p Product) bool { return matchesRef(p.Collection, slug) })

	return s.run(ctx, chain, "collection", slug)
}

// ProductsByCharacter finds the products of a character route
func (s *Service) ProductsByCharacter(ctx context.Context, slug string) LookupResult {
	chain := Chain{
		{Name: "character-field", Find: func(ctx context.Context) ([]Product, error) {
			return s.source.ProductsByField(ctx, "character", slug, humanize(slug))
		}},
		{Name: "text-match", Find: func(ctx context.Context) ([]Product, error) {
			return s.source.ProductsMatchingText(ctx, humanize(slug))
		}},
	}
	chain = s.withSample(chain, func(p Product) bool { return matchesRef(p.Character, slug) })

	return s.run(ctx, chain, "character", slug)
}

// ProductsByPack finds the products bundled in a pack
func (s *Service) ProductsByPack(ctx context.Context, packID string) LookupResult {
	chain := Chain{
		{Name: "pack-link", Find: func(ctx context.Context) ([]Product, error) {
			return s.source.ProductsInPack(ctx, packID)
		}},
		{Name: "pack-name", Find: func(ctx context.Context) ([]Product, error) {
			pack, err := s.source.Pack(ctx, packID)
			if errors.Is(err, ErrNotFound) {
				return nil, nil
			}
			if err != nil {
				return nil, err
			}
			return s.source.ProductsMatchingText(ctx, pack.Name)
		}},
	}
	chain = s.withSample(chain, func(p Product) bool { return true })

	return s.run(ctx, chain, "pack", packID)
}

func (s *Service) withSample(chain Chain, match func(Product) bool) Chain {
	if !s.sampleFallback {
		return chain
	}
	return append(chain, sampleStrategy(match))
}

func (s *Service) run(ctx context.Context, chain Chain, kind, ref string) LookupResult {
	log := s.log.WithFields(logrus.Fields{"lookup": kind, "ref": ref})
	result := chain.Run(ctx, log)
	if result.Strategy == "" {
		log.Debug("No products found by any lookup strategy")
	} else {
		log.WithField("strategy", result.Strategy).Debug("Products resolved")
	}
	return result
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
