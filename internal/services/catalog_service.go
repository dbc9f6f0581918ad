package services

import (
	"fmt"
	"sort"
	"strings"

	"essence/internal/models"
	"essence/internal/repositories"

	"github.com/google/uuid"
)

// Sort modes for catalog queries.
type SortMode string

const (
	SortByName    SortMode = "name"
	SortPriceLow  SortMode = "price-low"
	SortPriceHigh SortMode = "price-high"
	SortByBrand   SortMode = "brand"
)

// Filters is the advanced filter criteria. All fields are optional
// and combine independently.
type Filters struct {
	SearchTerm string          `json:"searchTerm"`
	Category   models.Category `json:"category"`
	Brand      string          `json:"brand"`
	MinPrice   float64         `json:"minPrice"`
	MaxPrice   float64         `json:"maxPrice"`
	InStock    *bool           `json:"inStock"`
	Featured   *bool           `json:"featured"`
	MinRating  float64         `json:"minRating"`
}

// Query is one catalog query. Advanced filter mode and basic
// search/category mode are mutually exclusive: activating one clears
// the other.
type Query struct {
	Search   string
	Category models.Category
	Advanced *Filters
	Sort     SortMode
}

// UseBasic puts the query in basic mode, clearing advanced filters.
func (q *Query) UseBasic(search string, category models.Category) {
	q.Search = search
	q.Category = category
	q.Advanced = nil
}

// UseAdvanced puts the query in advanced mode, clearing the basic
// search term and category.
func (q *Query) UseAdvanced(filters Filters) {
	q.Advanced = &filters
	q.Search = ""
	q.Category = ""
}

// RatingFunc resolves a product id to its average review rating.
type RatingFunc func(productID string) float64

// matchesText reports whether the product's name, description or
// brand contains term, case-insensitively.
func matchesText(p models.Product, term string) bool {
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Description), term) ||
		strings.Contains(strings.ToLower(p.Brand), term)
}

// FilterProducts applies the advanced criteria to products. It is a
// pure function; rating may be nil when no rating floor is set.
func FilterProducts(products []models.Product, f Filters, rating RatingFunc) []models.Product {
	filtered := make([]models.Product, 0, len(products))
	for _, p := range products {
		if f.SearchTerm != "" && !matchesText(p, f.SearchTerm) {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.Brand != "" && p.Brand != f.Brand {
			continue
		}
		if f.MinPrice > 0 && p.Price < f.MinPrice {
			continue
		}
		if f.MaxPrice > 0 && p.Price > f.MaxPrice {
			continue
		}
		if f.InStock != nil && p.InStock != *f.InStock {
			continue
		}
		if f.Featured != nil && p.Featured != *f.Featured {
			continue
		}
		if f.MinRating > 0 {
			if rating == nil || rating(p.ID) < f.MinRating {
				continue
			}
		}
		filtered = append(filtered, p)
	}
	return filtered
}

// SortProducts orders products in place by the given mode. An
// unknown mode leaves the order untouched. Missing brands sort as
// the empty string.
func SortProducts(products []models.Product, mode SortMode) {
	switch mode {
	case SortByName:
		sort.Slice(products, func(i, j int) bool {
			return products[i].Name < products[j].Name
		})
	case SortPriceLow:
		sort.Slice(products, func(i, j int) bool {
			return products[i].Price < products[j].Price
		})
	case SortPriceHigh:
		sort.Slice(products, func(i, j int) bool {
			return products[i].Price > products[j].Price
		})
	case SortByBrand:
		sort.Slice(products, func(i, j int) bool {
			return products[i].Brand < products[j].Brand
		})
	}
}

// CatalogService exposes catalog queries and the admin-only catalog
// mutation surface. Mutation reads, transforms and rewrites the full
// catalog array as one unit; last writer wins.
type CatalogService struct {
	catalog repositories.CatalogRepository
	reviews repositories.ReviewRepository
}

// NewCatalogService creates a CatalogService.
func NewCatalogService(catalog repositories.CatalogRepository, reviews repositories.ReviewRepository) *CatalogService {
	return &CatalogService{catalog: catalog, reviews: reviews}
}

// Products returns the full catalog.
func (s *CatalogService) Products() []models.Product {
	return s.catalog.Products()
}

// ProductByID returns one product by id.
func (s *CatalogService) ProductByID(id string) (*models.Product, error) {
	return s.catalog.ProductByID(id)
}

// Search runs q over the catalog and returns the filtered, sorted
// result.
func (s *CatalogService) Search(q Query) []models.Product {
	products := s.catalog.Products()

	var filtered []models.Product
	if q.Advanced != nil {
		filtered = FilterProducts(products, *q.Advanced, s.reviews.AverageRating)
	} else {
		filtered = FilterProducts(products, Filters{
			SearchTerm: q.Search,
			Category:   q.Category,
		}, nil)
	}

	SortProducts(filtered, q.Sort)
	return filtered
}

// CreateProduct adds a product to the catalog, assigning an id when
// none is given.
func (s *CatalogService) CreateProduct(product models.Product) (*models.Product, error) {
	if !product.Category.Valid() {
		return nil, fmt.Errorf("invalid product category: %s", product.Category)
	}
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	products := append(s.catalog.Products(), product)
	if err := s.catalog.SaveProducts(products); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct replaces the catalog entry with product's id.
func (s *CatalogService) UpdateProduct(product models.Product) error {
	if !product.Category.Valid() {
		return fmt.Errorf("invalid product category: %s", product.Category)
	}
	products := s.catalog.Products()
	for i := range products {
		if products[i].ID == product.ID {
			products[i] = product
			return s.catalog.SaveProducts(products)
		}
	}
	return fmt.Errorf("product with ID %s not found for update", product.ID)
}

// DeleteProduct removes the catalog entry with the given id.
func (s *CatalogService) DeleteProduct(id string) error {
	products := s.catalog.Products()
	for i := range products {
		if products[i].ID == id {
			products = append(products[:i], products[i+1:]...)
			return s.catalog.SaveProducts(products)
		}
	}
	return fmt.Errorf("product with ID %s not found for deletion", id)
}
