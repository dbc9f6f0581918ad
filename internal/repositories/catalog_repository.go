package repositories

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"essence/internal/models"
	"essence/pkg/kvstore"
)

// CatalogRepository loads and saves the product list. The whole
// catalog lives under one key as a JSON array; mutation rewrites the
// array as one unit, last writer wins.
type CatalogRepository interface {
	// Products returns the stored catalog, seeding the default
	// catalog when none is stored. It never fails: parse and quota
	// errors degrade to the default catalog in memory.
	Products() []models.Product
	// ProductByID returns the product with the given id.
	ProductByID(id string) (*models.Product, error)
	// SaveProducts replaces the stored catalog.
	SaveProducts(products []models.Product) error
}

// KVCatalogRepository is the kv-store implementation of
// CatalogRepository.
type KVCatalogRepository struct {
	store kvstore.Store
}

// NewCatalogRepository creates a KVCatalogRepository over store.
func NewCatalogRepository(store kvstore.Store) *KVCatalogRepository {
	return &KVCatalogRepository{store: store}
}

// Products returns the stored catalog if present and decodable as a
// list; otherwise it seeds the store with the default catalog and
// returns that. When the store is over quota it prunes disposable
// keys before giving up and serving the default from memory.
func (r *KVCatalogRepository) Products() []models.Product {
	var products []models.Product
	found, err := kvstore.GetJSON(r.store, KeyProducts, &products)
	if err != nil {
		log.Printf("catalog: stored products unreadable, using defaults: %v", err)
		r.pruneDisposableKeys()
		return DefaultCatalog()
	}
	if found {
		return products
	}

	products = DefaultCatalog()
	if err := kvstore.SetJSON(r.store, KeyProducts, products); err != nil {
		if errors.Is(err, kvstore.ErrQuotaExceeded) {
			r.pruneDisposableKeys()
			// One retry after pruning; failure here is non-fatal.
			err = kvstore.SetJSON(r.store, KeyProducts, products)
		}
		if err != nil {
			log.Printf("catalog: could not seed default products: %v", err)
		}
	}
	return products
}

// ProductByID returns the product with the given id.
func (r *KVCatalogRepository) ProductByID(id string) (*models.Product, error) {
	for _, p := range r.Products() {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("product with ID %s not found", id)
}

// SaveProducts replaces the stored catalog.
func (r *KVCatalogRepository) SaveProducts(products []models.Product) error {
	if err := kvstore.SetJSON(r.store, KeyProducts, products); err != nil {
		return fmt.Errorf("failed to save catalog: %w", err)
	}
	return nil
}

// pruneDisposableKeys removes keys the repository recognizes as
// temporary or cache data, freeing quota for the catalog.
func (r *KVCatalogRepository) pruneDisposableKeys() {
	for _, key := range r.store.Keys() {
		if strings.HasPrefix(key, "temp_") || strings.HasPrefix(key, "cache_") {
			r.store.Remove(key)
		}
	}
}
