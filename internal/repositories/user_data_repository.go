package repositories

import (
	"fmt"
	"log"

	"essence/internal/models"
	"essence/pkg/kvstore"
)

// UserDataRepository persists the three per-user collections: cart,
// favorites and order history, each under a key namespaced by user
// id. Missing or corrupt values read as empty collections.
type UserDataRepository interface {
	Cart(userID string) []models.CartItem
	SaveCart(userID string, cart []models.CartItem) error
	Favorites(userID string) []string
	SaveFavorites(userID string, favorites []string) error
	Orders(userID string) []models.Order
	SaveOrders(userID string, orders []models.Order) error
}

// KVUserDataRepository is the kv-store implementation of
// UserDataRepository.
type KVUserDataRepository struct {
	store kvstore.Store
}

// NewUserDataRepository creates a KVUserDataRepository over store.
func NewUserDataRepository(store kvstore.Store) *KVUserDataRepository {
	return &KVUserDataRepository{store: store}
}

// Cart returns the stored cart for userID.
func (r *KVUserDataRepository) Cart(userID string) []models.CartItem {
	var cart []models.CartItem
	if _, err := kvstore.GetJSON(r.store, CartKey(userID), &cart); err != nil {
		log.Printf("cart: stored value for user %s unreadable: %v", userID, err)
		return nil
	}
	return cart
}

// SaveCart replaces the stored cart for userID.
func (r *KVUserDataRepository) SaveCart(userID string, cart []models.CartItem) error {
	if cart == nil {
		cart = []models.CartItem{}
	}
	if err := kvstore.SetJSON(r.store, CartKey(userID), cart); err != nil {
		return fmt.Errorf("failed to save cart for user %s: %w", userID, err)
	}
	return nil
}

// Favorites returns the stored favorite product ids for userID.
func (r *KVUserDataRepository) Favorites(userID string) []string {
	var favorites []string
	if _, err := kvstore.GetJSON(r.store, FavoritesKey(userID), &favorites); err != nil {
		log.Printf("favorites: stored value for user %s unreadable: %v", userID, err)
		return nil
	}
	return favorites
}

// SaveFavorites replaces the stored favorites for userID.
func (r *KVUserDataRepository) SaveFavorites(userID string, favorites []string) error {
	if favorites == nil {
		favorites = []string{}
	}
	if err := kvstore.SetJSON(r.store, FavoritesKey(userID), favorites); err != nil {
		return fmt.Errorf("failed to save favorites for user %s: %w", userID, err)
	}
	return nil
}

// Orders returns the stored order history for userID.
func (r *KVUserDataRepository) Orders(userID string) []models.Order {
	var orders []models.Order
	if _, err := kvstore.GetJSON(r.store, OrdersKey(userID), &orders); err != nil {
		log.Printf("orders: stored value for user %s unreadable: %v", userID, err)
		return nil
	}
	return orders
}

// SaveOrders replaces the stored order history for userID.
func (r *KVUserDataRepository) SaveOrders(userID string, orders []models.Order) error {
	if orders == nil {
		orders = []models.Order{}
	}
	if err := kvstore.SetJSON(r.store, OrdersKey(userID), orders); err != nil {
		return fmt.Errorf("failed to save orders for user %s: %w", userID, err)
	}
	return nil
}
