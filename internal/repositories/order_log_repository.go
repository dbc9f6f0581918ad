package repositories

import (
	"errors"
	"fmt"
	"log"

	"essence/internal/models"
	"essence/pkg/kvstore"
)

// ErrOrderNotFound is returned by UpdateStatus when no order in the
// log has the given id.
var ErrOrderNotFound = errors.New("order not found")

// OrderLogRepository persists the global append-only order log used
// by the admin dashboard. It is an independent projection of the same
// write that lands in the owning user's order list.
type OrderLogRepository interface {
	Orders() []models.Order
	Append(order models.Order) error
	UpdateStatus(orderID, status string) error
}

// KVOrderLogRepository is the kv-store implementation of
// OrderLogRepository.
type KVOrderLogRepository struct {
	store kvstore.Store
}

// NewOrderLogRepository creates a KVOrderLogRepository over store.
func NewOrderLogRepository(store kvstore.Store) *KVOrderLogRepository {
	return &KVOrderLogRepository{store: store}
}

// Orders returns the full order log, or an empty log when the stored
// value is missing or unreadable.
func (r *KVOrderLogRepository) Orders() []models.Order {
	var orders []models.Order
	if _, err := kvstore.GetJSON(r.store, KeyAllOrders, &orders); err != nil {
		log.Printf("orders: global log unreadable, treating as empty: %v", err)
		return nil
	}
	return orders
}

// Append adds order to the end of the log.
func (r *KVOrderLogRepository) Append(order models.Order) error {
	orders := append(r.Orders(), order)
	if err := kvstore.SetJSON(r.store, KeyAllOrders, orders); err != nil {
		return fmt.Errorf("failed to append to order log: %w", err)
	}
	return nil
}

// UpdateStatus sets the status of the order with the given id in the
// global log. The copy in the owning user's order list is not
// touched.
func (r *KVOrderLogRepository) UpdateStatus(orderID, status string) error {
	orders := r.Orders()
	for i := range orders {
		if orders[i].ID == orderID {
			orders[i].Status = status
			if err := kvstore.SetJSON(r.store, KeyAllOrders, orders); err != nil {
				return fmt.Errorf("failed to update order status: %w", err)
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
}
