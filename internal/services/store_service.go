package services

import (
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"essence/internal/models"
	"essence/internal/repositories"
)

// OrderEventPublisher publishes order lifecycle events to an external
// broker. A nil publisher disables publication.
type OrderEventPublisher interface {
	PublishOrderCreated(order models.Order) error
}

// StoreService operates on the per-user mutable collections: cart line
// items, favorite product ids and order history. Every operation is
// scoped to an explicit user id so concurrent sessions never see each
// other's data. Mutations are read-modify-write cycles over the store,
// serialized by a single mutex; persistence failures are logged and
// the mutation is lost rather than surfaced.
type StoreService struct {
	data      repositories.UserDataRepository
	orderLog  repositories.OrderLogRepository
	publisher OrderEventPublisher

	mu sync.Mutex
}

// NewStoreService creates a StoreService. publisher may be nil.
func NewStoreService(data repositories.UserDataRepository, orderLog repositories.OrderLogRepository, publisher OrderEventPublisher) *StoreService {
	return &StoreService{
		data:      data,
		orderLog:  orderLog,
		publisher: publisher,
	}
}

// Cart returns the user's cart.
func (s *StoreService) Cart(userID string) []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Cart(userID)
}

// Favorites returns the user's favorite product ids.
func (s *StoreService) Favorites(userID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Favorites(userID)
}

// Orders returns the user's order history.
func (s *StoreService) Orders(userID string) []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Orders(userID)
}

// Subtotal returns the sum of all cart line totals for the user.
func (s *StoreService) Subtotal(userID string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cartSubtotal(s.data.Cart(userID))
}

func cartSubtotal(cart []models.CartItem) float64 {
	var subtotal float64
	for _, item := range cart {
		subtotal += item.LineTotal()
	}
	return subtotal
}

// AddToCart adds quantity units of product to the user's cart. When
// the product already has a cart line its quantity is incremented;
// there is no upper bound on quantity.
func (s *StoreService) AddToCart(userID string, product models.Product, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.data.Cart(userID)
	for i := range cart {
		if cart[i].Product.ID == product.ID {
			cart[i].Quantity += quantity
			s.persistCart(userID, cart)
			return
		}
	}
	cart = append(cart, models.CartItem{Product: product, Quantity: quantity})
	s.persistCart(userID, cart)
}

// RemoveFromCart removes the line for productID from the user's cart.
// Removing an absent id is a no-op.
func (s *StoreService) RemoveFromCart(userID, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLine(userID, productID)
}

func (s *StoreService) removeLine(userID, productID string) {
	cart := s.data.Cart(userID)
	for i := range cart {
		if cart[i].Product.ID == productID {
			cart = append(cart[:i], cart[i+1:]...)
			s.persistCart(userID, cart)
			return
		}
	}
}

// UpdateCartQuantity sets the quantity for productID in the user's
// cart. A quantity of zero or less removes the line.
func (s *StoreService) UpdateCartQuantity(userID, productID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		s.removeLine(userID, productID)
		return
	}
	cart := s.data.Cart(userID)
	for i := range cart {
		if cart[i].Product.ID == productID {
			cart[i].Quantity = quantity
			s.persistCart(userID, cart)
			return
		}
	}
}

// ClearCart empties the user's cart.
func (s *StoreService) ClearCart(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persistCart(userID, nil)
}

// ToggleFavorite adds productID to the user's favorites set, or
// removes it when already present.
func (s *StoreService) ToggleFavorite(userID, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	favorites := s.data.Favorites(userID)
	for i, id := range favorites {
		if id == productID {
			favorites = append(favorites[:i], favorites[i+1:]...)
			s.persistFavorites(userID, favorites)
			return
		}
	}
	favorites = append(favorites, productID)
	s.persistFavorites(userID, favorites)
}

// IsFavorite reports whether productID is in the user's favorites set.
func (s *StoreService) IsFavorite(userID, productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.data.Favorites(userID) {
		if id == productID {
			return true
		}
	}
	return false
}

// PlaceOrder converts the user's cart into an immutable order. The
// order gets a fresh timestamp-derived id, a pending status and the
// ITBIS-inclusive totals; it is appended to the user's order history
// and to the global order log, and the cart is cleared. Stock is not
// re-checked and prices are not re-verified against the live catalog.
func (s *StoreService) PlaceOrder(userID string, info models.CustomerInfo, paymentMethod string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if userID == "" {
		return "", fmt.Errorf("no user is logged in")
	}
	cart := s.data.Cart(userID)
	if len(cart) == 0 {
		return "", fmt.Errorf("cart is empty")
	}

	subtotal := cartSubtotal(cart)
	itbis := subtotal * models.ITBISRate

	order := models.Order{
		ID:            strconv.FormatInt(time.Now().UnixMilli(), 10),
		UserID:        userID,
		Items:         cart,
		Subtotal:      subtotal,
		ITBIS:         itbis,
		Total:         subtotal + itbis,
		CustomerInfo:  info,
		PaymentMethod: paymentMethod,
		Status:        models.OrderStatusPending,
		CreatedAt:     time.Now().Format(time.RFC3339),
	}

	if err := s.data.SaveOrders(userID, append(s.data.Orders(userID), order)); err != nil {
		log.Printf("orders: failed to persist order history: %v", err)
	}
	if err := s.orderLog.Append(order); err != nil {
		log.Printf("orders: failed to append to global log: %v", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishOrderCreated(order); err != nil {
			log.Printf("orders: failed to publish order created event for order %s: %v", order.ID, err)
		}
	}

	s.persistCart(userID, nil)
	return order.ID, nil
}

func (s *StoreService) persistCart(userID string, cart []models.CartItem) {
	if err := s.data.SaveCart(userID, cart); err != nil {
		log.Printf("cart: failed to persist for user %s: %v", userID, err)
	}
}

func (s *StoreService) persistFavorites(userID string, favorites []string) {
	if err := s.data.SaveFavorites(userID, favorites); err != nil {
		log.Printf("favorites: failed to persist for user %s: %v", userID, err)
	}
}
