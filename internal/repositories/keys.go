package repositories

// Store key layout. Global keys hold the catalog, the registered-user
// list, the current session record and the global order log; per-user
// and per-product keys carry an id suffix.
const (
	KeyProducts  = "essence_products"
	KeyUsers     = "essence_users"
	KeySession   = "essence_user"
	KeyAllOrders = "essence_all_orders"

	cartKeyPrefix          = "essence_cart_"
	favoritesKeyPrefix     = "essence_favorites_"
	ordersKeyPrefix        = "essence_orders_"
	notificationsKeyPrefix = "notifications_"
	reviewsKeyPrefix       = "reviews_"
)

// CartKey returns the cart key for a user id.
func CartKey(userID string) string { return cartKeyPrefix + userID }

// FavoritesKey returns the favorites key for a user id.
func FavoritesKey(userID string) string { return favoritesKeyPrefix + userID }

// OrdersKey returns the order-list key for a user id.
func OrdersKey(userID string) string { return ordersKeyPrefix + userID }

// NotificationsKey returns the notifications key for a user id.
func NotificationsKey(userID string) string { return notificationsKeyPrefix + userID }

// ReviewsKey returns the reviews key for a product id.
func ReviewsKey(productID string) string { return reviewsKeyPrefix + productID }

// UserIDFromOrdersKey extracts the user id from a per-user order-list
// key, reporting false for any other key.
func UserIDFromOrdersKey(key string) (string, bool) {
	if len(key) <= len(ordersKeyPrefix) || key[:len(ordersKeyPrefix)] != ordersKeyPrefix {
		return "", false
	}
	return key[len(ordersKeyPrefix):], true
}
