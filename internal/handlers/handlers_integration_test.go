package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"essence/internal/handlers"
	"essence/internal/models"
	"essence/internal/repositories"
	"essence/internal/services"
	"essence/pkg/kvstore"
)

type testApp struct {
	app     *fiber.App
	store   *kvstore.MemoryStore
	session *services.SessionService
}

// newTestApp wires the full API over an in-memory store, mirroring
// the production wiring in main.
func newTestApp() *testApp {
	store := kvstore.NewMemoryStore()

	catalogRepo := repositories.NewCatalogRepository(store)
	userRepo := repositories.NewUserRepository(store)
	orderLogRepo := repositories.NewOrderLogRepository(store)
	userDataRepo := repositories.NewUserDataRepository(store)
	reviewRepo := repositories.NewReviewRepository(store)
	notificationRepo := repositories.NewNotificationRepository(store)

	sessionService := services.NewSessionService(userRepo, "GMVP", "test_jwt_secret")
	catalogService := services.NewCatalogService(catalogRepo, reviewRepo)
	adminService := services.NewAdminService(orderLogRepo)
	notificationService := services.NewNotificationService(notificationRepo)
	notificationService.Attach(store)

	storeService := services.NewStoreService(userDataRepo, orderLogRepo, nil)

	app := fiber.New()
	apiV1 := app.Group("/api/v1")
	handlers.NewAuthHandler(sessionService).RegisterRoutes(apiV1)
	handlers.NewCatalogHandler(catalogService, reviewRepo, sessionService).RegisterRoutes(apiV1)
	handlers.NewCartHandler(storeService, catalogService, sessionService).RegisterRoutes(apiV1)
	handlers.NewOrderHandler(storeService, sessionService, notificationService, "18294396607").RegisterRoutes(apiV1)
	handlers.NewAdminHandler(adminService, catalogService, sessionService).RegisterRoutes(apiV1)

	return &testApp{app: app, store: store, session: sessionService}
}

func (ta *testApp) request(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func registerUser(t *testing.T, ta *testApp, name, email string) string {
	resp := ta.request(t, "POST", "/api/v1/auth/register", "", fiber.Map{
		"name":    name,
		"email":   email,
		"phone":   "809-555-0000",
		"address": "Calle 1 #23",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &body)
	require.NotEmpty(t, body.Token)
	return body.Token
}

func loginAdmin(t *testing.T, ta *testApp) string {
	resp := ta.request(t, "POST", "/api/v1/auth/login", "", fiber.Map{
		"email":    services.AdminEmail,
		"password": "GMVP",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &body)
	return body.Token
}

func TestAuthFlow(t *testing.T) {
	ta := newTestApp()

	token := registerUser(t, ta, "Ana Pérez", "ana@example.com")

	// Duplicate email is rejected.
	resp := ta.request(t, "POST", "/api/v1/auth/register", "", fiber.Map{
		"name":  "Otra Ana",
		"email": "ana@example.com",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// The token gives access to the profile.
	resp = ta.request(t, "GET", "/api/v1/auth/profile", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var profile models.User
	decodeBody(t, resp, &profile)
	assert.Equal(t, "ana@example.com", profile.Email)
	assert.False(t, profile.IsAdmin)

	// Wrong admin password fails; the right one succeeds.
	resp = ta.request(t, "POST", "/api/v1/auth/login", "", fiber.Map{
		"email":    services.AdminEmail,
		"password": "wrong",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
	loginAdmin(t, ta)

	// No token, no profile.
	resp = ta.request(t, "GET", "/api/v1/auth/profile", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestProductBrowsingAndSearch(t *testing.T) {
	ta := newTestApp()

	resp := ta.request(t, "GET", "/api/v1/products", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var products []models.Product
	decodeBody(t, resp, &products)
	assert.Len(t, products, 13)

	resp = ta.request(t, "GET", "/api/v1/products?category=perfumes&sort=price-low", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &products)
	assert.Len(t, products, 3)
	assert.Equal(t, "p3", products[0].ID) // cheapest perfume first

	resp = ta.request(t, "POST", "/api/v1/products/search", "", fiber.Map{
		"minPrice": 100000,
		"maxPrice": 500000,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &products)
	assert.Len(t, products, 2) // MacBook Pro and Rolex

	resp = ta.request(t, "GET", "/api/v1/products/t1", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var product models.Product
	decodeBody(t, resp, &product)
	assert.Equal(t, "iPhone 15 Pro Max", product.Name)

	resp = ta.request(t, "GET", "/api/v1/products/zzz", "", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestCartAndCheckoutFlow(t *testing.T) {
	ta := newTestApp()
	token := registerUser(t, ta, "Ana Pérez", "ana@example.com")

	// Cart requires authentication.
	resp := ta.request(t, "GET", "/api/v1/cart", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = ta.request(t, "POST", "/api/v1/cart/items", token, fiber.Map{
		"productId": "p1",
		"quantity":  2,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Same product again merges into one line.
	resp = ta.request(t, "POST", "/api/v1/cart/items", token, fiber.Map{
		"productId": "p1",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = ta.request(t, "GET", "/api/v1/cart", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var cart struct {
		Items    []models.CartItem `json:"items"`
		Subtotal float64           `json:"subtotal"`
	}
	decodeBody(t, resp, &cart)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.InDelta(t, 25500.0, cart.Subtotal, 1e-9)

	// Checkout without the required contact info fails.
	resp = ta.request(t, "POST", "/api/v1/orders/checkout", token, fiber.Map{
		"customerInfo":  fiber.Map{"name": "Ana Pérez"},
		"paymentMethod": "efectivo",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = ta.request(t, "POST", "/api/v1/orders/checkout", token, fiber.Map{
		"customerInfo": fiber.Map{
			"name":    "Ana Pérez",
			"phone":   "809-555-0000",
			"address": "Calle 1 #23",
			"email":   "ana@example.com",
		},
		"paymentMethod": "efectivo",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var checkout struct {
		OrderID     string `json:"orderId"`
		WhatsappURL string `json:"whatsappUrl"`
	}
	decodeBody(t, resp, &checkout)
	assert.NotEmpty(t, checkout.OrderID)
	assert.Contains(t, checkout.WhatsappURL, "https://api.whatsapp.com/send?")
	assert.Contains(t, checkout.WhatsappURL, "phone=18294396607")

	// The cart is empty and the order is in the history.
	resp = ta.request(t, "GET", "/api/v1/cart", token, nil)
	decodeBody(t, resp, &cart)
	assert.Empty(t, cart.Items)

	resp = ta.request(t, "GET", "/api/v1/orders", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var orders []models.Order
	decodeBody(t, resp, &orders)
	require.Len(t, orders, 1)
	assert.Equal(t, checkout.OrderID, orders[0].ID)
	assert.InDelta(t, orders[0].Subtotal+orders[0].ITBIS, orders[0].Total, 1e-9)

	// The change feed produced an order notification.
	resp = ta.request(t, "GET", "/api/v1/notifications", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var notifications []models.Notification
	decodeBody(t, resp, &notifications)
	require.Len(t, notifications, 1)
	assert.Equal(t, "Pedido recibido", notifications[0].Title)
}

func TestCartIsScopedToTokenUser(t *testing.T) {
	ta := newTestApp()
	tokenA := registerUser(t, ta, "Ana Pérez", "ana@example.com")

	resp := ta.request(t, "POST", "/api/v1/cart/items", tokenA, fiber.Map{"productId": "p1"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// A second registration must not redirect the first user's routes.
	tokenB := registerUser(t, ta, "Berta Gómez", "berta@example.com")
	resp = ta.request(t, "POST", "/api/v1/cart/items", tokenB, fiber.Map{"productId": "t1"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	var cart struct {
		Items []models.CartItem `json:"items"`
	}
	resp = ta.request(t, "GET", "/api/v1/cart", tokenA, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &cart)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "p1", cart.Items[0].Product.ID)

	resp = ta.request(t, "GET", "/api/v1/cart", tokenB, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &cart)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "t1", cart.Items[0].Product.ID)

	// Favorites and order history stay separated the same way.
	resp = ta.request(t, "POST", "/api/v1/favorites/toggle/p2", tokenA, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp.Body.Close()

	var favorites struct {
		Favorites []string `json:"favorites"`
	}
	resp = ta.request(t, "GET", "/api/v1/favorites", tokenB, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &favorites)
	assert.Empty(t, favorites.Favorites)

	resp = ta.request(t, "POST", "/api/v1/orders/checkout", tokenB, fiber.Map{
		"customerInfo":  fiber.Map{"name": "Berta Gómez", "phone": "809", "address": "Calle 2"},
		"paymentMethod": "efectivo",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	var orders []models.Order
	resp = ta.request(t, "GET", "/api/v1/orders", tokenA, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &orders)
	assert.Empty(t, orders)
}

func TestFavoritesToggle(t *testing.T) {
	ta := newTestApp()
	token := registerUser(t, ta, "Ana Pérez", "ana@example.com")

	resp := ta.request(t, "POST", "/api/v1/favorites/toggle/p1", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var favorites struct {
		Favorites []string `json:"favorites"`
		Favorite  bool     `json:"favorite"`
	}
	decodeBody(t, resp, &favorites)
	assert.Equal(t, []string{"p1"}, favorites.Favorites)
	assert.True(t, favorites.Favorite)

	resp = ta.request(t, "POST", "/api/v1/favorites/toggle/p1", token, nil)
	decodeBody(t, resp, &favorites)
	assert.Empty(t, favorites.Favorites)
	assert.False(t, favorites.Favorite)
}

func TestAdminSurface(t *testing.T) {
	ta := newTestApp()
	userToken := registerUser(t, ta, "Ana Pérez", "ana@example.com")

	// Place one order as the regular user.
	resp := ta.request(t, "POST", "/api/v1/cart/items", userToken, fiber.Map{"productId": "r3", "quantity": 1})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	resp = ta.request(t, "POST", "/api/v1/orders/checkout", userToken, fiber.Map{
		"customerInfo":  fiber.Map{"name": "Ana Pérez", "phone": "809", "address": "Calle 1"},
		"paymentMethod": "tarjeta",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var checkout struct {
		OrderID string `json:"orderId"`
	}
	decodeBody(t, resp, &checkout)

	// Regular users are kept out of the admin surface.
	resp = ta.request(t, "GET", "/api/v1/admin/dashboard", userToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	adminToken := loginAdmin(t, ta)

	resp = ta.request(t, "GET", "/api/v1/admin/dashboard", adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var stats services.DashboardStats
	decodeBody(t, resp, &stats)
	assert.Equal(t, 1, stats.TotalOrders)
	assert.Equal(t, 1, stats.TotalCustomers)
	assert.InDelta(t, stats.TotalRevenue, stats.AverageOrderValue, 1e-9)
	require.Len(t, stats.TopProducts, 1)
	assert.Equal(t, "r3", stats.TopProducts[0].ProductID)

	// Order status management.
	resp = ta.request(t, "PATCH", "/api/v1/admin/orders/"+checkout.OrderID+"/status", adminToken, fiber.Map{
		"status": "processing",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = ta.request(t, "PATCH", "/api/v1/admin/orders/"+checkout.OrderID+"/status", adminToken, fiber.Map{
		"status": "shipped",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Catalog management.
	resp = ta.request(t, "POST", "/api/v1/admin/products", adminToken, fiber.Map{
		"name":     "Perfume Nuevo",
		"price":    5000,
		"category": "perfumes",
		"inStock":  true,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var created models.Product
	decodeBody(t, resp, &created)
	assert.NotEmpty(t, created.ID)

	resp = ta.request(t, "DELETE", "/api/v1/admin/products/"+created.ID, adminToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestReviewsFlow(t *testing.T) {
	ta := newTestApp()
	token := registerUser(t, ta, "Ana Pérez", "ana@example.com")

	resp := ta.request(t, "POST", "/api/v1/products/p1/reviews", token, fiber.Map{
		"rating":  5,
		"comment": "Excelente",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = ta.request(t, "POST", "/api/v1/products/p1/reviews", token, fiber.Map{
		"rating": 4,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = ta.request(t, "GET", "/api/v1/products/p1/reviews", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var body struct {
		Reviews       []models.Review `json:"reviews"`
		AverageRating float64         `json:"averageRating"`
	}
	decodeBody(t, resp, &body)
	assert.Len(t, body.Reviews, 2)
	assert.InDelta(t, 4.5, body.AverageRating, 1e-9)

	// Rating outside 1..5 is rejected.
	resp = ta.request(t, "POST", "/api/v1/products/p1/reviews", token, fiber.Map{
		"rating": 6,
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}
