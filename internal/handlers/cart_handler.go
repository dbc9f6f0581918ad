package handlers

import (
	"log"

	"essence/internal/middleware"
	"essence/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles the cart and favorites of the authenticated
// user. Every operation is scoped to the account the bearer token
// resolves to.
type CartHandler struct {
	store    *services.StoreService
	catalog  *services.CatalogService
	session  *services.SessionService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(store *services.StoreService, catalog *services.CatalogService, session *services.SessionService) *CartHandler {
	return &CartHandler{
		store:    store,
		catalog:  catalog,
		session:  session,
		validate: validator.New(),
	}
}

// RegisterRoutes registers cart and favorites routes with the Fiber
// app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cart := router.Group("/cart", middleware.AuthRequired(h.session))
	cart.Get("/", h.HandleGetCart)
	cart.Post("/items", h.HandleAddItem)
	cart.Patch("/items/:productId", h.HandleUpdateQuantity)
	cart.Delete("/items/:productId", h.HandleRemoveItem)
	cart.Delete("/", h.HandleClearCart)

	favorites := router.Group("/favorites", middleware.AuthRequired(h.session))
	favorites.Get("/", h.HandleGetFavorites)
	favorites.Post("/toggle/:productId", h.HandleToggleFavorite)
}

// HandleGetCart returns the cart lines and subtotal.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	userID := middleware.CurrentUser(c).ID
	return c.JSON(fiber.Map{
		"items":    h.store.Cart(userID),
		"subtotal": h.store.Subtotal(userID),
	})
}

// AddItemRequest is the request body for adding a cart line.
type AddItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity"`
}

// HandleAddItem adds a product to the cart, merging into an existing
// line for the same product.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing add-to-cart body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(c, err)
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	product, err := h.catalog.ProductByID(req.ProductID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	userID := middleware.CurrentUser(c).ID
	h.store.AddToCart(userID, *product, req.Quantity)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"items": h.store.Cart(userID),
	})
}

// UpdateQuantityRequest is the request body for changing a line
// quantity.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// HandleUpdateQuantity sets a line's quantity; zero or less removes
// the line.
func (h *CartHandler) HandleUpdateQuantity(c *fiber.Ctx) error {
	var req UpdateQuantityRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing quantity update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	userID := middleware.CurrentUser(c).ID
	h.store.UpdateCartQuantity(userID, c.Params("productId"), req.Quantity)
	return c.JSON(fiber.Map{
		"items": h.store.Cart(userID),
	})
}

// HandleRemoveItem removes a cart line. Removing an absent line is a
// no-op.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	userID := middleware.CurrentUser(c).ID
	h.store.RemoveFromCart(userID, c.Params("productId"))
	return c.JSON(fiber.Map{
		"items": h.store.Cart(userID),
	})
}

// HandleClearCart empties the cart.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	userID := middleware.CurrentUser(c).ID
	h.store.ClearCart(userID)
	return c.JSON(fiber.Map{
		"items": h.store.Cart(userID),
	})
}

// HandleGetFavorites returns the favorite product ids.
func (h *CartHandler) HandleGetFavorites(c *fiber.Ctx) error {
	userID := middleware.CurrentUser(c).ID
	return c.JSON(fiber.Map{
		"favorites": h.store.Favorites(userID),
	})
}

// HandleToggleFavorite flips a product in or out of the favorites
// set.
func (h *CartHandler) HandleToggleFavorite(c *fiber.Ctx) error {
	userID := middleware.CurrentUser(c).ID
	productID := c.Params("productId")
	h.store.ToggleFavorite(userID, productID)
	return c.JSON(fiber.Map{
		"favorites": h.store.Favorites(userID),
		"favorite":  h.store.IsFavorite(userID, productID),
	})
}
