package handlers

import (
	"log"

	"essence/internal/middleware"
	"essence/internal/models"
	"essence/internal/services"
	"essence/pkg/whatsapp"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles checkout, order history and notifications.
type OrderHandler struct {
	store         *services.StoreService
	session       *services.SessionService
	notifications *services.NotificationService
	whatsappPhone string
	validate      *validator.Validate
}

// NewOrderHandler creates a new OrderHandler. whatsappPhone is the
// target number for the checkout handoff.
func NewOrderHandler(store *services.StoreService, session *services.SessionService, notifications *services.NotificationService, whatsappPhone string) *OrderHandler {
	return &OrderHandler{
		store:         store,
		session:       session,
		notifications: notifications,
		whatsappPhone: whatsappPhone,
		validate:      validator.New(),
	}
}

// RegisterRoutes registers checkout, order and notification routes.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orders := router.Group("/orders", middleware.AuthRequired(h.session))
	orders.Get("/", h.HandleGetOrders)
	orders.Post("/checkout", h.HandleCheckout)

	notifications := router.Group("/notifications", middleware.AuthRequired(h.session))
	notifications.Get("/", h.HandleGetNotifications)
	notifications.Post("/:id/read", h.HandleMarkRead)
	notifications.Post("/read-all", h.HandleMarkAllRead)
}

// HandleGetOrders returns the authenticated user's order history.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	return c.JSON(h.store.Orders(middleware.CurrentUser(c).ID))
}

// CheckoutRequest is the request body for placing an order.
type CheckoutRequest struct {
	CustomerInfo  models.CustomerInfo `json:"customerInfo" validate:"required"`
	PaymentMethod string              `json:"paymentMethod" validate:"required"`
}

// HandleCheckout places an order from the current cart and returns
// the order id plus the WhatsApp handoff URL the client should
// navigate to. The cart is empty afterwards.
func (h *OrderHandler) HandleCheckout(c *fiber.Ctx) error {
	var req CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing checkout body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	userID := middleware.CurrentUser(c).ID
	orderID, err := h.store.PlaceOrder(userID, req.CustomerInfo, req.PaymentMethod)
	if err != nil {
		log.Printf("Error placing order: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not place order",
			"error":   err.Error(),
		})
	}

	var handoffURL string
	for _, order := range h.store.Orders(userID) {
		if order.ID == orderID {
			handoffURL = whatsapp.BuildCheckoutURL(h.whatsappPhone, order)
			break
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"orderId":     orderID,
		"whatsappUrl": handoffURL,
	})
}

// HandleGetNotifications returns the active user's notifications.
func (h *OrderHandler) HandleGetNotifications(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	return c.JSON(h.notifications.Notifications(user.ID))
}

// HandleMarkRead marks one notification as read.
func (h *OrderHandler) HandleMarkRead(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	h.notifications.MarkRead(user.ID, c.Params("id"))
	return c.JSON(fiber.Map{
		"message": "Notification marked as read",
	})
}

// HandleMarkAllRead marks every notification as read.
func (h *OrderHandler) HandleMarkAllRead(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	h.notifications.MarkAllRead(user.ID)
	return c.JSON(fiber.Map{
		"message": "All notifications marked as read",
	})
}
