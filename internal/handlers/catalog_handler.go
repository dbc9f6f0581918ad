package handlers

import (
	"log"
	"time"

	"essence/internal/middleware"
	"essence/internal/models"
	"essence/internal/repositories"
	"essence/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// CatalogHandler handles product browsing, search and reviews.
type CatalogHandler struct {
	catalog  *services.CatalogService
	reviews  repositories.ReviewRepository
	session  *services.SessionService
	validate *validator.Validate
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalog *services.CatalogService, reviews repositories.ReviewRepository, session *services.SessionService) *CatalogHandler {
	return &CatalogHandler{
		catalog:  catalog,
		reviews:  reviews,
		session:  session,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the catalog routes with the Fiber app.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	products := router.Group("/products")
	products.Get("/", h.HandleListProducts)
	products.Post("/search", h.HandleAdvancedSearch)
	products.Get("/:id", h.HandleGetProduct)
	products.Get("/:id/reviews", h.HandleListReviews)
	products.Post("/:id/reviews", middleware.AuthRequired(h.session), h.HandleAddReview)
}

// HandleListProducts lists the catalog, optionally narrowed by the
// basic search term and category and ordered by the sort parameter.
func (h *CatalogHandler) HandleListProducts(c *fiber.Ctx) error {
	var query services.Query
	query.UseBasic(c.Query("search"), models.Category(c.Query("category")))
	query.Sort = services.SortMode(c.Query("sort", string(services.SortByName)))

	return c.JSON(h.catalog.Search(query))
}

// HandleAdvancedSearch runs an advanced filter query. Advanced mode
// supersedes any basic search parameters.
func (h *CatalogHandler) HandleAdvancedSearch(c *fiber.Ctx) error {
	var filters services.Filters
	if err := c.BodyParser(&filters); err != nil {
		log.Printf("Error parsing search filters: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	var query services.Query
	query.UseAdvanced(filters)
	query.Sort = services.SortMode(c.Query("sort", string(services.SortByName)))

	return c.JSON(h.catalog.Search(query))
}

// HandleGetProduct returns one product by id.
func (h *CatalogHandler) HandleGetProduct(c *fiber.Ctx) error {
	product, err := h.catalog.ProductByID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": err.Error(),
		})
	}
	return c.JSON(product)
}

// HandleListReviews returns the reviews for a product together with
// its average rating.
func (h *CatalogHandler) HandleListReviews(c *fiber.Ctx) error {
	productID := c.Params("id")
	return c.JSON(fiber.Map{
		"reviews":       h.reviews.Reviews(productID),
		"averageRating": h.reviews.AverageRating(productID),
	})
}

// ReviewRequest is the request body for posting a review.
type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"omitempty,max=1000"`
}

// HandleAddReview stores a review by the authenticated user.
func (h *CatalogHandler) HandleAddReview(c *fiber.Ctx) error {
	var req ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing review body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	productID := c.Params("id")
	if _, err := h.catalog.ProductByID(productID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	user := middleware.CurrentUser(c)
	review := models.Review{
		ID:        uuid.New().String(),
		ProductID: productID,
		UserID:    user.ID,
		UserName:  user.Name,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: time.Now().Format(time.RFC3339),
	}
	if err := h.reviews.Append(review); err != nil {
		log.Printf("Error saving review for product %s: %v", productID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not save review",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(review)
}
