package handlers

import (
	"pasar/internal/middleware"
	"pasar/internal/models"
	"pasar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ReviewHandler handles HTTP requests for product reviews.
type ReviewHandler struct {
	service     *services.ReviewService
	authService *services.AuthService
	validate    *validator.Validate
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(service *services.ReviewService, authService *services.AuthService) *ReviewHandler {
	return &ReviewHandler{
		service:     service,
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the review routes with the Fiber app.
func (h *ReviewHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/products/:id/reviews", h.HandleListByProduct)
	router.Get("/sellers/:id/reviews", h.HandleListBySeller)

	reviewRoutes := router.Group("/reviews")
	authed := reviewRoutes.Group("", middleware.AuthRequired(h.authService))
	authed.Post("/", h.HandleCreate)
	authed.Get("/:id/audit", h.HandleGetAudit)
	authed.Put("/:id", h.HandleUpdate)
	authed.Delete("/:id", h.HandleSoftDelete)
	authed.Post("/:id/restore", h.HandleRestore)

	reviewRoutes.Get("/:id", h.HandleGet)
}

// HandleListByProduct returns a product's live reviews.
func (h *ReviewHandler) HandleListByProduct(c *fiber.Ctx) error {
	reviews, err := h.service.ListByProduct(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(reviews)
}

// HandleListBySeller returns the reviews a seller has received.
func (h *ReviewHandler) HandleListBySeller(c *fiber.Ctx) error {
	reviews, err := h.service.ListBySeller(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(reviews)
}

// HandleGet returns a single live review.
func (h *ReviewHandler) HandleGet(c *fiber.Ctx) error {
	review, err := h.service.Get(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(review)
}

// HandleGetAudit returns a review regardless of soft-delete state.
func (h *ReviewHandler) HandleGetAudit(c *fiber.Ctx) error {
	review, err := h.service.GetAudit(c.Params("id"), middleware.CurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(review)
}

// CreateReviewRequest represents the request body for a new review.
type CreateReviewRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Title     string `json:"title" validate:"max=120"`
	Comment   string `json:"comment" validate:"max=2000"`
}

// HandleCreate writes a review for a product.
func (h *ReviewHandler) HandleCreate(c *fiber.Ctx) error {
	var req CreateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	review := models.Review{
		ProductID: req.ProductID,
		Rating:    uint(req.Rating),
		Title:     req.Title,
		Comment:   req.Comment,
	}
	if err := h.service.Create(middleware.CurrentUser(c), &review, requestOrigin(c)); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

// UpdateReviewRequest represents the editable review fields.
type UpdateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Title   string `json:"title" validate:"max=120"`
	Comment string `json:"comment" validate:"max=2000"`
}

// HandleUpdate modifies an existing review.
func (h *ReviewHandler) HandleUpdate(c *fiber.Ctx) error {
	var req UpdateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	review := models.Review{
		ID:      c.Params("id"),
		Rating:  uint(req.Rating),
		Title:   req.Title,
		Comment: req.Comment,
	}
	if err := h.service.Update(middleware.CurrentUser(c), &review, requestOrigin(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(review)
}

// HandleSoftDelete retires a review.
func (h *ReviewHandler) HandleSoftDelete(c *fiber.Ctx) error {
	if err := h.service.SoftDelete(middleware.CurrentUser(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Review deleted",
	})
}

// HandleRestore brings a soft-deleted review back.
func (h *ReviewHandler) HandleRestore(c *fiber.Ctx) error {
	if err := h.service.Restore(middleware.CurrentUser(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Review restored",
	})
}
