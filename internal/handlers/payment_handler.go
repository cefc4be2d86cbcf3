package handlers

import (
	"pasar/internal/middleware"
	"pasar/internal/models"
	"pasar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// PaymentHandler handles HTTP requests for payment intents and boost
// packages.
type PaymentHandler struct {
	service     *services.PaymentService
	authService *services.AuthService
	validate    *validator.Validate
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(service *services.PaymentService, authService *services.AuthService) *PaymentHandler {
	return &PaymentHandler{
		service:     service,
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the payment routes with the Fiber app.
func (h *PaymentHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/boost-packages", h.HandleListBoostPackages)

	paymentRoutes := router.Group("/payments", middleware.AuthRequired(h.authService))
	paymentRoutes.Post("/intent", h.HandleCreateIntent)
	paymentRoutes.Post("/:id/confirm", h.HandleConfirm)
	paymentRoutes.Get("/", h.HandleListMine)
}

// CreateIntentRequest represents the request body for a payment intent.
type CreateIntentRequest struct {
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Currency    string  `json:"currency" validate:"omitempty,len=3"`
	ProductID   string  `json:"product_id"`
	Description string  `json:"description" validate:"max=200"`
}

// HandleCreateIntent opens a pending payment.
func (h *PaymentHandler) HandleCreateIntent(c *fiber.Ctx) error {
	var req CreateIntentRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	payment := models.Payment{
		Amount:      req.Amount,
		Currency:    req.Currency,
		ProductID:   req.ProductID,
		Description: req.Description,
	}
	if err := h.service.CreateIntent(middleware.CurrentUser(c), &payment, requestOrigin(c)); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(payment)
}

// HandleConfirm settles a pending payment.
func (h *PaymentHandler) HandleConfirm(c *fiber.Ctx) error {
	payment, err := h.service.Confirm(middleware.CurrentUser(c), c.Params("id"), requestOrigin(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(payment)
}

// HandleListMine returns the caller's payments, newest first.
func (h *PaymentHandler) HandleListMine(c *fiber.Ctx) error {
	payments, err := h.service.ListMine(middleware.CurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(payments)
}

// HandleListBoostPackages returns the purchasable boost packages.
func (h *PaymentHandler) HandleListBoostPackages(c *fiber.Ctx) error {
	packages, err := h.service.ListBoostPackages()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(packages)
}
