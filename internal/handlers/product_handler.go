package handlers

import (
	"log"
	"strconv"

	"pasar/internal/middleware"
	"pasar/internal/models"
	"pasar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for product listings.
type ProductHandler struct {
	service     *services.ProductService
	authService *services.AuthService
	validate    *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, authService *services.AuthService) *ProductHandler {
	return &ProductHandler{
		service:     service,
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleList)
	productRoutes.Get("/featured", h.HandleListFeatured)
	productRoutes.Get("/trending", h.HandleListTrending)

	authed := productRoutes.Group("", middleware.AuthRequired(h.authService))
	authed.Get("/mine", h.HandleListMine)
	authed.Post("/", h.HandleCreate)
	authed.Get("/:id/audit", h.HandleGetAudit)
	authed.Put("/:id", h.HandleUpdate)
	authed.Delete("/:id", h.HandleSoftDelete)
	authed.Delete("/:id/permanent", h.HandleHardDelete)
	authed.Post("/:id/restore", h.HandleRestore)
	authed.Post("/:id/like", h.HandleToggleLike)
	authed.Post("/:id/sold", h.HandleMarkSold)

	// Registered last so the static segments above win the match.
	productRoutes.Get("/:id", middleware.OptionalAuth(h.authService), h.HandleGet)
}

// HandleList retrieves all public listings.
func (h *ProductHandler) HandleList(c *fiber.Ctx) error {
	products, err := h.service.List()
	if err != nil {
		log.Printf("Error listing products: %v", err)
		return respondError(c, err)
	}
	return c.JSON(products)
}

// HandleListFeatured retrieves the featured listings.
func (h *ProductHandler) HandleListFeatured(c *fiber.Ctx) error {
	products, err := h.service.ListFeatured()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// HandleListTrending retrieves the most viewed listings.
func (h *ProductHandler) HandleListTrending(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	products, err := h.service.ListTrending(limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// HandleListMine retrieves the authenticated seller's own listings.
func (h *ProductHandler) HandleListMine(c *fiber.Ctx) error {
	products, err := h.service.ListMine(middleware.CurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// HandleGet retrieves a single listing and counts the view.
func (h *ProductHandler) HandleGet(c *fiber.Ctx) error {
	product, err := h.service.Get(c.Params("id"), middleware.CurrentUser(c), requestOrigin(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// HandleGetAudit retrieves a listing regardless of soft-delete state.
func (h *ProductHandler) HandleGetAudit(c *fiber.Ctx) error {
	product, err := h.service.GetAudit(c.Params("id"), middleware.CurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// ProductRequest represents the writable listing fields.
type ProductRequest struct {
	Title       string  `json:"title" validate:"required,min=3,max=120"`
	Description string  `json:"description" validate:"max=4000"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Condition   string  `json:"condition" validate:"omitempty,oneof=new used refurbished"`
	CategoryID  string  `json:"category_id"`
	Location    string  `json:"location" validate:"max=100"`
}

// HandleCreate publishes a new listing.
func (h *ProductHandler) HandleCreate(c *fiber.Ctx) error {
	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	product := models.Product{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Condition:   req.Condition,
		CategoryID:  req.CategoryID,
		Location:    req.Location,
	}
	if err := h.service.Create(middleware.CurrentUser(c), &product, requestOrigin(c)); err != nil {
		log.Printf("Error creating product: %v", err)
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdate modifies an existing listing.
func (h *ProductHandler) HandleUpdate(c *fiber.Ctx) error {
	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	product := models.Product{
		ID:          c.Params("id"),
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Condition:   req.Condition,
		CategoryID:  req.CategoryID,
		Location:    req.Location,
	}
	if err := h.service.Update(middleware.CurrentUser(c), &product, requestOrigin(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// HandleSoftDelete retires a listing.
func (h *ProductHandler) HandleSoftDelete(c *fiber.Ctx) error {
	if err := h.service.SoftDelete(middleware.CurrentUser(c), c.Params("id"), requestOrigin(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Product deleted",
	})
}

// HandleHardDelete permanently removes a listing and its dependents.
func (h *ProductHandler) HandleHardDelete(c *fiber.Ctx) error {
	if err := h.service.HardDelete(middleware.CurrentUser(c), c.Params("id"), requestOrigin(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Product permanently deleted",
	})
}

// HandleRestore brings a soft-deleted listing back.
func (h *ProductHandler) HandleRestore(c *fiber.Ctx) error {
	if err := h.service.Restore(middleware.CurrentUser(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Product restored",
	})
}

// HandleToggleLike likes or unlikes a listing for the authenticated user.
func (h *ProductHandler) HandleToggleLike(c *fiber.Ctx) error {
	liked, likes, err := h.service.ToggleLike(middleware.CurrentUser(c), c.Params("id"), requestOrigin(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"liked": liked,
		"likes": likes,
	})
}

// HandleMarkSold flags a listing as sold.
func (h *ProductHandler) HandleMarkSold(c *fiber.Ctx) error {
	if err := h.service.MarkSold(middleware.CurrentUser(c), c.Params("id"), requestOrigin(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Product marked as sold",
	})
}
