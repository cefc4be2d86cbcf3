package handlers

import (
	"pasar/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CategoryHandler handles HTTP requests for the category catalogue.
// All routes are public reads.
type CategoryHandler struct {
	service *services.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(service *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		service: service,
	}
}

// RegisterRoutes registers the category routes with the Fiber app.
func (h *CategoryHandler) RegisterRoutes(router fiber.Router) {
	categoryRoutes := router.Group("/categories")
	categoryRoutes.Get("/", h.HandleList)
	categoryRoutes.Get("/tree", h.HandleTree)
	categoryRoutes.Get("/:slug", h.HandleGetBySlug)
}

// HandleList returns all active categories in display order.
func (h *CategoryHandler) HandleList(c *fiber.Ctx) error {
	categories, err := h.service.List()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(categories)
}

// HandleTree returns the categories nested under their parents.
func (h *CategoryHandler) HandleTree(c *fiber.Ctx) error {
	tree, err := h.service.Tree()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tree)
}

// HandleGetBySlug returns a single active category.
func (h *CategoryHandler) HandleGetBySlug(c *fiber.Ctx) error {
	category, err := h.service.GetBySlug(c.Params("slug"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(category)
}
