package handlers

import (
	"pasar/internal/middleware"
	"pasar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ChatHandler handles HTTP requests for conversations and messages.
// Every route requires authentication.
type ChatHandler struct {
	service     *services.ChatService
	authService *services.AuthService
	validate    *validator.Validate
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(service *services.ChatService, authService *services.AuthService) *ChatHandler {
	return &ChatHandler{
		service:     service,
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the chat routes with the Fiber app.
func (h *ChatHandler) RegisterRoutes(router fiber.Router) {
	chatRoutes := router.Group("/conversations", middleware.AuthRequired(h.authService))
	chatRoutes.Post("/", h.HandleCreateConversation)
	chatRoutes.Get("/", h.HandleListConversations)
	chatRoutes.Get("/:id", h.HandleGetConversation)
	chatRoutes.Get("/:id/messages", h.HandleListMessages)
	chatRoutes.Post("/:id/messages", h.HandleSendMessage)
}

// CreateConversationRequest represents the request body for a new
// conversation.
type CreateConversationRequest struct {
	ParticipantIDs []string `json:"participant_ids" validate:"required,min=1,dive,required"`
	ProductID      string   `json:"product_id"`
}

// HandleCreateConversation starts a conversation.
func (h *ChatHandler) HandleCreateConversation(c *fiber.Ctx) error {
	var req CreateConversationRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	conversation, err := h.service.CreateConversation(middleware.CurrentUser(c), req.ParticipantIDs, req.ProductID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(conversation)
}

// HandleListConversations returns the caller's conversations.
func (h *ChatHandler) HandleListConversations(c *fiber.Ctx) error {
	conversations, err := h.service.ListConversations(middleware.CurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(conversations)
}

// HandleGetConversation returns a single conversation.
func (h *ChatHandler) HandleGetConversation(c *fiber.Ctx) error {
	conversation, err := h.service.GetConversation(middleware.CurrentUser(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(conversation)
}

// HandleListMessages returns a conversation's messages.
func (h *ChatHandler) HandleListMessages(c *fiber.Ctx) error {
	messages, err := h.service.ListMessages(middleware.CurrentUser(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(messages)
}

// SendMessageRequest carries the message content.
type SendMessageRequest struct {
	Content string `json:"content" validate:"required,max=4000"`
}

// HandleSendMessage appends a message to a conversation.
func (h *ChatHandler) HandleSendMessage(c *fiber.Ctx) error {
	var req SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	message, err := h.service.SendMessage(middleware.CurrentUser(c), c.Params("id"), req.Content, requestOrigin(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(message)
}
