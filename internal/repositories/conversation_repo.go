package repositories

import (
	"errors"
	"fmt"

	"pasar/internal/apperrors"
	"pasar/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ConversationRepository defines the interface for chat data access.
type ConversationRepository interface {
	Create(conversation *models.Conversation, participantIDs []string) error
	GetByID(id string) (*models.Conversation, error)
	ListByParticipant(userID string) ([]models.Conversation, error)
	AddMessage(message *models.Message) error
	ListMessages(conversationID string) ([]models.Message, error)
}

// GORMConversationRepository is a GORM implementation of
// ConversationRepository.
type GORMConversationRepository struct {
	db *gorm.DB
}

// NewGORMConversationRepository creates a new instance of
// GORMConversationRepository.
func NewGORMConversationRepository(db *gorm.DB) *GORMConversationRepository {
	return &GORMConversationRepository{
		db: db,
	}
}

// Create writes the conversation and its participant edges in one
// transaction.
func (r *GORMConversationRepository) Create(conversation *models.Conversation, participantIDs []string) error {
	if conversation.ID == "" {
		conversation.ID = uuid.New().String()
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Participants").Create(conversation).Error; err != nil {
			return fmt.Errorf("failed to create conversation: %w", err)
		}
		for _, userID := range participantIDs {
			p := models.ConversationParticipant{
				ID:             uuid.New().String(),
				ConversationID: conversation.ID,
				UserID:         userID,
			}
			if err := tx.Create(&p).Error; err != nil {
				return fmt.Errorf("failed to add participant %s: %w", userID, err)
			}
			conversation.Participants = append(conversation.Participants, p)
		}
		return nil
	})
}

// GetByID retrieves a non-deleted, active conversation with its
// participants.
func (r *GORMConversationRepository) GetByID(id string) (*models.Conversation, error) {
	var conversation models.Conversation
	err := r.db.Preload("Participants").
		Where("is_deleted = ? AND is_active = ?", false, true).
		First(&conversation, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("conversation with ID %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get conversation by ID %s: %w", id, err)
	}
	return &conversation, nil
}

// ListByParticipant returns the user's active, non-deleted conversations,
// most recently updated first.
func (r *GORMConversationRepository) ListByParticipant(userID string) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := r.db.Preload("Participants").
		Joins("JOIN conversation_participants cp ON cp.conversation_id = conversations.id").
		Where("cp.user_id = ? AND conversations.is_deleted = ? AND conversations.is_active = ?", userID, false, true).
		Order("conversations.updated_at DESC").
		Find(&conversations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations for %s: %w", userID, err)
	}
	return conversations, nil
}

// AddMessage appends a message and touches the conversation's updated_at.
func (r *GORMConversationRepository) AddMessage(message *models.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return fmt.Errorf("failed to create message: %w", err)
		}
		err := tx.Model(&models.Conversation{}).
			Where("id = ?", message.ConversationID).
			UpdateColumn("updated_at", message.CreatedAt).Error
		if err != nil {
			return fmt.Errorf("failed to touch conversation %s: %w", message.ConversationID, err)
		}
		return nil
	})
}

// ListMessages returns a conversation's non-deleted messages, newest
// first.
func (r *GORMConversationRepository) ListMessages(conversationID string) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Where("conversation_id = ? AND is_deleted = ?", conversationID, false).
		Order("created_at DESC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list messages for conversation %s: %w", conversationID, err)
	}
	return messages, nil
}
