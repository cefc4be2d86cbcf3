package services

import (
	"fmt"

	"pasar/internal/apperrors"
	"pasar/internal/models"
	"pasar/internal/repositories"
)

// ChatService handles conversations and messages. Blocked pairs cannot
// message each other regardless of any follow relation; the block is
// reported as a missing conversation so it does not leak who blocked
// whom.
type ChatService struct {
	repo     repositories.ConversationRepository
	userRepo repositories.UserRepository
	recorder *ActivityService
	guard    Guard
}

// NewChatService creates a new ChatService.
func NewChatService(repo repositories.ConversationRepository, userRepo repositories.UserRepository, recorder *ActivityService) *ChatService {
	return &ChatService{
		repo:     repo,
		userRepo: userRepo,
		recorder: recorder,
	}
}

// CreateConversation starts a conversation between the actor and the
// other participants, optionally about a product.
func (s *ChatService) CreateConversation(actor *models.User, participantIDs []string, productID string) (*models.Conversation, error) {
	if err := s.guard.Authorize(actor, Action{Resource: "conversation", Op: OpCreate}); err != nil {
		return nil, err
	}
	if len(participantIDs) == 0 {
		return nil, fmt.Errorf("a conversation needs at least one other participant: %w", apperrors.ErrValidationFailed)
	}

	ids := []string{actor.ID}
	for _, id := range participantIDs {
		if id == actor.ID {
			continue
		}
		// Every participant must resolve to a live account; anonymized
		// users read the same as missing ones.
		participant, err := s.userRepo.GetByID(id)
		if err != nil {
			return nil, err
		}
		if !participant.IsActive {
			return nil, fmt.Errorf("user %s is unavailable: %w", id, apperrors.ErrNotFound)
		}
		if err := s.checkNotBlocked(actor.ID, id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if len(ids) < 2 {
		return nil, fmt.Errorf("a conversation needs at least one other participant: %w", apperrors.ErrValidationFailed)
	}

	conversation := &models.Conversation{
		ProductID: productID,
		IsActive:  true,
	}
	if err := s.repo.Create(conversation, ids); err != nil {
		return nil, err
	}
	return conversation, nil
}

// ListConversations returns the actor's conversations, most recently
// active first.
func (s *ChatService) ListConversations(actor *models.User) ([]models.Conversation, error) {
	if err := s.guard.Authorize(actor, Action{Resource: "conversation", Op: OpRead}); err != nil {
		return nil, err
	}
	return s.repo.ListByParticipant(actor.ID)
}

// GetConversation returns one conversation, participants only.
func (s *ChatService) GetConversation(actor *models.User, conversationID string) (*models.Conversation, error) {
	if err := s.guard.Authorize(actor, Action{Resource: "conversation", Op: OpRead}); err != nil {
		return nil, err
	}
	conversation, err := s.repo.GetByID(conversationID)
	if err != nil {
		return nil, err
	}
	if !conversation.HasParticipant(actor.ID) {
		return nil, fmt.Errorf("conversation %s: %w", conversationID, apperrors.ErrNotFound)
	}
	return conversation, nil
}

// SendMessage appends a message and notifies every other participant.
func (s *ChatService) SendMessage(actor *models.User, conversationID, content string, origin Origin) (*models.Message, error) {
	if err := s.guard.Authorize(actor, Action{Resource: "message", Op: OpCreate}); err != nil {
		return nil, err
	}
	if content == "" {
		return nil, fmt.Errorf("empty message: %w", apperrors.ErrValidationFailed)
	}
	conversation, err := s.repo.GetByID(conversationID)
	if err != nil {
		return nil, err
	}
	if !conversation.HasParticipant(actor.ID) {
		return nil, fmt.Errorf("conversation %s: %w", conversationID, apperrors.ErrNotFound)
	}
	for _, participantID := range conversation.ParticipantIDs() {
		if participantID == actor.ID {
			continue
		}
		if err := s.checkNotBlocked(actor.ID, participantID); err != nil {
			return nil, err
		}
	}

	message := &models.Message{
		ConversationID: conversationID,
		SenderID:       actor.ID,
		Content:        content,
	}
	if err := s.repo.AddMessage(message); err != nil {
		return nil, err
	}

	s.recorder.Record(Event{
		ActorID:      actor.ID,
		Type:         models.ActivityMessageSend,
		Description:  content,
		Origin:       origin,
		Metadata:     map[string]string{"conversation_id": conversationID},
		Conversation: conversation,
	})
	return message, nil
}

// ListMessages returns a conversation's messages, participants only.
func (s *ChatService) ListMessages(actor *models.User, conversationID string) ([]models.Message, error) {
	if _, err := s.GetConversation(actor, conversationID); err != nil {
		return nil, err
	}
	return s.repo.ListMessages(conversationID)
}

func (s *ChatService) checkNotBlocked(actorID, otherID string) error {
	blocked, err := s.userRepo.IsBlockedBetween(actorID, otherID)
	if err != nil {
		return err
	}
	if blocked {
		return fmt.Errorf("user %s is unavailable: %w", otherID, apperrors.ErrNotFound)
	}
	return nil
}
