package services

import (
	"fmt"
	"time"

	"pasar/internal/apperrors"
	"pasar/internal/models"
	"pasar/internal/repositories"
)

// NotificationService handles the recipient-facing side of notifications:
// listing and the unread -> read transition.
type NotificationService struct {
	repo  repositories.NotificationRepository
	guard Guard
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(repo repositories.NotificationRepository) *NotificationService {
	return &NotificationService{
		repo: repo,
	}
}

// List returns the actor's notifications, newest first.
func (s *NotificationService) List(actor *models.User) ([]models.Notification, error) {
	if err := s.guard.Authorize(actor, Action{Resource: "notification", Op: OpRead}); err != nil {
		return nil, err
	}
	return s.repo.ListByRecipient(actor.ID)
}

// UnreadCount returns the number of unread notifications for the actor.
func (s *NotificationService) UnreadCount(actor *models.User) (int64, error) {
	if err := s.guard.Authorize(actor, Action{Resource: "notification", Op: OpRead}); err != nil {
		return 0, err
	}
	return s.repo.CountUnread(actor.ID)
}

// MarkRead transitions a notification to read. Only the recipient may do
// this, and repeating it is a no-op that keeps the original read_at.
func (s *NotificationService) MarkRead(notificationID string, actor *models.User) error {
	notification, err := s.repo.GetByID(notificationID)
	if err != nil {
		return err
	}
	if err := s.guard.Authorize(actor, Action{Resource: "notification", Op: OpUpdate, Target: notification}); err != nil {
		return err
	}
	if notification.IsRead {
		return nil
	}
	if err := s.repo.MarkRead(notificationID, time.Now()); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

// MarkAllRead transitions every unread notification of the actor in one
// atomic bulk update and returns how many were updated.
func (s *NotificationService) MarkAllRead(actor *models.User) (int64, error) {
	if err := s.guard.Authorize(actor, Action{Resource: "notification", Op: OpUpdate}); err != nil {
		return 0, err
	}
	return s.repo.MarkAllRead(actor.ID, time.Now())
}

// GetForRecipient returns one notification, recipient-only.
func (s *NotificationService) GetForRecipient(notificationID string, actor *models.User) (*models.Notification, error) {
	notification, err := s.repo.GetByID(notificationID)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, fmt.Errorf("read notification: %w", apperrors.ErrAuthenticationRequired)
	}
	if notification.RecipientID != actor.ID {
		return nil, fmt.Errorf("read notification: %w", apperrors.ErrNotOwner)
	}
	return notification, nil
}
