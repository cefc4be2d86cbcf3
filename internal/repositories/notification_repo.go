package repositories

import (
	"errors"
	"fmt"
	"time"

	"pasar/internal/apperrors"
	"pasar/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification data
// access.
type NotificationRepository interface {
	Create(notification *models.Notification) error
	GetByID(id string) (*models.Notification, error)
	ListByRecipient(recipientID string) ([]models.Notification, error)
	CountUnread(recipientID string) (int64, error)
	// MarkRead sets is_read and read_at if the notification is unread.
	MarkRead(id string, readAt time.Time) error
	// MarkAllRead transitions every unread notification of the recipient
	// in one bulk statement and returns the number of rows updated.
	MarkAllRead(recipientID string, readAt time.Time) (int64, error)
}

// GORMNotificationRepository is a GORM implementation of
// NotificationRepository.
type GORMNotificationRepository struct {
	db *gorm.DB
}

// NewGORMNotificationRepository creates a new instance of
// GORMNotificationRepository.
func NewGORMNotificationRepository(db *gorm.DB) *GORMNotificationRepository {
	return &GORMNotificationRepository{
		db: db,
	}
}

// Create writes a new notification.
func (r *GORMNotificationRepository) Create(notification *models.Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}
	if err := r.db.Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// GetByID retrieves a non-deleted notification by its ID.
func (r *GORMNotificationRepository) GetByID(id string) (*models.Notification, error) {
	var notification models.Notification
	err := r.db.Where("is_deleted = ?", false).First(&notification, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("notification with ID %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get notification by ID %s: %w", id, err)
	}
	return &notification, nil
}

// ListByRecipient returns the recipient's non-deleted notifications,
// newest first.
func (r *GORMNotificationRepository) ListByRecipient(recipientID string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.Where("recipient_id = ? AND is_deleted = ?", recipientID, false).
		Order("created_at DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications for %s: %w", recipientID, err)
	}
	return notifications, nil
}

// CountUnread counts the recipient's unread, non-deleted notifications.
func (r *GORMNotificationRepository) CountUnread(recipientID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ? AND is_deleted = ?", recipientID, false, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead sets the read state if still unread. Marking an already read
// notification matches no row, leaving read_at untouched.
func (r *GORMNotificationRepository) MarkRead(id string, readAt time.Time) error {
	err := r.db.Model(&models.Notification{}).
		Where("id = ? AND is_read = ?", id, false).
		Updates(map[string]any{"is_read": true, "read_at": readAt}).Error
	if err != nil {
		return fmt.Errorf("failed to mark notification %s read: %w", id, err)
	}
	return nil
}

// MarkAllRead transitions every unread notification of the recipient with
// a single UPDATE so a concurrent creation can never leave the batch
// half-updated.
func (r *GORMNotificationRepository) MarkAllRead(recipientID string, readAt time.Time) (int64, error) {
	res := r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ? AND is_deleted = ?", recipientID, false, false).
		Updates(map[string]any{"is_read": true, "read_at": readAt})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to mark all notifications read: %w", res.Error)
	}
	return res.RowsAffected, nil
}
