package repositories

import (
	"fmt"

	"pasar/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActivityRepository defines the interface for the append-only activity
// log. There is no update or delete: the log is immutable.
type ActivityRepository interface {
	Append(activity *models.Activity) error
	ListByUser(userID string, limit int) ([]models.Activity, error)
}

// GORMActivityRepository is a GORM implementation of ActivityRepository.
type GORMActivityRepository struct {
	db *gorm.DB
}

// NewGORMActivityRepository creates a new instance of GORMActivityRepository.
func NewGORMActivityRepository(db *gorm.DB) *GORMActivityRepository {
	return &GORMActivityRepository{
		db: db,
	}
}

// Append writes a new activity record.
func (r *GORMActivityRepository) Append(activity *models.Activity) error {
	if activity.ID == "" {
		activity.ID = uuid.New().String()
	}
	if err := r.db.Create(activity).Error; err != nil {
		return fmt.Errorf("failed to append activity: %w", err)
	}
	return nil
}

// ListByUser returns a user's activities in reverse-chronological order.
func (r *GORMActivityRepository) ListByUser(userID string, limit int) ([]models.Activity, error) {
	var activities []models.Activity
	q := r.db.Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&activities).Error; err != nil {
		return nil, fmt.Errorf("failed to list activities for user %s: %w", userID, err)
	}
	return activities, nil
}
