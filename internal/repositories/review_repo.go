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

// ReviewRepository defines the interface for review data access.
type ReviewRepository interface {
	Create(review *models.Review) error
	GetByID(id string) (*models.Review, error)
	GetByIDAnyState(id string) (*models.Review, error)
	ListByProduct(productID string) ([]models.Review, error)
	ListBySeller(sellerID string) ([]models.Review, error)
	Update(review *models.Review) error
	SoftDelete(id string) error
	Restore(id string) error
	ExistsForProductAndReviewer(productID, reviewerID string) (bool, error)
}

// GORMReviewRepository is a GORM implementation of ReviewRepository.
type GORMReviewRepository struct {
	db *gorm.DB
}

// NewGORMReviewRepository creates a new instance of GORMReviewRepository.
func NewGORMReviewRepository(db *gorm.DB) *GORMReviewRepository {
	return &GORMReviewRepository{
		db: db,
	}
}

// Create writes a new review.
func (r *GORMReviewRepository) Create(review *models.Review) error {
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	if err := r.db.Create(review).Error; err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

// GetByID retrieves a non-deleted review by its ID.
func (r *GORMReviewRepository) GetByID(id string) (*models.Review, error) {
	var review models.Review
	err := r.db.Where("is_deleted = ?", false).First(&review, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("review with ID %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get review by ID %s: %w", id, err)
	}
	return &review, nil
}

// GetByIDAnyState retrieves a review regardless of its soft-delete flag.
// Audit/restore path only.
func (r *GORMReviewRepository) GetByIDAnyState(id string) (*models.Review, error) {
	var review models.Review
	if err := r.db.First(&review, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("review with ID %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get review by ID %s: %w", id, err)
	}
	return &review, nil
}

// ListByProduct returns a product's non-deleted reviews, newest first.
func (r *GORMReviewRepository) ListByProduct(productID string) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.Where("product_id = ? AND is_deleted = ?", productID, false).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews for product %s: %w", productID, err)
	}
	return reviews, nil
}

// ListBySeller returns a seller's received non-deleted reviews.
func (r *GORMReviewRepository) ListBySeller(sellerID string) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.Where("seller_id = ? AND is_deleted = ?", sellerID, false).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews for seller %s: %w", sellerID, err)
	}
	return reviews, nil
}

// Update persists every field of the review.
func (r *GORMReviewRepository) Update(review *models.Review) error {
	res := r.db.Save(review)
	if res.Error != nil {
		return fmt.Errorf("failed to update review: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("review with ID %s: %w", review.ID, apperrors.ErrNotFound)
	}
	return nil
}

// SoftDelete flags the review as deleted, idempotently.
func (r *GORMReviewRepository) SoftDelete(id string) error {
	if _, err := r.GetByIDAnyState(id); err != nil {
		return err
	}
	err := r.db.Model(&models.Review{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]any{"is_deleted": true, "deleted_at": time.Now()}).Error
	if err != nil {
		return fmt.Errorf("failed to soft delete review %s: %w", id, err)
	}
	return nil
}

// Restore clears the soft-delete flag, idempotently.
func (r *GORMReviewRepository) Restore(id string) error {
	if _, err := r.GetByIDAnyState(id); err != nil {
		return err
	}
	err := r.db.Model(&models.Review{}).
		Where("id = ? AND is_deleted = ?", id, true).
		Updates(map[string]any{"is_deleted": false, "deleted_at": nil}).Error
	if err != nil {
		return fmt.Errorf("failed to restore review %s: %w", id, err)
	}
	return nil
}

// ExistsForProductAndReviewer reports whether the reviewer already has a
// live review for the product.
func (r *GORMReviewRepository) ExistsForProductAndReviewer(productID, reviewerID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Review{}).
		Where("product_id = ? AND reviewer_id = ? AND is_deleted = ?", productID, reviewerID, false).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check review uniqueness: %w", err)
	}
	return count > 0, nil
}
