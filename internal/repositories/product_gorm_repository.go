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

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// List retrieves all active, non-deleted products, newest first.
func (r *GORMProductRepository) List() ([]models.Product, error) {
	var products []models.Product
	err := r.db.Where("is_active = ? AND is_deleted = ?", true, false).
		Order("created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// ListBySeller retrieves a seller's non-deleted products, sold or not.
func (r *GORMProductRepository) ListBySeller(sellerID string) ([]models.Product, error) {
	var products []models.Product
	err := r.db.Where("seller_id = ? AND is_deleted = ?", sellerID, false).
		Order("created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products for seller %s: %w", sellerID, err)
	}
	return products, nil
}

// ListFeatured retrieves active, featured, non-deleted products.
func (r *GORMProductRepository) ListFeatured() ([]models.Product, error) {
	var products []models.Product
	err := r.db.Where("is_active = ? AND is_featured = ? AND is_deleted = ?", true, true, false).
		Order("created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list featured products: %w", err)
	}
	return products, nil
}

// ListTrending retrieves the most viewed active, non-deleted products.
func (r *GORMProductRepository) ListTrending(limit int) ([]models.Product, error) {
	var products []models.Product
	err := r.db.Where("is_active = ? AND is_deleted = ?", true, false).
		Order("views DESC, created_at DESC").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list trending products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single non-deleted product by its ID.
func (r *GORMProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	err := r.db.Where("is_deleted = ?", false).First(&product, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with ID %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// GetByIDAnyState retrieves a product regardless of its soft-delete flag.
// Audit/restore path only.
func (r *GORMProductRepository) GetByIDAnyState(id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with ID %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update updates an existing product in the database.
func (r *GORMProductRepository) Update(product *models.Product) error {
	res := r.db.Save(product) // Save will update all fields, including zero values
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s: %w", product.ID, apperrors.ErrNotFound)
	}
	return nil
}

// SoftDelete flags the product as deleted. Idempotent: deleting an
// already deleted product succeeds without touching deleted_at.
func (r *GORMProductRepository) SoftDelete(id string) error {
	if _, err := r.GetByIDAnyState(id); err != nil {
		return err
	}
	err := r.db.Model(&models.Product{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]any{"is_deleted": true, "deleted_at": time.Now()}).Error
	if err != nil {
		return fmt.Errorf("failed to soft delete product %s: %w", id, err)
	}
	return nil
}

// Restore clears the soft-delete flag. Idempotent no-op for live rows.
func (r *GORMProductRepository) Restore(id string) error {
	if _, err := r.GetByIDAnyState(id); err != nil {
		return err
	}
	err := r.db.Model(&models.Product{}).
		Where("id = ? AND is_deleted = ?", id, true).
		Updates(map[string]any{"is_deleted": false, "deleted_at": nil}).Error
	if err != nil {
		return fmt.Errorf("failed to restore product %s: %w", id, err)
	}
	return nil
}

// HardDelete physically removes the product and its dependent rows
// (images, likes, reviews) in a single transaction.
func (r *GORMProductRepository) HardDelete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductImage{}).Error; err != nil {
			return fmt.Errorf("failed to delete images of product %s: %w", id, err)
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductLike{}).Error; err != nil {
			return fmt.Errorf("failed to delete likes of product %s: %w", id, err)
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return fmt.Errorf("failed to delete reviews of product %s: %w", id, err)
		}
		res := tx.Delete(&models.Product{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete product %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("product with ID %s: %w", id, apperrors.ErrNotFound)
		}
		return nil
	})
}

// IncrementViews bumps the view counter with a single atomic SQL update.
func (r *GORMProductRepository) IncrementViews(id string) error {
	err := r.db.Model(&models.Product{}).
		Where("id = ? AND is_deleted = ?", id, false).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
	if err != nil {
		return fmt.Errorf("failed to increment views of product %s: %w", id, err)
	}
	return nil
}

// MarkSold flags the product as sold and deactivates the listing.
func (r *GORMProductRepository) MarkSold(id string) error {
	res := r.db.Model(&models.Product{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]any{"is_sold": true, "is_active": false})
	if res.Error != nil {
		return fmt.Errorf("failed to mark product %s sold: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

// AddLike creates (or revives) the like edge and bumps the counter in one
// transaction. A live duplicate is a conflict.
func (r *GORMProductRepository) AddLike(productID, userID string) (uint, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.ProductLike
		err := tx.First(&existing, "product_id = ? AND user_id = ?", productID, userID).Error
		switch {
		case err == nil && !existing.IsDeleted:
			return fmt.Errorf("product %s already liked: %w", productID, apperrors.ErrConflict)
		case err == nil:
			// Unliked earlier; revive the edge instead of inserting a
			// second row under the unique pair index.
			revive := tx.Model(&models.ProductLike{}).
				Where("id = ? AND is_deleted = ?", existing.ID, true).
				Updates(map[string]any{"is_deleted": false, "deleted_at": nil})
			if revive.Error != nil {
				return fmt.Errorf("failed to revive like: %w", revive.Error)
			}
			if revive.RowsAffected == 0 {
				return fmt.Errorf("product %s already liked: %w", productID, apperrors.ErrConflict)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			like := models.ProductLike{
				ID:        uuid.New().String(),
				ProductID: productID,
				UserID:    userID,
			}
			if err := tx.Create(&like).Error; err != nil {
				return fmt.Errorf("failed to create like: %w", err)
			}
		default:
			return fmt.Errorf("failed to check like: %w", err)
		}
		return tx.Model(&models.Product{}).
			Where("id = ?", productID).
			UpdateColumn("likes", gorm.Expr("likes + ?", 1)).Error
	})
	if err != nil {
		return 0, err
	}
	return r.likesCount(productID)
}

// RemoveLike soft-deletes the like edge and decrements the counter in one
// transaction.
func (r *GORMProductRepository) RemoveLike(productID, userID string) (uint, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.ProductLike{}).
			Where("product_id = ? AND user_id = ? AND is_deleted = ?", productID, userID, false).
			Updates(map[string]any{"is_deleted": true, "deleted_at": time.Now()})
		if res.Error != nil {
			return fmt.Errorf("failed to remove like: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("like on product %s: %w", productID, apperrors.ErrNotFound)
		}
		return tx.Model(&models.Product{}).
			Where("id = ? AND likes > 0", productID).
			UpdateColumn("likes", gorm.Expr("likes - ?", 1)).Error
	})
	if err != nil {
		return 0, err
	}
	return r.likesCount(productID)
}

// HasLike reports whether the user currently likes the product.
func (r *GORMProductRepository) HasLike(productID, userID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.ProductLike{}).
		Where("product_id = ? AND user_id = ? AND is_deleted = ?", productID, userID, false).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check like: %w", err)
	}
	return count > 0, nil
}

// CountLikes counts the live like rows for a product.
func (r *GORMProductRepository) CountLikes(productID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.ProductLike{}).
		Where("product_id = ? AND is_deleted = ?", productID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}
	return count, nil
}

func (r *GORMProductRepository) likesCount(productID string) (uint, error) {
	var product models.Product
	if err := r.db.Select("likes").First(&product, "id = ?", productID).Error; err != nil {
		return 0, fmt.Errorf("failed to read likes counter: %w", err)
	}
	return product.Likes, nil
}
