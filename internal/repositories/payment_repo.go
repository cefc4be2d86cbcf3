package repositories

import (
	"errors"
	"fmt"

	"pasar/internal/apperrors"
	"pasar/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentRepository defines the interface for payment and boost package
// data access.
type PaymentRepository interface {
	Create(payment *models.Payment) error
	GetByID(id string) (*models.Payment, error)
	ListByUser(userID string) ([]models.Payment, error)
	UpdateStatus(id, status string) error
	ListBoostPackages() ([]models.BoostPackage, error)
	CreateBoostPackage(pkg *models.BoostPackage) error
}

// GORMPaymentRepository is a GORM implementation of PaymentRepository.
type GORMPaymentRepository struct {
	db *gorm.DB
}

// NewGORMPaymentRepository creates a new instance of GORMPaymentRepository.
func NewGORMPaymentRepository(db *gorm.DB) *GORMPaymentRepository {
	return &GORMPaymentRepository{
		db: db,
	}
}

// Create writes a new payment record.
func (r *GORMPaymentRepository) Create(payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	if err := r.db.Create(payment).Error; err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

// GetByID retrieves a non-deleted payment by its ID.
func (r *GORMPaymentRepository) GetByID(id string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.Where("is_deleted = ?", false).First(&payment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("payment with ID %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get payment by ID %s: %w", id, err)
	}
	return &payment, nil
}

// ListByUser returns the user's non-deleted payments, newest first.
func (r *GORMPaymentRepository) ListByUser(userID string) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("created_at DESC").
		Find(&payments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list payments for %s: %w", userID, err)
	}
	return payments, nil
}

// UpdateStatus moves a payment to a new status.
func (r *GORMPaymentRepository) UpdateStatus(id, status string) error {
	res := r.db.Model(&models.Payment{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update payment status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("payment with ID %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

// ListBoostPackages returns the active boost packages, cheapest first.
func (r *GORMPaymentRepository) ListBoostPackages() ([]models.BoostPackage, error) {
	var packages []models.BoostPackage
	err := r.db.Where("is_active = ?", true).Order("price ASC").Find(&packages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list boost packages: %w", err)
	}
	return packages, nil
}

// CreateBoostPackage writes a new boost package.
func (r *GORMPaymentRepository) CreateBoostPackage(pkg *models.BoostPackage) error {
	if pkg.ID == "" {
		pkg.ID = uuid.New().String()
	}
	if err := r.db.Create(pkg).Error; err != nil {
		return fmt.Errorf("failed to create boost package: %w", err)
	}
	return nil
}
