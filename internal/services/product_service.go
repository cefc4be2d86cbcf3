package services

import (
	"fmt"
	"log"

	"pasar/internal/apperrors"
	"pasar/internal/models"
	"pasar/internal/repositories"
)

// ProductService handles business logic related to product listings.
type ProductService struct {
	repo     repositories.ProductRepository
	recorder *ActivityService
	guard    Guard
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, recorder *ActivityService) *ProductService {
	return &ProductService{
		repo:     repo,
		recorder: recorder,
	}
}

// List retrieves all public listings: active and not deleted.
func (s *ProductService) List() ([]models.Product, error) {
	return s.repo.List()
}

// ListFeatured retrieves the featured public listings.
func (s *ProductService) ListFeatured() ([]models.Product, error) {
	return s.repo.ListFeatured()
}

// ListTrending retrieves the most viewed public listings.
func (s *ProductService) ListTrending(limit int) ([]models.Product, error) {
	return s.repo.ListTrending(limit)
}

// ListMine retrieves the actor's own listings, sold ones included.
func (s *ProductService) ListMine(actor *models.User) ([]models.Product, error) {
	if err := s.guard.Authorize(actor, Action{Resource: "product", Op: OpRead}); err != nil {
		return nil, err
	}
	return s.repo.ListBySeller(actor.ID)
}

// Get retrieves a single listing and counts the view unless the viewer is
// the seller. Inactive listings stay visible to their seller only.
func (s *ProductService) Get(id string, viewer *models.User, origin Origin) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	isOwner := viewer != nil && viewer.ID == product.SellerID
	if !product.IsActive && !isOwner {
		return nil, fmt.Errorf("product with ID %s: %w", id, apperrors.ErrNotFound)
	}
	if !isOwner {
		if err := s.repo.IncrementViews(id); err != nil {
			log.Printf("Warning: failed to count view on product %s: %v", id, err)
		} else {
			product.Views++
		}
		if viewer != nil {
			s.recorder.Record(Event{
				ActorID:     viewer.ID,
				Type:        models.ActivityProductView,
				Description: fmt.Sprintf("Viewed product %q", product.Title),
				Origin:      origin,
				Metadata:    map[string]string{"product_id": product.ID},
			})
		}
	}
	return product, nil
}

// GetAudit retrieves a listing regardless of soft-delete state. Owner
// only: this is the audit/restore path, not a public read.
func (s *ProductService) GetAudit(id string, actor *models.User) (*models.Product, error) {
	product, err := s.repo.GetByIDAnyState(id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Authorize(actor, Action{Resource: "product", Op: OpUpdate, Target: product}); err != nil {
		return nil, err
	}
	return product, nil
}

// Create publishes a new listing. Requires a verified, unbanned account.
func (s *ProductService) Create(actor *models.User, product *models.Product, origin Origin) error {
	if err := s.guard.Authorize(actor, Action{Resource: "product", Op: OpCreate, NeedsVerified: true}); err != nil {
		return err
	}

	product.SellerID = actor.ID
	product.IsActive = true
	product.IsSold = false
	if product.Condition == "" {
		product.Condition = models.ConditionUsed
	}
	if err := s.repo.Create(product); err != nil {
		return err
	}

	s.recorder.Record(Event{
		ActorID:     actor.ID,
		Type:        models.ActivityProductCreate,
		Description: fmt.Sprintf("Created product %q", product.Title),
		Origin:      origin,
		Metadata:    map[string]string{"product_id": product.ID},
	})
	return nil
}

// Update modifies a listing. Owner only.
func (s *ProductService) Update(actor *models.User, product *models.Product, origin Origin) error {
	current, err := s.repo.GetByID(product.ID)
	if err != nil {
		return err
	}
	if err := s.guard.Authorize(actor, Action{Resource: "product", Op: OpUpdate, Target: current}); err != nil {
		return err
	}

	// Only the listing's writable fields come from the caller. Ownership,
	// status flags, counters and timestamps always carry over from the
	// stored row, so an edit cannot re-list a sold item or wipe a boost.
	product.SellerID = current.SellerID
	product.IsActive = current.IsActive
	product.IsSold = current.IsSold
	product.IsFeatured = current.IsFeatured
	product.IsBoosted = current.IsBoosted
	product.BoostExpiresAt = current.BoostExpiresAt
	product.Views = current.Views
	product.Likes = current.Likes
	product.CreatedAt = current.CreatedAt
	product.SoftDelete = current.SoftDelete
	if err := s.repo.Update(product); err != nil {
		return err
	}

	s.recorder.Record(Event{
		ActorID:     actor.ID,
		Type:        models.ActivityProductUpdate,
		Description: fmt.Sprintf("Updated product %q", product.Title),
		Origin:      origin,
		Metadata:    map[string]string{"product_id": product.ID},
	})
	return nil
}

// SoftDelete retires a listing. Owner only, idempotent.
func (s *ProductService) SoftDelete(actor *models.User, id string, origin Origin) error {
	product, err := s.repo.GetByIDAnyState(id)
	if err != nil {
		return err
	}
	if err := s.guard.Authorize(actor, Action{Resource: "product", Op: OpDelete, Target: product}); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(id); err != nil {
		return err
	}

	s.recorder.Record(Event{
		ActorID:     actor.ID,
		Type:        models.ActivityProductDelete,
		Description: fmt.Sprintf("Deleted product %q", product.Title),
		Origin:      origin,
		Metadata:    map[string]string{"product_id": product.ID},
	})
	return nil
}

// Restore brings a soft-deleted listing back. Owner only, idempotent.
func (s *ProductService) Restore(actor *models.User, id string) error {
	product, err := s.repo.GetByIDAnyState(id)
	if err != nil {
		return err
	}
	if err := s.guard.Authorize(actor, Action{Resource: "product", Op: OpUpdate, Target: product}); err != nil {
		return err
	}
	return s.repo.Restore(id)
}

// HardDelete irreversibly removes a listing and its dependents. Owner
// only; the destructive path, rarely used.
func (s *ProductService) HardDelete(actor *models.User, id string, origin Origin) error {
	product, err := s.repo.GetByIDAnyState(id)
	if err != nil {
		return err
	}
	if err := s.guard.Authorize(actor, Action{Resource: "product", Op: OpDelete, Target: product}); err != nil {
		return err
	}
	if err := s.repo.HardDelete(id); err != nil {
		return err
	}

	s.recorder.Record(Event{
		ActorID:     actor.ID,
		Type:        models.ActivityProductDelete,
		Description: fmt.Sprintf("Permanently deleted product %q", product.Title),
		Origin:      origin,
		Metadata:    map[string]string{"product_id": product.ID},
	})
	return nil
}

// ToggleLike likes or unlikes a product for the actor and returns the
// resulting state and counter. A fresh like notifies the seller.
func (s *ProductService) ToggleLike(actor *models.User, productID string, origin Origin) (liked bool, likes uint, err error) {
	if err := s.guard.Authorize(actor, Action{Resource: "product_like", Op: OpCreate}); err != nil {
		return false, 0, err
	}
	product, err := s.repo.GetByID(productID)
	if err != nil {
		return false, 0, err
	}
	if !product.IsActive {
		return false, 0, fmt.Errorf("product with ID %s: %w", productID, apperrors.ErrNotFound)
	}

	hasLike, err := s.repo.HasLike(productID, actor.ID)
	if err != nil {
		return false, 0, err
	}
	if hasLike {
		count, err := s.repo.RemoveLike(productID, actor.ID)
		if err != nil {
			return false, 0, err
		}
		return false, count, nil
	}

	count, err := s.repo.AddLike(productID, actor.ID)
	if err != nil {
		return false, 0, err
	}
	s.recorder.Record(Event{
		ActorID:     actor.ID,
		Type:        models.ActivityProductLike,
		Description: fmt.Sprintf("Liked product %q", product.Title),
		Origin:      origin,
		Product:     product,
	})
	return true, count, nil
}

// MarkSold flags a listing as sold and deactivates it. Owner only.
func (s *ProductService) MarkSold(actor *models.User, productID string, origin Origin) error {
	product, err := s.repo.GetByID(productID)
	if err != nil {
		return err
	}
	if err := s.guard.Authorize(actor, Action{Resource: "product", Op: OpUpdate, Target: product}); err != nil {
		return err
	}
	if err := s.repo.MarkSold(productID); err != nil {
		return err
	}

	s.recorder.Record(Event{
		ActorID:     actor.ID,
		Type:        models.ActivityProductSold,
		Description: fmt.Sprintf("Marked product %q as sold", product.Title),
		Origin:      origin,
		Product:     product,
	})
	return nil
}
