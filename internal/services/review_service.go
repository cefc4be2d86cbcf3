package services

import (
	"fmt"

	"pasar/internal/apperrors"
	"pasar/internal/models"
	"pasar/internal/repositories"
)

// ReviewService handles business logic related to product reviews.
type ReviewService struct {
	repo        repositories.ReviewRepository
	productRepo repositories.ProductRepository
	recorder    *ActivityService
	guard       Guard
}

// NewReviewService creates a new ReviewService.
func NewReviewService(repo repositories.ReviewRepository, productRepo repositories.ProductRepository, recorder *ActivityService) *ReviewService {
	return &ReviewService{
		repo:        repo,
		productRepo: productRepo,
		recorder:    recorder,
	}
}

// Create writes a review for a product. One review per reviewer per
// product; the product's seller is notified.
func (s *ReviewService) Create(actor *models.User, review *models.Review, origin Origin) error {
	if err := s.guard.Authorize(actor, Action{Resource: "review", Op: OpCreate}); err != nil {
		return err
	}
	product, err := s.productRepo.GetByID(review.ProductID)
	if err != nil {
		return err
	}
	if actor.ID == product.SellerID {
		return fmt.Errorf("cannot review own product: %w", apperrors.ErrValidationFailed)
	}
	exists, err := s.repo.ExistsForProductAndReviewer(review.ProductID, actor.ID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("review for product %s already exists: %w", review.ProductID, apperrors.ErrConflict)
	}

	review.ReviewerID = actor.ID
	review.SellerID = product.SellerID
	if err := s.repo.Create(review); err != nil {
		return err
	}

	s.recorder.Record(Event{
		ActorID:     actor.ID,
		Type:        models.ActivityReviewCreate,
		Description: fmt.Sprintf("Reviewed product %q", product.Title),
		Origin:      origin,
		Metadata:    map[string]string{"review_id": review.ID},
		Product:     product,
	})
	return nil
}

// ListByProduct returns a product's live reviews. Public.
func (s *ReviewService) ListByProduct(productID string) ([]models.Review, error) {
	return s.repo.ListByProduct(productID)
}

// ListBySeller returns the reviews a seller has received. Public.
func (s *ReviewService) ListBySeller(sellerID string) ([]models.Review, error) {
	return s.repo.ListBySeller(sellerID)
}

// Get returns a live review. Public.
func (s *ReviewService) Get(id string) (*models.Review, error) {
	return s.repo.GetByID(id)
}

// GetAudit returns a review regardless of soft-delete state. Owner only.
func (s *ReviewService) GetAudit(id string, actor *models.User) (*models.Review, error) {
	review, err := s.repo.GetByIDAnyState(id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Authorize(actor, Action{Resource: "review", Op: OpUpdate, Target: review}); err != nil {
		return nil, err
	}
	return review, nil
}

// Update modifies a review. Owner only; product and seller references
// are immutable.
func (s *ReviewService) Update(actor *models.User, review *models.Review, origin Origin) error {
	current, err := s.repo.GetByID(review.ID)
	if err != nil {
		return err
	}
	if err := s.guard.Authorize(actor, Action{Resource: "review", Op: OpUpdate, Target: current}); err != nil {
		return err
	}

	current.Rating = review.Rating
	current.Title = review.Title
	current.Comment = review.Comment
	*review = *current
	return s.repo.Update(current)
}

// SoftDelete retires a review. Owner only, idempotent.
func (s *ReviewService) SoftDelete(actor *models.User, id string) error {
	review, err := s.repo.GetByIDAnyState(id)
	if err != nil {
		return err
	}
	if err := s.guard.Authorize(actor, Action{Resource: "review", Op: OpDelete, Target: review}); err != nil {
		return err
	}
	return s.repo.SoftDelete(id)
}

// Restore brings a soft-deleted review back. Owner only, idempotent.
func (s *ReviewService) Restore(actor *models.User, id string) error {
	review, err := s.repo.GetByIDAnyState(id)
	if err != nil {
		return err
	}
	if err := s.guard.Authorize(actor, Action{Resource: "review", Op: OpUpdate, Target: review}); err != nil {
		return err
	}
	return s.repo.Restore(id)
}
