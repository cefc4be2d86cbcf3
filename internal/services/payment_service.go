package services

import (
	"fmt"

	"pasar/internal/apperrors"
	"pasar/internal/models"
	"pasar/internal/repositories"

	"github.com/google/uuid"
)

// PaymentService handles payment intents and boost packages. The actual
// gateway lives behind the dispatch collaborator; here a demo client
// secret stands in for the provider handshake.
type PaymentService struct {
	repo     repositories.PaymentRepository
	recorder *ActivityService
	guard    Guard
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(repo repositories.PaymentRepository, recorder *ActivityService) *PaymentService {
	return &PaymentService{
		repo:     repo,
		recorder: recorder,
	}
}

// CreateIntent opens a pending payment and returns it with the provider
// reference the client completes against.
func (s *PaymentService) CreateIntent(actor *models.User, payment *models.Payment, origin Origin) error {
	if err := s.guard.Authorize(actor, Action{Resource: "payment", Op: OpCreate}); err != nil {
		return err
	}
	if payment.Amount <= 0 {
		return fmt.Errorf("amount must be positive: %w", apperrors.ErrValidationFailed)
	}
	if payment.Currency == "" {
		payment.Currency = "USD"
	}

	payment.ID = uuid.New().String()
	payment.UserID = actor.ID
	payment.Status = models.PaymentPending
	payment.ProviderRef = fmt.Sprintf("demo_secret_%s", payment.ID)
	if err := s.repo.Create(payment); err != nil {
		return err
	}

	s.recorder.Record(Event{
		ActorID:     actor.ID,
		Type:        models.ActivityPaymentMade,
		Description: fmt.Sprintf("Payment intent for %.2f %s", payment.Amount, payment.Currency),
		Origin:      origin,
		Metadata:    map[string]string{"payment_id": payment.ID},
	})
	return nil
}

// Confirm settles a pending payment. With no real gateway attached this
// plays the part of the provider callback: only the payer may confirm,
// and only once.
func (s *PaymentService) Confirm(actor *models.User, paymentID string, origin Origin) (*models.Payment, error) {
	payment, err := s.repo.GetByID(paymentID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Authorize(actor, Action{Resource: "payment", Op: OpUpdate, Target: payment}); err != nil {
		return nil, err
	}
	if payment.Status != models.PaymentPending {
		return nil, fmt.Errorf("payment %s is %s: %w", paymentID, payment.Status, apperrors.ErrConflict)
	}

	if err := s.repo.UpdateStatus(paymentID, models.PaymentCompleted); err != nil {
		return nil, err
	}
	payment.Status = models.PaymentCompleted

	s.recorder.Record(Event{
		ActorID:     actor.ID,
		Type:        models.ActivityPaymentMade,
		Description: fmt.Sprintf("Payment of %.2f %s completed", payment.Amount, payment.Currency),
		Origin:      origin,
		Metadata:    map[string]string{"payment_id": payment.ID, "status": payment.Status},
	})
	return payment, nil
}

// ListMine returns the actor's payments, newest first.
func (s *PaymentService) ListMine(actor *models.User) ([]models.Payment, error) {
	if err := s.guard.Authorize(actor, Action{Resource: "payment", Op: OpRead}); err != nil {
		return nil, err
	}
	return s.repo.ListByUser(actor.ID)
}

// ListBoostPackages returns the purchasable boost packages. Public.
func (s *PaymentService) ListBoostPackages() ([]models.BoostPackage, error) {
	return s.repo.ListBoostPackages()
}
