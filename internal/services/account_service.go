package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"pasar/internal/apperrors"
	"pasar/internal/models"
	"pasar/internal/repositories"

	"github.com/google/uuid"
)

// AccountService owns the user state machines: verification, ban, seller
// promotion, follow/block relations and account anonymization. Ban,
// unban and the verify transitions are privileged: they are invoked by
// trusted internal flows (token redemption, moderation), never exposed
// to arbitrary callers directly.
type AccountService struct {
	userRepo repositories.UserRepository
	recorder *ActivityService
	guard    Guard
}

// NewAccountService creates a new AccountService.
func NewAccountService(userRepo repositories.UserRepository, recorder *ActivityService) *AccountService {
	return &AccountService{
		userRepo: userRepo,
		recorder: recorder,
	}
}

// VerifyEmail redeems a single-use verification token. The token is
// cleared on success, so presenting it again fails.
func (s *AccountService) VerifyEmail(token string, origin Origin) (*models.User, error) {
	user, err := s.userRepo.GetByVerificationToken(token)
	if err != nil {
		return nil, fmt.Errorf("verification token lookup: %w", apperrors.ErrInvalidCode)
	}
	if user.IsVerified {
		return nil, fmt.Errorf("email of %s: %w", user.ID, apperrors.ErrAlreadyVerified)
	}

	user.IsVerified = true
	user.EmailVerificationToken = ""
	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to verify email: %w", err)
	}

	s.recorder.Record(Event{
		ActorID:     user.ID,
		Type:        models.ActivityEmailVerification,
		Description: "User verified email",
		Origin:      origin,
	})
	return user, nil
}

// SendPhoneCode stores the phone number and issues a fresh single-use
// 6-digit code, returned for the SMS collaborator.
func (s *AccountService) SendPhoneCode(actor *models.User, phoneNumber string, origin Origin) (string, error) {
	if err := s.guard.Authorize(actor, Action{Resource: "account", Op: OpUpdate}); err != nil {
		return "", err
	}
	if actor.IsPhoneVerified {
		return "", fmt.Errorf("phone of %s: %w", actor.ID, apperrors.ErrAlreadyVerified)
	}

	// The code guards the phone-verified transition, so it comes from the
	// CSPRNG rather than a seeded generator.
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate phone code: %w", err)
	}
	code := fmt.Sprintf("%06d", n.Int64())
	actor.Phone = phoneNumber
	actor.PhoneVerificationCode = code
	if err := s.userRepo.Update(actor); err != nil {
		return "", fmt.Errorf("failed to store phone code: %w", err)
	}
	return code, nil
}

// VerifyPhone redeems the outstanding phone code. A mismatch keeps the
// code issued; success clears it so reuse fails.
func (s *AccountService) VerifyPhone(actor *models.User, code string, origin Origin) error {
	if err := s.guard.Authorize(actor, Action{Resource: "account", Op: OpUpdate}); err != nil {
		return err
	}
	if actor.IsPhoneVerified {
		return fmt.Errorf("phone of %s: %w", actor.ID, apperrors.ErrAlreadyVerified)
	}
	if actor.PhoneVerificationCode == "" || actor.PhoneVerificationCode != code {
		return fmt.Errorf("phone code mismatch: %w", apperrors.ErrInvalidCode)
	}

	actor.IsPhoneVerified = true
	actor.PhoneVerificationCode = ""
	if err := s.userRepo.Update(actor); err != nil {
		return fmt.Errorf("failed to verify phone: %w", err)
	}

	s.recorder.Record(Event{
		ActorID:     actor.ID,
		Type:        models.ActivityPhoneVerification,
		Description: "User verified phone number",
		Origin:      origin,
	})
	return nil
}

// BecomeSeller promotes a verified user to seller. The transition is
// one-way; there is no demotion.
func (s *AccountService) BecomeSeller(actor *models.User, origin Origin) error {
	if err := s.guard.Authorize(actor, Action{Resource: "account", Op: OpUpdate, NeedsVerified: true}); err != nil {
		return err
	}
	if actor.IsSeller {
		return fmt.Errorf("user %s: %w", actor.ID, apperrors.ErrAlreadySeller)
	}

	actor.IsSeller = true
	if err := s.userRepo.Update(actor); err != nil {
		return fmt.Errorf("failed to promote seller: %w", err)
	}

	s.recorder.Record(Event{
		ActorID:     actor.ID,
		Type:        models.ActivityBecomeSeller,
		Description: "User became a seller",
		Origin:      origin,
	})
	s.recorder.NotifySystem(actor.ID, "Welcome, seller!", "Your account can now publish listings.")
	return nil
}

// UpdateProfile applies profile field changes for the actor.
func (s *AccountService) UpdateProfile(actor *models.User, origin Origin) error {
	if err := s.guard.Authorize(actor, Action{Resource: "account", Op: OpUpdate}); err != nil {
		return err
	}
	if err := s.userRepo.Update(actor); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	s.recorder.Record(Event{
		ActorID:     actor.ID,
		Type:        models.ActivityProfileUpdate,
		Description: "User updated profile",
		Origin:      origin,
	})
	return nil
}

// Ban flags the user as banned. Privileged, trusted callers only.
func (s *AccountService) Ban(userID, reason string, until *time.Time) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	user.IsBanned = true
	user.BanReason = reason
	user.BannedUntil = until
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to ban user %s: %w", userID, err)
	}
	return nil
}

// Unban clears the ban flags. Privileged, trusted callers only.
func (s *AccountService) Unban(userID string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	user.IsBanned = false
	user.BanReason = ""
	user.BannedUntil = nil
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to unban user %s: %w", userID, err)
	}
	return nil
}

// DeleteAccount anonymizes the account: the row stays for referential
// integrity, the email becomes a fresh random marker that cannot collide
// with any earlier deletion, and the account stops authenticating.
func (s *AccountService) DeleteAccount(actor *models.User, origin Origin) error {
	if err := s.guard.Authorize(actor, Action{Resource: "account", Op: OpDelete}); err != nil {
		return err
	}

	s.recorder.Record(Event{
		ActorID:     actor.ID,
		Type:        models.ActivityAccountDeletion,
		Description: "User deleted account",
		Origin:      origin,
	})

	actor.IsActive = false
	actor.Email = fmt.Sprintf("deleted-%s@invalid.local", uuid.New().String())
	if err := s.userRepo.Update(actor); err != nil {
		return fmt.Errorf("failed to anonymize account: %w", err)
	}
	return nil
}

// GetPublicProfile returns another user's profile. Anonymized accounts
// are gone from the public surface.
func (s *AccountService) GetPublicProfile(userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, fmt.Errorf("user %s: %w", userID, apperrors.ErrNotFound)
	}
	return user, nil
}

// Follow creates a follow edge from the actor to the target.
func (s *AccountService) Follow(actor *models.User, targetID string) error {
	if err := s.relationGuard(actor, targetID); err != nil {
		return err
	}
	return s.userRepo.Follow(actor.ID, targetID)
}

// Unfollow removes the follow edge.
func (s *AccountService) Unfollow(actor *models.User, targetID string) error {
	if err := s.guard.Authorize(actor, Action{Resource: "relation", Op: OpDelete}); err != nil {
		return err
	}
	return s.userRepo.Unfollow(actor.ID, targetID)
}

// Block creates a block edge from the actor to the target. A block
// suppresses messaging in both directions regardless of follow state.
func (s *AccountService) Block(actor *models.User, targetID, reason string) error {
	if err := s.relationGuard(actor, targetID); err != nil {
		return err
	}
	return s.userRepo.Block(actor.ID, targetID, reason)
}

// Unblock removes the block edge.
func (s *AccountService) Unblock(actor *models.User, targetID string) error {
	if err := s.guard.Authorize(actor, Action{Resource: "relation", Op: OpDelete}); err != nil {
		return err
	}
	return s.userRepo.Unblock(actor.ID, targetID)
}

func (s *AccountService) relationGuard(actor *models.User, targetID string) error {
	if err := s.guard.Authorize(actor, Action{Resource: "relation", Op: OpCreate}); err != nil {
		return err
	}
	if actor.ID == targetID {
		return fmt.Errorf("cannot target own account: %w", apperrors.ErrValidationFailed)
	}
	if _, err := s.GetPublicProfile(targetID); err != nil {
		return err
	}
	return nil
}
