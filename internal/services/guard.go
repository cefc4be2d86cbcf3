package services

import (
	"fmt"

	"pasar/internal/apperrors"
	"pasar/internal/models"
)

// Operations a guard decision can cover. Everything except OpRead is
// mutating.
const (
	OpRead   = "read"
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Owned is implemented by every entity carrying an owner reference, so
// ownership checks are written once and applied uniformly.
type Owned interface {
	OwnerID() string
}

// Action describes an attempted operation for authorization.
type Action struct {
	Resource string
	Op       string
	// Target is the owner-carrying entity being mutated, nil when the
	// operation has no such target (e.g. creation).
	Target Owned
	// Public marks read operations open to anonymous callers.
	Public bool
	// NeedsVerified marks actions reserved for verified identities.
	NeedsVerified bool
}

// Mutating reports whether the action changes state.
func (a Action) Mutating() bool {
	return a.Op != OpRead
}

// Guard produces authorization decisions. Rules are evaluated in order,
// first match wins:
//
//  1. anonymous actors may only perform public reads
//  2. banned users are denied every mutating operation
//  3. mutating an owned resource requires being its owner
//  4. some actions require a verified identity
//
// Seller promotion and ban/verify transitions have their own checks in
// AccountService on top of these.
type Guard struct{}

// Authorize returns nil to allow the action or a sentinel error naming
// the denial reason.
func (Guard) Authorize(actor *models.User, action Action) error {
	if actor == nil {
		if !action.Mutating() && action.Public {
			return nil
		}
		return fmt.Errorf("%s %s: %w", action.Op, action.Resource, apperrors.ErrAuthenticationRequired)
	}

	if actor.IsBanned && action.Mutating() {
		return fmt.Errorf("%s %s: %w", action.Op, action.Resource, apperrors.ErrAccountBanned)
	}

	if action.Mutating() && action.Target != nil && actor.ID != action.Target.OwnerID() {
		return fmt.Errorf("%s %s: %w", action.Op, action.Resource, apperrors.ErrNotOwner)
	}

	if action.NeedsVerified && !actor.IsVerified {
		return fmt.Errorf("%s %s: %w", action.Op, action.Resource, apperrors.ErrVerificationRequired)
	}

	return nil
}
