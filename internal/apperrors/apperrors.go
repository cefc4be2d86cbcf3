package apperrors

import "errors"

// Sentinel errors for guard decisions and domain failures. Services wrap
// these with fmt.Errorf("...: %w", err) to add context; handlers match
// with errors.Is to pick the HTTP status.
var (
	// ErrAuthenticationRequired denies anonymous access to non-public
	// operations.
	ErrAuthenticationRequired = errors.New("authentication required")

	// ErrAccountBanned denies every mutating operation of a banned user.
	ErrAccountBanned = errors.New("account banned")

	// ErrNotOwner denies mutation of a resource the actor does not own.
	ErrNotOwner = errors.New("not the owner of this resource")

	// ErrVerificationRequired denies actions reserved for verified users.
	ErrVerificationRequired = errors.New("email verification required")

	// ErrAlreadySeller rejects a repeated seller promotion.
	ErrAlreadySeller = errors.New("already a seller")

	// ErrInvalidCode rejects a mismatched or consumed verification code.
	ErrInvalidCode = errors.New("invalid verification code")

	// ErrAlreadyVerified rejects verification of an already verified
	// identity.
	ErrAlreadyVerified = errors.New("already verified")

	// ErrNotFound marks resources that are absent or soft-deleted on a
	// default read path.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks uniqueness violations: duplicate like, follow,
	// block or review.
	ErrConflict = errors.New("conflict")

	// ErrValidationFailed marks malformed input.
	ErrValidationFailed = errors.New("validation failed")
)
