package services_test

import (
	"testing"

	"pasar/internal/apperrors"
	"pasar/internal/models"
	"pasar/internal/services"

	"github.com/stretchr/testify/assert"
)

func TestGuardAnonymousAccess(t *testing.T) {
	guard := services.Guard{}

	// Anonymous public read is allowed
	err := guard.Authorize(nil, services.Action{Resource: "product", Op: services.OpRead, Public: true})
	assert.NoError(t, err)

	// Anonymous non-public read is denied
	err = guard.Authorize(nil, services.Action{Resource: "notification", Op: services.OpRead})
	assert.ErrorIs(t, err, apperrors.ErrAuthenticationRequired)

	// Anonymous mutation is denied even when marked public
	err = guard.Authorize(nil, services.Action{Resource: "product", Op: services.OpCreate, Public: true})
	assert.ErrorIs(t, err, apperrors.ErrAuthenticationRequired)
}

func TestGuardBannedUser(t *testing.T) {
	guard := services.Guard{}
	banned := &models.User{ID: "user-1", IsBanned: true, IsVerified: true}

	// Banned users may still read
	err := guard.Authorize(banned, services.Action{Resource: "product", Op: services.OpRead})
	assert.NoError(t, err)

	// Every mutating op is denied
	for _, op := range []string{services.OpCreate, services.OpUpdate, services.OpDelete} {
		err := guard.Authorize(banned, services.Action{Resource: "product", Op: op})
		assert.ErrorIs(t, err, apperrors.ErrAccountBanned, "op %s", op)
	}

	// The ban rule outranks the ownership rule: a banned owner is denied
	// as banned, not as non-owner
	owned := &models.Product{SellerID: "user-1"}
	err = guard.Authorize(banned, services.Action{Resource: "product", Op: services.OpDelete, Target: owned})
	assert.ErrorIs(t, err, apperrors.ErrAccountBanned)
}

func TestGuardOwnership(t *testing.T) {
	guard := services.Guard{}
	owner := &models.User{ID: "user-1", IsVerified: true}
	stranger := &models.User{ID: "user-2", IsVerified: true}
	product := &models.Product{SellerID: "user-1"}

	err := guard.Authorize(owner, services.Action{Resource: "product", Op: services.OpUpdate, Target: product})
	assert.NoError(t, err)

	err = guard.Authorize(stranger, services.Action{Resource: "product", Op: services.OpUpdate, Target: product})
	assert.ErrorIs(t, err, apperrors.ErrNotOwner)

	// Ownership only applies to mutations; reads with a target pass
	err = guard.Authorize(stranger, services.Action{Resource: "product", Op: services.OpRead, Target: product})
	assert.NoError(t, err)
}

func TestGuardVerificationRequirement(t *testing.T) {
	guard := services.Guard{}
	unverified := &models.User{ID: "user-1"}
	verified := &models.User{ID: "user-2", IsVerified: true}

	err := guard.Authorize(unverified, services.Action{Resource: "product", Op: services.OpCreate, NeedsVerified: true})
	assert.ErrorIs(t, err, apperrors.ErrVerificationRequired)

	err = guard.Authorize(verified, services.Action{Resource: "product", Op: services.OpCreate, NeedsVerified: true})
	assert.NoError(t, err)

	// Without the flag an unverified user may still mutate their own data
	err = guard.Authorize(unverified, services.Action{Resource: "account", Op: services.OpUpdate})
	assert.NoError(t, err)
}
