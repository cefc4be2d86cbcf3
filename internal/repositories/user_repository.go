package repositories

import "pasar/internal/models"

// UserRepository defines the interface for user data access, including the
// follow/block relation edges.
type UserRepository interface {
	Create(user *models.User) error
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	GetByVerificationToken(token string) (*models.User, error)
	Update(user *models.User) error

	Follow(followerID, followingID string) error
	Unfollow(followerID, followingID string) error
	Block(blockerID, blockedID, reason string) error
	Unblock(blockerID, blockedID string) error
	// IsBlockedBetween reports whether a block edge exists in either
	// direction between the two users.
	IsBlockedBetween(userA, userB string) (bool, error)
}
