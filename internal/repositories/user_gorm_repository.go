package repositories

import (
	"errors"
	"fmt"

	"pasar/internal/apperrors"
	"pasar/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByUsername retrieves a user by their username from the database.
func (r *GORMUserRepository) GetByUsername(username string) (*models.User, error) {
	return r.getOne("username = ?", username)
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	return r.getOne("email = ?", email)
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(id string) (*models.User, error) {
	return r.getOne("id = ?", id)
}

// GetByVerificationToken retrieves the user holding an outstanding email
// verification token. A consumed token matches no row.
func (r *GORMUserRepository) GetByVerificationToken(token string) (*models.User, error) {
	if token == "" {
		return nil, fmt.Errorf("user lookup with empty token: %w", apperrors.ErrNotFound)
	}
	return r.getOne("email_verification_token = ?", token)
}

func (r *GORMUserRepository) getOne(query string, arg any) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s %v: %w", query, arg, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by %s: %w", query, err)
	}
	return &user, nil
}

// Update persists every field of the user, including zero values.
func (r *GORMUserRepository) Update(user *models.User) error {
	res := r.db.Save(user)
	if res.Error != nil {
		return fmt.Errorf("failed to update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user with ID %s: %w", user.ID, apperrors.ErrNotFound)
	}
	return nil
}

// Follow creates a directed follow edge. A duplicate pair is a conflict.
func (r *GORMUserRepository) Follow(followerID, followingID string) error {
	var count int64
	if err := r.db.Model(&models.UserFollowing{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check follow edge: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("already following user %s: %w", followingID, apperrors.ErrConflict)
	}
	edge := models.UserFollowing{
		ID:          uuid.New().String(),
		FollowerID:  followerID,
		FollowingID: followingID,
	}
	if err := r.db.Create(&edge).Error; err != nil {
		return fmt.Errorf("failed to create follow edge: %w", err)
	}
	return nil
}

// Unfollow removes the follow edge if present.
func (r *GORMUserRepository) Unfollow(followerID, followingID string) error {
	res := r.db.Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.UserFollowing{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete follow edge: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("not following user %s: %w", followingID, apperrors.ErrNotFound)
	}
	return nil
}

// Block creates a directed block edge. A duplicate pair is a conflict.
func (r *GORMUserRepository) Block(blockerID, blockedID, reason string) error {
	var count int64
	if err := r.db.Model(&models.UserBlock{}).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check block edge: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("already blocked user %s: %w", blockedID, apperrors.ErrConflict)
	}
	edge := models.UserBlock{
		ID:        uuid.New().String(),
		BlockerID: blockerID,
		BlockedID: blockedID,
		Reason:    reason,
	}
	if err := r.db.Create(&edge).Error; err != nil {
		return fmt.Errorf("failed to create block edge: %w", err)
	}
	return nil
}

// Unblock removes the block edge if present.
func (r *GORMUserRepository) Unblock(blockerID, blockedID string) error {
	res := r.db.Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&models.UserBlock{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete block edge: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user %s is not blocked: %w", blockedID, apperrors.ErrNotFound)
	}
	return nil
}

// IsBlockedBetween reports whether either user blocks the other.
func (r *GORMUserRepository) IsBlockedBetween(userA, userB string) (bool, error) {
	var count int64
	err := r.db.Model(&models.UserBlock{}).
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)",
			userA, userB, userB, userA).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check block edges: %w", err)
	}
	return count > 0, nil
}
