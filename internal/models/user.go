package models

import "time"

// User represents an account on the marketplace.
type User struct {
	ID        string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username  string `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email     string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password  string `gorm:"type:varchar(255)" validate:"required,min=6"` // No json tag for security
	FirstName string `json:"first_name" gorm:"type:varchar(30)" validate:"omitempty,max=30"`
	LastName  string `json:"last_name" gorm:"type:varchar(30)" validate:"omitempty,max=30"`
	Phone     string `json:"phone_number" gorm:"type:varchar(20)"`
	Bio       string `json:"bio" gorm:"type:varchar(500)"`
	Location  string `json:"location" gorm:"type:varchar(100)"`

	// Verification state. An empty token/code means no code is issued.
	IsVerified             bool   `json:"is_verified" gorm:"default:false"`
	IsPhoneVerified        bool   `json:"is_phone_verified" gorm:"default:false"`
	EmailVerificationToken string `json:"-" gorm:"type:varchar(100)"`
	PhoneVerificationCode  string `json:"-" gorm:"type:varchar(6)"`

	// Account status
	IsActive    bool       `json:"is_active" gorm:"default:true"`
	IsBanned    bool       `json:"is_banned" gorm:"default:false"`
	BanReason   string     `json:"ban_reason,omitempty"`
	BannedUntil *time.Time `json:"banned_until,omitempty"`

	// Seller information
	IsSeller     bool    `json:"is_seller" gorm:"default:false"`
	SellerRating float64 `json:"seller_rating" gorm:"default:0"`
	TotalSales   uint    `json:"total_sales" gorm:"default:0"`

	LastActive time.Time `json:"last_active"`
	Timestamps
}

// DisplayName returns the full name when set, the username otherwise.
func (u *User) DisplayName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Username
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// IsActiveSeller reports whether the user can currently act as a seller.
func (u *User) IsActiveSeller() bool {
	return u.IsSeller && !u.IsBanned && u.IsVerified
}

// UserFollowing is a directed follow edge. The (follower, following) pair
// is unique.
type UserFollowing struct {
	ID          string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	FollowerID  string `json:"follower_id" gorm:"type:varchar(36);uniqueIndex:idx_follow_pair"`
	FollowingID string `json:"following_id" gorm:"type:varchar(36);uniqueIndex:idx_follow_pair"`
	Timestamps
}

// UserBlock is a directed block edge. A block suppresses messaging between
// the two users regardless of any follow relation.
type UserBlock struct {
	ID        string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	BlockerID string `json:"blocker_id" gorm:"type:varchar(36);uniqueIndex:idx_block_pair"`
	BlockedID string `json:"blocked_id" gorm:"type:varchar(36);uniqueIndex:idx_block_pair"`
	Reason    string `json:"reason,omitempty"`
	Timestamps
}
