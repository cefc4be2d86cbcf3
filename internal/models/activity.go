package models

import "time"

// Activity types form a closed enum. Only a fixed subset of them
// produces notifications; the recorder owns that mapping.
const (
	ActivityLogin             = "login"
	ActivityLogout            = "logout"
	ActivityRegistration      = "registration"
	ActivityProductView       = "product_view"
	ActivityProductCreate     = "product_create"
	ActivityProductUpdate     = "product_update"
	ActivityProductDelete     = "product_delete"
	ActivityMessageSend       = "message_send"
	ActivityReviewCreate      = "review_create"
	ActivityPaymentMade       = "payment_made"
	ActivityProfileUpdate     = "profile_update"
	ActivityPasswordChange    = "password_change"
	ActivityEmailVerification = "email_verification"
	ActivityPhoneVerification = "phone_verification"
	ActivityBecomeSeller      = "become_seller"
	ActivityAccountDeletion   = "account_deletion"
	ActivityProductLike       = "product_like"
	ActivityProductSold       = "product_sold"
)

// Activity is an append-only record of a user action, kept for analytics
// and security review. Rows are never updated or deleted.
type Activity struct {
	ID           string            `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID       string            `json:"user_id" gorm:"type:varchar(36);index"`
	ActivityType string            `json:"activity_type" gorm:"type:varchar(50);index"`
	Description  string            `json:"description"`
	IPAddress    string            `json:"ip_address,omitempty" gorm:"type:varchar(45)"`
	UserAgent    string            `json:"user_agent,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty" gorm:"serializer:json"`
	CreatedAt    time.Time         `json:"created_at" gorm:"autoCreateTime;index"`
}

// OwnerID implements Owned: activities are visible only to the user they
// reference.
func (a *Activity) OwnerID() string { return a.UserID }
