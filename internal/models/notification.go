package models

import "time"

// Notification types form a closed enum. These are the only activity
// outcomes surfaced to users; everything else stays in the activity log.
const (
	NotificationMessage     = "message"
	NotificationProductLike = "product_like"
	NotificationProductSold = "product_sold"
	NotificationReview      = "review"
	NotificationSystem      = "system"
)

// Notification is a recipient-visible alert derived from selected
// activities. Mutable only through the unread -> read transition.
type Notification struct {
	ID               string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	RecipientID      string     `json:"recipient_id" gorm:"type:varchar(36);index:idx_notifications_recipient_read"`
	SenderID         string     `json:"sender_id,omitempty" gorm:"type:varchar(36)"`
	NotificationType string     `json:"notification_type" gorm:"type:varchar(20)"`
	Title            string     `json:"title" gorm:"type:varchar(255)"`
	Message          string     `json:"message"`
	IsRead           bool       `json:"is_read" gorm:"default:false;index:idx_notifications_recipient_read"`
	ReadAt           *time.Time `json:"read_at,omitempty"`

	// Optional links to the originating objects.
	ProductID      string `json:"product_id,omitempty" gorm:"type:varchar(36)"`
	ConversationID string `json:"conversation_id,omitempty" gorm:"type:varchar(36)"`

	Timestamps
	SoftDelete
}

// OwnerID implements Owned: only the recipient may act on a notification.
func (n *Notification) OwnerID() string { return n.RecipientID }
