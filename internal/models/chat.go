package models

import "time"

// Conversation groups messages between two or more participants,
// optionally tied to a product listing.
type Conversation struct {
	ID        string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ProductID string `json:"product_id,omitempty" gorm:"type:varchar(36);index"`
	IsActive  bool   `json:"is_active" gorm:"default:true"`
	Timestamps
	SoftDelete

	Participants []ConversationParticipant `json:"participants,omitempty" gorm:"foreignKey:ConversationID"`
}

// ParticipantIDs returns the user ids of every participant.
func (c *Conversation) ParticipantIDs() []string {
	ids := make([]string, 0, len(c.Participants))
	for _, p := range c.Participants {
		ids = append(ids, p.UserID)
	}
	return ids
}

// HasParticipant reports whether the user takes part in the conversation.
func (c *Conversation) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// ConversationParticipant is the membership edge between a user and a
// conversation, unique per pair.
type ConversationParticipant struct {
	ID             string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ConversationID string    `json:"conversation_id" gorm:"type:varchar(36);uniqueIndex:idx_participant_pair"`
	UserID         string    `json:"user_id" gorm:"type:varchar(36);uniqueIndex:idx_participant_pair"`
	JoinedAt       time.Time `json:"joined_at" gorm:"autoCreateTime"`
}

// Message is a single message inside a conversation.
type Message struct {
	ID             string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ConversationID string     `json:"conversation_id" gorm:"type:varchar(36);index"`
	SenderID       string     `json:"sender_id" gorm:"type:varchar(36)"`
	Content        string     `json:"content" validate:"required"`
	IsRead         bool       `json:"is_read" gorm:"default:false"`
	ReadAt         *time.Time `json:"read_at,omitempty"`
	Timestamps
	SoftDelete
}

// OwnerID implements Owned: the sender owns the message.
func (m *Message) OwnerID() string { return m.SenderID }
