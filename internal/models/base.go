package models

import "time"

// Timestamps provides created/updated bookkeeping for every table.
type Timestamps struct {
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// SoftDelete marks rows as logically removed instead of dropping them.
// Read paths must filter on IsDeleted explicitly; there is no implicit
// query rewriting, so every repository method states whether it sees
// deleted rows.
type SoftDelete struct {
	IsDeleted bool       `json:"is_deleted" gorm:"default:false;index"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// MarkDeleted flags the row as deleted. Idempotent: a second call keeps
// the original deletion timestamp.
func (s *SoftDelete) MarkDeleted(now time.Time) bool {
	if s.IsDeleted {
		return false
	}
	s.IsDeleted = true
	s.DeletedAt = &now
	return true
}

// MarkRestored clears the deletion flag. Idempotent no-op for live rows.
func (s *SoftDelete) MarkRestored() bool {
	if !s.IsDeleted {
		return false
	}
	s.IsDeleted = false
	s.DeletedAt = nil
	return true
}
