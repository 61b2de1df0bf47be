package models

import "time"

// Comment is a reader comment on a post, identified by an opaque uuid.
// ParentID is nil for top-level comments; replies are one level deep only,
// which the comments service enforces on create.
type Comment struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	PostSlug  string    `gorm:"size:100;index;not null" json:"post_slug"`
	ParentID  *string   `gorm:"size:36;index" json:"parent_id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:255" json:"-"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Approved  bool      `gorm:"not null;default:false;index" json:"approved"`
	CreatedAt time.Time `json:"created_at"`
}
