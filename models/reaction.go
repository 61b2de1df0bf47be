package models

import "time"

// SubjectType indicates which content type a reaction is attached to.
type SubjectType string

const (
	SubjectPost    SubjectType = "post"
	SubjectComment SubjectType = "comment"
)

// Reaction kinds form a fixed closed set; anything else is rejected before it
// reaches the database.
const (
	ReactionLike  = "like"
	ReactionLove  = "love"
	ReactionLaugh = "laugh"
	ReactionWow   = "wow"
	ReactionSad   = "sad"
	ReactionAngry = "angry"
)

// ReactionKinds lists all valid kinds in display order.
var ReactionKinds = []string{ReactionLike, ReactionLove, ReactionLaugh, ReactionWow, ReactionSad, ReactionAngry}

// IsReactionKind reports whether kind belongs to the closed set.
func IsReactionKind(kind string) bool {
	for _, k := range ReactionKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Reaction holds at most one row per (subject, user). The unique index is the
// invariant: concurrent first-toggles race on the insert and the database
// rejects the loser, never the application layer.
type Reaction struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	SubjectType SubjectType `gorm:"size:10;not null;uniqueIndex:idx_reaction_subject_user" json:"subject_type"`
	SubjectID   string      `gorm:"size:100;not null;uniqueIndex:idx_reaction_subject_user" json:"subject_id"`
	UserID      string      `gorm:"size:64;not null;uniqueIndex:idx_reaction_subject_user" json:"user_id"`
	Kind        string      `gorm:"size:10;not null" json:"kind"`
	Anonymous   bool        `gorm:"not null;default:true" json:"anonymous"`
	DisplayName *string     `gorm:"size:40" json:"display_name"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
