package models

import "time"

// PostLike is the one-bit predecessor of Reaction, kept as its own table for
// backward compatibility with clients that still call the like endpoint.
type PostLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostSlug  string    `gorm:"size:100;not null;uniqueIndex:idx_like_post_user" json:"post_slug"`
	UserID    string    `gorm:"size:64;not null;uniqueIndex:idx_like_post_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
