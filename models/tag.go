package models

import "time"

// Tag associates a tag name with a post slug. The tag cloud is derived by
// grouping rows on name; rows are synced from post frontmatter on every write.
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:60;not null;uniqueIndex:idx_tag_name_slug" json:"name"`
	PostSlug  string    `gorm:"size:100;not null;index;uniqueIndex:idx_tag_name_slug" json:"post_slug"`
	CreatedAt time.Time `json:"created_at"`
}
