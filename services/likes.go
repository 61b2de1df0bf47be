package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"inkwell/models"
	"inkwell/posts"
)

// LikeState is the like counter for a post plus the viewer's own state.
type LikeState struct {
	Count int64 `json:"count"`
	Liked bool  `json:"liked"`
}

// LikeService implements the simple one-per-user post like, kept apart from
// the richer reaction kinds so old clients keep working.
type LikeService struct {
	db *gorm.DB
}

func NewLikeService(db *gorm.DB) *LikeService {
	return &LikeService{db: db}
}

// Toggle flips the viewer's like on a post and returns the resulting state.
func (s *LikeService) Toggle(ctx context.Context, slug, userID string) (*LikeState, error) {
	if !posts.ValidSlug(slug) {
		return nil, &ValidationError{Fields: map[string][]string{"slug": {"invalid slug"}}}
	}
	if userID == "" {
		return nil, &ValidationError{Fields: map[string][]string{"user": {"missing user identity"}}}
	}

	liked := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.PostLike
		err := tx.Where("post_slug = ? AND user_id = ?", slug, userID).First(&existing).Error
		switch {
		case err == nil:
			return tx.Delete(&existing).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			liked = true
			row := models.PostLike{PostSlug: slug, UserID: userID}
			if cerr := tx.Create(&row).Error; cerr != nil {
				if errors.Is(cerr, gorm.ErrDuplicatedKey) {
					// Concurrent like already landed; treat as already liked.
					return nil
				}
				return cerr
			}
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}

	state, err := s.State(ctx, slug, userID)
	if err != nil {
		return nil, err
	}
	state.Liked = liked
	return state, nil
}

// State returns the like count and whether the viewer has liked the post.
func (s *LikeService) State(ctx context.Context, slug, userID string) (*LikeState, error) {
	if !posts.ValidSlug(slug) {
		return nil, &ValidationError{Fields: map[string][]string{"slug": {"invalid slug"}}}
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.PostLike{}).
		Where("post_slug = ?", slug).Count(&count).Error; err != nil {
		return nil, err
	}

	state := &LikeState{Count: count}
	if userID != "" {
		var n int64
		if err := s.db.WithContext(ctx).Model(&models.PostLike{}).
			Where("post_slug = ? AND user_id = ?", slug, userID).Count(&n).Error; err != nil {
			return nil, err
		}
		state.Liked = n > 0
	}
	return state, nil
}
