package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"inkwell/models"
	"inkwell/posts"
	"inkwell/utils"
)

// PostChecker answers whether a post exists for a slug. Satisfied by the
// file-backed post store.
type PostChecker interface {
	Exists(slug string) bool
}

// CreateCommentInput is a visitor submission.
type CreateCommentInput struct {
	PostSlug string
	ParentID string
	Name     string
	Email    string
	Message  string
}

// CommentView is a comment as shown to readers, with its replies and
// reaction aggregate attached.
type CommentView struct {
	models.Comment
	Replies   []*CommentView   `json:"replies,omitempty"`
	Reactions *ReactionSummary `json:"reactions,omitempty"`
}

// CommentService implements the two-level comment thread with an approval
// gate on the public read path.
type CommentService struct {
	db         *gorm.DB
	reactions  *ReactionService
	postStore  PostChecker
	notifier   *Notifier
	moderation bool
}

func NewCommentService(db *gorm.DB, reactions *ReactionService, postStore PostChecker, notifier *Notifier, moderation bool) *CommentService {
	return &CommentService{
		db:         db,
		reactions:  reactions,
		postStore:  postStore,
		notifier:   notifier,
		moderation: moderation,
	}
}

// Create validates and stores a comment. With moderation enabled the comment
// starts unapproved and is invisible to the public until approved.
func (s *CommentService) Create(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	name := strings.TrimSpace(utils.SanitizeStrict(in.Name))
	message := strings.TrimSpace(utils.SanitizeStrict(in.Message))
	email := strings.TrimSpace(in.Email)

	fe := fieldErrors{}
	if !posts.ValidSlug(in.PostSlug) {
		fe.add("post_slug", "invalid slug")
	}
	if l := len([]rune(name)); l < 1 || l > 100 {
		fe.add("name", "name must be 1 to 100 characters")
	}
	if l := len([]rune(message)); l < 5 || l > 1000 {
		fe.add("message", "message must be 5 to 1000 characters")
	}
	if email != "" && (len(email) > 255 || !strings.Contains(email, "@")) {
		fe.add("email", "invalid email address")
	}
	if err := fe.err(); err != nil {
		return nil, err
	}

	if s.postStore != nil && !s.postStore.Exists(in.PostSlug) {
		return nil, ErrNotFound
	}

	var parentPtr *string
	if in.ParentID != "" {
		var parent models.Comment
		err := s.db.WithContext(ctx).Where("id = ?", in.ParentID).First(&parent).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ValidationError{Fields: map[string][]string{"parent_id": {"parent comment not found"}}}
		}
		if err != nil {
			return nil, err
		}
		if parent.PostSlug != in.PostSlug {
			return nil, &ValidationError{Fields: map[string][]string{"parent_id": {"parent belongs to a different post"}}}
		}
		// Replies stay one level deep; a reply can never be a parent.
		if parent.ParentID != nil {
			return nil, &ValidationError{Fields: map[string][]string{"parent_id": {"replies cannot be nested"}}}
		}
		pid := parent.ID
		parentPtr = &pid
	}

	comment := models.Comment{
		ID:       uuid.NewString(),
		PostSlug: in.PostSlug,
		ParentID: parentPtr,
		Name:     name,
		Email:    email,
		Message:  message,
		Approved: !s.moderation,
	}
	if err := s.db.WithContext(ctx).Create(&comment).Error; err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.CommentPosted(&comment)
	}
	return &comment, nil
}

// ListForPost returns top-level comments newest-first, replies oldest-first,
// each with reaction aggregates. publicView hides unapproved comments and
// replies; viewerID may be empty.
func (s *CommentService) ListForPost(ctx context.Context, slug string, publicView bool, viewerID string) ([]*CommentView, error) {
	if !posts.ValidSlug(slug) {
		return nil, &ValidationError{Fields: map[string][]string{"slug": {"invalid slug"}}}
	}

	q := s.db.WithContext(ctx).Where("post_slug = ?", slug)
	if publicView {
		q = q.Where("approved = ?", true)
	}
	var rows []models.Comment
	if err := q.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	ids := make([]string, len(rows))
	for i, c := range rows {
		ids[i] = c.ID
	}
	aggregates, err := s.reactions.AggregateMany(ctx, models.SubjectComment, ids, viewerID)
	if err != nil {
		return nil, err
	}

	var top []*CommentView
	byID := map[string]*CommentView{}
	for i := range rows {
		c := rows[i]
		view := &CommentView{Comment: c, Reactions: aggregates[c.ID]}
		if c.ParentID == nil {
			byID[c.ID] = view
			top = append(top, view)
		}
	}
	for i := range rows {
		c := rows[i]
		if c.ParentID == nil {
			continue
		}
		parent, ok := byID[*c.ParentID]
		if !ok {
			// Parent filtered out by the approval gate; its replies stay hidden too.
			continue
		}
		parent.Replies = append(parent.Replies, &CommentView{Comment: c, Reactions: aggregates[c.ID]})
	}

	// Rows were loaded oldest-first so replies are already ordered; top level flips to newest-first.
	for i, j := 0, len(top)-1; i < j; i, j = i+1, j-1 {
		top[i], top[j] = top[j], top[i]
	}
	return top, nil
}

// Approve marks a comment visible to the public.
func (s *CommentService) Approve(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Model(&models.Comment{}).
		Where("id = ?", id).Update("approved", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a comment, its replies and every reaction attached to them
// in one transaction. Rows are removed, not tombstoned.
func (s *CommentService) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var target models.Comment
		err := tx.Where("id = ?", id).First(&target).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		doomed := []string{target.ID}
		if target.ParentID == nil {
			var replyIDs []string
			if err := tx.Model(&models.Comment{}).
				Where("parent_id = ?", target.ID).Pluck("id", &replyIDs).Error; err != nil {
				return err
			}
			doomed = append(doomed, replyIDs...)
		}

		if err := tx.Where("subject_type = ? AND subject_id IN ?", models.SubjectComment, doomed).
			Delete(&models.Reaction{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", doomed).Delete(&models.Comment{}).Error
	})
}

// ListModeration returns comments for the back office, optionally only the
// pending ones, newest-first with offset pagination.
func (s *CommentService) ListModeration(ctx context.Context, pendingOnly bool, offset, limit int) ([]models.Comment, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Comment{})
	if pendingOnly {
		q = q.Where("approved = ?", false)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Comment
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
