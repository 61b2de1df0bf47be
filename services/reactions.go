package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"inkwell/models"
	"inkwell/utils"
)

const maxDisplayName = 40
const maxNamesPerKind = 10

// ToggleOutcome describes what a toggle did to the caller's reaction.
type ToggleOutcome string

const (
	ToggleAdded   ToggleOutcome = "added"
	ToggleChanged ToggleOutcome = "changed"
	ToggleRemoved ToggleOutcome = "removed"
)

// KindSummary is the public aggregate for one reaction kind.
type KindSummary struct {
	Count     int64    `json:"count"`
	Names     []string `json:"names,omitempty"`
	MoreNames bool     `json:"more_names,omitempty"`
}

// ReactionSummary aggregates a subject's reactions. Every kind appears even
// when its count is zero. Mine is the viewer's current kind, empty if none.
type ReactionSummary struct {
	Kinds map[string]KindSummary `json:"kinds"`
	Mine  string                 `json:"mine,omitempty"`
}

// ToggleInput is one visitor acting on one subject.
type ToggleInput struct {
	SubjectType models.SubjectType
	SubjectID   string
	UserID      string
	Kind        string
	Anonymous   bool
	DisplayName string
}

// ReactionService implements per-user reaction state: at most one reaction
// per (subject, user), switched or cleared by repeated toggles.
type ReactionService struct {
	db *gorm.DB
}

func NewReactionService(db *gorm.DB) *ReactionService {
	return &ReactionService{db: db}
}

// cleanDisplayName strips markup and caps the length. Empty means no name.
func cleanDisplayName(name string) string {
	name = strings.TrimSpace(utils.SanitizeStrict(name))
	runes := []rune(name)
	if len(runes) > maxDisplayName {
		name = string(runes[:maxDisplayName])
	}
	return name
}

func validSubject(st models.SubjectType, id string) bool {
	if id == "" || len(id) > 100 {
		return false
	}
	return st == models.SubjectPost || st == models.SubjectComment
}

// Toggle applies the three-way toggle: no existing reaction inserts one, the
// same kind removes it, a different kind switches it in place. Concurrent
// first-toggles for the same (subject, user) collapse onto the unique index;
// the loser retries as an update.
func (s *ReactionService) Toggle(ctx context.Context, in ToggleInput) (ToggleOutcome, error) {
	fe := fieldErrors{}
	if !validSubject(in.SubjectType, in.SubjectID) {
		fe.add("subject", "invalid subject")
	}
	if !models.IsReactionKind(in.Kind) {
		fe.add("kind", "unknown reaction kind")
	}
	if in.UserID == "" {
		fe.add("user", "missing user identity")
	}
	if err := fe.err(); err != nil {
		return "", err
	}

	name := cleanDisplayName(in.DisplayName)
	var namePtr *string
	if !in.Anonymous && name != "" {
		namePtr = &name
	}

	outcome := ToggleAdded
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Reaction
		err := tx.Where("subject_type = ? AND subject_id = ? AND user_id = ?",
			in.SubjectType, in.SubjectID, in.UserID).First(&existing).Error

		switch {
		case err == nil && existing.Kind == in.Kind:
			outcome = ToggleRemoved
			return tx.Delete(&existing).Error
		case err == nil:
			outcome = ToggleChanged
			return tx.Model(&existing).Updates(map[string]interface{}{
				"kind":         in.Kind,
				"anonymous":    in.Anonymous,
				"display_name": namePtr,
			}).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			row := models.Reaction{
				SubjectType: in.SubjectType,
				SubjectID:   in.SubjectID,
				UserID:      in.UserID,
				Kind:        in.Kind,
				Anonymous:   in.Anonymous,
				DisplayName: namePtr,
			}
			if cerr := tx.Create(&row).Error; cerr != nil {
				if errors.Is(cerr, gorm.ErrDuplicatedKey) {
					// Lost an insert race; the row exists now, switch it instead.
					outcome = ToggleChanged
					return tx.Model(&models.Reaction{}).
						Where("subject_type = ? AND subject_id = ? AND user_id = ?",
							in.SubjectType, in.SubjectID, in.UserID).
						Updates(map[string]interface{}{
							"kind":         in.Kind,
							"anonymous":    in.Anonymous,
							"display_name": namePtr,
						}).Error
				}
				return cerr
			}
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return "", err
	}
	return outcome, nil
}

// SetDisplay updates only the display preference of an existing reaction.
// Fails with ErrConflict when the user has no reaction on the subject.
func (s *ReactionService) SetDisplay(ctx context.Context, st models.SubjectType, subjectID, userID string, anonymous bool, displayName string) error {
	if !validSubject(st, subjectID) || userID == "" {
		return &ValidationError{Fields: map[string][]string{"subject": {"invalid subject"}}}
	}

	name := cleanDisplayName(displayName)
	var namePtr *string
	if !anonymous && name != "" {
		namePtr = &name
	}

	res := s.db.WithContext(ctx).Model(&models.Reaction{}).
		Where("subject_type = ? AND subject_id = ? AND user_id = ?", st, subjectID, userID).
		Updates(map[string]interface{}{
			"anonymous":    anonymous,
			"display_name": namePtr,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

// Aggregate returns counts for every kind (zero included) and, when
// includeNames is set, up to 10 distinct non-anonymous display names per
// kind ordered by recency. viewerID may be empty.
func (s *ReactionService) Aggregate(ctx context.Context, st models.SubjectType, subjectID, viewerID string, includeNames bool) (*ReactionSummary, error) {
	if !validSubject(st, subjectID) {
		return nil, &ValidationError{Fields: map[string][]string{"subject": {"invalid subject"}}}
	}

	summary := &ReactionSummary{Kinds: make(map[string]KindSummary, len(models.ReactionKinds))}
	for _, k := range models.ReactionKinds {
		summary.Kinds[k] = KindSummary{}
	}

	var counts []struct {
		Kind  string
		Total int64
	}
	err := s.db.WithContext(ctx).Model(&models.Reaction{}).
		Select("kind, count(*) as total").
		Where("subject_type = ? AND subject_id = ?", st, subjectID).
		Group("kind").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	for _, c := range counts {
		ks := summary.Kinds[c.Kind]
		ks.Count = c.Total
		summary.Kinds[c.Kind] = ks
	}

	if includeNames {
		var rows []models.Reaction
		err := s.db.WithContext(ctx).
			Where("subject_type = ? AND subject_id = ? AND anonymous = ? AND display_name IS NOT NULL",
				st, subjectID, false).
			Order("updated_at DESC").
			Find(&rows).Error
		if err != nil {
			return nil, err
		}
		byKind := map[string][]string{}
		seen := map[string]map[string]struct{}{}
		overflow := map[string]bool{}
		for _, r := range rows {
			if r.DisplayName == nil || *r.DisplayName == "" {
				continue
			}
			if seen[r.Kind] == nil {
				seen[r.Kind] = map[string]struct{}{}
			}
			if _, dup := seen[r.Kind][*r.DisplayName]; dup {
				continue
			}
			if len(byKind[r.Kind]) >= maxNamesPerKind {
				overflow[r.Kind] = true
				continue
			}
			seen[r.Kind][*r.DisplayName] = struct{}{}
			byKind[r.Kind] = append(byKind[r.Kind], *r.DisplayName)
		}
		for kind, names := range byKind {
			ks := summary.Kinds[kind]
			ks.Names = names
			ks.MoreNames = overflow[kind]
			summary.Kinds[kind] = ks
		}
	}

	if viewerID != "" {
		var mine models.Reaction
		err := s.db.WithContext(ctx).
			Where("subject_type = ? AND subject_id = ? AND user_id = ?", st, subjectID, viewerID).
			First(&mine).Error
		if err == nil {
			summary.Mine = mine.Kind
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	return summary, nil
}

// AggregateMany is Aggregate without names for a batch of subjects of one
// type, used when listing a comment thread.
func (s *ReactionService) AggregateMany(ctx context.Context, st models.SubjectType, subjectIDs []string, viewerID string) (map[string]*ReactionSummary, error) {
	out := make(map[string]*ReactionSummary, len(subjectIDs))
	for _, id := range subjectIDs {
		sum := &ReactionSummary{Kinds: make(map[string]KindSummary, len(models.ReactionKinds))}
		for _, k := range models.ReactionKinds {
			sum.Kinds[k] = KindSummary{}
		}
		out[id] = sum
	}
	if len(subjectIDs) == 0 {
		return out, nil
	}

	var counts []struct {
		SubjectID string
		Kind      string
		Total     int64
	}
	err := s.db.WithContext(ctx).Model(&models.Reaction{}).
		Select("subject_id, kind, count(*) as total").
		Where("subject_type = ? AND subject_id IN ?", st, subjectIDs).
		Group("subject_id, kind").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	for _, c := range counts {
		if sum, ok := out[c.SubjectID]; ok {
			ks := sum.Kinds[c.Kind]
			ks.Count = c.Total
			sum.Kinds[c.Kind] = ks
		}
	}

	if viewerID != "" {
		var mine []models.Reaction
		err := s.db.WithContext(ctx).
			Where("subject_type = ? AND subject_id IN ? AND user_id = ?", st, subjectIDs, viewerID).
			Find(&mine).Error
		if err != nil {
			return nil, err
		}
		for _, r := range mine {
			if sum, ok := out[r.SubjectID]; ok {
				sum.Mine = r.Kind
			}
		}
	}

	return out, nil
}
