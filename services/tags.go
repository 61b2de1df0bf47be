package services

import (
	"context"
	"sort"
	"strings"

	"gorm.io/gorm"

	"inkwell/models"
	"inkwell/utils"
)

// TagCount is one tag with the posts that carry it.
type TagCount struct {
	Name  string   `json:"name"`
	Count int      `json:"count"`
	Slugs []string `json:"slugs"`
}

// TagService maintains the tag index derived from post frontmatter.
// The post files stay the source of truth; the table exists for queries.
type TagService struct {
	db *gorm.DB
}

func NewTagService(db *gorm.DB) *TagService {
	return &TagService{db: db}
}

// Sync replaces the tag rows for a post with the given set.
func (s *TagService) Sync(ctx context.Context, slug string, tags []string) error {
	cleaned := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(strings.ToLower(t))
		if t != "" && len(t) <= 60 {
			cleaned = append(cleaned, t)
		}
	}
	cleaned = utils.UniqueStrings(cleaned)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_slug = ?", slug).Delete(&models.Tag{}).Error; err != nil {
			return err
		}
		for _, t := range cleaned {
			if err := tx.Create(&models.Tag{Name: t, PostSlug: slug}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Remove drops every tag row for a deleted post.
func (s *TagService) Remove(ctx context.Context, slug string) error {
	return s.db.WithContext(ctx).Where("post_slug = ?", slug).Delete(&models.Tag{}).Error
}

// List returns the tag cloud: every tag with its post slugs, most used first.
func (s *TagService) List(ctx context.Context) ([]TagCount, error) {
	var rows []models.Tag
	if err := s.db.WithContext(ctx).Order("post_slug ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	grouped := map[string][]string{}
	for _, r := range rows {
		grouped[r.Name] = append(grouped[r.Name], r.PostSlug)
	}

	out := make([]TagCount, 0, len(grouped))
	for name, slugs := range grouped {
		out = append(out, TagCount{Name: name, Count: len(slugs), Slugs: slugs})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// SlugsFor returns the slugs of posts carrying a tag.
func (s *TagService) SlugsFor(ctx context.Context, tag string) ([]string, error) {
	var slugs []string
	err := s.db.WithContext(ctx).Model(&models.Tag{}).
		Where("name = ?", strings.ToLower(strings.TrimSpace(tag))).
		Pluck("post_slug", &slugs).Error
	return slugs, err
}
