package posts

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when no post file exists for a slug.
var ErrNotFound = errors.New("post not found")

// ErrInvalidSlug is returned when a slug fails validation.
var ErrInvalidSlug = errors.New("invalid slug")

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

const wordsPerMinute = 200

// Frontmatter holds the YAML metadata block at the top of a post file.
type Frontmatter struct {
	Title         string   `yaml:"title" json:"title"`
	Date          string   `yaml:"date" json:"date"`
	Excerpt       string   `yaml:"excerpt,omitempty" json:"excerpt"`
	Tags          []string `yaml:"tags,omitempty" json:"tags"`
	Series        string   `yaml:"series,omitempty" json:"series"`
	CoverImage    string   `yaml:"coverImage,omitempty" json:"cover_image,omitempty"`
	CoverImageAlt string   `yaml:"coverImageAlt,omitempty" json:"cover_image_alt,omitempty"`
}

// Post is a markdown file plus its parsed metadata.
type Post struct {
	Slug string `json:"slug"`
	Frontmatter
	Content     string `json:"content,omitempty"`
	ReadingTime int    `json:"reading_time"`
}

// Store reads and writes markdown post files in a single directory.
// Each post is <slug>.md with a YAML frontmatter block.
type Store struct {
	dir           string
	defaultSeries string
}

// NewStore builds a Store rooted at dir. The directory is created if missing.
func NewStore(dir, defaultSeries string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir, defaultSeries: defaultSeries}, nil
}

// ValidSlug reports whether s is a well-formed slug.
func ValidSlug(s string) bool {
	return len(s) > 0 && len(s) <= 100 && slugPattern.MatchString(s)
}

// NormalizeSlug lowercases the input and reduces it to hyphen-separated
// alphanumeric runs. Returns "" when nothing usable remains.
func NormalizeSlug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prevHyphen := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			prevHyphen = false
		case r == ' ' || r == '-' || r == '_':
			if !prevHyphen && b.Len() > 0 {
				b.WriteByte('-')
				prevHyphen = true
			}
		}
	}
	out := strings.Trim(b.String(), "-")
	if len(out) > 100 {
		out = strings.Trim(out[:100], "-")
	}
	return out
}

func (s *Store) path(slug string) string {
	return filepath.Join(s.dir, slug+".md")
}

// Get loads a single post by slug.
func (s *Store) Get(slug string) (*Post, error) {
	if !ValidSlug(slug) {
		return nil, ErrInvalidSlug
	}
	raw, err := os.ReadFile(s.path(slug))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.parse(slug, raw)
}

// List returns all posts newest-first by date. Files that fail to parse are
// skipped rather than failing the whole listing.
func (s *Store) List() ([]*Post, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var out []*Post
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		slug := strings.TrimSuffix(e.Name(), ".md")
		if !ValidSlug(slug) {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			continue
		}
		p, err := s.parse(slug, raw)
		if err != nil {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date > out[j].Date
	})
	return out, nil
}

// Exists reports whether a post file is present for slug.
func (s *Store) Exists(slug string) bool {
	if !ValidSlug(slug) {
		return false
	}
	_, err := os.Stat(s.path(slug))
	return err == nil
}

// Write persists a post, creating or replacing its file.
func (s *Store) Write(slug string, fm Frontmatter, content string) error {
	if !ValidSlug(slug) {
		return ErrInvalidSlug
	}
	if fm.Date == "" {
		fm.Date = time.Now().Format("2006-01-02")
	}
	if fm.Series == "" {
		fm.Series = s.defaultSeries
	}

	meta, err := yaml.Marshal(&fm)
	if err != nil {
		return err
	}
	var b strings.Builder
	b.WriteString("---\n")
	b.Write(meta)
	b.WriteString("---\n\n")
	b.WriteString(strings.TrimLeft(content, "\n"))
	if !strings.HasSuffix(content, "\n") {
		b.WriteByte('\n')
	}
	return os.WriteFile(s.path(slug), []byte(b.String()), 0o644)
}

// Delete removes a post file.
func (s *Store) Delete(slug string) error {
	if !ValidSlug(slug) {
		return ErrInvalidSlug
	}
	err := os.Remove(s.path(slug))
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	return err
}

// parse splits frontmatter from body and fills derived fields.
func (s *Store) parse(slug string, raw []byte) (*Post, error) {
	fm, body, err := splitFrontmatter(raw)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", slug, err)
	}

	p := &Post{
		Slug:        slug,
		Frontmatter: fm,
		Content:     body,
		ReadingTime: readingTime(body),
	}
	if p.Title == "" {
		p.Title = slug
	}
	if p.Series == "" {
		p.Series = s.defaultSeries
	}
	if p.Excerpt == "" {
		p.Excerpt = fallbackExcerpt(body)
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return p, nil
}

func splitFrontmatter(raw []byte) (Frontmatter, string, error) {
	var fm Frontmatter
	text := strings.ReplaceAll(string(raw), "\r\n", "\n")
	if !strings.HasPrefix(text, "---\n") {
		return fm, text, nil
	}
	rest := text[4:]
	idx := strings.Index(rest, "\n---")
	if idx < 0 {
		return fm, text, nil
	}
	meta := rest[:idx+1]
	body := rest[idx+4:]
	if i := strings.IndexByte(body, '\n'); i >= 0 {
		body = body[i+1:]
	} else {
		body = ""
	}
	if err := yaml.Unmarshal([]byte(meta), &fm); err != nil {
		return fm, "", err
	}
	return fm, strings.TrimLeft(body, "\n"), nil
}

func readingTime(body string) int {
	words := len(strings.Fields(body))
	if words == 0 {
		return 1
	}
	return int(math.Ceil(float64(words) / wordsPerMinute))
}

// fallbackExcerpt takes the first 150 characters of the stripped body.
func fallbackExcerpt(body string) string {
	plain := strings.TrimSpace(stripMarkdown(body))
	runes := []rune(plain)
	if len(runes) <= 150 {
		return plain
	}
	return string(runes[:150]) + "..."
}

var (
	mdHeading = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	mdLink    = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	mdEmph    = regexp.MustCompile("[*_`>]+")
)

func stripMarkdown(s string) string {
	s = mdHeading.ReplaceAllString(s, "")
	s = mdLink.ReplaceAllString(s, "$1")
	s = mdEmph.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}
