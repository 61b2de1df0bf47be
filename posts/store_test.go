package posts

import (
	"strings"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), "Letters from Schmalkalden")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func TestNormalizeSlug(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Hello World", "hello-world"},
		{"  Trip to Erfurt!  ", "trip-to-erfurt"},
		{"already-a-slug", "already-a-slug"},
		{"Under_scores and--dashes", "under-scores-and-dashes"},
		{"ÜmläutsÖnly", "mlutsnly"},
		{"!!!", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := NormalizeSlug(c.in); got != c.want {
			t.Errorf("NormalizeSlug(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestValidSlug(t *testing.T) {
	valid := []string{"a", "trip-1", "a-b-c", "2024"}
	for _, s := range valid {
		if !ValidSlug(s) {
			t.Errorf("ValidSlug(%q) = false, want true", s)
		}
	}
	invalid := []string{"", "-leading", "trailing-", "UPPER", "two--hyphens", "with space", strings.Repeat("a", 101)}
	for _, s := range invalid {
		if ValidSlug(s) {
			t.Errorf("ValidSlug(%q) = true, want false", s)
		}
	}
}

func TestWriteAndGetRoundTrip(t *testing.T) {
	s := newTestStore(t)

	fm := Frontmatter{
		Title:   "First Letter",
		Date:    "2026-01-15",
		Excerpt: "A short preview",
		Tags:    []string{"travel", "food"},
	}
	if err := s.Write("first-letter", fm, "# Hello\n\nSome **bold** text."); err != nil {
		t.Fatalf("Write: %v", err)
	}

	p, err := s.Get("first-letter")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.Title != "First Letter" || p.Date != "2026-01-15" {
		t.Errorf("frontmatter mismatch: %+v", p.Frontmatter)
	}
	if p.Series != "Letters from Schmalkalden" {
		t.Errorf("Series = %q, want default series", p.Series)
	}
	if len(p.Tags) != 2 || p.Tags[0] != "travel" {
		t.Errorf("Tags = %v", p.Tags)
	}
	if !strings.Contains(p.Content, "**bold**") {
		t.Errorf("Content lost markdown: %q", p.Content)
	}
	if p.ReadingTime < 1 {
		t.Errorf("ReadingTime = %d, want >= 1", p.ReadingTime)
	}
}

func TestGetErrors(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Get("no-such-post"); err != ErrNotFound {
		t.Errorf("Get(missing) = %v, want ErrNotFound", err)
	}
	if _, err := s.Get("../etc/passwd"); err != ErrInvalidSlug {
		t.Errorf("Get(traversal) = %v, want ErrInvalidSlug", err)
	}
	if _, err := s.Get("Bad Slug"); err != ErrInvalidSlug {
		t.Errorf("Get(invalid) = %v, want ErrInvalidSlug", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	s := newTestStore(t)

	for _, p := range []struct{ slug, date string }{
		{"oldest", "2025-01-01"},
		{"newest", "2026-03-01"},
		{"middle", "2025-07-15"},
	} {
		if err := s.Write(p.slug, Frontmatter{Title: p.slug, Date: p.date}, "body text goes here"); err != nil {
			t.Fatalf("Write(%s): %v", p.slug, err)
		}
	}

	list, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("len(List) = %d, want 3", len(list))
	}
	want := []string{"newest", "middle", "oldest"}
	for i, w := range want {
		if list[i].Slug != w {
			t.Errorf("List[%d] = %s, want %s", i, list[i].Slug, w)
		}
	}
}

func TestExcerptFallback(t *testing.T) {
	s := newTestStore(t)

	long := strings.Repeat("word ", 100)
	if err := s.Write("long-post", Frontmatter{Title: "Long", Date: "2026-01-01"}, long); err != nil {
		t.Fatalf("Write: %v", err)
	}
	p, err := s.Get("long-post")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !strings.HasSuffix(p.Excerpt, "...") {
		t.Errorf("Excerpt = %q, want truncation suffix", p.Excerpt)
	}
	if got := len([]rune(p.Excerpt)); got != 153 {
		t.Errorf("len(Excerpt) = %d, want 153", got)
	}
}

func TestReadingTime(t *testing.T) {
	s := newTestStore(t)

	// 401 words reads as 3 minutes at 200 wpm
	body := strings.TrimSpace(strings.Repeat("word ", 401))
	if err := s.Write("timed", Frontmatter{Title: "Timed", Date: "2026-01-01"}, body); err != nil {
		t.Fatalf("Write: %v", err)
	}
	p, err := s.Get("timed")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.ReadingTime != 3 {
		t.Errorf("ReadingTime = %d, want 3", p.ReadingTime)
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)

	if err := s.Write("doomed", Frontmatter{Title: "Doomed", Date: "2026-01-01"}, "short body here"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := s.Delete("doomed"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if s.Exists("doomed") {
		t.Error("post still exists after Delete")
	}
	if err := s.Delete("doomed"); err != ErrNotFound {
		t.Errorf("second Delete = %v, want ErrNotFound", err)
	}
}
