package posts

import (
	"fmt"
	"strings"
	"testing"
)

func TestRenderCacheEvictsOldestInserted(t *testing.T) {
	c := NewRenderCache(3)
	c.Put("a", "1")
	c.Put("b", "2")
	c.Put("c", "3")

	// Reading the oldest entry must not save it from eviction.
	if _, ok := c.Get("a"); !ok {
		t.Fatal("a missing before eviction")
	}

	c.Put("d", "4")
	if _, ok := c.Get("a"); ok {
		t.Error("a should have been evicted first")
	}
	for _, k := range []string{"b", "c", "d"} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("%s unexpectedly evicted", k)
		}
	}
}

func TestRenderCacheRePutKeepsPosition(t *testing.T) {
	c := NewRenderCache(2)
	c.Put("a", "1")
	c.Put("b", "2")
	c.Put("a", "updated")

	c.Put("c", "3")
	if _, ok := c.Get("a"); ok {
		t.Error("re-put must not refresh insertion order; a should be evicted")
	}
	if v, ok := c.Get("b"); !ok || v != "2" {
		t.Errorf("b = %q, %v", v, ok)
	}
}

func TestRenderCacheInvalidatePrefix(t *testing.T) {
	c := NewRenderCache(10)
	c.Put("post-a:v1", "x")
	c.Put("post-a:v2", "y")
	c.Put("post-b:v1", "z")

	c.Invalidate("post-a:")
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
	if _, ok := c.Get("post-b:v1"); !ok {
		t.Error("unrelated entry was invalidated")
	}
}

func TestRenderCacheZeroCapacity(t *testing.T) {
	c := NewRenderCache(0)
	c.Put("a", "1")
	if _, ok := c.Get("a"); ok {
		t.Error("zero-capacity cache stored an entry")
	}
}

func TestRenderCacheBounded(t *testing.T) {
	c := NewRenderCache(5)
	for i := 0; i < 100; i++ {
		c.Put(fmt.Sprintf("k%d", i), "v")
	}
	if c.Len() != 5 {
		t.Errorf("Len = %d, want 5", c.Len())
	}
}

func TestRenderMarkdown(t *testing.T) {
	html, err := RenderMarkdown("# Title\n\nSome **bold** and a [link](https://example.com).")
	if err != nil {
		t.Fatalf("RenderMarkdown: %v", err)
	}
	for _, want := range []string{"<h1", "<strong>bold</strong>", `href="https://example.com"`} {
		if !strings.Contains(html, want) {
			t.Errorf("html missing %q:\n%s", want, html)
		}
	}
}

func TestRenderMarkdownStripsScripts(t *testing.T) {
	html, err := RenderMarkdown("hello <script>alert(1)</script> world")
	if err != nil {
		t.Fatalf("RenderMarkdown: %v", err)
	}
	if strings.Contains(html, "<script") {
		t.Errorf("script survived sanitization:\n%s", html)
	}
}

func TestRenderMarkdownTables(t *testing.T) {
	html, err := RenderMarkdown("| a | b |\n|---|---|\n| 1 | 2 |")
	if err != nil {
		t.Fatalf("RenderMarkdown: %v", err)
	}
	if !strings.Contains(html, "<table") {
		t.Errorf("GFM table not rendered:\n%s", html)
	}
}
