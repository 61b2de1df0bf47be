package posts

import "sync"

// RenderCache is a fixed-capacity cache of rendered HTML keyed by slug plus a
// content fingerprint. Eviction is strictly insertion order: when full, the
// oldest inserted entry goes first regardless of how often it was read.
type RenderCache struct {
	mu    sync.Mutex
	cap   int
	items map[string]string
	order []string
}

// NewRenderCache builds a cache holding at most capacity entries.
// A capacity <= 0 disables caching.
func NewRenderCache(capacity int) *RenderCache {
	return &RenderCache{
		cap:   capacity,
		items: make(map[string]string, capacity),
	}
}

// Get returns the cached HTML for key.
func (c *RenderCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	return v, ok
}

// Put stores html under key, evicting the oldest entry when at capacity.
// Re-putting an existing key updates the value without touching its position.
func (c *RenderCache) Put(key, html string) {
	if c.cap <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.items[key]; exists {
		c.items[key] = html
		return
	}
	if len(c.order) >= c.cap {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.items, oldest)
	}
	c.items[key] = html
	c.order = append(c.order, key)
}

// Invalidate removes every entry whose key starts with prefix. Called when a
// post file changes so stale renders never outlive an edit.
func (c *RenderCache) Invalidate(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.order[:0]
	for _, k := range c.order {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			delete(c.items, k)
			continue
		}
		kept = append(kept, k)
	}
	c.order = kept
}

// Len reports the number of cached entries.
func (c *RenderCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
