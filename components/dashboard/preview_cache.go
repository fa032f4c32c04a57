package dashboard

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"
)

// PreviewCache memoizes rendered layout previews by preview key.
type PreviewCache interface {
	GetOrRender(key string, render func() (string, error)) (string, error)
}

// LayoutPreviewCache keeps rendered previews for a fixed TTL. Layouts with the
// same widget counts, title and theme share one entry.
type LayoutPreviewCache struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.Mutex
	previews map[string]cachedPreview
}

type cachedPreview struct {
	html    string
	expires time.Time
}

// NewLayoutPreviewCache builds a preview cache. A non-positive ttl disables caching.
func NewLayoutPreviewCache(ttl time.Duration) *LayoutPreviewCache {
	return &LayoutPreviewCache{
		ttl:      ttl,
		now:      time.Now,
		previews: make(map[string]cachedPreview),
	}
}

// GetOrRender returns the cached preview for key or renders and stores it.
// Render errors are returned and never cached.
func (c *LayoutPreviewCache) GetOrRender(key string, render func() (string, error)) (string, error) {
	if html, ok := c.lookup(key); ok {
		return html, nil
	}
	html, err := render()
	if err != nil {
		return "", err
	}
	c.store(key, html)
	return html, nil
}

// Len returns the number of previews held, expired ones included.
func (c *LayoutPreviewCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.previews)
}

func (c *LayoutPreviewCache) lookup(key string) (string, bool) {
	if c == nil || c.ttl <= 0 {
		return "", false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.previews[key]
	if !ok {
		return "", false
	}
	if c.now().After(entry.expires) {
		delete(c.previews, key)
		return "", false
	}
	return entry.html, true
}

func (c *LayoutPreviewCache) store(key, html string) {
	if c == nil || c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.previews[key] = cachedPreview{html: html, expires: c.now().Add(c.ttl)}
}

// previewKey identifies a rendered preview by what the chart shows.
func previewKey(summary LayoutSummary, options PreviewOptions) string {
	return hashJSON(map[string]any{
		"title":  options.Title,
		"theme":  options.Theme,
		"assets": options.AssetsHost,
		"counts": summary.Counts,
	})
}

// hashJSON returns a stable digest of a JSON-encodable document. Map keys are
// sorted by encoding/json, so equal documents hash equally.
func hashJSON(doc map[string]any) string {
	if len(doc) == 0 {
		return "empty"
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return "invalid"
	}
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:])
}
