package tcf

import (
	"sync"

	"github.com/consentio/tcf-consent-api/internal/tcf/model"
)

// ContentsCache holds the most recently built experience contents. The
// aggregation joins every system against every declaration, so it is built
// at most once per underlying data change; writers call Invalidate after
// any change to systems, declarations, or publisher overrides.
type ContentsCache struct {
	mu       sync.RWMutex
	contents *model.TCFExperienceContents
}

// NewContentsCache creates an empty cache.
func NewContentsCache() *ContentsCache {
	return &ContentsCache{}
}

// Get returns the cached contents and whether the cache is populated.
func (c *ContentsCache) Get() (*model.TCFExperienceContents, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.contents, c.contents != nil
}

// Set stores freshly built contents.
func (c *ContentsCache) Set(contents *model.TCFExperienceContents) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.contents = contents
}

// Invalidate drops the cached contents so the next read rebuilds them.
func (c *ContentsCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.contents = nil
}
