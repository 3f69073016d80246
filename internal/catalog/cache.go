package catalog

import (
	"sync"

	"cabquote/internal"
)

// Cache holds catalog snapshots keyed by manufacturer id. It is owned by
// the calling context (CLI run, listener daemon), never by the pricing
// engine itself, so pricing stays a pure function of its arguments.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]internal.Catalog
}

func NewCache() *Cache {
	return &Cache{entries: map[string]internal.Catalog{}}
}

func (c *Cache) Get(manufacturerID string) (internal.Catalog, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cat, ok := c.entries[manufacturerID]
	return cat, ok
}

func (c *Cache) Put(manufacturerID string, cat internal.Catalog) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[manufacturerID] = cat
}

// Invalidate drops one manufacturer's snapshot, forcing the next pricing
// run to reload from storage.
func (c *Cache) Invalidate(manufacturerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, manufacturerID)
}
