package watch

import "sync"

// ProgramCache stores compiled expression programs keyed by expression strings.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// MapCache is an unbounded ProgramCache safe for concurrent use.
type MapCache struct {
	mu    sync.RWMutex
	items map[string]any
}

func NewMapCache() *MapCache {
	return &MapCache{items: map[string]any{}}
}

func (c *MapCache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, ok := c.items[key]
	return value, ok
}

func (c *MapCache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.items == nil {
		c.items = map[string]any{}
	}
	c.items[key] = value
}

// Len returns the number of cached programs.
func (c *MapCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
