package blocks

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache memoizes Parse by input. Parse is pure, so a cached result is always
// structurally equal to a fresh one. Returned blocks are shared between
// callers and must not be modified.
type Cache struct {
	size  int
	group singleflight.Group

	mu      sync.Mutex
	entries map[string][]Block
	order   []string
	hits    int
	misses  int
}

// NewCache returns a cache holding at most size inputs, evicting the oldest
// first. A size of zero or less stores nothing.
func NewCache(size int) *Cache {
	return &Cache{size: size, entries: make(map[string][]Block)}
}

func (c *Cache) Parse(s string) []Block {
	if c == nil {
		return Parse(s)
	}
	c.mu.Lock()
	if bs, ok := c.entries[s]; ok {
		c.hits++
		c.mu.Unlock()
		return bs
	}
	c.misses++
	c.mu.Unlock()

	v, _, _ := c.group.Do(s, func() (interface{}, error) {
		bs := Parse(s)
		c.store(s, bs)
		return bs, nil
	})
	return v.([]Block)
}

func (c *Cache) store(s string, bs []Block) {
	if c.size <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[s]; ok {
		return
	}
	for len(c.order) >= c.size {
		delete(c.entries, c.order[0])
		c.order = c.order[1:]
	}
	c.entries[s] = bs
	c.order = append(c.order, s)
}

// Len reports how many inputs are cached.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Counters returns the hit and miss totals.
func (c *Cache) Counters() (hits, misses int) {
	if c == nil {
		return 0, 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
