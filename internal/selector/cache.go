// Package selector resolves extraction rules for page fields through three
// ordered tiers: configured rules, generic cross-site heuristics, and
// oracle-proposed discoveries. Resolution fails closed: a field with no
// matching rule is reported absent, never guessed.
package selector

import (
	"sync"
	"time"
)

// Tier identifies which resolution strategy produced a rule
type Tier int

const (
	TierConfigured Tier = iota
	TierHeuristic
	TierDiscovered
)

func (t Tier) String() string {
	switch t {
	case TierConfigured:
		return "configured"
	case TierHeuristic:
		return "heuristic"
	case TierDiscovered:
		return "discovered"
	}
	return "unknown"
}

// Entry is one cached (site, field) resolution
type Entry struct {
	Site         string
	Field        string
	Selector     string
	Tier         Tier
	DiscoveredAt time.Time
	Hits         uint64
}

// Cache stores resolved rules per (site, field). It is the only state
// shared across concurrent site scrapes; writes race benignly and the
// last writer wins.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewCache returns an empty selector cache
func NewCache() *Cache {
	return &Cache{entries: make(map[string]Entry)}
}

func cacheKey(site, field string) string {
	return site + "::" + field
}

// Get returns the cached rule for (site, field) and bumps its hit count
func (c *Cache) Get(site, field string) (Entry, bool) {
	key := cacheKey(site, field)
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return Entry{}, false
	}
	e.Hits++
	c.entries[key] = e
	return e, true
}

// Put records a resolved rule, replacing any previous entry
func (c *Cache) Put(site, field, sel string, tier Tier) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(site, field)] = Entry{
		Site:         site,
		Field:        field,
		Selector:     sel,
		Tier:         tier,
		DiscoveredAt: time.Now(),
	}
}

// Invalidate drops the cached rule for (site, field), if any
func (c *Cache) Invalidate(site, field string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, cacheKey(site, field))
}

// Len returns the number of cached rules
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Snapshot copies the cache contents for inspection
func (c *Cache) Snapshot() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e)
	}
	return out
}
