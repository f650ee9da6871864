package player

import (
	"strings"
	"sync"
	"time"
)

// QueryCache remembers search results for the rest of the calendar day.
// Handicap indexes change at most daily, so same-day repeats of a query can
// skip the upstream entirely.
type QueryCache struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]cacheEntry
}

type cacheEntry struct {
	records []Record
	day     string
}

// NewQueryCache creates an empty per-day cache.
func NewQueryCache() *QueryCache {
	return &QueryCache{
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// Normalize maps a raw query to its cache key: queries differing only in
// letter case or surrounding whitespace share an entry.
func Normalize(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// Get returns the cached records for a query if they were stored today.
func (c *QueryCache) Get(query string) ([]Record, bool) {
	key := Normalize(query)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if entry.day != c.today() {
		delete(c.entries, key)
		return nil, false
	}
	return entry.records, true
}

// Set stores a query's results under today's date. The slice is copied so
// later mutation by the caller cannot leak into the cache.
func (c *QueryCache) Set(query string, records []Record) {
	key := Normalize(query)
	stored := append([]Record(nil), records...)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{records: stored, day: c.today()}
}

func (c *QueryCache) today() string {
	return c.now().Format("2006-01-02")
}
