package course

import "sync"

// Cache wraps a Catalog and keeps its first non-empty answer for the life of
// the process. Ratings change a few times a season at most, so refetching per
// request would only exercise the flaky upstream. An empty or failed fetch is
// not cached; the next caller tries again.
type Cache struct {
	catalog Catalog

	mu   sync.Mutex
	tees []Tee
}

// NewCache creates a caching wrapper around catalog.
func NewCache(catalog Catalog) *Cache {
	return &Cache{catalog: catalog}
}

// Courses implements Catalog.
func (c *Cache) Courses() ([]Tee, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.tees) > 0 {
		return c.tees, nil
	}

	tees, err := c.catalog.Courses()
	if err != nil {
		return nil, err
	}
	if len(tees) > 0 {
		c.tees = tees
	}
	return tees, nil
}
