package session

import (
	"net/url"
	"sync"
	"time"
)

// DefaultMaxAge is how long a shared session is trusted before it is
// replaced. The minute-based credential only matters at open time; the limit
// here guards against server-side session expiry.
const DefaultMaxAge = 5 * time.Minute

// Provider hands out an authenticated session. Implementations may open a
// fresh session per call (Opener) or share one across callers (Cache).
// Invalidate tells the provider a request made with its session failed, so
// the next Get should start over.
type Provider interface {
	Get() (*Session, error)
	Invalidate()
}

// Opener is a Provider that opens a fresh session on every Get.
type Opener struct {
	Factory *Factory
	Page    string
	Extra   url.Values
}

// Get implements Provider.
func (o Opener) Get() (*Session, error) {
	return o.Factory.Open(o.Page, o.Extra)
}

// Invalidate implements Provider. Fresh sessions carry no state to discard.
func (o Opener) Invalidate() {}

// Cache is a Provider that shares one session between concurrent callers.
// The check-then-open sequence runs under the mutex, so readers observe
// either the previous session or the fully opened replacement, never a
// half-initialized one.
type Cache struct {
	MaxAge time.Duration

	// WarmPage, when set, is fetched once (best effort) right after a session
	// opens so the server builds up its page state before the first API call.
	WarmPage  string
	WarmQuery url.Values

	factory *Factory
	page    string
	extra   url.Values
	now     func() time.Time

	mu       sync.Mutex
	sess     *Session
	openedAt time.Time
}

// NewCache creates a session cache for one target page.
func NewCache(factory *Factory, page string, extra url.Values) *Cache {
	return &Cache{
		MaxAge:  DefaultMaxAge,
		factory: factory,
		page:    page,
		extra:   extra,
		now:     time.Now,
	}
}

// Get returns the shared session, opening a replacement if none exists or the
// current one is past its age limit.
func (c *Cache) Get() (*Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sess != nil && c.now().Sub(c.openedAt) < c.MaxAge {
		return c.sess, nil
	}

	sess, err := c.factory.Open(c.page, c.extra)
	if err != nil {
		return nil, err
	}
	if c.WarmPage != "" {
		if resp, warmErr := sess.Get(c.WarmPage, c.WarmQuery); warmErr == nil {
			drain(resp)
		}
	}

	c.sess = sess
	c.openedAt = c.now()
	return sess, nil
}

// Invalidate discards the shared session so the next Get opens a new one.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sess = nil
	c.openedAt = time.Time{}
}
