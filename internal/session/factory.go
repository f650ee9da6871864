package session

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// ErrUnavailable is returned when no authenticated session could be
// established within the retry budget. Operations that depend on a session
// must surface it, not swallow it.
var ErrUnavailable = errors.New("scoring site session unavailable")

const (
	bootstrapPage = "1Page.aspx"

	// The scheme below is reverse-engineered from the site's own frontend,
	// not a published contract. Credentials are shared by every visitor.
	defaultUser   = "admin"
	defaultSecret = "123"

	defaultAttempts = 5
	defaultInterval = 2 * time.Second
)

// Signer derives the time-based credential the bootstrap page expects.
// It is a seam: if the site changes its scheme, only the signer needs to
// follow.
type Signer interface {
	// Sign returns the dt query value and the hex credential for now.
	Sign(now time.Time) (dt, hash string)
}

// HMACSigner reproduces the site's scheme: HMAC-SHA1 over the literal string
// user+day+month+minute, with day, month and minute written as unpadded
// decimals of the current local time.
type HMACSigner struct {
	User   string
	Secret []byte
}

// Sign implements Signer.
func (s HMACSigner) Sign(now time.Time) (string, string) {
	dt := fmt.Sprintf("%d%d%d", now.Day(), int(now.Month()), now.Minute())
	mac := hmac.New(sha1.New, s.Secret)
	mac.Write([]byte(s.User + dt))
	return dt, hex.EncodeToString(mac.Sum(nil))
}

// Factory opens authenticated sessions. The zero value is not usable; use
// NewFactory and override fields as needed (tests shrink RetryInterval and
// point BaseURL at a local server).
type Factory struct {
	BaseURL       string
	Signer        Signer
	Attempts      int
	RetryInterval time.Duration
	Timeout       time.Duration
	Now           func() time.Time
}

// NewFactory returns a factory configured for the live scoring site.
func NewFactory() *Factory {
	return &Factory{
		BaseURL:       BaseURL,
		Signer:        HMACSigner{User: defaultUser, Secret: []byte(defaultSecret)},
		Attempts:      defaultAttempts,
		RetryInterval: defaultInterval,
		Timeout:       Timeout,
		Now:           time.Now,
	}
}

// Open establishes a session for the given target page, passing extra through
// as additional bootstrap query parameters. The credential is minted fresh on
// every attempt because it expires with the current minute; the server is
// also flaky near minute boundaries, hence the constant-interval retries.
func (f *Factory) Open(page string, extra url.Values) (*Session, error) {
	var sess *Session
	attempt := func() error {
		s, err := f.bootstrap(page, extra)
		if err != nil {
			return err
		}
		sess = s
		return nil
	}

	policy := backoff.WithMaxRetries(
		backoff.NewConstantBackOff(f.RetryInterval),
		uint64(f.Attempts-1),
	)
	if err := backoff.Retry(attempt, policy); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return sess, nil
}

// bootstrap performs one authentication attempt with a fresh cookie jar.
func (f *Factory) bootstrap(page string, extra url.Values) (*Session, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	sess := &Session{
		client: &http.Client{
			Jar:     jar,
			Timeout: f.Timeout,
			// The bootstrap page answers with a redirect; following it would
			// spend the one-minute credential on the wrong page.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		baseURL: f.BaseURL,
		created: f.Now(),
	}

	dt, hash := f.Signer.Sign(f.Now())
	query := url.Values{}
	query.Set("user", defaultUser)
	query.Set("dt", dt)
	query.Set("page", page)
	for key, values := range extra {
		for _, v := range values {
			query.Add(key, v)
		}
	}
	query.Set("pagelang", "tr")
	query.Set("callcontext", "clubarea")
	query.Set("hash", hash)

	resp, err := sess.Get(bootstrapPage, query)
	if err != nil {
		return nil, fmt.Errorf("bootstrap request: %w", err)
	}
	drain(resp)

	if !sess.authenticated() {
		return nil, fmt.Errorf("bootstrap response did not set %s", sessionCookie)
	}
	return sess, nil
}
