package course

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/bkoksal/tgf-handicap/internal/session"
)

const (
	// SessionPage is the bootstrap target for calculator sessions.
	SessionPage = "calchcp"

	calcPage = "CalcPlayHcp.aspx"

	// CalcPageURL is the public calculator page used by the browser fallback.
	CalcPageURL = "https://www.tgf.org.tr/tr/oyun-hcp-hesaplama"

	dropdownSel    = "#DpCourses"
	browserTimeout = 90 * time.Second
)

// SessionExtra returns the extra bootstrap parameters a calculator session
// needs.
func SessionExtra() url.Values {
	return url.Values{"fedno": {""}, "tcode": {""}, "param": {""}}
}

// Catalog lists every rated tee the federation publishes. An empty catalog is
// a legitimate, if unfortunate, outcome.
type Catalog interface {
	Courses() ([]Tee, error)
}

// Client loads the catalog through an authenticated session.
type Client struct {
	sessions session.Provider
}

// NewClient creates a catalog client drawing sessions from the provider.
func NewClient(sessions session.Provider) *Client {
	return &Client{sessions: sessions}
}

// Courses implements Catalog.
func (c *Client) Courses() ([]Tee, error) {
	sess, err := c.sessions.Get()
	if err != nil {
		return nil, err
	}

	query := url.Values{
		"fedno": {""}, "tcode": {""}, "gender": {""}, "hcp": {""}, "param": {""},
	}
	resp, err := sess.Get(calcPage, query)
	if err != nil {
		c.sessions.Invalidate()
		return nil, fmt.Errorf("fetching calculator page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.sessions.Invalidate()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return ParseCatalog(resp.Body)
}

// Browser loads the public calculator page in a headless browser and hands
// the rendered markup to the shared parser.
type Browser struct {
	URL      string
	Timeout  time.Duration
	Headless bool
}

// NewBrowser returns a headless catalog browser with default settings.
func NewBrowser() *Browser {
	return &Browser{URL: CalcPageURL, Timeout: browserTimeout, Headless: true}
}

// Courses implements Catalog.
func (b *Browser) Courses() ([]Tee, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", b.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.NoSandbox,
		chromedp.WindowSize(1280, 900),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	defer cancelAlloc()
	ctx, cancelCtx := chromedp.NewContext(allocCtx)
	defer cancelCtx()
	ctx, cancelTimeout := context.WithTimeout(ctx, b.Timeout)
	defer cancelTimeout()

	// Same embedded-frame dance as the player search page.
	var frameSrc string
	var found bool
	if err := chromedp.Run(ctx,
		chromedp.Navigate(b.URL),
		chromedp.WaitReady("iframe", chromedp.ByQuery),
		chromedp.AttributeValue("iframe", "src", &frameSrc, &found, chromedp.ByQuery),
	); err != nil {
		return nil, fmt.Errorf("loading calculator page: %w", err)
	}
	if !found || frameSrc == "" {
		return nil, errors.New("calculator page has no embedded frame")
	}

	var html string
	if err := chromedp.Run(ctx,
		chromedp.Navigate(frameSrc),
		chromedp.WaitReady(dropdownSel, chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	); err != nil {
		return nil, fmt.Errorf("reading calculator markup: %w", err)
	}

	return ParseCatalog(strings.NewReader(html))
}

// Fallback tries the session-backed catalog and degrades to the browser when
// it errors or comes back empty. A browser failure degrades further to an
// empty catalog rather than propagating: callers must treat "no courses" as
// data, not as a crash.
type Fallback struct {
	Primary   Catalog
	Secondary Catalog
}

// Courses implements Catalog.
func (f *Fallback) Courses() ([]Tee, error) {
	tees, err := f.Primary.Courses()
	if err == nil && len(tees) > 0 {
		return tees, nil
	}

	fromBrowser, ferr := f.Secondary.Courses()
	if ferr != nil {
		return []Tee{}, nil
	}
	return fromBrowser, nil
}
