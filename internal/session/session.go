// Package session opens authenticated HTTP sessions against the TGF scoring
// site.
//
// The scoring sub-site serves nothing until it has seen an HMAC-authenticated
// hit on its bootstrap page. The hash covers the current day, month and
// minute, so a credential is only good for the calendar minute it was minted
// in and the factory retries across a short window. A session is considered
// established once the server sets its ASP.NET session cookie.
package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	// BaseURL is the scoring site's list area; every page lives under it.
	BaseURL = "https://scoring.tgf.org.tr/lists/"

	// Timeout bounds every request made through a session.
	Timeout = 15 * time.Second

	// sessionCookie is the cookie whose presence marks a live session.
	sessionCookie = "ASP.NET_SessionId"

	// The site rejects clients that do not look like a real browser.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/120.0.0.0 Safari/537.36"
	acceptHeader = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	clubReferer  = BaseURL + "1ClubCall.html"
)

// Session is an authenticated handle on the scoring site. It is immutable
// after creation: concurrent callers share it read-only and a stale or broken
// session is discarded and replaced, never repaired in place.
type Session struct {
	client  *http.Client
	baseURL string
	created time.Time
}

// Get issues a GET to a page under the session's base URL.
// The caller owns the response body.
func (s *Session) Get(page string, query url.Values) (*http.Response, error) {
	target := s.baseURL + page
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequest(http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	s.setHeaders(req)

	return s.client.Do(req)
}

// PostJSON posts a JSON payload to a page and decodes the JSON response into
// out. refererPage is resolved against the session's base URL. The headers
// match what the site's own frontend sends; without them the endpoint answers
// with an error page instead of JSON.
func (s *Session) PostJSON(page, refererPage string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.baseURL+page, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	s.setHeaders(req)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("Referer", s.baseURL+refererPage)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}

// Age reports how long ago the session was opened.
func (s *Session) Age() time.Duration {
	return time.Since(s.created)
}

func (s *Session) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Referer", clubReferer)
}

// authenticated reports whether the server handed out its session cookie.
func (s *Session) authenticated() bool {
	u, err := url.Parse(s.baseURL)
	if err != nil {
		return false
	}
	for _, c := range s.client.Jar.Cookies(u) {
		if c.Name == sessionCookie {
			return true
		}
	}
	return false
}

// drain discards and closes a response body so the connection can be reused.
func drain(resp *http.Response) {
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
