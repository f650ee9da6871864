package session

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func TestHMACSignerSign(t *testing.T) {
	signer := HMACSigner{User: "admin", Secret: []byte("123")}

	tests := []struct {
		name     string
		now      time.Time
		wantDT   string
		wantHash string
	}{
		{
			name:     "single digit components stay unpadded",
			now:      time.Date(2026, time.March, 7, 14, 5, 30, 0, time.UTC),
			wantDT:   "735",
			wantHash: "5afde782135b546c421c0fdb576f03bc3e72e7e6",
		},
		{
			name:     "double digit components",
			now:      time.Date(2026, time.November, 21, 9, 59, 0, 0, time.UTC),
			wantDT:   "211159",
			wantHash: "470450ba292e9266631c276ba3dd73c17412799b",
		},
		{
			name:     "minute zero",
			now:      time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
			wantDT:   "110",
			wantHash: "37ec35ffd78782f2413f7cdf0f3914fb83f0b79e",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dt, hash := signer.Sign(tt.now)
			if dt != tt.wantDT {
				t.Errorf("dt = %q, want %q", dt, tt.wantDT)
			}
			if hash != tt.wantHash {
				t.Errorf("hash = %q, want %q", hash, tt.wantHash)
			}
		})
	}
}

// testFactory points a factory at a local server with retries shrunk down.
func testFactory(serverURL string) *Factory {
	f := NewFactory()
	f.BaseURL = serverURL + "/"
	f.Attempts = 3
	f.RetryInterval = time.Millisecond
	return f
}

func TestFactoryOpen(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/1Page.aspx" {
			t.Errorf("unexpected path %q", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		gotQuery = r.URL.Query()
		http.SetCookie(w, &http.Cookie{Name: "ASP.NET_SessionId", Value: "abc123", Path: "/"})
		// The real server redirects to the target page; the factory must not
		// follow it.
		w.Header().Set("Location", "/nowhere")
		w.WriteHeader(http.StatusFound)
	}))
	defer srv.Close()

	f := testFactory(srv.URL)
	sess, err := f.Open("handicaps", url.Values{"ccode": {"All"}})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if sess == nil {
		t.Fatal("Open returned nil session")
	}
	if !sess.authenticated() {
		t.Error("session should hold the server cookie")
	}

	for key, want := range map[string]string{
		"user":        "admin",
		"page":        "handicaps",
		"ccode":       "All",
		"pagelang":    "tr",
		"callcontext": "clubarea",
	} {
		if got := gotQuery.Get(key); got != want {
			t.Errorf("query %s = %q, want %q", key, got, want)
		}
	}
	if gotQuery.Get("dt") == "" || gotQuery.Get("hash") == "" {
		t.Error("bootstrap query is missing the credential")
	}
}

func TestFactoryOpenExhaustsRetries(t *testing.T) {
	var attempts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		// Answer normally but never set the session cookie.
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	f := testFactory(srv.URL)
	sess, err := f.Open("handicaps", nil)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
	if sess != nil {
		t.Error("expected no session when every attempt fails")
	}
	if attempts != f.Attempts {
		t.Errorf("attempts = %d, want %d", attempts, f.Attempts)
	}
}

func TestFactoryOpenRecoversMidWindow(t *testing.T) {
	var attempts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "ASP.NET_SessionId", Value: "late", Path: "/"})
	}))
	defer srv.Close()

	f := testFactory(srv.URL)
	if _, err := f.Open("calchcp", nil); err != nil {
		t.Fatalf("Open should succeed once the cookie appears: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}
