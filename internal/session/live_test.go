package session

import (
	"os"
	"testing"
)

// TestOpenLiveSession hits the real scoring site. It is skipped unless
// TGF_LIVE_TEST is set, because the site throttles and its minute-based
// credential makes runs timing-sensitive.
func TestOpenLiveSession(t *testing.T) {
	if os.Getenv("TGF_LIVE_TEST") == "" {
		t.Skip("set TGF_LIVE_TEST to run against the live scoring site")
	}

	f := NewFactory()
	sess, err := f.Open("handicaps", nil)
	if err != nil {
		t.Fatalf("Open failed against the live site: %v", err)
	}
	if !sess.authenticated() {
		t.Error("live session is missing the server cookie")
	}
}
