package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestLoggerWritesJSONLines(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelInfo, &buf)

	l.Info("player search", Fields{"query": "ali akar", "cached": true})
	l.Error("session bootstrap failed", Fields{"attempts": 5}, errors.New("no cookie"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}

	var first map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("first line is not JSON: %v", err)
	}
	if first["level"] != "INFO" || first["message"] != "player search" {
		t.Errorf("unexpected first entry: %v", first)
	}

	var second map[string]interface{}
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("second line is not JSON: %v", err)
	}
	if second["error"] != "no cookie" {
		t.Errorf("error field = %v, want no cookie", second["error"])
	}
}

func TestLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelWarn, &buf)

	l.Debug("dropped", nil)
	l.Info("dropped too", nil)
	l.Warn("kept", nil)

	if got := strings.Count(buf.String(), "\n"); got != 1 {
		t.Errorf("got %d entries, want 1", got)
	}
}
