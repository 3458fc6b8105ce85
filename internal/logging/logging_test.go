package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" INFO ", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"Error", slog.LevelError},
		{"loud", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew_WritesJSONAboveLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn")

	logger.Info("hidden")
	logger.Warn("shown", "resource", "posts")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("log lines = %q, want one", lines)
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["msg"] != "shown" || entry["resource"] != "posts" {
		t.Fatalf("entry = %v", entry)
	}
}

func TestSetup_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "postboard.log")

	logger, closer, err := Setup(path, "debug")
	if err != nil {
		t.Fatalf("Setup returned error: %v", err)
	}
	logger.Debug("hello")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"hello"`) {
		t.Fatalf("log file = %q", data)
	}
}

func TestSetup_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	_, closer, err := Setup("~/logs/postboard.log", "info")
	if err != nil {
		t.Fatalf("Setup returned error: %v", err)
	}
	closer.Close()

	if _, err := os.Stat(filepath.Join(home, "logs", "postboard.log")); err != nil {
		t.Fatalf("log file not under home: %v", err)
	}
}

func TestSetup_EmptyPath(t *testing.T) {
	if _, _, err := Setup("  ", "info"); err == nil {
		t.Fatalf("Setup accepted an empty path")
	}
}
