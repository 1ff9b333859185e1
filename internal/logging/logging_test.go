// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

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

func TestSetupWithWritersFansOut(t *testing.T) {
	var stderr, file bytes.Buffer
	logger := SetupWithWriters(&stderr, &file, slog.LevelInfo)

	logger.Info("pipeline started", "topic", "quantum computing")

	if !strings.Contains(stderr.String(), "pipeline started") {
		t.Errorf("text sink missing message: %q", stderr.String())
	}

	var entry map[string]any
	if err := json.Unmarshal(file.Bytes(), &entry); err != nil {
		t.Fatalf("file sink is not JSON: %v\n%s", err, file.String())
	}
	if entry["msg"] != "pipeline started" || entry["topic"] != "quantum computing" {
		t.Errorf("unexpected JSON entry: %v", entry)
	}
}

func TestSetupWithWritersHonorsLevel(t *testing.T) {
	var stderr, file bytes.Buffer
	logger := SetupWithWriters(&stderr, &file, slog.LevelWarn)

	logger.Debug("noise")
	logger.Info("more noise")

	if stderr.Len() != 0 || file.Len() != 0 {
		t.Errorf("records below the level leaked: stderr=%q file=%q", stderr.String(), file.String())
	}
}

func TestSetupWritesLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	logger, cleanup := Setup(path, slog.LevelInfo)

	logger.Info("archived run", "id", "abc123")
	if err := cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &entry); err != nil {
		t.Fatalf("log file is not JSON: %v\n%s", err, data)
	}
	if entry["id"] != "abc123" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestSetupBadFileFallsBack(t *testing.T) {
	logger, cleanup := Setup(filepath.Join(t.TempDir(), "missing", "debug.log"), slog.LevelInfo)
	if logger == nil {
		t.Fatalf("no logger returned")
	}
	if err := cleanup(); err != nil {
		t.Errorf("cleanup after fallback: %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
