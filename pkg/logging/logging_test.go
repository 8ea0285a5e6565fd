package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/JaimeStill/hub/pkg/logging"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" WARN ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := logging.ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestFinalizeDefaults(t *testing.T) {
	cfg := logging.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if cfg.Level != "info" {
		t.Errorf("level: got %s, want info", cfg.Level)
	}
	if cfg.Format != logging.FormatText {
		t.Errorf("format: got %s, want text", cfg.Format)
	}
}

func TestFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_LOG_LEVEL", "debug")
	t.Setenv("TEST_LOG_FORMAT", "JSON")

	cfg := logging.Config{}
	err := cfg.Finalize(&logging.Env{Level: "TEST_LOG_LEVEL", Format: "TEST_LOG_FORMAT"})
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if cfg.Level != "debug" {
		t.Errorf("level: got %s, want debug", cfg.Level)
	}
	if cfg.Format != logging.FormatJSON {
		t.Errorf("format: got %s, want json", cfg.Format)
	}
}

func TestFinalizeInvalidFormat(t *testing.T) {
	cfg := logging.Config{Format: "xml"}
	err := cfg.Finalize(nil)
	if err == nil || !strings.Contains(err.Error(), "invalid log format") {
		t.Errorf("expected invalid log format error, got %v", err)
	}
}

func TestMerge(t *testing.T) {
	base := logging.Config{Level: "info", Format: "text"}
	base.Merge(&logging.Config{Level: "error"})

	if base.Level != "error" {
		t.Errorf("level: got %s, want error", base.Level)
	}
	if base.Format != "text" {
		t.Errorf("format should remain text, got %s", base.Format)
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&logging.Config{Level: "warn", Format: "json"}, &buf)

	logger.Info("dropped")
	logger.Warn("kept", "provider", "youtube")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if entry["msg"] != "kept" || entry["provider"] != "youtube" {
		t.Errorf("unexpected entry %v", entry)
	}
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&logging.Config{Level: "debug", Format: "text"}, &buf)

	logger.Debug("visible")

	if !strings.Contains(buf.String(), "msg=visible") {
		t.Errorf("text output %q missing message", buf.String())
	}
}
