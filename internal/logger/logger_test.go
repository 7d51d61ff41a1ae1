package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_DefaultsToInfoLevel(t *testing.T) {
	log := New()

	if log.GetLevel() != slog.LevelInfo {
		t.Errorf("expected default level to be Info, got %v", log.GetLevel())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
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
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSlogLogger_ImplementsInterface(t *testing.T) {
	var _ Logger = (*SlogLogger)(nil)
}

func TestNewWithOptions_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOptions(Options{Level: slog.LevelDebug, Output: &buf})

	log.Debug("round generated", "round", 2)

	out := buf.String()
	if !strings.Contains(out, "DEBUG") || !strings.Contains(out, "round=2") {
		t.Errorf("unexpected text output: %s", out)
	}
}

func TestNewWithOptions_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOptions(Options{Level: slog.LevelInfo, Format: "JSON", Output: &buf})

	log.Info("schedule published", "event_id", 7)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "schedule published" {
		t.Errorf("unexpected msg: %v", entry["msg"])
	}
	if entry["event_id"] != float64(7) {
		t.Errorf("unexpected event_id: %v", entry["event_id"])
	}
}

func TestSlogLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOptions(Options{Level: slog.LevelWarn, Output: &buf})

	log.Debug("debug message")
	log.Info("info message")
	if buf.Len() > 0 {
		t.Errorf("expected debug/info to be filtered at WARN level, got: %s", buf.String())
	}

	log.Warn("warn message")
	if !strings.Contains(buf.String(), "warn message") {
		t.Error("expected warn message to be logged")
	}

	buf.Reset()
	log.Error("error message")
	if !strings.Contains(buf.String(), "error message") {
		t.Error("expected error message to be logged")
	}
}

func TestSlogLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOptions(Options{Level: slog.LevelError, Output: &buf})

	log.Info("hidden")
	log.SetLevel(slog.LevelDebug)
	log.Info("visible")

	if strings.Contains(buf.String(), "hidden") {
		t.Error("expected info to be filtered before SetLevel")
	}
	if !strings.Contains(buf.String(), "visible") {
		t.Error("expected info to be logged after SetLevel")
	}
	if log.GetLevel() != slog.LevelDebug {
		t.Errorf("expected Debug, got %v", log.GetLevel())
	}
}

func TestSlogLogger_With(t *testing.T) {
	var buf bytes.Buffer
	parent := NewWithOptions(Options{Level: slog.LevelInfo, Output: &buf})
	child := parent.With("event_id", 3)

	child.Info("score recorded")
	if !strings.Contains(buf.String(), "event_id=3") {
		t.Errorf("expected child attributes in output, got: %s", buf.String())
	}

	// Level and HTTP toggle are shared with the parent
	parent.SetLevel(slog.LevelError)
	if child.GetLevel() != slog.LevelError {
		t.Errorf("expected child to follow parent level, got %v", child.GetLevel())
	}
	parent.EnableHTTPLogging()
	if !child.IsHTTPLoggingEnabled() {
		t.Error("expected child to share HTTP logging toggle")
	}
}

func TestSlogLogger_HTTPLogging(t *testing.T) {
	log := New()

	if log.IsHTTPLoggingEnabled() {
		t.Error("expected HTTP logging to be disabled by default")
	}

	log.EnableHTTPLogging()
	if !log.IsHTTPLoggingEnabled() {
		t.Error("expected HTTP logging to be enabled")
	}

	log.DisableHTTPLogging()
	if log.IsHTTPLoggingEnabled() {
		t.Error("expected HTTP logging to be disabled")
	}
}

func TestNop_DiscardsOutput(t *testing.T) {
	log := Nop()
	log.Error("nothing to see")
	if log.GetLevel() <= slog.LevelError {
		t.Errorf("expected Nop level above Error, got %v", log.GetLevel())
	}
}
