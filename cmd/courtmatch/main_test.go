package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/tosh-m12/courtmatch/internal/logger"
	"github.com/tosh-m12/courtmatch/internal/models"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c := newCLI()
	c.Writer = &out
	c.ErrWriter = &out
	err := c.Run(append([]string{"courtmatch"}, args...))
	return out.String(), err
}

func TestGenerate_DoublesScenario(t *testing.T) {
	out, err := runCLI(t, "generate", "--type", "doubles", "--rounds", "1", "--courts", "1", "--seed", "7",
		"1", "2", "3", "4", "5", "6", "7", "8")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	var sched models.Schedule
	if err := json.Unmarshal([]byte(out), &sched); err != nil {
		t.Fatalf("output is not a schedule: %v\n%s", err, out)
	}
	if len(sched) != 1 {
		t.Fatalf("expected 1 round, got %d", len(sched))
	}
	r := sched[0]
	if len(r.Matches) != 1 || len(r.Rests) != 4 {
		t.Fatalf("expected 1 match and 4 rests, got %d and %d", len(r.Matches), len(r.Rests))
	}
	if len(r.Matches[0].Team1) != 2 || len(r.Matches[0].Team2) != 2 {
		t.Errorf("expected 2v2, got %v vs %v", r.Matches[0].Team1, r.Matches[0].Team2)
	}
}

func TestGenerate_SeedIsRepeatable(t *testing.T) {
	args := []string{"generate", "--rounds", "3", "--courts", "2", "--seed", "42", "1", "2", "3", "4", "5"}
	first, err := runCLI(t, args...)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	second, err := runCLI(t, args...)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if first != second {
		t.Errorf("expected identical output for the same seed\n%s\n%s", first, second)
	}
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"non-integer id", []string{"generate", "1", "x"}, "integer"},
		{"unknown type", []string{"generate", "--type", "mixed", "1", "2"}, "unknown game type"},
		{"zero courts", []string{"generate", "--courts", "0", "1", "2"}, "positive"},
		{"duplicate id", []string{"generate", "1", "1"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != "" && !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestGenerate_TooFewPlayers(t *testing.T) {
	out, err := runCLI(t, "generate", "--type", "doubles", "1", "2", "3")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if strings.TrimSpace(out) != "[]" {
		t.Errorf("expected empty schedule, got %s", out)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(out, "courtmatch "+version) {
		t.Errorf("unexpected version output %q", out)
	}
}

func TestNextLogLevel(t *testing.T) {
	tests := map[string]string{
		"DEBUG": "info",
		"INFO":  "warn",
		"WARN":  "error",
		"ERROR": "debug",
		"OTHER": "info",
	}
	for in, want := range tests {
		if got := nextLogLevel(in); got != want {
			t.Errorf("nextLogLevel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHandleKey(t *testing.T) {
	appLog := logger.Nop()
	appLog.SetLevel(slog.LevelInfo)

	var opened string
	opener = func(url string) error { opened = url; return nil }
	t.Cleanup(func() { opener = defaultOpener })

	quits := 0
	quit := func() { quits++ }

	if !handleKey('o', "http://courts.test/", appLog, quit) || opened != "http://courts.test/" {
		t.Errorf("expected 'o' to open the console, opened %q", opened)
	}

	handleKey('h', "", appLog, quit)
	if !appLog.IsHTTPLoggingEnabled() {
		t.Error("expected 'h' to enable HTTP logging")
	}
	handleKey('H', "", appLog, quit)
	if appLog.IsHTTPLoggingEnabled() {
		t.Error("expected 'H' to disable HTTP logging")
	}

	handleKey('l', "", appLog, quit)
	if appLog.GetLevel() != slog.LevelWarn {
		t.Errorf("expected warn after cycling from info, got %v", appLog.GetLevel())
	}

	opener = func(string) error { return errors.New("no browser") }
	if !handleKey('o', "http://courts.test/", appLog, quit) {
		t.Error("a browser error must not stop the listener")
	}

	if handleKey('q', "", appLog, quit) || quits != 1 {
		t.Errorf("expected 'q' to quit once, quits=%d", quits)
	}
}
