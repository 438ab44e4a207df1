package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"unknown", LevelInfo},
		{"", LevelInfo},
	}
	for _, tc := range cases {
		if got := ParseLevel(tc.in); got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LevelWarn)
	logger.SetOutput(&buf)

	logger.Debug("hidden", nil)
	logger.Info("hidden", nil)
	logger.Warn("shown", nil)
	logger.Error("shown", nil)

	lines := strings.Count(buf.String(), "\n")
	if lines != 2 {
		t.Fatalf("expected 2 log lines, got %d: %s", lines, buf.String())
	}
}

func TestLogEntryShape(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LevelInfo)
	logger.SetOutput(&buf)

	logger.Info("hello", map[string]interface{}{"key": "value"})

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry.Level != "INFO" || entry.Message != "hello" {
		t.Fatalf("unexpected entry %+v", entry)
	}
	if entry.Fields["key"] != "value" {
		t.Fatalf("unexpected fields %v", entry.Fields)
	}
	if _, err := time.Parse(time.RFC3339, entry.Timestamp); err != nil {
		t.Fatalf("timestamp not RFC3339: %v", err)
	}
}

func TestLogProbeResult(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LevelDebug)
	logger.SetOutput(&buf)

	logger.LogProbeResult("example.com", true, 42*time.Millisecond)
	logger.LogProbeResult("example.com", false, 0)

	output := buf.String()
	if !strings.Contains(output, `"probe result"`) {
		t.Fatalf("missing success entry: %s", output)
	}
	if !strings.Contains(output, `"probe failed"`) {
		t.Fatalf("missing failure entry: %s", output)
	}
	if !strings.Contains(output, `"rtt_ms":42`) {
		t.Fatalf("missing rtt field: %s", output)
	}
}

func TestLogErrorAttachesComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LevelDebug)
	logger.SetOutput(&buf)

	logger.LogError("web", errors.New("boom"), nil)

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry.Fields["component"] != "web" || entry.Fields["error"] != "boom" {
		t.Fatalf("unexpected fields %v", entry.Fields)
	}
}
