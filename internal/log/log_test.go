package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		result := tt.level.String()
		if result != tt.expected {
			t.Errorf("Level(%d).String() = '%s', expected '%s'", tt.level, result, tt.expected)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"unknown", LevelInfo}, // Default
		{"", LevelInfo},        // Default
	}

	for _, tt := range tests {
		result := ParseLevel(tt.input)
		if result != tt.expected {
			t.Errorf("ParseLevel('%s') = %d, expected %d", tt.input, result, tt.expected)
		}
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelWarn, Output: &buf})

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	out := buf.String()
	if strings.Contains(out, "debug message") {
		t.Error("debug message should be filtered at warn level")
	}
	if strings.Contains(out, "info message") {
		t.Error("info message should be filtered at warn level")
	}
	if !strings.Contains(out, "warn message") {
		t.Error("warn message should be logged")
	}
	if !strings.Contains(out, "error message") {
		t.Error("error message should be logged")
	}
}

func TestLogger_Prefix(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelDebug, Output: &buf, Prefix: "sess"})

	logger.Info("hello")

	if !strings.Contains(buf.String(), "sess: hello") {
		t.Errorf("output missing prefix: %q", buf.String())
	}
}

func TestLogger_FormatArgs(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelDebug, Output: &buf})

	logger.Error("failed to process %s: %v", "OnTyped", "boom")

	if !strings.Contains(buf.String(), "failed to process OnTyped: boom") {
		t.Errorf("output missing formatted message: %q", buf.String())
	}
}

func TestLogger_WithField(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelDebug, Output: &buf})

	child := logger.WithField("session_id", 42)
	child.Info("registered")

	out := buf.String()
	if !strings.Contains(out, "session_id=42") {
		t.Errorf("output missing field: %q", out)
	}

	// Parent is unchanged.
	buf.Reset()
	logger.Info("plain")
	if strings.Contains(buf.String(), "session_id") {
		t.Error("parent logger should not carry child fields")
	}
}

func TestLogger_SetLevelReachesChildren(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelInfo, Output: &buf})

	// Components derive their loggers once at startup; a later level
	// change must still reach them.
	child := logger.WithComponent("supervisor")

	child.Debug("early trace")
	logger.SetLevel(LevelDebug)
	child.Debug("late trace")

	out := buf.String()
	if strings.Contains(out, "early trace") {
		t.Error("debug message emitted while the level was info")
	}
	if !strings.Contains(out, "late trace") {
		t.Error("child logger suppressed debug output after SetLevel(LevelDebug)")
	}
}

func TestLogger_SetLevelFromChild(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelInfo, Output: &buf})
	child := logger.WithField("session_id", 1)

	child.SetLevel(LevelError)
	logger.Info("suppressed")

	if strings.Contains(buf.String(), "suppressed") {
		t.Error("level change through a child did not apply to the parent")
	}
}

func TestLogger_WithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelDebug, Output: &buf})

	logger.WithComponent("supervisor").Warn("sweep")

	if !strings.Contains(buf.String(), "component=supervisor") {
		t.Errorf("output missing component field: %q", buf.String())
	}
}

func TestNull_Discards(t *testing.T) {
	// Must not panic and must not write anywhere.
	Null.Debug("x")
	Null.Info("x")
	Null.Warn("x")
	Null.Error("x")
	Null.WithField("k", "v").Error("x")
}

func TestDefault(t *testing.T) {
	if Default() == nil {
		t.Fatal("Default() returned nil")
	}
	if Default() != Default() {
		t.Error("Default() should return the same instance")
	}
}
