package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// captureLogOutput captures log output for testing by temporarily
// redirecting the logger to write to a buffer
func captureLogOutput(f func()) string {
	var buf bytes.Buffer

	oldLogger := defaultLogger
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	defaultLogger = slog.New(handler)

	f()

	defaultLogger = oldLogger
	return buf.String()
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Level
	}{
		{"debug", "debug", LevelDebug},
		{"info", "info", LevelInfo},
		{"warn", "warn", LevelWarn},
		{"error", "error", LevelError},
		{"unknown defaults to info", "verbose", LevelInfo},
		{"empty defaults to info", "", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Format
	}{
		{"json", "json", FormatJSON},
		{"text", "text", FormatText},
		{"unknown defaults to text", "yaml", FormatText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseFormat(tt.in); got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name   string
		level  Level
		format Format
	}{
		{"debug text", LevelDebug, FormatText},
		{"info json", LevelInfo, FormatJSON},
		{"warn text", LevelWarn, FormatText},
		{"error json", LevelError, FormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			InitLogger(tt.level, tt.format)
			if GetLogger() == nil {
				t.Error("GetLogger() returned nil after InitLogger")
			}
		})
	}

	// Restore defaults for other tests.
	InitLogger(LevelInfo, FormatText)
}

func TestLogHelpers(t *testing.T) {
	output := captureLogOutput(func() {
		Debug("debug message", "key", "value")
		Info("info message")
		Warn("warn message")
		Error("error message")
	})

	for _, want := range []string{"debug message", "info message", "warn message", "error message"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestMarkerLabeled(t *testing.T) {
	output := captureLogOutput(func() {
		MarkerLabeled(19, 27)
	})

	if !strings.Contains(output, "marker_labeled") {
		t.Errorf("output missing marker_labeled message:\n%s", output)
	}
	if !strings.Contains(output, `"begin":19`) || !strings.Contains(output, `"end":27`) {
		t.Errorf("output missing positions:\n%s", output)
	}
}

func TestMarkerSkipped(t *testing.T) {
	output := captureLogOutput(func() {
		MarkerSkipped(4, 21, "region crosses </p>")
	})

	if !strings.Contains(output, "marker_skipped") {
		t.Errorf("output missing marker_skipped message:\n%s", output)
	}
	if !strings.Contains(output, "region crosses") {
		t.Errorf("output missing reason:\n%s", output)
	}
}
