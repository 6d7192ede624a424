package utils

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogLevelFromString(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := logLevelFromString(tt.input); got != tt.expected {
				t.Errorf("logLevelFromString(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestGetBuildInfoMode(t *testing.T) {
	if getBuildInfoMode("once") != BuildInfoOnce || getBuildInfoMode("always") != BuildInfoAlways {
		t.Error("unexpected build info mode")
	}
	if getBuildInfoMode("") != BuildInfoNever {
		t.Error("expected never as default")
	}
}

func TestLoadBuildInfoAsSlogAttrs(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := loadBuildInfoAsSlogAttrs(filepath.Join(t.TempDir(), "missing.yaml"), buildInfoPrefix); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("prefixed attributes", func(t *testing.T) {
		fname := filepath.Join(t.TempDir(), buildInfoFilename)
		if err := os.WriteFile(fname, []byte("version: v1.2.0\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		attrs, err := loadBuildInfoAsSlogAttrs(fname, buildInfoPrefix)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(attrs) != 1 || attrs[0].Key != "build.version" || attrs[0].Value.String() != "v1.2.0" {
			t.Errorf("unexpected attributes: %v", attrs)
		}
	})
}

func TestNewLogHandler(t *testing.T) {
	var buf bytes.Buffer
	slog.New(newLogHandler(&buf, "text", nil)).Info("hello")
	if !strings.Contains(buf.String(), "msg=hello") {
		t.Errorf("expected text output, got %q", buf.String())
	}

	buf.Reset()
	slog.New(newLogHandler(&buf, "", nil)).Info("hello")
	if !strings.Contains(buf.String(), `"msg":"hello"`) {
		t.Errorf("expected json output, got %q", buf.String())
	}
}
