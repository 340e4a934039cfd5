package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zerolog.Level
		wantErr bool
	}{
		{"", zerolog.WarnLevel, false},
		{"warn", zerolog.WarnLevel, false},
		{"ERROR", zerolog.ErrorLevel, false},
		{"info", zerolog.InfoLevel, false},
		{" debug ", zerolog.DebugLevel, false},
		{"verbose", zerolog.NoLevel, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) err = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "warn")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info().Msg("hidden")
	logger.Warn().Str("line", "4").Msg("arrivals fetch failed")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message logged at warn level: %q", out)
	}
	if !strings.Contains(out, "arrivals fetch failed") || !strings.Contains(out, "line=4") {
		t.Errorf("missing warn message: %q", out)
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "standclear.log")
	logger, closer, err := OpenFile(path, "debug")
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	logger.Debug().Msg("refresh started")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "refresh started") {
		t.Errorf("log file content = %q", data)
	}
}

func TestOpenFileEmptyPath(t *testing.T) {
	_, closer, err := OpenFile("", "info")
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if err := closer.Close(); err != nil {
		t.Errorf("close: %v", err)
	}
	if _, _, err := OpenFile("", "loud"); err == nil {
		t.Error("expected error for invalid level")
	}
}
