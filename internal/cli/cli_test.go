package cli

import (
	"io"
	"os"
	"testing"

	"github.com/thevedantmod/stand-clear/internal/config"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}

	os.Stdout = w
	defer func() {
		os.Stdout = orig
	}()

	fn()

	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read stdout: %v", err)
	}
	return string(out)
}

func resetGlobalOpts(t *testing.T) {
	t.Helper()
	orig := *globalOpts
	t.Cleanup(func() {
		*globalOpts = orig
	})
}

// isolateConfig points config lookups at empty temp directories so the
// developer's own config files and environment do not leak into tests.
func isolateConfig(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	for _, key := range []string{
		"BASE_URL", "USER_AGENT", "PLATFORMS", "STARTUP_DELAY", "POLL_INTERVAL",
		"REQUEST_TIMEOUT", "COMPACT_THRESHOLD", "CELL_WIDTH", "LOG_LEVEL", "LOG_FILE",
	} {
		t.Setenv("STANDCLEAR_"+key, "")
	}
	chdir(t, t.TempDir())
}

// chdir changes the working directory for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(orig); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}

func configWithPlatforms(entries []string) *config.Config {
	cfg := config.Default()
	cfg.Platforms = entries
	return cfg
}
