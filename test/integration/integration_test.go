package integration

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

var (
	standclearBinary string
	testHome         string
	testWorkdir      string
)

func TestMain(m *testing.M) {
	// Build the standclear binary
	tmpDir, err := os.MkdirTemp("", "standclear-integration-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmpDir)

	standclearBinary = filepath.Join(tmpDir, "standclear")
	cmd := exec.Command("go", "build", "-o", standclearBinary, "../../cmd/standclear")
	if err := cmd.Run(); err != nil {
		panic("failed to build standclear: " + err.Error())
	}

	// Isolated home and working directory so no real config is picked up
	testHome = filepath.Join(tmpDir, "home")
	testWorkdir = filepath.Join(tmpDir, "work")
	os.MkdirAll(testHome, 0755)
	os.MkdirAll(testWorkdir, 0755)

	os.Exit(m.Run())
}

func runStandclear(t *testing.T, env []string, args ...string) (string, int) {
	t.Helper()
	cmd := exec.Command(standclearBinary, args...)
	cmd.Dir = testWorkdir
	cmd.Env = append([]string{
		"HOME=" + testHome,
		"XDG_CACHE_HOME=" + filepath.Join(testHome, ".cache"),
		"PATH=" + os.Getenv("PATH"),
	}, env...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	code := 0
	if err != nil {
		t.Logf("stderr: %s", stderr.String())
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			t.Fatalf("run standclear: %v", err)
		}
		code = exitErr.ExitCode()
	}
	return stdout.String(), code
}

type upstream struct {
	*httptest.Server
	hits atomic.Int32
}

func newUpstream(t *testing.T) *upstream {
	t.Helper()
	u := &upstream{}
	u.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.hits.Add(1)
		q := r.URL.Query()
		switch q.Get("stop_id") {
		case "631N", "631S":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, `[{"line":%q,"destination_direction":"Test","time_to_arrival":%q,"friendly_stop":"Grand Central-42 St","n":%q}]`,
				q.Get("line"), "125", q.Get("N"))
		case "BAD":
			w.WriteHeader(http.StatusBadGateway)
		default:
			fmt.Fprint(w, `{"error":"unknown stop"}`)
		}
	}))
	t.Cleanup(u.Close)
	return u
}

func TestSnapshotDefaultsJSON(t *testing.T) {
	u := newUpstream(t)

	out, code := runStandclear(t, nil, "snapshot", "--json", "--base-url", u.URL)
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}

	var result struct {
		OK    bool `json:"ok"`
		Items []struct {
			StopID   string `json:"stop_id"`
			URL      string `json:"url"`
			Arrivals []struct {
				Countdown string `json:"countdown"`
			} `json:"arrivals"`
		} `json:"items"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(result.Items) != 2 {
		t.Fatalf("items = %d, want the two default platforms", len(result.Items))
	}
	if result.Items[0].StopID != "631N" || result.Items[1].StopID != "631S" {
		t.Errorf("stops = %s, %s", result.Items[0].StopID, result.Items[1].StopID)
	}
	for _, item := range result.Items {
		if !strings.Contains(item.URL, "N=3") {
			t.Errorf("url %q should request N=3", item.URL)
		}
		if len(item.Arrivals) != 1 || item.Arrivals[0].Countdown != "2 min" {
			t.Errorf("arrivals = %+v", item.Arrivals)
		}
	}
	if got := u.hits.Load(); got != 2 {
		t.Errorf("upstream hits = %d, want 2", got)
	}
}

func TestSnapshotUpstreamFailureExitCode(t *testing.T) {
	u := newUpstream(t)

	out, code := runStandclear(t, nil, "snapshot", "--base-url", u.URL, "-p", "4,631N", "-p", "4,BAD")
	if code != 3 {
		t.Fatalf("exit code = %d, want 3", code)
	}
	if !strings.Contains(out, "4,BAD: Error: Server responded with status 502") {
		t.Errorf("output missing error line:\n%s", out)
	}
	if !strings.Contains(out, "Grand Central-42 St") {
		t.Errorf("output missing healthy board:\n%s", out)
	}
}

func TestSnapshotQueryArgument(t *testing.T) {
	u := newUpstream(t)

	query := "https://stand-clear.vercel.app/?platform=6,XYZ&platform=4,631S,7"
	out, code := runStandclear(t, nil, "snapshot", "--tsv", "--base-url", u.URL, query)
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	// Non-array bodies are an empty board, so only 631S prints a line.
	want := "4\t631S\t4\tTest\t2 min\tGrand Central-42 St\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestEnvConfigPlatforms(t *testing.T) {
	env := []string{"STANDCLEAR_PLATFORMS=A,A27N,2;C,A27S"}

	out, code := runStandclear(t, env, "platforms", "--tsv", "--width", "120")
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	want := "A\tA27N\t2\ttrue\nC\tA27S\t10\ttrue\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestRepoConfigOverridesEnv(t *testing.T) {
	dir := filepath.Join(testWorkdir, ".standclear")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	content := "platforms:\n  - \"7,723N\"\ncompact_threshold: 2000\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	env := []string{"STANDCLEAR_PLATFORMS=A,A27N,2"}
	out, code := runStandclear(t, env, "platforms", "--tsv", "--width", "200")
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	// 200 columns is 1600 width units, below the configured 2000.
	if out != "7\t723N\t10\ttrue\n" {
		t.Errorf("output = %q", out)
	}
}

func TestInvalidConfigExitCode(t *testing.T) {
	env := []string{"STANDCLEAR_POLL_INTERVAL=often"}
	_, code := runStandclear(t, env, "platforms")
	if code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}
}
