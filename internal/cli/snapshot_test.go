package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/thevedantmod/stand-clear/internal/model"
	"github.com/thevedantmod/stand-clear/internal/refresh"
)

// newUpstream serves canned arrivals per stop_id; unknown stops get a 500.
func newUpstream(t *testing.T, bodies map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/arrivals/" {
			http.NotFound(w, r)
			return
		}
		body, ok := bodies[r.URL.Query().Get("stop_id")]
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

const grandCentralNorth = `[
  {"line": "4", "destination_direction": "Woodlawn", "time_to_arrival": 45, "friendly_stop": "Grand Central-42 St"},
  {"line": "4", "destination_direction": "Woodlawn", "time_to_arrival": 400, "friendly_stop": "Grand Central-42 St"}
]`

func TestSnapshotJSON(t *testing.T) {
	resetGlobalOpts(t)
	isolateConfig(t)
	srv := newUpstream(t, map[string]string{"631N": grandCentralNorth})

	globalOpts.BaseURL = srv.URL
	globalOpts.Platforms = []string{"4,631N,2"}
	globalOpts.JSON = true

	var runErr error
	out := captureStdout(t, func() {
		runErr = runSnapshot(context.Background(), &snapshotOptions{Width: 40}, nil)
	})
	if runErr != nil {
		t.Fatalf("runSnapshot: %v", runErr)
	}

	var got struct {
		OK    bool `json:"ok"`
		Items []struct {
			Line     string `json:"line"`
			StopID   string `json:"stop_id"`
			Count    string `json:"count"`
			URL      string `json:"url"`
			Arrivals []struct {
				Countdown     string  `json:"countdown"`
				TimeToArrival float64 `json:"time_to_arrival"`
				Direction     string  `json:"direction"`
			} `json:"arrivals"`
		} `json:"items"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if !got.OK || len(got.Items) != 1 {
		t.Fatalf("unexpected output: %s", out)
	}
	item := got.Items[0]
	if item.StopID != "631N" || item.Count != "2" {
		t.Errorf("item = %+v", item)
	}
	if !strings.Contains(item.URL, "N=2") {
		t.Errorf("url = %q, want N=2", item.URL)
	}
	if len(item.Arrivals) != 2 {
		t.Fatalf("arrivals = %d, want 2", len(item.Arrivals))
	}
	if item.Arrivals[0].Countdown != "Arriving" || item.Arrivals[1].Countdown != "6 min" {
		t.Errorf("countdowns = %q, %q", item.Arrivals[0].Countdown, item.Arrivals[1].Countdown)
	}
	if item.Arrivals[0].Direction != "Woodlawn" {
		t.Errorf("direction = %q", item.Arrivals[0].Direction)
	}
}

func TestSnapshotTextWithFailure(t *testing.T) {
	resetGlobalOpts(t)
	isolateConfig(t)
	srv := newUpstream(t, map[string]string{"631N": grandCentralNorth})

	globalOpts.BaseURL = srv.URL
	globalOpts.Platforms = []string{"4,631N,2", "4,631S,2"}

	var runErr error
	out := captureStdout(t, func() {
		runErr = runSnapshot(context.Background(), &snapshotOptions{Width: 40}, nil)
	})
	if exitCode(runErr) != ExitUpstreamError {
		t.Fatalf("exitCode = %d, want %d (err %v)", exitCode(runErr), ExitUpstreamError, runErr)
	}
	for _, want := range []string{
		"Grand Central-42 St",
		"Arriving",
		"6 min",
		"4,631S,2: Error: Server responded with status 500",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Grand Central") > strings.Index(out, "631S") {
		t.Errorf("boards out of order:\n%s", out)
	}
}

func TestSnapshotTSV(t *testing.T) {
	resetGlobalOpts(t)
	isolateConfig(t)
	srv := newUpstream(t, map[string]string{"631N": grandCentralNorth, "631S": `{"message":"none"}`})

	globalOpts.BaseURL = srv.URL
	globalOpts.Platforms = []string{"4,631N", "4,631S"}
	globalOpts.TSV = true

	var runErr error
	out := captureStdout(t, func() {
		runErr = runSnapshot(context.Background(), &snapshotOptions{}, nil)
	})
	if runErr != nil {
		t.Fatalf("runSnapshot: %v", runErr)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2:\n%s", len(lines), out)
	}
	want := "4\t631N\t4\tWoodlawn\tArriving\tGrand Central-42 St"
	if lines[0] != want {
		t.Errorf("line 0 = %q, want %q", lines[0], want)
	}
}

func TestSnapshotEmptyBoard(t *testing.T) {
	resetGlobalOpts(t)
	isolateConfig(t)
	srv := newUpstream(t, map[string]string{"631N": `[]`})

	globalOpts.BaseURL = srv.URL
	globalOpts.Platforms = []string{"4,631N"}

	out := captureStdout(t, func() {
		if err := runSnapshot(context.Background(), &snapshotOptions{Width: 40}, nil); err != nil {
			t.Errorf("runSnapshot: %v", err)
		}
	})
	if strings.TrimSpace(out) != "4,631N: no arrivals" {
		t.Errorf("output = %q", out)
	}
}

type fakeURLs struct{}

func (fakeURLs) URL(req model.PlatformRequest) string { return "test://" + req.Key() }

func TestFetchSnapshotsKeepsOrder(t *testing.T) {
	reqs := []model.PlatformRequest{
		{Line: "1", StopID: "slow"},
		{Line: "2", StopID: "medium"},
		{Line: "3", StopID: "fast"},
	}
	delays := map[string]time.Duration{
		"slow":   60 * time.Millisecond,
		"medium": 30 * time.Millisecond,
		"fast":   0,
	}
	f := refresh.FetcherFunc(func(ctx context.Context, req model.PlatformRequest) ([]model.Arrival, error) {
		time.Sleep(delays[req.StopID])
		return []model.Arrival{{Line: req.Line}}, nil
	})

	snaps := fetchSnapshots(context.Background(), f, fakeURLs{}, reqs, zerolog.Nop())
	if len(snaps) != len(reqs) {
		t.Fatalf("snapshots = %d, want %d", len(snaps), len(reqs))
	}
	for i, s := range snaps {
		if s.Request != reqs[i] {
			t.Errorf("snapshot %d = %v, want %v", i, s.Request, reqs[i])
		}
		if s.URL != "test://"+reqs[i].Key() {
			t.Errorf("snapshot %d url = %q", i, s.URL)
		}
		if len(s.Arrivals) != 1 || s.Arrivals[0].Line != reqs[i].Line {
			t.Errorf("snapshot %d arrivals = %v", i, s.Arrivals)
		}
	}
}
