package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"
	"github.com/thevedantmod/stand-clear/internal/arrivals"
	"github.com/thevedantmod/stand-clear/internal/board"
	"github.com/thevedantmod/stand-clear/internal/model"
	"github.com/thevedantmod/stand-clear/internal/refresh"
)

const maxSnapshotFetches = 8

type snapshotOptions struct {
	Width int
}

// platformSnapshot is the result of one fetch.
type platformSnapshot struct {
	Request  model.PlatformRequest
	URL      string
	Arrivals []model.Arrival
	Err      error
}

func newSnapshotCmd() *cobra.Command {
	opts := &snapshotOptions{}

	cmd := &cobra.Command{
		Use:   "snapshot [URL|QUERY]",
		Short: "Fetch every platform once and print the boards",
		Long: `Fetch every resolved platform once, concurrently, and print the boards.

Use --json or --tsv for machine-readable output. The command exits with a
non-zero status when any platform failed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshot(cmd.Context(), opts, args)
		},
	}

	cmd.Flags().IntVar(&opts.Width, "width", board.DefaultWidth, "Board width in columns")

	return cmd
}

func runSnapshot(ctx context.Context, opts *snapshotOptions, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	reqs, err := resolveRequests(cfg, args)
	if err != nil {
		return err
	}

	logger := stderrLogger(cfg)
	client := newClient(cfg, logger)
	snaps := fetchSnapshots(ctx, client, client, reqs, logger)

	switch {
	case globalOpts.JSON:
		err = outputSnapshotJSON(snaps)
	case globalOpts.TSV:
		err = outputSnapshotTSV(snaps)
	default:
		err = outputSnapshotText(snaps, opts.Width)
	}
	if err != nil {
		return err
	}

	failed := 0
	for _, s := range snaps {
		if s.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		return withExitCode(ExitUpstreamError, fmt.Errorf("%d of %d platforms failed", failed, len(snaps)))
	}
	return nil
}

type urlBuilder interface {
	URL(req model.PlatformRequest) string
}

// fetchSnapshots fetches every request concurrently. Results keep the
// order of reqs.
func fetchSnapshots(ctx context.Context, f refresh.Fetcher, urls urlBuilder, reqs []model.PlatformRequest, logger zerolog.Logger) []platformSnapshot {
	p := pool.New().WithMaxGoroutines(maxSnapshotFetches)

	results := make([]platformSnapshot, len(reqs))
	for i, req := range reqs {
		i, req := i, req
		p.Go(func() {
			start := time.Now()
			list, err := f.Fetch(ctx, req)
			snap := platformSnapshot{
				Request:  req,
				URL:      urls.URL(req),
				Arrivals: list,
				Err:      err,
			}
			if err != nil {
				logger.Warn().
					Err(err).
					Str("kind", arrivals.Kind(err)).
					Str("line", req.Line).
					Str("stop_id", req.StopID).
					Msg("snapshot fetch failed")
			} else {
				logger.Debug().
					Str("line", req.Line).
					Str("stop_id", req.StopID).
					Int("arrivals", len(list)).
					Dur("took", time.Since(start)).
					Msg("snapshot fetched")
			}
			results[i] = snap
		})
	}
	p.Wait()
	return results
}

func outputSnapshotJSON(snaps []platformSnapshot) error {
	type arrivalOutput struct {
		Line          string  `json:"line"`
		Direction     string  `json:"direction"`
		Countdown     string  `json:"countdown"`
		TimeToArrival float64 `json:"time_to_arrival"`
		Stop          string  `json:"stop"`
	}
	type platformOutput struct {
		Line     string          `json:"line"`
		StopID   string          `json:"stop_id"`
		Count    string          `json:"count,omitempty"`
		URL      string          `json:"url"`
		Error    string          `json:"error,omitempty"`
		Arrivals []arrivalOutput `json:"arrivals"`
	}

	output := struct {
		OK    bool             `json:"ok"`
		Items []platformOutput `json:"items"`
	}{
		OK:    true,
		Items: make([]platformOutput, len(snaps)),
	}

	for i, s := range snaps {
		item := platformOutput{
			Line:     s.Request.Line,
			StopID:   s.Request.StopID,
			Count:    s.Request.Count,
			URL:      s.URL,
			Arrivals: make([]arrivalOutput, 0, len(s.Arrivals)),
		}
		if s.Err != nil {
			item.Error = s.Err.Error()
			output.OK = false
		}
		for _, a := range s.Arrivals {
			item.Arrivals = append(item.Arrivals, arrivalOutput{
				Line:          a.Line,
				Direction:     a.DestinationDirection,
				Countdown:     board.Countdown(a.TimeToArrival),
				TimeToArrival: float64(a.TimeToArrival),
				Stop:          a.FriendlyStop,
			})
		}
		output.Items[i] = item
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

func outputSnapshotTSV(snaps []platformSnapshot) error {
	for _, s := range snaps {
		if s.Err != nil {
			fmt.Printf("%s\t%s\terror\t\t\t%s\n", s.Request.Line, s.Request.StopID, s.Err)
			continue
		}
		for _, a := range s.Arrivals {
			fmt.Printf("%s\t%s\t%s\t%s\t%s\t%s\n",
				s.Request.Line,
				s.Request.StopID,
				a.Line,
				a.DestinationDirection,
				board.Countdown(a.TimeToArrival),
				a.FriendlyStop,
			)
		}
	}
	return nil
}

func outputSnapshotText(snaps []platformSnapshot, width int) error {
	styles := board.PlainStyles()
	for i, s := range snaps {
		if i > 0 {
			fmt.Println()
		}
		switch {
		case s.Err != nil:
			fmt.Printf("%s: Error: %s\n", s.Request, s.Err)
		case len(s.Arrivals) == 0:
			fmt.Printf("%s: no arrivals\n", s.Request)
		default:
			fmt.Println(board.Render(s.Arrivals, width, styles))
		}
	}
	return nil
}
