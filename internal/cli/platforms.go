package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/thevedantmod/stand-clear/internal/layout"
	"github.com/thevedantmod/stand-clear/internal/model"
)

type platformsOptions struct {
	Width int
}

func newPlatformsCmd() *cobra.Command {
	opts := &platformsOptions{}

	cmd := &cobra.Command{
		Use:   "platforms [URL|QUERY]",
		Short: "List the resolved platforms",
		Long: `List the platforms resolved from the query, --platform flags and config,
and which of them are shown at a given terminal width.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlatforms(opts, args)
		},
	}

	cmd.Flags().IntVar(&opts.Width, "width", 0, "Terminal width in columns (default 80)")

	return cmd
}

func runPlatforms(opts *platformsOptions, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	reqs, err := resolveRequests(cfg, args)
	if err != nil {
		return err
	}

	width := opts.Width
	if width <= 0 {
		width = 80
	}
	bp := cfg.Breakpoint()
	compact := bp.IsCompactColumns(width)
	visible := len(layout.Visible(reqs, compact))

	if globalOpts.JSON {
		return outputPlatformsJSON(reqs, visible, compact, width)
	}
	if globalOpts.TSV {
		return outputPlatformsTSV(reqs, visible)
	}
	return outputPlatformsTable(reqs, visible, compact, width, bp.WideColumns())
}

func outputPlatformsJSON(reqs []model.PlatformRequest, visible int, compact bool, width int) error {
	type platformOutput struct {
		Key     string `json:"key"`
		Line    string `json:"line"`
		StopID  string `json:"stop_id"`
		Count   string `json:"count"`
		Visible bool   `json:"visible"`
	}

	output := struct {
		OK      bool             `json:"ok"`
		Width   int              `json:"width"`
		Compact bool             `json:"compact"`
		Items   []platformOutput `json:"items"`
	}{
		OK:      true,
		Width:   width,
		Compact: compact,
		Items:   make([]platformOutput, len(reqs)),
	}
	for i, r := range reqs {
		output.Items[i] = platformOutput{
			Key:     r.Key(),
			Line:    r.Line,
			StopID:  r.StopID,
			Count:   r.Limit(),
			Visible: i < visible,
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

func outputPlatformsTSV(reqs []model.PlatformRequest, visible int) error {
	for i, r := range reqs {
		fmt.Printf("%s\t%s\t%s\t%t\n", r.Line, r.StopID, r.Limit(), i < visible)
	}
	return nil
}

func outputPlatformsTable(reqs []model.PlatformRequest, visible int, compact bool, width, wide int) error {
	mode := "wide"
	if compact {
		mode = "compact"
	}
	fmt.Printf("%d columns: %s layout (wide from %d columns)\n\n", width, mode, wide)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tLINE\tSTOP\tCOUNT\tSHOWN")
	for i, r := range reqs {
		shown := "no"
		if i < visible {
			shown = "yes"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", i+1, r.Line, r.StopID, r.Limit(), shown)
	}
	return w.Flush()
}
