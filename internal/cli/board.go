package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thevedantmod/stand-clear/internal/dashboard"
	"github.com/thevedantmod/stand-clear/internal/logging"
)

func newBoardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board [URL|QUERY]",
		Short: "Show live arrival boards",
		Long: `Show live arrival boards for the resolved platforms and keep them refreshed.

Wide terminals show every board side by side; narrow terminals show only the
first platform.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBoard(args)
		},
	}
	return cmd
}

func runBoard(args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	reqs, err := resolveRequests(cfg, args)
	if err != nil {
		return err
	}

	// The UI owns the terminal, so logs go to a file.
	logger, closer, err := logging.OpenFile(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return withExitCode(ExitConfigError, err)
	}
	defer closer.Close()

	logger.Info().
		Str("base_url", cfg.BaseURL).
		Int("platforms", len(reqs)).
		Msg("board starting")

	refreshOpts := cfg.RefreshOptions()
	refreshOpts.Logger = logger

	d := dashboard.New(dashboard.Options{
		Requests:   reqs,
		Fetcher:    newClient(cfg, logger),
		Refresh:    refreshOpts,
		Breakpoint: cfg.Breakpoint(),
		Logger:     logger,
	})
	if err := d.Run(); err != nil {
		return withExitCode(ExitInternalError, fmt.Errorf("board: %w", err))
	}
	logger.Info().Msg("board stopped")
	return nil
}
