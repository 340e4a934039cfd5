package cli

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/thevedantmod/stand-clear/internal/arrivals"
	"github.com/thevedantmod/stand-clear/internal/config"
	"github.com/thevedantmod/stand-clear/internal/layout"
	"github.com/thevedantmod/stand-clear/internal/logging"
	"github.com/thevedantmod/stand-clear/internal/model"
)

// Exit codes
const (
	ExitOK            = 0
	ExitConfigError   = 2
	ExitUpstreamError = 3
	ExitInternalError = 10
)

// GlobalOptions holds options shared across all commands
type GlobalOptions struct {
	ConfigPath string
	BaseURL    string
	Platforms  []string
	JSON       bool
	TSV        bool
	LogLevel   string
	LogFile    string
}

var globalOpts = &GlobalOptions{}

// exitError carries the process exit code for an error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func withExitCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "standclear",
	Short: "Live subway arrival boards in the terminal",
	Long: `standclear shows live arrival countdowns for one or more subway
platforms and keeps them refreshed from the arrivals API.

Platforms are given as line,stop_id[,count] entries, either with --platform,
in the config file, or in a URL/query string such as
"?platform=4,631N,3&platform=4,631S,3".`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&globalOpts.ConfigPath, "config", "", "Path to config file (default: layered lookup)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.BaseURL, "base-url", "", "Arrivals API base URL")
	rootCmd.PersistentFlags().StringArrayVarP(&globalOpts.Platforms, "platform", "p", nil, "Platform as line,stop_id[,count] (repeatable)")
	rootCmd.PersistentFlags().BoolVar(&globalOpts.JSON, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&globalOpts.TSV, "tsv", false, "Output in TSV format")
	rootCmd.PersistentFlags().StringVar(&globalOpts.LogLevel, "log-level", "", "Log level (error|warn|info|debug)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.LogFile, "log-file", "", "Log file for the board UI")

	// Add subcommands
	rootCmd.AddCommand(newBoardCmd())
	rootCmd.AddCommand(newSnapshotCmd())
	rootCmd.AddCommand(newPlatformsCmd())
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return ExitInternalError
}

// loadConfig loads the layered configuration and applies flag overrides.
// Precedence: flags > repo .standclear/config.yaml > STANDCLEAR_* env > ~/.config/standclear/config.yaml
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if globalOpts.ConfigPath != "" {
		cfg, err = config.LoadFile(globalOpts.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, withExitCode(ExitConfigError, fmt.Errorf("load config: %w", err))
	}

	if globalOpts.BaseURL != "" {
		cfg.BaseURL = globalOpts.BaseURL
	}
	if globalOpts.LogLevel != "" {
		cfg.LogLevel = globalOpts.LogLevel
	}
	if globalOpts.LogFile != "" {
		cfg.LogFile = config.ExpandPath(globalOpts.LogFile, "")
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return nil, withExitCode(ExitConfigError, err)
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, withExitCode(ExitConfigError, fmt.Errorf("invalid base url %q: %w", cfg.BaseURL, err))
	}
	return cfg, nil
}

// resolveRequests builds the platform list from the optional URL/query
// argument and --platform flags, falling back to the config list and then
// to the built-in defaults.
func resolveRequests(cfg *config.Config, args []string) ([]model.PlatformRequest, error) {
	values := url.Values{}
	if len(args) > 0 {
		parsed, err := layout.QueryFromInput(args[0])
		if err != nil {
			return nil, withExitCode(ExitConfigError, fmt.Errorf("invalid query %q: %w", args[0], err))
		}
		values = parsed
	}
	values = layout.WithPlatforms(values, globalOpts.Platforms...)
	if len(values[layout.PlatformParam]) == 0 {
		values = layout.WithPlatforms(values, cfg.Platforms...)
	}
	return layout.Resolve(values), nil
}

func newClient(cfg *config.Config, logger zerolog.Logger) *arrivals.Client {
	return arrivals.NewClient(cfg.BaseURL,
		arrivals.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}),
		arrivals.WithUserAgent(cfg.UserAgent),
		arrivals.WithLogger(logger),
	)
}

func stderrLogger(cfg *config.Config) zerolog.Logger {
	logger, err := logging.New(os.Stderr, cfg.LogLevel)
	if err != nil {
		return zerolog.Nop()
	}
	return logger
}
