package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/thevedantmod/stand-clear/internal/arrivals"
	"github.com/thevedantmod/stand-clear/internal/layout"
	"github.com/thevedantmod/stand-clear/internal/refresh"
)

// Config holds standclear configuration
type Config struct {
	BaseURL   string `yaml:"base_url"`
	UserAgent string `yaml:"user_agent"`
	// Platforms are "line,stop_id,count" entries used when the command line
	// names no platforms.
	Platforms        []string      `yaml:"platforms"`
	StartupDelay     time.Duration `yaml:"startup_delay"`
	PollInterval     time.Duration `yaml:"poll_interval"`
	RequestTimeout   time.Duration `yaml:"request_timeout"`
	CompactThreshold int           `yaml:"compact_threshold"`
	CellWidth        int           `yaml:"cell_width"`
	LogLevel         string        `yaml:"log_level"`
	LogFile          string        `yaml:"log_file"`
}

type fileConfig struct {
	BaseURL          string   `yaml:"base_url"`
	UserAgent        string   `yaml:"user_agent"`
	Platforms        []string `yaml:"platforms"`
	StartupDelay     string   `yaml:"startup_delay"`
	PollInterval     string   `yaml:"poll_interval"`
	RequestTimeout   string   `yaml:"request_timeout"`
	CompactThreshold *int     `yaml:"compact_threshold"`
	CellWidth        *int     `yaml:"cell_width"`
	LogLevel         string   `yaml:"log_level"`
	LogFile          string   `yaml:"log_file"`
}

const (
	configFile   = "config.yaml"
	repoDir      = ".standclear"
	appName      = "standclear"
	envPrefix    = "STANDCLEAR_"
	defaultLevel = "warn"
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		BaseURL:          arrivals.DefaultBaseURL,
		StartupDelay:     refresh.DefaultStartupDelay,
		PollInterval:     refresh.DefaultPollInterval,
		RequestTimeout:   arrivals.DefaultTimeout,
		CompactThreshold: layout.DefaultCompactThreshold,
		CellWidth:        layout.DefaultCellWidth,
		LogLevel:         defaultLevel,
		LogFile:          defaultLogFile(),
	}
}

// Load loads configuration with the following precedence (highest first):
// 1. Repo-local .standclear/config.yaml in the current directory
// 2. Parent .standclear/config.yaml files (searched upward from cwd)
// 3. Environment variables
// 4. Global ~/.config/standclear/config.yaml
// 5. Built-in defaults
func Load() (*Config, error) {
	cfg := Default()

	// Load global config first (lowest precedence)
	globalPath := globalConfigPath()
	if globalPath != "" {
		if err := loadFromFile(globalPath, cfg); err != nil && !os.IsNotExist(err) {
			return nil, err
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	repoPaths, err := findRepoConfigs()
	if err != nil {
		return nil, err
	}
	for _, repoPath := range repoPaths {
		if err := loadFromFile(repoPath, cfg); err != nil && !os.IsNotExist(err) {
			return nil, err
		}
	}

	return cfg, nil
}

// LoadFile loads the built-in defaults overlaid with a single file, for
// an explicit --config path.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := loadFromFile(ExpandPath(path, ""), cfg); err != nil {
		return nil, err
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findRepoConfigs searches upward from cwd for .standclear/config.yaml files.
// Returned paths are ordered from furthest ancestor to closest (highest precedence last).
func findRepoConfigs() ([]string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	dir := cwd
	var paths []string
	for {
		configPath := filepath.Join(dir, repoDir, configFile)
		if _, err := os.Stat(configPath); err == nil {
			paths = append(paths, configPath)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	for i, j := 0, len(paths)-1; i < j; i, j = i+1, j-1 {
		paths[i], paths[j] = paths[j], paths[i]
	}

	return paths, nil
}

func globalConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName, configFile)
}

func defaultLogFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, appName, appName+".log")
}

// loadFromFile loads config from a YAML file, merging non-empty values into
// cfg. A relative log_file is resolved against the file's directory.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var fileCfg fileConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	configDir := filepath.Dir(path)
	baseDir := configDir
	if filepath.Base(configDir) == repoDir {
		baseDir = filepath.Dir(configDir)
	}

	if fileCfg.BaseURL != "" {
		cfg.BaseURL = fileCfg.BaseURL
	}
	if fileCfg.UserAgent != "" {
		cfg.UserAgent = fileCfg.UserAgent
	}
	if len(fileCfg.Platforms) > 0 {
		cfg.Platforms = fileCfg.Platforms
	}
	if err := setDuration(&cfg.StartupDelay, fileCfg.StartupDelay, "startup_delay"); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := setDuration(&cfg.PollInterval, fileCfg.PollInterval, "poll_interval"); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := setDuration(&cfg.RequestTimeout, fileCfg.RequestTimeout, "request_timeout"); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if fileCfg.CompactThreshold != nil {
		cfg.CompactThreshold = *fileCfg.CompactThreshold
	}
	if fileCfg.CellWidth != nil {
		cfg.CellWidth = *fileCfg.CellWidth
	}
	if fileCfg.LogLevel != "" {
		cfg.LogLevel = fileCfg.LogLevel
	}
	if fileCfg.LogFile != "" {
		cfg.LogFile = ExpandPath(fileCfg.LogFile, baseDir)
	}

	return nil
}

func setDuration(dst *time.Duration, raw, key string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if d < 0 {
		return fmt.Errorf("invalid %s %q: must not be negative", key, raw)
	}
	*dst = d
	return nil
}

// applyEnv applies environment variables to config
func applyEnv(cfg *Config) error {
	if v := os.Getenv(envPrefix + "BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv(envPrefix + "USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	if v := os.Getenv(envPrefix + "PLATFORMS"); v != "" {
		// Entries contain commas themselves, so the list is ';'-separated.
		cfg.Platforms = splitList(v, ";")
	}
	if err := setDuration(&cfg.StartupDelay, os.Getenv(envPrefix+"STARTUP_DELAY"), envPrefix+"STARTUP_DELAY"); err != nil {
		return err
	}
	if err := setDuration(&cfg.PollInterval, os.Getenv(envPrefix+"POLL_INTERVAL"), envPrefix+"POLL_INTERVAL"); err != nil {
		return err
	}
	if err := setDuration(&cfg.RequestTimeout, os.Getenv(envPrefix+"REQUEST_TIMEOUT"), envPrefix+"REQUEST_TIMEOUT"); err != nil {
		return err
	}
	if v := os.Getenv(envPrefix + "COMPACT_THRESHOLD"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sCOMPACT_THRESHOLD %q: %w", envPrefix, v, err)
		}
		cfg.CompactThreshold = n
	}
	if v := os.Getenv(envPrefix + "CELL_WIDTH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sCELL_WIDTH %q: %w", envPrefix, v, err)
		}
		cfg.CellWidth = n
	}
	if v := os.Getenv(envPrefix + "LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(envPrefix + "LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	return nil
}

func splitList(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// RefreshOptions returns the refresh timings from the config.
func (c *Config) RefreshOptions() refresh.Options {
	opts := refresh.DefaultOptions()
	opts.StartupDelay = c.StartupDelay
	if c.PollInterval > 0 {
		opts.PollInterval = c.PollInterval
	}
	return opts
}

// Breakpoint returns the compact-mode breakpoint from the config.
func (c *Config) Breakpoint() layout.Breakpoint {
	return layout.Breakpoint{
		Threshold: c.CompactThreshold,
		CellWidth: c.CellWidth,
	}
}

// ExpandPath expands ~ and makes path absolute relative to base
func ExpandPath(path, base string) string {
	if path == "" {
		return ""
	}

	if path[0] == '~' {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[1:])
	}

	if !filepath.IsAbs(path) && base != "" {
		path = filepath.Join(base, path)
	}

	return path
}
