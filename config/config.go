// Package config reads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/bcdannyboy/fdquant/pricer"
	"github.com/joho/godotenv"
)

const (
	DefaultOutput = "fdquant_report.json"
	// DefaultDemoPositions sizes the random book priced when no portfolio
	// file is given.
	DefaultDemoPositions = 200
)

// Config is the full set of runtime settings.
type Config struct {
	GridPoints    int
	TimeSteps     int
	Scheme        pricer.Scheme
	Workers       int
	LogLevel      slog.Level
	Portfolio     string
	Output        string
	Progress      bool
	Convergence   bool
	DemoPositions int
	SlackAppToken string
	SlackBotToken string
}

// SlackEnabled reports whether both Slack tokens are set.
func (c Config) SlackEnabled() bool {
	return c.SlackAppToken != "" && c.SlackBotToken != ""
}

// Load reads the given .env files (".env" when none are named) into the
// process environment and parses the settings. Missing files are ignored.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv parses settings through getenv.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		GridPoints:    pricer.DefaultGridPoints,
		Output:        DefaultOutput,
		LogLevel:      slog.LevelInfo,
		DemoPositions: DefaultDemoPositions,
		Portfolio:     getenv("FDQ_PORTFOLIO"),
		SlackAppToken: getenv("SLACK_APP_TOKEN"),
		SlackBotToken: getenv("SLACK_BOT_TOKEN"),
	}
	if v := getenv("FDQ_OUTPUT"); v != "" {
		cfg.Output = v
	}

	var err error
	if cfg.GridPoints, err = intVar(getenv, "FDQ_GRID_POINTS", cfg.GridPoints); err != nil {
		return Config{}, err
	}
	if cfg.GridPoints < 4 {
		return Config{}, fmt.Errorf("FDQ_GRID_POINTS: at least 4 grid points required, got %d", cfg.GridPoints)
	}
	if cfg.TimeSteps, err = intVar(getenv, "FDQ_TIME_STEPS", 0); err != nil {
		return Config{}, err
	}
	if cfg.TimeSteps < 0 {
		return Config{}, fmt.Errorf("FDQ_TIME_STEPS: must not be negative, got %d", cfg.TimeSteps)
	}
	if cfg.Workers, err = intVar(getenv, "FDQ_WORKERS", 0); err != nil {
		return Config{}, err
	}
	if cfg.DemoPositions, err = intVar(getenv, "FDQ_DEMO_POSITIONS", cfg.DemoPositions); err != nil {
		return Config{}, err
	}
	if cfg.Scheme, err = pricer.ParseScheme(getenv("FDQ_SCHEME")); err != nil {
		return Config{}, fmt.Errorf("FDQ_SCHEME: %w", err)
	}
	if v := getenv("FDQ_LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return Config{}, fmt.Errorf("FDQ_LOG_LEVEL: %w", err)
		}
	}
	if cfg.Progress, err = boolVar(getenv, "FDQ_PROGRESS"); err != nil {
		return Config{}, err
	}
	if cfg.Convergence, err = boolVar(getenv, "FDQ_CONVERGENCE"); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func intVar(getenv func(string) string, key string, def int) (int, error) {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func boolVar(getenv func(string) string, key string) (bool, error) {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
