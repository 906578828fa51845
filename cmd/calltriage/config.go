package main

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"time"
)

type Config struct {
	StoreDir    string
	Model       string
	APIKey      string
	SessionID   string
	LexiconPath string
	MetricsAddr string
	LogLevel    string
	EnvFile     string

	AgreementThreshold float64
	TrendWindow        int
	Timeout            time.Duration

	Pretty    bool
	Ephemeral bool
}

func (c Config) Validate() error {
	if !c.Ephemeral && c.StoreDir == "" {
		return errors.New("missing -store (or pass -ephemeral)")
	}
	if c.Model == "" {
		return errors.New("missing -model")
	}
	if c.AgreementThreshold <= 0 || c.AgreementThreshold > 1 {
		return errors.New("agreement-threshold must be in (0,1]")
	}
	if c.TrendWindow < 0 {
		return errors.New("trend-window must be >= 0")
	}
	if c.Timeout <= 0 {
		return errors.New("timeout must be > 0")
	}
	return nil
}

func defaultConfig() Config {
	return Config{
		StoreDir:           filepath.FromSlash("data/sessions"),
		Model:              "gpt-5-mini",
		LogLevel:           "info",
		AgreementThreshold: 0.6,
		TrendWindow:        6,
		Timeout:            30 * time.Second,
	}
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := defaultConfig()
	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.StoreDir, "store", cfg.StoreDir, "Directory for per-session record files")
	fs.StringVar(&cfg.Model, "model", cfg.Model, "OpenAI model for language judgments")
	fs.StringVar(&cfg.APIKey, "api-key", "", "OpenAI API key (overrides OPENAI_API_KEY env var)")
	fs.StringVar(&cfg.SessionID, "session", "", "Session id to resume or start (default: generated)")
	fs.StringVar(&cfg.LexiconPath, "lexicon", "", "Optional YAML keyword lexicon overriding the built-in table")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", "", "Optional listen address for Prometheus /metrics (e.g. :9090)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.EnvFile, "env-file", "", "Optional .env file to load before reading env vars")
	fs.Float64Var(&cfg.AgreementThreshold, "agreement-threshold", cfg.AgreementThreshold, "Cross-modal consistency threshold")
	fs.IntVar(&cfg.TrendWindow, "trend-window", cfg.TrendWindow, "Trailing assessments considered for trend classification (0 = all)")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Per-capability call timeout")
	fs.BoolVar(&cfg.Pretty, "pretty", false, "Pretty-print session record files")
	fs.BoolVar(&cfg.Ephemeral, "ephemeral", false, "Keep session history in memory only (no files)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.StoreDir != "" {
		cfg.StoreDir = filepath.Clean(cfg.StoreDir)
	}
	if cfg.LexiconPath != "" {
		cfg.LexiconPath = filepath.Clean(cfg.LexiconPath)
	}
	return cfg, nil
}
