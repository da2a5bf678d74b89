package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Config holds application configuration values
type Config struct {
	// Logging
	LogLevel string
	JSONLog  bool

	// Scrape orchestration
	Concurrency   int
	SiteTimeout   time.Duration
	GlobalTimeout time.Duration

	// Browser
	Headless   bool
	ChromePath string
	UserAgent  string
	Proxy      string

	// Rate limiting, per host
	RateLimitRPS   float64
	RateLimitBurst int

	// Paths
	SitesDir    string
	SnapshotDir string

	// Matching
	MinMatchScore float64
	EscalateLow   float64
	EscalateHigh  float64

	// Oracle
	OracleBaseURL string
	OracleModel   string
	OracleEnabled bool
}

// Load builds a Config by combining defaults, a .env file when present,
// environment variables, and CLI flags. Caller should pass the command
// so flags can be read.
func Load(cmd *cobra.Command) (*Config, error) {
	// A missing .env is fine, everything has defaults
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:       DefaultLogLevel,
		JSONLog:        DefaultJSONLog,
		Concurrency:    DefaultConcurrency,
		SiteTimeout:    DefaultSiteTimeout,
		GlobalTimeout:  DefaultGlobalTimeout,
		Headless:       DefaultHeadless,
		UserAgent:      DefaultUserAgent,
		RateLimitRPS:   DefaultRateLimitRPS,
		RateLimitBurst: DefaultRateLimitBurst,
		SnapshotDir:    DefaultSnapshotDir,
		MinMatchScore:  DefaultMinMatchScore,
		EscalateLow:    DefaultEscalateLow,
		EscalateHigh:   DefaultEscalateHigh,
		OracleEnabled:  true,
	}

	// Environment overrides
	if v := os.Getenv("SCOUT_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("SCOUT_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	if v := os.Getenv("SCOUT_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SCOUT_CHROME_PATH"); v != "" {
		cfg.ChromePath = v
	}
	if v := os.Getenv("SCOUT_SITES_DIR"); v != "" {
		cfg.SitesDir = v
	}
	if v := os.Getenv("SCOUT_SNAPSHOT_DIR"); v != "" {
		cfg.SnapshotDir = v
	}
	if v := os.Getenv("SCOUT_ORACLE_BASE_URL"); v != "" {
		cfg.OracleBaseURL = v
	}
	if v := os.Getenv("SCOUT_ORACLE_MODEL"); v != "" {
		cfg.OracleModel = v
	}
	if v := os.Getenv("SCOUT_ORACLE_ENABLED"); v != "" {
		cfg.OracleEnabled = v == "true" || v == "1"
	}
	if v := os.Getenv("SCOUT_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Concurrency = n
		}
	}
	if v := os.Getenv("SCOUT_MIN_MATCH_SCORE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.MinMatchScore = f
		}
	}

	// CLI flags win over everything
	if cmd != nil {
		if f := cmd.Flags().Lookup("concurrency"); f != nil && f.Changed {
			if n, err := strconv.Atoi(f.Value.String()); err == nil {
				cfg.Concurrency = n
			}
		}
		if f := cmd.Flags().Lookup("site-timeout"); f != nil && f.Changed {
			if d, err := time.ParseDuration(f.Value.String()); err == nil {
				cfg.SiteTimeout = d
			}
		}
		if f := cmd.Flags().Lookup("timeout"); f != nil && f.Changed {
			if d, err := time.ParseDuration(f.Value.String()); err == nil {
				cfg.GlobalTimeout = d
			}
		}
		if f := cmd.Flags().Lookup("sites-dir"); f != nil {
			if s := f.Value.String(); s != "" {
				cfg.SitesDir = s
			}
		}
		if f := cmd.Flags().Lookup("min-score"); f != nil && f.Changed {
			if v, err := strconv.ParseFloat(f.Value.String(), 64); err == nil {
				cfg.MinMatchScore = v
			}
		}
		if f := cmd.Flags().Lookup("headful"); f != nil && f.Value.String() == "true" {
			cfg.Headless = false
		}
		if f := cmd.Flags().Lookup("no-oracle"); f != nil && f.Value.String() == "true" {
			cfg.OracleEnabled = false
		}
		if f := cmd.Flags().Lookup("json"); f != nil && f.Value.String() == "true" {
			cfg.JSONLog = true
		}
		if f := cmd.Flags().Lookup("verbose"); f != nil && f.Value.String() == "true" {
			cfg.LogLevel = "debug"
		}
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
