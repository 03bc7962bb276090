package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"
)

const (
	ModeDevelopment = "development"
	ModeProduction  = "production"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds runtime settings for the ZeroBalance CLI.
//
// Fields:
//   - Mode: "development" or "production"; selects base URL resolution.
//   - APIURL: externally supplied API base URL, used in production.
//   - DevAPIURL: API base URL used in development.
//   - DefaultAPIURL: fallback when production has no APIURL.
//   - DataDir, DBFile: location of the local SQLite database.
//   - OnlineCheckInterval: how often the client probes backend reachability.
//   - LogLevel: debug, info, warn or error.
//   - Ephemeral: keep the credential in memory only.
type Config struct {
	Mode                string
	APIURL              string
	DevAPIURL           string
	DefaultAPIURL       string
	DataDir             string
	DBFile              string
	OnlineCheckInterval time.Duration
	LogLevel            string
	Ephemeral           bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Mode = ModeProduction
	c.APIURL = ""
	c.DevAPIURL = "http://localhost:8080"
	c.DefaultAPIURL = "http://localhost:8080"
	c.DataDir = "data"
	c.DBFile = "zerobalance.db"
	c.OnlineCheckInterval = 3 * time.Second
	c.LogLevel = "warn"
	c.Ephemeral = false
}

// LoadConfig builds a Config from defaults, .env files, the environment, an
// optional JSON file and finally the command-line flags in args (without the
// program name). Later sources take precedence over earlier ones.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := loadDotEnv(".", modeHint(args)); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Mode != ModeDevelopment && c.Mode != ModeProduction {
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, c.Mode)
	}
	if c.OnlineCheckInterval <= 0 {
		return fmt.Errorf("%w: online check interval must be positive", ErrInvalidConfig)
	}
	if !c.Ephemeral && c.DBFile == "" {
		return fmt.Errorf("%w: database file is not set", ErrInvalidConfig)
	}
	return nil
}

// ResolveBaseURL returns the API base URL for the configured mode:
// DevAPIURL in development, otherwise APIURL or DefaultAPIURL when APIURL is
// empty.
func (c *Config) ResolveBaseURL() string {
	if c.Mode == ModeDevelopment {
		return c.DevAPIURL
	}
	if c.APIURL != "" {
		return c.APIURL
	}
	return c.DefaultAPIURL
}

// DatabasePath joins DataDir and DBFile.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, c.DBFile)
}
