package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/zerobalance/internal/flagx"
)

// envConfig mirrors Config for environment parsing. Pointer fields stay nil
// when the variable is unset, so only present values override.
type envConfig struct {
	Mode                *string        `env:"ZB_MODE"`
	ModeFallback        *string        `env:"MODE"`
	APIURL              *string        `env:"ZB_API_URL"`
	APIURLFallback      *string        `env:"API_URL"`
	DevAPIURL           *string        `env:"ZB_DEV_API_URL"`
	DefaultAPIURL       *string        `env:"ZB_DEFAULT_API_URL"`
	DataDir             *string        `env:"ZB_DATA_DIR"`
	DBFile              *string        `env:"ZB_DB_FILE"`
	OnlineCheckInterval *time.Duration `env:"ZB_ONLINE_CHECK_INTERVAL"`
	LogLevel            *string        `env:"ZB_LOG_LEVEL"`
	Ephemeral           *bool          `env:"ZB_EPHEMERAL"`
}

// loadDotEnv loads dir/.env.<mode> and then dir/.env into the process
// environment. Variables that are already set are never overridden, so real
// environment wins over .env.<mode>, which wins over .env. Missing files are
// skipped.
func loadDotEnv(dir, mode string) error {
	var files []string
	if mode != "" {
		files = append(files, filepath.Join(dir, ".env."+mode))
	}
	files = append(files, filepath.Join(dir, ".env"))

	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// modeHint picks the mode used to select .env.<mode> before the full
// configuration is parsed: the -m flag, then ZB_MODE, then MODE.
func modeHint(args []string) string {
	set := flagSet()
	var mode string
	set.StringVar(&mode, "m", "", "")
	if err := set.Parse(flagx.FilterArgs(args, []string{"-m"})); err == nil && mode != "" {
		return mode
	}
	if v := os.Getenv("ZB_MODE"); v != "" {
		return v
	}
	return os.Getenv("MODE")
}

// parseEnv overlays cfg with values from environment variables.
func parseEnv(cfg *Config) error {
	var ec envConfig
	if err := env.Parse(&ec); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	setString(&cfg.Mode, ec.ModeFallback)
	setString(&cfg.Mode, ec.Mode)
	setString(&cfg.APIURL, ec.APIURLFallback)
	setString(&cfg.APIURL, ec.APIURL)
	setString(&cfg.DevAPIURL, ec.DevAPIURL)
	setString(&cfg.DefaultAPIURL, ec.DefaultAPIURL)
	setString(&cfg.DataDir, ec.DataDir)
	setString(&cfg.DBFile, ec.DBFile)
	setString(&cfg.LogLevel, ec.LogLevel)
	if ec.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = *ec.OnlineCheckInterval
	}
	if ec.Ephemeral != nil {
		cfg.Ephemeral = *ec.Ephemeral
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil && *v != "" {
		*dst = *v
	}
}
