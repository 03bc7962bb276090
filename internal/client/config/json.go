package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/zerobalance/internal/flagx"
	"github.com/dmitrijs2005/zerobalance/internal/timex"
)

// JSONConfig is a DTO used exclusively for JSON unmarshalling. Intervals are
// timex.Duration so they can be written as "3s" or as integer nanoseconds.
// Absent keys leave the corresponding Config field unchanged.
type JSONConfig struct {
	Mode                *string         `json:"mode"`
	APIURL              *string         `json:"api_url"`
	DevAPIURL           *string         `json:"dev_api_url"`
	DefaultAPIURL       *string         `json:"default_api_url"`
	DataDir             *string         `json:"data_dir"`
	DBFile              *string         `json:"db_file"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	LogLevel            *string         `json:"log_level"`
	Ephemeral           *bool           `json:"ephemeral"`
}

// parseJSON overlays cfg with the JSON file named by -c or -config in args.
// Without either flag nothing is loaded.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var jc JSONConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&cfg.Mode, jc.Mode)
	setString(&cfg.APIURL, jc.APIURL)
	setString(&cfg.DevAPIURL, jc.DevAPIURL)
	setString(&cfg.DefaultAPIURL, jc.DefaultAPIURL)
	setString(&cfg.DataDir, jc.DataDir)
	setString(&cfg.DBFile, jc.DBFile)
	setString(&cfg.LogLevel, jc.LogLevel)
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.Ephemeral != nil {
		cfg.Ephemeral = *jc.Ephemeral
	}
	return nil
}
