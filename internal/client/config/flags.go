package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/zerobalance/internal/flagx"
)

var knownFlags = []string{"-a", "-m", "-d", "-i", "-l", "-e"}

func flagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("zerobalance", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   API base URL (production)
//	-m string   mode: development or production
//	-d string   data directory
//	-i int      online check interval in seconds
//	-l string   log level
//	-e          keep the credential in memory only
//
// Only the flags listed above are looked at, see flagx.FilterArgs.
func parseFlags(cfg *Config, args []string) error {
	fs := flagSet()

	fs.StringVar(&cfg.APIURL, "a", cfg.APIURL, "API base URL")
	fs.StringVar(&cfg.Mode, "m", cfg.Mode, "mode: development or production")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.BoolVar(&cfg.Ephemeral, "e", cfg.Ephemeral, "keep credential in memory only")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "i" {
			cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
		}
	})
	return nil
}
