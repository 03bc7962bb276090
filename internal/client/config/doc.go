// Package config loads runtime configuration for the ZeroBalance CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. .env.<mode> and .env in the working directory, loaded into the
//     process environment without overriding variables that are already set.
//  3. Environment variables (ZB_MODE or MODE, ZB_API_URL or API_URL,
//     ZB_DEV_API_URL, ZB_DEFAULT_API_URL, ZB_DATA_DIR, ZB_DB_FILE,
//     ZB_ONLINE_CHECK_INTERVAL, ZB_LOG_LEVEL, ZB_EPHEMERAL).
//  4. Optional JSON file selected with -c or -config.
//  5. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   API base URL (production)
//	-m string   mode: development or production
//	-d string   data directory
//	-i int      online status check interval (seconds)
//	-l string   log level
//	-e          keep the credential in memory only
//
// # JSON schema
//
// Intervals use timex.Duration, so values can be strings like "3s" or
// integer nanoseconds:
//
//	{
//	  "mode": "production",
//	  "api_url": "https://api.zerobalance.example",
//	  "data_dir": "data",
//	  "online_check_interval": "3s"
//	}
//
// The API base URL is chosen once at startup by (*Config).ResolveBaseURL.
package config
