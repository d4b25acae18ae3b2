// Package config loads waitwatch settings from ~/.config/waitwatch/config.toml.
//
// A missing file is not an error: defaults are used and the environment can
// supply the rest. WAITWATCH_ENDPOINT and WAITWATCH_API_KEY override the file
// so the shared key does not have to live on disk.
//
// Example config.toml:
//
//	endpoint        = "https://example.com/watch-api.php"
//	api_key         = "..."
//	poll_interval   = "2s"
//	request_timeout = "10s"
//	log_file        = "~/.local/state/waitwatch/waitwatch.log"
//	log_level       = "debug"
//	log_format      = "json"
package config
