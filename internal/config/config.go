package config

import "github.com/spf13/viper"

// Config holds all runtime configuration for aidoku-host.
type Config struct {
	Plugin   string
	StateDir string
	Timeout  int // seconds
	Verbose  bool
	Page     int32
}

// Load reads configuration from viper, which merges flag values, env vars
// (AIDOKU_HOST_* prefix), and defaults set up by the cobra command in
// cmd/aidoku-host.
func Load() Config {
	return Config{
		Plugin:   viper.GetString("plugin"),
		StateDir: viper.GetString("state_dir"),
		Timeout:  viper.GetInt("timeout"),
		Verbose:  viper.GetBool("verbose"),
		Page:     int32(viper.GetInt("page")),
	}
}
