// Package config loads tool settings from defaults, an optional TOML file and
// RLREPLAY_* environment variables.
package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/reallyoldfogie/rl-replay-go/rlreplay"
)

// Config holds the settings shared by the commands.
type Config struct {
	MaxArrayDepth    int
	MaxParentRetries int
	Workers          int
	LogLevel         string
	LogPretty        bool
}

// New returns a viper instance with defaults and environment binding applied.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("decode.max_array_depth", rlreplay.DefaultMaxArrayDepth)
	v.SetDefault("decode.max_parent_retries", 0)
	v.SetDefault("scan.workers", runtime.NumCPU())
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", true)

	v.SetEnvPrefix("RLREPLAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads path into v when path is set and returns the resolved Config.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	c := &Config{
		MaxArrayDepth:    v.GetInt("decode.max_array_depth"),
		MaxParentRetries: v.GetInt("decode.max_parent_retries"),
		Workers:          v.GetInt("scan.workers"),
		LogLevel:         v.GetString("log.level"),
		LogPretty:        v.GetBool("log.pretty"),
	}
	if c.MaxArrayDepth < 1 {
		return nil, fmt.Errorf("decode.max_array_depth must be positive, got %d", c.MaxArrayDepth)
	}
	if c.MaxParentRetries < 0 {
		return nil, fmt.Errorf("decode.max_parent_retries must not be negative, got %d", c.MaxParentRetries)
	}
	return c, nil
}

// DecodeOptions returns the decoder limits.
func (c *Config) DecodeOptions() rlreplay.Options {
	return rlreplay.Options{
		MaxArrayDepth:    c.MaxArrayDepth,
		MaxParentRetries: c.MaxParentRetries,
	}
}
