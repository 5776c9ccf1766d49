package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// configFileName is the name of the TOML configuration file.
const configFileName = "hdlview.toml"

// Config holds user configuration loaded from hdlview.toml.
type Config struct {
	// DefaultRoot is used when a command is run without --root.
	DefaultRoot string `toml:"default_root"`

	Serve ServeConfig `toml:"serve"`
	Cache CacheConfig `toml:"cache"`
}

// ServeConfig configures the HTTP server.
type ServeConfig struct {
	// Addr is the listen address, e.g. ":8745" or "127.0.0.1:8745".
	Addr string `toml:"addr"`
}

// CacheConfig configures the pipeline cache backend.
type CacheConfig struct {
	// Backend selects the cache implementation: "file", "redis", or "none".
	Backend string `toml:"backend"`

	// Dir overrides the file cache directory. Empty means the XDG default.
	Dir string `toml:"dir"`

	// RedisAddr is the redis server address for the redis backend.
	RedisAddr string `toml:"redis_addr"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Serve: ServeConfig{Addr: ":8745"},
		Cache: CacheConfig{Backend: "file"},
	}
}

// LoadConfig reads configuration from path. When path is empty it searches
// the working directory and then $XDG_CONFIG_HOME/hdlview/; a missing file
// is not an error and yields the defaults. Values absent from the file keep
// their default.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		p, ok := findConfig()
		if !ok {
			return cfg, nil
		}
		path = p
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// findConfig locates the config file in the standard search path.
func findConfig() (string, bool) {
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, true
	}
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		p := filepath.Join(configHome, appName, configFileName)
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, ".config", appName, configFileName)
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
	}
	return "", false
}
