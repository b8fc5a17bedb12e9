// Package config loads the quizctl client configuration: a TOML file with
// environment-variable overrides. A .env file in the working directory is
// honored for local development.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	// ConfigFileName is the default name of the configuration file.
	ConfigFileName = "quizctl.toml"

	// DefaultServerURL is the default game server WebSocket endpoint.
	DefaultServerURL = "ws://localhost:3000/ws"

	// DefaultAPIURL is the default quiz content API base URL.
	DefaultAPIURL = "http://localhost:3000"

	// DefaultListenAddr is the default bind address for `quizctl serve`.
	DefaultListenAddr = ":3000"
)

// Environment variable overrides. Each, when set, wins over the file value.
const (
	EnvServerURL  = "QUIZ_SERVER_URL"
	EnvAPIURL     = "QUIZ_API_URL"
	EnvToken      = "QUIZ_TOKEN"
	EnvListenAddr = "QUIZ_LISTEN_ADDR"
	EnvLogLevel   = "QUIZ_LOG_LEVEL"
)

// Config is the quizctl configuration.
type Config struct {
	// ServerURL is the game server WebSocket endpoint.
	ServerURL string `toml:"server_url"`

	// APIURL is the quiz content API base URL.
	APIURL string `toml:"api_url"`

	// Token is the auth token passed to the game server on connect.
	Token string `toml:"token"`

	// ListenAddr is the bind address used by `quizctl serve`.
	ListenAddr string `toml:"listen_addr"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`
}

// Default returns a Config with every field at its default.
func Default() *Config {
	return &Config{
		ServerURL:  DefaultServerURL,
		APIURL:     DefaultAPIURL,
		ListenAddr: DefaultListenAddr,
		LogLevel:   "info",
	}
}

// Load reads the configuration from path, layering defaults, the TOML file
// (if it exists), and environment overrides, in that order. A missing file
// is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	// Best-effort: a missing .env file is the normal case.
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		path = ConfigFileName
	}
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvServerURL); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv(EnvAPIURL); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv(EnvToken); v != "" {
		cfg.Token = v
	}
	if v := os.Getenv(EnvListenAddr); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.ServerURL, "ws://") && !strings.HasPrefix(c.ServerURL, "wss://") {
		return fmt.Errorf("config: server_url %q must use ws:// or wss://", c.ServerURL)
	}
	if !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		return fmt.Errorf("config: api_url %q must use http:// or https://", c.APIURL)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log_level %q", c.LogLevel)
	}
	return nil
}
