package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds everything the client needs at startup. Values come from an
// optional stampwalk.yaml, overridden by STAMPWALK_* environment variables.
type Config struct {
	ServerURL    string `env:"STAMPWALK_SERVER_URL" yaml:"server_url"`
	DataDir      string `env:"STAMPWALK_DATA_DIR" yaml:"data_dir"`
	UserAgent    string `env:"STAMPWALK_USER_AGENT" yaml:"user_agent"`
	ScreenWidth  int    `env:"STAMPWALK_SCREEN_WIDTH" yaml:"screen_width"`
	ScreenHeight int    `env:"STAMPWALK_SCREEN_HEIGHT" yaml:"screen_height"`
	StartFloor   string `env:"STAMPWALK_START_FLOOR" yaml:"start_floor"`
	LogLevel     string `env:"STAMPWALK_LOG_LEVEL" yaml:"log_level"`
}

// Load reads the optional config file over the defaults, then applies the
// environment on top. An unset environment variable never clears a
// file-provided value.
func Load(file string) (*Config, error) {
	cfg := Config{
		ServerURL:    "http://localhost:8080",
		DataDir:      "data",
		ScreenWidth:  1280,
		ScreenHeight: 720,
		LogLevel:     "INFO",
	}

	data, err := os.ReadFile(file)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", file, err)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("reading %s: %w", file, err)
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}

// SlogLevel converts the configured level name to a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
