package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName     string `mapstructure:"app_name"`
	Env         string `mapstructure:"app_env"`
	LogLevel    string `mapstructure:"log_level"`
	BasePath    string `mapstructure:"base_path"`
	HistoryMode string `mapstructure:"history_mode"`
	RoutesFile  string `mapstructure:"routes_file"`
	APIOrigin   string `mapstructure:"api_origin"`
	APIToken    string `mapstructure:"api_token"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "clashflow")
	v.SetDefault("app_env", EnvDevelopment)
	v.SetDefault("log_level", "info")
	v.SetDefault("base_path", "/")
	v.SetDefault("history_mode", "web")
	v.SetDefault("routes_file", "")
	v.SetDefault("api_origin", "http://127.0.0.1:8000")
	v.SetDefault("api_token", "")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() error {
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	c.HistoryMode = strings.ToLower(strings.TrimSpace(c.HistoryMode))
	c.RoutesFile = strings.TrimSpace(c.RoutesFile)
	c.APIToken = strings.TrimSpace(c.APIToken)

	switch c.HistoryMode {
	case "web", "hash":
	default:
		return fmt.Errorf("invalid history_mode %q (expected web or hash)", c.HistoryMode)
	}

	origin, err := url.Parse(strings.TrimSpace(c.APIOrigin))
	if err != nil || origin.Scheme == "" || origin.Host == "" {
		return fmt.Errorf("invalid api_origin %q (must be an absolute URL)", c.APIOrigin)
	}
	c.APIOrigin = strings.TrimRight(origin.String(), "/")

	return nil
}

// Production reports whether the app runs against the bundled production API path.
func (c *Config) Production() bool {
	return c != nil && c.Env == EnvProduction
}

// Redacted returns a copy safe for logging.
func (c Config) Redacted() Config {
	if c.APIToken != "" {
		c.APIToken = "***"
	}
	return c
}
