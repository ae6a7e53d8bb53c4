package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the odds dashboard client.
type Config struct {
	// Backend API
	APIBaseURL string `mapstructure:"api_base_url"`
	APIKey     string `mapstructure:"api_key"`

	// Request behavior
	RequestTimeoutSeconds int     `mapstructure:"request_timeout_seconds"`
	RequestsPerSecond     float64 `mapstructure:"requests_per_second"`

	// Display
	EventDisplayCap        int    `mapstructure:"event_display_cap"`
	DefaultMarket          string `mapstructure:"default_market"`
	RefreshIntervalSeconds int    `mapstructure:"refresh_interval_seconds"`
}

// RequestTimeout returns the per-request timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// RefreshInterval returns the dashboard refresh interval; zero means a
// single pass with no refresh loop.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalSeconds) * time.Second
}

// Load reads configuration from environment variables and an optional
// config file. Environment variables take precedence over config file
// values.
//
// Expected environment variables:
//   - ODDS_API_BASE_URL (optional, defaults to local backend)
//   - ODDS_API_KEY (optional)
//   - REQUEST_TIMEOUT_SECONDS (optional)
//   - REQUESTS_PER_SECOND (optional)
//   - EVENT_DISPLAY_CAP (optional)
//   - DEFAULT_MARKET (optional)
//   - REFRESH_INTERVAL_SECONDS (optional)
func Load() (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix("") // No prefix, use full names
	v.AutomaticEnv()

	v.SetDefault("api_base_url", "http://localhost:8000/api")
	v.SetDefault("request_timeout_seconds", 10)
	v.SetDefault("requests_per_second", 20.0)
	v.SetDefault("event_display_cap", 10)
	v.SetDefault("default_market", "h2h")
	v.SetDefault("refresh_interval_seconds", 0)

	// Optionally read from config file if it exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.sports-betting-analyzer")

	// Read config file (ignore if not found)
	_ = v.ReadInConfig()

	v.BindEnv("api_base_url", "ODDS_API_BASE_URL")
	v.BindEnv("api_key", "ODDS_API_KEY")
	v.BindEnv("request_timeout_seconds", "REQUEST_TIMEOUT_SECONDS")
	v.BindEnv("requests_per_second", "REQUESTS_PER_SECOND")
	v.BindEnv("event_display_cap", "EVENT_DISPLAY_CAP")
	v.BindEnv("default_market", "DEFAULT_MARKET")
	v.BindEnv("refresh_interval_seconds", "REFRESH_INTERVAL_SECONDS")

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.APIBaseURL == "" {
		return nil, fmt.Errorf("api_base_url must not be empty")
	}
	if config.EventDisplayCap < 1 {
		return nil, fmt.Errorf("event_display_cap must be at least 1, got %d", config.EventDisplayCap)
	}
	if config.RequestTimeoutSeconds < 1 {
		return nil, fmt.Errorf("request_timeout_seconds must be at least 1, got %d", config.RequestTimeoutSeconds)
	}
	if config.RequestsPerSecond <= 0 {
		return nil, fmt.Errorf("requests_per_second must be positive, got %v", config.RequestsPerSecond)
	}

	return config, nil
}
