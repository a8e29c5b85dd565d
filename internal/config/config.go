package config

import "time"

// RateLimitConfig holds per-connection token-bucket parameters.
type RateLimitConfig struct {
	Capacity     float64 `mapstructure:"capacity" yaml:"capacity"`
	RefillPerSec float64 `mapstructure:"refill_per_sec" yaml:"refill_per_sec"`
	CostMessage  float64 `mapstructure:"cost_message" yaml:"cost_message"`
	CostTyping   float64 `mapstructure:"cost_typing" yaml:"cost_typing"`
}

// Config holds server configuration values.
type Config struct {
	Addr              string          `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration   `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration   `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string          `mapstructure:"log_level" yaml:"log_level"`
	AllowedOrigins    []string        `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	TypingTTL         time.Duration   `mapstructure:"typing_ttl" yaml:"typing_ttl"`
	RateLimit         RateLimitConfig `mapstructure:"rate_limit" yaml:"rate_limit"`
}

// Default returns configuration with production starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		AllowedOrigins:    []string{"*"},
		TypingTTL:         2 * time.Second,
		RateLimit: RateLimitConfig{
			Capacity:     20,
			RefillPerSec: 5,
			CostMessage:  1,
			CostTyping:   0.2,
		},
	}
}
