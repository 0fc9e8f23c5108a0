// Package config loads converter settings from environment variables with
// defaults, letting command-line flags override both.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the converter configuration
type Config struct {
	Encode  EncodeConfig
	Logging LoggingConfig
}

// LoadOptions holds command-line override options
type LoadOptions struct {
	LogLevel   string
	Colorspace int
	// ColorspaceSet marks that the colorspace flag was given explicitly;
	// zero is a valid value, so presence cannot be inferred from it.
	ColorspaceSet bool
}

// EncodeConfig holds encoder-side settings
type EncodeConfig struct {
	// Colorspace is the header flag written on encode:
	// 0 = sRGB with linear alpha, 1 = all channels linear.
	Colorspace int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
}

// Load loads configuration from environment variables with defaults
func Load() (*Config, error) {
	return LoadWithOverrides(LoadOptions{})
}

// LoadWithOverrides loads configuration with command-line overrides
func LoadWithOverrides(opts LoadOptions) (*Config, error) {
	config := &Config{}

	config.Encode.Colorspace = getIntWithDefault("QOI_COLORSPACE", 1)
	if opts.ColorspaceSet {
		config.Encode.Colorspace = opts.Colorspace
	}

	config.Logging.Level = getOverrideOrEnv(opts.LogLevel, "LOG_LEVEL", "info")

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Encode.Colorspace != 0 && c.Encode.Colorspace != 1 {
		return fmt.Errorf("colorspace must be 0 or 1, got %d", c.Encode.Colorspace)
	}

	validLogLevels := map[string]bool{
		"debug":   true,
		"info":    true,
		"warn":    true,
		"warning": true,
		"error":   true,
	}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	return nil
}

// getOverrideOrEnv returns the override when set, otherwise the environment
// value, otherwise the default.
func getOverrideOrEnv(override, key, defaultValue string) string {
	if override != "" {
		return override
	}
	return getEnvWithDefault(key, defaultValue)
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntWithDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
