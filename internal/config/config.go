// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults, environment variables,
// or must be provided via CLI flags.
type Config struct {
	// Behavior
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	DataDir     string `json:"data_dir,omitempty"`     // Directory for file-backed state (fallback when no database)
	Verbose     bool   `json:"verbose,omitempty"`      // Print detailed debug information

	// Pipeline pacing, in milliseconds. Zero means package defaults; negative
	// disables the hold entirely.
	UploadHoldMs  int `json:"upload_hold_ms,omitempty"`
	ProcessHoldMs int `json:"process_hold_ms,omitempty"`

	// Auth
	JWTSecret  string `json:"jwt_secret,omitempty"`  // HMAC secret for session tokens
	BcryptCost int    `json:"bcrypt_cost,omitempty"` // Password hashing cost (0 = library default)
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv returns a Config populated from environment variables. Callers
// typically load a .env file first.
func FromEnv() Config {
	return Config{
		APIKey:      os.Getenv("GEMINI_API_KEY"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		DataDir:     os.Getenv("ROLECOACH_DATA_DIR"),
		JWTSecret:   os.Getenv("ROLECOACH_JWT_SECRET"),
	}
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.BcryptCost < 0 {
		return fmt.Errorf("config error: 'bcrypt_cost' must be non-negative")
	}

	if c.DataDir != "" {
		if info, err := os.Stat(c.DataDir); err == nil && !info.IsDir() {
			return fmt.Errorf("config error: data_dir is not a directory: %s", c.DataDir)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. This is used to layer config file values under environment and
// CLI flag values.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.DataDir == "" {
		result.DataDir = defaults.DataDir
	}
	if result.JWTSecret == "" {
		result.JWTSecret = defaults.JWTSecret
	}

	// Int fields: use default if zero
	if result.UploadHoldMs == 0 {
		result.UploadHoldMs = defaults.UploadHoldMs
	}
	if result.ProcessHoldMs == 0 {
		result.ProcessHoldMs = defaults.ProcessHoldMs
	}
	if result.BcryptCost == 0 {
		result.BcryptCost = defaults.BcryptCost
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
