package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Project-Sylos/DriveLister/internal/types"
)

// ErrConfigMissing is returned when the configuration is absent or malformed
var ErrConfigMissing = errors.New("drive configuration not found")

// ErrConfigUnset is returned when the placeholder values are still present
var ErrConfigUnset = errors.New("drive configuration not set")

// DefaultConfig returns a default configuration with placeholder Drive values
func DefaultConfig() types.Config {
	return types.Config{
		Drive: types.DriveConfig{
			FolderID:       types.PlaceholderFolderID,
			APIKey:         types.PlaceholderAPIKey,
			MaxDepth:       types.DefaultMaxDepth,
			TimeoutSeconds: 10,
		},
		API: types.APIConfig{
			Host: "localhost",
			Port: 8086,
		},
		Store: types.StoreConfig{
			Enabled: true,
			DBPath:  "./drivelister.db",
		},
		Log: types.LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadFromFile loads configuration from a JSON file
func LoadFromFile(configPath string) (*types.Config, error) {
	// Check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: config file not found: %s", ErrConfigMissing, configPath)
	}

	// Read file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start from defaults so omitted sections keep sane values
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config JSON: %v", ErrConfigMissing, err)
	}

	ApplyEnv(&cfg)

	// Validate configuration
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Ensure DB path is absolute
	if cfg.Store.DBPath == "" {
		cfg.Store.DBPath = "./drivelister.db"
	}
	if cfg.Store.DBPath != ":memory:" && !filepath.IsAbs(cfg.Store.DBPath) {
		absPath, err := filepath.Abs(cfg.Store.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve DB path: %w", err)
		}
		cfg.Store.DBPath = absPath
	}

	// Set default API config if not specified
	if cfg.API.Host == "" {
		cfg.API.Host = "localhost"
	}

	return &cfg, nil
}

// ApplyEnv overrides the Drive credentials from the environment when set
func ApplyEnv(cfg *types.Config) {
	cfg.Drive.FolderID = envOr("DRIVE_FOLDER_ID", cfg.Drive.FolderID)
	cfg.Drive.APIKey = envOr("DRIVE_API_KEY", cfg.Drive.APIKey)
	cfg.Drive.Endpoint = envOr("DRIVE_ENDPOINT", cfg.Drive.Endpoint)
}

// Validate checks that the configuration parameters are valid
func Validate(cfg *types.Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: config cannot be nil", ErrConfigMissing)
	}

	// Validate drive config
	if strings.TrimSpace(cfg.Drive.FolderID) == "" {
		return fmt.Errorf("%w: folder_id is required", ErrConfigMissing)
	}
	if strings.TrimSpace(cfg.Drive.APIKey) == "" {
		return fmt.Errorf("%w: api_key is required", ErrConfigMissing)
	}
	if cfg.Drive.MaxDepth < 0 {
		return fmt.Errorf("max_depth must be non-negative, got %d", cfg.Drive.MaxDepth)
	}
	if cfg.Drive.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must be non-negative, got %d", cfg.Drive.TimeoutSeconds)
	}

	// Validate API config
	if cfg.API.Port < 1 || cfg.API.Port > 65535 {
		return fmt.Errorf("API port must be between 1 and 65535, got %d", cfg.API.Port)
	}

	return nil
}

// IsUnset reports whether the Drive credentials still hold placeholder values
func IsUnset(cfg *types.Config) bool {
	return cfg.Drive.FolderID == types.PlaceholderFolderID || cfg.Drive.APIKey == types.PlaceholderAPIKey
}

// SaveToFile saves configuration to a JSON file
func SaveToFile(cfg *types.Config, configPath string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config to JSON: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MaskKey hides all but the last four characters of an API key
func MaskKey(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
