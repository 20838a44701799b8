package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Project-Sylos/DriveLister/internal/types"
)

// writeTempConfig writes the given JSON to a temp file and returns its path
func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp(t.TempDir(), "config-*.json")
	if err != nil {
		t.Fatal(err)
	}
	tmpFile.WriteString(content)
	tmpFile.Close()
	return tmpFile.Name()
}

// clearDriveEnv makes sure environment overrides do not leak into tests
func clearDriveEnv(t *testing.T) {
	t.Setenv("DRIVE_FOLDER_ID", "")
	t.Setenv("DRIVE_API_KEY", "")
	t.Setenv("DRIVE_ENDPOINT", "")
}

// TestLoadFromFile tests the LoadFromFile function
func TestLoadFromFile(t *testing.T) {
	clearDriveEnv(t)

	tests := []struct {
		name        string
		content     string
		missingFile bool
		expectError bool
		expectIs    error
		validate    func(*testing.T, *types.Config)
	}{
		{
			name: "valid config",
			content: `{
				"drive": {
					"folder_id": "folder-123",
					"api_key": "key-abc",
					"max_depth": 3,
					"timeout_seconds": 5
				},
				"api": {"host": "0.0.0.0", "port": 9000},
				"store": {"enabled": true, "db_path": ":memory:"},
				"log": {"level": "debug", "format": "json"}
			}`,
			validate: func(t *testing.T, cfg *types.Config) {
				if cfg.Drive.FolderID != "folder-123" {
					t.Errorf("Expected FolderID folder-123, got %s", cfg.Drive.FolderID)
				}
				if cfg.Drive.MaxDepth != 3 {
					t.Errorf("Expected MaxDepth 3, got %d", cfg.Drive.MaxDepth)
				}
				if cfg.API.Port != 9000 {
					t.Errorf("Expected port 9000, got %d", cfg.API.Port)
				}
				if cfg.Store.DBPath != ":memory:" {
					t.Errorf("Expected in-memory DB path to be kept, got %s", cfg.Store.DBPath)
				}
			},
		},
		{
			name: "omitted sections keep defaults",
			content: `{
				"drive": {"folder_id": "folder-123", "api_key": "key-abc"}
			}`,
			validate: func(t *testing.T, cfg *types.Config) {
				if cfg.Drive.MaxDepth != types.DefaultMaxDepth {
					t.Errorf("Expected default MaxDepth %d, got %d", types.DefaultMaxDepth, cfg.Drive.MaxDepth)
				}
				if cfg.API.Port != 8086 {
					t.Errorf("Expected default port 8086, got %d", cfg.API.Port)
				}
				if !filepath.IsAbs(cfg.Store.DBPath) {
					t.Errorf("Expected absolute DB path, got %s", cfg.Store.DBPath)
				}
			},
		},
		{
			name:        "nonexistent config file",
			missingFile: true,
			expectError: true,
			expectIs:    ErrConfigMissing,
		},
		{
			name:        "invalid JSON config",
			content:     `{"invalid": json}`,
			expectError: true,
			expectIs:    ErrConfigMissing,
		},
		{
			name:        "empty api key",
			content:     `{"drive": {"folder_id": "folder-123", "api_key": ""}}`,
			expectError: true,
			expectIs:    ErrConfigMissing,
		},
		{
			name:        "negative max depth",
			content:     `{"drive": {"folder_id": "f", "api_key": "k", "max_depth": -1}}`,
			expectError: true,
		},
		{
			name: "placeholder values load without error",
			content: `{
				"drive": {"folder_id": "YOUR_FOLDER_ID_HERE", "api_key": "YOUR_API_KEY_HERE"}
			}`,
			validate: func(t *testing.T, cfg *types.Config) {
				if !IsUnset(cfg) {
					t.Errorf("Expected placeholder config to be reported as unset")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "nonexistent.json")
			if !tt.missingFile {
				configPath = writeTempConfig(t, tt.content)
			}

			cfg, err := LoadFromFile(configPath)

			if tt.expectError {
				if err == nil {
					t.Fatalf("Expected error but got none")
				}
				if tt.expectIs != nil && !errors.Is(err, tt.expectIs) {
					t.Errorf("Expected error to wrap %v, got %v", tt.expectIs, err)
				}
				if cfg != nil {
					t.Errorf("Expected nil config but got %v", cfg)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if cfg == nil {
				t.Fatalf("Expected config but got nil")
			}
			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

// TestLoadFromFileEnvOverride tests that environment values win over the file
func TestLoadFromFileEnvOverride(t *testing.T) {
	clearDriveEnv(t)
	t.Setenv("DRIVE_FOLDER_ID", "env-folder")
	t.Setenv("DRIVE_API_KEY", "env-key")

	path := writeTempConfig(t, `{"drive": {"folder_id": "YOUR_FOLDER_ID_HERE", "api_key": "YOUR_API_KEY_HERE"}}`)
	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Drive.FolderID != "env-folder" || cfg.Drive.APIKey != "env-key" {
		t.Errorf("Expected env overrides, got folder=%s key=%s", cfg.Drive.FolderID, cfg.Drive.APIKey)
	}
	if IsUnset(cfg) {
		t.Errorf("Expected overridden config to be set")
	}
}

// TestValidate tests the Validate function
func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*types.Config)
		expectError bool
	}{
		{"default config", func(c *types.Config) {}, false},
		{"blank folder id", func(c *types.Config) { c.Drive.FolderID = "  " }, true},
		{"zero max depth allowed", func(c *types.Config) { c.Drive.MaxDepth = 0 }, false},
		{"negative timeout", func(c *types.Config) { c.Drive.TimeoutSeconds = -1 }, true},
		{"port too low", func(c *types.Config) { c.API.Port = 0 }, true},
		{"port too high", func(c *types.Config) { c.API.Port = 70000 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := Validate(&cfg)
			if tt.expectError && err == nil {
				t.Errorf("Expected error but got none")
			}
			if !tt.expectError && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}

	if err := Validate(nil); !errors.Is(err, ErrConfigMissing) {
		t.Errorf("Expected ErrConfigMissing for nil config, got %v", err)
	}
}

// TestIsUnset tests placeholder detection
func TestIsUnset(t *testing.T) {
	cfg := DefaultConfig()
	if !IsUnset(&cfg) {
		t.Errorf("Expected default config to be unset")
	}

	cfg.Drive.FolderID = "real-folder"
	if !IsUnset(&cfg) {
		t.Errorf("Expected config with placeholder key to be unset")
	}

	cfg.Drive.APIKey = "real-key"
	if IsUnset(&cfg) {
		t.Errorf("Expected fully configured config to be set")
	}
}

// TestConfigFileOperations tests saving and reloading a config
func TestConfigFileOperations(t *testing.T) {
	clearDriveEnv(t)

	original := DefaultConfig()
	original.Drive.FolderID = "folder-xyz"
	original.Drive.APIKey = "key-xyz"
	original.Drive.MaxDepth = 1
	original.API.Port = 8181

	path := filepath.Join(t.TempDir(), "saved.json")
	if err := SaveToFile(&original, path); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if loaded.Drive.FolderID != original.Drive.FolderID {
		t.Errorf("FolderID mismatch: expected %s, got %s", original.Drive.FolderID, loaded.Drive.FolderID)
	}
	if loaded.Drive.MaxDepth != original.Drive.MaxDepth {
		t.Errorf("MaxDepth mismatch: expected %d, got %d", original.Drive.MaxDepth, loaded.Drive.MaxDepth)
	}
	if loaded.API.Port != original.API.Port {
		t.Errorf("API Port mismatch: expected %d, got %d", original.API.Port, loaded.API.Port)
	}
}

// TestMaskKey tests API key masking
func TestMaskKey(t *testing.T) {
	tests := map[string]string{
		"":            "",
		"abc":         "***",
		"AIzaSyD1234": "*******1234",
	}
	for in, want := range tests {
		if got := MaskKey(in); got != want {
			t.Errorf("MaskKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func BenchmarkValidateConfig(b *testing.B) {
	config := DefaultConfig()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Validate(&config)
	}
}
