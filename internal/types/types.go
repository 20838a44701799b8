package types

import (
	"time"
)

// Config represents the complete configuration for the Drive lister
type Config struct {
	Drive DriveConfig `json:"drive"`
	API   APIConfig   `json:"api"`
	Store StoreConfig `json:"store"`
	Log   LogConfig   `json:"log"`
}

// DriveConfig represents the Google Drive listing configuration
type DriveConfig struct {
	FolderID       string `json:"folder_id"`
	APIKey         string `json:"api_key"`
	MaxDepth       int    `json:"max_depth"`
	Endpoint       string `json:"endpoint,omitempty"` // Override for the Drive v3 base URL (tests, demo)
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// APIConfig represents the HTTP API configuration
type APIConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// StoreConfig represents the run history database configuration
type StoreConfig struct {
	Enabled bool   `json:"enabled"`
	DBPath  string `json:"db_path"`
}

// LogConfig represents the logging configuration
type LogConfig struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // json, console
}

// Item represents a raw file record as returned by a single Drive listing call
type Item struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	MimeType      string `json:"mimeType"`
	WebViewLink   string `json:"webViewLink,omitempty"`
	IconLink      string `json:"iconLink,omitempty"`
	FileExtension string `json:"fileExtension,omitempty"`
}

// Entry represents one file or folder returned by the Drive listing API.
// Entries are built complete (parent, depth, path, children) during traversal
// and are not modified afterwards.
type Entry struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	MimeType      string   `json:"mime_type"`
	WebViewLink   string   `json:"web_view_link,omitempty"`
	IconLink      string   `json:"icon_link,omitempty"`
	FileExtension string   `json:"file_extension,omitempty"`
	ParentID      string   `json:"parent_id,omitempty"`
	Depth         int      `json:"depth"`
	Path          string   `json:"path"`
	Truncated     bool     `json:"truncated,omitempty"` // Folder sits at max depth and was not expanded
	Children      []*Entry `json:"children"`
}

// IsFolder reports whether the entry is a Drive folder
func (e *Entry) IsFolder() bool {
	return e.MimeType == MimeTypeFolder
}

// Listing represents a fetched and sorted folder tree
type Listing struct {
	FolderID   string    `json:"folder_id"`
	MaxDepth   int       `json:"max_depth"`
	TotalCount int       `json:"total_count"`
	Warnings   []string  `json:"warnings,omitempty"`
	RunID      string    `json:"run_id,omitempty"`
	LoadedAt   time.Time `json:"loaded_at"`
	Entries    []*Entry  `json:"entries"`
}

// APIResponse represents a generic API response
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Run represents one recorded listing load
type Run struct {
	ID           string     `json:"id"`
	FolderID     string     `json:"folder_id"`
	Status       string     `json:"status"`
	EntryCount   int        `json:"entry_count"`
	WarningCount int        `json:"warning_count"`
	Message      string     `json:"message,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}

// Visit represents a single folder fetch made while building a tree
type Visit struct {
	RunID      string    `json:"run_id"`
	FolderID   string    `json:"folder_id"`
	ParentID   string    `json:"parent_id,omitempty"`
	Depth      int       `json:"depth"`
	Status     string    `json:"status"`
	ChildCount int       `json:"child_count"`
	Error      string    `json:"error,omitempty"`
	VisitedAt  time.Time `json:"visited_at"`
}

// MimeType constants
const (
	MimeTypeFolder = "application/vnd.google-apps.folder"
)

// Placeholder values shipped in the sample configuration
const (
	PlaceholderFolderID = "YOUR_FOLDER_ID_HERE"
	PlaceholderAPIKey   = "YOUR_API_KEY_HERE"
)

// Visit status constants
const (
	StatusPending    = "pending"
	StatusSuccessful = "successful"
	StatusFailed     = "failed"
)

// Run status constants
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusPartial   = "partial"
	RunStatusFailed    = "failed"
)

// DefaultMaxDepth bounds how many levels of nested folders are expanded
const DefaultMaxDepth = 2
