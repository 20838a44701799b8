package models

import (
	"github.com/Project-Sylos/DriveLister/internal/config"
	"github.com/Project-Sylos/DriveLister/internal/types"
)

// RunDetail represents a run together with its folder visits
type RunDetail struct {
	Run    *types.Run    `json:"run"`
	Visits []types.Visit `json:"visits"`
}

// NewRunDetail creates a run detail response
func NewRunDetail(run *types.Run, visits []types.Visit) *RunDetail {
	return &RunDetail{Run: run, Visits: visits}
}

// ConfigView represents the configuration as exposed over HTTP
type ConfigView struct {
	Loaded bool              `json:"loaded"`
	Unset  bool              `json:"unset"`
	Drive  types.DriveConfig `json:"drive"`
	API    types.APIConfig   `json:"api"`
	Store  types.StoreConfig `json:"store"`
	Log    types.LogConfig   `json:"log"`
}

// NewConfigView copies cfg with the API key masked
func NewConfigView(cfg *types.Config, loaded bool) *ConfigView {
	drive := cfg.Drive
	drive.APIKey = config.MaskKey(drive.APIKey)
	return &ConfigView{
		Loaded: loaded,
		Unset:  config.IsUnset(cfg),
		Drive:  drive,
		API:    cfg.API,
		Store:  cfg.Store,
		Log:    cfg.Log,
	}
}

// Health represents the health check payload
type Health struct {
	ConfigLoaded bool `json:"config_loaded"`
	History      bool `json:"history"`
}
