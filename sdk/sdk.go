package sdk

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/Project-Sylos/DriveLister/internal/config"
	"github.com/Project-Sylos/DriveLister/internal/lister"
	"github.com/Project-Sylos/DriveLister/internal/logging"
	"github.com/Project-Sylos/DriveLister/internal/store"
	"github.com/Project-Sylos/DriveLister/internal/tree"
	"github.com/Project-Sylos/DriveLister/internal/types"
	"go.uber.org/zap"
)

// Re-exported types
type (
	Config     = types.Config
	Entry      = types.Entry
	Listing    = types.Listing
	Run        = types.Run
	Visit      = types.Visit
	LoadResult = lister.LoadResult
)

// Re-exported errors
var (
	ErrConfigMissing = config.ErrConfigMissing
	ErrConfigUnset   = config.ErrConfigUnset
	ErrRunNotFound   = store.ErrRunNotFound
)

// ErrHistoryDisabled is returned by the history methods when the run store
// is turned off
var ErrHistoryDisabled = errors.New("run history is disabled")

// Option configures a DriveLister
type Option func(*options)

type options struct {
	transport http.RoundTripper
}

// WithTransport sets the base transport for Drive requests
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

// DriveLister is the public SDK interface for listing a public Drive folder.
// This wraps the internal implementation to provide a clean public API.
type DriveLister struct {
	cfg    *types.Config
	lister *lister.Lister
	store  *store.Store
}

// New creates a DriveLister from a config file. A missing or malformed file
// is not fatal: the lister is still created and every Load reports
// ErrConfigMissing.
func New(configPath string, opts ...Option) (*DriveLister, error) {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		if !errors.Is(err, config.ErrConfigMissing) {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		logging.Error("Configuração do Google Drive não encontrada", zap.String("path", configPath), zap.Error(err))
		cfg = nil
	}
	return NewWithConfig(cfg, opts...)
}

// NewWithDefaults creates a DriveLister using the default config file
func NewWithDefaults() (*DriveLister, error) {
	return New("configs/default.json")
}

// NewWithConfig creates a DriveLister from an in-memory configuration
func NewWithConfig(cfg *types.Config, opts ...Option) (*DriveLister, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	d := &DriveLister{cfg: cfg}

	if cfg != nil && cfg.Store.Enabled {
		s, err := store.New(cfg.Store.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize run store: %w", err)
		}
		d.store = s
	}

	listerOpts := []lister.Option{lister.WithTransport(o.transport)}
	if d.store != nil {
		listerOpts = append(listerOpts, lister.WithRunStore(d.store))
	}
	d.lister = lister.New(cfg, listerOpts...)

	return d, nil
}

// Load fetches and renders the configured folder
func (d *DriveLister) Load(ctx context.Context) (*LoadResult, error) {
	return d.lister.Load(ctx)
}

// Tree fetches the configured folder and returns the sorted listing
func (d *DriveLister) Tree(ctx context.Context) (*Listing, error) {
	res, err := d.Load(ctx)
	if err != nil {
		return nil, err
	}
	if res.Err != nil {
		return nil, res.Err
	}
	return res.Listing, nil
}

// AsFS returns a read-only fs.FS view of a listing
func (d *DriveLister) AsFS(listing *Listing) fs.FS {
	return tree.NewSnapshot(listing.Entries, listing.LoadedAt)
}

// Runs returns the most recent runs first
func (d *DriveLister) Runs(ctx context.Context, limit int) ([]Run, error) {
	if d.store == nil {
		return nil, ErrHistoryDisabled
	}
	return d.store.ListRuns(ctx, limit)
}

// Run returns a single run
func (d *DriveLister) Run(ctx context.Context, id string) (*Run, error) {
	if d.store == nil {
		return nil, ErrHistoryDisabled
	}
	return d.store.GetRun(ctx, id)
}

// Visits returns the folder fetches of a run
func (d *DriveLister) Visits(ctx context.Context, runID string) ([]Visit, error) {
	if d.store == nil {
		return nil, ErrHistoryDisabled
	}
	if _, err := d.store.GetRun(ctx, runID); err != nil {
		return nil, err
	}
	return d.store.GetVisits(ctx, runID)
}

// GetConfig returns the current configuration, or the defaults when none
// could be loaded
func (d *DriveLister) GetConfig() *Config {
	if d.cfg == nil {
		cfg := config.DefaultConfig()
		return &cfg
	}
	return d.cfg
}

// HasConfig reports whether a configuration was loaded
func (d *DriveLister) HasConfig() bool {
	return d.cfg != nil
}

// HistoryEnabled reports whether loads are recorded in the run store
func (d *DriveLister) HistoryEnabled() bool {
	return d.store != nil
}

// Close closes the run store
func (d *DriveLister) Close() error {
	if d.store == nil {
		return nil
	}
	return d.store.Close()
}
