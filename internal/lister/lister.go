package lister

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Project-Sylos/DriveLister/internal/config"
	"github.com/Project-Sylos/DriveLister/internal/drive"
	"github.com/Project-Sylos/DriveLister/internal/logging"
	"github.com/Project-Sylos/DriveLister/internal/metrics"
	"github.com/Project-Sylos/DriveLister/internal/render"
	"github.com/Project-Sylos/DriveLister/internal/tree"
	"github.com/Project-Sylos/DriveLister/internal/types"
	"go.uber.org/zap"
)

// DefaultTitle is the page heading
const DefaultTitle = "Ficheiros e Documentos"

// Load results recorded in metrics
const (
	resultSuccess       = "success"
	resultPartial       = "partial"
	resultError         = "error"
	resultUnset         = "unset"
	resultConfigMissing = "config_missing"
)

// RunStore records listing history
type RunStore interface {
	tree.VisitRecorder
	CreateRun(ctx context.Context, folderID string) (*types.Run, error)
	FinishRun(ctx context.Context, run *types.Run) error
}

// LoadResult is one rendered load. Err is set when the page shows the setup
// or error line instead of a listing.
type LoadResult struct {
	Page     *render.Page
	Listing  *types.Listing
	Warnings []tree.Warning
	RunID    string
	Err      error
}

// Lister runs the fetch, build, sort and render pipeline for one folder
type Lister struct {
	cfg    *types.Config
	runs   RunStore
	base   http.RoundTripper
	title  string
	logger *zap.Logger
}

// Option configures a Lister
type Option func(*Lister)

// WithRunStore records every load in s
func WithRunStore(s RunStore) Option {
	return func(l *Lister) { l.runs = s }
}

// WithTransport sets the base transport for Drive requests
func WithTransport(rt http.RoundTripper) Option {
	return func(l *Lister) { l.base = rt }
}

// WithTitle sets the page heading
func WithTitle(title string) Option {
	return func(l *Lister) { l.title = title }
}

// WithLogger overrides the global logger
func WithLogger(logger *zap.Logger) Option {
	return func(l *Lister) { l.logger = logger }
}

// New creates a lister. A nil cfg makes every Load fail with
// config.ErrConfigMissing.
func New(cfg *types.Config, opts ...Option) *Lister {
	l := &Lister{cfg: cfg, title: DefaultTitle}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = logging.L()
	}
	return l
}

// Config returns the lister configuration
func (l *Lister) Config() *types.Config {
	return l.cfg
}

// Load fetches and renders the configured folder. Only a missing or
// malformed configuration and context cancellation are returned as errors;
// unset placeholders and listing failures are rendered into the page.
func (l *Lister) Load(ctx context.Context) (*LoadResult, error) {
	if err := config.Validate(l.cfg); err != nil {
		l.logger.Error("Configuração do Google Drive não encontrada", zap.Error(err))
		metrics.RecordLoad(resultConfigMissing)
		if !errors.Is(err, config.ErrConfigMissing) {
			err = fmt.Errorf("%w: %v", config.ErrConfigMissing, err)
		}
		return nil, err
	}

	page := render.NewPage(l.title)
	page.ShowMessage(render.LoadingMessage, render.MessageLoading)
	result := &LoadResult{Page: page}

	if config.IsUnset(l.cfg) {
		l.logger.Warn("Google Drive API não configurado")
		page.ShowMessage(SetupMessage, render.MessageInfo)
		metrics.RecordLoad(resultUnset)
		result.Err = config.ErrConfigUnset
		return result, nil
	}

	fetcher, err := drive.NewFetcher(ctx, drive.Options{
		APIKey:   l.cfg.Drive.APIKey,
		Endpoint: l.cfg.Drive.Endpoint,
		Timeout:  time.Duration(l.cfg.Drive.TimeoutSeconds) * time.Second,
		Base:     l.base,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create fetcher: %w", err)
	}

	run := l.startRun(ctx)
	opts := []tree.Option{tree.WithMaxDepth(l.cfg.Drive.MaxDepth), tree.WithLogger(l.logger)}
	if run != nil {
		result.RunID = run.ID
		opts = append(opts, tree.WithRecorder(run.ID, l.runs))
	}
	builder := tree.NewBuilder(fetcher, opts...)

	built, err := builder.BuildRoot(ctx, l.cfg.Drive.FolderID)
	if err != nil {
		if ctx.Err() != nil {
			l.finishRun(run, types.RunStatusFailed, 0, 0, ctx.Err().Error())
			return nil, ctx.Err()
		}

		msg := ErrorMessage(err)
		l.logger.Error("Erro ao carregar ficheiros", zap.String("error", logging.Redact(err.Error())))
		page.ShowMessage(msg, render.MessageError)
		metrics.RecordLoad(resultError)
		l.finishRun(run, types.RunStatusFailed, 0, 0, msg)
		result.Err = err
		return result, nil
	}

	entries := tree.SortRecursive(built.Entries)
	page.SetEntries(entries)
	total := tree.CountNodes(entries)

	warnings := make([]string, 0, len(built.Warnings))
	for _, w := range built.Warnings {
		warnings = append(warnings, logging.Redact(w.String()))
	}

	result.Warnings = built.Warnings
	result.Listing = &types.Listing{
		FolderID:   l.cfg.Drive.FolderID,
		MaxDepth:   builder.MaxDepth(),
		TotalCount: total,
		Warnings:   warnings,
		RunID:      result.RunID,
		LoadedAt:   time.Now(),
		Entries:    entries,
	}

	l.logger.Info(fmt.Sprintf("✓ %d ficheiros carregados do Google Drive", total),
		zap.Int("visits", built.Visits),
		zap.Int("warnings", len(warnings)))
	metrics.SetTreeEntries(total)

	status, loadResult := types.RunStatusCompleted, resultSuccess
	if len(warnings) > 0 {
		status, loadResult = types.RunStatusPartial, resultPartial
	}
	metrics.RecordLoad(loadResult)
	l.finishRun(run, status, total, len(warnings), "")

	return result, nil
}

func (l *Lister) startRun(ctx context.Context) *types.Run {
	if l.runs == nil {
		return nil
	}
	run, err := l.runs.CreateRun(ctx, l.cfg.Drive.FolderID)
	if err != nil {
		l.logger.Warn("failed to create run record", zap.Error(err))
		return nil
	}
	return run
}

func (l *Lister) finishRun(run *types.Run, status string, entries, warnings int, message string) {
	if run == nil {
		return
	}
	run.Status = status
	run.EntryCount = entries
	run.WarningCount = warnings
	run.Message = message

	// The request context may already be canceled; history still gets closed out
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := l.runs.FinishRun(ctx, run); err != nil {
		l.logger.Warn("failed to finish run record", zap.String("run_id", run.ID), zap.Error(err))
	}
}
