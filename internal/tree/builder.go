package tree

import (
	"context"
	"fmt"
	"time"

	"github.com/Project-Sylos/DriveLister/internal/logging"
	"github.com/Project-Sylos/DriveLister/internal/metrics"
	"github.com/Project-Sylos/DriveLister/internal/types"
	"github.com/Project-Sylos/DriveLister/internal/utils"
	"go.uber.org/zap"
)

// Lister returns the direct children of one folder
type Lister interface {
	ListChildren(ctx context.Context, folderID string) ([]types.Item, error)
}

// VisitRecorder receives one record per folder fetch
type VisitRecorder interface {
	RecordVisit(ctx context.Context, v types.Visit) error
}

// Warning describes a subfolder whose listing failed during a build
type Warning struct {
	FolderID   string
	FolderName string
	Err        error
}

func (w Warning) String() string {
	return fmt.Sprintf("Erro ao buscar ficheiros da subpasta %s: %v", w.FolderName, w.Err)
}

// Result is the outcome of a tree build
type Result struct {
	Entries  []*types.Entry
	Warnings []Warning
	Visits   int
}

// Builder expands a Drive folder into a tree of entries, depth-first and one
// fetch at a time
type Builder struct {
	lister   Lister
	maxDepth int
	runID    string
	recorder VisitRecorder
	logger   *zap.Logger
}

// Option configures a Builder
type Option func(*Builder)

// WithMaxDepth sets the deepest level that is listed. Negative values select
// types.DefaultMaxDepth.
func WithMaxDepth(depth int) Option {
	return func(b *Builder) {
		if depth < 0 {
			depth = types.DefaultMaxDepth
		}
		b.maxDepth = depth
	}
}

// WithRecorder reports every folder fetch to r under the given run id
func WithRecorder(runID string, r VisitRecorder) Option {
	return func(b *Builder) {
		b.runID = runID
		b.recorder = r
	}
}

// WithLogger overrides the global logger
func WithLogger(l *zap.Logger) Option {
	return func(b *Builder) {
		b.logger = l
	}
}

// NewBuilder creates a new tree builder over the given lister
func NewBuilder(lister Lister, opts ...Option) *Builder {
	b := &Builder{
		lister:   lister,
		maxDepth: types.DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = logging.L()
	}
	return b
}

// MaxDepth returns the configured maximum depth
func (b *Builder) MaxDepth() int {
	return b.maxDepth
}

// BuildRoot builds the tree below a root folder
func (b *Builder) BuildRoot(ctx context.Context, folderID string) (*Result, error) {
	return b.Build(ctx, folderID, "", 0, b.maxDepth)
}

// Build lists folderID and recursively expands its subfolders. Returned
// entries carry parentID and depth; nothing deeper than maxDepth is produced.
// Only the fetch of folderID itself can fail the build; subfolder failures
// become warnings and leave that folder empty.
func (b *Builder) Build(ctx context.Context, folderID, parentID string, depth, maxDepth int) (*Result, error) {
	res := &Result{}
	entries, err := b.build(ctx, res, level{
		folderID: folderID,
		parentID: parentID,
		path:     "/",
		depth:    depth,
		maxDepth: maxDepth,
	})
	if err != nil {
		return nil, err
	}
	res.Entries = entries
	return res, nil
}

// level is one step of the traversal
type level struct {
	folderID    string
	parentID    string // Recorded on the entries listed at this level
	ownParentID string // Parent of folderID itself, empty for the listed root
	path        string
	depth       int
	maxDepth    int
}

func (b *Builder) build(ctx context.Context, res *Result, lv level) ([]*types.Entry, error) {
	if lv.depth > lv.maxDepth {
		return []*types.Entry{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	items, err := b.lister.ListChildren(ctx, lv.folderID)
	res.Visits++
	b.recordVisit(ctx, lv, len(items), err)
	if err != nil {
		return nil, err
	}

	entries := make([]*types.Entry, 0, len(items))
	for _, item := range items {
		path := utils.ChildPath(lv.path, item.Name)
		children := []*types.Entry{}
		truncated := false

		if item.MimeType == types.MimeTypeFolder {
			if lv.depth+1 > lv.maxDepth {
				truncated = true
			} else {
				sub, err := b.build(ctx, res, level{
					folderID:    item.ID,
					parentID:    item.ID,
					ownParentID: lv.parentID,
					path:        path,
					depth:       lv.depth + 1,
					maxDepth:    lv.maxDepth,
				})
				switch {
				case err == nil:
					children = sub
				case ctx.Err() != nil:
					// Cancellation aborts the whole build
					return nil, ctx.Err()
				default:
					b.warn(res, item, err)
				}
			}
		}

		// Nodes are created complete and never touched again
		entries = append(entries, &types.Entry{
			ID:            item.ID,
			Name:          item.Name,
			MimeType:      item.MimeType,
			WebViewLink:   item.WebViewLink,
			IconLink:      item.IconLink,
			FileExtension: item.FileExtension,
			ParentID:      lv.parentID,
			Depth:         lv.depth,
			Path:          path,
			Truncated:     truncated,
			Children:      children,
		})
	}

	return entries, nil
}

func (b *Builder) warn(res *Result, item types.Item, err error) {
	w := Warning{FolderID: item.ID, FolderName: item.Name, Err: err}
	res.Warnings = append(res.Warnings, w)
	metrics.RecordSubfolderFailure()
	b.logger.Warn("failed to list subfolder",
		zap.String("folder_id", item.ID),
		zap.String("folder_name", item.Name),
		zap.Error(err))
}

func (b *Builder) recordVisit(ctx context.Context, lv level, childCount int, fetchErr error) {
	if b.recorder == nil {
		return
	}

	v := types.Visit{
		RunID:      b.runID,
		FolderID:   lv.folderID,
		ParentID:   lv.ownParentID,
		Depth:      lv.depth,
		Status:     types.StatusSuccessful,
		ChildCount: childCount,
		VisitedAt:  time.Now(),
	}
	if fetchErr != nil {
		v.Status = types.StatusFailed
		v.Error = logging.Redact(fetchErr.Error())
	}

	// History is best effort; a failing store never fails a listing
	if err := b.recorder.RecordVisit(ctx, v); err != nil {
		b.logger.Warn("failed to record visit",
			zap.String("folder_id", lv.folderID),
			zap.Error(err))
	}
}
