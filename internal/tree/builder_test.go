package tree

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/Project-Sylos/DriveLister/internal/drive"
	"github.com/Project-Sylos/DriveLister/internal/generator"
	"github.com/Project-Sylos/DriveLister/internal/types"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// fakeLister serves folder listings from a map
type fakeLister struct {
	children map[string][]types.Item
	errs     map[string]error
	calls    []string
	onList   func(folderID string)
}

func newFakeLister() *fakeLister {
	return &fakeLister{
		children: make(map[string][]types.Item),
		errs:     make(map[string]error),
	}
}

func (f *fakeLister) folder(parent, id, name string) {
	f.children[parent] = append(f.children[parent], types.Item{ID: id, Name: name, MimeType: types.MimeTypeFolder})
}

func (f *fakeLister) file(parent, id, name string) {
	f.children[parent] = append(f.children[parent], types.Item{ID: id, Name: name, MimeType: "text/plain"})
}

func (f *fakeLister) ListChildren(ctx context.Context, folderID string) ([]types.Item, error) {
	f.calls = append(f.calls, folderID)
	if f.onList != nil {
		f.onList(folderID)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := f.errs[folderID]; ok {
		return nil, err
	}
	return f.children[folderID], nil
}

// recorder collects visits
type recorder struct {
	mu     sync.Mutex
	visits []types.Visit
	err    error
}

func (r *recorder) RecordVisit(ctx context.Context, v types.Visit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.visits = append(r.visits, v)
	return r.err
}

// exampleLister is root {folder B {c.txt}, a.txt}
func exampleLister() *fakeLister {
	l := newFakeLister()
	l.folder("root", "b", "B")
	l.file("root", "a", "a.txt")
	l.file("b", "c", "c.txt")
	return l
}

// checkInvariants verifies depth and parent links throughout a tree
func checkInvariants(t *testing.T, entries []*types.Entry, parentID string, depth, maxDepth int) {
	t.Helper()
	for _, e := range entries {
		if e.Depth != depth {
			t.Errorf("%s: expected depth %d, got %d", e.Path, depth, e.Depth)
		}
		if e.Depth > maxDepth {
			t.Errorf("%s: depth %d exceeds max %d", e.Path, e.Depth, maxDepth)
		}
		if e.ParentID != parentID {
			t.Errorf("%s: expected parent %q, got %q", e.Path, parentID, e.ParentID)
		}
		if !e.IsFolder() && len(e.Children) != 0 {
			t.Errorf("%s: non-folder has %d children", e.Path, len(e.Children))
		}
		if e.Children == nil {
			t.Errorf("%s: children should be empty, not nil", e.Path)
		}
		if e.IsFolder() && e.Depth == maxDepth && !e.Truncated {
			t.Errorf("%s: folder at max depth should be truncated", e.Path)
		}
		checkInvariants(t, e.Children, e.ID, depth+1, maxDepth)
	}
}

// TestBuildRoot tests building the example tree
func TestBuildRoot(t *testing.T) {
	l := exampleLister()
	res, err := NewBuilder(l, WithLogger(zap.NewNop())).BuildRoot(context.Background(), "root")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(res.Entries) != 2 {
		t.Fatalf("Expected 2 top-level entries, got %d", len(res.Entries))
	}
	b := res.Entries[0]
	if b.Name != "B" || b.ParentID != "" || b.Depth != 0 || b.Path != "/B" {
		t.Errorf("Unexpected folder entry: %+v", b)
	}
	if len(b.Children) != 1 || b.Children[0].Name != "c.txt" {
		t.Fatalf("Expected B to contain c.txt, got %+v", b.Children)
	}
	c := b.Children[0]
	if c.ParentID != "b" || c.Depth != 1 || c.Path != "/B/c.txt" {
		t.Errorf("Unexpected child entry: %+v", c)
	}
	if res.Visits != 2 {
		t.Errorf("Expected 2 folder visits, got %d", res.Visits)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", res.Warnings)
	}
	checkInvariants(t, res.Entries, "", 0, types.DefaultMaxDepth)
}

// TestBuildMaxDepth tests depth bounding
func TestBuildMaxDepth(t *testing.T) {
	// root > l0 > l1 > l2 > l3, each with one file
	newChain := func() *fakeLister {
		l := newFakeLister()
		parent := "root"
		for _, id := range []string{"l0", "l1", "l2", "l3"} {
			l.folder(parent, id, id)
			l.file(parent, id+"-file", id+".txt")
			parent = id
		}
		return l
	}

	tests := []struct {
		name       string
		maxDepth   int
		wantDepth  int
		wantVisits int
	}{
		{"zero lists only the root folder", 0, 0, 1},
		{"one", 1, 1, 2},
		{"default", types.DefaultMaxDepth, 2, 3},
		{"negative selects default", -1, 2, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newChain()
			b := NewBuilder(l, WithMaxDepth(tt.maxDepth), WithLogger(zap.NewNop()))
			res, err := b.BuildRoot(context.Background(), "root")
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got := Depth(res.Entries); got != tt.wantDepth {
				t.Errorf("Expected deepest entry at %d, got %d", tt.wantDepth, got)
			}
			if res.Visits != tt.wantVisits || len(l.calls) != tt.wantVisits {
				t.Errorf("Expected %d fetches, got %d", tt.wantVisits, len(l.calls))
			}
			checkInvariants(t, res.Entries, "", 0, b.MaxDepth())
		})
	}
}

// TestBuildMaxDepthZeroFolders tests that top-level folders are kept empty
func TestBuildMaxDepthZeroFolders(t *testing.T) {
	l := exampleLister()
	res, err := NewBuilder(l, WithMaxDepth(0), WithLogger(zap.NewNop())).BuildRoot(context.Background(), "root")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	b := FindByID(res.Entries, "b")
	if b == nil {
		t.Fatalf("Expected folder B in the result")
	}
	if b.Depth != 0 || len(b.Children) != 0 || !b.Truncated {
		t.Errorf("Expected empty truncated folder at depth 0, got %+v", b)
	}
}

// TestBuildExplicitLevel tests Build with a non-root starting point
func TestBuildExplicitLevel(t *testing.T) {
	l := exampleLister()
	res, err := NewBuilder(l, WithLogger(zap.NewNop())).Build(context.Background(), "b", "b", 1, 2)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(res.Entries) != 1 || res.Entries[0].Depth != 1 || res.Entries[0].ParentID != "b" {
		t.Errorf("Unexpected entries: %+v", res.Entries)
	}

	res, err = NewBuilder(l, WithLogger(zap.NewNop())).Build(context.Background(), "b", "b", 3, 2)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(res.Entries) != 0 || res.Visits != 0 {
		t.Errorf("Expected no fetch beyond max depth, got %d entries and %d visits", len(res.Entries), res.Visits)
	}
}

// TestBuildSubfolderFailure tests that a failing subfolder becomes a warning
func TestBuildSubfolderFailure(t *testing.T) {
	l := newFakeLister()
	l.folder("root", "bad", "Avariada")
	l.folder("root", "good", "Boa")
	l.file("good", "g1", "ok.txt")
	l.errs["bad"] = &drive.RequestError{StatusCode: http.StatusForbidden, Message: "denied"}

	core, logs := observer.New(zapcore.WarnLevel)
	res, err := NewBuilder(l, WithLogger(zap.New(core))).BuildRoot(context.Background(), "root")
	if err != nil {
		t.Fatalf("Subfolder failure should not fail the build: %v", err)
	}

	bad := FindByID(res.Entries, "bad")
	if bad == nil || len(bad.Children) != 0 {
		t.Errorf("Expected failed folder with empty children, got %+v", bad)
	}
	if good := FindByID(res.Entries, "g1"); good == nil {
		t.Errorf("Expected sibling folder to be expanded")
	}

	if len(res.Warnings) != 1 || res.Warnings[0].FolderID != "bad" {
		t.Fatalf("Expected one warning for bad, got %v", res.Warnings)
	}
	if got := res.Warnings[0].String(); got != "Erro ao buscar ficheiros da subpasta Avariada: denied" {
		t.Errorf("Unexpected warning text: %q", got)
	}

	entries := logs.FilterMessage("failed to list subfolder").All()
	if len(entries) != 1 {
		t.Fatalf("Expected one warning log, got %d", len(entries))
	}
	if entries[0].ContextMap()["folder_name"] != "Avariada" {
		t.Errorf("Expected folder name in log fields, got %v", entries[0].ContextMap())
	}
}

// TestBuildTopLevelFailure tests that the root fetch error is returned
func TestBuildTopLevelFailure(t *testing.T) {
	l := newFakeLister()
	want := &drive.RequestError{StatusCode: http.StatusNotFound, Message: "File not found"}
	l.errs["root"] = want

	res, err := NewBuilder(l, WithLogger(zap.NewNop())).BuildRoot(context.Background(), "root")
	if res != nil {
		t.Errorf("Expected no result on failure")
	}
	var reqErr *drive.RequestError
	if !errors.As(err, &reqErr) || reqErr.StatusCode != http.StatusNotFound {
		t.Errorf("Expected the 404 RequestError, got %v", err)
	}
}

// TestBuildCanceled tests that cancellation aborts traversal
func TestBuildCanceled(t *testing.T) {
	l := exampleLister()
	l.folder("root", "z", "Z")
	ctx, cancel := context.WithCancel(context.Background())
	l.onList = func(folderID string) {
		if folderID == "b" {
			cancel()
		}
	}

	_, err := NewBuilder(l, WithLogger(zap.NewNop())).BuildRoot(ctx, "root")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	for _, id := range l.calls {
		if id == "z" {
			t.Errorf("Expected traversal to stop after cancellation")
		}
	}
}

// TestBuildRecordsVisits tests visit reporting
func TestBuildRecordsVisits(t *testing.T) {
	l := exampleLister()
	l.folder("root", "bad", "Bad")
	l.errs["bad"] = errors.New("boom")
	l.folder("b", "d", "D")

	rec := &recorder{err: errors.New("store down")}
	res, err := NewBuilder(l, WithRecorder("run-1", rec), WithLogger(zap.NewNop())).BuildRoot(context.Background(), "root")
	if err != nil {
		t.Fatalf("Recorder failure should not fail the build: %v", err)
	}
	if len(rec.visits) != res.Visits || len(rec.visits) != 4 {
		t.Fatalf("Expected 4 visits, got %d", len(rec.visits))
	}

	byFolder := make(map[string]types.Visit)
	for _, v := range rec.visits {
		if v.RunID != "run-1" {
			t.Errorf("Expected run id on visit, got %q", v.RunID)
		}
		byFolder[v.FolderID] = v
	}
	if v := byFolder["root"]; v.Status != types.StatusSuccessful || v.ChildCount != 3 || v.Depth != 0 {
		t.Errorf("Unexpected root visit: %+v", v)
	}
	if v := byFolder["root"]; v.ParentID != "" {
		t.Errorf("Expected no parent on root visit, got %q", v.ParentID)
	}
	if v := byFolder["b"]; v.ChildCount != 2 || v.Depth != 1 || v.ParentID != "" {
		t.Errorf("Unexpected B visit: %+v", v)
	}
	if v := byFolder["d"]; v.Depth != 2 || v.ParentID != "b" {
		t.Errorf("Expected D visited under b, got %+v", v)
	}
	if v := byFolder["bad"]; v.Status != types.StatusFailed || v.Error != "boom" {
		t.Errorf("Unexpected failed visit: %+v", v)
	}
}

// TestBuildSyntheticDrive tests the builder over HTTP against a generated tree
func TestBuildSyntheticDrive(t *testing.T) {
	srv := generator.NewServer("synthetic-key")
	if err := srv.Populate("root", generator.DefaultSeedConfig()); err != nil {
		t.Fatalf("Populate failed: %v", err)
	}
	ts := httptest.NewServer(srv)
	defer ts.Close()

	f, err := drive.NewFetcher(context.Background(), drive.Options{APIKey: "synthetic-key", Endpoint: ts.URL})
	if err != nil {
		t.Fatalf("Failed to create fetcher: %v", err)
	}

	res, err := NewBuilder(f, WithLogger(zap.NewNop())).BuildRoot(context.Background(), "root")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(res.Entries) == 0 {
		t.Fatalf("Expected generated entries")
	}
	if res.Visits != srv.Requests() {
		t.Errorf("Expected one request per visit, got %d visits and %d requests", res.Visits, srv.Requests())
	}
	checkInvariants(t, res.Entries, "", 0, types.DefaultMaxDepth)
}
