package tree

import (
	"errors"
	"io"
	"io/fs"
	"path"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/Project-Sylos/DriveLister/internal/types"
)

// Snapshot is a read-only fs.FS view of a built tree. Folders are
// directories and files are empty regular files. Drive allows duplicate and
// slash-containing names, so names are made path-safe and unique per folder.
type Snapshot struct {
	root    *snapNode
	modTime time.Time
}

type snapNode struct {
	name     string
	entry    *types.Entry // nil for the root
	children []*snapNode
}

func (n *snapNode) isDir() bool {
	return n.entry == nil || n.entry.IsFolder()
}

// NewSnapshot creates a snapshot of entries stamped with modTime
func NewSnapshot(entries []*types.Entry, modTime time.Time) *Snapshot {
	return &Snapshot{
		root:    &snapNode{name: ".", children: snapChildren(entries)},
		modTime: modTime,
	}
}

func snapChildren(entries []*types.Entry) []*snapNode {
	taken := make(map[string]bool, len(entries))
	nodes := make([]*snapNode, 0, len(entries))
	for _, e := range entries {
		name := safeName(e.Name, e.ID)
		if taken[name] {
			// A sibling may already be literally named "<name>~<id>"
			base := name + "~" + e.ID
			name = base
			for n := 2; taken[name]; n++ {
				name = base + "~" + strconv.Itoa(n)
			}
		}
		taken[name] = true
		nodes = append(nodes, &snapNode{name: name, entry: e, children: snapChildren(e.Children)})
	}
	// fs.ReadDirFS requires entries sorted by name
	slices.SortFunc(nodes, func(a, b *snapNode) int { return strings.Compare(a.name, b.name) })
	return nodes
}

func safeName(name, id string) string {
	name = strings.ReplaceAll(name, "/", "_")
	if name == "" || name == "." || name == ".." {
		return "_" + id
	}
	return name
}

func (s *Snapshot) lookup(op, name string) (*snapNode, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: op, Path: name, Err: fs.ErrInvalid}
	}
	node := s.root
	if name == "." {
		return node, nil
	}
	for _, part := range strings.Split(name, "/") {
		var next *snapNode
		for _, child := range node.children {
			if child.name == part {
				next = child
				break
			}
		}
		if next == nil {
			return nil, &fs.PathError{Op: op, Path: name, Err: fs.ErrNotExist}
		}
		node = next
	}
	return node, nil
}

// Open implements fs.FS
func (s *Snapshot) Open(name string) (fs.File, error) {
	node, err := s.lookup("open", name)
	if err != nil {
		return nil, err
	}
	info := s.info(node)
	if node.isDir() {
		return &snapDir{info: info, entries: s.dirEntries(node)}, nil
	}
	return &snapFile{info: info}, nil
}

// Stat implements fs.StatFS
func (s *Snapshot) Stat(name string) (fs.FileInfo, error) {
	node, err := s.lookup("stat", name)
	if err != nil {
		return nil, err
	}
	return s.info(node), nil
}

// ReadDir implements fs.ReadDirFS
func (s *Snapshot) ReadDir(name string) ([]fs.DirEntry, error) {
	node, err := s.lookup("readdir", name)
	if err != nil {
		return nil, err
	}
	if !node.isDir() {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: errors.New("not a directory")}
	}
	return s.dirEntries(node), nil
}

func (s *Snapshot) dirEntries(node *snapNode) []fs.DirEntry {
	entries := make([]fs.DirEntry, 0, len(node.children))
	for _, child := range node.children {
		entries = append(entries, fs.FileInfoToDirEntry(s.info(child)))
	}
	return entries
}

func (s *Snapshot) info(node *snapNode) *entryInfo {
	return &entryInfo{node: node, modTime: s.modTime}
}

// Paths lists every path in fsys in walk order
func Paths(fsys fs.FS) ([]string, error) {
	var paths []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == "." {
			return nil
		}
		if d.IsDir() {
			p = path.Clean(p) + "/"
		}
		paths = append(paths, p)
		return nil
	})
	return paths, err
}

// entryInfo implements fs.FileInfo for a snapshot node
type entryInfo struct {
	node    *snapNode
	modTime time.Time
}

// Name returns the base name of the entry
func (fi *entryInfo) Name() string {
	return fi.node.name
}

// Size is always 0; file contents are not downloaded
func (fi *entryInfo) Size() int64 {
	return 0
}

// Mode returns the file mode bits
func (fi *entryInfo) Mode() fs.FileMode {
	if fi.node.isDir() {
		return fs.ModeDir | 0555
	}
	return 0444
}

// ModTime returns the time the tree was loaded
func (fi *entryInfo) ModTime() time.Time {
	return fi.modTime
}

// IsDir reports whether the entry is a folder
func (fi *entryInfo) IsDir() bool {
	return fi.node.isDir()
}

// Sys returns the underlying *types.Entry, or nil for the root
func (fi *entryInfo) Sys() any {
	return fi.node.entry
}

// snapFile implements fs.File for files
type snapFile struct {
	info *entryInfo
}

func (f *snapFile) Stat() (fs.FileInfo, error) { return f.info, nil }
func (f *snapFile) Read([]byte) (int, error)   { return 0, io.EOF }
func (f *snapFile) Close() error               { return nil }

// snapDir implements fs.ReadDirFile for folders
type snapDir struct {
	info    *entryInfo
	entries []fs.DirEntry
	offset  int
}

func (d *snapDir) Stat() (fs.FileInfo, error) { return d.info, nil }
func (d *snapDir) Close() error               { return nil }

func (d *snapDir) Read([]byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: d.info.Name(), Err: errors.New("is a directory")}
}

// ReadDir returns up to n entries in directory order
func (d *snapDir) ReadDir(n int) ([]fs.DirEntry, error) {
	remaining := d.entries[d.offset:]
	if n <= 0 {
		d.offset = len(d.entries)
		return slices.Clone(remaining), nil
	}
	if len(remaining) == 0 {
		return nil, io.EOF
	}
	if n > len(remaining) {
		n = len(remaining)
	}
	d.offset += n
	return slices.Clone(remaining[:n]), nil
}
