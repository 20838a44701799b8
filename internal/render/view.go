package render

import (
	"github.com/Project-Sylos/DriveLister/internal/tree"
	"github.com/Project-Sylos/DriveLister/internal/types"
)

// FileURLBase prefixes the fallback link for files without a view link
const FileURLBase = "https://drive.google.com/file/d/"

// Direction indicators for folder headers
const (
	IndicatorExpanded  = "▼"
	IndicatorCollapsed = "▶"
)

// ViewNode is one rendered list node
type ViewNode struct {
	ID        string
	Name      string
	Icon      string
	Href      string // Files only
	Folder    bool
	Expanded  bool
	Truncated bool
	Depth     int
	Children  []*ViewNode
}

// Indicator returns the glyph for the folder's current state
func (n *ViewNode) Indicator() string {
	if n.Expanded {
		return IndicatorExpanded
	}
	return IndicatorCollapsed
}

// FileURL returns the entry's view link or the constructed fallback
func FileURL(e *types.Entry) string {
	if e.WebViewLink != "" {
		return e.WebViewLink
	}
	return FileURLBase + e.ID + "/view"
}

// BuildView sorts each level and maps entries to view nodes. Folders start
// expanded.
func BuildView(entries []*types.Entry) []*ViewNode {
	sorted := tree.Sort(entries)
	nodes := make([]*ViewNode, 0, len(sorted))
	for _, e := range sorted {
		n := &ViewNode{
			ID:        e.ID,
			Name:      e.Name,
			Icon:      tree.Icon(e.MimeType),
			Folder:    e.IsFolder(),
			Truncated: e.Truncated,
			Depth:     e.Depth,
		}
		if n.Folder {
			n.Expanded = true
			n.Children = BuildView(e.Children)
		} else {
			n.Href = FileURL(e)
		}
		nodes = append(nodes, n)
	}
	return nodes
}
