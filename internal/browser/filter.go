package browser

import (
	"strings"

	"github.com/Project-Sylos/DriveLister/internal/render"
	"github.com/sahilm/fuzzy"
)

// maxResults keeps the filtered list short enough to scan
const maxResults = 200

// indexed is a flattened node with its slash-joined path
type indexed struct {
	node *render.ViewNode
	path string
}

// pathSource adapts the flattened index to fuzzy.Source
type pathSource []indexed

func (s pathSource) String(i int) string { return s[i].path }
func (s pathSource) Len() int            { return len(s) }

// index flattens nodes in display order
func index(nodes []*render.ViewNode) []indexed {
	var out []indexed
	var walk func(nodes []*render.ViewNode, prefix []string)
	walk = func(nodes []*render.ViewNode, prefix []string) {
		for _, n := range nodes {
			parts := append(prefix[:len(prefix):len(prefix)], n.Name)
			out = append(out, indexed{node: n, path: strings.Join(parts, "/")})
			walk(n.Children, parts)
		}
	}
	walk(nodes, nil)
	return out
}

// filter returns the best fuzzy matches for query, highest score first
func filter(query string, idx []indexed) []row {
	matches := fuzzy.FindFrom(query, pathSource(idx))
	rows := make([]row, 0, min(len(matches), maxResults))
	for _, m := range matches {
		rows = append(rows, row{
			node:    idx[m.Index].node,
			label:   idx[m.Index].path,
			matched: m.MatchedIndexes,
		})
		if len(rows) >= maxResults {
			break
		}
	}
	return rows
}

// highlight styles the matched byte offsets of s
func highlight(s string, matched []int) string {
	if len(matched) == 0 {
		return s
	}
	hit := make(map[int]bool, len(matched))
	for _, i := range matched {
		hit[i] = true
	}
	var b strings.Builder
	for i, r := range s {
		if hit[i] {
			b.WriteString(matchStyle.Render(string(r)))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
