package tree

import (
	"slices"

	"github.com/Project-Sylos/DriveLister/internal/types"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Sort returns a copy of entries with folders first, each group ordered by
// name under Portuguese collation. Equal names keep their original order.
func Sort(entries []*types.Entry) []*types.Entry {
	// Collators carry scratch buffers and are not safe for concurrent use
	c := collate.New(language.Portuguese)

	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b *types.Entry) int {
		if a.IsFolder() != b.IsFolder() {
			if a.IsFolder() {
				return -1
			}
			return 1
		}
		return c.CompareString(a.Name, b.Name)
	})
	return sorted
}

// SortRecursive sorts every level of the tree. The input is left untouched;
// folders are copied so their children can be reordered.
func SortRecursive(entries []*types.Entry) []*types.Entry {
	sorted := Sort(entries)
	for i, e := range sorted {
		if len(e.Children) == 0 {
			continue
		}
		cp := *e
		cp.Children = SortRecursive(e.Children)
		sorted[i] = &cp
	}
	return sorted
}
