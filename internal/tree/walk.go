package tree

import (
	"github.com/Project-Sylos/DriveLister/internal/types"
	"github.com/Project-Sylos/DriveLister/internal/utils"
)

// CountNodes counts all entries in a tree
func CountNodes(entries []*types.Entry) int {
	count := 0
	for _, e := range entries {
		count += 1 + CountNodes(e.Children)
	}
	return count
}

// Flatten returns all entries in depth-first pre-order
func Flatten(entries []*types.Entry) []*types.Entry {
	var out []*types.Entry
	for _, e := range entries {
		out = append(out, e)
		out = append(out, Flatten(e.Children)...)
	}
	return out
}

// FindByID finds an entry by its Drive id
func FindByID(entries []*types.Entry, id string) *types.Entry {
	for _, e := range entries {
		if e.ID == id {
			return e
		}
		if found := FindByID(e.Children, id); found != nil {
			return found
		}
	}
	return nil
}

// FindByPath resolves a slash path such as "/B/c.txt" one name at a time.
// Drive allows duplicate names; the first match at each level wins.
func FindByPath(entries []*types.Entry, path string) *types.Entry {
	names := utils.SplitPath(path)
	if len(names) == 0 {
		return nil
	}

	var found *types.Entry
	level := entries
	for _, name := range names {
		found = nil
		for _, e := range level {
			if e.Name == name {
				found = e
				break
			}
		}
		if found == nil {
			return nil
		}
		level = found.Children
	}
	return found
}

// Depth returns the deepest entry depth in the tree, or -1 when empty
func Depth(entries []*types.Entry) int {
	deepest := -1
	for _, e := range entries {
		if e.Depth > deepest {
			deepest = e.Depth
		}
		if d := Depth(e.Children); d > deepest {
			deepest = d
		}
	}
	return deepest
}
