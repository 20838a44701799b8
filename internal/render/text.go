package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/Project-Sylos/DriveLister/internal/types"
	"github.com/charmbracelet/lipgloss"
	ltree "github.com/charmbracelet/lipgloss/tree"
)

var (
	folderStyle    = lipgloss.NewStyle().Bold(true)
	truncatedStyle = lipgloss.NewStyle().Faint(true)
)

// Text writes the tree as terminal lines, folders first at every level
func Text(w io.Writer, entries []*types.Entry) error {
	lines := TextLines(entries)
	if len(lines) == 0 {
		_, err := fmt.Fprintln(w, EmptyMessage)
		return err
	}
	_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
	return err
}

// TextLines renders the tree into lines without a trailing blank line
func TextLines(entries []*types.Entry) []string {
	nodes := BuildView(entries)
	if len(nodes) == 0 {
		return []string{}
	}

	tr := ltree.New()
	for _, n := range nodes {
		tr.Child(textNode(n))
	}

	lines := strings.Split(tr.String(), "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func textNode(n *ViewNode) any {
	label := n.Icon + " " + n.Name
	if !n.Folder {
		return label
	}

	label = folderStyle.Render(label)
	if n.Truncated {
		label += " " + truncatedStyle.Render("…")
	}
	node := ltree.Root(label)
	for _, child := range n.Children {
		node.Child(textNode(child))
	}
	return node
}
