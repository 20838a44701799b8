package browser

import (
	"strings"
	"testing"

	"github.com/Project-Sylos/DriveLister/internal/render"
	"github.com/Project-Sylos/DriveLister/internal/types"
	tea "github.com/charmbracelet/bubbletea"
)

// keyMsg creates a KeyMsg from a string representation
func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
}

// press feeds keys to the model in order
func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(keyMsg(k))
		m = next.(Model)
	}
	return m
}

// exampleListing is root {B {c.txt}, a.txt}, given unsorted
func exampleListing() *types.Listing {
	return &types.Listing{
		FolderID: "root",
		Entries: []*types.Entry{
			{ID: "a", Name: "a.txt", MimeType: "text/plain", Depth: 0, Path: "/a.txt"},
			{
				ID: "b", Name: "B", MimeType: types.MimeTypeFolder, Depth: 0, Path: "/B",
				Children: []*types.Entry{
					{ID: "c", Name: "c.txt", MimeType: "text/plain", ParentID: "b", Depth: 1, Path: "/B/c.txt"},
				},
			},
		},
	}
}

func rowNames(m Model) []string {
	names := make([]string, len(m.rows))
	for i, r := range m.rows {
		names[i] = r.node.Name
	}
	return names
}

func equalNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// TestNew tests the initial rows: folders first and expanded
func TestNew(t *testing.T) {
	m := New("Ficheiros", exampleListing())

	want := []string{"B", "c.txt", "a.txt"}
	if got := rowNames(m); !equalNames(got, want) {
		t.Errorf("Expected rows %v, got %v", want, got)
	}
	if m.rows[1].depth != 1 {
		t.Errorf("Expected c.txt nested one level, got depth %d", m.rows[1].depth)
	}
	if m.cursor != 0 {
		t.Errorf("Expected cursor at 0, got %d", m.cursor)
	}
}

// TestNavigation tests cursor movement and its bounds
func TestNavigation(t *testing.T) {
	tests := []struct {
		name   string
		keys   []string
		cursor int
	}{
		{name: "down", keys: []string{"down"}, cursor: 1},
		{name: "down then up", keys: []string{"down", "up"}, cursor: 0},
		{name: "up at top", keys: []string{"up"}, cursor: 0},
		{name: "past the end", keys: []string{"down", "down", "down", "down"}, cursor: 2},
		{name: "vim keys", keys: []string{"j", "j", "k"}, cursor: 1},
		{name: "end", keys: []string{"G"}, cursor: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := press(t, New("Ficheiros", exampleListing()), tt.keys...)
			if m.cursor != tt.cursor {
				t.Errorf("Expected cursor %d, got %d", tt.cursor, m.cursor)
			}
		})
	}
}

// TestToggle tests collapsing and expanding a folder
func TestToggle(t *testing.T) {
	m := press(t, New("Ficheiros", exampleListing()), "enter")

	if got := rowNames(m); !equalNames(got, []string{"B", "a.txt"}) {
		t.Fatalf("Expected collapsed folder, got %v", got)
	}
	if !strings.Contains(m.View(), render.IndicatorCollapsed) {
		t.Error("Expected collapsed indicator in view")
	}

	m = press(t, m, "space")
	if got := rowNames(m); !equalNames(got, []string{"B", "c.txt", "a.txt"}) {
		t.Fatalf("Expected expanded folder, got %v", got)
	}
	if !strings.Contains(m.View(), render.IndicatorExpanded) {
		t.Error("Expected expanded indicator in view")
	}
}

// TestOpen tests choosing a file link
func TestOpen(t *testing.T) {
	m := press(t, New("Ficheiros", exampleListing()), "o")
	if m.Link() != "" {
		t.Errorf("Expected no link for a folder, got %q", m.Link())
	}

	m = press(t, m, "G", "o")
	want := render.FileURLBase + "a/view"
	if m.Link() != want {
		t.Errorf("Expected link %q, got %q", want, m.Link())
	}
	if !strings.Contains(m.View(), want) {
		t.Error("Expected link in status line")
	}
}

// TestSearch tests fuzzy filtering and revealing a match
func TestSearch(t *testing.T) {
	m := press(t, New("Ficheiros", exampleListing()), "/", "c", ".", "t")
	if !m.searching {
		t.Fatal("Expected search mode")
	}
	if got := rowNames(m); !equalNames(got, []string{"c.txt"}) {
		t.Fatalf("Expected only c.txt to match, got %v", got)
	}
	if m.rows[0].label != "B/c.txt" {
		t.Errorf("Expected full path label, got %q", m.rows[0].label)
	}

	// Enter leaves the input, a second enter reveals the match
	m = press(t, m, "enter")
	if m.searching || m.query != "c.t" {
		t.Fatalf("Expected query kept after enter, got searching=%v query=%q", m.searching, m.query)
	}
	m = press(t, m, "enter")
	if m.query != "" {
		t.Errorf("Expected filter cleared, got %q", m.query)
	}
	if m.cursor != 1 || m.rows[m.cursor].node.Name != "c.txt" {
		t.Errorf("Expected cursor on c.txt, got %d", m.cursor)
	}
}

// TestSearchRevealsCollapsed tests that revealing expands ancestors
func TestSearchRevealsCollapsed(t *testing.T) {
	m := press(t, New("Ficheiros", exampleListing()), "enter", "/", "c", ".", "t", "enter", "enter")

	if got := rowNames(m); !equalNames(got, []string{"B", "c.txt", "a.txt"}) {
		t.Errorf("Expected folder expanded again, got %v", got)
	}
}

// TestSearchEscape tests cancelling a search
func TestSearchEscape(t *testing.T) {
	m := press(t, New("Ficheiros", exampleListing()), "/", "x", "y", "z")
	if len(m.rows) != 0 {
		t.Fatalf("Expected no matches, got %v", rowNames(m))
	}
	if !strings.Contains(m.View(), "Sem resultados.") {
		t.Error("Expected no results line")
	}

	m = press(t, m, "esc")
	if m.searching || m.query != "" {
		t.Errorf("Expected search cleared, got searching=%v query=%q", m.searching, m.query)
	}
	if len(m.rows) != 3 {
		t.Errorf("Expected all rows back, got %v", rowNames(m))
	}
}

// TestQuit tests that q quits
func TestQuit(t *testing.T) {
	m := New("Ficheiros", exampleListing())
	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("Expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected tea.QuitMsg")
	}
}

// TestEmptyListing tests the view of an empty folder
func TestEmptyListing(t *testing.T) {
	m := New("Ficheiros", &types.Listing{})
	if !strings.Contains(m.View(), render.EmptyMessage) {
		t.Error("Expected empty message")
	}
	m = press(t, m, "down", "enter", "o")
	if m.cursor != 0 || m.Link() != "" {
		t.Errorf("Expected keys to be no-ops, got cursor=%d link=%q", m.cursor, m.Link())
	}
}

// TestWindowHeight tests that the list scrolls with the cursor
func TestWindowHeight(t *testing.T) {
	m := New("Ficheiros", exampleListing())
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 7})
	m = next.(Model)

	m = press(t, m, "G")
	if m.offset != 2 {
		t.Errorf("Expected offset 2 with a one row window, got %d", m.offset)
	}
	if strings.Contains(m.View(), "c.txt") {
		t.Error("Expected c.txt scrolled out of view")
	}
}
