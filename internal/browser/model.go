// Package browser is an interactive terminal view of a Drive listing.
package browser

import (
	"fmt"
	"strings"

	"github.com/Project-Sylos/DriveLister/internal/render"
	"github.com/Project-Sylos/DriveLister/internal/types"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// row is one visible line of the browser
type row struct {
	node    *render.ViewNode
	depth   int
	label   string // Set for filter results: the full path
	matched []int
}

// Model is the bubbletea model for browsing a listing. Folders start
// expanded and toggle like the rendered page.
type Model struct {
	title  string
	nodes  []*render.ViewNode
	index  []indexed
	rows   []row
	cursor int
	offset int
	height int

	searching bool
	search    textinput.Model
	query     string

	link   string
	status string
}

// New creates a browser over a listing
func New(title string, listing *types.Listing) Model {
	si := textinput.New()
	si.Placeholder = "Pesquisar…"
	si.CharLimit = 200
	si.Width = 40

	var entries []*types.Entry
	if listing != nil {
		entries = listing.Entries
	}
	nodes := render.BuildView(entries)

	m := Model{
		title:  title,
		nodes:  nodes,
		index:  index(nodes),
		search: si,
	}
	m.refresh()
	return m
}

// Link returns the last file link chosen with o
func (m Model) Link() string {
	return m.link
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.scroll()
		return m, nil
	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = max(len(m.rows)-1, 0)
	case "enter", " ":
		m.toggle()
	case "o":
		m.open()
	case "/":
		m.searching = true
		m.search.SetValue(m.query)
		return m, m.search.Focus()
	case "esc":
		if m.query != "" {
			m.query = ""
			m.refresh()
		}
	}
	m.scroll()
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.query = ""
		m.refresh()
		return m, nil
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if q := strings.TrimSpace(m.search.Value()); q != m.query {
		m.query = q
		m.refresh()
	}
	return m, cmd
}

// toggle flips the folder under the cursor. In filter results it leaves
// the filter and reveals the chosen entry instead.
func (m *Model) toggle() {
	if len(m.rows) == 0 {
		return
	}
	n := m.rows[m.cursor].node
	if m.query != "" {
		m.query = ""
		m.reveal(n)
		return
	}
	if !n.Folder {
		m.open()
		return
	}
	n.Expanded = !n.Expanded
	m.refresh()
}

// reveal expands the ancestors of target and moves the cursor onto it
func (m *Model) reveal(target *render.ViewNode) {
	var expand func(nodes []*render.ViewNode) bool
	expand = func(nodes []*render.ViewNode) bool {
		for _, n := range nodes {
			if n == target {
				return true
			}
			if expand(n.Children) {
				n.Expanded = true
				return true
			}
		}
		return false
	}
	expand(m.nodes)
	m.refresh()
	for i, r := range m.rows {
		if r.node == target {
			m.cursor = i
			break
		}
	}
}

// open records the link of the file under the cursor
func (m *Model) open() {
	if len(m.rows) == 0 {
		return
	}
	n := m.rows[m.cursor].node
	if n.Folder {
		m.status = "As pastas não têm ligação de visualização."
		return
	}
	m.link = n.Href
	m.status = n.Href
}

// refresh rebuilds the visible rows and clamps the cursor
func (m *Model) refresh() {
	if m.query != "" {
		m.rows = filter(m.query, m.index)
	} else {
		m.rows = nil
		var walk func(nodes []*render.ViewNode, depth int)
		walk = func(nodes []*render.ViewNode, depth int) {
			for _, n := range nodes {
				m.rows = append(m.rows, row{node: n, depth: depth})
				if n.Folder && n.Expanded {
					walk(n.Children, depth+1)
				}
			}
		}
		walk(m.nodes, 0)
	}
	if m.cursor >= len(m.rows) {
		m.cursor = max(len(m.rows)-1, 0)
	}
	m.scroll()
}

// listHeight is the number of rows that fit between header and footer
func (m *Model) listHeight() int {
	if m.height <= 0 {
		return len(m.rows)
	}
	return max(m.height-6, 1)
}

// scroll keeps the cursor inside the visible window
func (m *Model) scroll() {
	h := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	if m.offset > max(len(m.rows)-h, 0) {
		m.offset = max(len(m.rows)-h, 0)
	}
}

// View implements tea.Model
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	if len(m.nodes) == 0 {
		b.WriteString(subtleStyle.Render(render.EmptyMessage))
		b.WriteString("\n")
	} else if len(m.rows) == 0 {
		b.WriteString(subtleStyle.Render("Sem resultados."))
		b.WriteString("\n")
	}

	end := min(m.offset+m.listHeight(), len(m.rows))
	for i := m.offset; i < end; i++ {
		line := m.renderRow(m.rows[i])
		if i == m.cursor {
			line = cursorBarStyle.Render("┃") + " " + cursorLineStyle.Render(line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.searching:
		b.WriteString("/ " + m.search.View())
	case m.query != "":
		b.WriteString(subtleStyle.Render(fmt.Sprintf("filtro: %s (%d)", m.query, len(m.rows))))
	case m.status != "":
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ mover • enter abrir/fechar • / pesquisar • o ligação • esc limpar • q sair"))
	return b.String()
}

func (m Model) renderRow(r row) string {
	n := r.node
	name := n.Name
	if r.label != "" {
		name = highlight(r.label, r.matched)
	}

	var prefix string
	if r.label == "" {
		prefix = strings.Repeat("  ", r.depth)
	}

	if !n.Folder {
		return prefix + "  " + n.Icon + " " + name
	}

	indicator := n.Indicator()
	if r.label != "" {
		indicator = " "
	}
	line := prefix + indicator + " " + n.Icon + " " + folderStyle.Render(name)
	if n.Truncated {
		line += subtleStyle.Render(" …")
	}
	return line
}
