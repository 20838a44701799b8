package browser

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle      = lipgloss.NewStyle().Bold(true).Underline(true)
	subtleStyle     = lipgloss.NewStyle().Faint(true)
	helpStyle       = lipgloss.NewStyle().Faint(true)
	folderStyle     = lipgloss.NewStyle().Bold(true)
	matchStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFAB78")).Bold(true)
	cursorLineStyle = lipgloss.NewStyle().Background(lipgloss.Color("#2A2B3D"))
	cursorBarStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFAB78"))
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#3AC4BA"))
)
