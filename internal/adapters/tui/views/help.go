package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"laserlab/internal/adapters/tui/styles"
	"laserlab/internal/domain"
)

// HelpKeyMap defines key bindings for the help view
type HelpKeyMap struct {
	Close key.Binding
}

var HelpKeys = HelpKeyMap{
	Close: key.NewBinding(
		key.WithKeys("esc", "q", "?"),
		key.WithHelp("esc/q/?", "close"),
	),
}

// CloseHelpMsg returns to the active tab
type CloseHelpMsg struct{}

// HelpModel is the model for the help view
type HelpModel struct {
	width  int
	height int
}

// NewHelpModel creates a new help view model
func NewHelpModel() *HelpModel {
	return &HelpModel{}
}

// Init initializes the help view
func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view
func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, HelpKeys.Close) {
			return m, func() tea.Msg {
				return CloseHelpMsg{}
			}
		}
	}

	return m, nil
}

// View renders the help view
func (m *HelpModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Laserlab Help"))
	b.WriteString("\n\n")

	b.WriteString(styles.Subtitle.Render("Optical bench inventory and layout diagrams"))
	b.WriteString("\n\n")

	b.WriteString(styles.InputLabel.Render("Grid"))
	b.WriteString("\n")
	b.WriteString(helpLine("j / k / ↑ / ↓", "Select row"))
	b.WriteString(helpLine("PgUp / PgDn", "Previous / next page"))
	b.WriteString(helpLine("h / l / ← / →", "Select column"))
	b.WriteString(helpLine("Enter", "Edit cell (saved after a pause)"))
	b.WriteString(helpLine("J / K", "Move row down/up (saved at once)"))
	b.WriteString(helpLine("a", "Add row to the canvas"))
	b.WriteString(helpLine("y", "Copy CSV to clipboard"))
	b.WriteString(helpLine("r", "Reload rows"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("Canvas"))
	b.WriteString("\n")
	b.WriteString(helpLine("h / l", "Switch library/nodes pane"))
	b.WriteString(helpLine("/  c", "Filter library / cycle category"))
	b.WriteString(helpLine("Enter", "Add component, or connect to target"))
	b.WriteString(helpLine("t", "Add text label (↑/↓ picks the font size)"))
	b.WriteString(helpLine("e", "Edit label text"))
	b.WriteString(helpLine("+ / -", "Grow / shrink node"))
	b.WriteString(helpLine("H J K L", "Move node"))
	b.WriteString(helpLine("n", "Start a beam from the selected node"))
	b.WriteString(helpLine("v", "Toggle horizontal/vertical handles"))
	b.WriteString(helpLine("b", "Cycle beam type"))
	b.WriteString(helpLine("Del / Backspace", "Delete selected node"))
	b.WriteString(helpLine("x", "Clear canvas"))
	b.WriteString(helpLine("s / o", "Save layout / open saved layouts"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("General"))
	b.WriteString("\n")
	b.WriteString(helpLine("tab", "Switch Grid/Canvas"))
	b.WriteString(helpLine("?", "Toggle help"))
	b.WriteString(helpLine("q / Ctrl+C", "Quit"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("Beam types"))
	b.WriteString("\n")
	for _, beam := range domain.BeamTypes {
		b.WriteString("  ")
		b.WriteString(styles.Beam(beam).Render("━━━ " + string(beam)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	// Close hint
	b.WriteString(styles.HelpDesc.Render("Press "))
	b.WriteString(styles.HelpKey.Render("esc"))
	b.WriteString(styles.HelpDesc.Render(" or "))
	b.WriteString(styles.HelpKey.Render("?"))
	b.WriteString(styles.HelpDesc.Render(" to close"))

	return styles.App.Render(b.String())
}

func helpLine(key, desc string) string {
	return "  " + styles.HelpKey.Render(padRight(key, 20)) + styles.HelpDesc.Render(desc) + "\n"
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

// SetSize updates the view dimensions
func (m *HelpModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}
