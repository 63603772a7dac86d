package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"laserlab/internal/adapters/tui/styles"
	"laserlab/internal/adapters/tui/views"
)

// Tab is one of the two workspaces
type Tab int

const (
	TabGrid Tab = iota
	TabCanvas
)

func (t Tab) String() string {
	if t == TabCanvas {
		return "Canvas"
	}
	return "Grid"
}

// AppKeyMap defines the keys handled before the active tab sees them
type AppKeyMap struct {
	Switch key.Binding
	Help   key.Binding
	Quit   key.Binding
	Abort  key.Binding
}

var AppKeys = AppKeyMap{
	Switch: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch")),
	Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:   key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	Abort:  key.NewBinding(key.WithKeys("ctrl+c")),
}

// Flusher starts any pending save at once
type Flusher interface {
	Flush()
}

// App is the main TUI application model
type App struct {
	grid     *views.GridModel
	canvas   *views.CanvasModel
	help     *views.HelpModel
	autosave Flusher

	tab      Tab
	showHelp bool

	width  int
	height int
}

// NewApp creates a new TUI application. autosave may be nil.
func NewApp(grid *views.GridModel, canvas *views.CanvasModel, autosave Flusher) *App {
	return &App{
		grid:     grid,
		canvas:   canvas,
		help:     views.NewHelpModel(),
		autosave: autosave,
		tab:      TabGrid,
	}
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.grid.Init(), a.canvas.Init())
}

// Tab returns the active tab
func (a *App) Tab() Tab {
	return a.tab
}

func (a *App) capturing() bool {
	if a.tab == TabCanvas {
		return a.canvas.Capturing()
	}
	return a.grid.Capturing()
}

func (a *App) quit() tea.Cmd {
	if a.autosave != nil {
		a.autosave.Flush()
	}
	return tea.Quit
}

func (a *App) switchTab() {
	if a.tab == TabGrid {
		a.tab = TabCanvas
		a.canvas.Mount()
		return
	}
	a.canvas.Unmount()
	a.tab = TabGrid
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Leave room for the tab bar
		a.grid.SetSize(msg.Width, msg.Height-2)
		a.canvas.SetSize(msg.Width, msg.Height-2)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	case views.CloseHelpMsg:
		a.showHelp = false
		return a, nil

	case views.AddRowToCanvasMsg:
		_, cmd := a.canvas.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		if key.Matches(msg, AppKeys.Abort) {
			return a, a.quit()
		}
		if a.showHelp {
			_, cmd := a.help.Update(msg)
			return a, cmd
		}
		if !a.capturing() {
			switch {
			case key.Matches(msg, AppKeys.Quit):
				return a, a.quit()
			case key.Matches(msg, AppKeys.Help):
				a.showHelp = true
				return a, nil
			case key.Matches(msg, AppKeys.Switch):
				a.switchTab()
				return a, nil
			}
		}

		var cmd tea.Cmd
		if a.tab == TabCanvas {
			_, cmd = a.canvas.Update(msg)
		} else {
			_, cmd = a.grid.Update(msg)
		}
		return a, cmd
	}

	// Background results (row loads, save status) belong to the grid
	_, cmd := a.grid.Update(msg)
	return a, cmd
}

// View renders the tab bar and the active tab
func (a *App) View() string {
	if a.showHelp {
		return a.help.View()
	}

	var b strings.Builder
	for _, t := range []Tab{TabGrid, TabCanvas} {
		if t == a.tab {
			b.WriteString(styles.TabActive.Render(t.String()))
		} else {
			b.WriteString(styles.TabInactive.Render(t.String()))
		}
	}
	if status := a.grid.Status(); status != "" && a.tab == TabCanvas {
		b.WriteString("  ")
		b.WriteString(views.RenderStatusBar(status))
	}
	b.WriteString("\n\n")

	if a.tab == TabCanvas {
		b.WriteString(a.canvas.View())
	} else {
		b.WriteString(a.grid.View())
	}
	return styles.App.Render(b.String())
}
