package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"laserlab/internal/adapters/tui/styles"
	"laserlab/internal/application"
	"laserlab/internal/application/rows"
	"laserlab/internal/domain"
)

// GridKeyMap defines key bindings for the grid view
type GridKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Left     key.Binding
	Right    key.Binding
	Edit     key.Binding
	Done     key.Binding
	MoveDown key.Binding
	MoveUp   key.Binding
	AddNode  key.Binding
	Copy     key.Binding
	Reload   key.Binding
}

var GridKeys = GridKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup", "ctrl+u"),
		key.WithHelp("pgup", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown", "ctrl+d"),
		key.WithHelp("pgdn", "page down"),
	),
	Left: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "prev column"),
	),
	Right: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "next column"),
	),
	Edit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "edit"),
	),
	Done: key.NewBinding(
		key.WithKeys("enter", "esc"),
		key.WithHelp("enter/esc", "done"),
	),
	MoveDown: key.NewBinding(
		key.WithKeys("J", "shift+down"),
		key.WithHelp("J", "move down"),
	),
	MoveUp: key.NewBinding(
		key.WithKeys("K", "shift+up"),
		key.WithHelp("K", "move up"),
	),
	AddNode: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add to canvas"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy csv"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
}

// editableFields are the grid columns; position is rewritten by reordering
var editableFields = []domain.Field{domain.FieldElement, domain.FieldSystem, domain.FieldModel}

const maxCellWidth = 28

// AddRowToCanvasMsg asks the canvas to add a component for an inventory row
type AddRowToCanvasMsg struct {
	Row domain.InventoryRow
}

type rowsLoadedMsg struct {
	err error
}

// GridModel edits and reorders the inventory rows. Every edit and move goes
// through the row store, whose observer is the autosave pipeline.
type GridModel struct {
	ViewState
	store   *rows.Store
	feed    StatusFeed
	pager   *Paginator
	col     int
	editing bool
	input   textinput.Model
	status  string
	loaded  bool

	copyText func(string) error
}

// NewGridModel creates a grid over store. feed delivers autosave status texts.
func NewGridModel(store *rows.Store, feed StatusFeed) *GridModel {
	input := textinput.New()
	input.CharLimit = 128

	return &GridModel{
		store:    store,
		feed:     feed,
		pager:    NewPaginator(15),
		input:    input,
		copyText: clipboard.WriteAll,
	}
}

// Init loads the rows and starts listening for save status
func (m *GridModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.load}
	if m.feed != nil {
		cmds = append(cmds, m.feed.Next())
	}
	return tea.Batch(cmds...)
}

func (m *GridModel) load() tea.Msg {
	return rowsLoadedMsg{err: m.store.Load(context.Background())}
}

// Capturing reports whether keys are going to a text field
func (m *GridModel) Capturing() bool {
	return m.editing
}

// Status returns the current save status text
func (m *GridModel) Status() string {
	return m.status
}

// Update handles messages for the grid
func (m *GridModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case rowsLoadedMsg:
		m.loaded = true
		m.pager.SetTotal(m.store.Len())
		if msg.err != nil {
			m.status = application.StatusLoadError
			m.SetError(msg.err)
		} else {
			m.status = ""
		}
		return m, nil

	case SaveStatusMsg:
		m.status = msg.Text
		if m.feed == nil {
			return m, nil
		}
		return m, m.feed.Next()

	case tea.KeyMsg:
		if m.editing {
			return m, m.updateEditing(msg)
		}
		return m, m.updateBrowsing(msg)
	}

	return m, nil
}

func (m *GridModel) updateBrowsing(msg tea.KeyMsg) tea.Cmd {
	m.ClearMessage()

	switch {
	case key.Matches(msg, GridKeys.Up):
		m.pager.CursorUp()

	case key.Matches(msg, GridKeys.Down):
		m.pager.CursorDown()

	case key.Matches(msg, GridKeys.PageUp):
		m.pager.PageUp()

	case key.Matches(msg, GridKeys.PageDown):
		m.pager.PageDown()

	case key.Matches(msg, GridKeys.Left):
		if m.col > 0 {
			m.col--
		}

	case key.Matches(msg, GridKeys.Right):
		if m.col < len(editableFields)-1 {
			m.col++
		}

	case key.Matches(msg, GridKeys.Edit):
		row, err := m.store.Row(m.pager.Cursor())
		if err != nil {
			return nil
		}
		m.editing = true
		m.input.SetValue(row.Get(editableFields[m.col]))
		m.input.CursorEnd()
		return m.input.Focus()

	case key.Matches(msg, GridKeys.MoveDown):
		m.move(1)

	case key.Matches(msg, GridKeys.MoveUp):
		m.move(-1)

	case key.Matches(msg, GridKeys.AddNode):
		row, err := m.store.Row(m.pager.Cursor())
		if err != nil {
			return nil
		}
		m.SetMessage(fmt.Sprintf("Added %s to the canvas", row.Element), false)
		return func() tea.Msg { return AddRowToCanvasMsg{Row: row} }

	case key.Matches(msg, GridKeys.Copy):
		text, err := m.store.Export()
		if err == nil {
			err = m.copyText(text)
		}
		if err != nil {
			m.SetMessage(fmt.Sprintf("Copy failed: %v", err), true)
			return nil
		}
		m.SetMessage(fmt.Sprintf("Copied %d rows as CSV", m.store.Len()), false)

	case key.Matches(msg, GridKeys.Reload):
		m.loaded = false
		return m.load
	}
	return nil
}

func (m *GridModel) move(delta int) {
	from := m.pager.Cursor()
	to := from + delta
	if to < 0 || to >= m.store.Len() {
		return
	}
	if err := m.store.Move(from, to); err != nil {
		m.SetError(err)
		return
	}
	m.pager.SetCursor(to)
}

// updateEditing streams every change of the field into the store
func (m *GridModel) updateEditing(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, GridKeys.Done) {
		m.editing = false
		m.input.Blur()
		return nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		if err := m.store.Edit(m.pager.Cursor(), editableFields[m.col], after); err != nil {
			m.SetError(err)
		}
	}
	return cmd
}

// View renders the grid
func (m *GridModel) View() string {
	if !m.loaded {
		return "Loading rows..."
	}

	v := NewViewBuilder()
	v.Raw(m.renderTable()).BlankLine()

	v.Status(m.status)
	v.Message(m.Message, m.MessageErr)

	if m.editing {
		v.Line(styles.InputLabel.Render(string(editableFields[m.col]) + ":"))
		v.Line(styles.InputFocused.Render(m.input.View()))
		v.Help(GridKeys.Done)
	} else {
		v.Help(GridKeys.Up, GridKeys.Down, GridKeys.PageDown, GridKeys.Left, GridKeys.Edit,
			GridKeys.MoveUp, GridKeys.MoveDown, GridKeys.AddNode, GridKeys.Copy)
	}
	return v.String()
}

func (m *GridModel) renderTable() string {
	all := m.store.Rows()
	if len(all) == 0 {
		return RenderMuted("No rows.")
	}

	fields := append([]domain.Field{domain.FieldPosition}, editableFields...)
	widths := make([]int, len(fields))
	for i, f := range fields {
		widths[i] = lipgloss.Width(string(f))
		for _, r := range all {
			widths[i] = max(widths[i], min(lipgloss.Width(r.Get(f)), maxCellWidth))
		}
	}

	var b strings.Builder
	header := make([]string, len(fields))
	for i, f := range fields {
		header[i] = styles.GridCell.Render(padRight(string(f), widths[i]))
	}
	b.WriteString(styles.GridHeader.Render(strings.Join(header, "")))
	b.WriteString("\n")

	start, end := m.pager.VisibleRange()
	for i := start; i < end; i++ {
		cells := make([]string, len(fields))
		for j, f := range fields {
			text := padRight(truncate(all[i].Get(f), maxCellWidth), widths[j])
			style := styles.GridCell
			if i == m.pager.Cursor() && j == m.col+1 {
				style = styles.GridCellActive
			}
			cells[j] = style.Render(text)
		}
		if i == m.pager.Cursor() {
			cells[0] = styles.ItemSelected.Render(padRight(all[i].Position, widths[0]+2))
		}
		b.WriteString(strings.Join(cells, ""))
		b.WriteString("\n")
	}

	if pages := m.pager.TotalPages(); pages > 1 {
		b.WriteString(RenderMuted(fmt.Sprintf("page %d/%d", m.pager.CurrentPage(), pages)))
		b.WriteString("\n")
	}
	return b.String()
}

// SetSize updates the view dimensions and the page length
func (m *GridModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	m.pager.SetPageSize(height - 12)
}

func truncate(s string, n int) string {
	if lipgloss.Width(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) > n-1 {
		r = r[:n-1]
	}
	return string(r) + "…"
}
