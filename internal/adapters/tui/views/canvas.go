package views

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"laserlab/internal/adapters/tui/styles"
	"laserlab/internal/application"
	"laserlab/internal/application/commands"
	"laserlab/internal/application/diagram"
	"laserlab/internal/application/layouts"
	"laserlab/internal/application/selection"
	"laserlab/internal/domain"
)

// CanvasKeyMap defines key bindings for the canvas view
type CanvasKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	PaneLeft  key.Binding
	PaneRight key.Binding
	Enter     key.Binding
	Cancel    key.Binding
	Filter    key.Binding
	Category  key.Binding
	AddLabel  key.Binding
	EditText  key.Binding
	Grow      key.Binding
	Shrink    key.Binding
	MoveLeft  key.Binding
	MoveDown  key.Binding
	MoveUp    key.Binding
	MoveRight key.Binding
	Connect   key.Binding
	Vertical  key.Binding
	Beam      key.Binding
	Clear     key.Binding
	Save      key.Binding
	Open      key.Binding
	Delete    key.Binding
}

var CanvasKeys = CanvasKeyMap{
	Up:        key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
	Down:      key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
	PaneLeft:  key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h", "library")),
	PaneRight: key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l", "nodes")),
	Enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add/connect")),
	Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Filter:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
	Category:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "category")),
	AddLabel:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "text label")),
	EditText:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit text")),
	Grow:      key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "resize")),
	Shrink:    key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "shrink")),
	MoveLeft:  key.NewBinding(key.WithKeys("H"), key.WithHelp("HJKL", "move")),
	MoveDown:  key.NewBinding(key.WithKeys("J")),
	MoveUp:    key.NewBinding(key.WithKeys("K")),
	MoveRight: key.NewBinding(key.WithKeys("L")),
	Connect:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "beam from")),
	Vertical:  key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "handles")),
	Beam:      key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "beam type")),
	Clear:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear")),
	Save:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
	Open:      key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "layouts")),
	Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete layout")),
}

type canvasPane int

const (
	paneLibrary canvasPane = iota
	paneNodes
)

type canvasMode int

const (
	canvasBrowse canvasMode = iota
	canvasFilter
	canvasLabelForm
	canvasEditText
	canvasSaveName
	canvasLayouts
)

type confirmKind int

const (
	confirmClear confirmKind = iota
	confirmDeleteLayout
)

const (
	nudgeStep     = 10.0
	minimapWidth  = 48
	minimapHeight = 12
	libraryWidth  = 30
)

// CanvasDeps are the collaborators the canvas drives
type CanvasDeps struct {
	Catalog   *domain.Catalog
	Graph     *diagram.Graph
	Selection *selection.Controller
	Layouts   *layouts.Store
}

// CanvasModel is the diagram editor: the component library on the left and
// the live graph on the right
type CanvasModel struct {
	ViewState
	catalog    *domain.Catalog
	graph      *diagram.Graph
	selection  *selection.Controller
	layouts    *layouts.Store
	dispatcher *commands.Dispatcher

	pane     canvasPane
	mode     canvasMode
	category domain.Category
	filter   textinput.Model
	entries  []commands.CatalogResult

	libPager    *Paginator
	nodePager   *Paginator
	layoutPager *Paginator
	saved       []domain.Layout

	form        *InputForm
	beam        domain.BeamType
	vertical    bool
	connectFrom string

	confirm     ConfirmationModel
	confirmKind confirmKind
}

// NewCanvasModel creates a canvas over the given collaborators
func NewCanvasModel(deps CanvasDeps) *CanvasModel {
	filter := textinput.New()
	filter.Placeholder = "Search components..."
	filter.CharLimit = 64

	m := &CanvasModel{
		catalog:     deps.Catalog,
		graph:       deps.Graph,
		selection:   deps.Selection,
		layouts:     deps.Layouts,
		category:    domain.CategoryAll,
		filter:      filter,
		libPager:    NewPaginator(15),
		nodePager:   NewPaginator(10),
		layoutPager: NewPaginator(10),
		beam:        domain.BeamRed,
		confirm:     NewConfirmationModel(),
	}
	m.dispatcher = commands.NewDispatcher(deps.Graph, deps.Selection.Forget)
	m.refreshEntries()
	return m
}

// Init hydrates the saved layouts
func (m *CanvasModel) Init() tea.Cmd {
	m.saved = m.layouts.LoadAll()
	m.layoutPager.SetTotal(len(m.saved))
	return nil
}

// Mount activates the delete key listener while the canvas is shown
func (m *CanvasModel) Mount() {
	m.selection.Mount()
	m.refreshNodes()
}

// Unmount deactivates the listener when the canvas is hidden
func (m *CanvasModel) Unmount() {
	m.selection.Unmount()
	m.connectFrom = ""
}

// Capturing reports whether keys are going to a text field or a prompt
func (m *CanvasModel) Capturing() bool {
	return m.mode != canvasBrowse || m.confirm.Active
}

// Beam returns the active beam type
func (m *CanvasModel) Beam() domain.BeamType {
	return m.beam
}

// focus treats prompts and the layouts list like text fields: keys there
// never delete canvas nodes
func (m *CanvasModel) focus() selection.Focus {
	if m.mode != canvasBrowse || m.confirm.Active {
		return selection.FocusTextField
	}
	return selection.FocusCanvas
}

// Update handles messages for the canvas
func (m *CanvasModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case AddRowToCanvasMsg:
		node, err := m.graph.AddComponent(msg.Row, m.catalog.MatchRow(msg.Row))
		m.afterAdd(node, err)
		return m, nil

	case tea.KeyMsg:
		// The delete listener sees every key first; it ignores keys typed
		// into a text field
		if handled, err := m.selection.HandleKey(msg.String(), m.focus()); handled {
			m.reportDelete(err)
			return m, nil
		}

		if m.confirm.Active {
			m.updateConfirm(msg)
			return m, nil
		}

		switch m.mode {
		case canvasFilter:
			return m, m.updateFilter(msg)
		case canvasLabelForm, canvasEditText, canvasSaveName:
			return m, m.updateForm(msg)
		case canvasLayouts:
			m.updateLayouts(msg)
			return m, nil
		}
		return m, m.updateBrowse(msg)
	}

	return m, nil
}

func (m *CanvasModel) updateBrowse(msg tea.KeyMsg) tea.Cmd {
	m.ClearMessage()

	switch {
	case key.Matches(msg, CanvasKeys.Cancel):
		m.connectFrom = ""

	case key.Matches(msg, CanvasKeys.PaneLeft):
		m.pane = paneLibrary

	case key.Matches(msg, CanvasKeys.PaneRight):
		m.pane = paneNodes
		m.syncSelection()

	case key.Matches(msg, CanvasKeys.Up):
		m.activePager().CursorUp()
		m.syncSelection()

	case key.Matches(msg, CanvasKeys.Down):
		m.activePager().CursorDown()
		m.syncSelection()

	case key.Matches(msg, CanvasKeys.Enter):
		if m.pane == paneLibrary {
			m.addSelectedEntry()
		} else if m.connectFrom != "" {
			m.finishConnect()
		}

	case key.Matches(msg, CanvasKeys.Filter):
		m.mode = canvasFilter
		m.pane = paneLibrary
		return m.filter.Focus()

	case key.Matches(msg, CanvasKeys.Category):
		m.category = nextCategory(m.category)
		m.refreshEntries()

	case key.Matches(msg, CanvasKeys.AddLabel):
		m.form = NewInputForm(
			NewInputField("Text", domain.DefaultLabelText, 120),
			NewChoiceField("Font size", fontSizeNames()...),
		)
		m.mode = canvasLabelForm
		return m.form.Init()

	case key.Matches(msg, CanvasKeys.EditText):
		node, ok := m.selectedNode()
		if !ok || node.Kind != domain.NodeKindTextLabel {
			m.SetMessage("Select a text label to edit", true)
			return nil
		}
		m.form = NewInputForm(NewInputField("Text", "", 120))
		m.form.SetValue(0, node.Label.Text)
		m.mode = canvasEditText
		return m.form.Init()

	case key.Matches(msg, CanvasKeys.Grow):
		m.resizeSelected(nudgeStep)

	case key.Matches(msg, CanvasKeys.Shrink):
		m.resizeSelected(-nudgeStep)

	case key.Matches(msg, CanvasKeys.MoveLeft):
		m.moveSelected(-nudgeStep, 0)
	case key.Matches(msg, CanvasKeys.MoveRight):
		m.moveSelected(nudgeStep, 0)
	case key.Matches(msg, CanvasKeys.MoveUp):
		m.moveSelected(0, -nudgeStep)
	case key.Matches(msg, CanvasKeys.MoveDown):
		m.moveSelected(0, nudgeStep)

	case key.Matches(msg, CanvasKeys.Connect):
		id, ok := m.selection.Selected()
		if !ok {
			m.SetMessage("Select the node the beam starts from", true)
			return nil
		}
		m.connectFrom = id
		m.pane = paneNodes

	case key.Matches(msg, CanvasKeys.Vertical):
		m.vertical = !m.vertical

	case key.Matches(msg, CanvasKeys.Beam):
		m.beam = m.beam.Next()

	case key.Matches(msg, CanvasKeys.Clear):
		m.confirmKind = confirmClear
		m.confirm.Ask("Clear the canvas?", "")

	case key.Matches(msg, CanvasKeys.Save):
		m.form = NewInputForm(NewInputField("Layout name", "Bench A", 80))
		m.mode = canvasSaveName
		return m.form.Init()

	case key.Matches(msg, CanvasKeys.Open):
		m.saved = m.layouts.LoadAll()
		m.layoutPager.SetTotal(len(m.saved))
		m.mode = canvasLayouts
	}
	return nil
}

func fontSizeNames() []string {
	names := make([]string, len(domain.FontSizes))
	for i, f := range domain.FontSizes {
		names[i] = f.String()
	}
	return names
}

func (m *CanvasModel) activePager() *Paginator {
	if m.pane == paneLibrary {
		return m.libPager
	}
	return m.nodePager
}

func (m *CanvasModel) updateFilter(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		m.mode = canvasBrowse
		m.filter.Blur()
		return nil
	case "esc":
		m.mode = canvasBrowse
		m.filter.Blur()
		m.filter.SetValue("")
		m.refreshEntries()
		return nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.refreshEntries()
	return cmd
}

func (m *CanvasModel) updateForm(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.form.Keys.Cancel):
		// Leaving a label edit keeps the text unless it was blanked
		if m.mode == canvasEditText && m.form.Value(0) != "" {
			m.submitForm()
			return nil
		}
		m.mode = canvasBrowse
		m.form = nil
		return nil
	case key.Matches(msg, m.form.Keys.Submit):
		m.submitForm()
		return nil
	}
	_, cmd := m.form.Update(msg)
	return cmd
}

func (m *CanvasModel) submitForm() {
	mode := m.mode
	m.mode = canvasBrowse

	switch mode {
	case canvasLabelForm:
		size, err := domain.ParseFontSize(m.form.Value(1))
		if err != nil {
			m.SetError(err)
			return
		}
		node, err := m.graph.AddTextLabel(m.form.Value(0), size)
		m.afterAdd(node, err)

	case canvasEditText:
		id, _ := m.selection.Selected()
		res, err := m.dispatcher.Dispatch(commands.NodeCommand{
			NodeID:  id,
			Kind:    commands.NodeEditText,
			Payload: commands.EditTextPayload{Text: m.form.Value(0)},
		})
		m.report(res, err)

	case canvasSaveName:
		layout, err := m.layouts.SaveGraph(m.form.Value(0), m.graph)
		if err != nil {
			m.SetError(err)
			return
		}
		m.saved = m.layouts.List()
		m.layoutPager.SetTotal(len(m.saved))
		m.SetMessage(fmt.Sprintf("Saved layout %s", layout.Name), false)
	}
	m.form = nil
}

func (m *CanvasModel) updateLayouts(msg tea.KeyMsg) {
	m.ClearMessage()

	switch {
	case key.Matches(msg, CanvasKeys.Cancel):
		m.mode = canvasBrowse

	case key.Matches(msg, CanvasKeys.Up):
		m.layoutPager.CursorUp()

	case key.Matches(msg, CanvasKeys.Down):
		m.layoutPager.CursorDown()

	case key.Matches(msg, CanvasKeys.Enter):
		layout, ok := m.selectedLayout()
		if !ok {
			return
		}
		if _, err := m.layouts.Load(layout.ID, m.graph); err != nil {
			m.SetError(err)
			return
		}
		m.selection.Clear()
		m.connectFrom = ""
		m.nodePager.SetCursor(0)
		m.refreshNodes()
		m.mode = canvasBrowse
		m.SetMessage(fmt.Sprintf("Loaded layout %s", layout.Name), false)

	case key.Matches(msg, CanvasKeys.Delete):
		if layout, ok := m.selectedLayout(); ok {
			m.confirmKind = confirmDeleteLayout
			m.confirm.Ask(fmt.Sprintf("Delete layout %q?", layout.Name), layout.ID)
		}
	}
}

func (m *CanvasModel) updateConfirm(msg tea.KeyMsg) {
	target := m.confirm.Target
	handled, confirmed := m.confirm.HandleKeyMsg(msg)
	if !handled || !confirmed {
		return
	}

	switch m.confirmKind {
	case confirmClear:
		m.graph.Clear()
		m.selection.Clear()
		m.connectFrom = ""
		m.refreshNodes()
		m.SetMessage("Canvas cleared", false)

	case confirmDeleteLayout:
		res, err := commands.NewDeleteLayoutCommand(m.layouts, target).Execute(context.Background())
		if err != nil {
			m.SetError(err)
			return
		}
		m.saved = m.layouts.List()
		m.layoutPager.SetTotal(len(m.saved))
		m.SetMessage(res.Message, false)
	}
}

func (m *CanvasModel) addSelectedEntry() {
	i := m.libPager.Cursor()
	if i < 0 || i >= len(m.entries) {
		return
	}
	node, err := m.graph.AddComponent(m.entries[i].LibraryEntry, "")
	m.afterAdd(node, err)
}

func (m *CanvasModel) afterAdd(node domain.Node, err error) {
	if err != nil {
		m.SetError(err)
		return
	}
	m.refreshNodes()
	m.SetMessage(fmt.Sprintf("Added %s", node.Title()), false)
}

func (m *CanvasModel) finishConnect() {
	target, ok := m.selectedNode()
	if !ok {
		return
	}
	conn := diagram.Connection{
		Source:       m.connectFrom,
		SourceHandle: domain.HandleRight,
		Target:       target.ID,
		TargetHandle: domain.HandleLeft,
	}
	if m.vertical {
		conn.SourceHandle, conn.TargetHandle = domain.HandleBottom, domain.HandleTop
	}

	edge, err := m.graph.Connect(conn, m.beam)
	if err != nil {
		m.SetError(err)
		return
	}
	m.connectFrom = ""
	m.SetMessage(fmt.Sprintf("Connected %s → %s (%s)", edge.Source, edge.Target, edge.Beam), false)
}

func (m *CanvasModel) resizeSelected(delta float64) {
	node, ok := m.selectedNode()
	if !ok {
		return
	}
	res, err := m.dispatcher.Dispatch(commands.NodeCommand{
		NodeID: node.ID,
		Kind:   commands.NodeResize,
		Payload: commands.ResizePayload{Size: domain.Size{
			Width:  node.Size.Width + delta,
			Height: node.Size.Height + delta,
		}},
	})
	m.report(res, err)
}

func (m *CanvasModel) moveSelected(dx, dy float64) {
	node, ok := m.selectedNode()
	if !ok {
		return
	}
	res, err := m.dispatcher.Dispatch(commands.NodeCommand{
		NodeID: node.ID,
		Kind:   commands.NodeMove,
		Payload: commands.MovePayload{Position: domain.Position{
			X: node.Position.X + dx,
			Y: node.Position.Y + dy,
		}},
	})
	m.report(res, err)
}

func (m *CanvasModel) report(res *commands.DispatchResult, err error) {
	if err != nil {
		m.SetError(err)
		return
	}
	m.SetMessage(res.Message, false)
}

func (m *CanvasModel) reportDelete(err error) {
	m.refreshNodes()
	switch {
	case errors.Is(err, application.ErrNotFound):
		m.SetMessage("Node already removed", true)
	case err != nil:
		m.SetError(err)
	default:
		m.SetMessage("Node deleted", false)
	}
}

func (m *CanvasModel) selectedNode() (domain.Node, bool) {
	id, ok := m.selection.Selected()
	if !ok {
		return domain.Node{}, false
	}
	return m.graph.Node(id)
}

func (m *CanvasModel) selectedLayout() (domain.Layout, bool) {
	i := m.layoutPager.Cursor()
	if i < 0 || i >= len(m.saved) {
		return domain.Layout{}, false
	}
	return m.saved[i], true
}

// syncSelection selects the node under the nodes cursor
func (m *CanvasModel) syncSelection() {
	if m.pane != paneNodes {
		return
	}
	nodes, _ := m.graph.Snapshot()
	if i := m.nodePager.Cursor(); i >= 0 && i < len(nodes) {
		m.selection.Select(nodes[i].ID)
	}
}

func (m *CanvasModel) refreshNodes() {
	n, _ := m.graph.Len()
	m.nodePager.SetTotal(n)
	if n == 0 {
		m.nodePager.SetCursor(0)
	}
	m.syncSelection()
}

func (m *CanvasModel) refreshEntries() {
	results, err := commands.NewSearchCatalogCommand(m.catalog, m.category, m.filter.Value()).Execute(context.Background())
	if err != nil {
		results = nil
	}
	m.entries = results
	m.libPager.SetTotal(len(results))
}

func nextCategory(c domain.Category) domain.Category {
	order := append([]domain.Category{domain.CategoryAll}, domain.Categories...)
	for i, cat := range order {
		if cat == c {
			return order[(i+1)%len(order)]
		}
	}
	return domain.CategoryAll
}

// View renders the canvas
func (m *CanvasModel) View() string {
	if m.mode == canvasLayouts {
		return m.renderLayouts()
	}

	left := m.renderLibrary()
	right := m.renderGraph()
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)

	v := NewViewBuilder()
	v.Raw(body).BlankLine()
	v.Line(m.renderToolbar())

	if m.form != nil {
		v.BlankLine()
		for i := range m.form.Fields {
			v.Line(m.form.RenderField(i))
		}
		v.Line(m.form.RenderHelp("submit"))
	}
	if m.confirm.Active {
		v.Line(m.confirm.View())
	}
	v.Message(m.Message, m.MessageErr)
	if m.form == nil && !m.confirm.Active {
		v.Help(CanvasKeys.PaneLeft, CanvasKeys.PaneRight, CanvasKeys.Enter, CanvasKeys.Filter,
			CanvasKeys.AddLabel, CanvasKeys.Connect, CanvasKeys.Beam, CanvasKeys.Save, CanvasKeys.Open)
	}
	return v.String()
}

func (m *CanvasModel) renderToolbar() string {
	handles := "right → left"
	if m.vertical {
		handles = "bottom → top"
	}
	parts := []string{
		styles.StatusKey.Render("beam") + styles.Beam(m.beam).Render(string(m.beam)),
		styles.StatusKey.Render("handles") + handles,
	}
	if m.connectFrom != "" {
		parts = append(parts, styles.StatusKey.Render("from")+m.connectFrom+RenderMuted("  pick a target, enter to connect"))
	}
	return strings.Join(parts, "  ")
}

func (m *CanvasModel) renderLibrary() string {
	var b strings.Builder
	b.WriteString(styles.InputLabel.Render("Library · " + m.category.String()))
	b.WriteString("\n")
	if m.mode == canvasFilter || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
		b.WriteString("\n")
	}

	start, end := m.libPager.VisibleRange()
	for i := start; i < end; i++ {
		e := m.entries[i]
		line := padRight(truncate(e.DisplayName, libraryWidth-10), libraryWidth-10) + " " + RenderMuted(string(e.Category))
		if m.pane == paneLibrary && i == m.libPager.Cursor() {
			line = styles.ItemSelected.Render(padRight(e.DisplayName, libraryWidth-6))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if len(m.entries) == 0 {
		b.WriteString(RenderMuted("No components."))
		b.WriteString("\n")
	}
	b.WriteString(RenderMuted(fmt.Sprintf("%d components", len(m.entries))))

	style := styles.Pane
	if m.pane == paneLibrary {
		style = styles.PaneFocused
	}
	return style.Width(libraryWidth).Render(b.String())
}

func (m *CanvasModel) renderGraph() string {
	nodes, edges := m.graph.Snapshot()
	selected, _ := m.selection.Selected()

	var b strings.Builder
	b.WriteString(styles.InputLabel.Render(fmt.Sprintf("Canvas · %d nodes · %d beams", len(nodes), len(edges))))
	b.WriteString("\n")
	b.WriteString(renderMinimap(nodes, selected))
	b.WriteString("\n")

	start, end := m.nodePager.VisibleRange()
	for i := start; i < end && i < len(nodes); i++ {
		n := nodes[i]
		text := fmt.Sprintf("%-22s (%4.0f,%4.0f) %3.0fx%-3.0f", truncate(n.Title(), 22), n.Position.X, n.Position.Y, n.Size.Width, n.Size.Height)
		style := styles.Item
		if n.Kind == domain.NodeKindTextLabel {
			style = styles.LabelNode
		}
		if n.ID == selected {
			style = styles.ItemSelected
		}
		marker := "  "
		if n.ID == m.connectFrom {
			marker = styles.Beam(m.beam).Render("◆ ")
		}
		b.WriteString(marker + style.Render(text))
		b.WriteString("\n")
	}
	if len(nodes) == 0 {
		b.WriteString(RenderMuted("Empty canvas. Add components from the library."))
		b.WriteString("\n")
	}

	for _, e := range edges {
		b.WriteString(styles.Edge(e).Render(fmt.Sprintf("━━ %s:%s → %s:%s", e.Source, e.SourceHandle, e.Target, e.TargetHandle)))
		b.WriteString("\n")
	}

	style := styles.Pane
	if m.pane == paneNodes {
		style = styles.PaneFocused
	}
	return style.Render(strings.TrimRight(b.String(), "\n"))
}

// renderMinimap plots node positions on a small character grid
func renderMinimap(nodes []domain.Node, selected string) string {
	grid := make([][]rune, minimapHeight)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", minimapWidth))
	}

	var maxX, maxY float64 = diagram.InitialViewport, diagram.InitialViewport
	for _, n := range nodes {
		maxX = max(maxX, n.Position.X+n.Size.Width)
		maxY = max(maxY, n.Position.Y+n.Size.Height)
	}

	for _, n := range nodes {
		col := clampInt(int(n.Position.X/maxX*minimapWidth), 0, minimapWidth-1)
		row := clampInt(int(n.Position.Y/maxY*minimapHeight), 0, minimapHeight-1)
		mark := '■'
		if n.Kind == domain.NodeKindTextLabel {
			mark = 'T'
		}
		if n.ID == selected {
			mark = '◉'
		}
		grid[row][col] = mark
	}

	lines := make([]string, minimapHeight)
	for i, r := range grid {
		lines[i] = string(r)
	}
	return styles.Minimap.Render(strings.Join(lines, "\n"))
}

func clampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

func (m *CanvasModel) renderLayouts() string {
	v := NewViewBuilder()
	v.Title("Saved layouts")

	if len(m.saved) == 0 {
		v.Muted("No saved layouts.")
	}
	start, end := m.layoutPager.VisibleRange()
	for i := start; i < end; i++ {
		l := m.saved[i]
		text := fmt.Sprintf("%-24s %2d nodes %2d beams  %s", truncate(l.Name, 24), len(l.Nodes), len(l.Edges), l.SavedAt.Format("2006-01-02 15:04"))
		if i == m.layoutPager.Cursor() {
			text = styles.ItemSelected.Render(text)
		}
		v.Line(text)
	}
	v.BlankLine()
	if m.confirm.Active {
		v.Line(m.confirm.View())
	}
	v.Message(m.Message, m.MessageErr)
	v.Help(CanvasKeys.Up, CanvasKeys.Down, key.NewBinding(key.WithHelp("enter", "load")), CanvasKeys.Delete, CanvasKeys.Cancel)
	return v.String()
}

// SetSize updates the view dimensions and page lengths
func (m *CanvasModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	m.libPager.SetPageSize(height - 14)
	m.nodePager.SetPageSize(max(height-minimapHeight-16, 3))
	m.layoutPager.SetPageSize(height - 10)
}
