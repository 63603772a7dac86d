package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"laserlab/internal/adapters/tui/styles"
)

// ConfirmKeyMap defines key bindings for confirmation prompts
type ConfirmKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultConfirmKeys returns the default confirmation key bindings
var DefaultConfirmKeys = ConfirmKeyMap{
	Confirm: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "confirm"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("n", "esc"),
		key.WithHelp("n/esc", "cancel"),
	),
}

// ConfirmationModel is an inline yes/no prompt (clear canvas, delete layout)
type ConfirmationModel struct {
	Question string
	Target   string
	Active   bool
	Keys     ConfirmKeyMap
}

// NewConfirmationModel creates a new confirmation model with default keys
func NewConfirmationModel() ConfirmationModel {
	return ConfirmationModel{
		Keys: DefaultConfirmKeys,
	}
}

// Ask activates the prompt for target
func (m *ConfirmationModel) Ask(question, target string) {
	m.Question = question
	m.Target = target
	m.Active = true
}

// Dismiss deactivates the prompt
func (m *ConfirmationModel) Dismiss() {
	m.Active = false
	m.Target = ""
}

// HandleKeyMsg processes key messages for the prompt. It returns
// (handled, confirmed); any handled key dismisses the prompt.
func (m *ConfirmationModel) HandleKeyMsg(msg tea.KeyMsg) (handled, confirmed bool) {
	switch {
	case key.Matches(msg, m.Keys.Cancel):
		m.Active = false
		return true, false
	case key.Matches(msg, m.Keys.Confirm):
		m.Active = false
		return true, true
	}
	return false, false
}

// View renders the prompt
func (m *ConfirmationModel) View() string {
	if !m.Active {
		return ""
	}
	return RenderConfirmPrompt(m.Question)
}

// RenderConfirmPrompt renders the standard confirmation prompt
func RenderConfirmPrompt(question string) string {
	var b strings.Builder
	b.WriteString(question)
	b.WriteString(" ")
	b.WriteString(styles.HelpKey.Render("y"))
	b.WriteString(styles.HelpDesc.Render(" to confirm, "))
	b.WriteString(styles.HelpKey.Render("n"))
	b.WriteString(styles.HelpDesc.Render(" to cancel"))
	return b.String()
}
