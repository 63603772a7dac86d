package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"laserlab/internal/adapters/tui/styles"
)

// InputFormKeyMap defines key bindings for input forms
type InputFormKeyMap struct {
	Submit   key.Binding
	Cancel   key.Binding
	Tab      key.Binding
	NextPick key.Binding
	PrevPick key.Binding
}

// DefaultInputFormKeys returns the default input form key bindings
var DefaultInputFormKeys = InputFormKeyMap{
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "submit"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next field"),
	),
	NextPick: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "next choice"),
	),
	PrevPick: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "prev choice"),
	),
}

// InputField is a labelled text input. Fields with Choices can also be
// filled by cycling through them.
type InputField struct {
	Label   string
	Input   textinput.Model
	Choices []string
}

// InputForm manages the text fields of a canvas prompt
type InputForm struct {
	Fields       []InputField
	FocusedField int
	Keys         InputFormKeyMap
}

// NewInputForm creates a form focused on its first field
func NewInputForm(fields ...InputField) *InputForm {
	form := &InputForm{
		Fields: fields,
		Keys:   DefaultInputFormKeys,
	}
	if len(fields) > 0 {
		form.Fields[0].Input.Focus()
	}
	return form
}

// NewInputField creates a free text field
func NewInputField(label, placeholder string, charLimit int) InputField {
	input := textinput.New()
	input.Placeholder = placeholder
	if charLimit > 0 {
		input.CharLimit = charLimit
	}
	return InputField{
		Label: label,
		Input: input,
	}
}

// NewChoiceField creates a field that also cycles through choices
func NewChoiceField(label string, choices ...string) InputField {
	field := NewInputField(label, strings.Join(choices, ", "), 32)
	field.Choices = choices
	return field
}

// Init returns the blink command for the focused input
func (f *InputForm) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the input form.
// Returns (handled, cmd) where handled is true if the key was processed.
func (f *InputForm) Update(msg tea.Msg) (bool, tea.Cmd) {
	if len(f.Fields) == 0 {
		return false, nil
	}
	field := &f.Fields[f.FocusedField]

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, f.Keys.Tab):
			f.NextField()
			return true, nil
		case len(field.Choices) > 0 && key.Matches(msg, f.Keys.NextPick):
			f.cycle(field, 1)
			return true, nil
		case len(field.Choices) > 0 && key.Matches(msg, f.Keys.PrevPick):
			f.cycle(field, -1)
			return true, nil
		}
	}

	var cmd tea.Cmd
	field.Input, cmd = field.Input.Update(msg)
	return false, cmd
}

// cycle replaces the field value with the neighbouring choice. A value that
// is not one of the choices starts the cycle from the first one.
func (f *InputForm) cycle(field *InputField, step int) {
	n := len(field.Choices)
	next := 0
	current := strings.TrimSpace(field.Input.Value())
	for i, c := range field.Choices {
		if strings.EqualFold(c, current) {
			next = ((i+step)%n + n) % n
			break
		}
	}
	field.Input.SetValue(field.Choices[next])
	field.Input.CursorEnd()
}

// NextField moves focus to the next field
func (f *InputForm) NextField() {
	if len(f.Fields) <= 1 {
		return
	}
	f.Fields[f.FocusedField].Input.Blur()
	f.FocusedField = (f.FocusedField + 1) % len(f.Fields)
	f.Fields[f.FocusedField].Input.Focus()
}

// Value returns the trimmed value of a field by index
func (f *InputForm) Value(index int) string {
	if index < 0 || index >= len(f.Fields) {
		return ""
	}
	return strings.TrimSpace(f.Fields[index].Input.Value())
}

// SetValue sets the value of a field by index and puts the cursor after it
func (f *InputForm) SetValue(index int, value string) {
	if index < 0 || index >= len(f.Fields) {
		return
	}
	f.Fields[index].Input.SetValue(value)
	f.Fields[index].Input.CursorEnd()
}

// RenderField renders a single field with appropriate styling
func (f *InputForm) RenderField(index int) string {
	if index < 0 || index >= len(f.Fields) {
		return ""
	}

	field := f.Fields[index]
	style := styles.InputField
	if index == f.FocusedField {
		style = styles.InputFocused
	}
	return styles.InputLabel.Render(field.Label) + "\n" + style.Render(field.Input.View())
}

// RenderHelp renders the help text for the form
func (f *InputForm) RenderHelp(submitText string) string {
	var parts []string

	if len(f.Fields) > 1 {
		parts = append(parts, RenderKeyHelp(f.Keys.Tab))
	}
	if len(f.Fields) > 0 && len(f.Fields[f.FocusedField].Choices) > 0 {
		parts = append(parts, styles.HelpKey.Render("↑/↓")+" "+styles.HelpDesc.Render("choose"))
	}
	parts = append(parts, styles.HelpKey.Render("enter")+" "+styles.HelpDesc.Render(submitText))
	parts = append(parts, RenderKeyHelp(f.Keys.Cancel))

	return strings.Join(parts, "  ")
}
