package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"laserlab/internal/adapters/tui/styles"
	"laserlab/internal/application"
)

// RenderKeyHelp formats a key binding as help text (key + description)
func RenderKeyHelp(b key.Binding) string {
	help := b.Help()
	return fmt.Sprintf("%s %s",
		styles.HelpKey.Render(help.Key),
		styles.HelpDesc.Render(help.Desc),
	)
}

// RenderHelpLine renders multiple key bindings as a help line separated by bullets
func RenderHelpLine(bindings ...key.Binding) string {
	parts := make([]string, len(bindings))
	for i, b := range bindings {
		parts[i] = RenderKeyHelp(b)
	}
	return strings.Join(parts, styles.HelpSeparator.String())
}

// RenderMessage renders a message with appropriate styling based on isError
func RenderMessage(message string, isError bool) string {
	if message == "" {
		return ""
	}
	if isError {
		return styles.ErrorMsg.Render(message)
	}
	return styles.Success.Render(message)
}

// RenderSaveStatus renders an autosave status; failures stand out
func RenderSaveStatus(status string) string {
	switch status {
	case "":
		return ""
	case application.StatusSaveError, application.StatusLoadError:
		return styles.ErrorMsg.Render(status)
	default:
		return styles.StatusText.Render(status)
	}
}

// RenderStatusBar renders an autosave status as the badge next to the tabs
func RenderStatusBar(status string) string {
	switch status {
	case "":
		return ""
	case application.StatusSaveError, application.StatusLoadError:
		return styles.StatusBar.Foreground(styles.Error).Bold(true).Render(status)
	default:
		return styles.StatusBar.Render(status)
	}
}

// RenderMuted renders muted/secondary text
func RenderMuted(text string) string {
	return styles.MutedText.Render(text)
}

// ViewBuilder helps construct view output with consistent formatting
type ViewBuilder struct {
	b strings.Builder
}

// NewViewBuilder creates a new view builder
func NewViewBuilder() *ViewBuilder {
	return &ViewBuilder{}
}

// Title adds a title section
func (v *ViewBuilder) Title(title string) *ViewBuilder {
	v.b.WriteString(styles.Title.Render(title))
	v.b.WriteString("\n\n")
	return v
}

// Line adds a line of text
func (v *ViewBuilder) Line(text string) *ViewBuilder {
	v.b.WriteString(text)
	v.b.WriteString("\n")
	return v
}

// BlankLine adds a blank line
func (v *ViewBuilder) BlankLine() *ViewBuilder {
	v.b.WriteString("\n")
	return v
}

// Muted adds muted text followed by a newline
func (v *ViewBuilder) Muted(text string) *ViewBuilder {
	return v.Line(RenderMuted(text))
}

// Status adds the autosave status line when there is one
func (v *ViewBuilder) Status(status string) *ViewBuilder {
	if status == "" {
		return v
	}
	return v.Line(RenderSaveStatus(status))
}

// Message adds a message if non-empty, with appropriate error/success styling
func (v *ViewBuilder) Message(message string, isError bool) *ViewBuilder {
	if message == "" {
		return v
	}
	v.b.WriteString(RenderMessage(message, isError))
	v.b.WriteString("\n\n")
	return v
}

// Help adds a help line with key bindings
func (v *ViewBuilder) Help(bindings ...key.Binding) *ViewBuilder {
	v.b.WriteString(RenderHelpLine(bindings...))
	return v
}

// Raw adds raw text without any formatting
func (v *ViewBuilder) Raw(text string) *ViewBuilder {
	v.b.WriteString(text)
	return v
}

// String returns the built view string without app style wrapping; the app
// wraps the whole screen once.
func (v *ViewBuilder) String() string {
	return v.b.String()
}
