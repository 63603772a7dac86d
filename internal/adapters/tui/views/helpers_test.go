package views

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"laserlab/internal/ports"
)

// press builds the key message bubbletea delivers for s
func press(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "delete":
		return tea.KeyMsg{Type: tea.KeyDelete}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "pgdown":
		return tea.KeyMsg{Type: tea.KeyPgDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(m tea.Model, text string) {
	for _, r := range text {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

type memRows struct {
	text    string
	loadErr error
}

func (m *memRows) FetchRows(ctx context.Context) (string, error) {
	if m.loadErr != nil {
		return "", m.loadErr
	}
	return m.text, nil
}

type memLocal map[string]string

func (m memLocal) Get(key string) (string, error) {
	v, ok := m[key]
	if !ok {
		return "", ports.ErrKeyNotFound
	}
	return v, nil
}

func (m memLocal) Set(key, value string) error { m[key] = value; return nil }
func (m memLocal) Delete(key string) error     { delete(m, key); return nil }

var errOffline = errors.New("connection refused")
