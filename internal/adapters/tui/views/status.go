package views

import tea "github.com/charmbracelet/bubbletea"

// SaveStatusMsg carries a status text published by the autosave pipeline.
// An empty Text clears the status.
type SaveStatusMsg struct {
	Text string
}

// StatusFeed bridges status callbacks from save goroutines into the
// bubbletea loop
type StatusFeed chan string

// NewStatusFeed creates a buffered feed
func NewStatusFeed() StatusFeed {
	return make(StatusFeed, 32)
}

// Publish queues a status. It never blocks; when the buffer is full the
// oldest pending status is dropped so the newest one wins.
func (f StatusFeed) Publish(status string) {
	for {
		select {
		case f <- status:
			return
		default:
		}
		select {
		case <-f:
		default:
		}
	}
}

// Next waits for the next status
func (f StatusFeed) Next() tea.Cmd {
	return func() tea.Msg {
		status, ok := <-f
		if !ok {
			return nil
		}
		return SaveStatusMsg{Text: status}
	}
}
