package selection

import (
	"sync"
)

// Keys that delete the selected node
const (
	KeyDelete    = "delete"
	KeyBackspace = "backspace"
)

// Focus describes what currently owns keyboard input
type Focus int

const (
	FocusCanvas Focus = iota
	FocusTextField
)

// Deleter removes a node and its incident edges
type Deleter interface {
	DeleteNode(id string) (int, error)
}

// Controller tracks the single selected node and turns delete keys into
// node deletion while the canvas is mounted
type Controller struct {
	mu       sync.Mutex
	selected string
	mounted  bool
	graph    Deleter
}

// NewController creates a controller deleting through graph
func NewController(graph Deleter) *Controller {
	return &Controller{graph: graph}
}

// Mount activates the key listener
func (c *Controller) Mount() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mounted = true
}

// Unmount deactivates the key listener and drops the selection
func (c *Controller) Unmount() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mounted = false
	c.selected = ""
}

// Select makes id the selected node
func (c *Controller) Select(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = id
}

// Clear drops the selection
func (c *Controller) Clear() {
	c.Select("")
}

// Selected returns the selected node id, if any
func (c *Controller) Selected() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected, c.selected != ""
}

// Forget drops the selection if it refers to id
func (c *Controller) Forget(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected == id {
		c.selected = ""
	}
}

// HandleKey deletes the selected node on Delete or Backspace. It reports
// whether the key was consumed; keys typed into a text field never are.
func (c *Controller) HandleKey(key string, focus Focus) (bool, error) {
	if key != KeyDelete && key != KeyBackspace {
		return false, nil
	}

	c.mu.Lock()
	if !c.mounted || focus == FocusTextField || c.selected == "" {
		c.mu.Unlock()
		return false, nil
	}
	id := c.selected
	c.selected = ""
	c.mu.Unlock()

	if _, err := c.graph.DeleteNode(id); err != nil {
		return true, err
	}
	return true, nil
}
