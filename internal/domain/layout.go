package domain

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Layout is a named snapshot of the diagram graph
type Layout struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Nodes   []Node    `json:"nodes"`
	Edges   []Edge    `json:"edges"`
	SavedAt time.Time `json:"date"`
}

// Clone returns a deep copy that shares no slices with l
func (l Layout) Clone() Layout {
	out := l
	out.Nodes = CloneNodes(l.Nodes)
	out.Edges = CloneEdges(l.Edges)
	return out
}

// IDGenerator mints node and layout ids. Node ids combine a timestamp with a
// process-wide counter, so two ids minted within one clock tick still differ.
type IDGenerator struct {
	now func() time.Time
	seq atomic.Uint64
}

// NewIDGenerator creates a generator; now defaults to time.Now
func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now}
}

// NodeID returns e.g. "component-1718000000000-7"
func (g *IDGenerator) NodeID(kind NodeKind) string {
	return fmt.Sprintf("%s-%d-%d", kind.idPrefix(), g.now().UnixMilli(), g.seq.Add(1))
}

// LayoutID returns e.g. "layout-1718000000000-3f2a9c1d"
func (g *IDGenerator) LayoutID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("layout-%d-%s", g.now().UnixMilli(), suffix)
}
