package diagram

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"laserlab/internal/application"
	"laserlab/internal/domain"
)

// InitialViewport bounds the random placement of new nodes on both axes
const InitialViewport = 300.0

// ComponentSource is anything that can seed a component node: a library
// entry, an inventory row or a bare payload
type ComponentSource interface {
	Component() domain.ComponentData
}

// Graph is the live diagram: the node and edge sequences it exclusively owns.
// Every operation takes the lock for its whole duration, so readers never see
// a node removed while its edges remain.
type Graph struct {
	mu    sync.RWMutex
	nodes []domain.Node
	edges []domain.Edge

	ids   *domain.IDGenerator
	place func() float64
}

// Option configures a Graph
type Option func(*Graph)

// WithIDGenerator sets the generator used for node ids
func WithIDGenerator(ids *domain.IDGenerator) Option {
	return func(g *Graph) { g.ids = ids }
}

// WithPlacement sets the function returning a coordinate in [0, 1) that is
// scaled to the initial viewport
func WithPlacement(place func() float64) Option {
	return func(g *Graph) { g.place = place }
}

// NewGraph creates an empty graph
func NewGraph(opts ...Option) *Graph {
	g := &Graph{
		ids:   domain.NewIDGenerator(nil),
		place: rand.Float64,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Graph) randomPosition() domain.Position {
	return domain.Position{
		X: g.place() * InitialViewport,
		Y: g.place() * InitialViewport,
	}
}

// AddComponent appends a component node built from src. A non-empty
// assetOverride replaces the asset path src provides.
func (g *Graph) AddComponent(src ComponentSource, assetOverride string) (domain.Node, error) {
	data := src.Component()
	if assetOverride != "" {
		data.AssetPath = assetOverride
	}
	if err := application.ValidateRequired("label", data.Label); err != nil {
		return domain.Node{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	node := domain.Node{
		ID:        g.ids.NodeID(domain.NodeKindComponent),
		Kind:      domain.NodeKindComponent,
		Position:  g.randomPosition(),
		Size:      domain.DefaultComponentSize,
		Component: &data,
	}
	g.nodes = append(g.nodes, node)
	return node.Clone(), nil
}

// AddTextLabel appends a text label node. Blank text becomes the default
// label text and an empty font size becomes medium.
func (g *Graph) AddTextLabel(text string, fontSize domain.FontSize) (domain.Node, error) {
	if strings.TrimSpace(text) == "" {
		text = domain.DefaultLabelText
	}
	if fontSize == "" {
		fontSize = domain.FontMedium
	}
	if err := application.ValidateFontSize("fontSize", fontSize); err != nil {
		return domain.Node{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	node := domain.Node{
		ID:       g.ids.NodeID(domain.NodeKindTextLabel),
		Kind:     domain.NodeKindTextLabel,
		Position: g.randomPosition(),
		Size:     domain.DefaultLabelSize,
		Label:    &domain.LabelData{Text: text, FontSize: fontSize},
	}
	g.nodes = append(g.nodes, node)
	return node.Clone(), nil
}

// indexOf returns the position of the node in g.nodes, or -1. Callers hold the lock.
func (g *Graph) indexOf(id string) int {
	for i := range g.nodes {
		if g.nodes[i].ID == id {
			return i
		}
	}
	return -1
}

func notFound(id string) error {
	return fmt.Errorf("node %s: %w", id, application.ErrNotFound)
}

// ResizeNode sets the node's size, clamped to the bounds of its kind.
// Position and payload are left untouched.
func (g *Graph) ResizeNode(id string, size domain.Size) (domain.Node, error) {
	if err := application.ValidateSize("size", size); err != nil {
		return domain.Node{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	i := g.indexOf(id)
	if i < 0 {
		return domain.Node{}, notFound(id)
	}
	lo, hi := domain.SizeBounds(g.nodes[i].Kind)
	g.nodes[i].Size = size.Clamp(lo, hi)
	return g.nodes[i].Clone(), nil
}

// MoveNode sets the node's position
func (g *Graph) MoveNode(id string, pos domain.Position) (domain.Node, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	i := g.indexOf(id)
	if i < 0 {
		return domain.Node{}, notFound(id)
	}
	g.nodes[i].Position = pos
	return g.nodes[i].Clone(), nil
}

// EditLabelText commits new text to a text label. Blank text is refused.
func (g *Graph) EditLabelText(id, text string) (domain.Node, error) {
	if err := application.ValidateRequired("text", text); err != nil {
		return domain.Node{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	i := g.indexOf(id)
	if i < 0 {
		return domain.Node{}, notFound(id)
	}
	if g.nodes[i].Label == nil {
		return domain.Node{}, fmt.Errorf("node %s is not a text label: %w", id, application.ErrInvalidOperation)
	}
	label := *g.nodes[i].Label
	label.Text = text
	g.nodes[i].Label = &label
	return g.nodes[i].Clone(), nil
}

// DeleteNode removes the node and every edge incident to it in one step.
// It returns the number of edges removed.
func (g *Graph) DeleteNode(id string) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	i := g.indexOf(id)
	if i < 0 {
		return 0, notFound(id)
	}

	nodes := make([]domain.Node, 0, len(g.nodes)-1)
	nodes = append(nodes, g.nodes[:i]...)
	nodes = append(nodes, g.nodes[i+1:]...)

	edges := make([]domain.Edge, 0, len(g.edges))
	for _, e := range g.edges {
		if !e.Touches(id) {
			edges = append(edges, e)
		}
	}

	removed := len(g.edges) - len(edges)
	g.nodes, g.edges = nodes, edges
	return removed, nil
}

// Connection describes an edge request between two node handles
type Connection struct {
	Source       string
	SourceHandle domain.Handle
	Target       string
	TargetHandle domain.Handle
}

// Connect appends an edge colored by beam. The color is fixed at this point;
// later changes to the active beam type do not affect it.
func (g *Graph) Connect(c Connection, beam domain.BeamType) (domain.Edge, error) {
	refuse := func(reason error) (domain.Edge, error) {
		return domain.Edge{}, &application.ConnectError{Source: c.Source, Target: c.Target, Reason: reason}
	}

	if !c.SourceHandle.IsSource() {
		return refuse(fmt.Errorf("handle %q cannot start a beam: %w", c.SourceHandle, application.ErrInvalidOperation))
	}
	if c.TargetHandle == "" || c.TargetHandle.IsSource() {
		return refuse(fmt.Errorf("handle %q cannot end a beam: %w", c.TargetHandle, application.ErrInvalidOperation))
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.indexOf(c.Source) < 0 {
		return refuse(fmt.Errorf("source %s: %w", c.Source, application.ErrUnknownNode))
	}
	if g.indexOf(c.Target) < 0 {
		return refuse(fmt.Errorf("target %s: %w", c.Target, application.ErrUnknownNode))
	}

	id := domain.EdgeID(c.Source, c.SourceHandle, c.Target, c.TargetHandle)
	for _, e := range g.edges {
		if e.ID == id {
			return refuse(application.ErrDuplicateEdge)
		}
	}

	edge := domain.Edge{
		ID:           id,
		Source:       c.Source,
		Target:       c.Target,
		SourceHandle: c.SourceHandle,
		TargetHandle: c.TargetHandle,
		Beam:         beam,
		Color:        beam.Color(),
		Animated:     true,
	}
	g.edges = append(g.edges, edge)
	return edge, nil
}

// Clear empties the graph unconditionally
func (g *Graph) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.nodes = nil
	g.edges = nil
}

// Replace swaps in deep copies of nodes and edges, discarding the current state
func (g *Graph) Replace(nodes []domain.Node, edges []domain.Edge) {
	nodes, edges = domain.CloneNodes(nodes), domain.CloneEdges(edges)

	g.mu.Lock()
	defer g.mu.Unlock()

	g.nodes, g.edges = nodes, edges
}

// Snapshot returns deep copies of the current nodes and edges
func (g *Graph) Snapshot() ([]domain.Node, []domain.Edge) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return domain.CloneNodes(g.nodes), domain.CloneEdges(g.edges)
}

// Node returns a copy of the node with the given id
func (g *Graph) Node(id string) (domain.Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	i := g.indexOf(id)
	if i < 0 {
		return domain.Node{}, false
	}
	return g.nodes[i].Clone(), true
}

// Len returns the node and edge counts
func (g *Graph) Len() (nodes, edges int) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.nodes), len(g.edges)
}
