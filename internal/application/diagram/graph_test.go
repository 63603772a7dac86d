package diagram

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laserlab/internal/application"
	"laserlab/internal/domain"
)

func newTestGraph() *Graph {
	return NewGraph(WithPlacement(func() float64 { return 0.5 }))
}

func addComponent(t *testing.T, g *Graph, label string) domain.Node {
	t.Helper()
	n, err := g.AddComponent(domain.ComponentData{Label: label, AssetPath: "/svg/x.svg"}, "")
	require.NoError(t, err)
	return n
}

func connect(t *testing.T, g *Graph, a, b string, beam domain.BeamType) domain.Edge {
	t.Helper()
	e, err := g.Connect(Connection{
		Source: a, SourceHandle: domain.HandleRight,
		Target: b, TargetHandle: domain.HandleLeft,
	}, beam)
	require.NoError(t, err)
	return e
}

func TestGraph_AddComponent(t *testing.T) {
	g := newTestGraph()
	catalog := domain.BuiltinCatalog()
	entry, ok := catalog.Lookup("b-lens1")
	require.True(t, ok)

	n, err := g.AddComponent(entry, "")
	require.NoError(t, err)
	assert.Equal(t, domain.NodeKindComponent, n.Kind)
	assert.Equal(t, domain.DefaultComponentSize, n.Size)
	assert.Equal(t, domain.Position{X: 150, Y: 150}, n.Position)
	assert.Equal(t, "LENS1", n.Component.Label)
	assert.Equal(t, entry.AssetPath, n.Component.AssetPath)

	row := domain.InventoryRow{Element: "Mirror1", System: "Laser", Model: "M1"}
	n, err = g.AddComponent(row, catalog.MatchRow(row))
	require.NoError(t, err)
	assert.Equal(t, "Mirror1", n.Component.Label)
	assert.Equal(t, "M1", n.Component.Model)
	assert.Equal(t, domain.AssetBasePath+"b-mir.svg", n.Component.AssetPath)

	_, err = g.AddComponent(domain.ComponentData{}, "")
	var valErr *application.ValidationError
	assert.True(t, errors.As(err, &valErr))

	nodes, _ := g.Len()
	assert.Equal(t, 2, nodes)
}

func TestGraph_AddTextLabel(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		fontSize domain.FontSize
		wantText string
		wantFont domain.FontSize
		wantErr  bool
	}{
		{"defaults", "", "", domain.DefaultLabelText, domain.FontMedium, false},
		{"whitespace text uses default", "   ", domain.FontLarge, domain.DefaultLabelText, domain.FontLarge, false},
		{"explicit", "Pump path", domain.FontExtraLarge, "Pump path", domain.FontExtraLarge, false},
		{"unknown font size", "x", "13px", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGraph()
			n, err := g.AddTextLabel(tt.text, tt.fontSize)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, domain.NodeKindTextLabel, n.Kind)
			assert.Equal(t, domain.DefaultLabelSize, n.Size)
			assert.Equal(t, tt.wantText, n.Label.Text)
			assert.Equal(t, tt.wantFont, n.Label.FontSize)
		})
	}
}

func TestGraph_ResizeNode(t *testing.T) {
	g := newTestGraph()
	comp := addComponent(t, g, "Lens")
	label, err := g.AddTextLabel("note", "")
	require.NoError(t, err)

	tests := []struct {
		name string
		id   string
		size domain.Size
		want domain.Size
	}{
		{"component within bounds", comp.ID, domain.Size{Width: 80, Height: 200}, domain.Size{Width: 80, Height: 200}},
		{"component clamped", comp.ID, domain.Size{Width: 10, Height: 1000}, domain.Size{Width: 50, Height: 300}},
		{"label clamped", label.ID, domain.Size{Width: 600, Height: 10}, domain.Size{Width: 500, Height: 30}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := g.ResizeNode(tt.id, tt.size)
			require.NoError(t, err)
			assert.Equal(t, tt.want, n.Size)
		})
	}

	_, err = g.ResizeNode("component-missing", domain.Size{Width: 60, Height: 60})
	assert.ErrorIs(t, err, application.ErrNotFound)

	_, err = g.ResizeNode(comp.ID, domain.Size{Width: 0, Height: 60})
	assert.Error(t, err)
}

func TestGraph_ResizeIsIdempotent(t *testing.T) {
	g := newTestGraph()
	n := addComponent(t, g, "Lens")
	size := domain.Size{Width: 90, Height: 140}

	once, err := g.ResizeNode(n.ID, size)
	require.NoError(t, err)
	twice, err := g.ResizeNode(n.ID, size)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
	assert.Equal(t, n.Position, twice.Position)
	assert.Equal(t, n.Component, twice.Component)
}

func TestGraph_EditLabelText(t *testing.T) {
	g := newTestGraph()
	label, err := g.AddTextLabel("", "")
	require.NoError(t, err)
	comp := addComponent(t, g, "Lens")

	n, err := g.EditLabelText(label.ID, "Seed beam")
	require.NoError(t, err)
	assert.Equal(t, "Seed beam", n.Label.Text)
	assert.Equal(t, label.Size, n.Size)

	_, err = g.EditLabelText(label.ID, "  ")
	var valErr *application.ValidationError
	assert.True(t, errors.As(err, &valErr))

	_, err = g.EditLabelText(comp.ID, "text")
	assert.ErrorIs(t, err, application.ErrInvalidOperation)

	got, ok := g.Node(label.ID)
	require.True(t, ok)
	assert.Equal(t, "Seed beam", got.Label.Text)
}

func TestGraph_DeleteNodeCascades(t *testing.T) {
	g := newTestGraph()
	a := addComponent(t, g, "Laser")
	b := addComponent(t, g, "Lens")
	c := addComponent(t, g, "Mirror")
	connect(t, g, a.ID, b.ID, domain.BeamRed)
	connect(t, g, b.ID, c.ID, domain.BeamRed)
	connect(t, g, a.ID, c.ID, domain.BeamGreen)

	removed, err := g.DeleteNode(b.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	nodes, edges := g.Snapshot()
	assert.Len(t, nodes, 2)
	require.Len(t, edges, 1)
	assert.Equal(t, a.ID, edges[0].Source)
	assert.Equal(t, c.ID, edges[0].Target)

	_, err = g.DeleteNode(b.ID)
	assert.ErrorIs(t, err, application.ErrNotFound)
}

func TestGraph_NoDanglingEdgesAfterDeletes(t *testing.T) {
	g := newTestGraph()
	var ids []string
	for i := 0; i < 6; i++ {
		ids = append(ids, addComponent(t, g, "n").ID)
	}
	for i := range ids {
		for j := range ids {
			if i != j {
				connect(t, g, ids[i], ids[j], domain.BeamBlue)
			}
		}
	}

	for _, id := range []string{ids[3], ids[0], ids[5]} {
		_, err := g.DeleteNode(id)
		require.NoError(t, err)

		nodes, edges := g.Snapshot()
		live := make(map[string]bool, len(nodes))
		for _, n := range nodes {
			live[n.ID] = true
		}
		for _, e := range edges {
			assert.True(t, live[e.Source], "edge %s has dangling source", e.ID)
			assert.True(t, live[e.Target], "edge %s has dangling target", e.ID)
		}
	}
}

func TestGraph_AddThenDeleteRestoresLength(t *testing.T) {
	g := newTestGraph()
	addComponent(t, g, "Laser")
	before, _ := g.Len()

	n := addComponent(t, g, "Lens")
	_, err := g.DeleteNode(n.ID)
	require.NoError(t, err)

	after, _ := g.Len()
	assert.Equal(t, before, after)
	_, edges := g.Snapshot()
	for _, e := range edges {
		assert.False(t, e.Touches(n.ID))
	}
}

func TestGraph_ConnectBindsColorAtCreation(t *testing.T) {
	g := newTestGraph()
	a := addComponent(t, g, "a")
	b := addComponent(t, g, "b")

	active := domain.BeamGreen
	edge := connect(t, g, a.ID, b.ID, active)
	active = domain.BeamRed

	_, edges := g.Snapshot()
	require.Len(t, edges, 1)
	assert.Equal(t, domain.BeamGreen, edges[0].Beam)
	assert.Equal(t, domain.RGB{R: 0, G: 255, B: 0}, edges[0].Color)
	assert.True(t, edges[0].Animated)
	assert.Equal(t, "edge-"+a.ID+"right-"+b.ID+"left", edge.ID)
	assert.NotEqual(t, active, edges[0].Beam)
}

func TestGraph_ConnectRefusals(t *testing.T) {
	g := newTestGraph()
	a := addComponent(t, g, "a")
	b := addComponent(t, g, "b")
	connect(t, g, a.ID, b.ID, domain.BeamRed)

	tests := []struct {
		name string
		conn Connection
		want error
	}{
		{
			name: "duplicate",
			conn: Connection{Source: a.ID, SourceHandle: domain.HandleRight, Target: b.ID, TargetHandle: domain.HandleLeft},
			want: application.ErrDuplicateEdge,
		},
		{
			name: "unknown source",
			conn: Connection{Source: "component-x", SourceHandle: domain.HandleRight, Target: b.ID, TargetHandle: domain.HandleLeft},
			want: application.ErrUnknownNode,
		},
		{
			name: "unknown target",
			conn: Connection{Source: a.ID, SourceHandle: domain.HandleBottom, Target: "component-x", TargetHandle: domain.HandleTop},
			want: application.ErrUnknownNode,
		},
		{
			name: "target handle as source",
			conn: Connection{Source: a.ID, SourceHandle: domain.HandleLeft, Target: b.ID, TargetHandle: domain.HandleTop},
			want: application.ErrInvalidOperation,
		},
		{
			name: "source handle as target",
			conn: Connection{Source: a.ID, SourceHandle: domain.HandleRight, Target: b.ID, TargetHandle: domain.HandleBottom},
			want: application.ErrInvalidOperation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.Connect(tt.conn, domain.BeamBlue)
			assert.ErrorIs(t, err, tt.want)
			var connErr *application.ConnectError
			assert.True(t, errors.As(err, &connErr))
		})
	}

	_, edges := g.Len()
	assert.Equal(t, 1, edges)
}

func TestGraph_ClearAndReplace(t *testing.T) {
	g := newTestGraph()
	a := addComponent(t, g, "a")
	b := addComponent(t, g, "b")
	connect(t, g, a.ID, b.ID, domain.BeamRed)

	nodes, edges := g.Snapshot()
	g.Clear()
	n, e := g.Len()
	assert.Zero(t, n)
	assert.Zero(t, e)

	g.Replace(nodes, edges)
	nodes[0].Component.Label = "mutated"
	got, ok := g.Node(a.ID)
	require.True(t, ok)
	assert.Equal(t, "a", got.Component.Label)
}

func TestGraph_SnapshotIsIndependent(t *testing.T) {
	g := newTestGraph()
	a := addComponent(t, g, "a")

	nodes, _ := g.Snapshot()
	nodes[0].Component.Label = "changed"
	nodes[0].Size.Width = 1

	got, _ := g.Node(a.ID)
	assert.Equal(t, "a", got.Component.Label)
	assert.Equal(t, domain.DefaultComponentSize, got.Size)
}

func TestGraph_ConcurrentReadsSeeNoDanglingEdges(t *testing.T) {
	g := newTestGraph()
	hub := addComponent(t, g, "hub")
	var spokes []string
	for i := 0; i < 50; i++ {
		s := addComponent(t, g, "spoke")
		connect(t, g, hub.ID, s.ID, domain.BeamRed)
		spokes = append(spokes, s.ID)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for _, id := range spokes {
			_, _ = g.DeleteNode(id)
		}
	}()

	for i := 0; i < 200; i++ {
		nodes, edges := g.Snapshot()
		live := make(map[string]bool, len(nodes))
		for _, n := range nodes {
			live[n.ID] = true
		}
		for _, e := range edges {
			if !live[e.Target] {
				t.Fatalf("edge %s references removed node", e.ID)
			}
		}
	}
	wg.Wait()
}
