package render

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laserlab/internal/domain"
)

func TestPartFor(t *testing.T) {
	tests := []struct {
		asset      string
		macro      string
		options    string
		reflective bool
	}{
		{"/ComponentLibrary_files/svg/b-lens2.svg", `\lens`, "lensradius=1", false},
		{"/ComponentLibrary_files/svg/b-mir.svg", `\mirror`, "mirrortype=extended", true},
		{"/ComponentLibrary_files/svg/b-mircpzt.svg", `\mirror`, "mirrortype=piezo, mirrorradius=30", true},
		{"/ComponentLibrary_files/svg/b-bspcube.svg", `\beamsplitter`, "bsstyle=cube", true},
		{"/ComponentLibrary_files/svg/b-wpgn.svg", `\optretplate`, "", false},
		{"/ComponentLibrary_files/svg/c-laser1.svg", `\optbox`, "position=start, innerlabel, optboxwidth=1.2", false},
		{"/ComponentLibrary_files/svg/e-pdgrn1.svg", `\optdetector`, "", false},
		{"/ComponentLibrary_files/svg/e-computer.svg", `\optbox`, "innerlabel", false},
		{"", `\optbox`, "innerlabel", false},
	}

	for _, tt := range tests {
		t.Run(tt.asset, func(t *testing.T) {
			macro, options, reflective := PartFor(domain.ComponentData{AssetPath: tt.asset})
			assert.Equal(t, tt.macro, macro)
			assert.Equal(t, tt.options, options)
			assert.Equal(t, tt.reflective, reflective)
		})
	}
}

func TestRenderTeX_Document(t *testing.T) {
	layout := twoNodeLayout(domain.BeamGreen)
	layout.Nodes[0].Component.AssetPath = "/ComponentLibrary_files/svg/c-laser1.svg"
	layout.Nodes[1].Component.AssetPath = "/ComponentLibrary_files/svg/b-lens1.svg"
	layout.Nodes[1].Component.Label = "L1 & 50%"

	var buf bytes.Buffer
	require.NoError(t, NewTeXRenderer().RenderTeX(layout, &buf))
	out := buf.String()

	assert.Contains(t, out, `\usepackage{pst-optexp}`)
	assert.Contains(t, out, `\definecolor{beamgreen}{RGB}{0,255,0}`)
	// 120x120 nodes at x=0 and x=300 have centres (60,60) and (360,60)
	assert.Contains(t, out, `\pnode(1.20,-1.20){N0}`)
	assert.Contains(t, out, `\pnode(7.20,-1.20){N1}`)
	// The beam runs left to right, so component refs sit on either side
	assert.Contains(t, out, `\pnode(0.70,-1.20){N0in}\pnode(1.70,-1.20){N0out}`)
	assert.Contains(t, out, `\optbox[position=start, innerlabel, optboxwidth=1.2](N0in)(N0out){LASER1}`)
	assert.Contains(t, out, `\lens[lensradius=1](N1in)(N1out){L1 \& 50\%}`)
	assert.Contains(t, out, `\drawwidebeam[beamwidth=0.1, fillstyle=solid, fillcolor=beamgreen](N0)(N1)`)
	// Label centre (175,225) with the 18px font
	assert.Contains(t, out, `\rput(3.50,-4.50){\large Seed}`)
	assert.Contains(t, out, `\begin{pspicture}(-0.80,-5.80)(9.20,0.80)`)
	assert.True(t, bytes.HasSuffix(buf.Bytes(), []byte("\\end{document}\n")))
}

func TestRenderTeX_MirrorUsesNeighbours(t *testing.T) {
	nodes := []domain.Node{
		{ID: "a", Kind: domain.NodeKindComponent, Position: domain.Position{X: 0, Y: 0}, Size: domain.DefaultComponentSize,
			Component: &domain.ComponentData{Label: "LASER", AssetPath: "/svg/c-laser1.svg"}},
		{ID: "b", Kind: domain.NodeKindComponent, Position: domain.Position{X: 300, Y: 0}, Size: domain.DefaultComponentSize,
			Component: &domain.ComponentData{Label: "M1", AssetPath: "/svg/b-mir.svg"}},
		{ID: "c", Kind: domain.NodeKindComponent, Position: domain.Position{X: 300, Y: 300}, Size: domain.DefaultComponentSize,
			Component: &domain.ComponentData{Label: "PD", AssetPath: "/svg/e-pd1.svg"}},
		{ID: "d", Kind: domain.NodeKindComponent, Position: domain.Position{X: 600, Y: 600}, Size: domain.DefaultComponentSize,
			Component: &domain.ComponentData{Label: "M2", AssetPath: "/svg/b-mir.svg"}},
	}
	edges := []domain.Edge{
		{ID: "e1", Source: "a", SourceHandle: domain.HandleRight, Target: "b", TargetHandle: domain.HandleLeft, Beam: domain.BeamRed},
		{ID: "e2", Source: "b", SourceHandle: domain.HandleBottom, Target: "c", TargetHandle: domain.HandleTop, Beam: domain.BeamType("uv")},
	}

	var buf bytes.Buffer
	require.NoError(t, NewTeXRenderer().RenderTeX(domain.Layout{Nodes: nodes, Edges: edges}, &buf))
	out := buf.String()

	assert.Contains(t, out, `\mirror[mirrortype=extended](N0)(N1)(N2){M1}`)
	assert.Contains(t, out, `\optdetector(N2in)(N2out){PD}`)
	// A mirror off every beam path falls back to its own refs
	assert.Contains(t, out, `\mirror[mirrortype=extended](N3in)(N3out){M2}`)
	assert.Contains(t, out, `fillcolor=beamred](N1)(N2)`)
}

func TestRenderTeX_EmptyLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTeXRenderer().RenderTeX(domain.Layout{Name: "Empty"}, &buf))
	out := buf.String()

	assert.Contains(t, out, "% Empty layout")
	assert.NotContains(t, out, `\begin{optexp}`)
	assert.Contains(t, out, `\end{document}`)
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("disk full") }

func TestRenderTeX_WriteError(t *testing.T) {
	err := NewTeXRenderer().RenderTeX(twoNodeLayout(domain.BeamRed), failingWriter{})
	assert.EqualError(t, err, "disk full")
}
