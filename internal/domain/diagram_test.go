package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBeamType_Color(t *testing.T) {
	tests := []struct {
		beam BeamType
		want RGB
	}{
		{BeamRed, RGB{255, 0, 0}},
		{BeamGreen, RGB{0, 255, 0}},
		{BeamBlue, RGB{0, 0, 255}},
		{BeamInfrared, RGB{255, 102, 102}},
		{BeamType("ultraviolet"), RGB{255, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(string(tt.beam), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.beam.Color())
		})
	}
}

func TestBeamType_Next(t *testing.T) {
	assert.Equal(t, BeamGreen, BeamRed.Next())
	assert.Equal(t, BeamRed, BeamInfrared.Next())
	assert.Equal(t, BeamRed, BeamType("bogus").Next())
}

func TestRGB_Hex(t *testing.T) {
	assert.Equal(t, "#ff6666", BeamInfrared.Color().Hex())
}

func TestSize_Clamp(t *testing.T) {
	lo, hi := SizeBounds(NodeKindComponent)
	assert.Equal(t, Size{50, 300}, Size{10, 900}.Clamp(lo, hi))

	lo, hi = SizeBounds(NodeKindTextLabel)
	assert.Equal(t, Size{500, 30}, Size{800, 5}.Clamp(lo, hi))
	assert.Equal(t, Size{200, 100}, Size{200, 100}.Clamp(lo, hi))
}

func TestFontSize_Points(t *testing.T) {
	assert.Equal(t, 24.0, FontExtraLarge.Points())
	assert.Equal(t, 14.0, FontSize("").Points())
}

func TestParseHandle(t *testing.T) {
	h, err := ParseHandle(" Right ")
	assert.NoError(t, err)
	assert.Equal(t, HandleRight, h)
	assert.True(t, h.IsSource())
	assert.False(t, HandleLeft.IsSource())

	_, err = ParseHandle("center")
	assert.Error(t, err)
}

func TestNode_CloneIsDeep(t *testing.T) {
	n := Node{
		ID:        "component-1",
		Kind:      NodeKindComponent,
		Component: &ComponentData{Label: "Lens"},
	}
	c := n.Clone()
	c.Component.Label = "Mirror"

	assert.Equal(t, "Lens", n.Component.Label)
}

func TestLayout_CloneIsDeep(t *testing.T) {
	l := Layout{
		Nodes: []Node{{ID: "text-1", Kind: NodeKindTextLabel, Label: &LabelData{Text: "A"}}},
		Edges: []Edge{{ID: "e1", Source: "a", Target: "b"}},
	}
	c := l.Clone()
	c.Nodes[0].Label.Text = "B"
	c.Edges[0].Source = "z"

	assert.Equal(t, "A", l.Nodes[0].Label.Text)
	assert.Equal(t, "a", l.Edges[0].Source)
}

func TestIDGenerator_UniqueWithinTick(t *testing.T) {
	fixed := time.UnixMilli(1718000000000)
	gen := NewIDGenerator(func() time.Time { return fixed })

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := gen.NodeID(NodeKindComponent)
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}

	assert.True(t, strings.HasPrefix(gen.NodeID(NodeKindTextLabel), "text-1718000000000-"))
	assert.True(t, strings.HasPrefix(gen.LayoutID(), "layout-1718000000000-"))
	assert.NotEqual(t, gen.LayoutID(), gen.LayoutID())
}

func TestParseFontSize(t *testing.T) {
	tests := []struct {
		in      string
		want    FontSize
		wantErr bool
	}{
		{"", "", false},
		{"large", FontLarge, false},
		{"Extra Large", FontExtraLarge, false},
		{"xl", FontExtraLarge, false},
		{"10px", FontSmall, false},
		{"14", FontMedium, false},
		{"13px", "", true},
		{"huge", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFontSize(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseFontSize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
