package domain

import (
	"fmt"
	"strings"
)

// NodeKind is the type of a diagram node
type NodeKind string

const (
	NodeKindComponent NodeKind = "component"
	NodeKindTextLabel NodeKind = "textLabel"
)

func (k NodeKind) idPrefix() string {
	if k == NodeKindTextLabel {
		return "text"
	}
	return "component"
}

// Position is a canvas coordinate
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a node's width and height in canvas pixels
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Clamp bounds s component-wise to [lo, hi]
func (s Size) Clamp(lo, hi Size) Size {
	return Size{
		Width:  min(max(s.Width, lo.Width), hi.Width),
		Height: min(max(s.Height, lo.Height), hi.Height),
	}
}

var (
	DefaultComponentSize = Size{Width: 120, Height: 120}
	MinComponentSize     = Size{Width: 50, Height: 50}
	MaxComponentSize     = Size{Width: 300, Height: 300}

	DefaultLabelSize = Size{Width: 150, Height: 50}
	MinLabelSize     = Size{Width: 50, Height: 30}
	MaxLabelSize     = Size{Width: 500, Height: 200}
)

// SizeBounds returns the resize limits for a node kind
func SizeBounds(kind NodeKind) (lo, hi Size) {
	if kind == NodeKindTextLabel {
		return MinLabelSize, MaxLabelSize
	}
	return MinComponentSize, MaxComponentSize
}

// FontSize is a CSS-style label font size
type FontSize string

const (
	FontSmall      FontSize = "10px"
	FontMedium     FontSize = "14px"
	FontLarge      FontSize = "18px"
	FontExtraLarge FontSize = "24px"
)

// FontSizes lists the selectable label sizes
var FontSizes = []FontSize{FontSmall, FontMedium, FontLarge, FontExtraLarge}

func (f FontSize) String() string {
	switch f {
	case FontSmall:
		return "Small"
	case FontMedium:
		return "Medium"
	case FontLarge:
		return "Large"
	case FontExtraLarge:
		return "Extra Large"
	default:
		return string(f)
	}
}

// Points returns the numeric size, defaulting to 14
func (f FontSize) Points() float64 {
	var v float64
	if _, err := fmt.Sscanf(strings.TrimSuffix(string(f), "px"), "%g", &v); err != nil || v <= 0 {
		return 14
	}
	return v
}

// ParseFontSize accepts a size name ("large", "extra large") or its pixel
// value ("18px", "18"). Blank input yields the empty size.
func ParseFontSize(s string) (FontSize, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", nil
	}
	for _, f := range FontSizes {
		if s == strings.ToLower(f.String()) || s == string(f) || s+"px" == string(f) {
			return f, nil
		}
	}
	if s == "xl" {
		return FontExtraLarge, nil
	}
	return "", fmt.Errorf("unknown font size: %q", s)
}

// DefaultLabelText is used when a label is added without text
const DefaultLabelText = "New Label"

// ComponentData is the payload of a component node
type ComponentData struct {
	Label     string `json:"label"`
	System    string `json:"system,omitempty"`
	Model     string `json:"model,omitempty"`
	AssetPath string `json:"svgPath"`
}

// Component returns c, so a bare payload can seed a node like a library entry
func (c ComponentData) Component() ComponentData {
	return c
}

// LabelData is the payload of a text label node
type LabelData struct {
	Text     string   `json:"text"`
	FontSize FontSize `json:"fontSize"`
}

// Node is a diagram node. It carries data only.
type Node struct {
	ID        string         `json:"id"`
	Kind      NodeKind       `json:"type"`
	Position  Position       `json:"position"`
	Size      Size           `json:"size"`
	Component *ComponentData `json:"component,omitempty"`
	Label     *LabelData     `json:"label,omitempty"`
}

// Title returns the text shown for the node
func (n Node) Title() string {
	switch {
	case n.Component != nil:
		return n.Component.Label
	case n.Label != nil:
		return n.Label.Text
	}
	return n.ID
}

// Clone returns a deep copy of n
func (n Node) Clone() Node {
	out := n
	if n.Component != nil {
		c := *n.Component
		out.Component = &c
	}
	if n.Label != nil {
		l := *n.Label
		out.Label = &l
	}
	return out
}

// Handle names a connection point on a node's border
type Handle string

const (
	HandleLeft   Handle = "left"
	HandleRight  Handle = "right"
	HandleTop    Handle = "top"
	HandleBottom Handle = "bottom"
)

// ParseHandle validates a handle name
func ParseHandle(s string) (Handle, error) {
	switch h := Handle(strings.ToLower(strings.TrimSpace(s))); h {
	case HandleLeft, HandleRight, HandleTop, HandleBottom:
		return h, nil
	}
	return "", fmt.Errorf("unknown handle: %q", s)
}

// IsSource reports whether edges may start at the handle
func (h Handle) IsSource() bool {
	return h == HandleRight || h == HandleBottom
}

// RGB is an 8-bit color
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Hex formats the color as #rrggbb
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// BeamType is the active edge category selector
type BeamType string

const (
	BeamRed      BeamType = "red"
	BeamGreen    BeamType = "green"
	BeamBlue     BeamType = "blue"
	BeamInfrared BeamType = "infrared"
)

// BeamTypes lists the beam selector options in display order
var BeamTypes = []BeamType{BeamRed, BeamGreen, BeamBlue, BeamInfrared}

// Color maps the beam type to its edge color; unknown tags are red
func (b BeamType) Color() RGB {
	switch b {
	case BeamGreen:
		return RGB{0, 255, 0}
	case BeamBlue:
		return RGB{0, 0, 255}
	case BeamInfrared:
		return RGB{255, 102, 102}
	default:
		return RGB{255, 0, 0}
	}
}

// Next cycles to the following beam type
func (b BeamType) Next() BeamType {
	for i, t := range BeamTypes {
		if t == b {
			return BeamTypes[(i+1)%len(BeamTypes)]
		}
	}
	return BeamRed
}

// Edge is a beam between two nodes. Color is bound at creation.
type Edge struct {
	ID           string   `json:"id"`
	Source       string   `json:"source"`
	Target       string   `json:"target"`
	SourceHandle Handle   `json:"sourceHandle"`
	TargetHandle Handle   `json:"targetHandle"`
	Beam         BeamType `json:"beam"`
	Color        RGB      `json:"color"`
	Animated     bool     `json:"animated"`
}

// EdgeID derives the id of the edge for a handle pair
func EdgeID(source string, sourceHandle Handle, target string, targetHandle Handle) string {
	return fmt.Sprintf("edge-%s%s-%s%s", source, sourceHandle, target, targetHandle)
}

// Touches reports whether the edge is incident to the node
func (e Edge) Touches(nodeID string) bool {
	return e.Source == nodeID || e.Target == nodeID
}

// CloneNodes deep-copies a node sequence
func CloneNodes(nodes []Node) []Node {
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = n.Clone()
	}
	return out
}

// CloneEdges copies an edge sequence
func CloneEdges(edges []Edge) []Edge {
	out := make([]Edge, len(edges))
	copy(out, edges)
	return out
}
