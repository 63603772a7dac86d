package render

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"laserlab/internal/domain"
	"laserlab/internal/ports"
)

const (
	padding      = 40.0
	emptyWidth   = 240
	emptyHeight  = 120
	beamWidth    = 2.0
	arrowSize    = 8.0
	captionSize  = 12.0
	captionInset = 6.0
)

// Renderer draws layouts as PNG images with the Go mono font
type Renderer struct {
	mu    sync.Mutex
	font  *truetype.Font
	faces map[float64]font.Face
}

var _ ports.LayoutRenderer = (*Renderer)(nil)

// NewRenderer parses the embedded font
func NewRenderer() (*Renderer, error) {
	f, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return &Renderer{font: f, faces: make(map[float64]font.Face)}, nil
}

func (r *Renderer) face(size float64) font.Face {
	r.mu.Lock()
	defer r.mu.Unlock()

	if f, ok := r.faces[size]; ok {
		return f
	}
	f := truetype.NewFace(r.font, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	r.faces[size] = f
	return f
}

// Bounds returns the top-left corner and size of the area the nodes cover,
// padding included
func Bounds(nodes []domain.Node) (minX, minY float64, width, height int) {
	if len(nodes) == 0 {
		return 0, 0, emptyWidth, emptyHeight
	}

	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range nodes {
		minX = math.Min(minX, n.Position.X)
		minY = math.Min(minY, n.Position.Y)
		maxX = math.Max(maxX, n.Position.X+n.Size.Width)
		maxY = math.Max(maxY, n.Position.Y+n.Size.Height)
	}
	minX -= padding
	minY -= padding
	return minX, minY, int(math.Ceil(maxX + padding - minX)), int(math.Ceil(maxY + padding - minY))
}

// HandlePoint returns the canvas point of a node's handle
func HandlePoint(n domain.Node, h domain.Handle) (x, y float64) {
	x, y = n.Position.X, n.Position.Y
	w, ht := n.Size.Width, n.Size.Height
	switch h {
	case domain.HandleLeft:
		return x, y + ht/2
	case domain.HandleRight:
		return x + w, y + ht/2
	case domain.HandleTop:
		return x + w/2, y
	default:
		return x + w/2, y + ht
	}
}

// RenderPNG draws the layout's beams, then its nodes, and encodes the result to w
func (r *Renderer) RenderPNG(layout domain.Layout, w io.Writer) error {
	minX, minY, width, height := Bounds(layout.Nodes)

	dc := gg.NewContext(width, height)
	dc.SetColor(color.White)
	dc.Clear()
	dc.Translate(-minX, -minY)

	byID := make(map[string]domain.Node, len(layout.Nodes))
	for _, n := range layout.Nodes {
		byID[n.ID] = n
	}

	// Beams first so nodes sit on top of them
	for _, e := range layout.Edges {
		src, ok := byID[e.Source]
		if !ok {
			continue
		}
		dst, ok := byID[e.Target]
		if !ok {
			continue
		}
		r.drawBeam(dc, e, src, dst)
	}

	for _, n := range layout.Nodes {
		switch n.Kind {
		case domain.NodeKindTextLabel:
			r.drawLabel(dc, n)
		default:
			r.drawComponent(dc, n)
		}
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

func (r *Renderer) drawBeam(dc *gg.Context, e domain.Edge, src, dst domain.Node) {
	x1, y1 := HandlePoint(src, e.SourceHandle)
	x2, y2 := HandlePoint(dst, e.TargetHandle)

	dc.SetRGB255(int(e.Color.R), int(e.Color.G), int(e.Color.B))
	dc.SetLineWidth(beamWidth)
	dc.DrawLine(x1, y1, x2, y2)
	dc.Stroke()

	dx, dy := x2-x1, y2-y1
	length := math.Hypot(dx, dy)
	if length < 0.1 {
		return
	}
	dx, dy = dx/length, dy/length

	// Closed arrowhead at the target handle
	const spread = 0.5
	dc.MoveTo(x2, y2)
	dc.LineTo(x2-arrowSize*dx+arrowSize*dy*spread, y2-arrowSize*dy-arrowSize*dx*spread)
	dc.LineTo(x2-arrowSize*dx-arrowSize*dy*spread, y2-arrowSize*dy+arrowSize*dx*spread)
	dc.ClosePath()
	dc.Fill()
}

func (r *Renderer) drawComponent(dc *gg.Context, n domain.Node) {
	x, y, w, h := n.Position.X, n.Position.Y, n.Size.Width, n.Size.Height

	dc.SetColor(color.White)
	dc.DrawRoundedRectangle(x, y, w, h, 4)
	dc.Fill()
	dc.SetRGB255(0x33, 0x33, 0x33)
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(x, y, w, h, 4)
	dc.Stroke()

	dc.SetFontFace(r.face(captionSize))
	dc.SetColor(color.Black)
	dc.DrawStringAnchored(n.Title(), x+w/2, y+h-captionInset, 0.5, 0)
	if n.Component != nil && n.Component.Model != "" {
		dc.SetRGB255(0x66, 0x66, 0x66)
		dc.DrawStringAnchored(n.Component.Model, x+w/2, y+captionInset, 0.5, 1)
	}
}

func (r *Renderer) drawLabel(dc *gg.Context, n domain.Node) {
	size := domain.FontMedium.Points()
	if n.Label != nil {
		size = n.Label.FontSize.Points()
	}

	dc.SetFontFace(r.face(size))
	dc.SetColor(color.Black)
	dc.DrawStringWrapped(n.Title(), n.Position.X, n.Position.Y, 0, 0, n.Size.Width, 1.2, gg.AlignCenter)
}
