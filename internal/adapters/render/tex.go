package render

import (
	"fmt"
	"io"
	"math"
	"path"
	"strings"

	"laserlab/internal/domain"
	"laserlab/internal/ports"
)

// texScale is the number of canvas pixels per LaTeX unit
const texScale = 50.0

// texPart is how one kind of asset is drawn with pst-optexp
type texPart struct {
	macro      string
	options    string
	reflective bool
}

// texParts maps asset stems (the asset id without its category prefix) to
// pst-optexp components. The longest matching prefix wins.
var texParts = map[string]texPart{
	"lens":      {macro: `\lens`, options: "lensradius=1"},
	"mir":       {macro: `\mirror`, options: "mirrortype=extended", reflective: true},
	"mirpzt":    {macro: `\mirror`, options: "mirrortype=piezo", reflective: true},
	"mirc":      {macro: `\mirror`, options: "mirrortype=extended, mirrorradius=30", reflective: true},
	"mircpzt":   {macro: `\mirror`, options: "mirrortype=piezo, mirrorradius=30", reflective: true},
	"flip":      {macro: `\mirror`, options: "mirrortype=extended", reflective: true},
	"bsp":       {macro: `\beamsplitter`, options: "bsstyle=plate", reflective: true},
	"bspcube":   {macro: `\beamsplitter`, options: "bsstyle=cube", reflective: true},
	"dic":       {macro: `\beamsplitter`, options: "bsstyle=plate", reflective: true},
	"diccube":   {macro: `\beamsplitter`, options: "bsstyle=cube", reflective: true},
	"wp":        {macro: `\optretplate`},
	"phase":     {macro: `\optretplate`},
	"rotator":   {macro: `\optretplate`},
	"grat":      {macro: `\optgrating`, reflective: true},
	"fiber":     {macro: `\optfiber`},
	"coupler":   {macro: `\optfiber`},
	"crystal":   {macro: `\crystal`},
	"npro":      {macro: `\crystal`},
	"opa":       {macro: `\crystal`},
	"laser":     {macro: `\optbox`, options: "position=start, innerlabel, optboxwidth=1.2"},
	"diode":     {macro: `\optbox`, options: "position=start, innerlabel, optboxwidth=1.2"},
	"pd":        {macro: `\optdetector`},
	"qpd":       {macro: `\optdetector`},
	"dump":      {macro: `\optdetector`, options: "dettype=round"},
	"spekki":    {macro: `\optbox`, options: "position=end, innerlabel, optboxwidth=1.2"},
	"isolator":  {macro: `\optbox`, options: "innerlabel"},
	"aom":       {macro: `\optbox`, options: "innerlabel"},
	"eom":       {macro: `\optbox`, options: "innerlabel"},
	"modeclean": {macro: `\optbox`, options: "innerlabel"},
}

var defaultTexPart = texPart{macro: `\optbox`, options: "innerlabel"}

var fontCommands = map[domain.FontSize]string{
	domain.FontSmall:      `\small`,
	domain.FontMedium:     `\normalsize`,
	domain.FontLarge:      `\large`,
	domain.FontExtraLarge: `\Large`,
}

var texEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`#`, `\#`,
	`$`, `\$`,
	`%`, `\%`,
	`&`, `\&`,
	`_`, `\_`,
	`~`, `\textasciitilde{}`,
	`^`, `\textasciicircum{}`,
)

// TeXRenderer writes layouts as standalone pst-optexp documents
type TeXRenderer struct{}

var _ ports.LayoutTeXRenderer = TeXRenderer{}

// NewTeXRenderer creates a TeXRenderer
func NewTeXRenderer() TeXRenderer {
	return TeXRenderer{}
}

// PartFor returns the pst-optexp component used for a component payload.
// Unknown assets are drawn as a labelled box.
func PartFor(c domain.ComponentData) (macro, options string, reflective bool) {
	stem := strings.TrimSuffix(path.Base(c.AssetPath), path.Ext(c.AssetPath))
	if i := strings.Index(stem, "-"); i >= 0 {
		stem = stem[i+1:]
	}
	stem = strings.ToLower(stem)

	part, best := defaultTexPart, 0
	for prefix, p := range texParts {
		if strings.HasPrefix(stem, prefix) && len(prefix) > best {
			part, best = p, len(prefix)
		}
	}
	return part.macro, part.options, part.reflective
}

// texPoint is a point in LaTeX units, y pointing up
type texPoint struct {
	X, Y float64
}

func (p texPoint) String() string {
	return fmt.Sprintf("(%.2f,%.2f)", p.X, p.Y)
}

func centre(n domain.Node) texPoint {
	return texPoint{
		X: (n.Position.X + n.Size.Width/2) / texScale,
		Y: -(n.Position.Y + n.Size.Height/2) / texScale,
	}
}

// beamDirection returns the unit vector from the node's first upstream
// neighbour to its first downstream neighbour, pointing right when the node
// is not on a beam path
func beamDirection(at texPoint, in, out *texPoint) texPoint {
	from, to := at, at
	if in != nil {
		from = *in
	}
	if out != nil {
		to = *out
	}
	dx, dy := to.X-from.X, to.Y-from.Y
	d := math.Hypot(dx, dy)
	if d == 0 {
		return texPoint{X: 1}
	}
	return texPoint{X: dx / d, Y: dy / d}
}

// RenderTeX writes the layout as a standalone LaTeX document. Component
// positions are scaled by 1/50 and flipped so the picture reads like the
// canvas. Beams keep the color of their beam type.
func (TeXRenderer) RenderTeX(layout domain.Layout, w io.Writer) error {
	var b strings.Builder

	b.WriteString("\\documentclass{standalone}\n\\usepackage{pst-optexp}\n\n")
	for _, beam := range domain.BeamTypes {
		c := beam.Color()
		fmt.Fprintf(&b, "\\definecolor{beam%s}{RGB}{%d,%d,%d}\n", beam, c.R, c.G, c.B)
	}
	b.WriteString("\n\\begin{document}\n\n")
	fmt.Fprintf(&b, "%% %s\n", strings.ReplaceAll(layout.Name, "\n", " "))

	minX, minY, width, height := Bounds(layout.Nodes)
	lo := texPoint{X: minX / texScale, Y: -(minY + float64(height)) / texScale}
	hi := texPoint{X: (minX + float64(width)) / texScale, Y: -minY / texScale}
	fmt.Fprintf(&b, "\\begin{pspicture}%s%s\n", lo, hi)

	if len(layout.Nodes) == 0 {
		b.WriteString("    % Empty layout\n")
		b.WriteString("\\end{pspicture}\n\n\\end{document}\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	names := make(map[string]string, len(layout.Nodes))
	points := make(map[string]texPoint, len(layout.Nodes))
	for i, n := range layout.Nodes {
		names[n.ID] = fmt.Sprintf("N%d", i)
		points[n.ID] = centre(n)
	}

	upstream := make(map[string]string)
	downstream := make(map[string]string)
	for _, e := range layout.Edges {
		if _, ok := downstream[e.Source]; !ok {
			downstream[e.Source] = e.Target
		}
		if _, ok := upstream[e.Target]; !ok {
			upstream[e.Target] = e.Source
		}
	}
	neighbour := func(m map[string]string, id string) *texPoint {
		other, ok := m[id]
		if !ok {
			return nil
		}
		p, ok := points[other]
		if !ok {
			return nil
		}
		return &p
	}

	b.WriteString("    % Nodes\n")
	for _, n := range layout.Nodes {
		at := points[n.ID]
		fmt.Fprintf(&b, "    \\pnode%s{%s}\n", at, names[n.ID])
		if n.Kind != domain.NodeKindComponent || n.Component == nil {
			continue
		}
		dir := beamDirection(at, neighbour(upstream, n.ID), neighbour(downstream, n.ID))
		half := texPoint{X: dir.X / 2, Y: dir.Y / 2}
		fmt.Fprintf(&b, "    \\pnode%s{%sin}\\pnode%s{%sout}\n",
			texPoint{X: at.X - half.X, Y: at.Y - half.Y}, names[n.ID],
			texPoint{X: at.X + half.X, Y: at.Y + half.Y}, names[n.ID])
	}

	b.WriteString("\n    \\begin{optexp}\n")
	for _, n := range layout.Nodes {
		if n.Kind != domain.NodeKindComponent || n.Component == nil {
			continue
		}
		name := names[n.ID]
		macro, options, reflective := PartFor(*n.Component)
		if options != "" {
			options = "[" + options + "]"
		}

		refs := fmt.Sprintf("(%sin)(%sout)", name, name)
		if reflective {
			in, out := name+"in", name+"out"
			if up, ok := upstream[n.ID]; ok {
				in = names[up]
			}
			if down, ok := downstream[n.ID]; ok {
				out = names[down]
			}
			if in != name+"in" && out != name+"out" {
				refs = fmt.Sprintf("(%s)(%s)(%s)", in, name, out)
			}
		}
		fmt.Fprintf(&b, "        %% %s\n", n.ID)
		fmt.Fprintf(&b, "        %s%s%s{%s}\n", macro, options, refs, texEscaper.Replace(n.Component.Label))
	}

	if len(layout.Edges) > 0 {
		b.WriteString("\n        % Beams\n")
	}
	for _, e := range layout.Edges {
		src, okSrc := names[e.Source]
		tgt, okTgt := names[e.Target]
		if !okSrc || !okTgt {
			continue
		}
		fmt.Fprintf(&b, "        \\drawwidebeam[beamwidth=0.1, fillstyle=solid, fillcolor=beam%s](%s)(%s)\n",
			texBeam(e.Beam), src, tgt)
	}
	b.WriteString("    \\end{optexp}\n")

	var labels []domain.Node
	for _, n := range layout.Nodes {
		if n.Kind == domain.NodeKindTextLabel && n.Label != nil {
			labels = append(labels, n)
		}
	}
	if len(labels) > 0 {
		b.WriteString("\n    % Labels\n")
	}
	for _, n := range labels {
		size, ok := fontCommands[n.Label.FontSize]
		if !ok {
			size = fontCommands[domain.FontMedium]
		}
		fmt.Fprintf(&b, "    \\rput%s{%s %s}\n", points[n.ID], size, texEscaper.Replace(n.Label.Text))
	}

	b.WriteString("\\end{pspicture}\n\n\\end{document}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// texBeam returns the color suffix for a beam; unknown tags are red
func texBeam(beam domain.BeamType) domain.BeamType {
	for _, t := range domain.BeamTypes {
		if t == beam {
			return t
		}
	}
	return domain.BeamRed
}
