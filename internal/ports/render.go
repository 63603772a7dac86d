package ports

import (
	"io"

	"laserlab/internal/domain"
)

// LayoutRenderer draws a layout as an image
type LayoutRenderer interface {
	RenderPNG(layout domain.Layout, w io.Writer) error
}

// LayoutTeXRenderer writes a layout as a LaTeX document
type LayoutTeXRenderer interface {
	RenderTeX(layout domain.Layout, w io.Writer) error
}
