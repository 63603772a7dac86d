package commands

import (
	"context"
	"fmt"
	"io"

	"laserlab/internal/application"
	"laserlab/internal/application/layouts"
	"laserlab/internal/domain"
	"laserlab/internal/ports"
)

// ListLayoutsCommand lists the saved layouts
type ListLayoutsCommand struct {
	store *layouts.Store
}

// NewListLayoutsCommand creates a new ListLayoutsCommand
func NewListLayoutsCommand(store *layouts.Store) *ListLayoutsCommand {
	return &ListLayoutsCommand{store: store}
}

// Execute runs the list layouts command
func (c *ListLayoutsCommand) Execute(ctx context.Context) ([]domain.Layout, error) {
	return c.store.LoadAll(), nil
}

// DeleteLayoutResult contains the result of a delete operation
type DeleteLayoutResult struct {
	DeletedID string
	Message   string
}

// DeleteLayoutCommand deletes a saved layout by ID
type DeleteLayoutCommand struct {
	store    *layouts.Store
	LayoutID string
}

// NewDeleteLayoutCommand creates a new DeleteLayoutCommand
func NewDeleteLayoutCommand(store *layouts.Store, layoutID string) *DeleteLayoutCommand {
	return &DeleteLayoutCommand{
		store:    store,
		LayoutID: layoutID,
	}
}

// Validate checks if the delete operation is valid
func (c *DeleteLayoutCommand) Validate() error {
	return application.ValidateRequired("layoutID", c.LayoutID)
}

// Execute runs the delete command
func (c *DeleteLayoutCommand) Execute(ctx context.Context) (*DeleteLayoutResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	c.store.LoadAll()
	layout, err := c.store.Get(c.LayoutID)
	if err != nil {
		return nil, err
	}
	if err := c.store.Delete(c.LayoutID); err != nil {
		return nil, fmt.Errorf("failed to delete %s: %w", c.LayoutID, err)
	}

	return &DeleteLayoutResult{
		DeletedID: c.LayoutID,
		Message:   fmt.Sprintf("Deleted layout %s (%s)", layout.Name, layout.ID),
	}, nil
}

// ExportLayoutCommand renders a saved layout as a PNG
type ExportLayoutCommand struct {
	store    *layouts.Store
	renderer ports.LayoutRenderer
	LayoutID string
}

// NewExportLayoutCommand creates a new ExportLayoutCommand
func NewExportLayoutCommand(store *layouts.Store, renderer ports.LayoutRenderer, layoutID string) *ExportLayoutCommand {
	return &ExportLayoutCommand{
		store:    store,
		renderer: renderer,
		LayoutID: layoutID,
	}
}

// Validate checks if the export is valid
func (c *ExportLayoutCommand) Validate() error {
	return application.ValidateRequired("layoutID", c.LayoutID)
}

// Execute writes the rendered layout to w
func (c *ExportLayoutCommand) Execute(ctx context.Context, w io.Writer) (*domain.Layout, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	return exportLayout(c.store, c.LayoutID, w, c.renderer.RenderPNG)
}

// ExportLayoutTeXCommand writes a saved layout as a pst-optexp LaTeX document
type ExportLayoutTeXCommand struct {
	store    *layouts.Store
	renderer ports.LayoutTeXRenderer
	LayoutID string
}

// NewExportLayoutTeXCommand creates a new ExportLayoutTeXCommand
func NewExportLayoutTeXCommand(store *layouts.Store, renderer ports.LayoutTeXRenderer, layoutID string) *ExportLayoutTeXCommand {
	return &ExportLayoutTeXCommand{
		store:    store,
		renderer: renderer,
		LayoutID: layoutID,
	}
}

// Validate checks if the export is valid
func (c *ExportLayoutTeXCommand) Validate() error {
	return application.ValidateRequired("layoutID", c.LayoutID)
}

// Execute writes the LaTeX source of the layout to w
func (c *ExportLayoutTeXCommand) Execute(ctx context.Context, w io.Writer) (*domain.Layout, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return exportLayout(c.store, c.LayoutID, w, c.renderer.RenderTeX)
}

func exportLayout(store *layouts.Store, layoutID string, w io.Writer, render func(domain.Layout, io.Writer) error) (*domain.Layout, error) {
	store.LoadAll()
	layout, err := store.Get(layoutID)
	if err != nil {
		return nil, err
	}
	if err := render(layout, w); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", layoutID, err)
	}
	return &layout, nil
}
