package commands

import (
	"context"
	"fmt"

	"laserlab/internal/application"
	"laserlab/internal/application/rows"
	"laserlab/internal/domain"
	"laserlab/internal/ports"
)

// ListRowsCommand fetches the inventory rows
type ListRowsCommand struct {
	source ports.RowSource
}

// NewListRowsCommand creates a new ListRowsCommand
func NewListRowsCommand(source ports.RowSource) *ListRowsCommand {
	return &ListRowsCommand{source: source}
}

// Execute runs the list rows command
func (c *ListRowsCommand) Execute(ctx context.Context) ([]domain.InventoryRow, error) {
	store := rows.NewStore(c.source, nil)
	if err := store.Load(ctx); err != nil {
		return nil, err
	}
	return store.Rows(), nil
}

// EditRowResult contains the result of a row edit
type EditRowResult struct {
	Row     domain.InventoryRow
	Message string
}

// EditRowCommand changes one field of one row and saves the full set
type EditRowCommand struct {
	source   ports.RowSource
	sink     ports.RowSink
	Position int // 1-based, as displayed
	Field    string
	Value    string
}

// NewEditRowCommand creates a new EditRowCommand
func NewEditRowCommand(source ports.RowSource, sink ports.RowSink, position int, field, value string) *EditRowCommand {
	return &EditRowCommand{
		source:   source,
		sink:     sink,
		Position: position,
		Field:    field,
		Value:    value,
	}
}

// Validate checks if the edit is valid
func (c *EditRowCommand) Validate() error {
	if c.Position < 1 {
		return &application.ValidationError{
			Field:   "position",
			Message: fmt.Sprintf("position must be 1 or greater, got: %d", c.Position),
		}
	}

	f, ok := domain.ParseField(c.Field)
	if !ok {
		return &application.ValidationError{
			Field:   "field",
			Message: fmt.Sprintf("unknown field: %s", c.Field),
		}
	}
	if f == domain.FieldPosition {
		return &application.ValidationError{
			Field:   "field",
			Message: "position is rewritten by reordering, use move instead",
		}
	}

	return nil
}

// Execute runs the edit row command
func (c *EditRowCommand) Execute(ctx context.Context) (*EditRowResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	field, _ := domain.ParseField(c.Field)

	store := rows.NewStore(c.source, nil)
	if err := store.Load(ctx); err != nil {
		return nil, err
	}
	if err := store.Edit(c.Position-1, field, c.Value); err != nil {
		return nil, fmt.Errorf("failed to edit row %d: %w", c.Position, err)
	}
	if err := saveStore(ctx, store, c.sink); err != nil {
		return nil, err
	}

	row, _ := store.Row(c.Position - 1)
	return &EditRowResult{
		Row:     row,
		Message: fmt.Sprintf("Row %d: %s = %q", c.Position, field, c.Value),
	}, nil
}

// MoveRowResult contains the result of a row move
type MoveRowResult struct {
	Rows    []domain.InventoryRow
	Message string
}

// MoveRowCommand drags a row to a new position and saves immediately
type MoveRowCommand struct {
	source ports.RowSource
	sink   ports.RowSink
	From   int // 1-based
	To     int // 1-based
}

// NewMoveRowCommand creates a new MoveRowCommand
func NewMoveRowCommand(source ports.RowSource, sink ports.RowSink, from, to int) *MoveRowCommand {
	return &MoveRowCommand{
		source: source,
		sink:   sink,
		From:   from,
		To:     to,
	}
}

// Validate checks if the move is valid
func (c *MoveRowCommand) Validate() error {
	if c.From < 1 {
		return &application.ValidationError{Field: "from", Message: fmt.Sprintf("position must be 1 or greater, got: %d", c.From)}
	}
	if c.To < 1 {
		return &application.ValidationError{Field: "to", Message: fmt.Sprintf("position must be 1 or greater, got: %d", c.To)}
	}
	return nil
}

// Execute runs the move row command
func (c *MoveRowCommand) Execute(ctx context.Context) (*MoveRowResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	store := rows.NewStore(c.source, nil)
	if err := store.Load(ctx); err != nil {
		return nil, err
	}
	if err := store.Move(c.From-1, c.To-1); err != nil {
		return nil, err
	}
	if err := saveStore(ctx, store, c.sink); err != nil {
		return nil, err
	}

	return &MoveRowResult{
		Rows:    store.Rows(),
		Message: fmt.Sprintf("Moved row %d to %d", c.From, c.To),
	}, nil
}

func saveStore(ctx context.Context, store *rows.Store, sink ports.RowSink) error {
	text, err := store.Export()
	if err != nil {
		return err
	}
	if err := sink.SaveRows(ctx, text); err != nil {
		return fmt.Errorf("failed to save rows: %w", err)
	}
	return nil
}
