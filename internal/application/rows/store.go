package rows

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"laserlab/internal/application"
	"laserlab/internal/domain"
	"laserlab/internal/ports"
)

// Observer is notified after every mutation. Edits arrive as a stream;
// a reorder is one completed gesture.
type Observer interface {
	RowsEdited()
	RowsReordered()
}

// Store is the ordered inventory. Slice order is display order and save order.
type Store struct {
	mu      sync.RWMutex
	columns []string
	rows    []domain.InventoryRow

	source   ports.RowSource
	observer Observer
	logger   *slog.Logger
}

// NewStore creates an empty store reading from source
func NewStore(source ports.RowSource, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		columns: append([]string(nil), domain.DefaultColumns...),
		source:  source,
		logger:  logger,
	}
}

// SetObserver registers the mutation observer (normally the autosave pipeline)
func (s *Store) SetObserver(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observer = o
}

// Load fetches and decodes the row resource. On failure the store is left
// empty and a *application.LoadError is returned; the condition is recoverable.
func (s *Store) Load(ctx context.Context) error {
	raw, err := s.source.FetchRows(ctx)
	if err != nil {
		s.reset()
		s.logger.Warn("row resource unreachable", "error", err)
		return &application.LoadError{Resource: "rows", Err: err}
	}
	if err := s.LoadText(raw); err != nil {
		s.logger.Warn("row resource malformed", "error", err)
		return err
	}
	return nil
}

// LoadText replaces the store contents with the decoded text
func (s *Store) LoadText(raw string) error {
	table, err := domain.DecodeRows(raw)
	if err != nil {
		s.reset()
		return &application.LoadError{Resource: "rows", Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.columns = table.Columns
	s.rows = table.Rows
	return nil
}

func (s *Store) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.columns = append([]string(nil), domain.DefaultColumns...)
	s.rows = nil
}

// Rows returns a copy of the rows in display order
func (s *Store) Rows() []domain.InventoryRow {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.InventoryRow, len(s.rows))
	for i, r := range s.rows {
		out[i] = r.Clone()
	}
	return out
}

// Row returns a copy of the row at index
func (s *Store) Row(index int) (domain.InventoryRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if index < 0 || index >= len(s.rows) {
		return domain.InventoryRow{}, fmt.Errorf("row %d: %w", index, application.ErrNotFound)
	}
	return s.rows[index].Clone(), nil
}

// Len returns the number of rows
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

// Edit updates one field of the row at index and notifies the observer
func (s *Store) Edit(index int, field domain.Field, value string) error {
	s.mu.Lock()
	if index < 0 || index >= len(s.rows) {
		s.mu.Unlock()
		return fmt.Errorf("row %d: %w", index, application.ErrNotFound)
	}
	if _, ok := domain.ParseField(string(field)); !ok {
		s.mu.Unlock()
		return &application.ValidationError{Field: "field", Message: fmt.Sprintf("unknown field: %s", field)}
	}
	s.rows[index].Set(field, value)
	observer := s.observer
	s.mu.Unlock()

	if observer != nil {
		observer.RowsEdited()
	}
	return nil
}

// Reorder arranges the rows so that row order[i] moves to index i, then
// rewrites every position to its new 1-based ordinal
func (s *Store) Reorder(order []int) error {
	s.mu.Lock()
	if err := validatePermutation(order, len(s.rows)); err != nil {
		s.mu.Unlock()
		return err
	}

	reordered := make([]domain.InventoryRow, len(order))
	for i, from := range order {
		reordered[i] = s.rows[from]
		reordered[i].Position = strconv.Itoa(i + 1)
	}
	s.rows = reordered
	observer := s.observer
	s.mu.Unlock()

	if observer != nil {
		observer.RowsReordered()
	}
	return nil
}

// Move drags the row at from to index to, shifting the rows in between
func (s *Store) Move(from, to int) error {
	n := s.Len()
	if from < 0 || from >= n || to < 0 || to >= n {
		return &application.ValidationError{
			Field:   "index",
			Message: fmt.Sprintf("cannot move row %d to %d in %d rows", from, to, n),
		}
	}

	order := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if i != from {
			order = append(order, i)
		}
	}
	order = append(order[:to], append([]int{from}, order[to:]...)...)
	return s.Reorder(order)
}

func validatePermutation(order []int, n int) error {
	if len(order) != n {
		return &application.ValidationError{
			Field:   "order",
			Message: fmt.Sprintf("expected %d indexes, got %d", n, len(order)),
		}
	}
	seen := make([]bool, n)
	for _, i := range order {
		if i < 0 || i >= n || seen[i] {
			return &application.ValidationError{
				Field:   "order",
				Message: fmt.Sprintf("not a permutation: %v", order),
			}
		}
		seen[i] = true
	}
	return nil
}

// Export serializes the rows under the loaded header
func (s *Store) Export() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	text, err := domain.EncodeRows(s.columns, s.rows)
	if err != nil {
		return "", fmt.Errorf("failed to export rows: %w", err)
	}
	return text, nil
}
