package layouts

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"laserlab/internal/application"
	"laserlab/internal/domain"
	"laserlab/internal/ports"
)

// StorageKey is the local store key holding the JSON array of layouts
const StorageKey = "laser-canvas-layouts"

// Graph is the part of the live diagram the store reads and replaces
type Graph interface {
	Snapshot() ([]domain.Node, []domain.Edge)
	Replace(nodes []domain.Node, edges []domain.Edge)
}

// Store keeps the named layouts. The in-memory list is hydrated by LoadAll.
// Save and Delete re-read the stored blob before rewriting it, so changes
// made by another process in between are kept.
type Store struct {
	mu      sync.RWMutex
	layouts []domain.Layout

	local  ports.LocalStore
	ids    *domain.IDGenerator
	now    func() time.Time
	logger *slog.Logger
}

// NewStore creates an empty store over local
func NewStore(local ports.LocalStore, ids *domain.IDGenerator, logger *slog.Logger) *Store {
	if ids == nil {
		ids = domain.NewIDGenerator(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		local:  local,
		ids:    ids,
		now:    time.Now,
		logger: logger,
	}
}

// LoadAll hydrates the list from local storage. Missing or malformed data
// yields an empty list; malformed data is logged.
func (s *Store) LoadAll() []domain.Layout {
	layouts, err := s.read()
	if err != nil {
		s.logger.Warn("failed to read saved layouts", "key", StorageKey, "error", err)
	}

	s.mu.Lock()
	s.layouts = layouts
	s.mu.Unlock()

	return s.List()
}

// read decodes the stored list. Only a failing local store is an error;
// missing or malformed data reads as an empty list.
func (s *Store) read() ([]domain.Layout, error) {
	blob, err := s.local.Get(StorageKey)
	if errors.Is(err, ports.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(blob) == "" {
		return nil, nil
	}

	var layouts []domain.Layout
	if err := json.Unmarshal([]byte(blob), &layouts); err != nil {
		s.logger.Warn("ignoring malformed saved layouts", "key", StorageKey, "error", err)
		return nil, nil
	}
	return layouts, nil
}

// List returns deep copies of the layouts in save order
func (s *Store) List() []domain.Layout {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Layout, len(s.layouts))
	for i, l := range s.layouts {
		out[i] = l.Clone()
	}
	return out
}

// Get returns a deep copy of one layout
func (s *Store) Get(layoutID string) (domain.Layout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(layoutID)
	if i < 0 {
		return domain.Layout{}, fmt.Errorf("layout %s: %w", layoutID, application.ErrNotFound)
	}
	return s.layouts[i].Clone(), nil
}

func (s *Store) indexOf(layoutID string) int {
	for i := range s.layouts {
		if s.layouts[i].ID == layoutID {
			return i
		}
	}
	return -1
}

// Save snapshots nodes and edges under name. Blank names are refused
// before anything is stored.
func (s *Store) Save(name string, nodes []domain.Node, edges []domain.Edge) (domain.Layout, error) {
	if err := application.ValidateRequired("name", name); err != nil {
		return domain.Layout{}, err
	}

	layout := domain.Layout{
		ID:      s.ids.LayoutID(),
		Name:    strings.TrimSpace(name),
		Nodes:   domain.CloneNodes(nodes),
		Edges:   domain.CloneEdges(edges),
		SavedAt: s.now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.read()
	if err != nil {
		return domain.Layout{}, fmt.Errorf("failed to read layouts: %w", err)
	}
	next := append(current, layout)
	if err := s.persist(next); err != nil {
		return domain.Layout{}, err
	}
	s.layouts = next
	return layout.Clone(), nil
}

// SaveGraph snapshots the live graph under name
func (s *Store) SaveGraph(name string, g Graph) (domain.Layout, error) {
	nodes, edges := g.Snapshot()
	return s.Save(name, nodes, edges)
}

// Load replaces the live graph with copies of the layout's nodes and edges
func (s *Store) Load(layoutID string, g Graph) (domain.Layout, error) {
	layout, err := s.Get(layoutID)
	if err != nil {
		return domain.Layout{}, err
	}
	g.Replace(layout.Nodes, layout.Edges)
	return layout, nil
}

// Delete removes a layout and rewrites the stored list
func (s *Store) Delete(layoutID string) error {
	if err := application.ValidateRequired("layoutID", layoutID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.read()
	if err != nil {
		return fmt.Errorf("failed to read layouts: %w", err)
	}
	s.layouts = current

	i := s.indexOf(layoutID)
	if i < 0 {
		return fmt.Errorf("layout %s: %w", layoutID, application.ErrNotFound)
	}

	next := make([]domain.Layout, 0, len(current)-1)
	next = append(next, current[:i]...)
	next = append(next, current[i+1:]...)
	if err := s.persist(next); err != nil {
		return err
	}
	s.layouts = next
	return nil
}

// persist writes the whole list as one blob. Callers hold s.mu.
func (s *Store) persist(layouts []domain.Layout) error {
	if layouts == nil {
		layouts = []domain.Layout{}
	}
	blob, err := json.Marshal(layouts)
	if err != nil {
		return fmt.Errorf("failed to encode layouts: %w", err)
	}
	if err := s.local.Set(StorageKey, string(blob)); err != nil {
		return fmt.Errorf("failed to store layouts: %w", err)
	}
	return nil
}
