package application

import "laserlab/internal/domain"

// Re-export domain types for use by adapters
type (
	LibraryEntry = domain.LibraryEntry
	InventoryRow = domain.InventoryRow
	Node         = domain.Node
	Edge         = domain.Edge
	Layout       = domain.Layout
	BeamType     = domain.BeamType
	Handle       = domain.Handle
)

// Re-export node kinds for use by adapters
const (
	NodeKindComponent = domain.NodeKindComponent
	NodeKindTextLabel = domain.NodeKindTextLabel
)

// Status texts surfaced to the operator
const (
	StatusEditing   = "Editing..."
	StatusSaving    = "Saving..."
	StatusSaved     = "Changes saved"
	StatusSaveError = "Error saving"
	StatusLoadError = "Error loading data"
)
