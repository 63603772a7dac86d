package commands

import (
	"fmt"

	"laserlab/internal/application"
	"laserlab/internal/domain"
)

// NodeCommandKind names an operation a node view can request
type NodeCommandKind string

const (
	NodeResize   NodeCommandKind = "resize"
	NodeDelete   NodeCommandKind = "delete"
	NodeEditText NodeCommandKind = "editText"
	NodeMove     NodeCommandKind = "move"
)

// Payloads carried by NodeCommand
type (
	ResizePayload   struct{ Size domain.Size }
	EditTextPayload struct{ Text string }
	MovePayload     struct{ Position domain.Position }
)

// NodeCommand is a request from a rendered node. Nodes hold data only;
// whatever a node view wants done travels as one of these.
type NodeCommand struct {
	NodeID  string
	Kind    NodeCommandKind
	Payload any
}

// NodeGraph is the set of graph operations node commands resolve to
type NodeGraph interface {
	ResizeNode(id string, size domain.Size) (domain.Node, error)
	EditLabelText(id, text string) (domain.Node, error)
	MoveNode(id string, pos domain.Position) (domain.Node, error)
	DeleteNode(id string) (int, error)
}

// DispatchResult describes the outcome of a dispatched command
type DispatchResult struct {
	Node         domain.Node // zero for deletes
	RemovedEdges int
	Message      string
}

// Dispatcher routes node commands to the graph
type Dispatcher struct {
	graph     NodeGraph
	onDeleted func(id string)
}

// NewDispatcher creates a dispatcher over graph. onDeleted, when set, runs
// after a node is removed (e.g., to drop it from the selection).
func NewDispatcher(graph NodeGraph, onDeleted func(id string)) *Dispatcher {
	return &Dispatcher{graph: graph, onDeleted: onDeleted}
}

// Validate checks the command before it reaches the graph
func (c NodeCommand) Validate() error {
	if err := application.ValidateRequired("nodeID", c.NodeID); err != nil {
		return err
	}

	var ok bool
	switch c.Kind {
	case NodeResize:
		_, ok = c.Payload.(ResizePayload)
	case NodeEditText:
		_, ok = c.Payload.(EditTextPayload)
	case NodeMove:
		_, ok = c.Payload.(MovePayload)
	case NodeDelete:
		ok = true
	default:
		return &application.ValidationError{
			Field:   "kind",
			Message: fmt.Sprintf("unknown node command: %s", c.Kind),
		}
	}
	if !ok {
		return &application.ValidationError{
			Field:   "payload",
			Message: fmt.Sprintf("unexpected payload %T for %s", c.Payload, c.Kind),
		}
	}
	return nil
}

// Dispatch validates and executes one command
func (d *Dispatcher) Dispatch(cmd NodeCommand) (*DispatchResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	switch cmd.Kind {
	case NodeResize:
		n, err := d.graph.ResizeNode(cmd.NodeID, cmd.Payload.(ResizePayload).Size)
		if err != nil {
			return nil, fmt.Errorf("failed to resize: %w", err)
		}
		return &DispatchResult{
			Node:    n,
			Message: fmt.Sprintf("Resized %s to %gx%g", n.ID, n.Size.Width, n.Size.Height),
		}, nil

	case NodeEditText:
		n, err := d.graph.EditLabelText(cmd.NodeID, cmd.Payload.(EditTextPayload).Text)
		if err != nil {
			return nil, fmt.Errorf("failed to edit text: %w", err)
		}
		return &DispatchResult{Node: n, Message: fmt.Sprintf("Updated %s", n.ID)}, nil

	case NodeMove:
		n, err := d.graph.MoveNode(cmd.NodeID, cmd.Payload.(MovePayload).Position)
		if err != nil {
			return nil, fmt.Errorf("failed to move: %w", err)
		}
		return &DispatchResult{Node: n}, nil

	default: // NodeDelete
		removed, err := d.graph.DeleteNode(cmd.NodeID)
		if err != nil {
			return nil, fmt.Errorf("failed to delete: %w", err)
		}
		if d.onDeleted != nil {
			d.onDeleted(cmd.NodeID)
		}
		return &DispatchResult{
			RemovedEdges: removed,
			Message:      fmt.Sprintf("Deleted %s and %d beam(s)", cmd.NodeID, removed),
		}, nil
	}
}
