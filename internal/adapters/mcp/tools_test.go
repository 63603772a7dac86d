package mcp

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laserlab/internal/application/layouts"
	"laserlab/internal/domain"
	"laserlab/internal/ports"
)

type memRows struct{ text string }

func (m *memRows) FetchRows(ctx context.Context) (string, error) { return m.text, nil }

func (m *memRows) SaveRows(ctx context.Context, csv string) error {
	m.text = csv
	return nil
}

type memLocal map[string]string

func (m memLocal) Get(key string) (string, error) {
	v, ok := m[key]
	if !ok {
		return "", ports.ErrKeyNotFound
	}
	return v, nil
}

func (m memLocal) Set(key, value string) error { m[key] = value; return nil }
func (m memLocal) Delete(key string) error     { delete(m, key); return nil }

func call(t *testing.T, h func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text, res.IsError
}

func TestCatalogSearch(t *testing.T) {
	h := catalogSearchHandler(domain.BuiltinCatalog())

	out, isErr := call(t, h, map[string]any{"query": "lens1", "category": "beam"})
	assert.False(t, isErr)
	assert.Contains(t, out, "b-lens1  LENS1")

	_, isErr = call(t, h, map[string]any{"category": "optical"})
	assert.True(t, isErr)
}

func TestRowsListAndEdit(t *testing.T) {
	rows := &memRows{text: "position,Element,System,Model\n1,Laser1,Laser,Mephisto\n"}

	out, isErr := call(t, rowsListHandler(rows), nil)
	assert.False(t, isErr)
	assert.Equal(t, "1  Laser1  Laser  Mephisto\n", out)

	out, isErr = call(t, rowEditHandler(rows, rows), map[string]any{"position": 1, "field": "Model", "value": "Verdi"})
	assert.False(t, isErr)
	assert.Contains(t, out, "Verdi")
	assert.Contains(t, rows.text, "1,Laser1,Laser,Verdi")

	out, isErr = call(t, rowEditHandler(rows, rows), map[string]any{"position": 1})
	assert.True(t, isErr)
	assert.Contains(t, out, "field is required")
}

func TestLayoutTools(t *testing.T) {
	local := memLocal{}
	store := layouts.NewStore(local, domain.NewIDGenerator(nil), nil)
	node := domain.Node{
		ID: "component-1-1", Kind: domain.NodeKindComponent, Size: domain.DefaultComponentSize,
		Component: &domain.ComponentData{Label: "LASER1"},
	}
	saved, err := store.Save("Bench A", []domain.Node{node}, nil)
	require.NoError(t, err)

	out, _ := call(t, layoutsListHandler(store), nil)
	assert.Contains(t, out, saved.ID+"  Bench A  1 nodes  0 beams")

	out, isErr := call(t, layoutShowHandler(store), map[string]any{"id": saved.ID})
	assert.False(t, isErr)
	assert.Contains(t, out, `component-1-1  component  "LASER1"`)

	out, isErr = call(t, layoutDeleteHandler(store), map[string]any{"id": saved.ID})
	assert.False(t, isErr)
	assert.Contains(t, out, "Bench A")
	assert.Equal(t, "[]", local[layouts.StorageKey])

	_, isErr = call(t, layoutShowHandler(store), map[string]any{"id": saved.ID})
	assert.True(t, isErr)
}
