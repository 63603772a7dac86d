package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"laserlab/internal/application/commands"
	"laserlab/internal/application/layouts"
	"laserlab/internal/domain"
	"laserlab/internal/ports"
)

// Backend is what the tools read from and write to
type Backend struct {
	Catalog *domain.Catalog
	Rows    ports.RowSource
	Sink    ports.RowSink
	Layouts *layouts.Store
}

// RegisterReadTools adds all read-only tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, b Backend) {
	s.AddTool(catalogSearchTool(), catalogSearchHandler(b.Catalog))
	s.AddTool(rowsListTool(), rowsListHandler(b.Rows))
	s.AddTool(layoutsListTool(), layoutsListHandler(b.Layouts))
	s.AddTool(layoutShowTool(), layoutShowHandler(b.Layouts))
}

// --- catalog_search ---

func catalogSearchTool() mcp.Tool {
	return mcp.NewTool("catalog_search",
		mcp.WithDescription("Search the component library. Results are ranked by relevance when a query is given."),
		mcp.WithString("query",
			mcp.Description("Case-insensitive text matched against the display name and file id. Omit to list everything."),
		),
		mcp.WithString("category",
			mcp.Description("Category filter: all, beam (b-), complex (c-) or electronic (e-)."),
		),
	)
}

func catalogSearchHandler(catalog *domain.Catalog) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		category, err := domain.ParseCategory(req.GetString("category", ""))
		if err != nil {
			return toolError(err)
		}

		results, err := commands.NewSearchCatalogCommand(catalog, category, req.GetString("query", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return formatEntities(results, func(r commands.CatalogResult) string {
			return fmt.Sprintf("%s  %s  %s", r.ID, r.DisplayName, r.AssetPath)
		})
	}
}

// --- rows_list ---

func rowsListTool() mcp.Tool {
	return mcp.NewTool("rows_list",
		mcp.WithDescription("List the component inventory rows in display order."),
	)
}

func rowsListHandler(source ports.RowSource) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		rows, err := commands.NewListRowsCommand(source).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return formatEntities(rows, formatRow)
	}
}

// --- layouts_list ---

func layoutsListTool() mcp.Tool {
	return mcp.NewTool("layouts_list",
		mcp.WithDescription("List saved canvas layouts."),
	)
}

func layoutsListHandler(store *layouts.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		list, err := commands.NewListLayoutsCommand(store).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return formatEntities(list, func(l domain.Layout) string {
			return fmt.Sprintf("%s  %s  %d nodes  %d beams  %s",
				l.ID, l.Name, len(l.Nodes), len(l.Edges), l.SavedAt.Format("2006-01-02 15:04"))
		})
	}
}

// --- layout_show ---

func layoutShowTool() mcp.Tool {
	return mcp.NewTool("layout_show",
		mcp.WithDescription("Show the nodes and beams of a saved layout."),
		mcp.WithString("id",
			mcp.Description("Layout ID (e.g. layout-1718000000000-3f2a9c1d)"),
			mcp.Required(),
		),
	)
}

func layoutShowHandler(store *layouts.Store) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := req.GetString("id", "")
		if id == "" {
			return toolError(fmt.Errorf("id is required"))
		}

		store.LoadAll()
		layout, err := store.Get(id)
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "%s  %s\n", layout.ID, layout.Name)
		for _, n := range layout.Nodes {
			fmt.Fprintf(&sb, "node  %s  %s  %q  at (%.0f, %.0f)  %.0fx%.0f\n",
				n.ID, n.Kind, n.Title(), n.Position.X, n.Position.Y, n.Size.Width, n.Size.Height)
		}
		for _, e := range layout.Edges {
			fmt.Fprintf(&sb, "beam  %s:%s -> %s:%s  %s %s\n",
				e.Source, e.SourceHandle, e.Target, e.TargetHandle, e.Beam, e.Color.Hex())
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func formatEntities[T any](entities []T, format func(T) string) (*mcp.CallToolResult, error) {
	if len(entities) == 0 {
		return mcp.NewToolResultText("No results."), nil
	}
	var sb strings.Builder
	for _, e := range entities {
		sb.WriteString(format(e))
		sb.WriteByte('\n')
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func formatRow(r domain.InventoryRow) string {
	return fmt.Sprintf("%s  %s  %s  %s", r.Position, r.Element, r.System, r.Model)
}
