package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"laserlab/internal/application/commands"
	"laserlab/internal/application/layouts"
	"laserlab/internal/ports"
)

// RegisterWriteTools adds the tools that change rows or layouts.
func RegisterWriteTools(s *server.MCPServer, b Backend) {
	s.AddTool(layoutDeleteTool(), layoutDeleteHandler(b.Layouts))
	s.AddTool(rowEditTool(), rowEditHandler(b.Rows, b.Sink))
}

// --- layout_delete ---

func layoutDeleteTool() mcp.Tool {
	return mcp.NewTool("layout_delete",
		mcp.WithDescription("Delete a saved layout by its ID."),
		mcp.WithString("id",
			mcp.Description("Layout ID to delete"),
			mcp.Required(),
		),
	)
}

func layoutDeleteHandler(store *layouts.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := commands.NewDeleteLayoutCommand(store, req.GetString("id", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- row_edit ---

func rowEditTool() mcp.Tool {
	return mcp.NewTool("row_edit",
		mcp.WithDescription("Change one field of an inventory row and save the inventory."),
		mcp.WithNumber("position",
			mcp.Description("1-based row position as listed by rows_list"),
			mcp.Required(),
		),
		mcp.WithString("field",
			mcp.Description("Field to change: Element, System or Model"),
			mcp.Required(),
		),
		mcp.WithString("value",
			mcp.Description("New value"),
		),
	)
}

func rowEditHandler(source ports.RowSource, sink ports.RowSink) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		position := req.GetInt("position", 0)
		field := req.GetString("field", "")
		if field == "" {
			return toolError(fmt.Errorf("field is required"))
		}

		result, err := commands.NewEditRowCommand(source, sink, position, field, req.GetString("value", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}
