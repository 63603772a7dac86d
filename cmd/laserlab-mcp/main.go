package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"laserlab/internal/adapters/httpapi"
	mcpadapter "laserlab/internal/adapters/mcp"
	"laserlab/internal/adapters/sqlite"
	"laserlab/internal/application/layouts"
	"laserlab/internal/application/library"
	"laserlab/internal/config"
)

func main() {
	envFile := flag.String("env-file", ".env", "file with environment defaults")
	serverFlag := flag.String("server", "", "row server base URL")
	storeFlag := flag.String("store", "", "local store database")
	flag.Parse()

	if err := config.LoadEnvFile(*envFile); err != nil {
		log.Fatalf("laserlab-mcp: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("laserlab-mcp: %v", err)
	}
	if *serverFlag != "" {
		cfg.ServerURL = *serverFlag
	}
	if *storeFlag != "" {
		cfg.StorePath = *storeFlag
	}
	if cfg.StorePath == "" {
		cfg.StorePath = sqlite.DefaultPath()
	}

	// stdout carries the protocol
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	local, err := sqlite.Open(cfg.StorePath)
	if err != nil {
		log.Fatalf("laserlab-mcp: %v", err)
	}
	defer local.Close()

	client := httpapi.NewClient(cfg.ServerURL, nil)
	backend := mcpadapter.Backend{
		Catalog: library.Load(context.Background(), client, logger),
		Rows:    client,
		Sink:    client,
		Layouts: layouts.NewStore(local, nil, logger),
	}

	mcpServer := server.NewMCPServer(
		"laserlab-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, backend)
	mcpadapter.RegisterWriteTools(mcpServer, backend)

	if err := server.ServeStdio(mcpServer); err != nil {
		log.Fatalf("laserlab-mcp: %v", err)
	}
}
