package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"laserlab/internal/adapters/httpapi"
	"laserlab/internal/adapters/sqlite"
	"laserlab/internal/adapters/tui"
	"laserlab/internal/adapters/tui/views"
	"laserlab/internal/application/autosave"
	"laserlab/internal/application/diagram"
	"laserlab/internal/application/layouts"
	"laserlab/internal/application/library"
	"laserlab/internal/application/rows"
	"laserlab/internal/application/selection"
	"laserlab/internal/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	envFile := flag.String("env-file", ".env", "file with environment defaults")
	serverFlag := flag.String("server", "", "row server base URL")
	storeFlag := flag.String("store", "", "local store database")
	flag.Parse()

	if err := config.LoadEnvFile(*envFile); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
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

	// Initialize adapters
	local, err := sqlite.Open(cfg.StorePath)
	if err != nil {
		return err
	}
	defer local.Close()

	logFile, err := os.OpenFile(filepath.Join(filepath.Dir(local.Path()), "laserlab.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()
	logger := slog.New(slog.NewTextHandler(logFile, nil))

	client := httpapi.NewClient(cfg.ServerURL, nil)

	// Rows and the autosave pipeline
	feed := views.NewStatusFeed()
	rowStore := rows.NewStore(client, logger)
	pipeline := autosave.NewPipeline(rowStore, client, local,
		autosave.WithDebounce(cfg.Debounce),
		autosave.WithStatusWindow(cfg.StatusWindow),
		autosave.WithStatusFunc(feed.Publish),
		autosave.WithLogger(logger),
	)
	rowStore.SetObserver(pipeline)

	// Diagram
	graph := diagram.NewGraph()
	canvas := views.NewCanvasModel(views.CanvasDeps{
		Catalog:   library.Load(context.Background(), client, logger),
		Graph:     graph,
		Selection: selection.NewController(graph),
		Layouts:   layouts.NewStore(local, nil, logger),
	})

	// Create and run TUI app
	app := tui.NewApp(views.NewGridModel(rowStore, feed), canvas, pipeline)

	p := tea.NewProgram(app, tea.WithAltScreen())

	_, err = p.Run()
	pipeline.Flush()
	pipeline.Wait()
	pipeline.Close()
	return err
}
