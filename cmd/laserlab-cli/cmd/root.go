package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"laserlab/internal/adapters/httpapi"
	"laserlab/internal/adapters/sqlite"
	"laserlab/internal/application/layouts"
	"laserlab/internal/application/library"
	"laserlab/internal/config"
	"laserlab/internal/domain"
)

var (
	envFile   string
	serverURL string
	storePath string

	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "laserlab-cli",
	Short: "CLI for laser bench inventories and layout diagrams",
	Long: `laserlab-cli serves and edits the component inventory of an optical
bench and manages the layout diagrams saved from the canvas.

It provides commands to run the row server, search the component
library, list and edit inventory rows, and list, show, delete and
export saved layouts.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		if err := config.LoadEnvFile(envFile); err != nil {
			return err
		}
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("server") {
			loaded.ServerURL = serverURL
		}
		if cmd.Flags().Changed("store") {
			loaded.StorePath = storePath
		}
		cfg = loaded
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "file with environment defaults")
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", config.DefaultServerURL, "row server base URL")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "local store database (default $XDG_DATA_HOME/laserlab/local.db)")
}

// rowClient talks to the row server
func rowClient() *httpapi.Client {
	return httpapi.NewClient(cfg.ServerURL, nil)
}

// openLayouts opens the local store and hydrates the saved layouts.
// The caller closes the returned store.
func openLayouts() (*layouts.Store, *sqlite.Store, error) {
	path := cfg.StorePath
	if path == "" {
		path = sqlite.DefaultPath()
	}
	local, err := sqlite.Open(path)
	if err != nil {
		return nil, nil, err
	}
	store := layouts.NewStore(local, nil, logger)
	store.LoadAll()
	return store, local, nil
}

// catalog builds the component library from the server manifest, falling
// back to the built-in one
func catalog(ctx context.Context) *domain.Catalog {
	return library.Load(ctx, rowClient(), logger)
}
