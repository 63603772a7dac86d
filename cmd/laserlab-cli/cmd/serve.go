package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"laserlab/internal/adapters/filesystem"
	"laserlab/internal/adapters/httpapi"
	"laserlab/internal/application/library"
	"laserlab/internal/ports"
)

var (
	servePort     string
	serveDataFile string
	serveAssetDir string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the row server",
	Long: `Serve the inventory CSV and accept full-set saves.

Routes:
  GET  /data.csv                      the inventory file
  POST /api/save-data                 replace the inventory file
  GET  /api/library                   component manifest
  GET  /ComponentLibrary_files/svg/*  component assets (with --assets)

Examples:
  laserlab-cli serve
  laserlab-cli serve --port 8080 --data lab/inventory.csv --assets svg/`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("port") {
			cfg.Port = servePort
		}
		if cmd.Flags().Changed("data") {
			cfg.DataFile = serveDataFile
		}
		if cmd.Flags().Changed("assets") {
			cfg.AssetDir = serveAssetDir
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		var manifest ports.ManifestSource
		if cfg.AssetDir != "" {
			manifest = filesystem.NewAssetDir(cfg.AssetDir)
		}

		file := filesystem.NewRowFile(cfg.DataFile)
		srv := httpapi.NewServer(httpapi.ServerConfig{
			Rows:     file,
			Sink:     file,
			Catalog:  library.Load(ctx, manifest, logger),
			AssetDir: cfg.AssetDir,
			Logger:   logger,
		})

		httpServer := &http.Server{
			Addr:              cfg.Addr(),
			Handler:           srv.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("row server listening", "addr", httpServer.Addr, "data", file.Path(), "assets", cfg.AssetDir)
			errCh <- httpServer.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		logger.Info("shutting down row server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "listen port (default $PORT or 3001)")
	serveCmd.Flags().StringVar(&serveDataFile, "data", "", "inventory CSV file (default public/data.csv)")
	serveCmd.Flags().StringVar(&serveAssetDir, "assets", "", "directory of component SVG assets")
	rootCmd.AddCommand(serveCmd)
}
