package library

import (
	"context"
	"errors"
	"log/slog"

	"laserlab/internal/domain"
	"laserlab/internal/ports"
)

// Load builds the catalog from src. A nil source, a listing failure or a
// listing without any recognizable asset falls back to the built-in manifest;
// the returned catalog is never nil.
func Load(ctx context.Context, src ports.ManifestSource, logger *slog.Logger) *domain.Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	if src == nil {
		return domain.BuiltinCatalog()
	}

	files, err := src.ListAssets(ctx)
	if err == nil && len(domain.ManifestEntries(files)) == 0 {
		err = errors.New("no component assets found")
	}
	if err != nil {
		logger.Warn("using built-in component manifest", "error", err)
		return domain.BuiltinCatalog()
	}

	return domain.NewCatalog(domain.ManifestEntries(files))
}
