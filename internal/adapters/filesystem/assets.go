package filesystem

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"laserlab/internal/ports"
)

// AssetDir implements ports.ManifestSource by listing a directory of SVGs
type AssetDir struct {
	path string
}

var _ ports.ManifestSource = (*AssetDir)(nil)

// NewAssetDir creates a manifest source for dir
func NewAssetDir(dir string) *AssetDir {
	return &AssetDir{path: dir}
}

// Path returns the directory
func (d *AssetDir) Path() string {
	return d.path
}

// ListAssets returns the sorted *.svg file names in the directory
func (d *AssetDir) ListAssets(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read asset directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".svg") {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)
	return files, nil
}
