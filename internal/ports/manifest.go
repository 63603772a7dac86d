package ports

import "context"

// ManifestSource lists the component asset file names (e.g., "b-lens1.svg")
type ManifestSource interface {
	ListAssets(ctx context.Context) ([]string, error)
}
