// Package repositories defines interfaces for data access layers.
package repositories

import (
	"context"

	"github.com/ochairo/decant/internal/domain/entities"
)

// ManifestRepository defines the interface for loading publish manifests
type ManifestRepository interface {
	// GetManifest loads and validates the manifest for a project tree
	GetManifest(ctx context.Context, dir string) (*entities.Manifest, error)
}
