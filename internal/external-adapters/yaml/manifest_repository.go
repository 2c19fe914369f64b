package yaml

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ochairo/decant/internal/domain/entities"
)

// manifestFileNames are the accepted manifest file names, in lookup order
var manifestFileNames = []string{"decant.yml", "decant.yaml"}

// ManifestRepository implements repositories.ManifestRepository over a
// decant.yml file in the project tree root
type ManifestRepository struct {
	parser *ManifestParser
}

// NewManifestRepository creates a new YAML-based manifest repository
func NewManifestRepository() *ManifestRepository {
	return &ManifestRepository{parser: NewManifestParser()}
}

// GetManifest loads the manifest from dir and resolves every project
// directory to an absolute path
func (r *ManifestRepository) GetManifest(_ context.Context, dir string) (*entities.Manifest, error) {
	rootDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project directory: %w", err)
	}

	var manifestPath string
	for _, name := range manifestFileNames {
		candidate := filepath.Join(rootDir, name)
		if _, err := os.Stat(candidate); err == nil {
			manifestPath = candidate
			break
		}
	}
	if manifestPath == "" {
		return nil, fmt.Errorf("no manifest found in %s (expected %s)", rootDir, manifestFileNames[0])
	}

	manifest, err := r.parser.ParseFile(manifestPath)
	if err != nil {
		return nil, err
	}

	manifest.Root.Name = filepath.Base(rootDir)
	manifest.Root.Dir = rootDir
	manifest.Root.RootDir = rootDir
	for _, sub := range manifest.Root.Subprojects {
		if !filepath.IsAbs(sub.Dir) {
			sub.Dir = filepath.Join(rootDir, filepath.FromSlash(sub.Dir))
		}
		sub.RootDir = rootDir
	}

	return manifest, nil
}
