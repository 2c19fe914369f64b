package gateways

import (
	"archive/zip"
	"fmt"

	"github.com/ochairo/decant/internal/domain/entities"
)

// ArchiveInspector takes a shallow look inside zip-format artifacts for
// deep validation. JAR files are zip archives with a manifest entry.
type ArchiveInspector struct{}

// NewArchiveInspector creates a new archive inspector
func NewArchiveInspector() *ArchiveInspector {
	return &ArchiveInspector{}
}

// Inspect opens the archive and reports its entry count and whether a
// JAR manifest is present. A file that cannot be opened as a zip archive
// is an error; the caller decides whether that fails validation.
func (i *ArchiveInspector) Inspect(path string) (*entities.ArchiveInspection, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", path, err)
	}
	//nolint:errcheck // Defer close on read-only archive
	defer reader.Close()

	inspection := &entities.ArchiveInspection{Path: path}
	for _, entry := range reader.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		inspection.Entries++
		if entry.Name == "META-INF/MANIFEST.MF" {
			inspection.HasManifest = true
		}
	}

	return inspection, nil
}
