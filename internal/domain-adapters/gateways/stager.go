package gateways

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ochairo/decant/internal/domain/entities"
	"github.com/ochairo/decant/internal/domain/services"
)

// Stager lays a publication out in the Maven repository directory
// structure under a local staging directory
type Stager struct {
	layout *services.RepositoryLayout
	pom    *pomWriter
}

// NewStager creates a new stager
func NewStager() *Stager {
	return &Stager{
		layout: services.NewRepositoryLayout(),
		pom:    NewPomWriter(),
	}
}

// StagePublication copies a publication's artifacts into the staging tree
// and renders its POM. Returned paths are repository-relative with
// forward slashes, POM first. Checksums, signatures, and repository
// metadata are added by later pipeline steps.
func (s *Stager) StagePublication(ctx context.Context, stageDir string, project *entities.Project, pub *entities.Publication) ([]string, error) {
	coords := project.Coordinates(pub)

	versionDir := filepath.Join(stageDir, filepath.FromSlash(s.layout.VersionDir(coords)))
	if err := os.MkdirAll(versionDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}

	pomPath := s.layout.PomPath(coords)
	if err := s.pom.WriteFile(filepath.Join(stageDir, filepath.FromSlash(pomPath)), project, pub); err != nil {
		return nil, fmt.Errorf("failed to stage POM for %s: %w", coords, err)
	}
	files := []string{pomPath}

	for _, artifact := range pub.Artifacts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		source := artifact.Path
		if !filepath.IsAbs(source) {
			source = filepath.Join(project.Dir, source)
		}

		repoPath := s.layout.ArtifactPath(coords, artifact.Classifier, artifact.Extension)
		if err := copyFile(source, filepath.Join(stageDir, filepath.FromSlash(repoPath))); err != nil {
			return nil, fmt.Errorf("failed to stage %s: %w", repoPath, err)
		}
		files = append(files, repoPath)
	}

	return files, nil
}

// MetadataPath returns the local staging path of the artifact-level
// repository metadata for a staged publication
func (s *Stager) MetadataPath(stageDir string, coords entities.Coordinates) string {
	return filepath.Join(stageDir, filepath.FromSlash(s.layout.MetadataPath(coords.Group, coords.Artifact)))
}

// copyFile copies one regular file, creating parent directories
func copyFile(source, dest string) error {
	//nolint:gosec // G304: source comes from the publish manifest
	in, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0o750); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	//nolint:gosec // G304: destination is inside the staging tree
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create destination: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to copy content: %w", err)
	}
	return out.Close()
}
