package gateways

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ochairo/decant/internal/domain/entities"
	"github.com/ochairo/decant/internal/domain/interfaces/gateways"
)

func init() {
	RegisterDeployScheme("file", func(target entities.RepositoryTarget) (gateways.DeployGateway, error) {
		return NewLocalDeployGateway(target)
	})
}

// localDeployGateway deploys into a directory on the local filesystem.
// The test repository registered by the configurator uses this gateway.
type localDeployGateway struct {
	root string
}

// NewLocalDeployGateway creates a deploy gateway for a file URL
//
//nolint:revive // unexported-return: Intentionally returns concrete type for testability
func NewLocalDeployGateway(target entities.RepositoryTarget) (*localDeployGateway, error) {
	if !strings.HasPrefix(target.URL, "file://") {
		return nil, fmt.Errorf("expected file URL, got %q", target.URL)
	}

	// The configurator renders file URLs as file://<slash-path>; no host
	// component is ever present
	root := filepath.FromSlash(strings.TrimPrefix(target.URL, "file://"))

	return &localDeployGateway{root: root}, nil
}

// Put writes one repository file under the root directory
func (g *localDeployGateway) Put(_ context.Context, path string, content io.Reader, _ int64) error {
	dest := g.localPath(path)

	if err := os.MkdirAll(filepath.Dir(dest), 0o750); err != nil {
		return fmt.Errorf("failed to create repository directory: %w", err)
	}

	//nolint:gosec // G304: destination is derived from the configured repository root
	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create repository file: %w", err)
	}

	if _, err := io.Copy(f, content); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write repository file: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close repository file: %w", err)
	}
	return nil
}

// Get opens a deployed file for verification
func (g *localDeployGateway) Get(_ context.Context, path string) (io.ReadCloser, error) {
	//nolint:gosec // G304: path is derived from the configured repository root
	f, err := os.Open(g.localPath(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, ErrRepositoryFileNotFound)
		}
		return nil, fmt.Errorf("failed to open repository file: %w", err)
	}
	return f, nil
}

// Exists reports whether a repository path is already present
func (g *localDeployGateway) Exists(_ context.Context, path string) (bool, error) {
	if _, err := os.Stat(g.localPath(path)); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat repository file: %w", err)
	}
	return true, nil
}

func (g *localDeployGateway) localPath(path string) string {
	return filepath.Join(g.root, filepath.FromSlash(path))
}
