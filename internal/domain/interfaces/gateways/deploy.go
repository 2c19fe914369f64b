// Package gateways defines interfaces for external service adapters.
package gateways

import (
	"context"
	"io"
)

// DeployGateway uploads repository files to one repository target.
// Paths are repository-relative with forward slashes.
type DeployGateway interface {
	// Put uploads one file to the repository path
	Put(ctx context.Context, path string, content io.Reader, size int64) error

	// Get retrieves a deployed file, for post-publish verification
	Get(ctx context.Context, path string) (io.ReadCloser, error)

	// Exists reports whether a repository path is already present
	Exists(ctx context.Context, path string) (bool, error)
}
