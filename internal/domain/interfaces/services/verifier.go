// Package services defines interfaces for domain service contracts.
package services

import (
	"context"

	"github.com/ochairo/decant/internal/domain/entities"
)

// VerificationService defines the interface for checking deployed or
// staged publication trees
type VerificationService interface {
	// VerifyChecksums recomputes digests against their companions under
	// root and returns one result per checked file
	VerifyChecksums(ctx context.Context, root string) ([]entities.VerificationResult, error)

	// VerifySignatures checks every detached signature under root against
	// the configured keyring
	VerifySignatures(ctx context.Context, root string) ([]entities.VerificationResult, error)
}
