package gateways

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/ochairo/decant/internal/domain/entities"
	"github.com/ochairo/decant/internal/domain/interfaces/gateways"
)

// compositeVerifier implements the VerificationService interface by
// fanning out over the checksum writer and the signature verifier
type compositeVerifier struct {
	finder    *ArtifactFinder
	checksums *checksumWriter
	signature gateways.SignatureVerifier
}

// NewCompositeVerifier creates a verifier over a repository tree. The
// signature verifier may be nil when no keyring is configured; signature
// checks are then reported as skipped.
//
//nolint:revive // unexported-return: Intentionally returns concrete type for testability
func NewCompositeVerifier(signature gateways.SignatureVerifier) *compositeVerifier {
	return &compositeVerifier{
		finder:    NewArtifactFinder(),
		checksums: NewChecksumWriter(),
		signature: signature,
	}
}

// VerifyChecksums recomputes digests against every checksum companion
// under root
func (v *compositeVerifier) VerifyChecksums(ctx context.Context, root string) ([]entities.VerificationResult, error) {
	files, err := v.finder.ListFiles(root)
	if err != nil {
		return nil, err
	}

	var results []entities.VerificationResult
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !isChecksumCompanion(file) {
			continue
		}

		subject := strings.TrimSuffix(file, filepath.Ext(file))
		err := v.checksums.VerifyCompanion(
			filepath.Join(root, filepath.FromSlash(subject)),
			filepath.Join(root, filepath.FromSlash(file)),
		)
		results = append(results, entities.VerificationResult{
			Path:  subject,
			Check: entities.CheckChecksum,
			OK:    err == nil,
			Err:   err,
		})
	}

	return results, nil
}

// VerifySignatures checks every detached signature under root against
// the configured keyring
func (v *compositeVerifier) VerifySignatures(ctx context.Context, root string) ([]entities.VerificationResult, error) {
	files, err := v.finder.ListFiles(root)
	if err != nil {
		return nil, err
	}

	var results []entities.VerificationResult
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !strings.HasSuffix(file, ".asc") {
			continue
		}

		subject := strings.TrimSuffix(file, ".asc")
		result := entities.VerificationResult{
			Path:  subject,
			Check: entities.CheckSignature,
		}
		if v.signature == nil {
			results = append(results, result)
			continue
		}

		err := v.signature.VerifySignature(ctx,
			filepath.Join(root, filepath.FromSlash(subject)),
			filepath.Join(root, filepath.FromSlash(file)),
		)
		result.OK = err == nil
		result.Err = err
		results = append(results, result)
	}

	return results, nil
}

// Summarize aggregates verification results. Signature results without a
// configured verifier count as skipped.
func (v *compositeVerifier) Summarize(results []entities.VerificationResult) entities.VerificationSummary {
	var summary entities.VerificationSummary
	for _, result := range results {
		switch {
		case result.Check == entities.CheckSignature && v.signature == nil:
			summary.Skipped++
		case result.OK:
			summary.Verified++
		default:
			summary.Failed++
		}
	}
	return summary
}

func isChecksumCompanion(path string) bool {
	return strings.HasSuffix(path, ".md5") ||
		strings.HasSuffix(path, ".sha1") ||
		strings.HasSuffix(path, ".sha256")
}
