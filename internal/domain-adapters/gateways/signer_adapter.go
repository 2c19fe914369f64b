package gateways

import (
	"context"
	"fmt"

	"github.com/ochairo/decant/internal/domain/entities"
	"github.com/ochairo/decant/internal/domain/interfaces"
	"github.com/ochairo/decant/internal/domain/interfaces/gateways"
	"github.com/ochairo/decant/internal/external-adapters/gpg"
	"github.com/ochairo/decant/internal/external-adapters/gpgcli"
)

// SignerAdapter puts the configured signer backend behind the domain
// Signer interface: in-memory keys by default, the gpg command when the
// configuration opts into agent signing
type SignerAdapter struct {
	signer gateways.Signer
	logger interfaces.Logger
}

// NewSignerAdapter builds the signer for a project's signing
// configuration. This is where absent or broken key material finally
// surfaces when signing is required.
func NewSignerAdapter(cfg *entities.SigningConfig, logger interfaces.Logger) (*SignerAdapter, error) {
	if cfg == nil {
		return nil, fmt.Errorf("project has no signing configuration")
	}
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}

	if cfg.UseAgent {
		if !gpgcli.IsGPGInstalled() {
			return nil, fmt.Errorf("agent signing requested but gpg is not installed")
		}
		return &SignerAdapter{signer: gpgcli.NewSigner(cfg.Material.KeyID), logger: logger}, nil
	}

	signer, err := gpg.NewSigner(cfg.Material)
	if err != nil {
		return nil, fmt.Errorf("failed to configure signing: %w", err)
	}
	return &SignerAdapter{signer: signer, logger: logger}, nil
}

// Sign produces a detached armored signature for one file
func (a *SignerAdapter) Sign(ctx context.Context, path string) (string, error) {
	sigPath, err := a.signer.Sign(ctx, path)
	if err != nil {
		return "", err
	}
	a.logger.Debug("signed file",
		interfaces.F("file", path),
		interfaces.F("signature", sigPath),
	)
	return sigPath, nil
}

// SignAll signs every given file and returns the signature paths
func (a *SignerAdapter) SignAll(ctx context.Context, paths []string) ([]string, error) {
	signatures := make([]string, 0, len(paths))
	for _, path := range paths {
		sigPath, err := a.Sign(ctx, path)
		if err != nil {
			return nil, err
		}
		signatures = append(signatures, sigPath)
	}
	return signatures, nil
}
