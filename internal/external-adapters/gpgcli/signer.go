// Package gpgcli signs through the gpg command, for agent and hardware
// key setups the in-memory signer cannot serve.
package gpgcli

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/ochairo/decant/internal/domain/services"
)

// Signer shells out to gpg for detached armored signatures
type Signer struct {
	keyID string
}

// NewSigner creates a gpg command signer. keyID selects the signing key;
// empty lets gpg pick its default.
func NewSigner(keyID string) *Signer {
	return &Signer{keyID: keyID}
}

// Sign writes a detached armored signature next to path and returns the
// signature path
func (s *Signer) Sign(ctx context.Context, path string) (string, error) {
	if _, err := exec.LookPath("gpg"); err != nil {
		return "", fmt.Errorf("gpg not installed: %w", err)
	}

	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("file to sign not found: %w", err)
	}

	sigPath := path + "." + services.SignatureExtension

	args := []string{"--batch", "--yes", "--armor", "--detach-sign", "--output", sigPath}
	if s.keyID != "" {
		args = append(args, "--local-user", s.keyID)
	}
	args = append(args, path)

	//nolint:gosec // G204: arguments are built from the signing configuration
	cmd := exec.CommandContext(ctx, "gpg", args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("gpg signing failed: %w\nOutput: %s", err, string(output))
	}

	return sigPath, nil
}

// IsGPGInstalled checks whether the gpg command is available in PATH
func IsGPGInstalled() bool {
	_, err := exec.LookPath("gpg")
	return err == nil
}
