package gpg

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp"
)

// Verifier checks detached signatures against a keyring built from the
// configured signing material
type Verifier struct {
	keyring openpgp.EntityList
}

// NewVerifier creates a verifier over a decoded armored key ring
func NewVerifier(ring string) (*Verifier, error) {
	if ring == "" {
		return nil, fmt.Errorf("no key ring configured")
	}

	keyring, err := openpgp.ReadArmoredKeyRing(strings.NewReader(ring))
	if err != nil {
		return nil, fmt.Errorf("failed to read key ring: %w", err)
	}
	if len(keyring) == 0 {
		return nil, fmt.Errorf("key ring contains no keys")
	}

	return &Verifier{keyring: keyring}, nil
}

// KeyringSize returns the number of keys in the keyring
func (v *Verifier) KeyringSize() int {
	return len(v.keyring)
}

// VerifySignature checks a detached signature file against the signed
// file. Armored and binary signatures are both accepted.
func (v *Verifier) VerifySignature(ctx context.Context, path, sigPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	//nolint:gosec // G304: sigPath addresses a staged repository file
	sigFile, err := os.Open(sigPath)
	if err != nil {
		return fmt.Errorf("failed to open signature file: %w", err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer sigFile.Close()

	//nolint:gosec // G304: path addresses a staged repository file
	dataFile, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open signed file: %w", err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer dataFile.Close()

	// Peek at the signature to pick the armored or binary check
	peek := make([]byte, 27)
	n, _ := io.ReadFull(sigFile, peek)
	armored := n == 27 && string(peek[:27]) == "-----BEGIN PGP SIGNATURE---"

	if _, err := sigFile.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to rewind signature file: %w", err)
	}

	if armored {
		_, err = openpgp.CheckArmoredDetachedSignature(v.keyring, dataFile, sigFile, nil)
	} else {
		_, err = openpgp.CheckDetachedSignature(v.keyring, dataFile, sigFile, nil)
	}
	if err != nil {
		return fmt.Errorf("signature verification failed for %s: %w", path, err)
	}

	return nil
}
