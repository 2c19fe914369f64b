// Package gpg provides PGP signing and verification on in-memory key
// material using ProtonMail's go-crypto.
package gpg

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp"

	"github.com/ochairo/decant/internal/domain/entities"
	"github.com/ochairo/decant/internal/domain/services"
)

// Signer produces detached armored signatures from the configured signing
// material. Construction fails when the material is absent or unreadable;
// that is where a required-but-misconfigured signing setup surfaces.
type Signer struct {
	keyring openpgp.EntityList
	entity  *openpgp.Entity
}

// NewSigner creates a signer from in-memory key material. The ring must
// already be decoded (newline-delimited armored text).
func NewSigner(material entities.SigningMaterial) (*Signer, error) {
	if !material.Present() {
		return nil, fmt.Errorf("no signing key ring configured")
	}

	keyring, err := openpgp.ReadArmoredKeyRing(strings.NewReader(material.Ring))
	if err != nil {
		return nil, fmt.Errorf("failed to read signing key ring: %w", err)
	}
	if len(keyring) == 0 {
		return nil, fmt.Errorf("signing key ring contains no keys")
	}

	entity := selectEntity(keyring, material.KeyID)
	if entity.PrivateKey == nil {
		return nil, fmt.Errorf("signing key %s carries no private key", material.KeyID)
	}

	if err := decryptEntity(entity, material.Passphrase); err != nil {
		return nil, err
	}

	return &Signer{keyring: keyring, entity: entity}, nil
}

// selectEntity picks the entity whose key ID matches the configured one,
// falling back to the first entity in the ring
func selectEntity(keyring openpgp.EntityList, keyID string) *openpgp.Entity {
	want := strings.ToUpper(keyID)
	for _, entity := range keyring {
		id := fmt.Sprintf("%016X", entity.PrimaryKey.KeyId)
		if want != "" && strings.HasSuffix(id, want) {
			return entity
		}
	}
	return keyring[0]
}

// decryptEntity unlocks the private key and its signing subkeys
func decryptEntity(entity *openpgp.Entity, passphrase string) error {
	if entity.PrivateKey.Encrypted {
		if err := entity.PrivateKey.Decrypt([]byte(passphrase)); err != nil {
			return fmt.Errorf("failed to decrypt signing key: %w", err)
		}
	}
	for _, subkey := range entity.Subkeys {
		if subkey.PrivateKey != nil && subkey.PrivateKey.Encrypted {
			if err := subkey.PrivateKey.Decrypt([]byte(passphrase)); err != nil {
				return fmt.Errorf("failed to decrypt signing subkey: %w", err)
			}
		}
	}
	return nil
}

// Sign writes a detached armored signature next to path and returns the
// signature path
func (s *Signer) Sign(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	//nolint:gosec // G304: path addresses a staged repository file
	in, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file to sign: %w", err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer in.Close()

	sigPath := path + "." + services.SignatureExtension
	//nolint:gosec // G304: signature lands next to the staged file
	out, err := os.Create(sigPath)
	if err != nil {
		return "", fmt.Errorf("failed to create signature file: %w", err)
	}

	if err := openpgp.ArmoredDetachSign(out, s.entity, in, nil); err != nil {
		_ = out.Close()
		_ = os.Remove(sigPath)
		return "", fmt.Errorf("failed to sign %s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("failed to close signature file: %w", err)
	}

	return sigPath, nil
}

// KeyID returns the full ID of the selected signing key
func (s *Signer) KeyID() string {
	return fmt.Sprintf("%016X", s.entity.PrimaryKey.KeyId)
}
