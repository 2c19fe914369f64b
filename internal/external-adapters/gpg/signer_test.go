package gpg

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"

	"github.com/ochairo/decant/internal/domain/entities"
)

// generateRing builds a fresh armored private key ring. With a passphrase
// the private keys are locked the way an exported gpg ring would be.
func generateRing(t *testing.T, passphrase string) string {
	t.Helper()

	entity, err := openpgp.NewEntity("Test Publisher", "", "publisher@example.com", nil)
	if err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}

	var buf bytes.Buffer
	w, err := armor.Encode(&buf, openpgp.PrivateKeyType, nil)
	if err != nil {
		t.Fatalf("Failed to start armor: %v", err)
	}

	if passphrase == "" {
		err = entity.SerializePrivate(w, nil)
	} else {
		if err := entity.PrivateKey.Encrypt([]byte(passphrase)); err != nil {
			t.Fatalf("Failed to lock private key: %v", err)
		}
		for _, subkey := range entity.Subkeys {
			if err := subkey.PrivateKey.Encrypt([]byte(passphrase)); err != nil {
				t.Fatalf("Failed to lock subkey: %v", err)
			}
		}
		err = entity.SerializePrivateWithoutSigning(w, nil)
	}
	if err != nil {
		t.Fatalf("Failed to serialize key: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to finish armor: %v", err)
	}

	return buf.String()
}

func signableFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lib-core-1.0.0.jar")
	if err := os.WriteFile(path, []byte("jar bytes"), 0o600); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
	return path
}

func TestSignAndVerify(t *testing.T) {
	ring := generateRing(t, "")
	path := signableFile(t)

	signer, err := NewSigner(entities.SigningMaterial{Ring: ring})
	if err != nil {
		t.Fatalf("NewSigner() error = %v", err)
	}

	sigPath, err := signer.Sign(context.Background(), path)
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}
	if sigPath != path+".asc" {
		t.Errorf("Signature path = %s, want %s", sigPath, path+".asc")
	}

	sig, err := os.ReadFile(sigPath)
	if err != nil {
		t.Fatalf("Failed to read signature: %v", err)
	}
	if !strings.HasPrefix(string(sig), "-----BEGIN PGP SIGNATURE-----") {
		t.Errorf("Signature is not armored:\n%s", sig)
	}

	verifier, err := NewVerifier(ring)
	if err != nil {
		t.Fatalf("NewVerifier() error = %v", err)
	}
	if err := verifier.VerifySignature(context.Background(), path, sigPath); err != nil {
		t.Errorf("VerifySignature() error = %v", err)
	}

	// Tampering must break the signature
	if err := os.WriteFile(path, []byte("tampered"), 0o600); err != nil {
		t.Fatalf("Failed to tamper file: %v", err)
	}
	if err := verifier.VerifySignature(context.Background(), path, sigPath); err == nil {
		t.Error("VerifySignature() passed for tampered content")
	}
}

func TestSignerPassphrase(t *testing.T) {
	ring := generateRing(t, "correct horse")

	t.Run("right passphrase", func(t *testing.T) {
		signer, err := NewSigner(entities.SigningMaterial{Ring: ring, Passphrase: "correct horse"})
		if err != nil {
			t.Fatalf("NewSigner() error = %v", err)
		}
		if _, err := signer.Sign(context.Background(), signableFile(t)); err != nil {
			t.Errorf("Sign() error = %v", err)
		}
	})

	t.Run("wrong passphrase", func(t *testing.T) {
		if _, err := NewSigner(entities.SigningMaterial{Ring: ring, Passphrase: "nope"}); err == nil {
			t.Fatal("NewSigner() expected error for wrong passphrase")
		}
	})
}

func TestSignerRequiresMaterial(t *testing.T) {
	if _, err := NewSigner(entities.SigningMaterial{}); err == nil {
		t.Fatal("NewSigner() expected error for empty material")
	}
}

func TestSignerRejectsGarbageRing(t *testing.T) {
	if _, err := NewSigner(entities.SigningMaterial{Ring: "not a key ring"}); err == nil {
		t.Fatal("NewSigner() expected error for unparsable ring")
	}
}

// A ring flattened onto one line with the delimiter substitution must
// decode back into usable key material.
func TestRingDelimiterRoundTrip(t *testing.T) {
	ring := generateRing(t, "")
	flattened := entities.EncodeKeyRing(ring)

	if strings.Contains(flattened, "\n") {
		t.Fatal("Encoded ring still contains newlines")
	}

	signer, err := NewSigner(entities.SigningMaterial{Ring: entities.DecodeKeyRing(flattened)})
	if err != nil {
		t.Fatalf("NewSigner() error after round trip = %v", err)
	}
	if _, err := signer.Sign(context.Background(), signableFile(t)); err != nil {
		t.Errorf("Sign() error = %v", err)
	}
}

func TestVerifierRejectsForeignSignature(t *testing.T) {
	path := signableFile(t)

	signer, err := NewSigner(entities.SigningMaterial{Ring: generateRing(t, "")})
	if err != nil {
		t.Fatalf("NewSigner() error = %v", err)
	}
	sigPath, err := signer.Sign(context.Background(), path)
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	verifier, err := NewVerifier(generateRing(t, ""))
	if err != nil {
		t.Fatalf("NewVerifier() error = %v", err)
	}
	if err := verifier.VerifySignature(context.Background(), path, sigPath); err == nil {
		t.Error("VerifySignature() passed with a foreign keyring")
	}
}

func TestVerifierKeyringSize(t *testing.T) {
	verifier, err := NewVerifier(generateRing(t, ""))
	if err != nil {
		t.Fatalf("NewVerifier() error = %v", err)
	}
	if verifier.KeyringSize() != 1 {
		t.Errorf("KeyringSize() = %d, want 1", verifier.KeyringSize())
	}
}
