package gateways

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ochairo/decant/internal/domain/entities"
)

// fakeSignatureVerifier accepts every signature except those listed in
// bad, keyed by the signed file's base name
type fakeSignatureVerifier struct {
	bad map[string]bool
}

func (f *fakeSignatureVerifier) VerifySignature(_ context.Context, path, _ string) error {
	if f.bad[filepath.Base(path)] {
		return errors.New("bad signature")
	}
	return nil
}

// verifiableTree stages a small repository tree with real checksums and
// placeholder signatures
func verifiableTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	versionDir := filepath.Join(root, "com", "ochairo", "lib-core", "1.0.0")
	if err := os.MkdirAll(versionDir, 0o750); err != nil {
		t.Fatalf("Failed to create tree: %v", err)
	}

	jar := filepath.Join(versionDir, "lib-core-1.0.0.jar")
	if err := os.WriteFile(jar, []byte("jar bytes"), 0o600); err != nil {
		t.Fatalf("Failed to create artifact: %v", err)
	}
	if _, err := NewChecksumWriter().WriteCompanions(jar); err != nil {
		t.Fatalf("Failed to write checksums: %v", err)
	}
	if err := os.WriteFile(jar+".asc", []byte("signature"), 0o600); err != nil {
		t.Fatalf("Failed to write signature: %v", err)
	}

	return root
}

func TestVerifyChecksums(t *testing.T) {
	root := verifiableTree(t)
	verifier := NewCompositeVerifier(nil)

	results, err := verifier.VerifyChecksums(context.Background(), root)
	if err != nil {
		t.Fatalf("VerifyChecksums() error = %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("Result count = %d, want 3 (md5, sha1, sha256)", len(results))
	}
	for _, result := range results {
		if result.Check != entities.CheckChecksum {
			t.Errorf("Check = %s, want checksum", result.Check)
		}
		if !result.OK {
			t.Errorf("Checksum of %s failed: %v", result.Path, result.Err)
		}
	}
}

func TestVerifyChecksumsTampered(t *testing.T) {
	root := verifiableTree(t)
	jar := filepath.Join(root, "com", "ochairo", "lib-core", "1.0.0", "lib-core-1.0.0.jar")
	if err := os.WriteFile(jar, []byte("tampered"), 0o600); err != nil {
		t.Fatalf("Failed to tamper artifact: %v", err)
	}

	verifier := NewCompositeVerifier(nil)
	results, err := verifier.VerifyChecksums(context.Background(), root)
	if err != nil {
		t.Fatalf("VerifyChecksums() error = %v", err)
	}

	summary := verifier.Summarize(results)
	if summary.Failed != 3 {
		t.Errorf("Failed = %d, want 3", summary.Failed)
	}
}

func TestVerifySignatures(t *testing.T) {
	root := verifiableTree(t)

	t.Run("verifier accepts", func(t *testing.T) {
		verifier := NewCompositeVerifier(&fakeSignatureVerifier{})
		results, err := verifier.VerifySignatures(context.Background(), root)
		if err != nil {
			t.Fatalf("VerifySignatures() error = %v", err)
		}
		if len(results) != 1 {
			t.Fatalf("Result count = %d, want 1", len(results))
		}
		if !results[0].OK {
			t.Errorf("Signature check failed: %v", results[0].Err)
		}
		if !strings.HasSuffix(results[0].Path, "lib-core-1.0.0.jar") {
			t.Errorf("Subject = %s, want the signed artifact", results[0].Path)
		}
	})

	t.Run("verifier rejects", func(t *testing.T) {
		verifier := NewCompositeVerifier(&fakeSignatureVerifier{
			bad: map[string]bool{"lib-core-1.0.0.jar": true},
		})
		results, err := verifier.VerifySignatures(context.Background(), root)
		if err != nil {
			t.Fatalf("VerifySignatures() error = %v", err)
		}
		if results[0].OK {
			t.Error("Signature check passed for rejected signature")
		}
	})
}

// Without a keyring, signature checks are recorded but count as skipped
func TestVerifySignaturesNoKeyring(t *testing.T) {
	root := verifiableTree(t)
	verifier := NewCompositeVerifier(nil)

	results, err := verifier.VerifySignatures(context.Background(), root)
	if err != nil {
		t.Fatalf("VerifySignatures() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Result count = %d, want 1", len(results))
	}

	summary := verifier.Summarize(results)
	if summary.Skipped != 1 || summary.Failed != 0 {
		t.Errorf("Summary = %+v, want 1 skipped, 0 failed", summary)
	}
	if !summary.Passed() {
		t.Error("Skipped signatures must not fail the pass")
	}
}
