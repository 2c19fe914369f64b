package gateways

import (
	"crypto/md5"  //nolint:gosec // G501: MD5 companions are part of the repository layout
	"crypto/sha1" //nolint:gosec // G505: SHA-1 companions are part of the repository layout
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"

	"github.com/ochairo/decant/internal/domain/entities"
)

// checksumWriter computes and writes the digest companions deployed next
// to every repository file. Pure Go, no external checksum binaries.
type checksumWriter struct{}

// NewChecksumWriter creates a new checksum writer
//
//nolint:revive // unexported-return: Intentionally returns concrete type for testability
func NewChecksumWriter() *checksumWriter {
	return &checksumWriter{}
}

// ComputeSet calculates all three digests of a file in a single pass
func (w *checksumWriter) ComputeSet(path string) (entities.ChecksumSet, error) {
	//nolint:gosec // G304: path addresses a staged repository file
	f, err := os.Open(path)
	if err != nil {
		return entities.ChecksumSet{}, fmt.Errorf("failed to open file: %w", err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer f.Close()

	//nolint:gosec // G401: MD5 and SHA-1 companions are part of the repository layout
	md5Hash, sha1Hash, sha256Hash := md5.New(), sha1.New(), sha256.New()
	if _, err := io.Copy(io.MultiWriter(md5Hash, sha1Hash, sha256Hash), f); err != nil {
		return entities.ChecksumSet{}, fmt.Errorf("failed to hash file: %w", err)
	}

	return entities.ChecksumSet{
		MD5:    hex.EncodeToString(md5Hash.Sum(nil)),
		SHA1:   hex.EncodeToString(sha1Hash.Sum(nil)),
		SHA256: hex.EncodeToString(sha256Hash.Sum(nil)),
	}, nil
}

// WriteCompanions computes the digests of a file and writes the .md5,
// .sha1, and .sha256 companions next to it
func (w *checksumWriter) WriteCompanions(path string) (entities.ChecksumSet, error) {
	set, err := w.ComputeSet(path)
	if err != nil {
		return entities.ChecksumSet{}, err
	}

	companions := map[string]string{
		path + ".md5":    set.MD5,
		path + ".sha1":   set.SHA1,
		path + ".sha256": set.SHA256,
	}
	for companion, digest := range companions {
		if err := os.WriteFile(companion, []byte(digest), 0o600); err != nil {
			return entities.ChecksumSet{}, fmt.Errorf("failed to write checksum companion: %w", err)
		}
	}

	return set, nil
}

// VerifyCompanion recomputes the digest named by the companion's
// extension and compares it to the companion's content
func (w *checksumWriter) VerifyCompanion(path, companionPath string) error {
	//nolint:gosec // G304: companionPath addresses a staged repository file
	data, err := os.ReadFile(companionPath)
	if err != nil {
		return fmt.Errorf("failed to read checksum companion: %w", err)
	}
	// Companion files may carry the "digest  filename" format produced by
	// the coreutils tools; only the digest matters
	expected := strings.Fields(strings.TrimSpace(string(data)))
	if len(expected) == 0 {
		return fmt.Errorf("checksum companion %s is empty", companionPath)
	}

	var h hash.Hash
	switch {
	case strings.HasSuffix(companionPath, ".md5"):
		h = md5.New() //nolint:gosec // G401: verifying a repository MD5 companion
	case strings.HasSuffix(companionPath, ".sha1"):
		h = sha1.New() //nolint:gosec // G401: verifying a repository SHA-1 companion
	case strings.HasSuffix(companionPath, ".sha256"):
		h = sha256.New()
	default:
		return fmt.Errorf("unrecognized checksum companion: %s", companionPath)
	}

	//nolint:gosec // G304: path addresses a staged repository file
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer f.Close()

	if _, err := io.Copy(h, f); err != nil {
		return fmt.Errorf("failed to hash file: %w", err)
	}

	actual := hex.EncodeToString(h.Sum(nil))
	if actual != expected[0] {
		return fmt.Errorf("checksum mismatch for %s: expected %s, got %s", path, expected[0], actual)
	}
	return nil
}
