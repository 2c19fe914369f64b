package gateways

import (
	"os"
	"path/filepath"
	"testing"
)

// Digests of the literal content "abc"
const (
	abcMD5    = "900150983cd24fb0d6963f7d28e17f72"
	abcSHA1   = "a9993e364706816aba3e25717850c26c9cd0d89d"
	abcSHA256 = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
)

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	return path
}

func TestComputeSet(t *testing.T) {
	path := writeTestFile(t, t.TempDir(), "artifact.jar", "abc")

	set, err := NewChecksumWriter().ComputeSet(path)
	if err != nil {
		t.Fatalf("ComputeSet() error = %v", err)
	}

	if set.MD5 != abcMD5 {
		t.Errorf("MD5 = %s, want %s", set.MD5, abcMD5)
	}
	if set.SHA1 != abcSHA1 {
		t.Errorf("SHA1 = %s, want %s", set.SHA1, abcSHA1)
	}
	if set.SHA256 != abcSHA256 {
		t.Errorf("SHA256 = %s, want %s", set.SHA256, abcSHA256)
	}
	if !set.Complete() {
		t.Error("ComputeSet() returned incomplete set")
	}
}

func TestComputeSetMissingFile(t *testing.T) {
	_, err := NewChecksumWriter().ComputeSet(filepath.Join(t.TempDir(), "absent.jar"))
	if err == nil {
		t.Fatal("ComputeSet() expected error for missing file")
	}
}

func TestWriteCompanions(t *testing.T) {
	path := writeTestFile(t, t.TempDir(), "artifact.jar", "abc")

	writer := NewChecksumWriter()
	if _, err := writer.WriteCompanions(path); err != nil {
		t.Fatalf("WriteCompanions() error = %v", err)
	}

	want := map[string]string{
		".md5":    abcMD5,
		".sha1":   abcSHA1,
		".sha256": abcSHA256,
	}
	for ext, digest := range want {
		content, err := os.ReadFile(path + ext)
		if err != nil {
			t.Fatalf("Companion %s not written: %v", ext, err)
		}
		if string(content) != digest {
			t.Errorf("Companion %s = %q, want %q", ext, content, digest)
		}
	}
}

func TestVerifyCompanion(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "artifact.jar", "abc")

	writer := NewChecksumWriter()
	if _, err := writer.WriteCompanions(path); err != nil {
		t.Fatalf("WriteCompanions() error = %v", err)
	}

	t.Run("all companions match", func(t *testing.T) {
		for _, ext := range []string{".md5", ".sha1", ".sha256"} {
			if err := writer.VerifyCompanion(path, path+ext); err != nil {
				t.Errorf("VerifyCompanion(%s) error = %v", ext, err)
			}
		}
	})

	t.Run("tampered content fails", func(t *testing.T) {
		if err := os.WriteFile(path, []byte("abd"), 0o600); err != nil {
			t.Fatalf("Failed to tamper file: %v", err)
		}
		if err := writer.VerifyCompanion(path, path+".sha256"); err == nil {
			t.Error("VerifyCompanion() expected mismatch error")
		}
	})

	t.Run("unknown companion extension fails", func(t *testing.T) {
		bogus := writeTestFile(t, dir, "artifact.jar.crc32", "0")
		if err := writer.VerifyCompanion(path, bogus); err == nil {
			t.Error("VerifyCompanion() expected error for unknown digest kind")
		}
	})
}

// Some tools write "digest  filename" instead of the bare digest; both
// forms must verify.
func TestVerifyCompanionFilenameSuffix(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "artifact.jar", "abc")
	companion := writeTestFile(t, dir, "artifact.jar.sha256", abcSHA256+"  artifact.jar\n")

	if err := NewChecksumWriter().VerifyCompanion(path, companion); err != nil {
		t.Errorf("VerifyCompanion() error = %v", err)
	}
}
