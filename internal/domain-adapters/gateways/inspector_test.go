package gateways

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

func writeTestArchive(t *testing.T, path string, entries map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create archive: %v", err)
	}
	defer func() { _ = f.Close() }()

	w := zip.NewWriter(f)
	for name, content := range entries {
		entry, err := w.Create(name)
		if err != nil {
			t.Fatalf("Failed to add entry: %v", err)
		}
		if _, err := entry.Write([]byte(content)); err != nil {
			t.Fatalf("Failed to write entry: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to finish archive: %v", err)
	}
}

func TestInspect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib-core-1.0.0.jar")
	writeTestArchive(t, path, map[string]string{
		"META-INF/MANIFEST.MF":     "Manifest-Version: 1.0\n",
		"com/ochairo/Core.class":   "class bytes",
		"com/ochairo/Helper.class": "class bytes",
	})

	inspection, err := NewArchiveInspector().Inspect(path)
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}

	if inspection.Entries != 3 {
		t.Errorf("Entries = %d, want 3", inspection.Entries)
	}
	if !inspection.HasManifest {
		t.Error("HasManifest = false, manifest is present")
	}
	if inspection.Empty() {
		t.Error("Empty() = true for populated archive")
	}
}

func TestInspectEmptyArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.zip")
	writeTestArchive(t, path, nil)

	inspection, err := NewArchiveInspector().Inspect(path)
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if !inspection.Empty() {
		t.Errorf("Empty() = false, Entries = %d", inspection.Entries)
	}
	if inspection.HasManifest {
		t.Error("HasManifest = true for empty archive")
	}
}

func TestInspectNotAnArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-a-zip.jar")
	if err := os.WriteFile(path, []byte("plain text"), 0o600); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	if _, err := NewArchiveInspector().Inspect(path); err == nil {
		t.Fatal("Inspect() expected error for non-zip content")
	}
}
