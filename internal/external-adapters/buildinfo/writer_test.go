package buildinfo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ochairo/decant/internal/domain/entities"
)

func TestNew(t *testing.T) {
	info := New(true)

	if info.ID == "" {
		t.Error("New() did not assign a run ID")
	}
	if info.Started.IsZero() {
		t.Error("New() did not record a start time")
	}
	if !info.DryRun {
		t.Error("DryRun flag lost")
	}
	if New(false).ID == info.ID {
		t.Error("Run IDs must be unique")
	}
}

func TestWriteAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "build-info.json")

	info := New(false)
	info.VCS = entities.VCSInfo{Revision: "abc123", Branch: "main"}
	info.Modules = []entities.BuildModule{
		{
			Coordinates: "com.ochairo:lib-core:1.0.0",
			PURL:        "pkg:maven/com.ochairo/lib-core@1.0.0",
			Artifacts: []entities.BuildArtifact{
				{Name: "com/ochairo/lib-core/1.0.0/lib-core-1.0.0.jar", SHA256: "deadbeef"},
			},
		},
	}
	info.Deployed = []string{"Test"}

	writer := NewWriter()
	if err := writer.Write(path, info); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if info.Finished.IsZero() {
		t.Error("Write() must stamp the finish time")
	}

	loaded, err := writer.Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if diff := cmp.Diff(info, loaded); diff != "" {
		t.Errorf("Round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestReadMissing(t *testing.T) {
	if _, err := NewWriter().Read(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("Read() should return error for missing file")
	}
}

func TestReadGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.json")
	if err := NewWriter().Write(path, New(false)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	// Overwrite with non-JSON content
	if err := os.WriteFile(path, []byte("not json"), 0o600); err != nil {
		t.Fatalf("Failed to overwrite: %v", err)
	}
	if _, err := NewWriter().Read(path); err == nil {
		t.Error("Read() should return error for undecodable content")
	}
}
