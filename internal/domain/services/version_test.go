package services

import (
	"strings"
	"testing"
)

func TestVersionService_Parse(t *testing.T) {
	s := NewVersionService()

	tests := []struct {
		version string
		wantErr bool
	}{
		{"1.2.3", false},
		{"0.1.0-SNAPSHOT", false},
		{"2.0.0-rc.1", false},
		{"not-a-version", true},
		{"", true},
	}

	for _, tt := range tests {
		_, err := s.Parse(tt.version)
		if (err != nil) != tt.wantErr {
			t.Errorf("Parse(%q) error = %v, wantErr %v", tt.version, err, tt.wantErr)
		}
	}
}

func TestVersionService_Parse_ErrorNamesVersion(t *testing.T) {
	s := NewVersionService()

	_, err := s.Parse("garbage")
	if err == nil {
		t.Fatal("Expected error for invalid version")
	}
	if !strings.Contains(err.Error(), "garbage") {
		t.Errorf("Error should name the version, got: %v", err)
	}
}

func TestVersionService_IsSnapshot(t *testing.T) {
	s := NewVersionService()

	if !s.IsSnapshot("1.0.0-SNAPSHOT") {
		t.Error("1.0.0-SNAPSHOT should be a snapshot")
	}
	if s.IsSnapshot("1.0.0") {
		t.Error("1.0.0 should not be a snapshot")
	}
	if s.IsSnapshot("1.0.0-snapshot") {
		t.Error("Snapshot qualifier is case-sensitive")
	}
}

func TestVersionService_SortAscending(t *testing.T) {
	s := NewVersionService()

	sorted, err := s.SortAscending([]string{"1.10.0", "1.2.0", "1.2.0-SNAPSHOT", "0.9.1"})
	if err != nil {
		t.Fatalf("SortAscending() error: %v", err)
	}

	want := []string{"0.9.1", "1.2.0-SNAPSHOT", "1.2.0", "1.10.0"}
	for i, w := range want {
		if sorted[i] != w {
			t.Errorf("sorted[%d] = %q, want %q (full: %v)", i, sorted[i], w, sorted)
		}
	}
}

func TestVersionService_Latest(t *testing.T) {
	s := NewVersionService()

	latest, err := s.Latest([]string{"1.2.0", "2.0.0-SNAPSHOT", "1.10.0"})
	if err != nil {
		t.Fatalf("Latest() error: %v", err)
	}
	if latest != "2.0.0-SNAPSHOT" {
		t.Errorf("Latest() = %q, want 2.0.0-SNAPSHOT", latest)
	}

	if _, err := s.Latest(nil); err == nil {
		t.Error("Latest() of no versions should error")
	}
}

func TestVersionService_Release_SkipsSnapshots(t *testing.T) {
	s := NewVersionService()

	release, ok, err := s.Release([]string{"1.2.0", "2.0.0-SNAPSHOT", "1.10.0"})
	if err != nil {
		t.Fatalf("Release() error: %v", err)
	}
	if !ok || release != "1.10.0" {
		t.Errorf("Release() = %q/%v, want 1.10.0/true", release, ok)
	}
}

func TestVersionService_Release_AllSnapshots(t *testing.T) {
	s := NewVersionService()

	_, ok, err := s.Release([]string{"1.0.0-SNAPSHOT", "2.0.0-SNAPSHOT"})
	if err != nil {
		t.Fatalf("Release() error: %v", err)
	}
	if ok {
		t.Error("Release() should report false when every version is a snapshot")
	}
}
