package gateways

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ArtifactFinder locates files in a staged or deployed repository tree
type ArtifactFinder struct{}

// NewArtifactFinder creates a new artifact finder
func NewArtifactFinder() *ArtifactFinder {
	return &ArtifactFinder{}
}

// companionSuffixes are the non-primary files deployed next to every
// repository file
var companionSuffixes = []string{".md5", ".sha1", ".sha256", ".asc"}

// ListFiles walks a repository tree rooted at dir and returns every file
// as a repository-relative, forward-slash path
func (f *ArtifactFinder) ListFiles(dir string) ([]string, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, fmt.Errorf("repository directory does not exist: %s", dir)
	}

	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk repository tree: %w", err)
	}

	return files, nil
}

// IsCompanion reports whether path is a checksum or signature companion
// rather than a primary repository file
func (f *ArtifactFinder) IsCompanion(path string) bool {
	for _, suffix := range companionSuffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}

// PrimaryFiles filters a repository file list down to the primary files:
// artifacts, POMs, and metadata, without their companions
func (f *ArtifactFinder) PrimaryFiles(paths []string) []string {
	primary := make([]string, 0, len(paths))
	for _, path := range paths {
		if !f.IsCompanion(path) {
			primary = append(primary, path)
		}
	}
	return primary
}

// FindArchives returns the local paths of zip-format artifacts under a
// repository tree, for deep validation
func (f *ArtifactFinder) FindArchives(dir string) ([]string, error) {
	files, err := f.ListFiles(dir)
	if err != nil {
		return nil, err
	}

	var archives []string
	for _, path := range files {
		if strings.HasSuffix(path, ".jar") || strings.HasSuffix(path, ".zip") {
			archives = append(archives, filepath.Join(dir, filepath.FromSlash(path)))
		}
	}
	return archives, nil
}
