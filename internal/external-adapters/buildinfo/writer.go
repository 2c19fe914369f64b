// Package buildinfo records publish runs as JSON documents.
package buildinfo

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/ochairo/decant/internal/domain/entities"
)

// New starts a build-info record for one publish run
func New(dryRun bool) *entities.BuildInfo {
	return &entities.BuildInfo{
		ID:      uuid.New().String(),
		Started: time.Now().UTC(),
		DryRun:  dryRun,
	}
}

// Writer persists build-info documents
type Writer struct{}

// NewWriter creates a new build-info writer
func NewWriter() *Writer {
	return &Writer{}
}

// Write finalizes the record and writes it as indented JSON
func (w *Writer) Write(path string, info *entities.BuildInfo) error {
	if info.Finished.IsZero() {
		info.Finished = time.Now().UTC()
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode build info: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("failed to write build info: %w", err)
	}
	return nil
}

// Read loads a build-info document, for diagnostics and tests
func (w *Writer) Read(path string) (*entities.BuildInfo, error) {
	//nolint:gosec // G304: path addresses the staging area
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read build info: %w", err)
	}

	var info entities.BuildInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to decode build info: %w", err)
	}
	return &info, nil
}
