package gateways

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ochairo/decant/internal/domain/services"
)

// mavenMetadata is the XML shape of an artifact-level maven-metadata.xml
type mavenMetadata struct {
	XMLName    xml.Name       `xml:"metadata"`
	GroupID    string         `xml:"groupId"`
	ArtifactID string         `xml:"artifactId"`
	Versioning pomVersioning  `xml:"versioning"`
}

type pomVersioning struct {
	Latest      string   `xml:"latest,omitempty"`
	Release     string   `xml:"release,omitempty"`
	Versions    []string `xml:"versions>version"`
	LastUpdated string   `xml:"lastUpdated"`
}

// metadataWriter renders repository metadata for one artifact. Versions
// are ordered by semver; the release pointer skips snapshots.
type metadataWriter struct {
	versions *services.VersionService
	now      func() time.Time
}

// NewMetadataWriter creates a new metadata writer
//
//nolint:revive // unexported-return: Intentionally returns concrete type for testability
func NewMetadataWriter() *metadataWriter {
	return &metadataWriter{
		versions: services.NewVersionService(),
		now:      time.Now,
	}
}

// Write renders maven-metadata.xml for the given versions of an artifact
func (w *metadataWriter) Write(out io.Writer, group, artifact string, versions []string) error {
	sorted, err := w.versions.SortAscending(versions)
	if err != nil {
		return fmt.Errorf("failed to order versions: %w", err)
	}
	if len(sorted) == 0 {
		return fmt.Errorf("no versions to publish for %s:%s", group, artifact)
	}

	doc := mavenMetadata{
		GroupID:    group,
		ArtifactID: artifact,
		Versioning: pomVersioning{
			Latest:      sorted[len(sorted)-1],
			Versions:    sorted,
			LastUpdated: w.now().UTC().Format("20060102150405"),
		},
	}

	// The release pointer is absent when every version is a snapshot
	if release, ok, err := w.versions.Release(versions); err == nil && ok {
		doc.Versioning.Release = release
	}

	if _, err := io.WriteString(out, xml.Header); err != nil {
		return fmt.Errorf("failed to write metadata header: %w", err)
	}

	enc := xml.NewEncoder(out)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	return enc.Close()
}

// WriteFile renders maven-metadata.xml to a file
func (w *metadataWriter) WriteFile(path, group, artifact string, versions []string) error {
	//nolint:gosec // G304: path addresses the staging tree
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create metadata file: %w", err)
	}

	if err := w.Write(f, group, artifact, versions); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close metadata file: %w", err)
	}
	return nil
}
