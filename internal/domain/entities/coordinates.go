package entities

import (
	"fmt"
	"strings"

	"github.com/package-url/packageurl-go"
)

// SnapshotQualifier marks versions that are republishable development builds
const SnapshotQualifier = "-SNAPSHOT"

// Coordinates identifies an artifact in a Maven-style repository
type Coordinates struct {
	Group    string
	Artifact string
	Version  string
}

// String renders the canonical group:artifact:version form
func (c Coordinates) String() string {
	return fmt.Sprintf("%s:%s:%s", c.Group, c.Artifact, c.Version)
}

// PURL renders the coordinates as a pkg:maven package URL
func (c Coordinates) PURL() string {
	return packageurl.NewPackageURL(
		packageurl.TypeMaven, c.Group, c.Artifact, c.Version, nil, "",
	).ToString()
}

// IsSnapshot reports whether the version carries the snapshot qualifier
func (c Coordinates) IsSnapshot() bool {
	return strings.HasSuffix(c.Version, SnapshotQualifier)
}
