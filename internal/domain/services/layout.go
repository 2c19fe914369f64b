package services

import (
	"fmt"
	"strings"

	"github.com/ochairo/decant/internal/domain/entities"
)

// Extensions of the companion files deployed next to every repository file
var checksumExtensions = []string{"md5", "sha1", "sha256"}

// SignatureExtension is the detached-signature companion suffix
const SignatureExtension = "asc"

// RepositoryLayout computes repository-relative paths in the standard
// Maven directory layout. Paths always use forward slashes; they address
// repository locations, not the local filesystem.
type RepositoryLayout struct{}

// NewRepositoryLayout creates a repository layout
func NewRepositoryLayout() *RepositoryLayout {
	return &RepositoryLayout{}
}

// VersionDir returns group/with/slashes/artifact/version
func (l *RepositoryLayout) VersionDir(c entities.Coordinates) string {
	return fmt.Sprintf("%s/%s/%s", l.groupPath(c.Group), c.Artifact, c.Version)
}

// FileName returns artifact-version[-classifier].ext
func (l *RepositoryLayout) FileName(c entities.Coordinates, classifier, ext string) string {
	if classifier != "" {
		return fmt.Sprintf("%s-%s-%s.%s", c.Artifact, c.Version, classifier, ext)
	}
	return fmt.Sprintf("%s-%s.%s", c.Artifact, c.Version, ext)
}

// ArtifactPath returns the repository-relative path of one artifact file
func (l *RepositoryLayout) ArtifactPath(c entities.Coordinates, classifier, ext string) string {
	return l.VersionDir(c) + "/" + l.FileName(c, classifier, ext)
}

// PomPath returns the repository-relative path of the POM document
func (l *RepositoryLayout) PomPath(c entities.Coordinates) string {
	return l.ArtifactPath(c, "", "pom")
}

// MetadataPath returns the artifact-level maven-metadata.xml path
func (l *RepositoryLayout) MetadataPath(group, artifact string) string {
	return fmt.Sprintf("%s/%s/maven-metadata.xml", l.groupPath(group), artifact)
}

// ChecksumPaths returns the checksum companions of a repository file
func (l *RepositoryLayout) ChecksumPaths(path string) []string {
	paths := make([]string, 0, len(checksumExtensions))
	for _, ext := range checksumExtensions {
		paths = append(paths, path+"."+ext)
	}
	return paths
}

// SignaturePath returns the detached-signature companion of a repository
// file
func (l *RepositoryLayout) SignaturePath(path string) string {
	return path + "." + SignatureExtension
}

func (l *RepositoryLayout) groupPath(group string) string {
	return strings.ReplaceAll(group, ".", "/")
}
