package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/ochairo/decant/internal/domain/entities"
)

// VersionService parses and orders publication versions
type VersionService struct{}

// NewVersionService creates a version service
func NewVersionService() *VersionService {
	return &VersionService{}
}

// Parse validates a publication version. The snapshot qualifier parses as
// a semver prerelease, so 1.2.3-SNAPSHOT is accepted.
func (s *VersionService) Parse(version string) (*semver.Version, error) {
	v, err := semver.NewVersion(version)
	if err != nil {
		return nil, fmt.Errorf("invalid version %q: %w", version, err)
	}
	return v, nil
}

// IsSnapshot reports whether the version carries the snapshot qualifier
func (s *VersionService) IsSnapshot(version string) bool {
	return strings.HasSuffix(version, entities.SnapshotQualifier)
}

// SortAscending orders versions lowest to highest. Every version must
// parse; repository metadata never contains free-form version strings.
func (s *VersionService) SortAscending(versions []string) ([]string, error) {
	parsed := make(semver.Collection, 0, len(versions))
	for _, raw := range versions {
		v, err := s.Parse(raw)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, v)
	}
	sort.Sort(parsed)

	sorted := make([]string, len(parsed))
	for i, v := range parsed {
		sorted[i] = v.Original()
	}
	return sorted, nil
}

// Latest returns the highest version
func (s *VersionService) Latest(versions []string) (string, error) {
	sorted, err := s.SortAscending(versions)
	if err != nil {
		return "", err
	}
	if len(sorted) == 0 {
		return "", fmt.Errorf("no versions given")
	}
	return sorted[len(sorted)-1], nil
}

// Release returns the highest non-snapshot version, or false when every
// version is a snapshot
func (s *VersionService) Release(versions []string) (string, bool, error) {
	sorted, err := s.SortAscending(versions)
	if err != nil {
		return "", false, err
	}
	for i := len(sorted) - 1; i >= 0; i-- {
		if !s.IsSnapshot(sorted[i]) {
			return sorted[i], true, nil
		}
	}
	return "", false, nil
}
