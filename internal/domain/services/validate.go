package services

import (
	"fmt"
	"strings"

	"github.com/ochairo/decant/internal/domain/entities"
)

// ValidationStatus represents the readiness of a publication
type ValidationStatus string

// Publication validation statuses
const (
	StatusReady           ValidationStatus = "ready"
	StatusNoFiles         ValidationStatus = "no_files"
	StatusMissingFiles    ValidationStatus = "missing_files"
	StatusUnexpectedFiles ValidationStatus = "unexpected_files"
)

// PublicationValidation contains the validation result for one publication
type PublicationValidation struct {
	Status          ValidationStatus
	ExpectedFiles   []string
	PresentFiles    []string
	MissingFiles    []string
	UnexpectedFiles []string
	ExpectedCount   int
	PresentCount    int
}

// IsReady returns true if the publication is complete
func (v *PublicationValidation) IsReady() bool {
	return v.Status == StatusReady
}

// ErrorMessage returns a human-readable error message if not ready
func (v *PublicationValidation) ErrorMessage(coordinates string) string {
	switch v.Status {
	case StatusReady:
		return ""
	case StatusNoFiles:
		return fmt.Sprintf("%s: no files staged (expected %d)", coordinates, v.ExpectedCount)
	case StatusMissingFiles:
		return fmt.Sprintf("%s: missing %d of %d files\n   Missing: %s",
			coordinates, len(v.MissingFiles), v.ExpectedCount, strings.Join(v.MissingFiles, ", "))
	case StatusUnexpectedFiles:
		return fmt.Sprintf("%s: unexpected files present: %s",
			coordinates, strings.Join(v.UnexpectedFiles, ", "))
	default:
		return "Unknown status"
	}
}

// ValidationService checks staged publications for completeness
type ValidationService struct {
	layout *RepositoryLayout
}

// NewValidationService creates a validation service
func NewValidationService() *ValidationService {
	return &ValidationService{layout: NewRepositoryLayout()}
}

// ExpectedFiles computes every repository-relative file a complete
// publication deploys: the POM and each artifact, their checksum
// companions, and detached signatures when the project requires signing
func (s *ValidationService) ExpectedFiles(project *entities.Project, pub *entities.Publication) []string {
	coords := project.Coordinates(pub)
	signed := project.Signing != nil && project.Signing.Required

	var files []string
	add := func(path string) {
		files = append(files, path)
		files = append(files, s.layout.ChecksumPaths(path)...)
		if signed {
			files = append(files, s.layout.SignaturePath(path))
		}
	}

	add(s.layout.PomPath(coords))
	for _, artifact := range pub.Artifacts {
		add(s.layout.ArtifactPath(coords, artifact.Classifier, artifact.Extension))
	}

	return files
}

// Validate diffs the expected file set of a publication against the
// repository-relative paths actually present
func (s *ValidationService) Validate(project *entities.Project, pub *entities.Publication, present []string) *PublicationValidation {
	validation := &PublicationValidation{
		ExpectedFiles: s.ExpectedFiles(project, pub),
		PresentFiles:  present,
	}
	validation.ExpectedCount = len(validation.ExpectedFiles)
	validation.PresentCount = len(present)

	validation.MissingFiles = diffFiles(validation.ExpectedFiles, present)
	validation.UnexpectedFiles = diffFiles(present, validation.ExpectedFiles)

	switch {
	case validation.PresentCount == 0:
		validation.Status = StatusNoFiles
	case len(validation.MissingFiles) > 0:
		validation.Status = StatusMissingFiles
	case len(validation.UnexpectedFiles) > 0:
		validation.Status = StatusUnexpectedFiles
	default:
		validation.Status = StatusReady
	}

	return validation
}

// diffFiles returns the entries of a that are not in b
func diffFiles(a, b []string) []string {
	inB := make(map[string]bool, len(b))
	for _, f := range b {
		inB[f] = true
	}

	var missing []string
	for _, f := range a {
		if !inB[f] {
			missing = append(missing, f)
		}
	}
	return missing
}
