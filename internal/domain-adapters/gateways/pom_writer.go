package gateways

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"

	"github.com/ochairo/decant/internal/domain/entities"
)

// pomProject is the XML shape of a POM document
type pomProject struct {
	XMLName           xml.Name            `xml:"project"`
	Xmlns             string              `xml:"xmlns,attr"`
	XmlnsXsi          string              `xml:"xmlns:xsi,attr"`
	XsiSchemaLocation string              `xml:"xsi:schemaLocation,attr"`
	ModelVersion      string              `xml:"modelVersion"`
	GroupID           string              `xml:"groupId"`
	ArtifactID        string              `xml:"artifactId"`
	Version           string              `xml:"version"`
	Packaging         string              `xml:"packaging,omitempty"`
	Name              string              `xml:"name,omitempty"`
	Description       string              `xml:"description,omitempty"`
	URL               string              `xml:"url,omitempty"`
	Licenses          []pomLicense        `xml:"licenses>license,omitempty"`
	Developers        []pomDeveloper      `xml:"developers>developer,omitempty"`
	SCM               *pomSCM             `xml:"scm,omitempty"`
	IssueManagement   *pomIssueManagement `xml:"issueManagement,omitempty"`
}

type pomLicense struct {
	Name string `xml:"name,omitempty"`
	URL  string `xml:"url,omitempty"`
}

type pomDeveloper struct {
	Name            string `xml:"name,omitempty"`
	Email           string `xml:"email,omitempty"`
	Organization    string `xml:"organization,omitempty"`
	OrganizationURL string `xml:"organizationUrl,omitempty"`
}

type pomSCM struct {
	Connection          string `xml:"connection,omitempty"`
	DeveloperConnection string `xml:"developerConnection,omitempty"`
	URL                 string `xml:"url,omitempty"`
}

type pomIssueManagement struct {
	System string `xml:"system,omitempty"`
	URL    string `xml:"url,omitempty"`
}

// pomWriter renders a publication's stamped metadata as a POM document
type pomWriter struct{}

// NewPomWriter creates a new POM writer
//
//nolint:revive // unexported-return: Intentionally returns concrete type for testability
func NewPomWriter() *pomWriter {
	return &pomWriter{}
}

// Write renders the POM of one publication of a project
func (w *pomWriter) Write(out io.Writer, project *entities.Project, pub *entities.Publication) error {
	coords := project.Coordinates(pub)

	doc := pomProject{
		Xmlns:             "http://maven.apache.org/POM/4.0.0",
		XmlnsXsi:          "http://www.w3.org/2001/XMLSchema-instance",
		XsiSchemaLocation: "http://maven.apache.org/POM/4.0.0 http://maven.apache.org/xsd/maven-4.0.0.xsd",
		ModelVersion:      "4.0.0",
		GroupID:           coords.Group,
		ArtifactID:        coords.Artifact,
		Version:           coords.Version,
		Packaging:         w.packaging(pub),
		Name:              pub.Pom.Name,
		Description:       pub.Pom.Description,
		URL:               pub.Pom.URL,
	}

	if pub.Pom.License.Name != "" || pub.Pom.License.URL != "" {
		doc.Licenses = []pomLicense{{Name: pub.Pom.License.Name, URL: pub.Pom.License.URL}}
	}
	if pub.Pom.Developer != (entities.Developer{}) {
		doc.Developers = []pomDeveloper{{
			Name:            pub.Pom.Developer.Name,
			Email:           pub.Pom.Developer.Email,
			Organization:    pub.Pom.Developer.Organization,
			OrganizationURL: pub.Pom.Developer.OrganizationURL,
		}}
	}
	if pub.Pom.SCM != (entities.SCM{}) {
		doc.SCM = &pomSCM{
			Connection:          pub.Pom.SCM.Connection,
			DeveloperConnection: pub.Pom.SCM.DeveloperConnection,
			URL:                 pub.Pom.SCM.URL,
		}
	}
	if pub.Pom.IssueTracker != (entities.IssueTracker{}) {
		doc.IssueManagement = &pomIssueManagement{
			System: pub.Pom.IssueTracker.System,
			URL:    pub.Pom.IssueTracker.URL,
		}
	}

	if _, err := io.WriteString(out, xml.Header); err != nil {
		return fmt.Errorf("failed to write POM header: %w", err)
	}

	enc := xml.NewEncoder(out)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode POM: %w", err)
	}
	return enc.Close()
}

// WriteFile renders the POM to a file
func (w *pomWriter) WriteFile(path string, project *entities.Project, pub *entities.Publication) error {
	//nolint:gosec // G304: path addresses the staging tree
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create POM file: %w", err)
	}

	if err := w.Write(f, project, pub); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close POM file: %w", err)
	}
	return nil
}

// packaging derives the POM packaging from the main artifact's extension
func (w *pomWriter) packaging(pub *entities.Publication) string {
	for _, artifact := range pub.Artifacts {
		if artifact.Classifier == "" {
			return artifact.Extension
		}
	}
	return ""
}
