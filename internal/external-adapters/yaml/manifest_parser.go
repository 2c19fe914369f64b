// Package yaml provides YAML-based publish manifest parsing and loading.
package yaml

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ochairo/decant/internal/domain/entities"
)

// yamlManifest represents the raw decant.yml structure
type yamlManifest struct {
	Group       string            `yaml:"group"`
	Version     string            `yaml:"version"`
	Properties  map[string]string `yaml:"properties"`
	ProjectInfo *yamlProjectInfo  `yaml:"projectInfo"`
	Subprojects []yamlSubproject  `yaml:"subprojects"`
}

type yamlSubproject struct {
	Name         string            `yaml:"name"`
	Dir          string            `yaml:"dir"`
	Group        string            `yaml:"group"`
	Version      string            `yaml:"version"`
	Properties   map[string]string `yaml:"properties"`
	Pom          *yamlPomOptions   `yaml:"pom"`
	Publications []yamlPublication `yaml:"publications"`
	Hooks        yamlHooks         `yaml:"hooks"`
}

type yamlPomOptions struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type yamlPublication struct {
	Name       string     `yaml:"name"`
	ArtifactID string     `yaml:"artifactId"`
	Files      []yamlFile `yaml:"files"`
}

type yamlFile struct {
	Path       string `yaml:"path"`
	Extension  string `yaml:"extension"`
	Classifier string `yaml:"classifier"`
}

type yamlHooks struct {
	BeforePublish []string `yaml:"beforePublish"`
	AfterPublish  []string `yaml:"afterPublish"`
}

type yamlProjectInfo struct {
	URL     string `yaml:"url"`
	License struct {
		Name string `yaml:"name"`
		URL  string `yaml:"url"`
	} `yaml:"license"`
	IssueTracker struct {
		System string `yaml:"system"`
		URL    string `yaml:"url"`
	} `yaml:"issueTracker"`
	SCM struct {
		Connection          string `yaml:"connection"`
		DeveloperConnection string `yaml:"developerConnection"`
		URL                 string `yaml:"url"`
	} `yaml:"scm"`
	Developer struct {
		Name            string `yaml:"name"`
		Email           string `yaml:"email"`
		Organization    string `yaml:"organization"`
		OrganizationURL string `yaml:"organizationUrl"`
	} `yaml:"developer"`
}

// ManifestParser parses publish manifest files
type ManifestParser struct{}

// NewManifestParser creates a new YAML manifest parser
func NewManifestParser() *ManifestParser {
	return &ManifestParser{}
}

// ParseFile parses a manifest file into a Manifest entity
func (p *ManifestParser) ParseFile(filePath string) (*entities.Manifest, error) {
	//nolint:gosec // G304: filePath is the operator's manifest path
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	return p.Parse(data)
}

// Parse parses manifest bytes into a Manifest entity
func (p *ManifestParser) Parse(data []byte) (*entities.Manifest, error) {
	var raw yamlManifest
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if raw.Group == "" {
		return nil, fmt.Errorf("manifest must declare a group")
	}
	if raw.Version == "" {
		return nil, fmt.Errorf("manifest must declare a version")
	}
	if len(raw.Subprojects) == 0 {
		return nil, fmt.Errorf("manifest declares no subprojects")
	}

	manifest := &entities.Manifest{
		Group:   raw.Group,
		Version: raw.Version,
		Root: &entities.Project{
			Root:       true,
			Group:      raw.Group,
			Version:    raw.Version,
			Properties: raw.Properties,
		},
	}

	if raw.ProjectInfo != nil {
		manifest.Info = convertProjectInfo(raw.ProjectInfo)
	}

	seen := make(map[string]bool, len(raw.Subprojects))
	for i, sub := range raw.Subprojects {
		project, err := convertSubproject(sub, raw)
		if err != nil {
			return nil, fmt.Errorf("subproject %d: %w", i, err)
		}
		if seen[project.Name] {
			return nil, fmt.Errorf("duplicate subproject name: %s", project.Name)
		}
		seen[project.Name] = true
		manifest.Root.Subprojects = append(manifest.Root.Subprojects, project)
	}

	return manifest, nil
}

func convertSubproject(sub yamlSubproject, root yamlManifest) (*entities.Project, error) {
	if sub.Name == "" {
		return nil, fmt.Errorf("subproject must have a name")
	}

	// Coordinates inherit from the manifest root unless overridden
	group := sub.Group
	if group == "" {
		group = root.Group
	}
	version := sub.Version
	if version == "" {
		version = root.Version
	}

	dir := sub.Dir
	if dir == "" {
		dir = sub.Name
	}

	project := &entities.Project{
		Name:       sub.Name,
		Dir:        dir,
		Group:      group,
		Version:    version,
		Properties: sub.Properties,
		Hooks: entities.Hooks{
			BeforePublish: sub.Hooks.BeforePublish,
			AfterPublish:  sub.Hooks.AfterPublish,
		},
	}

	if sub.Pom != nil {
		project.PomOptions = &entities.PomOptions{
			Name:        sub.Pom.Name,
			Description: sub.Pom.Description,
		}
	}

	if len(sub.Publications) == 0 {
		return nil, fmt.Errorf("subproject %s declares no publications", sub.Name)
	}
	for i, pub := range sub.Publications {
		converted, err := convertPublication(pub)
		if err != nil {
			return nil, fmt.Errorf("publication %d of %s: %w", i, sub.Name, err)
		}
		project.Publications = append(project.Publications, converted)
	}

	return project, nil
}

func convertPublication(pub yamlPublication) (*entities.Publication, error) {
	if pub.ArtifactID == "" {
		return nil, fmt.Errorf("publication must have an artifactId")
	}

	name := pub.Name
	if name == "" {
		name = "maven"
	}

	converted := &entities.Publication{
		Name:       name,
		ArtifactID: pub.ArtifactID,
	}

	if len(pub.Files) == 0 {
		return nil, fmt.Errorf("publication %s declares no files", pub.ArtifactID)
	}
	for _, file := range pub.Files {
		if file.Path == "" {
			return nil, fmt.Errorf("publication %s has a file without a path", pub.ArtifactID)
		}
		ext := file.Extension
		if ext == "" {
			ext = "jar"
		}
		converted.Artifacts = append(converted.Artifacts, entities.Artifact{
			Path:       file.Path,
			Extension:  ext,
			Classifier: file.Classifier,
		})
	}

	return converted, nil
}

func convertProjectInfo(info *yamlProjectInfo) *entities.ProjectInfo {
	return &entities.ProjectInfo{
		URL: info.URL,
		License: entities.License{
			Name: info.License.Name,
			URL:  info.License.URL,
		},
		IssueTracker: entities.IssueTracker{
			System: info.IssueTracker.System,
			URL:    info.IssueTracker.URL,
		},
		SCM: entities.SCM{
			Connection:          info.SCM.Connection,
			DeveloperConnection: info.SCM.DeveloperConnection,
			URL:                 info.SCM.URL,
		},
		Developer: entities.Developer{
			Name:            info.Developer.Name,
			Email:           info.Developer.Email,
			Organization:    info.Developer.Organization,
			OrganizationURL: info.Developer.OrganizationURL,
		},
	}
}
