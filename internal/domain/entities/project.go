// Package entities defines core domain models and data structures.
package entities

// Project represents a node in the build tree: the root aggregator or a
// publishable subproject
type Project struct {
	Name       string
	Dir        string // absolute directory of this project
	RootDir    string // absolute directory of the root project
	Root       bool
	Group      string
	Version    string
	Properties map[string]string

	Publications []*Publication
	Subprojects  []*Project
	Hooks        Hooks

	// Consumer-supplied metadata customization, assembled before
	// configuration runs
	PomOptions *PomOptions

	// Populated by configuration, nil/empty until then
	Signing      *SigningConfig
	Repositories []RepositoryTarget
}

// Repository returns the registered repository with the given name, or nil
func (p *Project) Repository(name string) *RepositoryTarget {
	for i := range p.Repositories {
		if p.Repositories[i].Name == name {
			return &p.Repositories[i]
		}
	}
	return nil
}

// Coordinates returns the Maven coordinates of a publication of this project
func (p *Project) Coordinates(pub *Publication) Coordinates {
	return Coordinates{
		Group:    p.Group,
		Artifact: pub.ArtifactID,
		Version:  p.Version,
	}
}

// Hooks holds commands to run around a publish
type Hooks struct {
	BeforePublish []string
	AfterPublish  []string
}

// Manifest is the parsed publish manifest: the project tree plus
// tree-wide settings
type Manifest struct {
	Group   string
	Version string
	Info    *ProjectInfo // optional replacement for the fixed defaults
	Root    *Project
}

// Subprojects returns the publishable children of the manifest root
func (m *Manifest) Subprojects() []*Project {
	if m.Root == nil {
		return nil
	}
	return m.Root.Subprojects
}
