package entities

// Publication represents one artifact set a project publishes, with its
// metadata descriptor
type Publication struct {
	Name       string // e.g. "maven"
	ArtifactID string
	Artifacts  []Artifact
	Pom        Pom
}

// PomOptions carries the consumer-supplied name and description, assembled
// before configuration runs
type PomOptions struct {
	Name        string
	Description string
}

// Pom is a publication's descriptive metadata document
type Pom struct {
	Name         string
	Description  string
	URL          string
	License      License
	IssueTracker IssueTracker
	SCM          SCM
	Developer    Developer
}

// ProjectInfo is the immutable fixed-metadata value stamped onto every
// publication. It is passed into the configurator explicitly rather than
// read from a global.
type ProjectInfo struct {
	URL          string
	License      License
	IssueTracker IssueTracker
	SCM          SCM
	Developer    Developer
}

// License identifies the distribution license
type License struct {
	Name string
	URL  string
}

// IssueTracker identifies where issues are filed
type IssueTracker struct {
	System string
	URL    string
}

// SCM holds the source-control locators
type SCM struct {
	Connection          string
	DeveloperConnection string
	URL                 string
}

// Developer identifies the publishing developer
type Developer struct {
	Name            string
	Email           string
	Organization    string
	OrganizationURL string
}

// DefaultProjectInfo returns the fixed metadata applied when the manifest
// supplies no replacement
func DefaultProjectInfo() ProjectInfo {
	return ProjectInfo{
		URL: "https://github.com/ochairo/decant",
		License: License{
			Name: "MIT",
			URL:  "https://opensource.org/licenses/MIT",
		},
		IssueTracker: IssueTracker{
			System: "GitHub",
			URL:    "https://github.com/ochairo/decant/issues",
		},
		SCM: SCM{
			Connection:          "scm:git:git://github.com/ochairo/decant.git",
			DeveloperConnection: "scm:git:ssh://github.com:ochairo/decant.git",
			URL:                 "https://github.com/ochairo/decant/tree/main",
		},
		Developer: Developer{
			Name:            "ochairo",
			Email:           "dev@ochairo.com",
			Organization:    "ochairo",
			OrganizationURL: "https://github.com/ochairo",
		},
	}
}
