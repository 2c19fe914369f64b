package entities

import "time"

// BuildInfo records one publish run: what was published, where, and from
// which source revision
type BuildInfo struct {
	ID         string // run UUID
	Started    time.Time
	Finished   time.Time
	VCS        VCSInfo
	Modules    []BuildModule
	Deployed   []string // repository names that received the run
	DryRun     bool
}

// VCSInfo captures the state of the source repository at publish time
type VCSInfo struct {
	Revision  string
	Branch    string
	RemoteURL string
	Dirty     bool
}

// BuildModule groups the artifacts published under one set of coordinates
type BuildModule struct {
	Coordinates string // group:artifact:version
	PURL        string
	Artifacts   []BuildArtifact
}

// BuildArtifact records a deployed file and its digests
type BuildArtifact struct {
	Name   string
	MD5    string
	SHA1   string
	SHA256 string
}
