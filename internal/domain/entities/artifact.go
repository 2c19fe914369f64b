package entities

// Artifact represents one file of a publication
type Artifact struct {
	Path       string
	Extension  string // "jar", "zip", "pom", etc.
	Classifier string // "sources", "javadoc"; empty for the main artifact
	Checksums  ChecksumSet
}

// ChecksumSet holds the hex digests deployed alongside an artifact
type ChecksumSet struct {
	MD5    string
	SHA1   string
	SHA256 string
}

// Complete reports whether every digest has been computed
func (c ChecksumSet) Complete() bool {
	return c.MD5 != "" && c.SHA1 != "" && c.SHA256 != ""
}
