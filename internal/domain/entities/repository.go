package entities

// RepositoryTarget describes a repository a project publishes to
type RepositoryTarget struct {
	Name        string // "Test", "GitHubPackages"
	URL         string // file or https URL
	Credentials *Credentials
}

// Credentials holds basic-auth material for a remote repository
type Credentials struct {
	Username string
	Password string
}

// HasCredentials reports whether the target carries usable credentials
func (r RepositoryTarget) HasCredentials() bool {
	return r.Credentials != nil && r.Credentials.Username != "" && r.Credentials.Password != ""
}
