// Package services contains the domain logic for configuring and
// validating publications.
package services

import (
	"path/filepath"

	"github.com/ochairo/decant/internal/domain/entities"
	"github.com/ochairo/decant/internal/domain/interfaces"
)

// Configuration keys read by the configurator
const (
	// SignBuildKey enables required signing. Checked for existence only,
	// never read as a value.
	SignBuildKey = "signBuild"

	// SignSecretRingKey holds the armored signing key ring with newlines
	// flattened to '#'
	SignSecretRingKey = "signSecretRingFileKotlin"

	// SignPasswordKey holds the signing key passphrase
	SignPasswordKey = "signPasswordKotlin"

	// TestRepositoryKey holds a relative path for the local test publish
	// target
	TestRepositoryKey = "testRepository"

	// GitHubActorKey and GitHubTokenKey are the remote repository
	// credentials
	GitHubActorKey = "GITHUB_ACTOR"
	GitHubTokenKey = "GITHUB_TOKEN"
)

// Fixed publishing endpoints and identities
const (
	// TestRepositoryName is the local test publish target
	TestRepositoryName = "Test"

	// GitHubPackagesRepositoryName is the remote package registry target
	GitHubPackagesRepositoryName = "GitHubPackages"

	// GitHubPackagesURL is the fixed remote registry endpoint
	GitHubPackagesURL = "https://maven.pkg.github.com/ochairo/decant"

	// SigningKeyID selects the signing key within the configured ring
	SigningKeyID = "D0A98C95"
)

// ConfigSource resolves named configuration values with property-first
// precedence. Has is the existence check: true when the property is set
// to anything or the environment variable is non-empty. It is deliberately
// asymmetric to Value's lookup.
type ConfigSource interface {
	Value(key string) string
	Has(key string) bool
}

// Options carries the consumer-assembled customization for one project.
// Assemble it completely before calling Configure; nothing is deferred.
type Options struct {
	Pom *entities.PomOptions
}

// Configurator wires signing, publication metadata, and repository
// targets onto subprojects
type Configurator struct {
	source ConfigSource
	info   entities.ProjectInfo
	logger interfaces.Logger
}

// NewConfigurator creates a configurator over the given configuration
// source and fixed project metadata
func NewConfigurator(source ConfigSource, info entities.ProjectInfo, logger interfaces.Logger) *Configurator {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &Configurator{source: source, info: info, logger: logger}
}

// Configure applies the publish configuration to project: signing state,
// publication metadata, then repository targets, in that order. The root
// project is a pure aggregator and is left untouched; root-level policy
// is reserved for later.
//
// All effects are on the project value itself; optional features whose
// configuration values are absent are skipped silently.
func (c *Configurator) Configure(project *entities.Project, opts Options) {
	if project.Root {
		c.logger.Debug("skipping root project", interfaces.F("project", project.Name))
		return
	}

	c.configureSigning(project)
	c.configureMetadata(project, opts)
	c.configureTestRepository(project)
	c.configureGitHubPackages(project)
}

// ConfigureTree configures every subproject under root, taking each
// project's consumer-supplied PomOptions as its Options
func (c *Configurator) ConfigureTree(root *entities.Project) {
	c.Configure(root, Options{Pom: root.PomOptions})
	for _, sub := range root.Subprojects {
		c.ConfigureTree(sub)
	}
}

// configureSigning attaches signing state whether or not signing is
// required, so that flipping the flag later needs no reconfiguration.
// Material is not validated here: absent or broken key material surfaces
// from the signing layer once a signature is actually produced.
func (c *Configurator) configureSigning(project *entities.Project) {
	required := c.source.Has(SignBuildKey)

	project.Signing = &entities.SigningConfig{
		Required: required,
		Material: entities.SigningMaterial{
			KeyID:      SigningKeyID,
			Ring:       entities.DecodeKeyRing(c.source.Value(SignSecretRingKey)),
			Passphrase: c.source.Value(SignPasswordKey),
		},
	}

	c.logger.Debug("signing configured",
		interfaces.F("project", project.Name),
		interfaces.F("required", required),
		interfaces.F("materialPresent", project.Signing.Material.Present()),
	)
}

// configureMetadata stamps every publication with the consumer's name and
// description plus the fixed metadata fields. A missing PomOptions leaves
// name and description empty; the fixed fields are stamped regardless.
func (c *Configurator) configureMetadata(project *entities.Project, opts Options) {
	for _, pub := range project.Publications {
		if opts.Pom != nil {
			pub.Pom.Name = opts.Pom.Name
			pub.Pom.Description = opts.Pom.Description
		}
		pub.Pom.URL = c.info.URL
		pub.Pom.License = c.info.License
		pub.Pom.IssueTracker = c.info.IssueTracker
		pub.Pom.SCM = c.info.SCM
		pub.Pom.Developer = c.info.Developer
	}

	c.logger.Debug("publication metadata stamped",
		interfaces.F("project", project.Name),
		interfaces.F("publications", len(project.Publications)),
	)
}

// configureTestRepository registers the local test target when a path is
// configured. The path is relative to the root project's directory.
func (c *Configurator) configureTestRepository(project *entities.Project) {
	rel := c.source.Value(TestRepositoryKey)
	if rel == "" {
		return
	}

	dir := filepath.Join(project.RootDir, filepath.FromSlash(rel))
	project.Repositories = append(project.Repositories, entities.RepositoryTarget{
		Name: TestRepositoryName,
		URL:  FileURL(dir),
	})

	c.logger.Debug("test repository registered",
		interfaces.F("project", project.Name),
		interfaces.F("dir", dir),
	)
}

// configureGitHubPackages registers the remote registry when both
// credentials are present. One or both missing means the feature is not
// enabled, not that the build is misconfigured.
func (c *Configurator) configureGitHubPackages(project *entities.Project) {
	actor := c.source.Value(GitHubActorKey)
	token := c.source.Value(GitHubTokenKey)
	if actor == "" || token == "" {
		return
	}

	project.Repositories = append(project.Repositories, entities.RepositoryTarget{
		Name:        GitHubPackagesRepositoryName,
		URL:         GitHubPackagesURL,
		Credentials: &entities.Credentials{Username: actor, Password: token},
	})

	c.logger.Debug("remote repository registered",
		interfaces.F("project", project.Name),
		interfaces.F("repository", GitHubPackagesRepositoryName),
	)
}

// FileURL renders an absolute directory as a file URI
func FileURL(dir string) string {
	return "file://" + filepath.ToSlash(dir)
}
