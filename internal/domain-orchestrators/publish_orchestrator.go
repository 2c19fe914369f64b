// Package orchestrators coordinates complex workflows across multiple domain services.
package orchestrators

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ochairo/decant/internal/domain/entities"
	"github.com/ochairo/decant/internal/domain/interfaces"
	ifgateways "github.com/ochairo/decant/internal/domain/interfaces/gateways"
	"github.com/ochairo/decant/internal/domain/services"
)

// Stager interface for laying publications out in the staging tree
type Stager interface {
	StagePublication(ctx context.Context, stageDir string, project *entities.Project, pub *entities.Publication) ([]string, error)
	MetadataPath(stageDir string, coords entities.Coordinates) string
}

// ChecksumWriter interface for writing digest companions
type ChecksumWriter interface {
	WriteCompanions(path string) (entities.ChecksumSet, error)
}

// MetadataWriter interface for rendering repository metadata
type MetadataWriter interface {
	WriteFile(path, group, artifact string, versions []string) error
}

// HookRunner interface for the manifest-declared publish hooks
type HookRunner interface {
	RunBefore(ctx context.Context, project *entities.Project) error
	RunAfter(ctx context.Context, project *entities.Project) error
}

// SignerFactory builds a signer from a project's signing configuration.
// It is invoked only when the project requires signing, which is where
// missing key material turns into an error.
type SignerFactory func(cfg *entities.SigningConfig) (ifgateways.Signer, error)

// DeployFactory creates a deploy gateway for one repository target
type DeployFactory func(target entities.RepositoryTarget) (ifgateways.DeployGateway, error)

// BuildInfoWriter interface for persisting publish-run records
type BuildInfoWriter interface {
	Write(path string, info *entities.BuildInfo) error
}

// PublishConfig holds configuration for a publish run
type PublishConfig struct {
	StageDir    string
	DryRun      bool
	NoOverwrite bool
	Parallel    int    // concurrent uploads per repository
	Repository  string // deploy only to the named repository when set
}

// PublishOrchestrator coordinates the publish pipeline: stage, checksum,
// sign, metadata, deploy, build-info, with hooks around each project
type PublishOrchestrator struct {
	stager        Stager
	checksums     ChecksumWriter
	metadata      MetadataWriter
	hooks         HookRunner
	signerFactory SignerFactory
	deployFactory DeployFactory
	describer     ifgateways.VCSDescriber
	buildInfo     BuildInfoWriter
	layout        *services.RepositoryLayout
	logger        interfaces.Logger
	config        PublishConfig
}

// NewPublishOrchestrator creates a new publish orchestrator
func NewPublishOrchestrator(
	stager Stager,
	checksums ChecksumWriter,
	metadata MetadataWriter,
	hooks HookRunner,
	signerFactory SignerFactory,
	deployFactory DeployFactory,
	describer ifgateways.VCSDescriber,
	buildInfo BuildInfoWriter,
	logger interfaces.Logger,
	config PublishConfig,
) *PublishOrchestrator {
	if config.StageDir == "" {
		config.StageDir = "stage"
	}
	if config.Parallel <= 0 {
		config.Parallel = 4
	}
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}

	return &PublishOrchestrator{
		stager:        stager,
		checksums:     checksums,
		metadata:      metadata,
		hooks:         hooks,
		signerFactory: signerFactory,
		deployFactory: deployFactory,
		describer:     describer,
		buildInfo:     buildInfo,
		layout:        services.NewRepositoryLayout(),
		logger:        logger,
		config:        config,
	}
}

// ProjectResult contains the outcome of publishing one project
type ProjectResult struct {
	Project     *entities.Project
	Files       []string // repository-relative files staged, companions included
	Signed      bool
	Deployed    []string // repository names that received the files
	Duration    time.Duration
}

// PublishResult contains the outcome of one publish run
type PublishResult struct {
	Projects      []*ProjectResult
	BuildInfo     *entities.BuildInfo
	BuildInfoPath string
	TotalDuration time.Duration
}

// Publish runs the full pipeline for the given subprojects. The projects
// must already be configured; the orchestrator consumes their signing
// state and repository targets.
func (o *PublishOrchestrator) Publish(ctx context.Context, projects []*entities.Project, info *entities.BuildInfo) (*PublishResult, error) {
	start := time.Now()
	result := &PublishResult{BuildInfo: info}

	o.describeVCS(info, projects)

	for _, project := range projects {
		projectResult, err := o.publishProject(ctx, project, info)
		if err != nil {
			return result, fmt.Errorf("failed to publish %s: %w", project.Name, err)
		}
		result.Projects = append(result.Projects, projectResult)
	}

	info.Finished = time.Now().UTC()
	result.TotalDuration = time.Since(start)

	result.BuildInfoPath = o.config.StageDir + ".build-info.json"
	if err := o.buildInfo.Write(result.BuildInfoPath, info); err != nil {
		return result, err
	}

	return result, nil
}

// describeVCS stamps the source-control state onto the run record. A
// tree outside version control just leaves the record empty.
func (o *PublishOrchestrator) describeVCS(info *entities.BuildInfo, projects []*entities.Project) {
	if o.describer == nil || len(projects) == 0 {
		return
	}
	revision, branch, remoteURL, dirty, err := o.describer.Describe(projects[0].RootDir)
	if err != nil {
		o.logger.Debug("no VCS state available", interfaces.F("error", err.Error()))
		return
	}
	info.VCS = entities.VCSInfo{
		Revision:  revision,
		Branch:    branch,
		RemoteURL: remoteURL,
		Dirty:     dirty,
	}
}

func (o *PublishOrchestrator) publishProject(ctx context.Context, project *entities.Project, info *entities.BuildInfo) (*ProjectResult, error) {
	start := time.Now()
	result := &ProjectResult{Project: project}

	if err := o.hooks.RunBefore(ctx, project); err != nil {
		return nil, err
	}

	signer, err := o.projectSigner(project)
	if err != nil {
		return nil, err
	}

	for _, pub := range project.Publications {
		files, err := o.stagePublication(ctx, project, pub, signer, info)
		if err != nil {
			return nil, err
		}
		result.Files = append(result.Files, files...)
	}
	result.Signed = signer != nil

	for _, target := range project.Repositories {
		if o.config.Repository != "" && target.Name != o.config.Repository {
			continue
		}
		if err := o.deploy(ctx, target, result.Files); err != nil {
			return nil, err
		}
		result.Deployed = append(result.Deployed, target.Name)
		if !contains(info.Deployed, target.Name) {
			info.Deployed = append(info.Deployed, target.Name)
		}
	}

	if err := o.hooks.RunAfter(ctx, project); err != nil {
		return nil, err
	}

	result.Duration = time.Since(start)
	return result, nil
}

// projectSigner builds the signer when the project requires signing.
// Signing state is configured on every subproject; only the required
// flag makes the engine actually sign.
func (o *PublishOrchestrator) projectSigner(project *entities.Project) (ifgateways.Signer, error) {
	if project.Signing == nil || !project.Signing.Required {
		return nil, nil
	}
	signer, err := o.signerFactory(project.Signing)
	if err != nil {
		return nil, fmt.Errorf("signing required for %s: %w", project.Name, err)
	}
	return signer, nil
}

// stagePublication stages one publication with checksum companions,
// signatures, and repository metadata, and records it on the run
func (o *PublishOrchestrator) stagePublication(ctx context.Context, project *entities.Project, pub *entities.Publication, signer ifgateways.Signer, info *entities.BuildInfo) ([]string, error) {
	coords := project.Coordinates(pub)

	staged, err := o.stager.StagePublication(ctx, o.config.StageDir, project, pub)
	if err != nil {
		return nil, err
	}

	module := entities.BuildModule{
		Coordinates: coords.String(),
		PURL:        coords.PURL(),
	}

	all := make([]string, 0, len(staged)*5)
	for _, repoPath := range staged {
		localPath := o.localPath(repoPath)

		set, err := o.checksums.WriteCompanions(localPath)
		if err != nil {
			return nil, err
		}
		all = append(all, repoPath)
		all = append(all, o.layout.ChecksumPaths(repoPath)...)

		if signer != nil {
			if _, err := signer.Sign(ctx, localPath); err != nil {
				return nil, err
			}
			all = append(all, o.layout.SignaturePath(repoPath))
		}

		module.Artifacts = append(module.Artifacts, entities.BuildArtifact{
			Name:   repoPath[strings.LastIndex(repoPath, "/")+1:],
			MD5:    set.MD5,
			SHA1:   set.SHA1,
			SHA256: set.SHA256,
		})
	}

	metadataLocal := o.stager.MetadataPath(o.config.StageDir, coords)
	if err := o.metadata.WriteFile(metadataLocal, coords.Group, coords.Artifact, []string{coords.Version}); err != nil {
		return nil, err
	}
	if _, err := o.checksums.WriteCompanions(metadataLocal); err != nil {
		return nil, err
	}
	metadataPath := o.layout.MetadataPath(coords.Group, coords.Artifact)
	all = append(all, metadataPath)
	all = append(all, o.layout.ChecksumPaths(metadataPath)...)

	info.Modules = append(info.Modules, module)
	return all, nil
}

// deploy uploads the staged files to one repository target. Independent
// files go up concurrently under a bounded group.
func (o *PublishOrchestrator) deploy(ctx context.Context, target entities.RepositoryTarget, files []string) error {
	if o.config.DryRun {
		o.logger.Info("dry run: skipping deploy",
			interfaces.F("repository", target.Name),
			interfaces.F("files", len(files)),
		)
		return nil
	}

	gateway, err := o.deployFactory(target)
	if err != nil {
		return err
	}

	if o.config.NoOverwrite {
		if err := o.checkConflicts(ctx, gateway, target, files); err != nil {
			return err
		}
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(o.config.Parallel)
	for _, repoPath := range files {
		group.Go(func() error {
			//nolint:gosec // G304: path addresses the staging tree
			f, err := os.Open(o.localPath(repoPath))
			if err != nil {
				return fmt.Errorf("failed to open staged file: %w", err)
			}
			//nolint:errcheck // Defer close on read-only file
			defer f.Close()

			stat, err := f.Stat()
			if err != nil {
				return fmt.Errorf("failed to stat staged file: %w", err)
			}
			return gateway.Put(groupCtx, repoPath, f, stat.Size())
		})
	}
	if err := group.Wait(); err != nil {
		return fmt.Errorf("deploy to %s failed: %w", target.Name, err)
	}

	o.logger.Info("deployed",
		interfaces.F("repository", target.Name),
		interfaces.F("files", len(files)),
	)
	return nil
}

// checkConflicts rejects the deploy when a primary file is already
// present on the target. Metadata and companions are rewritten freely.
func (o *PublishOrchestrator) checkConflicts(ctx context.Context, gateway ifgateways.DeployGateway, target entities.RepositoryTarget, files []string) error {
	for _, repoPath := range files {
		if isCompanionPath(repoPath) || strings.HasSuffix(repoPath, "maven-metadata.xml") {
			continue
		}
		exists, err := gateway.Exists(ctx, repoPath)
		if err != nil {
			return fmt.Errorf("failed to check %s on %s: %w", repoPath, target.Name, err)
		}
		if exists {
			return fmt.Errorf("%s already exists on %s and overwrite is disabled", repoPath, target.Name)
		}
	}
	return nil
}

func (o *PublishOrchestrator) localPath(repoPath string) string {
	return filepath.Join(o.config.StageDir, filepath.FromSlash(repoPath))
}

func isCompanionPath(path string) bool {
	return strings.HasSuffix(path, ".md5") ||
		strings.HasSuffix(path, ".sha1") ||
		strings.HasSuffix(path, ".sha256") ||
		strings.HasSuffix(path, ".asc")
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
