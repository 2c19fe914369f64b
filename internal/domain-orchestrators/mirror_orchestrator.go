package orchestrators

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/ochairo/decant/internal/domain/interfaces"
	ifgateways "github.com/ochairo/decant/internal/domain/interfaces/gateways"
)

// StageLister interface for enumerating staged repository files
type StageLister interface {
	ListFiles(dir string) ([]string, error)
	PrimaryFiles(paths []string) []string
}

// MirrorOrchestrator copies a staged publication onto a forge release
// page as downloadable assets
type MirrorOrchestrator struct {
	gateway ifgateways.ReleaseGateway
	lister  StageLister
	logger  interfaces.Logger
}

// NewMirrorOrchestrator creates a new mirror orchestrator
func NewMirrorOrchestrator(gateway ifgateways.ReleaseGateway, lister StageLister, logger interfaces.Logger) *MirrorOrchestrator {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &MirrorOrchestrator{gateway: gateway, lister: lister, logger: logger}
}

// MirrorConfig holds configuration for one mirror run
type MirrorConfig struct {
	StageDir      string
	Tag           string
	Name          string // release title; defaults to the tag
	Notes         string
	Prerelease    bool
	BuildInfoPath string // attached alongside the artifacts when set
	// Companions uploads checksum and signature files too; primary
	// files alone otherwise
	Companions bool
}

// MirrorResult contains the outcome of one mirror run
type MirrorResult struct {
	Release  *ifgateways.ForgeRelease
	Uploaded []string
	Skipped  []string // assets already attached to the release
	Duration time.Duration
}

// Mirror ensures the release exists and uploads the staged files as
// assets. Re-running against the same tag uploads only what is missing.
func (o *MirrorOrchestrator) Mirror(ctx context.Context, config MirrorConfig) (*MirrorResult, error) {
	start := time.Now()

	if config.Tag == "" {
		return nil, fmt.Errorf("release tag is required")
	}
	name := config.Name
	if name == "" {
		name = config.Tag
	}

	release, err := o.gateway.EnsureRelease(ctx, &ifgateways.ForgeRelease{
		TagName:    config.Tag,
		Name:       name,
		Body:       config.Notes,
		Prerelease: config.Prerelease,
	})
	if err != nil {
		return nil, err
	}

	files, err := o.stagedAssets(config)
	if err != nil {
		return nil, err
	}

	existing, err := o.gateway.ListAssets(ctx, release)
	if err != nil {
		return nil, err
	}
	attached := make(map[string]bool, len(existing))
	for _, asset := range existing {
		attached[asset.Name] = true
	}

	result := &MirrorResult{Release: release}
	for _, path := range files {
		if attached[filepath.Base(path)] {
			result.Skipped = append(result.Skipped, path)
			continue
		}
		if _, err := o.gateway.UploadAsset(ctx, release, path); err != nil {
			return result, err
		}
		o.logger.Debug("asset uploaded",
			interfaces.F("tag", config.Tag),
			interfaces.F("asset", filepath.Base(path)),
		)
		result.Uploaded = append(result.Uploaded, path)
	}

	result.Duration = time.Since(start)
	return result, nil
}

// stagedAssets resolves the local paths to attach to the release
func (o *MirrorOrchestrator) stagedAssets(config MirrorConfig) ([]string, error) {
	repoFiles, err := o.lister.ListFiles(config.StageDir)
	if err != nil {
		return nil, err
	}
	if !config.Companions {
		repoFiles = o.lister.PrimaryFiles(repoFiles)
	}

	files := make([]string, 0, len(repoFiles)+1)
	for _, repoPath := range repoFiles {
		files = append(files, filepath.Join(config.StageDir, filepath.FromSlash(repoPath)))
	}
	if config.BuildInfoPath != "" {
		files = append(files, config.BuildInfoPath)
	}
	return files, nil
}
