package gateways

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/go-github/v82/github"

	"github.com/ochairo/decant/internal/domain/interfaces"
	"github.com/ochairo/decant/internal/domain/interfaces/gateways"
)

// GitHubReleaseGateway mirrors publications to GitHub release pages
type GitHubReleaseGateway struct {
	client *github.Client
	owner  string
	repo   string
	logger interfaces.Logger
}

// NewGitHubReleaseGateway creates a release gateway for one repository
func NewGitHubReleaseGateway(token, owner, repo string, logger interfaces.Logger) *GitHubReleaseGateway {
	client := github.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	return NewGitHubReleaseGatewayWithClient(client, owner, repo, logger)
}

// NewGitHubReleaseGatewayWithClient creates a gateway over an existing
// client, for tests and enterprise base URLs
func NewGitHubReleaseGatewayWithClient(client *github.Client, owner, repo string, logger interfaces.Logger) *GitHubReleaseGateway {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &GitHubReleaseGateway{client: client, owner: owner, repo: repo, logger: logger}
}

// EnsureRelease returns the release for the tag, creating it when absent.
// Creation is idempotent: a release that appeared concurrently is fetched
// rather than duplicated.
func (g *GitHubReleaseGateway) EnsureRelease(ctx context.Context, release *gateways.ForgeRelease) (*gateways.ForgeRelease, error) {
	existing, resp, err := g.client.Repositories.GetReleaseByTag(ctx, g.owner, g.repo, release.TagName)
	if err == nil {
		g.logger.Debug("release already exists", interfaces.F("tag", release.TagName))
		return convertGitHubRelease(existing), nil
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		return nil, fmt.Errorf("failed to look up release %s: %w", release.TagName, err)
	}

	created, _, err := g.client.Repositories.CreateRelease(ctx, g.owner, g.repo, &github.RepositoryRelease{
		TagName:    github.Ptr(release.TagName),
		Name:       github.Ptr(release.Name),
		Body:       github.Ptr(release.Body),
		Draft:      github.Ptr(release.Draft),
		Prerelease: github.Ptr(release.Prerelease),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create release %s: %w", release.TagName, err)
	}

	g.logger.Info("release created",
		interfaces.F("tag", release.TagName),
		interfaces.F("url", created.GetHTMLURL()),
	)
	return convertGitHubRelease(created), nil
}

// UploadAsset attaches a local file to a release
func (g *GitHubReleaseGateway) UploadAsset(ctx context.Context, release *gateways.ForgeRelease, path string) (*gateways.ForgeAsset, error) {
	//nolint:gosec // G304: path addresses a staged repository file
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open asset: %w", err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer f.Close()

	asset, _, err := g.client.Repositories.UploadReleaseAsset(ctx, g.owner, g.repo, release.ID,
		&github.UploadOptions{Name: filepath.Base(path)}, f)
	if err != nil {
		return nil, fmt.Errorf("failed to upload asset %s: %w", filepath.Base(path), err)
	}

	return &gateways.ForgeAsset{
		ID:   asset.GetID(),
		Name: asset.GetName(),
		URL:  asset.GetBrowserDownloadURL(),
		Size: int64(asset.GetSize()),
	}, nil
}

// ListAssets lists the files attached to a release
func (g *GitHubReleaseGateway) ListAssets(ctx context.Context, release *gateways.ForgeRelease) ([]*gateways.ForgeAsset, error) {
	var assets []*gateways.ForgeAsset
	opts := &github.ListOptions{PerPage: 100}
	for {
		page, resp, err := g.client.Repositories.ListReleaseAssets(ctx, g.owner, g.repo, release.ID, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list release assets: %w", err)
		}
		for _, asset := range page {
			assets = append(assets, &gateways.ForgeAsset{
				ID:   asset.GetID(),
				Name: asset.GetName(),
				URL:  asset.GetBrowserDownloadURL(),
				Size: int64(asset.GetSize()),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return assets, nil
}

func convertGitHubRelease(release *github.RepositoryRelease) *gateways.ForgeRelease {
	return &gateways.ForgeRelease{
		ID:         release.GetID(),
		TagName:    release.GetTagName(),
		Name:       release.GetName(),
		Body:       release.GetBody(),
		Draft:      release.GetDraft(),
		Prerelease: release.GetPrerelease(),
		HTMLURL:    release.GetHTMLURL(),
	}
}
