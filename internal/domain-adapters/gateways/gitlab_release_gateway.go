package gateways

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"

	gitlab "github.com/xanzy/go-gitlab"

	"github.com/ochairo/decant/internal/domain/interfaces"
	"github.com/ochairo/decant/internal/domain/interfaces/gateways"
)

// GitLabReleaseGateway mirrors publications to GitLab release pages.
// Assets are uploaded through the project uploads API and attached as
// release links.
type GitLabReleaseGateway struct {
	client  *gitlab.Client
	project string // "group/project" or numeric ID as string
	logger  interfaces.Logger
}

// NewGitLabReleaseGateway creates a release gateway for one project.
// baseURL selects a self-hosted instance; empty means gitlab.com.
func NewGitLabReleaseGateway(token, baseURL, project string, logger interfaces.Logger) (*GitLabReleaseGateway, error) {
	var (
		client *gitlab.Client
		err    error
	)
	if baseURL != "" {
		client, err = gitlab.NewClient(token, gitlab.WithBaseURL(baseURL))
	} else {
		client, err = gitlab.NewClient(token)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create GitLab client: %w", err)
	}

	return NewGitLabReleaseGatewayWithClient(client, project, logger), nil
}

// NewGitLabReleaseGatewayWithClient creates a gateway over an existing
// client, for tests
func NewGitLabReleaseGatewayWithClient(client *gitlab.Client, project string, logger interfaces.Logger) *GitLabReleaseGateway {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &GitLabReleaseGateway{client: client, project: project, logger: logger}
}

// EnsureRelease returns the release for the tag, creating it when absent
func (g *GitLabReleaseGateway) EnsureRelease(_ context.Context, release *gateways.ForgeRelease) (*gateways.ForgeRelease, error) {
	existing, resp, err := g.client.Releases.GetRelease(g.project, release.TagName)
	if err == nil {
		g.logger.Debug("release already exists", interfaces.F("tag", release.TagName))
		return convertGitLabRelease(existing), nil
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		return nil, fmt.Errorf("failed to look up release %s: %w", release.TagName, err)
	}

	created, _, err := g.client.Releases.CreateRelease(g.project, &gitlab.CreateReleaseOptions{
		Name:        gitlab.String(release.Name),
		TagName:     gitlab.String(release.TagName),
		Description: gitlab.String(release.Body),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create release %s: %w", release.TagName, err)
	}

	g.logger.Info("release created", interfaces.F("tag", release.TagName))
	return convertGitLabRelease(created), nil
}

// UploadAsset uploads a local file to the project and attaches it to the
// release as a link
func (g *GitLabReleaseGateway) UploadAsset(_ context.Context, release *gateways.ForgeRelease, path string) (*gateways.ForgeAsset, error) {
	uploaded, _, err := g.client.Projects.UploadFile(g.project, path)
	if err != nil {
		return nil, fmt.Errorf("failed to upload asset %s: %w", filepath.Base(path), err)
	}

	link, _, err := g.client.ReleaseLinks.CreateReleaseLink(g.project, release.TagName, &gitlab.CreateReleaseLinkOptions{
		Name: gitlab.String(filepath.Base(path)),
		URL:  gitlab.String(uploaded.URL),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to link asset %s: %w", filepath.Base(path), err)
	}

	return &gateways.ForgeAsset{
		ID:   int64(link.ID),
		Name: link.Name,
		URL:  link.URL,
	}, nil
}

// ListAssets lists the links attached to a release
func (g *GitLabReleaseGateway) ListAssets(_ context.Context, release *gateways.ForgeRelease) ([]*gateways.ForgeAsset, error) {
	links, _, err := g.client.ReleaseLinks.ListReleaseLinks(g.project, release.TagName, &gitlab.ListReleaseLinksOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list release links: %w", err)
	}

	assets := make([]*gateways.ForgeAsset, 0, len(links))
	for _, link := range links {
		assets = append(assets, &gateways.ForgeAsset{
			ID:   int64(link.ID),
			Name: link.Name,
			URL:  link.URL,
		})
	}
	return assets, nil
}

func convertGitLabRelease(release *gitlab.Release) *gateways.ForgeRelease {
	return &gateways.ForgeRelease{
		TagName: release.TagName,
		Name:    release.Name,
		Body:    release.Description,
	}
}
