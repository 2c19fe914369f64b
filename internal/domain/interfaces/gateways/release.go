package gateways

import "context"

// ForgeRelease represents a release page on a code forge
type ForgeRelease struct {
	ID         int64
	TagName    string
	Name       string
	Body       string
	Draft      bool
	Prerelease bool
	HTMLURL    string
}

// ForgeAsset represents a file attached to a forge release
type ForgeAsset struct {
	ID   int64
	Name string
	URL  string
	Size int64
}

// ReleaseGateway mirrors a publication to a forge release page
type ReleaseGateway interface {
	// EnsureRelease returns the release for tag, creating it when absent
	EnsureRelease(ctx context.Context, release *ForgeRelease) (*ForgeRelease, error)

	// UploadAsset attaches a local file to a release
	UploadAsset(ctx context.Context, release *ForgeRelease, path string) (*ForgeAsset, error)

	// ListAssets lists the files attached to a release
	ListAssets(ctx context.Context, release *ForgeRelease) ([]*ForgeAsset, error)
}
