package gateways

import "context"

// Signer produces detached armored signatures for repository files
type Signer interface {
	// Sign writes a detached armored signature next to path and returns
	// the signature path
	Sign(ctx context.Context, path string) (string, error)
}

// SignatureVerifier checks detached armored signatures
type SignatureVerifier interface {
	// VerifySignature checks sigPath against the signed file at path
	VerifySignature(ctx context.Context, path, sigPath string) error
}

// VCSDescriber reports the source-control state of a directory
type VCSDescriber interface {
	// Describe returns revision, branch, remote URL, and dirtiness of the
	// repository containing dir
	Describe(dir string) (revision, branch, remoteURL string, dirty bool, err error)
}
