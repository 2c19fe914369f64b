package gateways

import (
	"fmt"

	"github.com/go-git/go-git/v5"
)

// GitDescriber reports the source-control state of the project tree
// using go-git, without shelling out to a git binary
type GitDescriber struct{}

// NewGitDescriber creates a new git describer
func NewGitDescriber() *GitDescriber {
	return &GitDescriber{}
}

// Describe returns the HEAD revision, branch, origin remote URL, and
// dirtiness of the repository containing dir
func (d *GitDescriber) Describe(dir string) (revision, branch, remoteURL string, dirty bool, err error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", "", "", false, fmt.Errorf("failed to open git repository: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return "", "", "", false, fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	revision = head.Hash().String()
	if head.Name().IsBranch() {
		branch = head.Name().Short()
	}

	// A missing origin remote is not an error; the URL just stays empty
	if remote, remoteErr := repo.Remote(git.DefaultRemoteName); remoteErr == nil {
		if urls := remote.Config().URLs; len(urls) > 0 {
			remoteURL = urls[0]
		}
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return revision, branch, remoteURL, false, nil
	}
	status, err := worktree.Status()
	if err != nil {
		return revision, branch, remoteURL, false, nil
	}
	dirty = !status.IsClean()

	return revision, branch, remoteURL, dirty, nil
}
