package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ochairo/decant/internal/domain-adapters/gateways"
	ifgateways "github.com/ochairo/decant/internal/domain/interfaces/gateways"
	orchestrators "github.com/ochairo/decant/internal/domain-orchestrators"
)

func runMirror(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("mirror", flag.ExitOnError)
	var (
		provider   = fs.String("provider", "github", "Release forge (github or gitlab)")
		stageDir   = fs.String("stage", "stage", "Staged repository tree to mirror")
		tag        = fs.String("tag", "", "Release tag (required)")
		name       = fs.String("name", "", "Release title (defaults to the tag)")
		notes      = fs.String("notes", "", "Release notes body")
		prerelease = fs.Bool("prerelease", false, "Mark the release as a prerelease")
		companions = fs.Bool("companions", false, "Also upload checksum and signature files")
		buildInfo  = fs.String("build-info", "", "Build info file to attach")
		owner      = fs.String("owner", "", "GitHub repository owner")
		repo       = fs.String("repo", "", "GitHub repository name")
		project    = fs.String("gitlab-project", "", "GitLab project ID or path")
		baseURL    = fs.String("base-url", "", "GitLab instance URL (defaults to gitlab.com)")
		logLevel   = fs.String("log-level", "info", "Log level (debug, info, warn, error)")
	)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: decant mirror [options]

Ensure a release exists for the tag on the chosen forge and attach the
staged artifacts as downloadable assets. Assets already present on the
release are skipped, so re-running is safe.

Authentication comes from the GITHUB_TOKEN or GITLAB_TOKEN environment
variable depending on the provider.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  decant mirror --tag v1.0.0 --owner ochairo --repo decant
  decant mirror --provider gitlab --tag v1.0.0 --gitlab-project ochairo/decant --companions
`)
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(exitUsage)
	}
	if *tag == "" {
		fmt.Fprintf(os.Stderr, "Error: --tag is required\n\n")
		fs.Usage()
		os.Exit(exitUsage)
	}

	logger := newLogger(*logLevel).WithComponent("mirror")

	var gateway ifgateways.ReleaseGateway
	switch *provider {
	case "github":
		if *owner == "" || *repo == "" {
			fmt.Fprintf(os.Stderr, "Error: --owner and --repo are required for github\n")
			os.Exit(exitUsage)
		}
		token := os.Getenv("GITHUB_TOKEN")
		if token == "" {
			fmt.Fprintf(os.Stderr, "Error: GITHUB_TOKEN is not set\n")
			os.Exit(exitFailure)
		}
		gateway = gateways.NewGitHubReleaseGateway(token, *owner, *repo, logger)
	case "gitlab":
		if *project == "" {
			fmt.Fprintf(os.Stderr, "Error: --gitlab-project is required for gitlab\n")
			os.Exit(exitUsage)
		}
		token := os.Getenv("GITLAB_TOKEN")
		if token == "" {
			fmt.Fprintf(os.Stderr, "Error: GITLAB_TOKEN is not set\n")
			os.Exit(exitFailure)
		}
		gitlabGateway, err := gateways.NewGitLabReleaseGateway(token, *baseURL, *project, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(exitFailure)
		}
		gateway = gitlabGateway
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown provider %q\n", *provider)
		os.Exit(exitUsage)
	}

	orchestrator := orchestrators.NewMirrorOrchestrator(gateway, gateways.NewArtifactFinder(), logger)
	result, err := orchestrator.Mirror(ctx, orchestrators.MirrorConfig{
		StageDir:      *stageDir,
		Tag:           *tag,
		Name:          *name,
		Notes:         *notes,
		Prerelease:    *prerelease,
		BuildInfoPath: *buildInfo,
		Companions:    *companions,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitFailure)
	}

	fmt.Printf("release %s: uploaded %d asset(s), skipped %d, took %s\n",
		result.Release.TagName, len(result.Uploaded), len(result.Skipped),
		result.Duration.Round(time.Millisecond))
	for _, uploaded := range result.Uploaded {
		fmt.Printf("  uploaded: %s\n", uploaded)
	}
	for _, skipped := range result.Skipped {
		fmt.Printf("  skipped:  %s\n", skipped)
	}
}
