package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ochairo/decant/internal/domain-adapters/gateways"
	orchestrators "github.com/ochairo/decant/internal/domain-orchestrators"
	"github.com/ochairo/decant/internal/domain/entities"
	ifgateways "github.com/ochairo/decant/internal/domain/interfaces/gateways"
	"github.com/ochairo/decant/internal/external-adapters/buildinfo"
)

func runPublish(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("publish", flag.ExitOnError)
	flagProps := propertyFlags{}
	var (
		manifestDir = fs.String("dir", ".", "Project tree root containing decant.yml")
		stageDir    = fs.String("stage", "stage", "Staging directory for the repository layout")
		repo        = fs.String("repo", "", "Deploy only to the named repository")
		dryRun      = fs.Bool("dry-run", false, "Stage and sign but do not deploy")
		noOverwrite = fs.Bool("no-overwrite", false, "Fail when an artifact already exists on the target")
		parallel    = fs.Int("parallel", 4, "Concurrent uploads per repository")
		useAgent    = fs.Bool("use-agent", false, "Sign through the gpg command instead of in-memory keys")
		logLevel    = fs.String("log-level", "info", "Log level (debug, info, warn, error)")
	)
	fs.Var(flagProps, "P", "Set a project property (key=value, repeatable)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: decant publish [options]

Run the full publish pipeline: stage publications in the Maven repository
layout, write checksum companions, sign when required, render repository
metadata, deploy to every registered repository, and record build info.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  decant publish
  decant publish --dry-run -P testRepository=build/test-repo
  decant publish --repo GitHubPackages --no-overwrite
`)
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(exitUsage)
	}

	logger := newLogger(*logLevel)

	manifest, fileProps, err := loadManifest(ctx, *manifestDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitUsage)
	}

	configureTree(manifest, fileProps, flagProps, logger)
	if *useAgent {
		for _, sub := range manifest.Subprojects() {
			sub.Signing.UseAgent = true
		}
	}

	orchestrator := orchestrators.NewPublishOrchestrator(
		gateways.NewStager(),
		gateways.NewChecksumWriter(),
		gateways.NewMetadataWriter(),
		gateways.NewHookExecutor(logger.WithComponent("hooks")),
		func(cfg *entities.SigningConfig) (ifgateways.Signer, error) {
			adapter, err := gateways.NewSignerAdapter(cfg, logger.WithComponent("signing"))
			if err != nil {
				return nil, err
			}
			return adapter, nil
		},
		gateways.NewDeployGateway,
		gateways.NewGitDescriber(),
		buildinfo.NewWriter(),
		logger.WithComponent("publish"),
		orchestrators.PublishConfig{
			StageDir:    *stageDir,
			DryRun:      *dryRun,
			NoOverwrite: *noOverwrite,
			Parallel:    *parallel,
			Repository:  *repo,
		},
	)

	result, err := orchestrator.Publish(ctx, manifest.Subprojects(), buildinfo.New(*dryRun))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitFailure)
	}

	for _, projectResult := range result.Projects {
		fmt.Printf("%-20s %d files", projectResult.Project.Name, len(projectResult.Files))
		if projectResult.Signed {
			fmt.Print(", signed")
		}
		if len(projectResult.Deployed) > 0 {
			fmt.Printf(", deployed to %v", projectResult.Deployed)
		} else if *dryRun {
			fmt.Print(", deploy skipped (dry run)")
		}
		fmt.Println()
	}
	fmt.Printf("\nBuild info: %s (run %s)\n", result.BuildInfoPath, result.BuildInfo.ID)
	fmt.Printf("Completed in %v\n", result.TotalDuration)
}
