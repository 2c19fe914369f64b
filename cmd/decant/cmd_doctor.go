package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/ochairo/decant/internal/config"
	"github.com/ochairo/decant/internal/domain-adapters/gateways"
	"github.com/ochairo/decant/internal/domain/entities"
	"github.com/ochairo/decant/internal/domain/services"
	"github.com/ochairo/decant/internal/external-adapters/gpg"
	"github.com/ochairo/decant/internal/external-adapters/gpgcli"
)

func runDoctor(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("doctor", flag.ExitOnError)
	flagProps := propertyFlags{}
	var (
		dir      = fs.String("dir", ".", "Project directory containing the manifest")
		remote   = fs.Bool("remote", false, "Probe configured remote repositories")
		logLevel = fs.String("log-level", "warn", "Log level (debug, info, warn, error)")
	)
	fs.Var(flagProps, "P", "Set a property (key=value, repeatable)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: decant doctor [options]

Report the effective publishing environment: resolved configuration
(sensitive values masked), signing key material, gpg availability, the
state of the working copy, and optionally remote reachability.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  decant doctor
  decant doctor --remote
`)
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(exitUsage)
	}

	logger := newLogger(*logLevel)
	manifest, fileProps, err := loadManifest(ctx, *dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitFailure)
	}
	configureTree(manifest, fileProps, flagProps, logger)

	healthy := true

	fmt.Println("Configuration:")
	props := config.MergeProperties(manifest.Root.Properties, fileProps, flagProps)
	resolver := config.NewResolver(props, logger)
	for _, key := range []string{
		services.SignBuildKey,
		services.SignSecretRingKey,
		services.SignPasswordKey,
		services.TestRepositoryKey,
		services.GitHubActorKey,
		services.GitHubTokenKey,
	} {
		value := resolver.Value(key)
		state := "unset"
		if resolver.Has(key) || value != "" {
			state = config.Mask(key, value)
			if state == "" {
				state = "(set, empty)"
			}
		}
		fmt.Printf("  %-26s %s\n", key, state)
	}

	fmt.Println("Signing:")
	if ring := resolver.Value(services.SignSecretRingKey); ring != "" {
		verifier, err := gpg.NewVerifier(entities.DecodeKeyRing(ring))
		if err != nil {
			fmt.Printf("  keyring: UNREADABLE (%v)\n", err)
			healthy = false
		} else {
			fmt.Printf("  keyring: %d key(s), signing key %s\n",
				verifier.KeyringSize(), services.SigningKeyID)
		}
	} else {
		fmt.Println("  keyring: not configured")
	}
	if gpgcli.IsGPGInstalled() {
		fmt.Println("  gpg command: available")
	} else {
		fmt.Println("  gpg command: not found (agent signing unavailable)")
	}

	fmt.Println("Working copy:")
	revision, branch, remoteURL, dirty, err := gateways.NewGitDescriber().Describe(manifest.Root.RootDir)
	if err != nil {
		fmt.Printf("  not a git repository (%v)\n", err)
	} else {
		fmt.Printf("  revision: %s\n", revision)
		fmt.Printf("  branch:   %s\n", branch)
		fmt.Printf("  remote:   %s\n", remoteURL)
		if dirty {
			fmt.Println("  status:   DIRTY (uncommitted changes)")
			healthy = false
		} else {
			fmt.Println("  status:   clean")
		}

		info := entities.DefaultProjectInfo()
		if manifest.Info != nil {
			info = *manifest.Info
		}
		if remoteURL != "" && !scmMatchesRemote(info.SCM, remoteURL) {
			fmt.Printf("  warning:  POM scm (%s) does not match the git remote\n", info.SCM.URL)
		}
	}

	fmt.Println("Repositories:")
	for _, sub := range manifest.Subprojects() {
		for _, target := range sub.Repositories {
			line := fmt.Sprintf("  %-16s %s", target.Name, target.URL)
			if target.HasCredentials() {
				line += " (authenticated)"
			}
			if *remote {
				line += "  " + probeRepository(ctx, target)
			}
			fmt.Println(line)
		}
	}

	if healthy {
		fmt.Println("No problems found.")
	} else {
		fmt.Println("Problems found.")
		os.Exit(exitFailure)
	}
}

// scmMatchesRemote compares the repository slug of the POM scm URL with
// the one git reports, tolerating protocol and .git differences
func scmMatchesRemote(scm entities.SCM, remoteURL string) bool {
	return repositorySlug(scm.URL) == repositorySlug(remoteURL)
}

func repositorySlug(url string) string {
	slug := strings.TrimSuffix(url, "/")
	slug = strings.TrimSuffix(slug, ".git")
	slug = strings.TrimSuffix(slug, "/tree/main")
	for _, prefix := range []string{"https://", "http://", "git://", "ssh://", "git@"} {
		slug = strings.TrimPrefix(slug, prefix)
	}
	return strings.ReplaceAll(slug, ":", "/")
}

// probeRepository checks whether the repository answers at all by
// probing for a file that should not exist
func probeRepository(ctx context.Context, target entities.RepositoryTarget) string {
	gateway, err := gateways.NewDeployGateway(target)
	if err != nil {
		return fmt.Sprintf("[unsupported: %v]", err)
	}
	if _, err := gateway.Exists(ctx, ".decant-probe"); err != nil {
		return fmt.Sprintf("[unreachable: %v]", err)
	}
	return "[reachable]"
}
