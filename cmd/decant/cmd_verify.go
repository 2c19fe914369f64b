package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ochairo/decant/internal/config"
	"github.com/ochairo/decant/internal/domain-adapters/gateways"
	"github.com/ochairo/decant/internal/domain/entities"
	ifgateways "github.com/ochairo/decant/internal/domain/interfaces/gateways"
	"github.com/ochairo/decant/internal/domain/services"
	"github.com/ochairo/decant/internal/external-adapters/gpg"
)

func runVerify(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	flagProps := propertyFlags{}
	var (
		stageDir = fs.String("stage", "stage", "Staged repository tree to verify")
		remote   = fs.String("remote", "", "Repository URL: verify deployed files instead of the staged tree")
		quiet    = fs.Bool("quiet", false, "Only print the summary line")
		logLevel = fs.String("log-level", "info", "Log level (debug, info, warn, error)")
	)
	fs.Var(flagProps, "P", "Set a property (key=value, repeatable)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: decant verify [options]

Recompute every checksum companion under the staged tree and check every
detached signature against the configured keyring. Signature checks are
skipped when no keyring is configured. With --remote, the staged tree's
paths are fetched from the deployed repository and those bytes are
verified instead.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  decant verify
  decant verify --stage out/stage -P signSecretRingFileKotlin="$RING"
  decant verify --remote https://maven.pkg.github.com/ochairo/decant
`)
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(exitUsage)
	}

	logger := newLogger(*logLevel)
	resolver := config.NewResolver(flagProps, logger)

	var signature ifgateways.SignatureVerifier
	if ring := resolver.Value(services.SignSecretRingKey); ring != "" {
		gpgVerifier, err := gpg.NewVerifier(entities.DecodeKeyRing(ring))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to load keyring: %v\n", err)
			os.Exit(exitFailure)
		}
		signature = gpgVerifier
	}

	root := *stageDir
	if *remote != "" {
		target := entities.RepositoryTarget{Name: "remote", URL: *remote}
		actor := resolver.Value(services.GitHubActorKey)
		token := resolver.Value(services.GitHubTokenKey)
		if actor != "" && token != "" {
			target.Credentials = &entities.Credentials{Username: actor, Password: token}
		}

		mirrored, err := mirrorRemote(ctx, target, *stageDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(exitFailure)
		}
		defer os.RemoveAll(mirrored) //nolint:errcheck // Best-effort temp cleanup
		root = mirrored
	}

	verifier := gateways.NewCompositeVerifier(signature)

	checksums, err := verifier.VerifyChecksums(ctx, root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitFailure)
	}
	signatures, err := verifier.VerifySignatures(ctx, root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitFailure)
	}

	results := append(checksums, signatures...)
	if !*quiet {
		for _, result := range results {
			switch {
			case result.Check == entities.CheckSignature && signature == nil:
				fmt.Printf("  skip %-9s %s\n", result.Check, result.Path)
			case result.OK:
				fmt.Printf("  ok   %-9s %s\n", result.Check, result.Path)
			default:
				fmt.Printf("  FAIL %-9s %s: %v\n", result.Check, result.Path, result.Err)
			}
		}
	}

	summary := verifier.Summarize(results)
	fmt.Printf("verified %d, failed %d, skipped %d\n",
		summary.Verified, summary.Failed, summary.Skipped)
	if !summary.Passed() {
		os.Exit(exitFailure)
	}
}

// mirrorRemote fetches the staged tree's repository paths from the remote
// target into a temporary tree, so deployed bytes run through the same
// verification as a local tree
func mirrorRemote(ctx context.Context, target entities.RepositoryTarget, stageDir string) (string, error) {
	gateway, err := gateways.NewDeployGateway(target)
	if err != nil {
		return "", err
	}
	paths, err := gateways.NewArtifactFinder().ListFiles(stageDir)
	if err != nil {
		return "", err
	}
	if len(paths) == 0 {
		return "", fmt.Errorf("no staged files under %s to check against the remote", stageDir)
	}

	root, err := os.MkdirTemp("", "decant-verify-")
	if err != nil {
		return "", fmt.Errorf("failed to create verification dir: %w", err)
	}
	for _, path := range paths {
		if err := fetchRemote(ctx, gateway, root, path); err != nil {
			return "", err
		}
	}
	return root, nil
}

func fetchRemote(ctx context.Context, gateway ifgateways.DeployGateway, root, path string) error {
	content, err := gateway.Get(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", path, err)
	}
	//nolint:errcheck // Defer close on fully-read body
	defer content.Close()

	local := filepath.Join(root, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(local), 0750); err != nil {
		return fmt.Errorf("failed to create verification dir: %w", err)
	}
	//nolint:gosec // G304: path addresses the temporary verification tree
	f, err := os.Create(local)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, content); err != nil {
		//nolint:errcheck // Close on the error path
		f.Close()
		return fmt.Errorf("failed to mirror %s: %w", path, err)
	}
	return f.Close()
}
