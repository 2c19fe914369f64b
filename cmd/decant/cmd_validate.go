package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ochairo/decant/internal/domain-adapters/gateways"
	"github.com/ochairo/decant/internal/domain/services"
)

func runValidate(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	flagProps := propertyFlags{}
	var (
		dir      = fs.String("dir", ".", "Project directory containing the manifest")
		stageDir = fs.String("stage", "stage", "Staged repository tree to validate")
		deep     = fs.Bool("deep", false, "Inspect archive artifacts for emptiness and manifests")
		quiet    = fs.Bool("quiet", false, "Only print failures")
		logLevel = fs.String("log-level", "info", "Log level (debug, info, warn, error)")
	)
	fs.Var(flagProps, "P", "Set a property (key=value, repeatable)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: decant validate [options]

Diff each publication's expected file set (POM, artifacts, checksums,
and signatures when signing is required) against what the staged tree
actually contains.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  decant validate
  decant validate --stage out/stage --deep
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

	finder := gateways.NewArtifactFinder()
	staged, err := finder.ListFiles(*stageDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitFailure)
	}

	layout := services.NewRepositoryLayout()
	validation := services.NewValidationService()
	inspector := gateways.NewArchiveInspector()

	failed := false
	for _, sub := range manifest.Subprojects() {
		for _, pub := range sub.Publications {
			coords := sub.Coordinates(pub)

			// Metadata and build info live outside the version
			// directory; only files under it belong to this
			// publication.
			versionDir := layout.VersionDir(coords) + "/"
			var present []string
			for _, path := range staged {
				if strings.HasPrefix(path, versionDir) {
					present = append(present, path)
				}
			}

			result := validation.Validate(sub, pub, present)
			if result.IsReady() {
				if !*quiet {
					fmt.Printf("ok   %s (%d files)\n", coords, result.PresentCount)
				}
			} else {
				failed = true
				fmt.Printf("FAIL %s\n", coords)
				fmt.Printf("     %s\n", result.ErrorMessage(coords.String()))
				for _, missing := range result.MissingFiles {
					fmt.Printf("     missing:    %s\n", missing)
				}
				for _, unexpected := range result.UnexpectedFiles {
					fmt.Printf("     unexpected: %s\n", unexpected)
				}
			}

			if *deep {
				if !inspectArchives(inspector, *stageDir, present, *quiet) {
					failed = true
				}
			}
		}
	}

	if failed {
		os.Exit(exitFailure)
	}
}

// inspectArchives opens each staged jar or zip and reports empty
// archives as failures
func inspectArchives(inspector *gateways.ArchiveInspector, stageDir string, present []string, quiet bool) bool {
	ok := true
	for _, path := range present {
		ext := filepath.Ext(path)
		if ext != ".jar" && ext != ".zip" {
			continue
		}

		inspection, err := inspector.Inspect(filepath.Join(stageDir, filepath.FromSlash(path)))
		if err != nil {
			fmt.Printf("FAIL %s: %v\n", path, err)
			ok = false
			continue
		}
		if inspection.Empty() {
			fmt.Printf("FAIL %s: archive has no entries\n", path)
			ok = false
			continue
		}
		if !quiet {
			fmt.Printf("ok   %s (%d entries, manifest=%t)\n",
				path, inspection.Entries, inspection.HasManifest)
		}
	}
	return ok
}
