package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ochairo/decant/internal/domain/services"
)

func runPlan(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("plan", flag.ExitOnError)
	flagProps := propertyFlags{}
	var (
		manifestDir = fs.String("dir", ".", "Project tree root containing decant.yml")
		logLevel    = fs.String("log-level", "warn", "Log level (debug, info, warn, error)")
	)
	fs.Var(flagProps, "P", "Set a project property (key=value, repeatable)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: decant plan [options]

Show the effective publish configuration: per subproject, the
publications with their coordinates, the registered repositories, and
the signing state. Nothing is staged or deployed.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  decant plan
  decant plan -P signBuild=true -P testRepository=build/test-repo
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

	fmt.Printf("Project tree %s:%s (%d subprojects)\n\n", manifest.Group, manifest.Version, len(manifest.Subprojects()))

	for _, sub := range manifest.Subprojects() {
		fmt.Printf("  %s\n", sub.Name)

		for _, pub := range sub.Publications {
			coords := sub.Coordinates(pub)
			fmt.Printf("    publication %-12s %s\n", pub.Name, coords)
			fmt.Printf("    %-24s %s\n", "", coords.PURL())
			if pub.Pom.Name != "" {
				fmt.Printf("    %-24s %q: %s\n", "", pub.Pom.Name, pub.Pom.Description)
			}
			for _, artifact := range pub.Artifacts {
				classifier := artifact.Classifier
				if classifier != "" {
					classifier = " (" + classifier + ")"
				}
				fmt.Printf("      file: %s.%s%s\n", artifact.Path, artifact.Extension, classifier)
			}
		}

		if len(sub.Repositories) == 0 {
			fmt.Println("    repositories: none registered")
		}
		for _, target := range sub.Repositories {
			credentials := ""
			if target.HasCredentials() {
				credentials = " (authenticated)"
			}
			fmt.Printf("    repository %-12s %s%s\n", target.Name, target.URL, credentials)
		}

		if sub.Signing != nil {
			fmt.Printf("    signing: required=%t material=%t key=%s\n",
				sub.Signing.Required, sub.Signing.Material.Present(), services.SigningKeyID)
		}
		fmt.Println()
	}
}
