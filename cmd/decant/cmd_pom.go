package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ochairo/decant/internal/domain-adapters/gateways"
)

func runPom(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("pom", flag.ExitOnError)
	flagProps := propertyFlags{}
	var (
		manifestDir = fs.String("dir", ".", "Project tree root containing decant.yml")
		project     = fs.String("project", "", "Subproject to render (defaults to the only one)")
		publication = fs.String("publication", "", "Publication to render (defaults to the first)")
		output      = fs.String("o", "", "Write to file instead of stdout")
		logLevel    = fs.String("log-level", "warn", "Log level (debug, info, warn, error)")
	)
	fs.Var(flagProps, "P", "Set a project property (key=value, repeatable)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: decant pom [options]

Render the POM document of a publication with the configured metadata,
exactly as the publish pipeline would stage it.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  decant pom
  decant pom --project core --publication maven -o core.pom
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

	sub, err := findSubproject(manifest, *project)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitUsage)
	}

	pub := sub.Publications[0]
	if *publication != "" {
		pub = nil
		for _, candidate := range sub.Publications {
			if candidate.Name == *publication {
				pub = candidate
				break
			}
		}
		if pub == nil {
			fmt.Fprintf(os.Stderr, "Error: no publication named %s in %s\n", *publication, sub.Name)
			os.Exit(exitUsage)
		}
	}

	writer := gateways.NewPomWriter()
	if *output != "" {
		if err := writer.WriteFile(*output, sub, pub); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(exitFailure)
		}
		fmt.Printf("POM written to %s\n", *output)
		return
	}

	if err := writer.Write(os.Stdout, sub, pub); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitFailure)
	}
	fmt.Println()
}
