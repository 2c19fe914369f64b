package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ochairo/decant/internal/config"
	"github.com/ochairo/decant/internal/domain/entities"
	"github.com/ochairo/decant/internal/domain/services"
	"github.com/ochairo/decant/internal/external-adapters/yaml"
	"github.com/ochairo/decant/internal/external-adapters/zerolog"
)

// Exit codes: 0 success, 1 operation failed, 2 usage or system error
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(exitUsage)
	}

	ctx := context.Background()
	command := os.Args[1]

	// Dispatch to subcommand
	switch command {
	case "publish":
		runPublish(ctx, os.Args[2:])
	case "plan":
		runPlan(ctx, os.Args[2:])
	case "pom":
		runPom(ctx, os.Args[2:])
	case "sign":
		runSign(ctx, os.Args[2:])
	case "verify":
		runVerify(ctx, os.Args[2:])
	case "validate":
		runValidate(ctx, os.Args[2:])
	case "mirror":
		runMirror(ctx, os.Args[2:])
	case "doctor":
		runDoctor(ctx, os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(exitUsage)
	}
}

func printUsage() {
	fmt.Println(`decant - Maven-style artifact publisher

Usage:
  decant <command> [options]

Commands:
  publish   Stage, sign, and deploy publications to repositories
  plan      Show the effective publish configuration
  pom       Render a publication's POM document
  sign      Produce detached signatures for files
  verify    Verify checksums and signatures of a staged tree
  validate  Check publication completeness before release
  mirror    Upload staged artifacts to a forge release page
  doctor    Diagnose the publishing environment

Use "decant <command> --help" for more information about a command.`)
}

// propertyFlags collects repeated -P key=value flags
type propertyFlags map[string]string

func (p propertyFlags) String() string {
	pairs := make([]string, 0, len(p))
	for k, v := range p {
		pairs = append(pairs, k+"="+v)
	}
	return strings.Join(pairs, ",")
}

func (p propertyFlags) Set(value string) error {
	key, val, found := strings.Cut(value, "=")
	if !found || key == "" {
		return fmt.Errorf("expected key=value, got %q", value)
	}
	p[key] = val
	return nil
}

// newLogger builds the CLI logger at the requested level
func newLogger(level string) *zerolog.Logger {
	return zerolog.New(level, os.Stderr)
}

// loadManifest reads the manifest and the optional decant.properties file
// from dir
func loadManifest(ctx context.Context, dir string) (*entities.Manifest, map[string]string, error) {
	manifest, err := yaml.NewManifestRepository().GetManifest(ctx, dir)
	if err != nil {
		return nil, nil, err
	}

	fileProps, err := config.LoadProperties(filepath.Join(manifest.Root.RootDir, "decant.properties"))
	if err != nil {
		return nil, nil, err
	}

	return manifest, fileProps, nil
}

// configureTree applies the publish configuration to every subproject.
// Property precedence within a project: manifest root properties, then
// the subproject's own, then decant.properties, then -P flags.
func configureTree(manifest *entities.Manifest, fileProps, flagProps map[string]string, logger *zerolog.Logger) {
	info := entities.DefaultProjectInfo()
	if manifest.Info != nil {
		info = *manifest.Info
	}

	log := logger.WithComponent("configure")
	for _, sub := range manifest.Subprojects() {
		props := config.MergeProperties(manifest.Root.Properties, sub.Properties, fileProps, flagProps)
		resolver := config.NewResolver(props, log)
		configurator := services.NewConfigurator(resolver, info, log)
		configurator.Configure(sub, services.Options{Pom: sub.PomOptions})
	}
}

// findSubproject returns the named subproject, or the only one when name
// is empty
func findSubproject(manifest *entities.Manifest, name string) (*entities.Project, error) {
	subs := manifest.Subprojects()
	if name == "" {
		if len(subs) == 1 {
			return subs[0], nil
		}
		return nil, fmt.Errorf("manifest has %d subprojects, select one with --project", len(subs))
	}
	for _, sub := range subs {
		if sub.Name == name {
			return sub, nil
		}
	}
	return nil, fmt.Errorf("no subproject named %s", name)
}
