package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ochairo/decant/internal/config"
	"github.com/ochairo/decant/internal/domain-adapters/gateways"
	"github.com/ochairo/decant/internal/domain/entities"
	"github.com/ochairo/decant/internal/domain/services"
)

func runSign(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("sign", flag.ExitOnError)
	flagProps := propertyFlags{}
	var (
		useAgent = fs.String("use-agent", "", "Sign through the gpg command with the given key (empty key lets gpg choose)")
		agent    = fs.Bool("agent", false, "Sign through the gpg command with the configured key")
		logLevel = fs.String("log-level", "info", "Log level (debug, info, warn, error)")
	)
	fs.Var(flagProps, "P", "Set a property (key=value, repeatable)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: decant sign [options] <file>...

Produce a detached armored signature (.asc) next to each file. Key
material comes from the signSecretRingFileKotlin and signPasswordKotlin
configuration values (property first, then environment), with the ring's
'#' delimiters restored to newlines.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  decant sign build/libs/core-1.0.0.jar
  decant sign --agent stage/com/example/core/1.0.0/core-1.0.0.jar
`)
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(exitUsage)
	}
	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: at least one file is required\n\n")
		fs.Usage()
		os.Exit(exitUsage)
	}

	logger := newLogger(*logLevel)
	resolver := config.NewResolver(flagProps, logger)

	signing := &entities.SigningConfig{
		Required: true,
		UseAgent: *agent || *useAgent != "",
		Material: entities.SigningMaterial{
			KeyID:      services.SigningKeyID,
			Ring:       entities.DecodeKeyRing(resolver.Value(services.SignSecretRingKey)),
			Passphrase: resolver.Value(services.SignPasswordKey),
		},
	}
	if *useAgent != "" {
		signing.Material.KeyID = *useAgent
	}

	signer, err := gateways.NewSignerAdapter(signing, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitFailure)
	}

	signatures, err := signer.SignAll(ctx, fs.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitFailure)
	}
	for _, sigPath := range signatures {
		fmt.Printf("signed: %s\n", sigPath)
	}
}
