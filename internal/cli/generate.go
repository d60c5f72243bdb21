// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/api2spec/axum2spec/internal/openapi"
)

var (
	generateDryRun       bool
	generateStrict       bool
	generateFollowChains bool
	generateInclude      []string
	generateExclude      []string
	generateSeeds        []string
)

var generateCmd = &cobra.Command{
	Use:   "generate [paths...]",
	Short: "Generate OpenAPI specification from source code",
	Long: `Generate an OpenAPI specification by analyzing your axum source code.

The generate command scans your Rust source files, collects the routes
registered in main, classifies handler parameters into query parameters
and request bodies, and resolves every referenced struct into a component
schema of an OpenAPI 3.0.3 document.

Example:
  axum2spec generate                           # Generate from configured paths
  axum2spec generate ./src/main.rs             # Generate from a single file
  axum2spec generate --strict                  # Fail on any warning
  axum2spec generate --seed Claims             # Also emit the Claims component
  axum2spec generate --dry-run                 # Print instead of writing`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().BoolVar(&generateDryRun, "dry-run", false, "print output instead of writing to file")
	generateCmd.Flags().BoolVar(&generateStrict, "strict", false, "treat warnings as errors")
	generateCmd.Flags().BoolVar(&generateFollowChains, "follow-chains", false, "register route calls nested in a builder chain")
	generateCmd.Flags().StringSliceVarP(&generateInclude, "include", "i", nil, "glob patterns to include")
	generateCmd.Flags().StringSliceVarP(&generateExclude, "exclude", "e", nil, "glob patterns to exclude")
	generateCmd.Flags().StringSliceVar(&generateSeeds, "seed", nil, "extra type names to resolve into components")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Apply command-line overrides
	if generateStrict {
		cfg.Generation.StrictMode = true
	}
	if generateFollowChains {
		cfg.Routes.FollowChains = true
	}
	if len(generateInclude) > 0 {
		cfg.Source.Include = generateInclude
	}
	if len(generateExclude) > 0 {
		cfg.Source.Exclude = generateExclude
	}
	if len(generateSeeds) > 0 {
		cfg.Generation.SeedTypes = append(cfg.Generation.SeedTypes, generateSeeds...)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	paths := sourcePaths(cfg, args)

	printVerbose("Configuration:")
	printVerbose("  Output: %s", cfg.Output)
	printVerbose("  Format: %s", cfg.Format)
	printVerbose("  Strict: %t", cfg.Generation.StrictMode)
	printVerbose("  Paths: %s", strings.Join(paths, ", "))

	res, err := generateDocument(commandContext(cmd), cfg, paths, nil)
	if err != nil {
		return fmt.Errorf("failed to generate spec: %w", err)
	}
	printWarnings(res.Diagnostics)

	writer := openapi.NewWriter()
	if generateDryRun {
		return writer.Write(res.Document, cmd.OutOrStdout(), cfg.Format)
	}

	if err := writer.WriteFile(res.Document, cfg.Output, cfg.Format); err != nil {
		return fmt.Errorf("failed to write spec: %w", err)
	}
	printInfo("Wrote %s (%d paths, %d schemas)", cfg.Output, len(res.Document.Paths), len(res.Document.Components.Schemas))

	return nil
}
