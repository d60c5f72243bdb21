// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/api2spec/axum2spec/internal/config"
	"github.com/api2spec/axum2spec/internal/engine"
	"github.com/api2spec/axum2spec/internal/openapi"
	"github.com/api2spec/axum2spec/internal/scanner"
)

// loadConfig loads the configuration and applies the global flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if output != "" {
		cfg.Output = output
		cfg.Format = openapi.FormatFromPath(output)
	}
	if format != "" {
		cfg.Format = format
	}
	return cfg, nil
}

// sourcePaths returns the paths given on the command line, or the configured
// source paths when there are none.
func sourcePaths(cfg *config.Config, args []string) []string {
	if len(args) > 0 {
		return args
	}
	return cfg.Source.Paths
}

// scanSources lists the Rust files below paths.
func scanSources(cfg *config.Config, paths []string) ([]string, error) {
	files, err := scanner.New(scanner.ConfigFrom(cfg, ".")).ScanPaths(paths)
	if err != nil {
		return nil, fmt.Errorf("failed to scan sources: %w", err)
	}
	return lo.Map(files, func(f scanner.SourceFile, _ int) string {
		return f.Path
	}), nil
}

// generateDocument resolves every source file below paths into one document.
// A nil provider parses each file afresh.
func generateDocument(ctx context.Context, cfg *config.Config, paths []string, provider engine.Provider) (*engine.Result, error) {
	files, err := scanSources(cfg, paths)
	if err != nil {
		return nil, err
	}
	printVerbose("Scanned %d source files in %s", len(files), strings.Join(paths, ", "))

	res, err := engine.New(cfg, provider).RunFiles(ctx, files)
	if err != nil {
		return nil, err
	}
	printVerbose("Found %d routes and %d components", len(res.Routes), res.Components.Count())
	if res.Components.Count() > 0 {
		printVerbose("Components: %s", strings.Join(res.Components.Names(), ", "))
	}
	return res, nil
}
