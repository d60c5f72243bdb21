// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/api2spec/axum2spec/internal/openapi"
)

// Exit codes for check command
const (
	ExitCodeMatch      = 0 // Spec matches implementation
	ExitCodeDifference = 1 // Spec differs from implementation
	ExitCodeCheckError = 2 // Error during analysis
)

// errSpecDiffers is returned when the spec file is out of date.
var errSpecDiffers = errors.New("spec differs from implementation")

var (
	checkStrict bool
	checkIgnore []string
	checkCI     bool
)

var checkCmd = &cobra.Command{
	Use:   "check [paths...]",
	Short: "Check if spec matches current implementation",
	Long: `Check validates that your OpenAPI specification matches your current code.

This command generates a spec from your source code and compares it with
the existing spec file. It's useful for CI pipelines to ensure the spec
is always in sync with the implementation.

Exit codes:
  0  Spec matches implementation
  1  Spec differs from implementation
  2  Error during analysis

Example:
  axum2spec check                      # Basic validation
  axum2spec check --strict=false       # Report differences without failing
  axum2spec check --ci                 # CI mode with appropriate exit codes
  axum2spec check --ignore '/health'   # Ignore a path
  axum2spec check --ignore '*Response' # Ignore matching schemas`,
	RunE: func(cmd *cobra.Command, args []string) error {
		err := runCheck(cmd, args)
		if checkCI {
			os.Exit(checkExitCode(err))
		}
		return err
	},
}

func init() {
	checkCmd.Flags().BoolVar(&checkStrict, "strict", true, "fail on any difference")
	checkCmd.Flags().StringSliceVar(&checkIgnore, "ignore", nil, "patterns to ignore in comparison (paths, schemas)")
	checkCmd.Flags().BoolVar(&checkCI, "ci", false, "CI mode: use exit codes for status")
}

// checkExitCode maps the outcome of a check run to its exit code.
func checkExitCode(err error) int {
	switch {
	case err == nil:
		return ExitCodeMatch
	case errors.Is(err, errSpecDiffers):
		return ExitCodeDifference
	default:
		return ExitCodeCheckError
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	paths := sourcePaths(cfg, args)

	printVerbose("Check configuration:")
	printVerbose("  Strict mode: %t", checkStrict)
	printVerbose("  CI mode: %t", checkCI)
	if len(checkIgnore) > 0 {
		printVerbose("  Ignored patterns: %s", strings.Join(checkIgnore, ", "))
	}
	printVerbose("  Paths: %s", strings.Join(paths, ", "))
	printVerbose("  Spec file: %s", cfg.Output)

	if _, err := os.Stat(cfg.Output); os.IsNotExist(err) {
		printError("Spec file not found: %s", cfg.Output)
		printInfo("Run 'axum2spec generate' first to create the spec file")
		return fmt.Errorf("%w: spec file not found: %s", errSpecDiffers, cfg.Output)
	}

	existingSpec, err := openapi.ReadFile(cfg.Output)
	if err != nil {
		return fmt.Errorf("failed to read existing spec: %w", err)
	}

	res, err := generateDocument(commandContext(cmd), cfg, paths, nil)
	if err != nil {
		return fmt.Errorf("failed to generate spec from code: %w", err)
	}
	printWarnings(res.Diagnostics)

	diffResult, err := openapi.NewDiffer().Diff(existingSpec, res.Document)
	if err != nil {
		return fmt.Errorf("failed to compare specs: %w", err)
	}

	diffResult = applyIgnorePatterns(diffResult, checkIgnore)

	if diffResult.IsEmpty() {
		printInfo("Spec is in sync with implementation")
		return nil
	}

	printInfo("Spec differs from implementation:\n")
	printInfo(diffResult.Summary)
	printInfo("")

	if len(diffResult.PathChanges) > 0 {
		printInfo("Path changes:")
		for _, change := range diffResult.PathChanges {
			printInfo("  %s %s %s", getChangeSymbol(change.Type), change.Method, change.Path)
		}
		printInfo("")
	}

	if len(diffResult.SchemaChanges) > 0 {
		printInfo("Schema changes:")
		for _, change := range diffResult.SchemaChanges {
			printInfo("  %s %s", getChangeSymbol(change.Type), change.Name)
		}
		printInfo("")
	}

	if diffResult.HasBreakingChanges {
		printError("Breaking changes detected!")
	}

	printInfo("Run 'axum2spec generate' to update the spec file")

	if checkStrict || checkCI {
		return errSpecDiffers
	}
	return nil
}

// applyIgnorePatterns filters out changes that match ignore patterns.
func applyIgnorePatterns(result *openapi.DiffResult, patterns []string) *openapi.DiffResult {
	if len(patterns) == 0 {
		return result
	}

	filtered := &openapi.DiffResult{
		PathChanges: lo.Filter(result.PathChanges, func(c openapi.PathChange, _ int) bool {
			return !matchesAnyPattern(c.Path, patterns)
		}),
		SchemaChanges: lo.Filter(result.SchemaChanges, func(c openapi.SchemaChange, _ int) bool {
			return !matchesAnyPattern(c.Name, patterns)
		}),
	}

	// Recalculate breaking changes
	filtered.HasBreakingChanges = lo.ContainsBy(filtered.PathChanges, func(c openapi.PathChange) bool {
		return c.Type == openapi.DiffTypeRemoved
	}) || lo.ContainsBy(filtered.SchemaChanges, func(c openapi.SchemaChange) bool {
		return c.Type == openapi.DiffTypeRemoved
	})

	filtered.Summary = generateFilteredSummary(filtered)

	return filtered
}

// matchesAnyPattern checks if a string matches any of the given patterns.
// A leading or trailing "*" matches any suffix or prefix, other wildcards
// follow doublestar glob rules.
func matchesAnyPattern(s string, patterns []string) bool {
	for _, pattern := range patterns {
		switch {
		case strings.HasPrefix(pattern, "*") && !strings.ContainsAny(pattern[1:], "*?["):
			if strings.HasSuffix(s, pattern[1:]) {
				return true
			}
		case strings.HasSuffix(pattern, "*") && !strings.ContainsAny(pattern[:len(pattern)-1], "*?["):
			if strings.HasPrefix(s, pattern[:len(pattern)-1]) {
				return true
			}
		case strings.ContainsAny(pattern, "*?["):
			if matched, _ := doublestar.Match(pattern, s); matched {
				return true
			}
		case s == pattern:
			return true
		}
	}
	return false
}

// generateFilteredSummary generates a summary for filtered results.
func generateFilteredSummary(result *openapi.DiffResult) string {
	if result.IsEmpty() {
		return "No changes detected (after applying filters)"
	}

	pathCounts := lo.CountValuesBy(result.PathChanges, func(c openapi.PathChange) openapi.DiffType { return c.Type })
	schemaCounts := lo.CountValuesBy(result.SchemaChanges, func(c openapi.SchemaChange) openapi.DiffType { return c.Type })

	var parts []string
	for _, t := range []openapi.DiffType{openapi.DiffTypeAdded, openapi.DiffTypeRemoved, openapi.DiffTypeModified} {
		if n := pathCounts[t]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d path(s) %s", n, t))
		}
	}
	for _, t := range []openapi.DiffType{openapi.DiffTypeAdded, openapi.DiffTypeRemoved, openapi.DiffTypeModified} {
		if n := schemaCounts[t]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d schema(s) %s", n, t))
		}
	}

	summary := strings.Join(parts, ", ")
	if result.HasBreakingChanges {
		summary += " [BREAKING CHANGES DETECTED]"
	}

	return summary
}

// getChangeSymbol returns a symbol for the change type.
func getChangeSymbol(t openapi.DiffType) string {
	switch t {
	case openapi.DiffTypeAdded:
		return "+"
	case openapi.DiffTypeRemoved:
		return "-"
	case openapi.DiffTypeModified:
		return "~"
	default:
		return " "
	}
}
