// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/api2spec/axum2spec/internal/openapi"
	"github.com/api2spec/axum2spec/pkg/types"
)

// ANSI escape sequences used for colored diff output.
const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiCyan   = "\x1b[36m"
)

var (
	diffColor   bool
	diffUnified int
	diffText    bool
)

var diffCmd = &cobra.Command{
	Use:   "diff [file1] [file2]",
	Short: "Compare two OpenAPI specifications",
	Long: `Compare two OpenAPI specifications and show the differences.

If only one file is provided, it will be compared against the generated
specification from the current source code.

If no files are provided, the existing spec file will be compared against
what would be generated from the current source code.

By default the comparison is structural: added, removed and modified
operations and schemas. With --text the rendered YAML documents are
compared line by line as a unified diff.

Example:
  axum2spec diff                           # Compare current vs generated
  axum2spec diff openapi.yaml              # Compare file vs generated
  axum2spec diff old.yaml new.yaml         # Compare two files
  axum2spec diff --text                    # Unified YAML diff
  axum2spec diff --text --unified 5        # Show 5 lines of context`,
	RunE: runDiff,
}

func init() {
	diffCmd.Flags().BoolVar(&diffColor, "color", true, "enable colored output when writing to a terminal")
	diffCmd.Flags().IntVarP(&diffUnified, "unified", "U", 3, "number of context lines in unified diff")
	diffCmd.Flags().BoolVar(&diffText, "text", false, "show a unified diff of the rendered YAML")
}

func runDiff(cmd *cobra.Command, args []string) error {
	printVerbose("Diff configuration:")
	printVerbose("  Color: %t", diffColor)
	printVerbose("  Unified context: %d", diffUnified)
	printVerbose("  Text: %t", diffText)

	if len(args) > 2 {
		return fmt.Errorf("too many arguments: expected at most 2 files")
	}

	from, fromName, to, toName, err := diffSides(cmd, args)
	if err != nil {
		return err
	}
	printVerbose("Comparing %s against %s", fromName, toName)

	var out string
	if diffText {
		out, err = textDiff(from, fromName, to, toName, diffUnified)
	} else {
		out, err = structuralDiff(from, to)
	}
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if diffColor && writesToTerminal(w) {
		out = colorize(out)
	}
	_, err = io.WriteString(w, out)
	return err
}

// diffSides loads the two documents to compare. Missing arguments are
// filled in with the configured spec file and the generated document.
func diffSides(cmd *cobra.Command, args []string) (*types.OpenAPI, string, *types.OpenAPI, string, error) {
	if len(args) == 2 {
		from, err := readSpec(args[0])
		if err != nil {
			return nil, "", nil, "", err
		}
		to, err := readSpec(args[1])
		if err != nil {
			return nil, "", nil, "", err
		}
		return from, args[0], to, args[1], nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, "", nil, "", err
	}

	fromName := cfg.Output
	if len(args) == 1 {
		fromName = args[0]
	}
	from, err := readSpec(fromName)
	if err != nil {
		return nil, "", nil, "", err
	}

	res, err := generateDocument(commandContext(cmd), cfg, cfg.Source.Paths, nil)
	if err != nil {
		return nil, "", nil, "", fmt.Errorf("failed to generate spec from code: %w", err)
	}
	printWarnings(res.Diagnostics)

	return from, fromName, res.Document, "(generated)", nil
}

func readSpec(path string) (*types.OpenAPI, error) {
	doc, err := openapi.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read spec file %s: %w", path, err)
	}
	return doc, nil
}

// structuralDiff reports operation and schema level changes.
func structuralDiff(from, to *types.OpenAPI) (string, error) {
	result, err := openapi.NewDiffer().Diff(from, to)
	if err != nil {
		return "", fmt.Errorf("failed to compare specs: %w", err)
	}
	return openapi.FormatDiff(result) + "\n", nil
}

// textDiff renders both documents as YAML and returns their unified diff.
func textDiff(from *types.OpenAPI, fromName string, to *types.OpenAPI, toName string, context int) (string, error) {
	writer := openapi.NewWriter()

	a, err := writer.ToYAML(from)
	if err != nil {
		return "", err
	}
	b, err := writer.ToYAML(to)
	if err != nil {
		return "", err
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: fromName,
		ToFile:   toName,
		Context:  context,
	})
	if err != nil {
		return "", fmt.Errorf("failed to compute diff: %w", err)
	}
	if diff == "" {
		return "No differences found.\n", nil
	}
	return diff, nil
}

// writesToTerminal reports whether w is a terminal.
func writesToTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// colorize highlights diff lines by their leading change marker.
func colorize(s string) string {
	lines := strings.SplitAfter(s, "\n")
	var sb strings.Builder
	for _, line := range lines {
		color := ""
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "@@"):
			color = ansiCyan
		case strings.HasPrefix(line, "+"):
			color = ansiGreen
		case strings.HasPrefix(line, "-"):
			color = ansiRed
		case strings.HasPrefix(line, "~"):
			color = ansiYellow
		}
		if color == "" {
			sb.WriteString(line)
			continue
		}
		body := strings.TrimSuffix(line, "\n")
		sb.WriteString(color + body + ansiReset)
		if len(body) < len(line) {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
