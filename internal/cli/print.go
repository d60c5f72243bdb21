// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/api2spec/axum2spec/internal/openapi"
)

var printCmd = &cobra.Command{
	Use:   "print [file]",
	Short: "Print the OpenAPI specification to stdout",
	Long: `Print the OpenAPI specification to standard output.

If a file is provided, it will print that file, converted when --format
names a different format. Otherwise, it will generate and print the
specification from the current source code.

This is useful for piping the output to other tools or for quick inspection.

Example:
  axum2spec print                      # Generate and print
  axum2spec print openapi.yaml         # Print existing file
  axum2spec print -f json              # Print in JSON format
  axum2spec print -f json | jq '.paths'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPrint,
}

func runPrint(cmd *cobra.Command, args []string) error {
	printVerbose("Print configuration:")
	printVerbose("  Format: %s", format)

	writer := openapi.NewWriter()
	out := cmd.OutOrStdout()

	if len(args) > 0 {
		filePath := args[0]
		if format == "" || format == openapi.FormatFromPath(filePath) {
			data, err := os.ReadFile(filePath)
			if err != nil {
				return fmt.Errorf("failed to read file %s: %w", filePath, err)
			}
			_, err = out.Write(data)
			return err
		}

		doc, err := openapi.ReadFile(filePath)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", filePath, err)
		}
		return writer.Write(doc, out, format)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	res, err := generateDocument(commandContext(cmd), cfg, cfg.Source.Paths, nil)
	if err != nil {
		return fmt.Errorf("failed to generate spec: %w", err)
	}
	printWarnings(res.Diagnostics)

	return writer.Write(res.Document, out, cfg.Format)
}
