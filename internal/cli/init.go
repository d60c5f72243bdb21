// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/api2spec/axum2spec/internal/axum"
	"github.com/api2spec/axum2spec/internal/config"
)

const defaultConfigFile = "axum2spec.yaml"

var (
	initForce       bool
	initInteractive bool
	initTitle       string
	initVersion     string
	initDescription string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new axum2spec configuration file",
	Long: `Initialize a new axum2spec configuration file in the current directory.

This command creates an axum2spec.yaml file with sensible defaults
that you can customize for your project.

Features:
  - Checks Cargo.toml for an axum dependency
  - Infers API title, version and description from the package section
  - Detects common source directories
  - Sets up exclude patterns for build output and tests

Example:
  axum2spec init                         # Create config from Cargo.toml
  axum2spec init --force                 # Overwrite existing config
  axum2spec init --interactive           # Interactive mode with prompts
  axum2spec init --title "My API"        # Set custom API title`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing config file")
	initCmd.Flags().BoolVarP(&initInteractive, "interactive", "i", false, "interactive mode with prompts")
	initCmd.Flags().StringVar(&initTitle, "title", "", "API title for OpenAPI info")
	initCmd.Flags().StringVar(&initVersion, "version", "", "API version for OpenAPI info")
	initCmd.Flags().StringVar(&initDescription, "description", "", "API description for OpenAPI info")
}

func runInit(cmd *cobra.Command, args []string) error {
	configFile := defaultConfigFile
	if cfgFile != "" {
		configFile = cfgFile
	}

	if _, err := os.Stat(configFile); err == nil && !initForce {
		return fmt.Errorf("config file %s already exists, use --force to overwrite", configFile)
	}

	projectRoot, err := filepath.Abs(".")
	if err != nil {
		return fmt.Errorf("failed to determine project root: %w", err)
	}

	cfg := config.Default()

	printVerbose("Checking Cargo.toml for axum...")
	found, err := axum.Detect(projectRoot)
	switch {
	case err != nil:
		printVerbose("Dependency detection failed: %v", err)
	case found:
		printInfo("Detected axum dependency")
	default:
		printInfo("No axum dependency found in Cargo.toml, writing defaults anyway")
	}

	info := detectProjectInfo(projectRoot)

	if initTitle != "" {
		cfg.OpenAPI.Info.Title = initTitle
	} else if info.Title != "" {
		cfg.OpenAPI.Info.Title = info.Title
	}

	if initVersion != "" {
		cfg.OpenAPI.Info.Version = initVersion
	} else if info.Version != "" {
		cfg.OpenAPI.Info.Version = info.Version
	}

	if initDescription != "" {
		cfg.OpenAPI.Info.Description = initDescription
	} else if info.Description != "" {
		cfg.OpenAPI.Info.Description = info.Description
	}

	entryPoints := detectEntryPoints(projectRoot)
	cfg.Source.Paths = entryPoints
	printVerbose("Detected entry points: %s", strings.Join(entryPoints, ", "))

	if initInteractive && isTerminal() {
		cfg, err = interactiveInit(cfg)
		if err != nil {
			return fmt.Errorf("interactive init failed: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	data, err := buildConfigYAML(cfg)
	if err != nil {
		return err
	}

	if err := os.WriteFile(configFile, []byte(data), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	printInfo("Created %s", configFile)
	printVerbose("Output: %s", cfg.Output)
	printVerbose("Paths: %s", strings.Join(cfg.Source.Paths, ", "))

	return nil
}

// projectInfo holds information detected from the project.
type projectInfo struct {
	Name        string
	Title       string
	Version     string
	Description string
}

// cargoManifest is the part of Cargo.toml read by init.
type cargoManifest struct {
	Package struct {
		Name        string `toml:"name"`
		Version     string `toml:"version"`
		Description string `toml:"description"`
	} `toml:"package"`
}

// detectProjectInfo reads the package section of Cargo.toml. A missing or
// unreadable manifest yields an empty projectInfo.
func detectProjectInfo(projectRoot string) projectInfo {
	data, err := os.ReadFile(filepath.Join(projectRoot, "Cargo.toml"))
	if err != nil {
		return projectInfo{}
	}

	var manifest cargoManifest
	if err := toml.Unmarshal(data, &manifest); err != nil {
		log.Debugw("failed to parse Cargo.toml", "error", err)
		return projectInfo{}
	}

	pkg := manifest.Package
	info := projectInfo{
		Name:        pkg.Name,
		Version:     pkg.Version,
		Description: pkg.Description,
	}
	if pkg.Name != "" {
		// my-api and my_api both become "My Api API"
		name := strings.NewReplacer("-", " ", "_", " ").Replace(pkg.Name)
		info.Title = cases.Title(language.English).String(name) + " API"
	}
	return info
}

// detectEntryPoints detects common source directories in the project.
func detectEntryPoints(projectRoot string) []string {
	var paths []string

	// Common layouts for Rust crates and workspaces
	patterns := []string{
		"./src",
		"./crates",
		"./api",
		"./server",
	}

	for _, p := range patterns {
		fullPath := filepath.Join(projectRoot, p)
		if stat, err := os.Stat(fullPath); err == nil && stat.IsDir() {
			paths = append(paths, p)
		}
	}

	// If no common directories found, use current directory
	if len(paths) == 0 {
		paths = []string{"."}
	}

	return paths
}

// isTerminal checks if stdin is a terminal.
func isTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// interactiveInit prompts the user for configuration options.
func interactiveInit(cfg *config.Config) (*config.Config, error) {
	reader := bufio.NewReader(os.Stdin)

	prompts := []struct {
		label string
		value *string
	}{
		{"API Title", &cfg.OpenAPI.Info.Title},
		{"API Version", &cfg.OpenAPI.Info.Version},
		{"API Description", &cfg.OpenAPI.Info.Description},
		{"Output file", &cfg.Output},
		{"Output format (yaml/json)", &cfg.Format},
	}

	for _, p := range prompts {
		fmt.Printf("%s [%s]: ", p.label, *p.value)
		answer, err := reader.ReadString('\n')
		if err != nil && answer == "" {
			return cfg, nil
		}
		if answer = strings.TrimSpace(answer); answer != "" {
			*p.value = answer
		}
	}

	return cfg, nil
}

// buildConfigYAML builds a YAML config with a header comment.
func buildConfigYAML(cfg *config.Config) (string, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}

	header := `# axum2spec configuration file
# https://github.com/api2spec/axum2spec

`
	return header + string(data), nil
}
