// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package config provides configuration loading and validation for axum2spec.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the axum2spec configuration.
type Config struct {
	// Output is the output file path for the generated OpenAPI spec
	Output string `mapstructure:"output" yaml:"output" json:"output"`

	// Format is the output format (yaml, json)
	Format string `mapstructure:"format" yaml:"format" json:"format"`

	// OpenAPI contains OpenAPI-specific configuration
	OpenAPI OpenAPIConfig `mapstructure:"openapi" yaml:"openapi" json:"openapi"`

	// Source contains source code scanning configuration
	Source SourceConfig `mapstructure:"source" yaml:"source" json:"source"`

	// Generation contains generation behavior configuration
	Generation GenerationConfig `mapstructure:"generation" yaml:"generation" json:"generation"`

	// Axum names the framework identifiers the resolver matches on
	Axum AxumConfig `mapstructure:"axum" yaml:"axum" json:"axum"`

	// Routes contains route table configuration
	Routes RoutesConfig `mapstructure:"routes" yaml:"routes" json:"routes"`

	// Resolve contains type resolution limits
	Resolve ResolveConfig `mapstructure:"resolve" yaml:"resolve" json:"resolve"`

	// Harness contains fixture runner configuration
	Harness HarnessConfig `mapstructure:"harness" yaml:"harness" json:"harness"`

	// Watch contains file watching configuration
	Watch WatchConfig `mapstructure:"watch" yaml:"watch" json:"watch"`
}

// OpenAPIConfig contains OpenAPI specification configuration.
type OpenAPIConfig struct {
	// Version is the OpenAPI version to generate
	Version string `mapstructure:"version" yaml:"version" json:"version"`

	// Info contains API metadata
	Info InfoConfig `mapstructure:"info" yaml:"info" json:"info"`
}

// InfoConfig contains API metadata.
type InfoConfig struct {
	// Title is the API title
	Title string `mapstructure:"title" yaml:"title" json:"title"`

	// Description is the API description
	Description string `mapstructure:"description" yaml:"description" json:"description"`

	// Version is the API version
	Version string `mapstructure:"version" yaml:"version" json:"version"`
}

// SourceConfig contains source code scanning configuration.
type SourceConfig struct {
	// Paths is a list of paths to scan
	Paths []string `mapstructure:"paths" yaml:"paths" json:"paths"`

	// Include is a list of glob patterns to include
	Include []string `mapstructure:"include" yaml:"include" json:"include"`

	// Exclude is a list of glob patterns to exclude
	Exclude []string `mapstructure:"exclude" yaml:"exclude" json:"exclude"`
}

// GenerationConfig contains generation behavior configuration.
type GenerationConfig struct {
	// StrictMode turns every warning into a failing error
	StrictMode bool `mapstructure:"strictMode" yaml:"strictMode" json:"strictMode"`

	// RequestBodyPlaceholder is the body type used when a handler has no body root
	RequestBodyPlaceholder string `mapstructure:"requestBodyPlaceholder" yaml:"requestBodyPlaceholder" json:"requestBodyPlaceholder"`

	// SeedTypes are extra type names resolved into components
	SeedTypes []string `mapstructure:"seedTypes" yaml:"seedTypes" json:"seedTypes"`
}

// AxumConfig names the identifiers matched in handler code.
type AxumConfig struct {
	// EntryFunction is excluded from the function catalog
	EntryFunction string `mapstructure:"entryFunction" yaml:"entryFunction" json:"entryFunction"`

	// RouteMethod is the registration method name
	RouteMethod string `mapstructure:"routeMethod" yaml:"routeMethod" json:"routeMethod"`

	// QueryExtractor is the wrapper marking query-bound parameters
	QueryExtractor string `mapstructure:"queryExtractor" yaml:"queryExtractor" json:"queryExtractor"`

	// BodyExtractors are the wrappers marking request-body parameters
	BodyExtractors []string `mapstructure:"bodyExtractors" yaml:"bodyExtractors" json:"bodyExtractors"`

	// OptionalWrapper is the wrapper marking optional fields
	OptionalWrapper string `mapstructure:"optionalWrapper" yaml:"optionalWrapper" json:"optionalWrapper"`
}

// RoutesConfig contains route table configuration.
type RoutesConfig struct {
	// FollowChains registers route calls nested in a receiver chain
	FollowChains bool `mapstructure:"followChains" yaml:"followChains" json:"followChains"`
}

// ResolveConfig bounds type resolution.
type ResolveConfig struct {
	// MaxExpansions is the maximum number of record expansions per run
	MaxExpansions int `mapstructure:"maxExpansions" yaml:"maxExpansions" json:"maxExpansions"`
}

// HarnessConfig contains fixture runner configuration.
type HarnessConfig struct {
	// Concurrency is the number of fixtures resolved at once
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency" json:"concurrency"`
}

// WatchConfig contains file watching configuration.
type WatchConfig struct {
	// Debounce is the debounce duration in milliseconds
	Debounce int `mapstructure:"debounce" yaml:"debounce" json:"debounce"`
}

// configFileNames is the list of config file names to search for (in order).
var configFileNames = []string{
	"axum2spec.yaml",
	"axum2spec.json",
	".axum2spec.yaml",
	".axum2spec.json",
}

// supportedFormats is the list of supported output formats.
var supportedFormats = []string{
	"yaml",
	"json",
}

// ErrConfigNotFound is returned when no config file is found.
var ErrConfigNotFound = errors.New("config file not found")

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation error: %s: %s", e.Field, e.Message)
}

// ValidationErrors represents multiple validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	var sb strings.Builder
	sb.WriteString("config validation errors:\n")
	for _, err := range e {
		sb.WriteString("  - ")
		sb.WriteString(err.Field)
		sb.WriteString(": ")
		sb.WriteString(err.Message)
		sb.WriteString("\n")
	}
	return sb.String()
}

var (
	defaultInclude = []string{"**/*.rs"}
	defaultExclude = []string{
		"target/**",
		"**/target/**",
		".git/**",
		"**/testdata/**",
		"tests/**",
		"benches/**",
	}
	defaultBodyExtractors = []string{"Json", "Form"}
)

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Output: "openapi.yaml",
		Format: "yaml",
		OpenAPI: OpenAPIConfig{
			Version: "3.0.3",
			Info: InfoConfig{
				Title:       "My rest API",
				Description: "TODO",
				Version:     "0.1.0",
			},
		},
		Source: SourceConfig{
			Paths:   []string{"."},
			Include: append([]string(nil), defaultInclude...),
			Exclude: append([]string(nil), defaultExclude...),
		},
		Generation: GenerationConfig{
			StrictMode:             false,
			RequestBodyPlaceholder: "RequestBody",
		},
		Axum: AxumConfig{
			EntryFunction:   "main",
			RouteMethod:     "route",
			QueryExtractor:  "Query",
			BodyExtractors:  append([]string(nil), defaultBodyExtractors...),
			OptionalWrapper: "Option",
		},
		Routes: RoutesConfig{
			FollowChains: false,
		},
		Resolve: ResolveConfig{
			MaxExpansions: 10000,
		},
		Harness: HarnessConfig{
			Concurrency: 10,
		},
		Watch: WatchConfig{
			Debounce: 500,
		},
	}
}

// Load loads the configuration from a file.
// It searches for config files in the following order:
// 1. axum2spec.yaml
// 2. axum2spec.json
// 3. .axum2spec.yaml
// 4. .axum2spec.json
//
// If configPath is provided, it will use that path instead.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		found := false
		for _, name := range configFileNames {
			if _, err := os.Stat(name); err == nil {
				v.SetConfigFile(name)
				found = true
				break
			}
		}
		if !found {
			return Default(), nil
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// LoadFromPath loads the configuration from a specific directory.
func LoadFromPath(dir string) (*Config, error) {
	for _, name := range configFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return Default(), nil
}

// setDefaults mirrors Default for viper so partial files keep the defaults.
func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("output", d.Output)
	v.SetDefault("format", d.Format)
	v.SetDefault("openapi.version", d.OpenAPI.Version)
	v.SetDefault("openapi.info.title", d.OpenAPI.Info.Title)
	v.SetDefault("openapi.info.description", d.OpenAPI.Info.Description)
	v.SetDefault("openapi.info.version", d.OpenAPI.Info.Version)
	v.SetDefault("source.paths", d.Source.Paths)
	v.SetDefault("source.include", d.Source.Include)
	v.SetDefault("source.exclude", d.Source.Exclude)
	v.SetDefault("generation.strictMode", d.Generation.StrictMode)
	v.SetDefault("generation.requestBodyPlaceholder", d.Generation.RequestBodyPlaceholder)
	v.SetDefault("generation.seedTypes", []string{})
	v.SetDefault("axum.entryFunction", d.Axum.EntryFunction)
	v.SetDefault("axum.routeMethod", d.Axum.RouteMethod)
	v.SetDefault("axum.queryExtractor", d.Axum.QueryExtractor)
	v.SetDefault("axum.bodyExtractors", d.Axum.BodyExtractors)
	v.SetDefault("axum.optionalWrapper", d.Axum.OptionalWrapper)
	v.SetDefault("routes.followChains", d.Routes.FollowChains)
	v.SetDefault("resolve.maxExpansions", d.Resolve.MaxExpansions)
	v.SetDefault("harness.concurrency", d.Harness.Concurrency)
	v.SetDefault("watch.debounce", d.Watch.Debounce)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if c.Format != "" && !contains(supportedFormats, c.Format) {
		errs = append(errs, ValidationError{
			Field:   "format",
			Message: fmt.Sprintf("unsupported format %q, must be one of: %s", c.Format, strings.Join(supportedFormats, ", ")),
		})
	}

	if c.OpenAPI.Version != "" && c.OpenAPI.Version != "3.0.3" {
		errs = append(errs, ValidationError{
			Field:   "openapi.version",
			Message: fmt.Sprintf("unsupported OpenAPI version %q, must be 3.0.3", c.OpenAPI.Version),
		})
	}

	if c.Watch.Debounce < 0 {
		errs = append(errs, ValidationError{
			Field:   "watch.debounce",
			Message: "debounce must be non-negative",
		})
	}

	if c.Resolve.MaxExpansions <= 0 {
		errs = append(errs, ValidationError{
			Field:   "resolve.maxExpansions",
			Message: "maxExpansions must be positive",
		})
	}

	if c.Harness.Concurrency <= 0 {
		errs = append(errs, ValidationError{
			Field:   "harness.concurrency",
			Message: "concurrency must be positive",
		})
	}

	// Identifiers the resolver matches on
	identifiers := []struct{ field, value string }{
		{"axum.entryFunction", c.Axum.EntryFunction},
		{"axum.routeMethod", c.Axum.RouteMethod},
		{"axum.queryExtractor", c.Axum.QueryExtractor},
		{"axum.optionalWrapper", c.Axum.OptionalWrapper},
		{"generation.requestBodyPlaceholder", c.Generation.RequestBodyPlaceholder},
	}
	for _, id := range identifiers {
		if id.value == "" {
			errs = append(errs, ValidationError{
				Field:   id.field,
				Message: "must not be empty",
			})
		}
	}

	if c.OpenAPI.Info.Title == "" {
		errs = append(errs, ValidationError{
			Field:   "openapi.info.title",
			Message: "title is required",
		})
	}

	if c.OpenAPI.Info.Version == "" {
		errs = append(errs, ValidationError{
			Field:   "openapi.info.version",
			Message: "version is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ConfigFilePath returns the path of the config file in the working directory, if any.
func ConfigFilePath() string {
	for _, name := range configFileNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// contains checks if a slice contains a string.
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
