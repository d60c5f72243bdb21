// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package engine runs one resolution of a Rust source file into an OpenAPI
// document: parse, index, route discovery, schema resolution and assembly.
package engine

import (
	"context"
	"errors"
	"fmt"

	logging "github.com/ipfs/go-log/v2"
	"github.com/samber/lo"

	"github.com/api2spec/axum2spec/internal/axum"
	"github.com/api2spec/axum2spec/internal/catalog"
	"github.com/api2spec/axum2spec/internal/config"
	"github.com/api2spec/axum2spec/internal/diag"
	"github.com/api2spec/axum2spec/internal/openapi"
	"github.com/api2spec/axum2spec/internal/parser"
	"github.com/api2spec/axum2spec/internal/schema"
	"github.com/api2spec/axum2spec/pkg/types"
)

var log = logging.Logger("axum2spec/engine")

// ErrStrict is returned in strict mode when a run reported warnings.
var ErrStrict = errors.New("warnings reported in strict mode")

// Provider parses Rust sources. *parser.RustParser and *parser.Cache both
// satisfy it.
type Provider interface {
	Parse(ctx context.Context, filename string, content []byte) (*parser.File, error)
	ParseFile(ctx context.Context, path string) (*parser.File, error)
}

// Result is the outcome of a successful run.
type Result struct {
	// File is the resolved source file, empty for merged results
	File string

	// Document is the generated OpenAPI document
	Document *types.OpenAPI

	// Routes are the discovered routes sorted by path
	Routes []types.Route

	// Components is the resolved component table
	Components *schema.Registry

	// Diagnostics are the warnings reported during the run
	Diagnostics []diag.Diagnostic
}

// Engine resolves source files with a fixed configuration. An Engine is as
// safe for concurrent use as its Provider.
type Engine struct {
	cfg      *config.Config
	provider Provider
}

// New creates an engine. A nil provider gets a fresh Rust parser.
func New(cfg *config.Config, provider Provider) *Engine {
	if provider == nil {
		provider = parser.NewRustParser()
	}
	return &Engine{
		cfg:      cfg,
		provider: provider,
	}
}

// Run resolves the file at path.
func (e *Engine) Run(ctx context.Context, path string) (*Result, error) {
	f, err := e.provider.ParseFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return e.resolve(f)
}

// RunSource resolves in-memory source attributed to name.
func (e *Engine) RunSource(ctx context.Context, name string, src []byte) (*Result, error) {
	f, err := e.provider.Parse(ctx, name, src)
	if err != nil {
		return nil, err
	}
	return e.resolve(f)
}

// RunFiles resolves each file in its own run and merges the documents in
// order. A path registered by several files keeps the last definition and
// is reported as a path-conflict warning.
func (e *Engine) RunFiles(ctx context.Context, paths []string) (*Result, error) {
	merged := &Result{Components: schema.NewRegistry()}
	merger := openapi.NewMerger(openapi.DefaultMergeOptions())
	conflicts := 0

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res, err := e.Run(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		doc, found := merger.Merge(merged.Document, res.Document)
		merged.Document = doc
		merged.Diagnostics = append(merged.Diagnostics, res.Diagnostics...)

		diags := diag.NewCollector(path)
		for _, c := range found {
			diags.Warn(diag.CodePathConflict, 0, "%s %s is defined by more than one file, last definition wins", c.Kind, c.Name)
		}
		conflicts += diags.Len()
		merged.Diagnostics = append(merged.Diagnostics, e.report(diags)...)

		merged.Routes = mergeRoutes(merged.Routes, res.Routes)
		merged.Components.Merge(res.Components)
	}

	if merged.Document == nil {
		merged.Document = e.emptyDocument()
	}

	if e.cfg.Generation.StrictMode && conflicts > 0 {
		return nil, strictError(diag.Aggregate(merged.Diagnostics))
	}
	return merged, nil
}

// resolve runs every stage over a parsed file.
func (e *Engine) resolve(f *parser.File) (*Result, error) {
	diags := diag.NewCollector(f.Path)
	if f.HasErrors {
		diags.Warn(diag.CodeParseError, f.ErrorLine, "source has syntax errors, unparsable items were skipped")
	}

	cat := catalog.Build(f, e.cfg.Axum.EntryFunction, diags)
	routes := axum.BuildRouteTable(cat, axum.OptionsFromConfig(e.cfg), diags).Sorted()
	builder := openapi.NewBuilder(e.cfg)

	seeds := e.seeds(cat, routes, builder)
	log.Debugw("resolving components", "file", f.Path, "routes", len(routes), "seeds", len(seeds))

	reg, err := schema.NewResolver(cat.Records, schema.OptionsFromConfig(e.cfg), diags).Resolve(seeds...)
	if err != nil {
		return nil, err
	}

	doc, err := builder.Build(openapi.Input{
		Routes:     routes,
		Catalog:    cat,
		Components: reg,
	}, diags)
	if err != nil {
		return nil, err
	}

	warnings := e.report(diags)
	if e.cfg.Generation.StrictMode {
		if err := diags.Err(); err != nil {
			return nil, strictError(err)
		}
	}

	log.Debugw("resolved", "file", f.Path, "paths", len(doc.Paths), "components", reg.Count(), "warnings", len(warnings))
	return &Result{
		File:        f.Path,
		Document:    doc,
		Routes:      routes,
		Components:  reg,
		Diagnostics: warnings,
	}, nil
}

// seeds returns the worklist seeds: the body root of each route, the inner
// record type of each query extractor, then the configured seed types.
func (e *Engine) seeds(cat *catalog.Catalog, routes []types.Route, builder *openapi.Builder) []string {
	classifier := axum.NewClassifier(axum.OptionsFromConfig(e.cfg))

	var seeds []string
	for _, route := range routes {
		fn, ok := cat.Function(route.Handler)
		if !ok {
			continue
		}
		seeds = append(seeds, builder.BodyRoot(fn, cat))
		seeds = append(seeds, lo.Filter(classifier.QueryTypes(fn), func(name string, _ int) bool {
			return cat.IsRecord(name)
		})...)
	}
	seeds = append(seeds, e.cfg.Generation.SeedTypes...)
	return lo.Uniq(seeds)
}

// report logs the collected warnings and returns them.
func (e *Engine) report(diags *diag.Collector) []diag.Diagnostic {
	warnings := diags.Warnings()
	for _, d := range warnings {
		log.Warnw(d.Message, "file", d.File, "line", d.Line, "code", d.Code)
	}
	return warnings
}

func (e *Engine) emptyDocument() *types.OpenAPI {
	doc, _ := openapi.NewBuilder(e.cfg).Build(openapi.Input{Catalog: &catalog.Catalog{}}, diag.NewCollector(""))
	return doc
}

// mergeRoutes overlays next onto prev by path and keeps the result sorted.
func mergeRoutes(prev, next []types.Route) []types.Route {
	table := axum.NewRouteTable()
	for _, r := range prev {
		table.Set(r)
	}
	for _, r := range next {
		table.Set(r)
	}
	return table.Sorted()
}

// strictError wraps the aggregated warnings with ErrStrict.
func strictError(warnings error) error {
	return fmt.Errorf("%w: %w", ErrStrict, warnings)
}
