// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package openapi assembles, renders and compares OpenAPI documents.
package openapi

import (
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/api2spec/axum2spec/internal/axum"
	"github.com/api2spec/axum2spec/internal/config"
	"github.com/api2spec/axum2spec/internal/diag"
	"github.com/api2spec/axum2spec/internal/parser"
	"github.com/api2spec/axum2spec/internal/schema"
	"github.com/api2spec/axum2spec/pkg/types"
)

// ContentTypeJSON is the only request body media type produced.
const ContentTypeJSON = "application/json"

// Placeholder text for fields the source gives no information about.
const (
	placeholderSummary     = "TODO"
	placeholderDescription = "TODO"
	okStatus               = "200"
	okDescription          = "OK"
)

// FunctionLookup finds handler functions by name.
type FunctionLookup interface {
	Function(name string) (*parser.RustFunction, bool)
	IsRecord(name string) bool
}

// Input is everything the builder reads: the route table, the declaration
// catalog and the resolved components.
type Input struct {
	Routes     []types.Route
	Catalog    FunctionLookup
	Components *schema.Registry
}

// Builder constructs OpenAPI documents from resolved routes and components.
type Builder struct {
	config     *config.Config
	classifier *axum.Classifier
	titler     cases.Caser
}

// NewBuilder creates a new OpenAPI builder with the given configuration.
func NewBuilder(cfg *config.Config) *Builder {
	return &Builder{
		config:     cfg,
		classifier: axum.NewClassifier(axum.OptionsFromConfig(cfg)),
		titler:     cases.Title(language.English),
	}
}

// Build creates an OpenAPI document. A route whose handler is not a known
// function aborts the build.
func (b *Builder) Build(in Input, diags *diag.Collector) (*types.OpenAPI, error) {
	doc := &types.OpenAPI{
		OpenAPI: b.config.OpenAPI.Version,
		Info:    b.buildInfo(),
		Servers: []types.Server{},
		Paths:   make(map[string]types.PathItem),
		Components: types.Components{
			Schemas: make(map[string]*types.Schema),
		},
	}

	for _, route := range in.Routes {
		fn, ok := in.Catalog.Function(route.Handler)
		if !ok {
			return nil, diags.Fatal(diag.ErrHandlerNotFound, diag.CodeMissingHandler, route.SourceLine,
				"handler %q for route %q not found", route.Handler, route.Path)
		}

		doc.Paths[route.Path] = types.PathItem{
			strings.ToLower(route.Method): b.buildOperation(route, fn, in, diags),
		}
	}

	if in.Components != nil {
		for _, c := range in.Components.Components() {
			doc.Components.Schemas[c.Name] = ComponentSchema(c)
		}
	}

	return doc, nil
}

// buildInfo constructs the Info object from configuration.
func (b *Builder) buildInfo() types.Info {
	return types.Info{
		Title:       b.config.OpenAPI.Info.Title,
		Description: b.config.OpenAPI.Info.Description,
		Version:     b.config.OpenAPI.Info.Version,
	}
}

// buildOperation converts a route and its handler into an Operation.
func (b *Builder) buildOperation(route types.Route, fn *parser.RustFunction, in Input, diags *diag.Collector) *types.Operation {
	var components axum.ComponentLookup = schema.NewRegistry()
	if in.Components != nil {
		components = in.Components
	}

	return &types.Operation{
		Summary:     placeholderSummary,
		Description: placeholderDescription,
		OperationID: b.OperationID(route.Method, route.Handler),
		Parameters:  b.classifier.QueryParameters(fn, components, diags),
		RequestBody: &types.RequestBody{
			Required: true,
			Content: map[string]types.MediaType{
				ContentTypeJSON: {
					Schema: &types.Schema{Ref: schema.Ref(b.BodyRoot(fn, in.Catalog))},
				},
			},
		},
		Responses: map[string]types.Response{
			okStatus: {Description: okDescription},
		},
	}
}

// BodyRoot returns the request-body root type of fn, or the configured
// placeholder when the handler has none.
func (b *Builder) BodyRoot(fn *parser.RustFunction, records axum.RecordLookup) string {
	if root := b.classifier.BodyType(fn, records); root != "" {
		return root
	}
	return b.config.Generation.RequestBodyPlaceholder
}

// OperationID derives an operation ID from the method and handler name,
// e.g. post + create_user = postCreateUser.
func (b *Builder) OperationID(method, handler string) string {
	parts := strings.FieldsFunc(handler, func(r rune) bool {
		return r == '_' || r == ':'
	})

	var sb strings.Builder
	sb.WriteString(strings.ToLower(method))
	for _, part := range parts {
		sb.WriteString(b.titler.String(part))
	}
	return sb.String()
}

// ComponentSchema renders a component: an object with one property per
// field, or a string when the component has no fields.
func ComponentSchema(c *types.Component) *types.Schema {
	if c.IsOpaque() {
		return &types.Schema{Type: "string"}
	}

	s := &types.Schema{
		Type:       "object",
		Properties: make(map[string]*types.Schema, len(c.Fields)),
	}
	var required []string
	for _, f := range c.Fields {
		s.Properties[f.FieldName] = schema.FieldSchema(f.TypeName)
		if f.Required {
			required = append(required, f.FieldName)
		}
	}
	s.Required = lo.Uniq(required)
	return s
}
