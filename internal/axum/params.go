// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package axum

import (
	"github.com/samber/lo"

	"github.com/api2spec/axum2spec/internal/diag"
	"github.com/api2spec/axum2spec/internal/parser"
	"github.com/api2spec/axum2spec/internal/schema"
	"github.com/api2spec/axum2spec/pkg/types"
)

// FallbackEnumValue is the single value of the placeholder schema emitted
// for query parameters whose type has no known fields.
const FallbackEnumValue = "unknown"

// ComponentLookup finds resolved components by name.
type ComponentLookup interface {
	Get(name string) (*types.Component, bool)
}

// RecordLookup reports whether a name is a known record.
type RecordLookup interface {
	IsRecord(name string) bool
}

// Classifier recognizes query-bound and body-bound handler parameters.
type Classifier struct {
	opts Options
}

// NewClassifier creates a classifier.
func NewClassifier(opts Options) *Classifier {
	return &Classifier{opts: opts}
}

// IsQueryParam reports whether p is bound through the query extractor,
// either by destructuring (Query(q): ...) or by its declared type
// (q: Query<T>).
func (c *Classifier) IsQueryParam(p parser.RustParameter) bool {
	if p.IsSelf {
		return false
	}
	return p.Pattern.Wrapper() == c.opts.QueryExtractor || p.Type.Base() == c.opts.QueryExtractor
}

// InnerTypeName returns the name wrapped by a parameter's declared type:
// the base identifier of its last generic argument, or the base identifier
// of the type itself when it has none.
func InnerTypeName(p parser.RustParameter) string {
	t := p.Type
	if t.Kind == parser.TypeReference && t.Elem != nil {
		t = *t.Elem
	}
	if arg, ok := t.LastArg(); ok {
		if base := arg.Base(); base != "" {
			return base
		}
		return arg.Canonical()
	}
	return t.Base()
}

// QueryTypes returns the inner type names of fn's query parameters.
func (c *Classifier) QueryTypes(fn *parser.RustFunction) []string {
	var names []string
	for _, p := range fn.Parameters {
		if c.IsQueryParam(p) {
			if name := InnerTypeName(p); name != "" {
				names = append(names, name)
			}
		}
	}
	return lo.Uniq(names)
}

// QueryParameters returns the query parameter descriptors of fn. A query
// parameter whose inner type is a component with fields expands to one
// descriptor per field; any other becomes a single placeholder descriptor,
// named after the inner type when the pattern binds no name.
func (c *Classifier) QueryParameters(fn *parser.RustFunction, components ComponentLookup, diags *diag.Collector) []types.Parameter {
	params := []types.Parameter{}

	for _, p := range fn.Parameters {
		if p.IsSelf {
			diags.Warn(diag.CodeParamPattern, p.Line, "handler %s: self parameter skipped", fn.Name)
			continue
		}
		if !c.IsQueryParam(p) {
			continue
		}

		inner := InnerTypeName(p)
		if comp, ok := components.Get(inner); ok && !comp.IsOpaque() {
			params = append(params, fieldParameters(comp)...)
			continue
		}

		name := p.Name
		if name == "" {
			if inner == "" {
				diags.Warn(diag.CodeParamPattern, p.Line, "handler %s: query parameter pattern %q binds no name, skipped", fn.Name, p.Pattern.Raw)
				continue
			}
			diags.Warn(diag.CodeParamPattern, p.Line, "handler %s: query parameter pattern %q binds no name, named after %s", fn.Name, p.Pattern.Raw, inner)
			name = inner
		}
		params = append(params, fallbackParameter(name))
	}

	return params
}

func fieldParameters(comp *types.Component) []types.Parameter {
	return lo.Map(comp.Fields, func(f types.FieldDescriptor, _ int) types.Parameter {
		return types.Parameter{
			Name:        f.FieldName,
			In:          "query",
			Description: "TODO",
			Required:    f.Required,
			Explode:     false,
			Schema:      schema.FieldSchema(f.TypeName),
		}
	})
}

func fallbackParameter(name string) types.Parameter {
	return types.Parameter{
		Name:        name,
		In:          "query",
		Description: "TODO",
		Required:    true,
		Explode:     false,
		Schema: &types.Schema{
			Type:    "string",
			Default: FallbackEnumValue,
			Enum:    []interface{}{FallbackEnumValue},
		},
	}
}

// BodyType returns the request-body root type of fn: the inner type of the
// first parameter bound through a body extractor, else the first plainly
// bound parameter whose type is a known record. It returns "" when neither
// exists.
func (c *Classifier) BodyType(fn *parser.RustFunction, records RecordLookup) string {
	for _, p := range fn.Parameters {
		if p.IsSelf {
			continue
		}
		if !lo.Contains(c.opts.BodyExtractors, p.Pattern.Wrapper()) && !lo.Contains(c.opts.BodyExtractors, p.Type.Base()) {
			continue
		}
		arg, ok := p.Type.LastArg()
		if !ok {
			continue
		}
		if inner, optional := arg.Unwrap(c.opts.OptionalWrapper); optional {
			arg = inner
		}
		if name := typeName(arg); name != "" {
			return name
		}
	}

	for _, p := range fn.Parameters {
		if p.IsSelf || p.Pattern.Kind != parser.PatIdent {
			continue
		}
		if name := typeName(p.Type); records.IsRecord(name) {
			return name
		}
	}

	return ""
}

// typeName returns the simple name of a plain path type, seeing through
// references, and the canonical form of anything generic.
func typeName(t parser.TypeExpr) string {
	if t.Kind == parser.TypeReference && t.Elem != nil {
		return typeName(*t.Elem)
	}
	if t.Kind != parser.TypePath {
		return ""
	}
	if len(t.Args) == 0 {
		return t.Base()
	}
	return t.Canonical()
}
