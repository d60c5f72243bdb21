// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package schema expands record types into the flat component table of a
// generated document.
package schema

import (
	logging "github.com/ipfs/go-log/v2"

	"github.com/api2spec/axum2spec/internal/config"
	"github.com/api2spec/axum2spec/internal/diag"
	"github.com/api2spec/axum2spec/internal/parser"
	"github.com/api2spec/axum2spec/pkg/types"
)

var log = logging.Logger("axum2spec/schema")

// ValueField is the field name of the component registered for an optional
// seed whose inner type is not a record.
const ValueField = "value"

// Options bounds and configures resolution.
type Options struct {
	// OptionalWrapper is the generic wrapper marking optional fields
	OptionalWrapper string

	// MaxExpansions is the maximum number of record expansions per run
	MaxExpansions int
}

// DefaultOptions returns the default resolver options.
func DefaultOptions() Options {
	return OptionsFromConfig(config.Default())
}

// OptionsFromConfig derives Options from a loaded configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		OptionalWrapper: cfg.Axum.OptionalWrapper,
		MaxExpansions:   cfg.Resolve.MaxExpansions,
	}
}

// Resolver expands record types reachable from a set of seed names into
// components. Each name is expanded at most once, so self-referential and
// mutually-referential records terminate.
type Resolver struct {
	records map[string]*parser.RustStruct
	opts    Options
	diags   *diag.Collector
}

// NewResolver creates a resolver over the record catalog.
func NewResolver(records map[string]*parser.RustStruct, opts Options, diags *diag.Collector) *Resolver {
	return &Resolver{
		records: records,
		opts:    opts,
		diags:   diags,
	}
}

// Resolve expands the seeds into a new registry.
func (r *Resolver) Resolve(seeds ...string) (*Registry, error) {
	reg := NewRegistry()
	if err := r.ResolveInto(reg, seeds...); err != nil {
		return nil, err
	}
	return reg, nil
}

// ResolveInto expands the seeds into reg. Names already present in reg are
// left untouched.
func (r *Resolver) ResolveInto(reg *Registry, seeds ...string) error {
	w := &worklist{visited: make(map[string]bool)}
	for _, seed := range seeds {
		w.push(seed)
	}

	expansions := 0
	for {
		name, ok := w.pop()
		if !ok {
			return nil
		}
		if reg.Has(name) {
			continue
		}

		record, ok := r.records[name]
		if !ok {
			r.registerLeaf(reg, w, name)
			continue
		}

		expansions++
		if r.opts.MaxExpansions > 0 && expansions > r.opts.MaxExpansions {
			return r.diags.Fatal(diag.ErrExpansionLimit, diag.CodeExpansionLimit, record.Line,
				"resolving %s exceeded %d record expansions", name, r.opts.MaxExpansions)
		}

		log.Debugw("expanding record", "name", name, "fields", len(record.Fields))
		reg.Add(&types.Component{Name: name, Fields: []types.FieldDescriptor{}})
		for _, field := range record.Fields {
			if err := r.resolveField(reg, w, name, field.Name, field.Type, field.Line); err != nil {
				return err
			}
		}
	}
}

// registerLeaf handles a name that is not a record: an optional wrapper
// over a record queues the record, an optional wrapper over anything else
// becomes a single-field component, and any other name is an opaque leaf
// whose innermost record argument, if any, is queued.
func (r *Resolver) registerLeaf(reg *Registry, w *worklist, name string) {
	t := parser.ParseTypeString(name)
	inner, ok := t.Unwrap(r.opts.OptionalWrapper)
	if !ok {
		reg.Add(&types.Component{Name: name})
		w.push(r.argRecord(t))
		return
	}

	innerName, isRecord := r.optionalInner(inner)
	if isRecord {
		w.push(innerName)
		return
	}
	w.push(r.argRecord(inner))
	if reg.Has(innerName) {
		return
	}
	reg.Add(&types.Component{
		Name: innerName,
		Fields: []types.FieldDescriptor{
			{FieldName: ValueField, TypeName: innerName, Required: false},
		},
	})
}

func (r *Resolver) resolveField(reg *Registry, w *worklist, owner, fieldName string, t parser.TypeExpr, line int) error {
	switch t.Kind {
	case parser.TypePath:
		canonical := t.Canonical()
		if _, ok := r.records[canonical]; ok {
			reg.AddField(owner, types.FieldDescriptor{
				FieldName: fieldName,
				TypeName:  canonical,
				Required:  !r.isOptional(canonical),
			})
			w.push(canonical)
			return nil
		}

		if inner, ok := t.Unwrap(r.opts.OptionalWrapper); ok {
			innerName, isRecord := r.optionalInner(inner)
			reg.AddField(owner, types.FieldDescriptor{
				FieldName: fieldName,
				TypeName:  innerName,
				Required:  false,
			})
			if isRecord {
				w.push(innerName)
			} else {
				w.push(r.argRecord(inner))
			}
			return nil
		}

		reg.AddField(owner, types.FieldDescriptor{
			FieldName: fieldName,
			TypeName:  canonical,
			Required:  true,
		})
		w.push(r.argRecord(t))
		return nil

	case parser.TypeReference:
		if t.Elem == nil {
			r.diags.Warn(diag.CodeUnsupportedType, line, "field %s.%s: reference without referent skipped", owner, fieldName)
			return nil
		}
		return r.resolveField(reg, w, owner, fieldName, *t.Elem, line)

	case parser.TypeTuple:
		for _, elem := range t.Elems {
			if err := r.resolveField(reg, w, owner, fieldName, elem, line); err != nil {
				return err
			}
		}
		return nil

	case parser.TypeUnit:
		return nil

	case parser.TypeArray, parser.TypeSlice, parser.TypeFunction, parser.TypeImplTrait,
		parser.TypeDynTrait, parser.TypePointer, parser.TypeNever:
		r.diags.Warn(diag.CodeUnsupportedType, line, "field %s.%s: %s type %q skipped", owner, fieldName, t.Kind, t.Raw)
		return nil
	}

	return r.diags.Fatal(diag.ErrUnsupportedType, diag.CodeUnsupportedType, line,
		"field %s.%s has unsupported type %q", owner, fieldName, t.Raw)
}

func (r *Resolver) isOptional(typeName string) bool {
	_, ok := parser.ParseTypeString(typeName).Unwrap(r.opts.OptionalWrapper)
	return ok
}

// optionalInner returns the type name of an optional field from its
// unwrapped inner type: the record name when the inner type is a record,
// otherwise the identifier path the canonical form carries
// (Option<Vec<String>> -> Vec).
func (r *Resolver) optionalInner(inner parser.TypeExpr) (string, bool) {
	name := simpleName(inner)
	if _, ok := r.records[name]; ok {
		return name, true
	}
	return inner.PathString(), false
}

// argRecord follows the last generic argument of t down to the first
// record it names, so Vec<User> and HashMap<String, Vec<User>> both yield
// User. It returns "" when there is none.
func (r *Resolver) argRecord(t parser.TypeExpr) string {
	for {
		arg, ok := t.LastArg()
		if !ok {
			return ""
		}
		if name := simpleName(arg); name != "" {
			if _, isRecord := r.records[name]; isRecord {
				return name
			}
		}
		if arg.Kind == parser.TypeReference && arg.Elem != nil {
			arg = *arg.Elem
		}
		t = arg
	}
}

// simpleName returns the name records are keyed by: the last path segment
// of a plain path, otherwise the canonical form.
func simpleName(t parser.TypeExpr) string {
	if t.Kind == parser.TypeReference && t.Elem != nil {
		return simpleName(*t.Elem)
	}
	if t.Kind == parser.TypePath && len(t.Args) == 0 {
		return t.Base()
	}
	return t.Canonical()
}

// worklist is a FIFO queue of names with a visited set.
type worklist struct {
	queue   []string
	visited map[string]bool
}

func (w *worklist) push(name string) {
	if name == "" || w.visited[name] {
		return
	}
	w.visited[name] = true
	w.queue = append(w.queue, name)
}

func (w *worklist) pop() (string, bool) {
	if len(w.queue) == 0 {
		return "", false
	}
	name := w.queue[0]
	w.queue = w.queue[1:]
	return name, true
}
