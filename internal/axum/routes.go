// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package axum

import (
	"sort"

	"github.com/api2spec/axum2spec/internal/catalog"
	"github.com/api2spec/axum2spec/internal/diag"
	"github.com/api2spec/axum2spec/internal/parser"
	"github.com/api2spec/axum2spec/pkg/types"
)

// RouteTable holds at most one route per path. A later registration of the
// same path replaces the earlier one.
type RouteTable struct {
	entries map[string]types.Route
}

// NewRouteTable creates an empty route table.
func NewRouteTable() *RouteTable {
	return &RouteTable{entries: make(map[string]types.Route)}
}

// Set stores r under its path and returns the entry it replaced, if any.
func (t *RouteTable) Set(r types.Route) (types.Route, bool) {
	prev, ok := t.entries[r.Path]
	t.entries[r.Path] = r
	return prev, ok
}

// Get returns the route registered for path.
func (t *RouteTable) Get(path string) (types.Route, bool) {
	r, ok := t.entries[path]
	return r, ok
}

// Len returns the number of registered paths.
func (t *RouteTable) Len() int {
	return len(t.entries)
}

// Sorted returns the routes ordered by path.
func (t *RouteTable) Sorted() []types.Route {
	routes := make([]types.Route, 0, len(t.entries))
	for _, r := range t.entries {
		routes = append(routes, r)
	}
	sort.Slice(routes, func(i, j int) bool {
		return routes[i].Path < routes[j].Path
	})
	return routes
}

// routeBuilder scans function bodies for route registrations.
type routeBuilder struct {
	opts  Options
	diags *diag.Collector
	table *RouteTable
}

// BuildRouteTable scans every statement of every function body for the
// registration shape
//
//	<expr>.route("<path>", <method>(<handler>))
//
// Expression statements, tail expressions and let initializers are
// candidates. A route call of any other shape is skipped with a warning.
func BuildRouteTable(cat *catalog.Catalog, opts Options, diags *diag.Collector) *RouteTable {
	b := &routeBuilder{
		opts:  opts,
		diags: diags,
		table: NewRouteTable(),
	}

	for _, fn := range cat.Bodies {
		for _, stmt := range fn.Body {
			if stmt.Expr == nil {
				continue
			}
			switch stmt.Kind {
			case parser.StmtExpr, parser.StmtLocal:
				b.visit(stmt.Expr, stmt.Line)
			}
		}
	}

	return b.table
}

func (b *routeBuilder) visit(expr *parser.Expr, line int) {
	if !b.opts.FollowChains {
		b.register(expr, line)
		return
	}

	// Innermost call first so registrations apply in source order.
	var chain []*parser.Expr
	for e := expr; e != nil && e.Kind == parser.ExprMethodCall; e = e.Receiver {
		chain = append(chain, e)
	}
	for i := len(chain) - 1; i >= 0; i-- {
		b.register(chain[i], line)
	}
}

func (b *routeBuilder) register(expr *parser.Expr, line int) {
	if expr.Kind != parser.ExprMethodCall || expr.Method != b.opts.RouteMethod {
		return
	}
	if expr.Line > 0 {
		line = expr.Line
	}

	route, reason, ok := b.match(expr)
	if !ok {
		b.diags.Warn(diag.CodeRouteShape, line, "%s call skipped: %s", b.opts.RouteMethod, reason)
		return
	}
	route.SourceLine = line

	if !IsHTTPMethod(route.Method) {
		log.Debugw("route registered with unknown method router", "path", route.Path, "method", route.Method)
	}

	if prev, replaced := b.table.Set(route); replaced {
		b.diags.Warn(diag.CodeRouteOverwrite, line, "route %s (%s %s) replaces %s %s registered at line %d",
			route.Path, route.Method, route.Handler, prev.Method, prev.Handler, prev.SourceLine)
	}
}

// match checks the argument shape of a route call.
func (b *routeBuilder) match(expr *parser.Expr) (types.Route, string, bool) {
	if len(expr.Args) != 2 {
		return types.Route{}, "expected a path and a method router argument", false
	}

	path := expr.Args[0]
	if path.Kind != parser.ExprString {
		return types.Route{}, "first argument is not a string literal", false
	}

	call := expr.Args[1]
	if call.Kind != parser.ExprCall {
		return types.Route{}, "second argument is not a method router call such as get(handler)", false
	}
	method := call.Callee.LastSegment()
	if method == "" {
		return types.Route{}, "method router is not an identifier", false
	}
	if len(call.Args) == 0 {
		return types.Route{}, "method router has no handler argument", false
	}
	handler := call.Args[len(call.Args)-1].LastSegment()
	if handler == "" {
		return types.Route{}, "handler is not a path", false
	}

	return types.Route{
		Path:    path.Value,
		Method:  method,
		Handler: handler,
	}, "", true
}
