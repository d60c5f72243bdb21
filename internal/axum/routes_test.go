// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package axum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/api2spec/axum2spec/internal/catalog"
	"github.com/api2spec/axum2spec/internal/diag"
	"github.com/api2spec/axum2spec/internal/parser"
	"github.com/api2spec/axum2spec/pkg/types"
)

// axumBasicCode registers routes as statements, let initializers and a
// tail expression.
const axumBasicCode = `
use axum::{routing::{get, post}, Router};

async fn post_foo() {}
async fn list_items() {}
async fn get_health() {}

#[tokio::main]
async fn main() {
    let app = Router::new().route("/foo", post(post_foo));
    app.route("/items", get(handlers::list_items));
    app.route("/health", get(get_health))
}
`

// axumOverwriteCode registers the same path twice.
const axumOverwriteCode = `
use axum::{routing::{get, post}, Router};

async fn first() {}
async fn second() {}

fn main() {
    app.route("/dup", get(first));
    app.route("/dup", post(second));
}
`

// axumChainCode registers routes through one method chain.
const axumChainCode = `
use axum::{routing::get, Router};

async fn a() {}
async fn b() {}
async fn c() {}

fn main() {
    let app = Router::new()
        .route("/a", get(a))
        .route("/b", get(b))
        .route("/c", get(c));
}
`

// axumMalformedCode has route calls the builder cannot interpret.
const axumMalformedCode = `
use axum::{routing::get, Router};

const PATH: &str = "/x";

async fn h() {}

fn main() {
    app.route(PATH, get(h));
    app.route("/y", get(h).post(h));
    app.route("/z");
    app.route("/w", get("not a path"));
    app.nest("/api", other());
    app.route("/ok", get(h));
}
`

func buildRoutes(t *testing.T, source string, opts Options) (*RouteTable, *diag.Collector) {
	t.Helper()

	p := parser.NewRustParser()
	defer p.Close()

	f, err := p.ParseSource("main.rs", source)
	require.NoError(t, err)

	diags := diag.NewCollector("main.rs")
	cat := catalog.Build(f, "main", diags)
	return BuildRouteTable(cat, opts, diags), diags
}

func TestBuildRouteTable_Basic(t *testing.T) {
	table, diags := buildRoutes(t, axumBasicCode, DefaultOptions())

	require.Equal(t, 3, table.Len())
	assert.Equal(t, 0, diags.Len())

	foo, ok := table.Get("/foo")
	require.True(t, ok)
	assert.Equal(t, types.Route{Path: "/foo", Method: "post", Handler: "post_foo", SourceLine: 10}, foo)

	items, ok := table.Get("/items")
	require.True(t, ok)
	assert.Equal(t, "list_items", items.Handler)
	assert.Equal(t, "get", items.Method)

	health, ok := table.Get("/health")
	require.True(t, ok)
	assert.Equal(t, "get_health", health.Handler)

	sorted := table.Sorted()
	require.Len(t, sorted, 3)
	assert.Equal(t, "/foo", sorted[0].Path)
	assert.Equal(t, "/health", sorted[1].Path)
	assert.Equal(t, "/items", sorted[2].Path)
}

func TestBuildRouteTable_LastWriteWins(t *testing.T) {
	table, diags := buildRoutes(t, axumOverwriteCode, DefaultOptions())

	require.Equal(t, 1, table.Len())
	route, ok := table.Get("/dup")
	require.True(t, ok)
	assert.Equal(t, "post", route.Method)
	assert.Equal(t, "second", route.Handler)

	warnings := diags.Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, diag.CodeRouteOverwrite, warnings[0].Code)
	assert.Equal(t, 9, warnings[0].Line)
}

func TestBuildRouteTable_Chains(t *testing.T) {
	t.Run("outermost call only by default", func(t *testing.T) {
		table, _ := buildRoutes(t, axumChainCode, DefaultOptions())

		require.Equal(t, 1, table.Len())
		_, ok := table.Get("/c")
		assert.True(t, ok)
	})

	t.Run("follow chains", func(t *testing.T) {
		opts := DefaultOptions()
		opts.FollowChains = true
		table, diags := buildRoutes(t, axumChainCode, opts)

		assert.Equal(t, 3, table.Len())
		for _, path := range []string{"/a", "/b", "/c"} {
			_, ok := table.Get(path)
			assert.True(t, ok, path)
		}
		assert.Equal(t, 0, diags.Len())
	})
}

func TestBuildRouteTable_Malformed(t *testing.T) {
	table, diags := buildRoutes(t, axumMalformedCode, DefaultOptions())

	require.Equal(t, 1, table.Len())
	_, ok := table.Get("/ok")
	assert.True(t, ok)

	warnings := diags.Warnings()
	require.Len(t, warnings, 4)
	for _, w := range warnings {
		assert.Equal(t, diag.CodeRouteShape, w.Code)
	}
	assert.Equal(t, 9, warnings[0].Line)
	assert.Contains(t, warnings[0].Message, "string literal")
	assert.Contains(t, warnings[1].Message, "method router call")
	assert.Contains(t, warnings[2].Message, "path and a method router")
	assert.Contains(t, warnings[3].Message, "handler is not a path")
}

func TestBuildRouteTable_CustomRouteMethod(t *testing.T) {
	source := `
fn main() {
    app.route("/a", get(a));
    app.endpoint("/b", get(b));
}
`
	opts := DefaultOptions()
	opts.RouteMethod = "endpoint"
	table, _ := buildRoutes(t, source, opts)

	require.Equal(t, 1, table.Len())
	_, ok := table.Get("/b")
	assert.True(t, ok)
}

func TestBuildRouteTable_ScansEveryFunction(t *testing.T) {
	source := `
fn api_routes() -> Router {
    Router::new().route("/inner", get(inner))
}

fn main() {
    let app = api_routes();
}
`
	table, _ := buildRoutes(t, source, DefaultOptions())

	_, ok := table.Get("/inner")
	assert.True(t, ok)
}

func TestRouteTable_Set(t *testing.T) {
	table := NewRouteTable()

	_, replaced := table.Set(types.Route{Path: "/a", Method: "get", Handler: "x"})
	assert.False(t, replaced)

	prev, replaced := table.Set(types.Route{Path: "/a", Method: "post", Handler: "y"})
	assert.True(t, replaced)
	assert.Equal(t, "x", prev.Handler)
	assert.Equal(t, 1, table.Len())
}
