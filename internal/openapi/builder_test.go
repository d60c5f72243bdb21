// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package openapi

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/api2spec/axum2spec/internal/axum"
	"github.com/api2spec/axum2spec/internal/catalog"
	"github.com/api2spec/axum2spec/internal/config"
	"github.com/api2spec/axum2spec/internal/diag"
	"github.com/api2spec/axum2spec/internal/parser"
	"github.com/api2spec/axum2spec/internal/schema"
	"github.com/api2spec/axum2spec/pkg/types"
)

const postFooCode = `
use axum::{routing::{get, post}, Json, Router};

struct PostFooRequestBody {
    username: String,
}

struct SearchParams {
    q: String,
    page: Option<u32>,
}

async fn post_foo(Json(body): Json<PostFooRequestBody>) {}
async fn list_items(Query(params): Query<SearchParams>) {}

fn main() {
    let app = Router::new().route("/foo", post(post_foo));
    app.route("/items", get(list_items));
}
`

// buildInput runs the pipeline up to assembly for source.
func buildInput(t *testing.T, source string, seeds ...string) (Input, *diag.Collector) {
	t.Helper()

	p := parser.NewRustParser()
	defer p.Close()

	f, err := p.ParseSource("main.rs", source)
	require.NoError(t, err)

	diags := diag.NewCollector("main.rs")
	cat := catalog.Build(f, "main", diags)
	routes := axum.BuildRouteTable(cat, axum.DefaultOptions(), diags)

	reg, err := schema.NewResolver(cat.Records, schema.DefaultOptions(), diags).Resolve(seeds...)
	require.NoError(t, err)

	return Input{Routes: routes.Sorted(), Catalog: cat, Components: reg}, diags
}

func TestNewBuilder(t *testing.T) {
	cfg := config.Default()
	builder := NewBuilder(cfg)

	assert.NotNil(t, builder)
	assert.Equal(t, cfg, builder.config)
}

func TestBuilder_Build_Empty(t *testing.T) {
	cfg := config.Default()
	cfg.OpenAPI.Info.Title = "Test API"
	cfg.OpenAPI.Info.Version = "1.0.0"

	doc, err := NewBuilder(cfg).Build(Input{Catalog: &catalog.Catalog{}}, diag.NewCollector(""))

	require.NoError(t, err)
	assert.Equal(t, "3.0.3", doc.OpenAPI)
	assert.Equal(t, "Test API", doc.Info.Title)
	assert.Equal(t, "TODO", doc.Info.Description)
	assert.Equal(t, "1.0.0", doc.Info.Version)
	assert.NotNil(t, doc.Servers)
	assert.Empty(t, doc.Servers)
	assert.Empty(t, doc.Paths)
	assert.Empty(t, doc.Components.Schemas)
}

func TestBuilder_Build_PostFoo(t *testing.T) {
	in, diags := buildInput(t, postFooCode, "PostFooRequestBody", "RequestBody", "SearchParams")

	doc, err := NewBuilder(config.Default()).Build(in, diags)
	require.NoError(t, err)
	assert.Equal(t, 0, diags.Len())

	require.Contains(t, doc.Paths, "/foo")
	op := doc.Paths["/foo"]["post"]
	require.NotNil(t, op)

	assert.Equal(t, "TODO", op.Summary)
	assert.Equal(t, "TODO", op.Description)
	assert.Equal(t, "postPostFoo", op.OperationID)
	assert.Empty(t, op.Parameters)
	assert.Equal(t, &types.RequestBody{
		Required: true,
		Content: map[string]types.MediaType{
			"application/json": {Schema: &types.Schema{Ref: "#/components/schemas/PostFooRequestBody"}},
		},
	}, op.RequestBody)
	assert.Equal(t, map[string]types.Response{"200": {Description: "OK"}}, op.Responses)

	assert.Equal(t, &types.Schema{
		Type:       "object",
		Required:   []string{"username"},
		Properties: map[string]*types.Schema{"username": {Type: "string"}},
	}, doc.Components.Schemas["PostFooRequestBody"])
	assert.Equal(t, &types.Schema{Type: "string"}, doc.Components.Schemas["RequestBody"])
}

func TestBuilder_Build_QueryAndPlaceholderBody(t *testing.T) {
	in, diags := buildInput(t, postFooCode, "SearchParams")

	doc, err := NewBuilder(config.Default()).Build(in, diags)
	require.NoError(t, err)

	op := doc.Paths["/items"]["get"]
	require.NotNil(t, op)
	assert.Equal(t, "getListItems", op.OperationID)
	assert.Equal(t, "#/components/schemas/RequestBody", op.RequestBody.Content[ContentTypeJSON].Schema.Ref)

	require.Len(t, op.Parameters, 2)
	assert.Equal(t, "q", op.Parameters[0].Name)
	assert.True(t, op.Parameters[0].Required)
	assert.Equal(t, "page", op.Parameters[1].Name)
	assert.False(t, op.Parameters[1].Required)
	assert.Equal(t, &types.Schema{Type: "integer"}, op.Parameters[1].Schema)

	search := doc.Components.Schemas["SearchParams"]
	require.NotNil(t, search)
	assert.Equal(t, []string{"q"}, search.Required)
}

func TestBuilder_Build_CustomPlaceholder(t *testing.T) {
	cfg := config.Default()
	cfg.Generation.RequestBodyPlaceholder = "Empty"
	in, diags := buildInput(t, postFooCode)

	doc, err := NewBuilder(cfg).Build(in, diags)
	require.NoError(t, err)
	assert.Equal(t, "#/components/schemas/Empty", doc.Paths["/items"]["get"].RequestBody.Content[ContentTypeJSON].Schema.Ref)
}

func TestBuilder_Build_MissingHandler(t *testing.T) {
	source := `
fn main() {
    app.route("/gone", get(missing));
}
`
	in, diags := buildInput(t, source)

	doc, err := NewBuilder(config.Default()).Build(in, diags)
	require.Error(t, err)
	assert.Nil(t, doc)
	assert.True(t, errors.Is(err, diag.ErrHandlerNotFound))
	assert.True(t, diag.IsFatal(err))
	assert.Contains(t, err.Error(), `handler "missing" for route "/gone" not found`)
}

func TestBuilder_OperationID(t *testing.T) {
	b := NewBuilder(config.Default())

	tests := []struct {
		method  string
		handler string
		want    string
	}{
		{"post", "post_foo", "postPostFoo"},
		{"get", "list_items", "getListItems"},
		{"GET", "health", "getHealth"},
		{"delete", "remove__user_", "deleteRemoveUser"},
	}

	for _, tt := range tests {
		t.Run(tt.handler, func(t *testing.T) {
			assert.Equal(t, tt.want, b.OperationID(tt.method, tt.handler))
		})
	}
}

func TestComponentSchema(t *testing.T) {
	t.Run("opaque", func(t *testing.T) {
		assert.Equal(t, &types.Schema{Type: "string"}, ComponentSchema(&types.Component{Name: "Uuid"}))
	})

	t.Run("fields", func(t *testing.T) {
		got := ComponentSchema(&types.Component{
			Name: "Pair",
			Fields: []types.FieldDescriptor{
				{FieldName: "pos", TypeName: "i32", Required: true},
				{FieldName: "pos", TypeName: "String", Required: true},
				{FieldName: "next", TypeName: "Pair", Required: false},
				{FieldName: "flag", TypeName: "bool", Required: true},
			},
		})

		assert.Equal(t, "object", got.Type)
		assert.Equal(t, []string{"pos", "flag"}, got.Required)
		assert.Equal(t, &types.Schema{Ref: "#/components/schemas/Pair"}, got.Properties["next"])
		assert.Equal(t, &types.Schema{Type: "boolean"}, got.Properties["flag"])
		assert.Equal(t, &types.Schema{Type: "string"}, got.Properties["pos"])
	})
}
