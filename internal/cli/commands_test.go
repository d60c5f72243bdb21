// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/api2spec/axum2spec/internal/engine"
	"github.com/api2spec/axum2spec/internal/openapi"
	"github.com/api2spec/axum2spec/pkg/types"
)

const postFooSource = `use axum::{routing::post, Json, Router};

struct PostFooRequestBody {
    username: String,
}

async fn post_foo(Json(payload): Json<PostFooRequestBody>) -> &'static str {
    "ok"
}

fn main() {
    let app = Router::new().route("/foo", post(post_foo));
}
`

// projectDir creates a crate with a single main.rs and makes it the working
// directory for the rest of the test.
func projectDir(t *testing.T, source string) string {
	t.Helper()
	resetFlags(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.rs"), []byte(source), 0644))
	chdir(t, dir)
	return dir
}

// chdir changes the working directory for the rest of the test and restores
// it on cleanup, matching testing.T.Chdir (Go 1.24+) on older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	abs, err := filepath.Abs(dir)
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Setenv("PWD", abs)
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}

func TestApplyIgnorePatterns(t *testing.T) {
	tests := []struct {
		name             string
		result           *openapi.DiffResult
		patterns         []string
		expectedPaths    int
		expectedSchemas  int
		expectedBreaking bool
	}{
		{
			name: "no patterns",
			result: &openapi.DiffResult{
				PathChanges: []openapi.PathChange{
					{Type: openapi.DiffTypeAdded, Path: "/api/users", Method: "GET"},
					{Type: openapi.DiffTypeRemoved, Path: "/api/posts", Method: "POST"},
				},
				SchemaChanges: []openapi.SchemaChange{
					{Type: openapi.DiffTypeAdded, Name: "User"},
				},
				HasBreakingChanges: true,
			},
			patterns:         []string{},
			expectedPaths:    2,
			expectedSchemas:  1,
			expectedBreaking: true,
		},
		{
			name: "filter by exact path",
			result: &openapi.DiffResult{
				PathChanges: []openapi.PathChange{
					{Type: openapi.DiffTypeAdded, Path: "/api/users", Method: "GET"},
					{Type: openapi.DiffTypeRemoved, Path: "/api/posts", Method: "POST"},
				},
				HasBreakingChanges: true,
			},
			patterns:         []string{"/api/users"},
			expectedPaths:    1,
			expectedSchemas:  0,
			expectedBreaking: true, // /api/posts is still removed, which is breaking
		},
		{
			name: "filter by prefix pattern",
			result: &openapi.DiffResult{
				PathChanges: []openapi.PathChange{
					{Type: openapi.DiffTypeAdded, Path: "/api/users", Method: "GET"},
					{Type: openapi.DiffTypeAdded, Path: "/api/posts", Method: "POST"},
					{Type: openapi.DiffTypeAdded, Path: "/health", Method: "GET"},
				},
			},
			patterns:        []string{"/api/*"},
			expectedPaths:   1,
			expectedSchemas: 0,
		},
		{
			name: "filter schema by name",
			result: &openapi.DiffResult{
				SchemaChanges: []openapi.SchemaChange{
					{Type: openapi.DiffTypeAdded, Name: "User"},
					{Type: openapi.DiffTypeAdded, Name: "Post"},
					{Type: openapi.DiffTypeRemoved, Name: "Comment"},
				},
			},
			patterns:         []string{"User", "Post"},
			expectedPaths:    0,
			expectedSchemas:  1,
			expectedBreaking: true,
		},
		{
			name: "breaking change removed when filtered",
			result: &openapi.DiffResult{
				PathChanges: []openapi.PathChange{
					{Type: openapi.DiffTypeRemoved, Path: "/api/deprecated", Method: "GET"},
				},
				HasBreakingChanges: true,
			},
			patterns:         []string{"/api/deprecated"},
			expectedPaths:    0,
			expectedSchemas:  0,
			expectedBreaking: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filtered := applyIgnorePatterns(tt.result, tt.patterns)

			assert.Len(t, filtered.PathChanges, tt.expectedPaths)
			assert.Len(t, filtered.SchemaChanges, tt.expectedSchemas)
			assert.Equal(t, tt.expectedBreaking, filtered.HasBreakingChanges)
		})
	}
}

func TestMatchesAnyPattern(t *testing.T) {
	tests := []struct {
		name     string
		s        string
		patterns []string
		expected bool
	}{
		{
			name:     "exact match",
			s:        "/api/users",
			patterns: []string{"/api/users"},
			expected: true,
		},
		{
			name:     "no match",
			s:        "/api/users",
			patterns: []string{"/api/posts"},
			expected: false,
		},
		{
			name:     "prefix wildcard",
			s:        "/api/users",
			patterns: []string{"/api/*"},
			expected: true,
		},
		{
			name:     "suffix wildcard",
			s:        "UserResponse",
			patterns: []string{"*Response"},
			expected: true,
		},
		{
			name:     "glob across segments",
			s:        "/api/v1/users",
			patterns: []string{"/api/**/users"},
			expected: true,
		},
		{
			name:     "glob within a segment",
			s:        "/api/users",
			patterns: []string{"/a?i/users"},
			expected: true,
		},
		{
			name:     "empty patterns",
			s:        "/api/users",
			patterns: []string{},
			expected: false,
		},
		{
			name:     "multiple patterns - one match",
			s:        "/api/users",
			patterns: []string{"/api/posts", "/api/users", "/api/comments"},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := matchesAnyPattern(tt.s, tt.patterns)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestGetChangeSymbol(t *testing.T) {
	tests := []struct {
		diffType openapi.DiffType
		expected string
	}{
		{openapi.DiffTypeAdded, "+"},
		{openapi.DiffTypeRemoved, "-"},
		{openapi.DiffTypeModified, "~"},
	}

	for _, tt := range tests {
		t.Run(string(tt.diffType), func(t *testing.T) {
			result := getChangeSymbol(tt.diffType)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestGenerateFilteredSummary(t *testing.T) {
	tests := []struct {
		name     string
		result   *openapi.DiffResult
		contains []string
	}{
		{
			name: "empty result",
			result: &openapi.DiffResult{
				PathChanges:   []openapi.PathChange{},
				SchemaChanges: []openapi.SchemaChange{},
			},
			contains: []string{"No changes detected"},
		},
		{
			name: "paths added",
			result: &openapi.DiffResult{
				PathChanges: []openapi.PathChange{
					{Type: openapi.DiffTypeAdded, Path: "/api/users"},
					{Type: openapi.DiffTypeAdded, Path: "/api/posts"},
				},
			},
			contains: []string{"2 path(s) added"},
		},
		{
			name: "mixed changes",
			result: &openapi.DiffResult{
				PathChanges: []openapi.PathChange{
					{Type: openapi.DiffTypeAdded, Path: "/api/users"},
					{Type: openapi.DiffTypeRemoved, Path: "/api/posts"},
				},
				SchemaChanges: []openapi.SchemaChange{
					{Type: openapi.DiffTypeModified, Name: "User"},
				},
				HasBreakingChanges: true,
			},
			contains: []string{"1 path(s) added", "1 path(s) removed", "1 schema(s) modified", "BREAKING"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := generateFilteredSummary(tt.result)
			for _, expected := range tt.contains {
				assert.Contains(t, summary, expected)
			}
		})
	}
}

func TestCheckExitCode(t *testing.T) {
	assert.Equal(t, ExitCodeMatch, checkExitCode(nil))
	assert.Equal(t, ExitCodeDifference, checkExitCode(errSpecDiffers))
	assert.Equal(t, ExitCodeDifference, checkExitCode(errors.Join(errors.New("context"), errSpecDiffers)))
	assert.Equal(t, ExitCodeCheckError, checkExitCode(errors.New("parse failure")))
}

func TestExitCodes(t *testing.T) {
	assert.Equal(t, 0, ExitCodeMatch)
	assert.Equal(t, 1, ExitCodeDifference)
	assert.Equal(t, 2, ExitCodeCheckError)
}

func TestGenerateCommand_DryRun(t *testing.T) {
	projectDir(t, postFooSource)

	out, err := executeCommand(rootCmd, "generate", "--dry-run", "-f", "json", "main.rs")
	require.NoError(t, err)

	var doc types.OpenAPI
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Contains(t, doc.Paths, "/foo")
	assert.Equal(t, "postPostFoo", doc.Paths["/foo"]["post"].OperationID)
	assert.Contains(t, doc.Components.Schemas, "PostFooRequestBody")
	assert.NoFileExists(t, "openapi.yaml")
}

func TestGenerateCommand_WritesFile(t *testing.T) {
	dir := projectDir(t, postFooSource)

	_, err := executeCommand(rootCmd, "generate", "-q", "-o", filepath.Join("out", "spec.json"))
	require.NoError(t, err)

	doc, err := openapi.ReadFile(filepath.Join(dir, "out", "spec.json"))
	require.NoError(t, err)
	assert.Equal(t, "3.0.3", doc.OpenAPI)
	assert.Contains(t, doc.Paths, "/foo")
}

func TestGenerateCommand_Strict(t *testing.T) {
	projectDir(t, `
async fn h(Json(b): Json<Body>) {}

struct Body {
    items: [u8; 4],
}

fn main() {
    app.route("/h", post(h));
}
`)

	_, err := executeCommand(rootCmd, "generate", "--dry-run", "--strict", "-q", "main.rs")
	require.Error(t, err)
	assert.True(t, errors.Is(err, engine.ErrStrict))
	assert.Contains(t, err.Error(), "unsupported-type")
}

func TestGenerateCommand_MissingHandler(t *testing.T) {
	projectDir(t, `
fn main() {
    app.route("/gone", get(nowhere));
}
`)

	_, err := executeCommand(rootCmd, "generate", "--dry-run", "-q", "main.rs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `handler "nowhere" for route "/gone" not found`)
}

func TestCheckCommand_NoSpecFile(t *testing.T) {
	projectDir(t, postFooSource)
	cfgFile = ""
	output = ""

	err := runCheck(checkCmd, []string{})

	require.Error(t, err)
	assert.Equal(t, ExitCodeDifference, checkExitCode(err))
}

func TestCheckCommand_InSyncThenStale(t *testing.T) {
	dir := projectDir(t, postFooSource)
	checkStrict = true
	checkIgnore = nil

	_, err := executeCommand(rootCmd, "generate", "-q")
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(dir, "openapi.yaml"))

	require.NoError(t, runCheck(checkCmd, nil))

	stale := strings.Replace(postFooSource, "post(post_foo));\n",
		"post(post_foo));\n    app.route(\"/bar\", post(post_foo));\n", 1)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.rs"), []byte(stale), 0644))

	err = runCheck(checkCmd, nil)
	require.Error(t, err)
	assert.Equal(t, ExitCodeDifference, checkExitCode(err))

	checkIgnore = []string{"/bar"}
	assert.NoError(t, runCheck(checkCmd, nil))
}

func writeSpec(t *testing.T, dir, name string, paths ...string) string {
	t.Helper()

	doc := &types.OpenAPI{
		OpenAPI: "3.0.3",
		Info:    types.Info{Title: "Test API", Version: "1.0.0"},
		Servers: []types.Server{},
		Paths:   make(map[string]types.PathItem),
		Components: types.Components{
			Schemas: map[string]*types.Schema{},
		},
	}
	for _, p := range paths {
		doc.Paths[p] = types.PathItem{
			"post": {
				Summary:    "TODO",
				Parameters: []types.Parameter{},
				Responses:  map[string]types.Response{"200": {Description: "OK"}},
			},
		}
	}

	path := filepath.Join(dir, name)
	require.NoError(t, openapi.NewWriter().WriteFile(doc, path, ""))
	return path
}

func TestDiffCommand_TwoFiles(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	a := writeSpec(t, dir, "a.yaml", "/foo")
	b := writeSpec(t, dir, "b.yaml", "/foo", "/bar")

	buf := new(bytes.Buffer)
	diffCmd.SetOut(buf)
	t.Cleanup(func() { diffCmd.SetOut(nil) })

	t.Run("structural", func(t *testing.T) {
		buf.Reset()
		diffText = false
		require.NoError(t, runDiff(diffCmd, []string{a, b}))

		assert.Contains(t, buf.String(), "1 path(s) added")
		assert.Contains(t, buf.String(), "+ POST /bar")
	})

	t.Run("text", func(t *testing.T) {
		buf.Reset()
		diffText = true
		diffUnified = 1
		require.NoError(t, runDiff(diffCmd, []string{a, b}))

		out := buf.String()
		assert.Contains(t, out, "--- "+a)
		assert.Contains(t, out, "+++ "+b)
		assert.Contains(t, out, "/bar:")
		assert.NotContains(t, out, "\x1b[")
	})

	t.Run("identical", func(t *testing.T) {
		buf.Reset()
		diffText = true
		require.NoError(t, runDiff(diffCmd, []string{a, a}))
		assert.Equal(t, "No differences found.\n", buf.String())
	})
}

func TestDiffCommand_TwoNonExistentFiles(t *testing.T) {
	err := runDiff(diffCmd, []string{"nonexistent1.yaml", "nonexistent2.yaml"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read spec file")
}

func TestDiffCommand_TooManyArgs(t *testing.T) {
	err := runDiff(diffCmd, []string{"a.yaml", "b.yaml", "c.yaml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too many arguments")
}

func TestColorize(t *testing.T) {
	in := "--- a.yaml\n+++ b.yaml\n@@ -1 +1 @@\n-old\n+new\n~ POST /foo\n same"
	want := "--- a.yaml\n+++ b.yaml\n" +
		ansiCyan + "@@ -1 +1 @@" + ansiReset + "\n" +
		ansiRed + "-old" + ansiReset + "\n" +
		ansiGreen + "+new" + ansiReset + "\n" +
		ansiYellow + "~ POST /foo" + ansiReset + "\n" +
		" same"

	assert.Equal(t, want, colorize(in))
}

func TestPrintCommand_ExistingFile(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	specFile := filepath.Join(dir, "openapi.yaml")

	content := `openapi: "3.0.3"
info:
  title: Test API
  version: "1.0.0"
paths: {}
`
	require.NoError(t, os.WriteFile(specFile, []byte(content), 0o644))

	buf := new(bytes.Buffer)
	printCmd.SetOut(buf)
	t.Cleanup(func() { printCmd.SetOut(nil) })

	t.Run("as is", func(t *testing.T) {
		buf.Reset()
		format = ""
		require.NoError(t, runPrint(printCmd, []string{specFile}))
		assert.Equal(t, content, buf.String())
	})

	t.Run("converted", func(t *testing.T) {
		buf.Reset()
		format = "json"
		require.NoError(t, runPrint(printCmd, []string{specFile}))

		var doc types.OpenAPI
		require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
		assert.Equal(t, "Test API", doc.Info.Title)
	})
}

func TestPrintCommand_Generated(t *testing.T) {
	projectDir(t, postFooSource)
	format = "yaml"

	buf := new(bytes.Buffer)
	printCmd.SetOut(buf)
	t.Cleanup(func() { printCmd.SetOut(nil) })

	require.NoError(t, runPrint(printCmd, nil))
	assert.Contains(t, buf.String(), "operationId: postPostFoo")
	assert.Contains(t, buf.String(), "#/components/schemas/PostFooRequestBody")
}
