// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package openapi

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/api2spec/axum2spec/pkg/types"
)

// DiffType represents the type of change detected.
type DiffType string

const (
	// DiffTypeAdded indicates a new item was added.
	DiffTypeAdded DiffType = "added"

	// DiffTypeRemoved indicates an item was removed.
	DiffTypeRemoved DiffType = "removed"

	// DiffTypeModified indicates an item was modified.
	DiffTypeModified DiffType = "modified"
)

// PathChange represents a change to a path/operation.
type PathChange struct {
	Type        DiffType
	Path        string
	Method      string
	Description string
}

// SchemaChange represents a change to a schema.
type SchemaChange struct {
	Type        DiffType
	Name        string
	Description string
}

// DiffResult contains the differences between two OpenAPI documents.
type DiffResult struct {
	// PathChanges contains all path/operation changes.
	PathChanges []PathChange

	// SchemaChanges contains all schema changes.
	SchemaChanges []SchemaChange

	// HasBreakingChanges indicates if any breaking changes were detected.
	HasBreakingChanges bool

	// Summary provides a human-readable summary of changes.
	Summary string
}

// IsEmpty returns true if there are no differences.
func (d *DiffResult) IsEmpty() bool {
	return len(d.PathChanges) == 0 && len(d.SchemaChanges) == 0
}

// Differ compares two OpenAPI documents.
type Differ struct{}

// NewDiffer creates a new Differ.
func NewDiffer() *Differ {
	return &Differ{}
}

// Diff compares two OpenAPI documents and returns the differences.
// Changes are reported in path, method and name order.
func (d *Differ) Diff(a, b *types.OpenAPI) (*DiffResult, error) {
	result := &DiffResult{
		PathChanges:   []PathChange{},
		SchemaChanges: []SchemaChange{},
	}

	d.diffPaths(pathsOf(a), pathsOf(b), result)
	d.diffSchemas(schemasOf(a), schemasOf(b), result)

	result.HasBreakingChanges = d.detectBreakingChanges(result)
	result.Summary = d.generateSummary(result)

	return result, nil
}

func pathsOf(doc *types.OpenAPI) map[string]types.PathItem {
	if doc == nil || doc.Paths == nil {
		return map[string]types.PathItem{}
	}
	return doc.Paths
}

func schemasOf(doc *types.OpenAPI) map[string]*types.Schema {
	if doc == nil || doc.Components.Schemas == nil {
		return map[string]*types.Schema{}
	}
	return doc.Components.Schemas
}

// diffPaths compares the paths between two documents.
func (d *Differ) diffPaths(aPaths, bPaths map[string]types.PathItem, result *DiffResult) {
	paths := lo.Uniq(append(lo.Keys(aPaths), lo.Keys(bPaths)...))
	sort.Strings(paths)

	for _, path := range paths {
		d.diffPathItem(path, aPaths[path], bPaths[path], result)
	}
}

// diffPathItem compares operations within a path item. A nil item has no
// operations.
func (d *Differ) diffPathItem(path string, a, b types.PathItem, result *DiffResult) {
	methods := lo.Uniq(append(lo.Keys(a), lo.Keys(b)...))
	sort.Strings(methods)

	for _, method := range methods {
		aOp, bOp := a[method], b[method]
		name := strings.ToUpper(method)

		switch {
		case aOp == nil && bOp != nil:
			result.PathChanges = append(result.PathChanges, PathChange{
				Type:        DiffTypeAdded,
				Path:        path,
				Method:      name,
				Description: fmt.Sprintf("Added %s %s", name, path),
			})
		case aOp != nil && bOp == nil:
			result.PathChanges = append(result.PathChanges, PathChange{
				Type:        DiffTypeRemoved,
				Path:        path,
				Method:      name,
				Description: fmt.Sprintf("Removed %s %s", name, path),
			})
		case aOp != nil && bOp != nil && d.operationModified(aOp, bOp):
			result.PathChanges = append(result.PathChanges, PathChange{
				Type:        DiffTypeModified,
				Path:        path,
				Method:      name,
				Description: fmt.Sprintf("Modified %s %s", name, path),
			})
		}
	}
}

// operationModified checks if an operation was modified.
func (d *Differ) operationModified(a, b *types.Operation) bool {
	if a.Summary != b.Summary ||
		a.Description != b.Description ||
		a.OperationID != b.OperationID {
		return true
	}

	if len(a.Parameters) != len(b.Parameters) {
		return true
	}
	for i := range a.Parameters {
		pa, pb := a.Parameters[i], b.Parameters[i]
		if pa.Name != pb.Name || pa.In != pb.In || pa.Required != pb.Required ||
			d.schemaModified(pa.Schema, pb.Schema) {
			return true
		}
	}

	if bodyRef(a) != bodyRef(b) {
		return true
	}

	return !lo.ElementsMatch(lo.Keys(a.Responses), lo.Keys(b.Responses))
}

// bodyRef returns the JSON request body reference of op, if any.
func bodyRef(op *types.Operation) string {
	if op.RequestBody == nil {
		return ""
	}
	media, ok := op.RequestBody.Content[ContentTypeJSON]
	if !ok || media.Schema == nil {
		return ""
	}
	return media.Schema.Ref
}

// diffSchemas compares the component schemas between two documents.
func (d *Differ) diffSchemas(aSchemas, bSchemas map[string]*types.Schema, result *DiffResult) {
	names := lo.Uniq(append(lo.Keys(aSchemas), lo.Keys(bSchemas)...))
	sort.Strings(names)

	for _, name := range names {
		aSchema, inA := aSchemas[name]
		bSchema, inB := bSchemas[name]

		switch {
		case inA && !inB:
			result.SchemaChanges = append(result.SchemaChanges, SchemaChange{
				Type:        DiffTypeRemoved,
				Name:        name,
				Description: fmt.Sprintf("Removed schema: %s", name),
			})
		case !inA && inB:
			result.SchemaChanges = append(result.SchemaChanges, SchemaChange{
				Type:        DiffTypeAdded,
				Name:        name,
				Description: fmt.Sprintf("Added schema: %s", name),
			})
		case d.schemaModified(aSchema, bSchema):
			result.SchemaChanges = append(result.SchemaChanges, SchemaChange{
				Type:        DiffTypeModified,
				Name:        name,
				Description: fmt.Sprintf("Modified schema: %s", name),
			})
		}
	}
}

// schemaModified checks if a schema was modified. Required names are
// compared as a set.
func (d *Differ) schemaModified(a, b *types.Schema) bool {
	if a == nil || b == nil {
		return a != b
	}

	if a.Ref != b.Ref || a.Type != b.Type {
		return true
	}
	if !reflect.DeepEqual(a.Default, b.Default) || !reflect.DeepEqual(a.Enum, b.Enum) {
		return true
	}
	if !lo.ElementsMatch(a.Required, b.Required) {
		return true
	}

	if len(a.Properties) != len(b.Properties) {
		return true
	}
	for name, ap := range a.Properties {
		bp, ok := b.Properties[name]
		if !ok || d.schemaModified(ap, bp) {
			return true
		}
	}

	return false
}

// detectBreakingChanges checks if any changes are breaking.
func (d *Differ) detectBreakingChanges(result *DiffResult) bool {
	return lo.ContainsBy(result.PathChanges, func(c PathChange) bool {
		return c.Type == DiffTypeRemoved
	}) || lo.ContainsBy(result.SchemaChanges, func(c SchemaChange) bool {
		return c.Type == DiffTypeRemoved
	})
}

// generateSummary creates a human-readable summary of changes.
func (d *Differ) generateSummary(result *DiffResult) string {
	if result.IsEmpty() {
		return "No changes detected"
	}

	pathCounts := lo.CountValuesBy(result.PathChanges, func(c PathChange) DiffType { return c.Type })
	schemaCounts := lo.CountValuesBy(result.SchemaChanges, func(c SchemaChange) DiffType { return c.Type })

	var parts []string
	for _, t := range []DiffType{DiffTypeAdded, DiffTypeRemoved, DiffTypeModified} {
		if n := pathCounts[t]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d path(s) %s", n, t))
		}
	}
	for _, t := range []DiffType{DiffTypeAdded, DiffTypeRemoved, DiffTypeModified} {
		if n := schemaCounts[t]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d schema(s) %s", n, t))
		}
	}

	var sb strings.Builder
	sb.WriteString(strings.Join(parts, ", "))
	if result.HasBreakingChanges {
		sb.WriteString(" [BREAKING CHANGES DETECTED]")
	}
	return sb.String()
}

func changeSymbol(t DiffType) string {
	switch t {
	case DiffTypeAdded:
		return "+ "
	case DiffTypeRemoved:
		return "- "
	case DiffTypeModified:
		return "~ "
	default:
		return "  "
	}
}

// FormatDiff returns a formatted string representation of the diff.
func FormatDiff(result *DiffResult) string {
	if result.IsEmpty() {
		return "No differences found."
	}

	var sb strings.Builder

	sb.WriteString("=== OpenAPI Diff ===\n\n")
	sb.WriteString(result.Summary)
	sb.WriteString("\n\n")

	if len(result.PathChanges) > 0 {
		sb.WriteString("--- Path Changes ---\n")
		for _, c := range result.PathChanges {
			sb.WriteString(fmt.Sprintf("%s%s %s\n", changeSymbol(c.Type), c.Method, c.Path))
		}
		sb.WriteString("\n")
	}

	if len(result.SchemaChanges) > 0 {
		sb.WriteString("--- Schema Changes ---\n")
		for _, c := range result.SchemaChanges {
			sb.WriteString(fmt.Sprintf("%s%s\n", changeSymbol(c.Type), c.Name))
		}
	}

	return sb.String()
}
