// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package schema

import (
	"strings"

	"github.com/api2spec/axum2spec/pkg/types"
)

// RefPrefix is the prefix of component references.
const RefPrefix = "#/components/schemas/"

// primitiveTypes maps lower-cased Rust type names to OpenAPI types.
var primitiveTypes = map[string]string{
	"string":  "string",
	"i8":      "byte",
	"u8":      "byte",
	"i16":     "integer",
	"i32":     "integer",
	"i64":     "integer",
	"i128":    "integer",
	"u16":     "integer",
	"u32":     "integer",
	"u64":     "integer",
	"u128":    "integer",
	"f32":     "number",
	"f64":     "number",
	"boolean": "boolean",
	"bool":    "boolean",
}

// PrimitiveType returns the OpenAPI type of a Rust type name, matched
// case-insensitively.
func PrimitiveType(typeName string) (string, bool) {
	t, ok := primitiveTypes[strings.ToLower(typeName)]
	return t, ok
}

// Ref returns the component reference for name.
func Ref(name string) string {
	return RefPrefix + name
}

// FieldSchema returns the property schema for a field type: the primitive
// type when the name is in the table, otherwise a component reference.
func FieldSchema(typeName string) *types.Schema {
	if t, ok := PrimitiveType(typeName); ok {
		return &types.Schema{Type: t}
	}
	return &types.Schema{Ref: Ref(typeName)}
}
