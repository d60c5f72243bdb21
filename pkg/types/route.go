// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package types provides core data structures for OpenAPI specification generation.
package types

// Route is a discovered binding of an HTTP path and method to a handler function.
type Route struct {
	// Path is the URL path exactly as registered (e.g., "/users")
	Path string `json:"path" yaml:"path"`

	// Method is the HTTP method identifier as written in source (e.g., "post")
	Method string `json:"method" yaml:"method"`

	// Handler is the name of the handler function
	Handler string `json:"handler" yaml:"handler"`

	// SourceLine is the line number where this route was registered
	SourceLine int `json:"sourceLine,omitempty" yaml:"sourceLine,omitempty"`
}

// Component is a named, flattened schema describing either an object with
// fields or an opaque leaf type (no fields).
type Component struct {
	// Name is the component name used in $ref targets
	Name string `json:"name" yaml:"name"`

	// Fields are the component fields in declaration order
	Fields []FieldDescriptor `json:"fields" yaml:"fields"`
}

// IsOpaque reports whether the component has no known structure.
func (c *Component) IsOpaque() bool {
	return len(c.Fields) == 0
}

// FieldDescriptor is one field's name, resolved type name and requiredness.
type FieldDescriptor struct {
	FieldName string `json:"fieldName" yaml:"fieldName"`
	TypeName  string `json:"typeName" yaml:"typeName"`
	Required  bool   `json:"required" yaml:"required"`
}
