// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package types

// OpenAPI represents a generated OpenAPI 3.0 document.
type OpenAPI struct {
	// OpenAPI is the OpenAPI specification version (e.g., "3.0.3")
	OpenAPI string `json:"openapi" yaml:"openapi"`

	// Info provides metadata about the API
	Info Info `json:"info" yaml:"info"`

	// Servers is a list of server objects. It is always emitted, even when empty.
	Servers []Server `json:"servers" yaml:"servers"`

	// Paths maps a route path to its operations keyed by lower-case HTTP method
	Paths map[string]PathItem `json:"paths" yaml:"paths"`

	// Components holds the named component schemas
	Components Components `json:"components" yaml:"components"`
}

// Info provides metadata about the API.
type Info struct {
	// Title is the title of the API
	Title string `json:"title" yaml:"title"`

	// Description is a description of the API
	Description string `json:"description" yaml:"description"`

	// Version is the version of the API
	Version string `json:"version" yaml:"version"`
}

// Server represents an API server.
type Server struct {
	// URL is the URL of the server
	URL string `json:"url" yaml:"url"`

	// Description is a description of the server
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// PathItem maps lower-case HTTP methods ("get", "post", ...) to operations.
type PathItem map[string]*Operation

// Operation represents an API operation.
type Operation struct {
	// Summary is a brief summary
	Summary string `json:"summary" yaml:"summary"`

	// Description is a detailed description
	Description string `json:"description" yaml:"description"`

	// OperationID is a unique identifier derived from the method and handler
	OperationID string `json:"operationId,omitempty" yaml:"operationId,omitempty"`

	// Parameters is a list of query parameters
	Parameters []Parameter `json:"parameters" yaml:"parameters"`

	// RequestBody is the request body
	RequestBody *RequestBody `json:"requestBody,omitempty" yaml:"requestBody,omitempty"`

	// Responses is a map of responses keyed by status code
	Responses map[string]Response `json:"responses" yaml:"responses"`
}

// Parameter represents an OpenAPI parameter.
type Parameter struct {
	// Name is the parameter name
	Name string `json:"name" yaml:"name"`

	// In is the location of the parameter. Only "query" is produced.
	In string `json:"in" yaml:"in"`

	// Description is a brief description of the parameter
	Description string `json:"description" yaml:"description"`

	// Required indicates if the parameter is required
	Required bool `json:"required" yaml:"required"`

	// Explode controls how array and object values are serialized
	Explode bool `json:"explode" yaml:"explode"`

	// Schema defines the type of the parameter
	Schema *Schema `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// RequestBody represents an OpenAPI request body.
type RequestBody struct {
	// Required indicates if the request body is required
	Required bool `json:"required" yaml:"required"`

	// Content maps media types to their schemas
	Content map[string]MediaType `json:"content" yaml:"content"`
}

// MediaType represents an OpenAPI media type.
type MediaType struct {
	// Schema defines the structure of the content
	Schema *Schema `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// Response represents an OpenAPI response.
type Response struct {
	// Description is a brief description of the response
	Description string `json:"description" yaml:"description"`
}

// Components holds reusable objects.
type Components struct {
	// Schemas is a map of schema objects
	Schemas map[string]*Schema `json:"schemas" yaml:"schemas"`
}
