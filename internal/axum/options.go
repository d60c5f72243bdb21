// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package axum recognizes axum route registrations and handler extractors.
package axum

import (
	logging "github.com/ipfs/go-log/v2"

	"github.com/api2spec/axum2spec/internal/config"
)

var log = logging.Logger("axum2spec/axum")

// httpMethods lists the method router functions axum provides.
var httpMethods = map[string]string{
	"get":     "GET",
	"post":    "POST",
	"put":     "PUT",
	"delete":  "DELETE",
	"patch":   "PATCH",
	"head":    "HEAD",
	"options": "OPTIONS",
	"trace":   "TRACE",
	"any":     "ANY",
}

// Options names the identifiers route and parameter recognition match on.
type Options struct {
	// RouteMethod is the registration method (e.g., "route")
	RouteMethod string

	// QueryExtractor is the wrapper marking query-bound parameters
	QueryExtractor string

	// BodyExtractors are the wrappers marking the request body
	BodyExtractors []string

	// OptionalWrapper is unwrapped from body types
	OptionalWrapper string

	// FollowChains registers route calls found on the receiver chain
	FollowChains bool
}

// DefaultOptions returns the options matching stock axum.
func DefaultOptions() Options {
	return OptionsFromConfig(config.Default())
}

// OptionsFromConfig derives Options from a loaded configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		RouteMethod:     cfg.Axum.RouteMethod,
		QueryExtractor:  cfg.Axum.QueryExtractor,
		BodyExtractors:  append([]string(nil), cfg.Axum.BodyExtractors...),
		OptionalWrapper: cfg.Axum.OptionalWrapper,
		FollowChains:    cfg.Routes.FollowChains,
	}
}

// IsHTTPMethod reports whether name is an axum method router function.
func IsHTTPMethod(name string) bool {
	_, ok := httpMethods[name]
	return ok
}
