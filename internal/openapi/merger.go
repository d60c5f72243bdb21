// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package openapi

import (
	"sort"

	"github.com/samber/lo"

	"github.com/api2spec/axum2spec/pkg/types"
)

// MergeStrategy defines how to handle conflicts during merge.
type MergeStrategy string

const (
	// MergeStrategyKeepExisting keeps the existing value on conflict.
	MergeStrategyKeepExisting MergeStrategy = "keep-existing"

	// MergeStrategyOverwrite overwrites with the incoming value on conflict.
	MergeStrategyOverwrite MergeStrategy = "overwrite"
)

// ConflictKind names the part of a document a conflict was found in.
type ConflictKind string

const (
	ConflictPath   ConflictKind = "path"
	ConflictSchema ConflictKind = "schema"
)

// Conflict is a path or component present in both documents with
// different content.
type Conflict struct {
	Kind ConflictKind
	Name string
}

// MergeOptions configures the merge behavior.
type MergeOptions struct {
	// Strategy defines how conflicting paths and schemas are resolved.
	Strategy MergeStrategy

	// PreserveInfo keeps the info of the existing document.
	PreserveInfo bool
}

// DefaultMergeOptions returns the default merge options: the incoming
// document wins, the existing info is kept.
func DefaultMergeOptions() MergeOptions {
	return MergeOptions{
		Strategy:     MergeStrategyOverwrite,
		PreserveInfo: true,
	}
}

// Merger combines documents generated from separate source files.
type Merger struct {
	options MergeOptions
	differ  *Differ
}

// NewMerger creates a new Merger with the given options.
func NewMerger(options MergeOptions) *Merger {
	return &Merger{
		options: options,
		differ:  NewDiffer(),
	}
}

// Merge combines existing and incoming into a new document and reports
// every conflicting path and schema in name order. Neither input is
// modified.
func (m *Merger) Merge(existing, incoming *types.OpenAPI) (*types.OpenAPI, []Conflict) {
	if existing == nil {
		return incoming, nil
	}
	if incoming == nil {
		return existing, nil
	}

	result := &types.OpenAPI{
		OpenAPI: incoming.OpenAPI,
		Info:    incoming.Info,
		Servers: lo.Uniq(append(append([]types.Server{}, existing.Servers...), incoming.Servers...)),
		Paths:   make(map[string]types.PathItem, len(existing.Paths)+len(incoming.Paths)),
		Components: types.Components{
			Schemas: make(map[string]*types.Schema),
		},
	}
	if m.options.PreserveInfo && existing.Info.Title != "" {
		result.Info = existing.Info
	}

	var conflicts []Conflict

	for path, item := range existing.Paths {
		result.Paths[path] = item
	}
	for path, item := range incoming.Paths {
		prev, ok := result.Paths[path]
		if ok && m.pathItemsDiffer(prev, item) {
			conflicts = append(conflicts, Conflict{Kind: ConflictPath, Name: path})
			if m.options.Strategy == MergeStrategyKeepExisting {
				continue
			}
		}
		result.Paths[path] = item
	}

	for name, s := range existing.Components.Schemas {
		result.Components.Schemas[name] = s
	}
	for name, s := range incoming.Components.Schemas {
		prev, ok := result.Components.Schemas[name]
		if ok && m.differ.schemaModified(prev, s) {
			conflicts = append(conflicts, Conflict{Kind: ConflictSchema, Name: name})
			if m.options.Strategy == MergeStrategyKeepExisting {
				continue
			}
		}
		result.Components.Schemas[name] = s
	}

	sort.Slice(conflicts, func(i, j int) bool {
		if conflicts[i].Kind != conflicts[j].Kind {
			return conflicts[i].Kind < conflicts[j].Kind
		}
		return conflicts[i].Name < conflicts[j].Name
	})
	return result, conflicts
}

func (m *Merger) pathItemsDiffer(a, b types.PathItem) bool {
	if !lo.ElementsMatch(lo.Keys(a), lo.Keys(b)) {
		return true
	}
	for method, op := range a {
		if m.differ.operationModified(op, b[method]) {
			return true
		}
	}
	return false
}

// MergeDefault merges two documents using default options.
func MergeDefault(existing, incoming *types.OpenAPI) (*types.OpenAPI, []Conflict) {
	return NewMerger(DefaultMergeOptions()).Merge(existing, incoming)
}
