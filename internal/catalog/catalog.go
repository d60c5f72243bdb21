// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package catalog indexes the top-level declarations of a parsed file.
package catalog

import (
	"github.com/api2spec/axum2spec/internal/diag"
	"github.com/api2spec/axum2spec/internal/parser"
)

// Catalog holds the record and function declarations of one file. It is
// read-only after Build returns.
type Catalog struct {
	// Records maps a struct name to its declaration
	Records map[string]*parser.RustStruct

	// Functions maps a function name to its declaration, the entry function excluded
	Functions map[string]*parser.RustFunction

	// Bodies lists every function in source order, the entry function included
	Bodies []*parser.RustFunction
}

// Build partitions the items of f. Functions named entry are scanned for
// routes but are not handler candidates. A repeated name replaces the
// earlier declaration and is reported to diags.
func Build(f *parser.File, entry string, diags *diag.Collector) *Catalog {
	c := &Catalog{
		Records:   make(map[string]*parser.RustStruct),
		Functions: make(map[string]*parser.RustFunction),
	}

	for _, item := range f.Items {
		switch item.Kind {
		case parser.ItemRecord:
			if _, ok := c.Records[item.Record.Name]; ok {
				diags.Warn(diag.CodeDuplicateDecl, item.Line, "struct %s declared more than once, last declaration wins", item.Record.Name)
			}
			c.Records[item.Record.Name] = item.Record
		case parser.ItemFunction:
			fn := item.Function
			c.Bodies = append(c.Bodies, fn)
			if fn.Name == entry {
				continue
			}
			if _, ok := c.Functions[fn.Name]; ok {
				diags.Warn(diag.CodeDuplicateDecl, item.Line, "function %s declared more than once, last declaration wins", fn.Name)
			}
			c.Functions[fn.Name] = fn
		}
	}

	return c
}

// Function returns the handler candidate named name.
func (c *Catalog) Function(name string) (*parser.RustFunction, bool) {
	fn, ok := c.Functions[name]
	return fn, ok
}

// IsRecord reports whether name is a known record.
func (c *Catalog) IsRecord(name string) bool {
	_, ok := c.Records[name]
	return ok
}
