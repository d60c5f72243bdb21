// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package scanner provides file discovery for source code scanning.
package scanner

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/api2spec/axum2spec/internal/parser"
)

// SourceFile represents a discovered source file.
type SourceFile struct {
	// Path is the absolute path to the file
	Path string

	// RelPath is the slash-separated path relative to the scan base
	RelPath string

	// Content is the file content
	Content []byte

	// ModTime is the last modification time
	ModTime time.Time
}

// SupportedExtensions returns the file extensions the scanner picks up.
func SupportedExtensions() []string {
	return parser.Extensions()
}

// IsSupportedFile checks if a file path has a supported extension.
func IsSupportedFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range SupportedExtensions() {
		if ext == e {
			return true
		}
	}
	return false
}
