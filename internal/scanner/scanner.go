// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	logging "github.com/ipfs/go-log/v2"

	"github.com/api2spec/axum2spec/internal/config"
)

var log = logging.Logger("axum2spec/scanner")

// Config holds scanner configuration.
type Config struct {
	// BasePath is the base directory for scanning (defaults to current directory)
	BasePath string

	// IncludePatterns are glob patterns for files to include (e.g., "**/*.rs")
	IncludePatterns []string

	// ExcludePatterns are glob patterns for files to exclude (e.g., "target/**")
	ExcludePatterns []string
}

// ConfigFrom derives a scanner configuration rooted at basePath from the
// source section of cfg.
func ConfigFrom(cfg *config.Config, basePath string) Config {
	return Config{
		BasePath:        basePath,
		IncludePatterns: cfg.Source.Include,
		ExcludePatterns: cfg.Source.Exclude,
	}
}

// Scanner discovers source files in a project.
type Scanner struct {
	config Config
}

// New creates a new Scanner with the given configuration.
func New(config Config) *Scanner {
	if config.BasePath == "" {
		config.BasePath = "."
	}
	if len(config.IncludePatterns) == 0 {
		config.IncludePatterns = []string{"**/*.rs"}
	}

	return &Scanner{
		config: config,
	}
}

// Scan discovers all source files matching the configuration.
func (s *Scanner) Scan() ([]SourceFile, error) {
	return s.ScanPath(s.config.BasePath)
}

// ScanPath scans a specific path for source files. A path naming a file is
// returned as long as it has a supported extension, regardless of patterns.
func (s *Scanner) ScanPath(path string) ([]SourceFile, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("path does not exist: %s", absPath)
		}
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}

	if !info.IsDir() {
		if !IsSupportedFile(absPath) {
			return nil, nil
		}
		f, err := s.readFile(absPath, info)
		if err != nil {
			return nil, err
		}
		return []SourceFile{f}, nil
	}

	var files []SourceFile
	err = s.walk(absPath, func(filePath string, info fs.FileInfo) {
		f, err := s.readFile(filePath, info)
		if err != nil {
			log.Debugw("skipping unreadable file", "path", filePath, "error", err)
			return
		}
		files = append(files, f)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	return files, nil
}

// ScanPaths scans multiple paths for source files.
func (s *Scanner) ScanPaths(paths []string) ([]SourceFile, error) {
	var allFiles []SourceFile
	seen := make(map[string]bool)

	for _, path := range paths {
		files, err := s.ScanPath(path)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			if !seen[f.Path] {
				seen[f.Path] = true
				allFiles = append(allFiles, f)
			}
		}
	}

	return allFiles, nil
}

// FileCount returns a quick count of matching files without reading content.
func (s *Scanner) FileCount() (int, error) {
	basePath, err := filepath.Abs(s.config.BasePath)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve base path: %w", err)
	}

	count := 0
	err = s.walk(basePath, func(string, fs.FileInfo) {
		count++
	})
	return count, err
}

// walk calls fn for every included file below root, in lexical order.
func (s *Scanner) walk(root string, fn func(path string, info fs.FileInfo)) error {
	return filepath.WalkDir(root, func(filePath string, d fs.DirEntry, err error) error {
		if err != nil {
			// Skip inaccessible paths
			return nil
		}

		if d.IsDir() {
			if filePath != root && s.shouldExcludeDir(s.relPath(filePath)) {
				return filepath.SkipDir
			}
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		if s.shouldIncludeFile(filePath) {
			fn(filePath, info)
		}
		return nil
	})
}

func (s *Scanner) readFile(path string, info fs.FileInfo) (SourceFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return SourceFile{}, fmt.Errorf("failed to read file: %w", err)
	}
	return SourceFile{
		Path:    path,
		RelPath: s.relPath(path),
		Content: content,
		ModTime: info.ModTime(),
	}, nil
}

// relPath returns path relative to the base path, slash-separated.
func (s *Scanner) relPath(path string) string {
	basePath, _ := filepath.Abs(s.config.BasePath)
	rel, err := filepath.Rel(basePath, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	return filepath.ToSlash(rel)
}

// shouldIncludeFile checks if a file should be included based on patterns and extensions.
func (s *Scanner) shouldIncludeFile(filePath string) bool {
	if !IsSupportedFile(filePath) {
		return false
	}

	relPath := s.relPath(filePath)
	if s.matchesPatterns(relPath, s.config.ExcludePatterns) {
		return false
	}
	return s.matchesPatterns(relPath, s.config.IncludePatterns)
}

// shouldExcludeDir checks if a directory should be excluded.
func (s *Scanner) shouldExcludeDir(relPath string) bool {
	if relPath == "" || relPath == "." {
		return false
	}

	for _, pattern := range s.config.ExcludePatterns {
		// "target" matches "target/**"
		dirPattern := strings.TrimSuffix(pattern, "/**")
		dirPattern = strings.TrimSuffix(dirPattern, "/*")
		if relPath == dirPattern {
			return true
		}

		if matched, _ := doublestar.Match(pattern, relPath+"/dummy.rs"); matched {
			return true
		}
	}

	return false
}

// matchesPatterns checks if a path matches any of the given patterns.
func (s *Scanner) matchesPatterns(path string, patterns []string) bool {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, path)
		if err != nil {
			continue
		}
		if matched {
			return true
		}
	}
	return false
}
