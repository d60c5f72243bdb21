// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package parser

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of parsed files kept by a Cache.
const DefaultCacheSize = 256

type cacheKey struct {
	path    string
	size    int64
	modTime time.Time
}

// Cache memoizes parsed files keyed by path, size and modification time so
// unchanged files are not re-parsed between regenerations.
type Cache struct {
	mu     sync.Mutex
	parser *RustParser
	files  *lru.Cache[cacheKey, *File]
}

// NewCache creates a parse cache holding up to size files.
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	files, err := lru.New[cacheKey, *File](size)
	if err != nil {
		return nil, fmt.Errorf("creating parse cache: %w", err)
	}
	return &Cache{
		parser: NewRustParser(),
		files:  files,
	}, nil
}

// ParseFile returns the parsed file at path, parsing it only when the file
// changed since the last call.
func (c *Cache) ParseFile(ctx context.Context, path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	key := cacheKey{path: path, size: info.Size(), modTime: info.ModTime()}

	c.mu.Lock()
	defer c.mu.Unlock()

	if f, ok := c.files.Get(key); ok {
		return f, nil
	}

	f, err := c.parser.ParseFile(ctx, path)
	if err != nil {
		return nil, err
	}
	c.files.Add(key, f)
	return f, nil
}

// Parse parses content without caching it.
func (c *Cache) Parse(ctx context.Context, filename string, content []byte) (*File, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.parser.Parse(ctx, filename, content)
}

// Len returns the number of cached files.
func (c *Cache) Len() int {
	return c.files.Len()
}

// Purge drops every cached file.
func (c *Cache) Purge() {
	c.files.Purge()
}

// Close releases the underlying parser.
func (c *Cache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.parser.Close()
}
