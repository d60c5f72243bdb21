// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/api2spec/axum2spec/internal/config"
	"github.com/api2spec/axum2spec/internal/openapi"
	"github.com/api2spec/axum2spec/internal/parser"
	"github.com/api2spec/axum2spec/internal/scanner"
)

var watchDebounce int

var watchCmd = &cobra.Command{
	Use:   "watch [paths...]",
	Short: "Watch for file changes and regenerate specification",
	Long: `Watch for file changes and automatically regenerate the OpenAPI specification.

This command monitors your Rust source files for changes and triggers a
regeneration when files are modified. Unchanged files are not parsed again
between regenerations.

Example:
  axum2spec watch                          # Watch configured paths
  axum2spec watch ./src                    # Watch specific paths
  axum2spec watch --debounce 1000          # Wait 1s before regenerating`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().IntVar(&watchDebounce, "debounce", 0, "debounce duration in milliseconds (default from config)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if watchDebounce > 0 {
		cfg.Watch.Debounce = watchDebounce
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	paths := sourcePaths(cfg, args)

	printVerbose("Watch configuration:")
	printVerbose("  Debounce: %dms", cfg.Watch.Debounce)
	printVerbose("  Paths: %s", strings.Join(paths, ", "))

	cache, err := parser.NewCache(parser.DefaultCacheSize)
	if err != nil {
		return err
	}
	defer cache.Close()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	dirs, err := watchDirs(cfg, paths)
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	ctx := commandContext(cmd)
	regenerate := func() {
		if err := regenerateSpec(ctx, cfg, paths, cache); err != nil {
			printError("%v", err)
		}
	}

	printInfo("Watching for changes in: %s", strings.Join(paths, ", "))
	printInfo("Press Ctrl+C to stop")

	regenerate()
	return watchLoop(ctx, watcher, time.Duration(cfg.Watch.Debounce)*time.Millisecond, regenerate)
}

// regenerateSpec generates the document and writes it to the configured
// output file.
func regenerateSpec(ctx context.Context, cfg *config.Config, paths []string, cache *parser.Cache) error {
	start := time.Now()

	res, err := generateDocument(ctx, cfg, paths, cache)
	if err != nil {
		return fmt.Errorf("failed to generate spec: %w", err)
	}
	printWarnings(res.Diagnostics)

	if err := openapi.NewWriter().WriteFile(res.Document, cfg.Output, cfg.Format); err != nil {
		return fmt.Errorf("failed to write spec: %w", err)
	}

	printInfo("Regenerated %s in %s (%d paths, %d schemas)", cfg.Output,
		time.Since(start).Round(time.Millisecond), len(res.Document.Paths), len(res.Document.Components.Schemas))
	return nil
}

// watchLoop calls regenerate once events stop arriving for the debounce
// duration. Regenerations run on the calling goroutine, one at a time.
func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, debounce time.Duration, regenerate func()) error {
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watcher.Add(event.Name); err != nil {
						log.Warnw("failed to watch new directory", "path", event.Name, "error", err)
					}
					continue
				}
			}
			if !relevantEvent(event) {
				continue
			}
			log.Debugw("source changed", "path", event.Name, "op", event.Op.String())
			pending = time.After(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warnw("watch error", "error", err)

		case <-pending:
			pending = nil
			regenerate()
		}
	}
}

// relevantEvent reports whether event touches a Rust source file in a way
// that can change the generated document.
func relevantEvent(event fsnotify.Event) bool {
	if !scanner.IsSupportedFile(event.Name) {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

// watchDirs returns the directories to watch: every directory argument and
// every directory holding a scanned source file.
func watchDirs(cfg *config.Config, paths []string) ([]string, error) {
	files, err := scanSources(cfg, paths)
	if err != nil {
		return nil, err
	}

	dirs := lo.Map(files, func(f string, _ int) string {
		return filepath.Dir(f)
	})
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve path %s: %w", p, err)
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			dirs = append(dirs, abs)
		}
	}

	dirs = lo.Uniq(dirs)
	sort.Strings(dirs)
	return dirs, nil
}
