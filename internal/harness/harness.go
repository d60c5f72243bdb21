// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package harness runs directories of source fixtures through the engine
// concurrently and compares each generated document with its expectation.
package harness

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	logging "github.com/ipfs/go-log/v2"
	"golang.org/x/sync/semaphore"

	"github.com/api2spec/axum2spec/internal/config"
	"github.com/api2spec/axum2spec/internal/engine"
	"github.com/api2spec/axum2spec/internal/openapi"
	"github.com/api2spec/axum2spec/internal/parser"
)

var log = logging.Logger("axum2spec/harness")

// Fixture file suffixes next to each source file.
const (
	ExpectedDocSuffix   = ".json"
	ExpectedErrorSuffix = ".err"
)

// Case is one fixture: a source file and either an expected document or
// an expected error message.
type Case struct {
	Name          string
	Source        string
	Expected      string
	ExpectedError string
}

// Outcome is the result of running one case.
type Outcome struct {
	Case   Case
	Result *engine.Result

	// Diff is the document difference, empty when it matched
	Diff string

	// Err is the run error, or the reason an error case did not fail as expected
	Err error
}

// Passed reports whether the case met its expectation.
func (o Outcome) Passed() bool {
	return o.Err == nil && o.Diff == ""
}

// Discover pairs every .rs file below dir with its expectation file. A
// source without an expectation is an error.
func Discover(dir string) ([]Case, error) {
	sources, err := doublestar.Glob(os.DirFS(dir), "**/*.rs")
	if err != nil {
		return nil, fmt.Errorf("failed to list fixtures: %w", err)
	}
	sort.Strings(sources)

	cases := make([]Case, 0, len(sources))
	for _, rel := range sources {
		stem := strings.TrimSuffix(rel, filepath.Ext(rel))
		c := Case{
			Name:   filepath.ToSlash(stem),
			Source: filepath.Join(dir, filepath.FromSlash(rel)),
		}

		expected := filepath.Join(dir, filepath.FromSlash(stem)+ExpectedDocSuffix)
		errFile := filepath.Join(dir, filepath.FromSlash(stem)+ExpectedErrorSuffix)
		switch {
		case fileExists(expected):
			c.Expected = expected
		case fileExists(errFile):
			msg, err := os.ReadFile(errFile)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", errFile, err)
			}
			c.ExpectedError = strings.TrimSpace(string(msg))
		default:
			return nil, fmt.Errorf("fixture %s has no %s or %s file", rel, ExpectedDocSuffix, ExpectedErrorSuffix)
		}
		cases = append(cases, c)
	}
	return cases, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Runner executes cases with at most a fixed number in flight.
type Runner struct {
	cfg *config.Config
	sem *semaphore.Weighted

	inFlight atomic.Int64
	peak     atomic.Int64
}

// NewRunner creates a runner admitting cfg.Harness.Concurrency cases at a
// time.
func NewRunner(cfg *config.Config) *Runner {
	capacity := int64(cfg.Harness.Concurrency)
	if capacity <= 0 {
		capacity = 1
	}
	return &Runner{
		cfg: cfg,
		sem: semaphore.NewWeighted(capacity),
	}
}

// Run executes every case and returns the outcomes in case order. It
// stops admitting cases once ctx is done and returns ctx's error after the
// admitted cases finish.
func (r *Runner) Run(ctx context.Context, cases []Case) ([]Outcome, error) {
	outcomes := make([]Outcome, len(cases))
	var wg sync.WaitGroup

	for i, c := range cases {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return outcomes, err
		}
		if err := r.sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return outcomes, err
		}

		wg.Add(1)
		go func(i int, c Case) {
			defer wg.Done()
			defer r.sem.Release(1)

			r.enter()
			defer r.inFlight.Add(-1)

			outcomes[i] = r.runCase(ctx, c)
		}(i, c)
	}

	wg.Wait()
	return outcomes, ctx.Err()
}

// Peak returns the largest number of cases that ran at the same time.
func (r *Runner) Peak() int64 {
	return r.peak.Load()
}

func (r *Runner) enter() {
	n := r.inFlight.Add(1)
	for {
		p := r.peak.Load()
		if n <= p || r.peak.CompareAndSwap(p, n) {
			return
		}
	}
}

// runCase resolves one fixture with its own parser.
func (r *Runner) runCase(ctx context.Context, c Case) Outcome {
	p := parser.NewRustParser()
	defer p.Close()

	out := Outcome{Case: c}
	res, err := engine.New(r.cfg, p).Run(ctx, c.Source)

	if c.ExpectedError != "" {
		switch {
		case err == nil:
			out.Err = fmt.Errorf("expected error containing %q, got a document", c.ExpectedError)
		case !strings.Contains(err.Error(), c.ExpectedError):
			out.Err = fmt.Errorf("expected error containing %q, got: %w", c.ExpectedError, err)
		}
		log.Debugw("fixture finished", "name", c.Name, "passed", out.Passed())
		return out
	}

	if err != nil {
		out.Err = err
		return out
	}
	out.Result = res

	want, err := openapi.ReadFile(c.Expected)
	if err != nil {
		out.Err = err
		return out
	}
	out.Diff = cmp.Diff(want, res.Document, cmpopts.EquateEmpty())

	log.Debugw("fixture finished", "name", c.Name, "passed", out.Passed())
	return out
}
