// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package diag is the single channel for recoverable warnings and fatal
// errors raised while resolving a source file.
package diag

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("axum2spec/diag")

// Severity of a diagnostic.
type Severity int

const (
	// Warning is recoverable; the run completes.
	Warning Severity = iota
	// Fatal aborts the run.
	Fatal
)

func (s Severity) String() string {
	if s == Fatal {
		return "fatal"
	}
	return "warning"
}

// Diagnostic codes.
const (
	CodeRouteShape      = "route-shape"
	CodeRouteOverwrite  = "route-overwrite"
	CodeDuplicateDecl   = "duplicate-decl"
	CodeParamPattern    = "param-pattern"
	CodeUnsupportedType = "unsupported-type"
	CodeMissingHandler  = "missing-handler"
	CodeExpansionLimit  = "expansion-limit"
	CodeParseError      = "parse-error"
	CodePathConflict    = "path-conflict"
)

// Sentinel errors wrapped by FatalError.
var (
	ErrHandlerNotFound = errors.New("handler not found")
	ErrUnsupportedType = errors.New("unsupported type")
	ErrExpansionLimit  = errors.New("expansion limit exceeded")
)

// Diagnostic is a single finding with its source position.
type Diagnostic struct {
	Severity Severity
	Code     string
	Message  string
	File     string
	Line     int
}

func (d Diagnostic) String() string {
	pos := d.File
	if d.Line > 0 {
		pos = fmt.Sprintf("%s:%d", d.File, d.Line)
	}
	if pos == "" {
		return fmt.Sprintf("%s [%s]: %s", d.Severity, d.Code, d.Message)
	}
	return fmt.Sprintf("%s: %s [%s]: %s", pos, d.Severity, d.Code, d.Message)
}

// Error lets a warning be aggregated when strict mode promotes it.
func (d Diagnostic) Error() string {
	return d.String()
}

// FatalError aborts a run. It wraps one of the sentinel errors.
type FatalError struct {
	Diagnostic
	Err error
}

func (e *FatalError) Error() string {
	return e.Diagnostic.String()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Collector gathers the diagnostics of one run. It is not safe for
// concurrent use.
type Collector struct {
	file     string
	warnings []Diagnostic
}

// NewCollector creates a collector attributing diagnostics to file.
func NewCollector(file string) *Collector {
	return &Collector{file: file}
}

// Warn records a recoverable diagnostic.
func (c *Collector) Warn(code string, line int, format string, args ...any) {
	d := Diagnostic{
		Severity: Warning,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		File:     c.file,
		Line:     line,
	}
	c.warnings = append(c.warnings, d)
	log.Debugw("diagnostic", "file", d.File, "line", d.Line, "code", d.Code, "message", d.Message)
}

// Fatal builds the error aborting the run. The caller returns it.
func (c *Collector) Fatal(err error, code string, line int, format string, args ...any) error {
	fe := &FatalError{
		Diagnostic: Diagnostic{
			Severity: Fatal,
			Code:     code,
			Message:  fmt.Sprintf(format, args...),
			File:     c.file,
			Line:     line,
		},
		Err: err,
	}
	log.Debugw("fatal diagnostic", "file", fe.File, "line", fe.Line, "code", fe.Code, "message", fe.Message)
	return fe
}

// Warnings returns the recorded warnings in order.
func (c *Collector) Warnings() []Diagnostic {
	return append([]Diagnostic(nil), c.warnings...)
}

// Len returns the number of recorded warnings.
func (c *Collector) Len() int {
	return len(c.warnings)
}

// Err aggregates every warning into one error, or returns nil when there
// are none.
func (c *Collector) Err() error {
	return Aggregate(c.warnings)
}

// Aggregate combines diagnostics into one error, or returns nil for an
// empty slice.
func Aggregate(diags []Diagnostic) error {
	var result *multierror.Error
	for _, d := range diags {
		result = multierror.Append(result, d)
	}
	return result.ErrorOrNil()
}

// IsFatal reports whether err carries a FatalError.
func IsFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe)
}
