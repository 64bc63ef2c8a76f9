// Package diag collects structured build diagnostics.
//
// The changelog engine never prints. Every advisory or failure is appended to
// a Collector as a Diagnostic, and whoever drives the engine (the CLI, a
// directive host, a test) decides how to present them. Emission order is
// preserved so assertions over diagnostics are deterministic.
package diag

import (
	"fmt"
	"strings"
)

// Severity is the level of a diagnostic. Only two exist: an Error fails the
// build, a Warning is advisory.
type Severity int

const (
	// Warning is advisory; the build succeeds.
	Warning Severity = iota
	// Error fails the build.
	Error
)

// String returns a lower-case name for the severity.
func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "unknown"
	}
}

// Diagnostic is one emitted event.
type Diagnostic struct {
	Severity Severity
	Message  string
	// File is the path the diagnostic is attributed to, if any.
	File string
}

// String formats the diagnostic as "severity: file: message".
func (d Diagnostic) String() string {
	if d.File != "" {
		return fmt.Sprintf("%s: %s: %s", d.Severity, d.File, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Severity, d.Message)
}

// Collector is an append-only list of diagnostics.
// It is not safe for concurrent use; parallel stages use one Collector each
// and Append them in order afterwards.
type Collector struct {
	items []Diagnostic
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Errorf appends an Error attributed to file (may be empty).
func (c *Collector) Errorf(file, format string, args ...any) {
	c.add(Error, file, fmt.Sprintf(format, args...))
}

// Warnf appends a Warning attributed to file (may be empty).
func (c *Collector) Warnf(file, format string, args ...any) {
	c.add(Warning, file, fmt.Sprintf(format, args...))
}

func (c *Collector) add(sev Severity, file, msg string) {
	c.items = append(c.items, Diagnostic{Severity: sev, Message: msg, File: file})
}

// Append adds every diagnostic of other, in order. A nil other is ignored.
func (c *Collector) Append(other *Collector) {
	if other == nil {
		return
	}
	c.items = append(c.items, other.items...)
}

// Diagnostics returns a copy of all diagnostics in emission order.
func (c *Collector) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(c.items))
	copy(out, c.items)
	return out
}

// Errors returns only the Error diagnostics.
func (c *Collector) Errors() []Diagnostic {
	return c.filter(Error)
}

// Warnings returns only the Warning diagnostics.
func (c *Collector) Warnings() []Diagnostic {
	return c.filter(Warning)
}

func (c *Collector) filter(sev Severity) []Diagnostic {
	var out []Diagnostic
	for _, d := range c.items {
		if d.Severity == sev {
			out = append(out, d)
		}
	}
	return out
}

// HasErrors reports whether any Error was collected.
func (c *Collector) HasErrors() bool {
	for _, d := range c.items {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Len returns the number of collected diagnostics.
func (c *Collector) Len() int {
	return len(c.items)
}

// Summary returns a one-line count such as "2 errors, 1 warning".
func (c *Collector) Summary() string {
	errs, warns := len(c.Errors()), len(c.Warnings())
	return fmt.Sprintf("%d %s, %d %s", errs, plural("error", errs), warns, plural("warning", warns))
}

func plural(word string, n int) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// Contains reports whether any diagnostic of the given severity contains substr.
func (c *Collector) Contains(sev Severity, substr string) bool {
	for _, d := range c.items {
		if d.Severity == sev && strings.Contains(d.Message, substr) {
			return true
		}
	}
	return false
}
