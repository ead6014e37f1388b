// warnings.go: User-facing warning capture for instrument probes
//
// Several lifecycle contracts are expressed in warnings rather than errors:
// instruments without download support must warn instead of failing, and
// the strict-time recovery retry must surface at least one warning to the
// caller. The collector gives the suites a way to assert on exactly the
// warnings emitted during one operation.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package goinsttest

import (
	"fmt"
	"sync"
	"time"

	"github.com/agilira/go-timecache"
)

// Warning is one user-facing warning emitted by an instrument probe.
type Warning struct {
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// WarningCollector accumulates warnings emitted by probes. A single
// collector may be shared by every probe in a test run; suites use Len and
// Since to scope assertions to one operation.
type WarningCollector struct {
	mu       sync.RWMutex
	warnings []Warning
}

// NewWarningCollector creates an empty collector.
func NewWarningCollector() *WarningCollector {
	return &WarningCollector{
		warnings: make([]Warning, 0),
	}
}

// Warnf records a formatted warning with a cached timestamp.
func (w *WarningCollector) Warnf(format string, args ...any) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.warnings = append(w.warnings, Warning{
		Message: fmt.Sprintf(format, args...),
		Time:    timecache.CachedTime(),
	})
}

// Len returns the number of collected warnings.
func (w *WarningCollector) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.warnings)
}

// Warnings returns a copy of all collected warnings.
func (w *WarningCollector) Warnings() []Warning {
	return w.Since(0)
}

// Since returns a copy of the warnings collected after the first n. It is
// the record-and-compare primitive the suites use: note Len before an
// operation, assert on Since(n) after.
func (w *WarningCollector) Since(n int) []Warning {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if n < 0 {
		n = 0
	}
	if n > len(w.warnings) {
		n = len(w.warnings)
	}
	out := make([]Warning, len(w.warnings)-n)
	copy(out, w.warnings[n:])
	return out
}

// Clear removes all collected warnings.
func (w *WarningCollector) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.warnings = w.warnings[:0]
}
