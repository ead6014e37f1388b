// types.go: Common data types for the instrument conformance harness
//
// This file contains the shared data type definitions used throughout the
// harness: cleaning levels, classification buckets, capability flags,
// test-date tables and worklist records. Keeping these separate from the
// module and instrument definitions mirrors the layout of the rest of the
// AGILira libraries and keeps the dependency graph flat.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package goinsttest

import (
	"time"
)

// CleanLevel is the ordered strictness setting controlling how aggressively
// loaded data is filtered and validated by an instrument module.
//
// The lifecycle suite exercises every level in the fixed order returned by
// CleanLevels. CleanNone must never legitimately empty a loaded dataset;
// stronger levels may.
type CleanLevel string

const (
	CleanNone  CleanLevel = "none"
	CleanDirty CleanLevel = "dirty"
	CleanDusty CleanLevel = "dusty"
	CleanClean CleanLevel = "clean"
)

// CleanLevels returns all cleaning levels in test order. The order is part
// of the lifecycle contract: the final level (clean) additionally triggers
// file cleanup as a side effect.
func CleanLevels() []CleanLevel {
	return []CleanLevel{CleanNone, CleanDirty, CleanDusty, CleanClean}
}

// Valid reports whether the level is one of the four defined levels.
func (c CleanLevel) Valid() bool {
	switch c {
	case CleanNone, CleanDirty, CleanDusty, CleanClean:
		return true
	default:
		return false
	}
}

// Classification is the bucket a discovered (inst-id, tag) combination is
// assigned to by the discovery classifier.
//
//   - ClassDownload: full download/load lifecycle testing required
//   - ClassNoDownload: no download support and no credentials required;
//     tested only for the download-warning contract
//   - ClassExcluded: skipped entirely (CI-skip condition, or credentials
//     required that cannot be supplied automatically)
type Classification int

const (
	ClassExcluded Classification = iota
	ClassDownload
	ClassNoDownload
)

// String returns a human-readable representation of the classification.
func (c Classification) String() string {
	switch c {
	case ClassDownload:
		return "download"
	case ClassNoDownload:
		return "no_download"
	default:
		return "excluded"
	}
}

// TestFlags is the capability descriptor a module declares for one
// (inst-id, tag) combination. It replaces per-test reflection against a
// loosely-typed plugin with an explicit, registration-time contract.
//
// Fields:
//   - TestDownload: the combination supports automated download testing
//   - TestDownloadCI: download testing is safe under continuous integration
//   - PasswordReq: downloads require credentials the harness cannot supply
type TestFlags struct {
	TestDownload   bool `json:"test_download" yaml:"test_download"`
	TestDownloadCI bool `json:"test_download_ci" yaml:"test_download_ci"`
	PasswordReq    bool `json:"password_req" yaml:"password_req"`
}

// DefaultTestFlags returns the flags assumed for combinations whose module
// declares no resolver: downloadable, CI-safe, no credentials.
func DefaultTestFlags() TestFlags {
	return TestFlags{TestDownload: true, TestDownloadCI: true}
}

// DateTable maps inst-id -> tag -> the date at which test data is known to
// exist for that combination.
type DateTable map[string]map[string]time.Time

// DefaultTestDate is the date attached to modules that declare no test-date
// table. The value is fixed so synthesized tables are reproducible.
var DefaultTestDate = time.Date(2009, 1, 1, 0, 0, 0, 0, time.UTC)

// DefaultDateTable synthesizes the single-entry table used for modules
// without test dates: one entry keyed by the empty inst-id and empty tag.
// The synthesized table keeps structural tests runnable; it is a deliberate
// fallback, not an error.
func DefaultDateTable() DateTable {
	return DateTable{"": {"": DefaultTestDate}}
}

// TestCase identifies one classified combination in a discovery worklist:
// a module reference plus the (inst-id, tag) pair it is bound to. Records
// are immutable after discovery produces them.
type TestCase struct {
	Module *Module
	InstID string
	Tag    string
}

// InstrumentList is the classified worklist produced by DiscoverInstruments
// and consumed by the conformance and lifecycle suites.
type InstrumentList struct {
	// Names holds every module name declared in the registry, including
	// modules that failed to load. The conformance suite re-attempts each
	// load and fails loudly there.
	Names []string

	// Download holds combinations requiring full lifecycle testing.
	Download []TestCase

	// NoDownload holds combinations tested only for the download-warning
	// contract.
	NoDownload []TestCase
}
