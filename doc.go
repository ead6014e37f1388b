// doc.go: Package overview for the go-insttest conformance harness
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

// Package goinsttest is a reusable conformance-test harness for instrument
// plugin modules in scientific data-analysis frameworks.
//
// An instrument plugin is a self-contained unit providing metadata
// (platform, name, tag and inst-id tables, acknowledgements, references)
// and a small set of lifecycle hooks (load, list_files, download, clean,
// default). This package discovers such modules in a Registry, validates
// that each conforms to the structural contract, and exercises the
// download -> load -> clean lifecycle of every downloadable combination
// against the standard Go test runner.
//
// The harness is built around two pieces:
//
//   - Discovery and classification: DiscoverInstruments walks a Registry,
//     tolerates individually broken modules, synthesizes missing test-date
//     tables, and partitions every (inst-id, tag) combination into
//     download-required and no-download worklists. The shared data
//     directory is redirected to a temporary location for the duration of
//     discovery and restored unconditionally.
//
//   - Test suites: ConformanceSuite runs structural assertions per module;
//     LifecycleSuite drives each downloadable combination through
//     download, load at every cleaning level, and cleanup, including the
//     one-shot strict-time recovery path for the recognized "Loaded data"
//     ordering violation.
//
// Typical usage from an instrument library's test package:
//
//	func TestInstruments(t *testing.T) {
//	    params, _ := NewParams(filepath.Join(t.TempDir(), "params.json"), nil)
//	    list, err := DiscoverInstruments(reg, params, DiscoveryOptions{})
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    NewConformanceSuite(reg, params).Run(t)
//	    NewLifecycleSuite(params).Run(t, list)
//	}
package goinsttest
