// testing_helpers_test.go: Synthetic instrument modules and test fixtures
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package goinsttest

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// newTestParams creates a Params object rooted in test-owned temporary
// directories.
func newTestParams(t *testing.T) *Params {
	t.Helper()
	params, err := NewParams(filepath.Join(t.TempDir(), "params.json"), nil)
	if err != nil {
		t.Fatalf("Failed to create test params: %v", err)
	}
	if err := params.SetDataDir(t.TempDir(), false); err != nil {
		t.Fatalf("Failed to set test data dir: %v", err)
	}
	return params
}

// writeDailyFiles simulates a download: it writes count synthetic daily
// files for the given date under the instrument's data path.
func writeDailyFiles(inst *Instrument, date time.Time, count int) error {
	if err := os.MkdirAll(inst.Files().DataPath(), 0o755); err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		name := fmt.Sprintf("%s_%s_%02d.nc", inst.Name, date.Format("20060102"), i)
		path := filepath.Join(inst.Files().DataPath(), name)
		if err := os.WriteFile(path, []byte("synthetic data\n"), 0o644); err != nil {
			return err
		}
	}
	return nil
}

// listDataPath enumerates the on-disk filenames under the instrument's
// data path. Missing directories yield an empty listing.
func listDataPath(inst *Instrument) ([]string, error) {
	entries, err := os.ReadDir(inst.Files().DataPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// syntheticLoad produces a small non-empty dataset for the given date,
// shrinking as the cleaning level strengthens.
func syntheticLoad(inst *Instrument, date time.Time) []any {
	records := []any{
		fmt.Sprintf("%s record A %s", inst.Name, date.Format("2006-01-02")),
		fmt.Sprintf("%s record B %s", inst.Name, date.Format("2006-01-02")),
		fmt.Sprintf("%s record C %s", inst.Name, date.Format("2006-01-02")),
	}
	switch inst.CleanLevel {
	case CleanDusty:
		return records[:2]
	case CleanClean:
		return records[:1]
	default:
		return records
	}
}

// newDailyModule builds a full-featured synthetic instrument whose daily
// data sources track filenames with a "_0" appendix after the extension,
// the shape the cleanup helper's suffix stripping exists for.
func newDailyModule() *Module {
	return &Module{
		Platform:         "insttest",
		Name:             "daily",
		Tags:             map[string]string{"": "clean synthetic daily dataset", "raw": "raw synthetic daily dataset"},
		InstIDs:          map[string][]string{"": {"", "raw"}},
		Acknowledgements: "Synthetic data provided by the insttest platform.",
		References:       "insttest reference handbook",
		TestDates: DateTable{
			"": {"": DefaultTestDate, "raw": DefaultTestDate},
		},
		Download: func(inst *Instrument, start, stop time.Time, cred *Credential) error {
			return writeDailyFiles(inst, start, 3)
		},
		ListFiles: func(inst *Instrument, start, stop time.Time) ([]string, error) {
			names, err := listDataPath(inst)
			if err != nil {
				return nil, err
			}
			// Daily synthetic sources stamp tracked names with an appendix.
			tracked := make([]string, len(names))
			for i, n := range names {
				tracked[i] = n + "_0"
			}
			return tracked, nil
		},
		Load: func(inst *Instrument, date time.Time) ([]any, error) {
			return syntheticLoad(inst, date), nil
		},
		Clean: func(inst *Instrument) error { return nil },
		RemoteFileList: func(inst *Instrument, start, stop time.Time) ([]string, error) {
			return []string{fmt.Sprintf("daily_%s_00.nc", start.Format("20060102"))}, nil
		},
	}
}

// newStrictModule builds an instrument whose load fails with the
// recognized strict-time ordering violation until strict validation is
// disabled, then warns and succeeds.
func newStrictModule() *Module {
	mod := newDailyModule()
	mod.Name = "strict"
	mod.Tags = map[string]string{"": "out-of-order synthetic dataset"}
	mod.InstIDs = map[string][]string{"": {""}}
	mod.TestDates = DateTable{"": {"": DefaultTestDate}}
	mod.RemoteFileList = nil
	mod.Load = func(inst *Instrument, date time.Time) ([]any, error) {
		if inst.StrictTimeFlag {
			return nil, NewStrictTimeError(inst.Platform, inst.Name)
		}
		inst.Warnf("Strict time ordering disabled; loaded data may be out of order")
		return syntheticLoad(inst, date), nil
	}
	return mod
}

// newOfflineModule builds an instrument without download support: no
// download hook, classified into the no-download bucket.
func newOfflineModule() *Module {
	mod := newDailyModule()
	mod.Name = "offline"
	mod.Tags = map[string]string{"": "local-only synthetic dataset"}
	mod.InstIDs = map[string][]string{"": {""}}
	mod.TestDates = DateTable{"": {"": DefaultTestDate}}
	mod.Download = nil
	mod.RemoteFileList = nil
	mod.Flags = func(string, string) TestFlags {
		return TestFlags{TestDownload: false, TestDownloadCI: false, PasswordReq: false}
	}
	return mod
}

// newGatedModule builds an instrument requiring credentials the harness
// cannot supply; its combinations are excluded from both buckets.
func newGatedModule() *Module {
	mod := newOfflineModule()
	mod.Name = "gated"
	mod.Flags = func(string, string) TestFlags {
		return TestFlags{TestDownload: false, TestDownloadCI: false, PasswordReq: true}
	}
	return mod
}

// newCISkippedModule builds a downloadable instrument not flagged CI-safe.
func newCISkippedModule() *Module {
	mod := newDailyModule()
	mod.Name = "ciskip"
	mod.Tags = map[string]string{"": "non-CI downloadable dataset"}
	mod.InstIDs = map[string][]string{"": {""}}
	mod.TestDates = DateTable{"": {"": DefaultTestDate}}
	mod.RemoteFileList = nil
	mod.Flags = func(string, string) TestFlags {
		return TestFlags{TestDownload: true, TestDownloadCI: false, PasswordReq: false}
	}
	return mod
}

// newNoDatesModule builds an instrument that declares no test-date table,
// exercising the synthesized default.
func newNoDatesModule() *Module {
	mod := newDailyModule()
	mod.Name = "nodates"
	mod.Tags = map[string]string{"": "dataset without declared test dates"}
	mod.InstIDs = map[string][]string{"": {""}}
	mod.TestDates = nil
	mod.RemoteFileList = nil
	return mod
}

// newCredentialedModule builds an instrument matching the default
// credential table's known identity; its download records the credential
// it received.
func newCredentialedModule(got **Credential) *Module {
	mod := newDailyModule()
	mod.Platform = "supermag"
	mod.Name = "magnetometer"
	mod.Tags = map[string]string{"": "magnetometer dataset"}
	mod.InstIDs = map[string][]string{"": {""}}
	mod.TestDates = DateTable{"": {"": DefaultTestDate}}
	mod.RemoteFileList = nil
	mod.Download = func(inst *Instrument, start, stop time.Time, cred *Credential) error {
		*got = cred
		return writeDailyFiles(inst, start, 1)
	}
	return mod
}

// staticLoader wraps a prebuilt module in a ModuleLoader.
func staticLoader(mod *Module) ModuleLoader {
	return func() (*Module, error) { return mod, nil }
}

// brokenLoader simulates an import failure.
func brokenLoader() (*Module, error) {
	return nil, fmt.Errorf("synthetic import failure: missing optional dependency")
}

// newTestRegistry builds a registry holding the standard synthetic
// modules.
func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry("goinsttest/instruments")
	modules := []struct {
		name string
		mod  *Module
	}{
		{"daily", newDailyModule()},
		{"strict", newStrictModule()},
		{"offline", newOfflineModule()},
		{"nodates", newNoDatesModule()},
	}
	for _, m := range modules {
		if err := reg.Register(m.name, staticLoader(m.mod)); err != nil {
			t.Fatalf("Failed to register module %s: %v", m.name, err)
		}
	}
	return reg
}
