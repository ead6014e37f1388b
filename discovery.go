// discovery.go: Instrument discovery and download-capability classification
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package goinsttest

import (
	"os"
	"sort"
	"time"

	"github.com/agilira/go-timecache"
)

// DiscoveryOptions configures DiscoverInstruments.
type DiscoveryOptions struct {
	// CIEnvVar is the environment variable gating CI-sensitive download
	// combinations. Defaults to "CI".
	CIEnvVar string

	// CIValue is the value of CIEnvVar that marks the CI environment as
	// active. Defaults to "true".
	CIValue string

	// Logger receives per-module discovery diagnostics. Import failures
	// and omitted credentialed combinations are logged at debug level and
	// never abort discovery.
	Logger Logger

	// Collector receives warnings emitted by classification probes.
	Collector *WarningCollector
}

func (o *DiscoveryOptions) withDefaults() DiscoveryOptions {
	out := *o
	if out.CIEnvVar == "" {
		out.CIEnvVar = "CI"
	}
	if out.CIValue == "" {
		out.CIValue = "true"
	}
	if out.Logger == nil {
		out.Logger = DefaultLogger()
	}
	return out
}

// ciActive reports whether the continuous-integration indicator is set.
func (o *DiscoveryOptions) ciActive() bool {
	return os.Getenv(o.CIEnvVar) == o.CIValue
}

// Classify assigns one combination to its test bucket.
//
// A combination requiring download testing is excluded only by the CI-skip
// predicate: indicator active and the combination not flagged CI-safe. A
// combination not requiring download testing enters the no-download bucket
// only when it needs no credentials; credentialed combinations are excluded
// from both buckets.
func Classify(flags TestFlags, ciActive bool) Classification {
	if flags.TestDownload {
		if ciActive && !flags.TestDownloadCI {
			return ClassExcluded
		}
		return ClassDownload
	}
	if !flags.PasswordReq {
		return ClassNoDownload
	}
	return ClassExcluded
}

// DiscoverInstruments enumerates every module declared in the registry,
// materializes its (inst-id, tag) combinations, and classifies each into
// the download and no-download worklists.
//
// Behavior guarantees:
//
//   - The shared data directory is redirected to a fresh temporary
//     location for the whole discovery pass, so probe instantiation side
//     effects never pollute real state; the prior value is restored
//     unconditionally, including on error and panic.
//   - A module whose loader fails is skipped silently here. The
//     conformance suite re-attempts the load and fails loudly there, so a
//     single broken module never aborts the rest of the worklist.
//   - A module without a test-date table has the single-entry default
//     table synthesized and attached, so every later consumer sees a
//     consistent shape.
//   - Iteration over combinations is in sorted key order, making repeated
//     discovery over the same registry yield identical worklists.
func DiscoverInstruments(reg *Registry, params *Params, opts DiscoveryOptions) (*InstrumentList, error) {
	o := opts.withDefaults()
	started := timecache.CachedTime()

	list := &InstrumentList{
		Names:      reg.Names(),
		Download:   make([]TestCase, 0),
		NoDownload: make([]TestCase, 0),
	}

	tempDir, err := os.MkdirTemp("", "go-insttest-discovery-")
	if err != nil {
		return nil, NewParamsFileError(tempDir, err)
	}
	defer func() {
		if err := os.RemoveAll(tempDir); err != nil {
			o.Logger.Warn("Failed to remove discovery temp dir", "dir", tempDir, "error", err)
		}
	}()

	ciActive := o.ciActive()

	err = params.WithDataDir(tempDir, func() error {
		for _, name := range list.Names {
			mod, err := reg.Load(name)
			if err != nil {
				o.Logger.Debug("Module failed to load during discovery; conformance suite will surface it",
					"module", name, "error", err)
				continue
			}
			if mod.TestDates == nil {
				mod.TestDates = DefaultDateTable()
				o.Logger.Debug("Synthesized default test-date table", "module", name)
			}
			classifyModule(mod, params, ciActive, o, list)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	o.Logger.Info("Instrument discovery complete",
		"modules", len(list.Names),
		"download_cases", len(list.Download),
		"no_download_cases", len(list.NoDownload),
		"elapsed", time.Since(started))

	return list, nil
}

// classifyModule instantiates an ephemeral probe per declared combination
// and routes each into its bucket. Probe construction failures are logged
// and skipped; the structural checks belong to the conformance suite.
func classifyModule(mod *Module, params *Params, ciActive bool, o DiscoveryOptions, list *InstrumentList) {
	for _, instID := range sortedKeys(mod.TestDates) {
		for _, tag := range sortedKeys(mod.TestDates[instID]) {
			inst, err := NewInstrument(mod, tag, instID,
				WithEphemeralFileList(),
				WithParams(params),
				WithWarningCollector(o.Collector),
				WithLogger(o.Logger))
			if err != nil {
				o.Logger.Debug("Probe instantiation failed during discovery",
					"module", mod.ID(), "inst_id", instID, "tag", tag, "error", err)
				continue
			}

			tc := TestCase{Module: mod, InstID: instID, Tag: tag}
			switch Classify(inst.TestFlags(), ciActive) {
			case ClassDownload:
				list.Download = append(list.Download, tc)
			case ClassNoDownload:
				list.NoDownload = append(list.NoDownload, tc)
			default:
				o.Logger.Debug("Combination excluded from both worklists",
					"module", mod.ID(), "inst_id", instID, "tag", tag,
					"ci_active", ciActive, "flags", inst.TestFlags())
			}
		}
	}
}

// InitTestInstrument rebuilds a fresh probe for one classified test case
// and resolves its test date.
//
// The probe is constructed without ephemeral file tracking and without CI
// filtering: classification already happened, this is materialization. A
// missing date for the case's (inst-id, tag) indicates a discovery and
// initializer inconsistency and is returned as a defect, never a skip.
func InitTestInstrument(tc TestCase, params *Params, opts ...InstrumentOption) (*Instrument, time.Time, error) {
	base := []InstrumentOption{WithParams(params)}
	inst, err := NewInstrument(tc.Module, tc.Tag, tc.InstID, append(base, opts...)...)
	if err != nil {
		return nil, time.Time{}, err
	}

	tags, ok := tc.Module.TestDates[tc.InstID]
	if !ok {
		return nil, time.Time{}, NewTestDateMissingError(tc.Module.Platform, tc.Module.Name, tc.InstID, tc.Tag)
	}
	date, ok := tags[tc.Tag]
	if !ok {
		return nil, time.Time{}, NewTestDateMissingError(tc.Module.Platform, tc.Module.Name, tc.InstID, tc.Tag)
	}
	return inst, date, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
