// conformance.go: Structural conformance checks for instrument modules
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package goinsttest

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// CheckModuleStandard validates a module's metadata and verifies that a
// probe can be reconstructed for every declared (inst-id, tag)
// combination, reproducing the module's identity and carrying the required
// instance attributes.
func CheckModuleStandard(mod *Module, params *Params) error {
	if mod.Platform == "" {
		return fmt.Errorf("module %q: platform must be a non-empty string", mod.Name)
	}
	if mod.Name == "" {
		return fmt.Errorf("module %q: name must be a non-empty string", mod.Platform)
	}
	if mod.Tags == nil {
		return fmt.Errorf("module %s: tags table is missing", mod.ID())
	}
	if mod.InstIDs == nil {
		return fmt.Errorf("module %s: inst_ids table is missing", mod.ID())
	}

	for instID, tags := range mod.InstIDs {
		for _, tag := range tags {
			inst, err := NewInstrument(mod, tag, instID, WithParams(params))
			if err != nil {
				return fmt.Errorf("module %s: probe for inst_id=%q tag=%q: %w",
					mod.ID(), instID, tag, err)
			}
			if inst.Platform != mod.Platform || inst.Name != mod.Name {
				return fmt.Errorf("module %s: probe identity mismatch: got %s_%s",
					mod.ID(), inst.Platform, inst.Name)
			}
			if inst.InstID != instID || inst.Tag != tag {
				return fmt.Errorf("module %s: probe binding mismatch: got inst_id=%q tag=%q",
					mod.ID(), inst.InstID, inst.Tag)
			}
			if inst.Acknowledgements != mod.Acknowledgements {
				return fmt.Errorf("module %s: probe acknowledgements not carried", mod.ID())
			}
			if inst.References != mod.References {
				return fmt.Errorf("module %s: probe references not carried", mod.ID())
			}
		}
	}
	return nil
}

// CheckHooks verifies the hook contract: each of the five contract hooks,
// when absent, must not be one of the mandatory hooks. Present hooks are
// callable by construction (typed function fields).
func CheckHooks(mod *Module) error {
	required := RequiredHooks()
	for _, name := range ContractHooks() {
		if _, present := mod.Hook(name); present {
			continue
		}
		for _, req := range required {
			if name == req {
				return fmt.Errorf("module %s: mandatory hook %q is missing", mod.ID(), name)
			}
		}
	}
	return nil
}

// CheckTestDates verifies the test-date table: present (discovery attaches
// the synthesized default for modules lacking one) and mapping every
// declared (inst-id, tag) combination to a non-zero date, with no entries
// for undeclared combinations left unchecked.
func CheckTestDates(mod *Module) error {
	if mod.TestDates == nil {
		return fmt.Errorf("module %s: test-date table is missing", mod.ID())
	}
	for instID, tags := range mod.TestDates {
		for tag, date := range tags {
			if date.IsZero() {
				return fmt.Errorf("module %s: test date for inst_id=%q tag=%q is not a valid date",
					mod.ID(), instID, tag)
			}
		}
	}
	for instID, tags := range mod.InstIDs {
		for _, tag := range tags {
			date, ok := mod.TestDates[instID][tag]
			if !ok || date.IsZero() {
				return fmt.Errorf("module %s: no test date declared for inst_id=%q tag=%q",
					mod.ID(), instID, tag)
			}
		}
	}
	return nil
}

// ConformanceSuite runs the structural checks for every module in a
// registry. Unlike discovery, a module load failure here is authoritative
// and fails the test: this suite is where broken modules surface.
type ConformanceSuite struct {
	Registry *Registry
	Params   *Params
	Logger   Logger
}

// NewConformanceSuite creates a suite over the given registry.
func NewConformanceSuite(reg *Registry, params *Params) *ConformanceSuite {
	return &ConformanceSuite{
		Registry: reg,
		Params:   params,
		Logger:   DefaultLogger(),
	}
}

// TestModuleStandard re-loads the named module and runs the metadata and
// probe-reconstruction checks.
func (s *ConformanceSuite) TestModuleStandard(t *testing.T, name string) {
	t.Helper()
	mod, err := s.Registry.Load(name)
	require.NoError(t, err, "module %q must be loadable", name)
	require.NoError(t, CheckModuleStandard(mod, s.Params))
}

// TestHookPresence re-loads the named module and runs the hook contract
// checks.
func (s *ConformanceSuite) TestHookPresence(t *testing.T, name string) {
	t.Helper()
	mod, err := s.Registry.Load(name)
	require.NoError(t, err, "module %q must be loadable", name)
	require.NoError(t, CheckHooks(mod))
}

// TestTestDates re-loads the named module and runs the test-date table
// checks.
func (s *ConformanceSuite) TestTestDates(t *testing.T, name string) {
	t.Helper()
	mod, err := s.Registry.Load(name)
	require.NoError(t, err, "module %q must be loadable", name)
	require.NoError(t, CheckTestDates(mod))
}

// Run executes all structural checks for every registered module as
// independent subtests, so one broken module never prevents the others
// from being checked.
func (s *ConformanceSuite) Run(t *testing.T) {
	for _, name := range s.Registry.Names() {
		t.Run(name, func(t *testing.T) {
			t.Run("standard", func(t *testing.T) { s.TestModuleStandard(t, name) })
			t.Run("hooks", func(t *testing.T) { s.TestHookPresence(t, name) })
			t.Run("test_dates", func(t *testing.T) { s.TestTestDates(t, name) })
		})
	}
}
