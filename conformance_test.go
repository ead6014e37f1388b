// conformance_test.go: Tests for the structural conformance checks
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package goinsttest

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckModuleStandard(t *testing.T) {
	params := newTestParams(t)

	t.Run("conforming module passes", func(t *testing.T) {
		require.NoError(t, CheckModuleStandard(newDailyModule(), params))
	})

	t.Run("empty platform rejected", func(t *testing.T) {
		mod := newDailyModule()
		mod.Platform = ""
		err := CheckModuleStandard(mod, params)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "platform")
	})

	t.Run("empty name rejected", func(t *testing.T) {
		mod := newDailyModule()
		mod.Name = ""
		require.Error(t, CheckModuleStandard(mod, params))
	})

	t.Run("missing tags table rejected", func(t *testing.T) {
		mod := newDailyModule()
		mod.Tags = nil
		require.Error(t, CheckModuleStandard(mod, params))
	})

	t.Run("missing inst_ids table rejected", func(t *testing.T) {
		mod := newDailyModule()
		mod.InstIDs = nil
		require.Error(t, CheckModuleStandard(mod, params))
	})

	t.Run("failing init hook surfaces per combination", func(t *testing.T) {
		mod := newDailyModule()
		mod.Default = func(inst *Instrument) error {
			return fmt.Errorf("init blew up")
		}
		err := CheckModuleStandard(mod, params)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "probe")
	})
}

func TestCheckHooks(t *testing.T) {
	t.Run("full hook set passes", func(t *testing.T) {
		require.NoError(t, CheckHooks(newDailyModule()))
	})

	t.Run("optional hooks may be absent", func(t *testing.T) {
		mod := newDailyModule()
		mod.Clean = nil
		mod.Default = nil
		require.NoError(t, CheckHooks(mod))
	})

	t.Run("mandatory hooks must be present", func(t *testing.T) {
		for _, missing := range RequiredHooks() {
			t.Run(missing, func(t *testing.T) {
				mod := newDailyModule()
				switch missing {
				case HookLoad:
					mod.Load = nil
				case HookListFiles:
					mod.ListFiles = nil
				case HookDownload:
					mod.Download = nil
				}
				err := CheckHooks(mod)
				require.Error(t, err)
				assert.Contains(t, err.Error(), missing)
			})
		}
	})
}

func TestCheckTestDates(t *testing.T) {
	t.Run("complete table passes", func(t *testing.T) {
		require.NoError(t, CheckTestDates(newDailyModule()))
	})

	t.Run("missing table rejected", func(t *testing.T) {
		mod := newDailyModule()
		mod.TestDates = nil
		require.Error(t, CheckTestDates(mod))
	})

	t.Run("zero date rejected", func(t *testing.T) {
		mod := newDailyModule()
		mod.TestDates[""]["raw"] = time.Time{}
		require.Error(t, CheckTestDates(mod))
	})

	t.Run("undeclared combination rejected", func(t *testing.T) {
		mod := newDailyModule()
		delete(mod.TestDates[""], "raw")
		err := CheckTestDates(mod)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "raw")
	})
}

func TestConformanceSuite_Run(t *testing.T) {
	reg := NewRegistry("goinsttest/instruments")
	require.NoError(t, reg.Register("daily", staticLoader(newDailyModule())))
	require.NoError(t, reg.Register("strict", staticLoader(newStrictModule())))
	require.NoError(t, reg.Register("nodates", staticLoader(newNoDatesModule())))

	params := newTestParams(t)

	// Discovery attaches the synthesized date table to the cached nodates
	// module; the conformance checks then see a consistent shape.
	_, err := DiscoverInstruments(reg, params, testDiscoveryOptions())
	require.NoError(t, err)

	NewConformanceSuite(reg, params).Run(t)
}

func TestConformanceSuite_Methods(t *testing.T) {
	reg := NewRegistry("goinsttest/instruments")
	require.NoError(t, reg.Register("daily", staticLoader(newDailyModule())))
	suite := NewConformanceSuite(reg, newTestParams(t))

	suite.TestModuleStandard(t, "daily")
	suite.TestHookPresence(t, "daily")
	suite.TestTestDates(t, "daily")
}
