// lifecycle_test.go: Tests for the download/load/clean lifecycle suite
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package goinsttest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLifecycleSuite_Download(t *testing.T) {
	suite := NewLifecycleSuite(newTestParams(t))
	tc := TestCase{Module: newDailyModule(), InstID: "", Tag: ""}

	suite.TestDownload(t, tc)

	inst, _, err := InitTestInstrument(tc, suite.Params)
	require.NoError(t, err)
	assert.Equal(t, 3, inst.Files().Count(), "downloaded files must survive the test probe")
}

func TestLifecycleSuite_Load(t *testing.T) {
	suite := NewLifecycleSuite(newTestParams(t))
	tc := TestCase{Module: newDailyModule(), InstID: "", Tag: ""}

	suite.TestDownload(t, tc)
	suite.TestLoad(t, tc)

	// The final clean level runs the cleanup helper; the data path must be
	// empty afterwards.
	inst, _, err := InitTestInstrument(tc, suite.Params)
	require.NoError(t, err)
	onDisk, err := listDataPath(inst)
	require.NoError(t, err)
	assert.Empty(t, onDisk, "the clean level must remove downloaded artifacts")
}

func TestLifecycleSuite_Load_SkipsWithoutFiles(t *testing.T) {
	suite := NewLifecycleSuite(newTestParams(t))
	tc := TestCase{Module: newDailyModule(), InstID: "", Tag: ""}

	// No download happened; every level skips and nothing fails.
	suite.TestLoad(t, tc)
}

func TestLifecycleSuite_Load_StrictTimeRecovery(t *testing.T) {
	suite := NewLifecycleSuite(newTestParams(t))
	tc := TestCase{Module: newStrictModule(), InstID: "", Tag: ""}

	suite.TestDownload(t, tc)

	before := suite.Collector.Len()
	suite.TestLoad(t, tc)

	recovered := suite.Collector.Since(before)
	require.NotEmpty(t, recovered, "each recovered level must emit a warning")
	assert.Contains(t, recovered[0].Message, "Strict time ordering disabled")
}

func TestLifecycleSuite_RemoteFileList(t *testing.T) {
	suite := NewLifecycleSuite(newTestParams(t))

	t.Run("listing available", func(t *testing.T) {
		suite.TestRemoteFileList(t, TestCase{Module: newDailyModule(), InstID: "", Tag: ""})
	})

	t.Run("listing absent skips", func(t *testing.T) {
		suite.TestRemoteFileList(t, TestCase{Module: newStrictModule(), InstID: "", Tag: ""})
		t.Error("a module without the remote hook must skip before this point")
	})
}

func TestLifecycleSuite_DownloadWarning(t *testing.T) {
	suite := NewLifecycleSuite(newTestParams(t))
	tc := TestCase{Module: newOfflineModule(), InstID: "", Tag: ""}

	before := suite.Collector.Len()
	suite.TestDownloadWarning(t, tc)
	assert.GreaterOrEqual(t, suite.Collector.Len()-before, 1)
}

func TestLifecycleSuite_CredentialDelivery(t *testing.T) {
	var got *Credential
	suite := NewLifecycleSuite(newTestParams(t))
	tc := TestCase{Module: newCredentialedModule(&got), InstID: "", Tag: ""}

	suite.TestDownload(t, tc)

	require.NotNil(t, got, "the known identity must receive its stored credential")
	assert.Equal(t, "rstoneback", got.Username)
}

func TestLifecycleSuite_Run(t *testing.T) {
	params := newTestParams(t)
	reg := newTestRegistry(t)

	list, err := DiscoverInstruments(reg, params, testDiscoveryOptions())
	require.NoError(t, err)
	require.NotEmpty(t, list.Download)
	require.NotEmpty(t, list.NoDownload)

	NewLifecycleSuite(params).Run(t, list)
}

func TestCaseName(t *testing.T) {
	daily := newDailyModule()
	tests := []struct {
		name     string
		tc       TestCase
		expected string
	}{
		{"bare combination", TestCase{Module: daily}, "insttest_daily"},
		{"tag only", TestCase{Module: daily, Tag: "raw"}, "insttest_daily_raw"},
		{"inst id and tag", TestCase{Module: daily, InstID: "a", Tag: "raw"}, "insttest_daily_a_raw"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, caseName(tt.tc))
		})
	}
}
