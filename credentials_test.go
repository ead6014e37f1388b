// credentials_test.go: Tests for the credential lookup service
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

func TestStaticCredentialStore_Lookup(t *testing.T) {
	store := NewStaticCredentialStore(map[string]Credential{
		"insttest_daily": {Username: "tester", Password: "hunter2"},
	})

	cred, ok := store.Lookup("insttest_daily")
	require.True(t, ok)
	assert.Equal(t, "tester", cred.Username)
	assert.Equal(t, "hunter2", cred.Password)

	_, ok = store.Lookup("insttest_unknown")
	assert.False(t, ok)
}

func TestStaticCredentialStore_CopiesInput(t *testing.T) {
	source := map[string]Credential{"insttest_daily": {Username: "tester"}}
	store := NewStaticCredentialStore(source)

	source["insttest_daily"] = Credential{Username: "mutated"}

	cred, ok := store.Lookup("insttest_daily")
	require.True(t, ok)
	assert.Equal(t, "tester", cred.Username, "the store must not alias the caller's map")
}

func TestDefaultCredentialStore(t *testing.T) {
	cred, ok := DefaultCredentialStore().Lookup("supermag_magnetometer")
	require.True(t, ok, "the default table must carry the known supermag entry")
	assert.Equal(t, "rstoneback", cred.Username)
}
