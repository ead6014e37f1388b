// credentials.go: Injectable credential lookup for download tests
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package goinsttest

// Credential is one username/secret pair supplied to a download hook.
type Credential struct {
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
}

// CredentialStore resolves credentials by instrument identity
// ("{platform}_{name}"). The store is injectable so test setups can
// substitute fakes instead of relying on process-wide static state.
type CredentialStore interface {
	// Lookup returns the credential for the given instrument identity and
	// whether one is known.
	Lookup(id string) (Credential, bool)
}

// StaticCredentialStore is a fixed in-memory credential table.
type StaticCredentialStore struct {
	creds map[string]Credential
}

// NewStaticCredentialStore builds a store from a copy of the given table.
func NewStaticCredentialStore(creds map[string]Credential) *StaticCredentialStore {
	table := make(map[string]Credential, len(creds))
	for k, v := range creds {
		table[k] = v
	}
	return &StaticCredentialStore{creds: table}
}

// Lookup implements CredentialStore.
func (s *StaticCredentialStore) Lookup(id string) (Credential, bool) {
	c, ok := s.creds[id]
	return c, ok
}

// DefaultCredentialStore returns the credential table for the known
// instruments whose download tests need otherwise-missing credentials.
func DefaultCredentialStore() *StaticCredentialStore {
	return NewStaticCredentialStore(map[string]Credential{
		"supermag_magnetometer": {Username: "rstoneback", Password: "None"},
	})
}
