// module.go: Instrument module descriptor and registry
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package goinsttest

import (
	"sync"
	"time"
)

// Hook names of the instrument module contract. Conventional snake_case
// names are kept so manifest files and log output match the vocabulary
// instrument authors already use.
const (
	HookLoad      = "load"
	HookListFiles = "list_files"
	HookDownload  = "download"
	HookClean     = "clean"
	HookDefault   = "default"
)

// LoadFunc loads one day of data for the given date and returns the full
// replacement dataset. Implementations must honor the instrument's
// CleanLevel and strict-time flag, and must return a complete dataset: the
// probe replaces its data wholesale, never merges.
type LoadFunc func(inst *Instrument, date time.Time) ([]any, error)

// ListFilesFunc enumerates the filenames tracked for the instrument over
// the given window. A zero start and stop means "everything on disk".
type ListFilesFunc func(inst *Instrument, start, stop time.Time) ([]string, error)

// DownloadFunc fetches data over the [start, stop] window. cred is nil when
// the harness has no credentials for the instrument; implementations that
// cannot download without credentials must emit a user-facing warning via
// the instrument rather than fail.
type DownloadFunc func(inst *Instrument, start, stop time.Time, cred *Credential) error

// CleanFunc applies the instrument's current CleanLevel to its dataset.
type CleanFunc func(inst *Instrument) error

// DefaultFunc runs instrument-specific initialization at construction time.
type DefaultFunc func(inst *Instrument) error

// FlagsFunc resolves the capability flags for one (inst-id, tag)
// combination. Modules leave it nil to accept DefaultTestFlags for every
// combination.
type FlagsFunc func(instID, tag string) TestFlags

// Module is the descriptor for one instrument plugin: its identity
// metadata, the table of supported (inst-id, tag) combinations, the
// test-date table, and the lifecycle hooks. Optional hooks are nil when a
// module does not provide them; the conformance suite enforces that no
// mandatory hook is left nil.
type Module struct {
	// Platform and Name together identify the instrument ("platform_name").
	Platform string
	Name     string

	// Tags maps each supported tag to a human-readable description.
	Tags map[string]string

	// InstIDs maps each supported inst-id to the tags valid for it. Every
	// combination the module supports must appear here.
	InstIDs map[string][]string

	// Acknowledgements and References carry the citation text data users
	// are expected to include.
	Acknowledgements string
	References       string

	// TestDates maps inst-id -> tag -> a date at which test data is known
	// to exist. Discovery synthesizes DefaultDateTable when nil.
	TestDates DateTable

	// Lifecycle hooks. Load, ListFiles and Download are mandatory.
	Load      LoadFunc
	ListFiles ListFilesFunc
	Download  DownloadFunc
	Clean     CleanFunc
	Default   DefaultFunc

	// RemoteFileList is the optional remote-listing capability exercised
	// by the lifecycle suite when present.
	RemoteFileList ListFilesFunc

	// Flags resolves per-combination capability flags; nil means
	// DefaultTestFlags for every combination.
	Flags FlagsFunc
}

// ID returns the instrument identity key "{platform}_{name}" used by the
// credential table and in log output.
func (m *Module) ID() string {
	return m.Platform + "_" + m.Name
}

// Hook returns the named contract hook and whether the module provides it.
// Only the five contract hook names are recognized.
func (m *Module) Hook(name string) (any, bool) {
	switch name {
	case HookLoad:
		return m.Load, m.Load != nil
	case HookListFiles:
		return m.ListFiles, m.ListFiles != nil
	case HookDownload:
		return m.Download, m.Download != nil
	case HookClean:
		return m.Clean, m.Clean != nil
	case HookDefault:
		return m.Default, m.Default != nil
	default:
		return nil, false
	}
}

// ContractHooks returns the names of all contract hooks in a fixed order.
func ContractHooks() []string {
	return []string{HookLoad, HookListFiles, HookDownload, HookClean, HookDefault}
}

// RequiredHooks returns the names of the hooks every module must provide.
func RequiredHooks() []string {
	return []string{HookLoad, HookListFiles, HookDownload}
}

// flagsFor resolves the capability flags for a combination, falling back
// to the defaults when the module declares no resolver.
func (m *Module) flagsFor(instID, tag string) TestFlags {
	if m.Flags == nil {
		return DefaultTestFlags()
	}
	return m.Flags(instID, tag)
}

// supportsCombination reports whether the module declares tag under instID.
func (m *Module) supportsCombination(instID, tag string) bool {
	tags, ok := m.InstIDs[instID]
	if !ok {
		return false
	}
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// ModuleLoader produces a module on demand. Returning an error is the
// moral equivalent of an import failure: discovery tolerates it, the
// conformance suite does not.
type ModuleLoader func() (*Module, error)

// Registry is the namespace instrument modules are discovered in: an
// ordered set of named module loaders plus a load cache.
//
// Loads are cached so a module is materialized exactly once per registry,
// matching the import-once semantics instrument authors rely on: state
// attached during discovery (a synthesized test-date table) stays visible
// to the conformance suite re-reading the same module.
type Registry struct {
	pkg     string
	mu      sync.RWMutex
	order   []string
	loaders map[string]ModuleLoader
	loaded  map[string]*Module
}

// NewRegistry creates an empty registry. pkg is the importable package
// identity of the namespace, used only for log output.
func NewRegistry(pkg string) *Registry {
	return &Registry{
		pkg:     pkg,
		order:   make([]string, 0),
		loaders: make(map[string]ModuleLoader),
		loaded:  make(map[string]*Module),
	}
}

// Package returns the namespace's importable package identity.
func (r *Registry) Package() string {
	return r.pkg
}

// Register adds a named module loader. Names must be non-empty and unique.
func (r *Registry) Register(name string, loader ModuleLoader) error {
	if name == "" {
		return NewInvalidModuleNameError(name)
	}
	if loader == nil {
		return NewModuleImportError(name, nil)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.loaders[name]; exists {
		return NewDuplicateModuleError(name)
	}
	r.order = append(r.order, name)
	r.loaders[name] = loader
	return nil
}

// Names returns every registered module name in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Load materializes the named module, caching the result. Subsequent loads
// return the same *Module. Loader failures are wrapped as import errors
// and are not cached, so a later load re-attempts the import.
func (r *Registry) Load(name string) (*Module, error) {
	r.mu.RLock()
	if mod, ok := r.loaded[name]; ok {
		r.mu.RUnlock()
		return mod, nil
	}
	loader, ok := r.loaders[name]
	r.mu.RUnlock()

	if !ok {
		return nil, NewModuleNotFoundError(name)
	}

	mod, err := loader()
	if err != nil {
		return nil, NewModuleImportError(name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Another goroutine may have completed the same load; keep the first.
	if cached, ok := r.loaded[name]; ok {
		return cached, nil
	}
	r.loaded[name] = mod
	return mod, nil
}
