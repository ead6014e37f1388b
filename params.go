// params.go: File-backed shared settings for the instrument framework
//
// The one process-wide resource the harness touches is the shared data
// directory every instrument writes under. Params makes that setting an
// explicit, injectable object instead of a global, and provides the
// scoped save-mutate-restore pattern discovery depends on.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package goinsttest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// paramsFile is the on-disk JSON shape of the settings file.
type paramsFile struct {
	DataDir string `json:"data_dir"`
}

// Params holds the shared instrument-framework settings, backed by a JSON
// settings file. All access is mutex-guarded; SetDataDir optionally
// persists, and WithDataDir provides the scoped swap used by discovery.
type Params struct {
	mu       sync.RWMutex
	path     string
	settings paramsFile
	logger   Logger
}

// NewParams opens the settings file at path, creating in-memory defaults
// when the file does not exist yet. The file is only written when a caller
// asks for persistence.
func NewParams(path string, logger any) (*Params, error) {
	p := &Params{
		path:   path,
		logger: NewLogger(logger),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return nil, NewParamsFileError(path, err)
	}
	if err := json.Unmarshal(data, &p.settings); err != nil {
		return nil, NewParamsFileError(path, err)
	}
	return p, nil
}

// Path returns the location of the settings file.
func (p *Params) Path() string {
	return p.path
}

// DataDir returns the shared data directory.
func (p *Params) DataDir() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.settings.DataDir
}

// SetDataDir updates the shared data directory. When store is true the
// settings file is rewritten; transient redirects (discovery's temp
// directory) pass false so real state is never polluted.
func (p *Params) SetDataDir(dir string, store bool) error {
	p.mu.Lock()
	p.settings.DataDir = dir
	snapshot := p.settings
	p.mu.Unlock()

	if !store {
		return nil
	}
	return p.persist(snapshot)
}

// WithDataDir redirects the data directory to dir for the duration of fn,
// restoring the prior value unconditionally afterward. The swap is never
// persisted. Restoration is deferred, so it happens even when fn returns
// an error or panics.
func (p *Params) WithDataDir(dir string, fn func() error) error {
	p.mu.Lock()
	saved := p.settings.DataDir
	p.settings.DataDir = dir
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.settings.DataDir = saved
		p.mu.Unlock()
	}()

	return fn()
}

// reload re-reads the settings file, replacing the in-memory state. Used by
// the params watcher on file-change events.
func (p *Params) reload() error {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return NewParamsFileError(p.path, err)
	}
	var settings paramsFile
	if err := json.Unmarshal(data, &settings); err != nil {
		return NewParamsFileError(p.path, err)
	}

	p.mu.Lock()
	p.settings = settings
	p.mu.Unlock()

	p.logger.Debug("Params reloaded from file", "path", p.path, "data_dir", settings.DataDir)
	return nil
}

func (p *Params) persist(settings paramsFile) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return NewParamsFileError(p.path, err)
	}
	if dir := filepath.Dir(p.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return NewParamsFileError(p.path, err)
		}
	}
	if err := os.WriteFile(p.path, data, 0o644); err != nil {
		return NewParamsFileError(p.path, err)
	}
	return nil
}
