// instrument.go: Stateful instrument probe bound to one module combination
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package goinsttest

import (
	"path/filepath"
	"time"
)

// FileIndex tracks the filenames an instrument currently owns under its
// data path. Tracked names come from the module's list_files hook and may
// differ from on-disk names for synthetically date-stamped data; the
// cleanup helper recovers on-disk names from tracked ones.
type FileIndex struct {
	dataPath  string
	ephemeral bool
	files     []string
}

// DataPath returns the directory the instrument's files live in.
func (f *FileIndex) DataPath() string {
	return f.dataPath
}

// Ephemeral reports whether the index avoids persistent file-index side
// effects (discovery probes set this).
func (f *FileIndex) Ephemeral() bool {
	return f.ephemeral
}

// Files returns a copy of the tracked filenames.
func (f *FileIndex) Files() []string {
	out := make([]string, len(f.files))
	copy(out, f.files)
	return out
}

// Count returns the number of tracked files.
func (f *FileIndex) Count() int {
	return len(f.files)
}

// Instrument is a probe: one instantiated module bound to a (tag, inst-id)
// combination. A probe is owned exclusively by the test case that creates
// it, is created fresh per test invocation, and is never shared across
// cases.
type Instrument struct {
	module *Module

	// Identity, copied from the module and the binding at construction.
	Platform         string
	Name             string
	Tag              string
	InstID           string
	Acknowledgements string
	References       string

	// CleanLevel is the mutable cleaning-strictness setting load hooks
	// honor.
	CleanLevel CleanLevel

	// StrictTimeFlag enables strict time-ordering validation during load.
	// Disabling it is the recognized recovery action for the "Loaded data"
	// ordering violation.
	StrictTimeFlag bool

	flags     TestFlags
	data      []any
	files     FileIndex
	params    *Params
	collector *WarningCollector
	logger    Logger
}

// InstrumentOption customizes probe construction.
type InstrumentOption func(*Instrument)

// WithEphemeralFileList enables ephemeral file tracking: the probe leaves
// no persistent file-index side effects. Discovery uses this for its
// classification probes.
func WithEphemeralFileList() InstrumentOption {
	return func(i *Instrument) { i.files.ephemeral = true }
}

// WithParams binds the probe to a settings object; the probe's data path
// is resolved beneath its data directory.
func WithParams(p *Params) InstrumentOption {
	return func(i *Instrument) { i.params = p }
}

// WithWarningCollector routes the probe's user-facing warnings to the
// given collector.
func WithWarningCollector(w *WarningCollector) InstrumentOption {
	return func(i *Instrument) { i.collector = w }
}

// WithLogger sets the probe's logger.
func WithLogger(logger any) InstrumentOption {
	return func(i *Instrument) { i.logger = NewLogger(logger) }
}

// NewInstrument constructs a fresh probe bound to the given combination.
// The combination must be declared in the module's InstIDs table. The
// module's default hook, when present, runs before the probe is returned;
// its failure fails construction.
func NewInstrument(mod *Module, tag, instID string, opts ...InstrumentOption) (*Instrument, error) {
	if !mod.supportsCombination(instID, tag) {
		return nil, NewInvalidCombinationError(mod.Platform, mod.Name, instID, tag)
	}

	inst := &Instrument{
		module:           mod,
		Platform:         mod.Platform,
		Name:             mod.Name,
		Tag:              tag,
		InstID:           instID,
		Acknowledgements: mod.Acknowledgements,
		References:       mod.References,
		CleanLevel:       CleanNone,
		StrictTimeFlag:   true,
		flags:            mod.flagsFor(instID, tag),
		logger:           DefaultLogger(),
	}

	for _, opt := range opts {
		opt(inst)
	}

	if inst.params != nil {
		inst.files.dataPath = filepath.Join(inst.params.DataDir(), mod.ID())
	}

	if mod.Default != nil {
		if err := mod.Default(inst); err != nil {
			return nil, NewInitHookError(mod.Platform, mod.Name, err)
		}
	}

	// Populate the file index so download-availability checks see files
	// left by earlier lifecycle stages.
	if err := inst.RefreshFiles(); err != nil {
		inst.logger.Debug("Initial file index refresh failed",
			"instrument", mod.ID(), "error", err)
	}

	return inst, nil
}

// Module returns the descriptor this probe was constructed from.
func (i *Instrument) Module() *Module {
	return i.module
}

// TestFlags returns the capability flags resolved for this combination.
func (i *Instrument) TestFlags() TestFlags {
	return i.flags
}

// Files returns the probe's file index.
func (i *Instrument) Files() *FileIndex {
	return &i.files
}

// Data returns the probe's current dataset.
func (i *Instrument) Data() []any {
	return i.data
}

// SetData replaces the probe's dataset. The lifecycle suite uses it to
// inject sentinel data before a load.
func (i *Instrument) SetData(data []any) {
	i.data = data
}

// Empty reports whether the probe holds no data.
func (i *Instrument) Empty() bool {
	return len(i.data) == 0
}

// Warnf emits a user-facing warning, recording it in the collector when
// one is attached and always logging it.
func (i *Instrument) Warnf(format string, args ...any) {
	if i.collector != nil {
		i.collector.Warnf(format, args...)
	}
	i.logger.Warn("Instrument warning", "instrument", i.module.ID(), "warning", format)
}

// RefreshFiles re-enumerates the probe's tracked files via the module's
// list_files hook. A module without the hook yields an empty index.
func (i *Instrument) RefreshFiles() error {
	if i.module.ListFiles == nil {
		i.files.files = nil
		return nil
	}
	names, err := i.module.ListFiles(i, time.Time{}, time.Time{})
	if err != nil {
		return NewFileIndexRefreshError(i.Platform, i.Name, err)
	}
	i.files.files = names
	return nil
}

// Download invokes the module's download hook over [start, stop] and
// refreshes the file index. An instrument without download support emits a
// user-facing warning and returns nil: unsupported download is a contract
// to warn about, never an error.
func (i *Instrument) Download(start, stop time.Time, cred *Credential) error {
	if i.module.Download == nil {
		i.Warnf("Downloads are not supported for %s", i.module.ID())
		return nil
	}
	if err := i.module.Download(i, start, stop, cred); err != nil {
		return err
	}
	return i.RefreshFiles()
}

// Load invokes the module's load hook for the given date and replaces the
// probe's dataset with the result. Errors propagate untouched so callers
// can recognize the strict-time signature.
func (i *Instrument) Load(date time.Time) error {
	if i.module.Load == nil {
		return NewHookMissingError(i.Platform, i.Name, HookLoad)
	}
	data, err := i.module.Load(i, date)
	if err != nil {
		return err
	}
	i.data = data
	return nil
}

// HasRemoteFileList reports whether the module exposes the optional
// remote-listing hook.
func (i *Instrument) HasRemoteFileList() bool {
	return i.module.RemoteFileList != nil
}

// RemoteFileList lists remotely available files over [start, stop].
func (i *Instrument) RemoteFileList(start, stop time.Time) ([]string, error) {
	if i.module.RemoteFileList == nil {
		return nil, NewRemoteListUnsupportedError(i.Platform, i.Name)
	}
	return i.module.RemoteFileList(i, start, stop)
}
