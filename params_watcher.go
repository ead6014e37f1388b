// params_watcher.go: Hot reload of the params file via Argus
//
// Long-running test orchestrators can point several harness processes at
// one shared settings file; the watcher keeps the in-memory Params in sync
// when the file changes on disk.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package goinsttest

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/agilira/argus"
)

// ParamsWatcherOptions customizes watcher behavior.
type ParamsWatcherOptions struct {
	// PollInterval controls how often the settings file is checked.
	// Defaults to 10 seconds; settings change rarely.
	PollInterval time.Duration

	// CacheTTL bounds stat caching inside Argus. Defaults to half the
	// poll interval.
	CacheTTL time.Duration

	// ErrorHandler receives file-watching errors. Defaults to logging
	// through the watcher's logger.
	ErrorHandler func(err error, path string)
}

// DefaultParamsWatcherOptions returns the default watcher options.
func DefaultParamsWatcherOptions() ParamsWatcherOptions {
	return ParamsWatcherOptions{
		PollInterval: 10 * time.Second,
		CacheTTL:     5 * time.Second,
	}
}

// ParamsWatcher watches the params settings file and reloads it on change.
type ParamsWatcher struct {
	params  *Params
	logger  Logger
	watcher *argus.Watcher
	options ParamsWatcherOptions

	enabled  atomic.Bool
	stopped  atomic.Bool
	stopOnce sync.Once
	mutex    sync.Mutex
}

// NewParamsWatcher creates a watcher over the given params object. The
// watcher is inert until Start is called.
func NewParamsWatcher(params *Params, options ParamsWatcherOptions, logger any) *ParamsWatcher {
	internalLogger := NewLogger(logger)

	pw := &ParamsWatcher{
		params:  params,
		logger:  internalLogger,
		options: options,
	}

	pw.watcher = argus.New(argus.Config{
		PollInterval:         options.PollInterval,
		CacheTTL:             options.CacheTTL,
		MaxWatchedFiles:      1, // Single settings file
		OptimizationStrategy: argus.OptimizationSingleEvent,
		ErrorHandler: func(err error, path string) {
			if options.ErrorHandler != nil {
				options.ErrorHandler(err, path)
			} else {
				internalLogger.Error("Params file watching error", "error", err, "file", path)
			}
		},
	})

	return pw
}

// Start begins watching the settings file. The current file content is
// loaded first so the watcher never runs against stale state.
func (pw *ParamsWatcher) Start(ctx context.Context) error {
	if pw.stopped.Load() {
		return fmt.Errorf("params watcher has been permanently stopped and cannot be restarted")
	}

	pw.mutex.Lock()
	defer pw.mutex.Unlock()

	if !pw.enabled.CompareAndSwap(false, true) {
		return fmt.Errorf("params watcher is already running")
	}

	if err := pw.params.reload(); err != nil {
		pw.enabled.Store(false)
		return NewParamsWatcherError(pw.params.Path(), err)
	}

	if err := pw.watcher.Watch(pw.params.Path(), pw.handleChange); err != nil {
		pw.enabled.Store(false)
		return NewParamsWatcherError(pw.params.Path(), err)
	}

	if err := pw.watcher.Start(); err != nil {
		pw.enabled.Store(false)
		return NewParamsWatcherError(pw.params.Path(), err)
	}

	pw.logger.Info("Params watcher started",
		"path", pw.params.Path(),
		"poll_interval", pw.options.PollInterval)

	_ = ctx // Reserved for future cancellation propagation into Argus
	return nil
}

// Stop permanently stops the watcher. Safe to call multiple times.
func (pw *ParamsWatcher) Stop() error {
	var stopErr error
	pw.stopOnce.Do(func() {
		pw.mutex.Lock()
		defer pw.mutex.Unlock()

		pw.stopped.Store(true)
		pw.enabled.Store(false)

		if err := pw.watcher.Stop(); err != nil {
			stopErr = NewParamsWatcherError(pw.params.Path(), err)
		}
		pw.logger.Info("Params watcher stopped", "path", pw.params.Path())
	})
	return stopErr
}

// handleChange reloads the params file on modification events. Deletion is
// logged and skipped: in-memory settings remain authoritative until the
// file reappears.
func (pw *ParamsWatcher) handleChange(event argus.ChangeEvent) {
	if !pw.enabled.Load() {
		return
	}

	pw.logger.Debug("Params file change detected",
		"path", event.Path,
		"is_create", event.IsCreate,
		"is_delete", event.IsDelete,
		"is_modify", event.IsModify)

	if event.IsDelete {
		pw.logger.Warn("Params file was deleted, keeping current settings", "path", event.Path)
		return
	}

	if err := pw.params.reload(); err != nil {
		pw.logger.Error("Failed to reload params file", "error", err, "path", event.Path)
		return
	}

	pw.logger.Info("Params reloaded", "path", event.Path, "data_dir", pw.params.DataDir())
}
