// errors.go: structured error definitions for the go-insttest harness
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package goinsttest

import (
	stderrors "errors"
	"strings"

	"github.com/agilira/go-errors"
)

// Error codes for the go-insttest harness
const (
	// Registry errors (1000-1099)
	ErrCodeInvalidModuleName = "INST_1001"
	ErrCodeDuplicateModule   = "INST_1002"
	ErrCodeModuleNotFound    = "INST_1003"
	ErrCodeModuleImport      = "INST_1004"

	// Instrument construction errors (1100-1199)
	ErrCodeInvalidCombination = "INST_1101"
	ErrCodeInitHookFailed     = "INST_1102"
	ErrCodeHookMissing        = "INST_1103"

	// Discovery and initializer errors (1200-1299)
	ErrCodeTestDateMissing = "INST_1201"

	// Lifecycle errors (1300-1399)
	ErrCodeStrictTimeViolation = "INST_1301"
	ErrCodeRemoteListUnsupport = "INST_1302"
	ErrCodeFileIndexRefresh    = "INST_1303"

	// Params and configuration errors (1400-1499)
	ErrCodeParamsFile    = "INST_1401"
	ErrCodeParamsWatcher = "INST_1402"

	// Manifest errors (1500-1599)
	ErrCodeManifestRead  = "INST_1501"
	ErrCodeManifestParse = "INST_1502"

	// Cleanup errors (1600-1699)
	ErrCodeCleanupFailed = "INST_1601"
)

// strictTimeMarker is the message fragment identifying the recognized
// strict-time ordering violation raised by instrument load hooks. The
// lifecycle suite recovers from exactly this error signature and no other.
const strictTimeMarker = "Loaded data"

// Registry error constructors

func NewInvalidModuleNameError(name string) *errors.Error {
	return errors.New(ErrCodeInvalidModuleName, "Invalid module name").
		WithUserMessage("Module name is required and cannot be empty").
		WithContext("provided_name", name).
		WithSeverity("error")
}

func NewDuplicateModuleError(name string) *errors.Error {
	return errors.New(ErrCodeDuplicateModule, "Duplicate module name").
		WithUserMessage("A module with this name is already registered").
		WithContext("module", name).
		WithSeverity("error")
}

func NewModuleNotFoundError(name string) *errors.Error {
	return errors.New(ErrCodeModuleNotFound, "Module not found").
		WithUserMessage("No module with this name is registered").
		WithContext("module", name).
		WithSeverity("error")
}

func NewModuleImportError(name string, cause error) *errors.Error {
	if cause != nil {
		return errors.Wrap(cause, ErrCodeModuleImport, "Module import failed").
			WithUserMessage("The module loader returned an error").
			WithContext("module", name).
			WithSeverity("error")
	}
	return errors.New(ErrCodeModuleImport, "Module import failed").
		WithUserMessage("A module loader is required and cannot be nil").
		WithContext("module", name).
		WithSeverity("error")
}

// Instrument error constructors

func NewInvalidCombinationError(platform, name, instID, tag string) *errors.Error {
	return errors.New(ErrCodeInvalidCombination, "Invalid inst-id/tag combination").
		WithUserMessage("The module does not declare this inst-id/tag combination").
		WithContext("platform", platform).
		WithContext("name", name).
		WithContext("inst_id", instID).
		WithContext("tag", tag).
		WithSeverity("error")
}

func NewInitHookError(platform, name string, cause error) *errors.Error {
	return errors.Wrap(cause, ErrCodeInitHookFailed, "Instrument default hook failed").
		WithUserMessage("The module's default hook returned an error during instantiation").
		WithContext("platform", platform).
		WithContext("name", name).
		WithSeverity("error")
}

// NewHookMissingError reports an attempt to exercise a contract hook the
// module does not provide.
func NewHookMissingError(platform, name, hook string) *errors.Error {
	return errors.New(ErrCodeHookMissing, "Required hook missing").
		WithUserMessage("The module does not provide this contract hook").
		WithContext("platform", platform).
		WithContext("name", name).
		WithContext("hook", hook).
		WithSeverity("error")
}

// NewTestDateMissingError reports an initializer/discovery inconsistency: a
// classified combination has no entry in its module's test-date table.
// This is a defect in the module under test, never a skip condition.
func NewTestDateMissingError(platform, name, instID, tag string) *errors.Error {
	return errors.New(ErrCodeTestDateMissing, "Test date missing").
		WithUserMessage("No test date declared for this inst-id/tag combination").
		WithContext("platform", platform).
		WithContext("name", name).
		WithContext("inst_id", instID).
		WithContext("tag", tag).
		WithSeverity("error")
}

// NewStrictTimeError constructs the recognized strict-time ordering
// violation. Instrument frameworks raise it when loaded records fall out of
// time order while strict-time validation is enabled; the message carries
// the marker the lifecycle suite keys its recovery on.
func NewStrictTimeError(platform, name string) *errors.Error {
	return errors.New(ErrCodeStrictTimeViolation, strictTimeMarker+" is out of time order").
		WithUserMessage("Loaded data failed strict time-ordering validation").
		WithContext("platform", platform).
		WithContext("name", name).
		WithSeverity("warning")
}

func NewRemoteListUnsupportedError(platform, name string) *errors.Error {
	return errors.New(ErrCodeRemoteListUnsupport, "Remote file listing not supported").
		WithUserMessage("The module does not expose a remote-file-listing hook").
		WithContext("platform", platform).
		WithContext("name", name).
		WithSeverity("error")
}

func NewFileIndexRefreshError(platform, name string, cause error) *errors.Error {
	return errors.Wrap(cause, ErrCodeFileIndexRefresh, "File index refresh failed").
		WithUserMessage("The module's list_files hook returned an error").
		WithContext("platform", platform).
		WithContext("name", name).
		WithSeverity("error")
}

// Params error constructors

func NewParamsFileError(path string, cause error) *errors.Error {
	return errors.Wrap(cause, ErrCodeParamsFile, "Params file error").
		WithUserMessage("The params file could not be read or written").
		WithContext("path", path).
		WithSeverity("error")
}

func NewParamsWatcherError(path string, cause error) *errors.Error {
	return errors.Wrap(cause, ErrCodeParamsWatcher, "Params watcher error").
		WithUserMessage("The params file watcher could not be started").
		WithContext("path", path).
		WithSeverity("error")
}

// Manifest error constructors

func NewManifestReadError(path string, cause error) *errors.Error {
	return errors.Wrap(cause, ErrCodeManifestRead, "Manifest read failed").
		WithUserMessage("The manifest file could not be read").
		WithContext("path", path).
		WithSeverity("error")
}

func NewManifestParseError(path string, cause error) *errors.Error {
	return errors.Wrap(cause, ErrCodeManifestParse, "Manifest parse failed").
		WithUserMessage("The manifest file is not valid JSON or YAML").
		WithContext("path", path).
		WithSeverity("error")
}

func NewCleanupError(path string, cause error) *errors.Error {
	return errors.Wrap(cause, ErrCodeCleanupFailed, "Cleanup failed").
		WithUserMessage("A tracked test artifact could not be removed").
		WithContext("path", path).
		WithSeverity("error")
}

// IsStrictTimeError reports whether err carries the recognized strict-time
// ordering violation signature. The check is by message content rather than
// error code because instrument frameworks outside this package raise their
// own error values; the message marker is the stable part of the contract.
func IsStrictTimeError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), strictTimeMarker)
}

// IsTestDateMissing reports whether err is the initializer's
// missing-test-date defect error.
func IsTestDateMissing(err error) bool {
	var e *errors.Error
	if stderrors.As(err, &e) {
		return e.Code == ErrCodeTestDateMissing
	}
	return false
}

// IsModuleNotFound reports whether err is the registry's unknown-module
// error.
func IsModuleNotFound(err error) bool {
	var e *errors.Error
	if stderrors.As(err, &e) {
		return e.Code == ErrCodeModuleNotFound
	}
	return false
}
