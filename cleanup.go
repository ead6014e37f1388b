// cleanup.go: Guarded removal of test-run download artifacts
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package goinsttest

import (
	"os"
	"path/filepath"
	"strings"
)

// cleanupFileLimit is the safety threshold: an index tracking this many
// files or more is assumed to point at a non-test directory and is left
// untouched.
const cleanupFileLimit = 20

// CleanupFiles removes the files tracked by the instrument's index from
// its data path.
//
// Safety invariant: deletion only proceeds when fewer than
// cleanupFileLimit files are tracked; otherwise a user-facing warning is
// emitted and nothing is removed. Tracked names produced by daily
// synthetic data sources carry an underscore-delimited suffix after the
// extension separator; the suffix is stripped to recover the on-disk name.
// Files already absent are not errors.
func CleanupFiles(inst *Instrument) error {
	files := inst.Files().Files()
	if len(files) >= cleanupFileLimit {
		inst.Warnf("Files >= %d. Not deleted. Please check to ensure temp directory is used", cleanupFileLimit)
		return nil
	}

	dataPath := inst.Files().DataPath()
	for _, name := range files {
		path := filepath.Join(dataPath, stripFileSuffix(name))
		if err := os.Remove(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return NewCleanupError(path, err)
		}
	}
	return nil
}

// stripFileSuffix trims a trailing underscore-delimited suffix occurring
// after the last extension separator: "data_20200101.cdf_0" becomes
// "data_20200101.cdf". Names without such a suffix are returned unchanged.
func stripFileSuffix(name string) string {
	if idx := strings.LastIndex(name, "_"); idx > strings.LastIndex(name, ".") {
		return name[:idx]
	}
	return name
}
