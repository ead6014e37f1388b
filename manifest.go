// manifest.go: Declarative instrument module manifests (JSON/YAML)
//
// Manifests let instrument packages declare their metadata and test-date
// tables in a file instead of code. A manifest yields a hook-less Module;
// callers attach the lifecycle hooks before registering it. Format is
// detected from the file extension.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package goinsttest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ModuleManifest is the declarative form of a module's metadata.
//
// Example YAML manifest:
//
//	platform: insttest
//	name: daily
//	tags:
//	  "": "clean synthetic daily dataset"
//	inst_ids:
//	  "": [""]
//	acknowledgements: "Synthetic data provided by the insttest platform."
//	references: "insttest reference handbook"
//	test_dates:
//	  "":
//	    "": 2009-01-01T00:00:00Z
//	test_flags:
//	  test_download: true
//	  test_download_ci: true
type ModuleManifest struct {
	Platform         string                          `json:"platform" yaml:"platform"`
	Name             string                          `json:"name" yaml:"name"`
	Tags             map[string]string               `json:"tags" yaml:"tags"`
	InstIDs          map[string][]string             `json:"inst_ids" yaml:"inst_ids"`
	Acknowledgements string                          `json:"acknowledgements" yaml:"acknowledgements"`
	References       string                          `json:"references" yaml:"references"`
	TestDates        map[string]map[string]time.Time `json:"test_dates,omitempty" yaml:"test_dates,omitempty"`
	TestFlags        *TestFlags                      `json:"test_flags,omitempty" yaml:"test_flags,omitempty"`
}

// LoadModuleManifest reads and parses a manifest file. Supported formats
// are JSON (.json) and YAML (.yaml, .yml).
func LoadModuleManifest(path string) (*ModuleManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewManifestReadError(path, err)
	}

	var manifest ModuleManifest
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &manifest)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &manifest)
	default:
		// Try JSON first, then YAML, mirroring how permissive manifest
		// loaders behave for extensionless files.
		if err = json.Unmarshal(data, &manifest); err != nil {
			err = yaml.Unmarshal(data, &manifest)
		}
	}
	if err != nil {
		return nil, NewManifestParseError(path, err)
	}
	return &manifest, nil
}

// Module converts the manifest into a hook-less module descriptor. The
// declared flat test flags, when present, apply to every combination.
func (m *ModuleManifest) Module() *Module {
	mod := &Module{
		Platform:         m.Platform,
		Name:             m.Name,
		Tags:             m.Tags,
		InstIDs:          m.InstIDs,
		Acknowledgements: m.Acknowledgements,
		References:       m.References,
	}
	if m.TestDates != nil {
		mod.TestDates = DateTable(m.TestDates)
	}
	if m.TestFlags != nil {
		flags := *m.TestFlags
		mod.Flags = func(string, string) TestFlags { return flags }
	}
	return mod
}

// ManifestLoader returns a ModuleLoader that reads the manifest at path
// and optionally completes the resulting module with hooks. complete may
// be nil for metadata-only modules.
func ManifestLoader(path string, complete func(*Module)) ModuleLoader {
	return func() (*Module, error) {
		manifest, err := LoadModuleManifest(path)
		if err != nil {
			return nil, err
		}
		mod := manifest.Module()
		if complete != nil {
			complete(mod)
		}
		return mod, nil
	}
}
