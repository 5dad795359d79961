// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config implements the three-layer configuration model: built-in
// defaults, a user-global .renamerc, and a per-directory .renamerc. Layers
// are plain key/value documents; the local layer wins over the global layer,
// which wins over the built-in defaults.
package config

import (
	"os"
	"path/filepath"

	"gitlab.com/tozd/go/errors"
)

// FileName is the config document name looked up in both locations
const FileName = ".renamerc"

// 🏷️ Source identifies which layer a value came from
type Source string

const (
	SourceBuiltin Source = "built-in"
	SourceGlobal  Source = "global"
	SourceLocal   Source = "local"
)

// ❗ ErrParse marks a config document that could not be parsed. Callers
// treat the layer as empty and warn; a broken file is never fatal.
var ErrParse = errors.New("config parse failure")

// 📦 Layer is one configuration source: a named mapping from option key to
// value, immutable once loaded. Values may nest (maps inside maps); nested
// keys are addressed with dots, e.g. "rename_config.auto_backup".
type Layer struct {
	Source Source
	Values map[string]any
}

// IsEmpty reports whether the layer defines no keys.
func (l Layer) IsEmpty() bool {
	return len(l.Values) == 0
}

// 🏭 Builtin returns the built-in layer. It defines every recognized key,
// which makes the resolved configuration total over the key set.
func Builtin() Layer {
	return Layer{
		Source: SourceBuiltin,
		Values: map[string]any{
			"project_name": "renamerc project",
			"version":      "0.1.0",
			"output_dir":   "",
			"temp_dir":     "./temp",
			"backup_dir":   "./backup",
			"log_level":    "info",
			"log_file":     "./logs/renamerc.log",
			"timeout":      30,
			"retry_count":  3,
			"debug":        false,
			"verbose":      false,
			"file_processing": map[string]any{
				"default_dry_run":        false,
				"default_recursive":      true,
				"exclude_patterns":       []any{".git", "__pycache__", ".DS_Store"},
				"supported_extensions":   []any{"*"},
				"copy_instead_of_rename": false,
			},
			"rename_config": map[string]any{
				"default_prefix":      "",
				"default_suffix":      "",
				"auto_backup":         true,
				"conflict_resolution": "timestamp",
				"date_format":         "20060102_150405",
				"preserve_original":   true,
			},
		},
	}
}

// GlobalPath returns the location of the user-global config document. An
// empty name means FileName.
func GlobalPath(name string) (string, error) {
	if name == "" {
		name = FileName
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, name), nil
}

// LocalPath returns the location of the per-directory config document. An
// empty name means FileName.
func LocalPath(dir, name string) string {
	if name == "" {
		name = FileName
	}
	return filepath.Join(dir, name)
}
