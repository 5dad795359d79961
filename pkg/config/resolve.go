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

package config

import (
	"sort"
	"strings"
)

// 🎯 Effective is the single merged view of all configuration layers. Every
// recognized key has a value (the built-in layer is total), and each key
// remembers which layer supplied it.
type Effective struct {
	values     map[string]any
	provenance map[string]Source
}

// 🔀 Resolve merges layers key-by-key in precedence order: for each dotted
// key, the value from the highest-precedence layer that defines it wins
// (local > global > built-in). Resolution is a pure overlay; no value
// validation happens here.
func Resolve(layers ...Layer) *Effective {
	eff := &Effective{
		values:     make(map[string]any),
		provenance: make(map[string]Source),
	}
	for _, layer := range layers {
		flat := make(map[string]any)
		flatten("", layer.Values, flat)
		for key, val := range flat {
			eff.values[key] = val
			eff.provenance[key] = layer.Source
		}
	}
	return eff
}

// flatten rewrites nested maps into dotted keys. Leaf values (including
// lists) are kept as-is.
func flatten(prefix string, in map[string]any, out map[string]any) {
	for key, val := range in {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		switch nested := val.(type) {
		case map[string]any:
			flatten(full, nested, out)
		case map[any]any:
			converted := make(map[string]any, len(nested))
			for k, v := range nested {
				if ks, ok := k.(string); ok {
					converted[ks] = v
				}
			}
			flatten(full, converted, out)
		default:
			out[full] = val
		}
	}
}

// Keys returns all resolved keys in sorted order.
func (e *Effective) Keys() []string {
	keys := make([]string, 0, len(e.values))
	for key := range e.values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Provenance reports which layer supplied the value for key.
func (e *Effective) Provenance(key string) Source {
	return e.provenance[key]
}

// Get returns the raw value for a dotted key.
func (e *Effective) Get(key string) (any, bool) {
	val, ok := e.values[key]
	return val, ok
}

// String returns the value for key as a string, or fallback if the key is
// unset or not a string.
func (e *Effective) String(key, fallback string) string {
	if val, ok := e.values[key].(string); ok {
		return val
	}
	return fallback
}

// Bool returns the value for key as a bool, or fallback.
func (e *Effective) Bool(key string, fallback bool) bool {
	if val, ok := e.values[key].(bool); ok {
		return val
	}
	return fallback
}

// Int returns the value for key as an int, or fallback.
func (e *Effective) Int(key string, fallback int) int {
	switch val := e.values[key].(type) {
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		return int(val)
	default:
		return fallback
	}
}

// Strings returns the value for key as a string slice. Scalar string values
// are split on commas so "a,b" and ["a", "b"] are interchangeable.
func (e *Effective) Strings(key string) []string {
	switch val := e.values[key].(type) {
	case []any:
		var out []string
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return val
	case string:
		if val == "" {
			return nil
		}
		parts := strings.Split(val, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	default:
		return nil
	}
}

// Field-by-field accessors for the keys the operation handlers consult.

func (e *Effective) DefaultDryRun() bool { return e.Bool("file_processing.default_dry_run", false) }

func (e *Effective) DefaultRecursive() bool { return e.Bool("file_processing.default_recursive", true) }

func (e *Effective) ExcludePatterns() []string {
	return e.Strings("file_processing.exclude_patterns")
}

func (e *Effective) CopyInsteadOfRename() bool {
	return e.Bool("file_processing.copy_instead_of_rename", false)
}

func (e *Effective) AutoBackup() bool { return e.Bool("rename_config.auto_backup", true) }

func (e *Effective) DefaultPrefix() string { return e.String("rename_config.default_prefix", "") }

func (e *Effective) DefaultSuffix() string { return e.String("rename_config.default_suffix", "") }

func (e *Effective) BackupDir() string { return e.String("backup_dir", "./backup") }

func (e *Effective) OutputDir() string { return e.String("output_dir", "") }
