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

// Package registry maps operation names to their handlers. The table is a
// closed, compile-time list: adding an operation means adding a typed
// params struct and a table row, not dropping a file into a directory.
package registry

import (
	"github.com/walteh/renamerc/pkg/config"
	"github.com/walteh/renamerc/pkg/engine"
)

// 📇 Handler is one registered operation.
type Handler struct {
	Name       string
	Summary    string
	ConfigKeys []string // resolved-config keys the operation consults
	New        func() Params
}

// 🔧 Params builds a validated engine request. Unset fields (nil pointers)
// draw their defaults from the resolved configuration field by field.
type Params interface {
	Request(eff *config.Effective) (engine.Request, error)
}

var table = []Handler{
	{
		Name:    "rename",
		Summary: "rename matched files by prefix/suffix, replace rule, or format template",
		ConfigKeys: []string{
			"backup_dir", "output_dir",
			"file_processing.default_dry_run", "file_processing.default_recursive",
			"file_processing.exclude_patterns", "file_processing.copy_instead_of_rename",
			"rename_config.default_prefix", "rename_config.default_suffix",
			"rename_config.auto_backup",
		},
		New: func() Params { return &RenameParams{} },
	},
	{
		Name:    "delete",
		Summary: "delete matched files",
		ConfigKeys: []string{
			"backup_dir",
			"file_processing.default_dry_run", "file_processing.default_recursive",
			"file_processing.exclude_patterns",
			"rename_config.auto_backup",
		},
		New: func() Params { return &DeleteParams{} },
	},
}

// Lookup returns the handler registered under name.
func Lookup(name string) (Handler, bool) {
	for _, h := range table {
		if h.Name == name {
			return h, true
		}
	}
	return Handler{}, false
}

// Handlers returns all registered handlers in registration order.
func Handlers() []Handler {
	out := make([]Handler, len(table))
	copy(out, table)
	return out
}

func orString(val *string, fallback string) string {
	if val != nil {
		return *val
	}
	return fallback
}

func orBool(val *bool, fallback bool) bool {
	if val != nil {
		return *val
	}
	return fallback
}
