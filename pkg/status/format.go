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

// Package status renders batch progress for humans: aligned per-file lines
// plus pterm change feedback, mirrored into zerolog for debugging. It is
// the default Reporter wired into the engine by the CLI.
package status

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/walteh/renamerc/pkg/engine"
	"github.com/walteh/renamerc/pkg/planner"
)

// 🎨 Display configuration
const (
	fileIndent = 4  // spaces to indent file entries
	nameWidth  = 35 // base width for the source name
)

// FileFormatter defines how per-file outcomes and failures are rendered.
type FileFormatter interface {
	FormatOutcome(outcome engine.FileOutcome, kind planner.Kind, conflictResolved, dryRun bool) string
	FormatFailure(failure engine.FileError) string
}

// DefaultFileFormatter renders aligned, symbol-prefixed lines.
type DefaultFileFormatter struct{}

// NewDefaultFileFormatter creates a DefaultFileFormatter.
func NewDefaultFileFormatter() *DefaultFileFormatter {
	return &DefaultFileFormatter{}
}

// FormatOutcome formats one applied or previewed entry.
func (f *DefaultFileFormatter) FormatOutcome(outcome engine.FileOutcome, kind planner.Kind, conflictResolved, dryRun bool) string {
	var symbol rune
	var symbolColor color.Attribute
	switch {
	case dryRun:
		symbol = '»'
		symbolColor = color.FgYellow
	case kind == planner.KindDelete:
		symbol = '✗'
		symbolColor = color.FgRed
	case conflictResolved:
		symbol = '⟳'
		symbolColor = color.FgBlue
	default:
		symbol = '✓'
		symbolColor = color.FgGreen
	}

	source := filepath.Base(outcome.Source)
	line := fmt.Sprintf("%s%s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, source))

	if kind == planner.KindDelete {
		line += color.New(color.Faint).Sprint("deleted")
	} else {
		line += fmt.Sprintf("%s %s",
			color.New(color.Faint).Sprint("->"),
			color.New(color.FgCyan).Sprint(filepath.Base(outcome.Target)))
	}
	if outcome.BackedUp {
		line += color.New(color.Faint).Sprint("  [backed up]")
	}
	if conflictResolved {
		line += color.New(color.FgBlue).Sprint("  [conflict resolved]")
	}
	return line
}

// FormatFailure formats one skipped file.
func (f *DefaultFileFormatter) FormatFailure(failure engine.FileError) string {
	return fmt.Sprintf("%s%s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(color.FgRed).Sprint("!"),
		fmt.Sprintf("%-*s", nameWidth, filepath.Base(failure.Source)),
		color.New(color.FgRed).Sprint(failure.Reason))
}
