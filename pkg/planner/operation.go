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

// Package planner computes per-file transformation plans. An Operation is
// one of a closed set of variants: prefix/suffix, literal stem replacement,
// template formatting, or deletion. Conflicts between planned targets are
// resolved deterministically before a plan is returned.
package planner

import (
	"fmt"
	"strings"

	"gitlab.com/tozd/go/errors"
)

var (
	// ❗ ErrInvalidReplaceRule marks a replace rule that is not exactly
	// one non-empty "old=new" pair.
	ErrInvalidReplaceRule = errors.New("invalid replace rule")

	// ❗ ErrPathTooLong marks a resolved target that exceeded filesystem
	// name or path limits during conflict resolution.
	ErrPathTooLong = errors.New("path too long")
)

// 🏷️ Kind enumerates the operation variants.
type Kind int

const (
	KindPrefixSuffix Kind = iota
	KindReplace
	KindFormat
	KindDelete
)

func (k Kind) String() string {
	switch k {
	case KindPrefixSuffix:
		return "prefix_suffix"
	case KindReplace:
		return "replace"
	case KindFormat:
		return "format"
	case KindDelete:
		return "delete"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// 🔧 Operation is one validated transformation descriptor. Construct it
// through the variant constructors; invalid descriptors never exist.
type Operation struct {
	kind       Kind
	prefix     string
	suffix     string
	replaceOld string
	replaceNew string
	template   string
	outputDir  string
}

// NewPrefixSuffix builds the variant that renames to
// prefix + stem + suffix + extension. Either part may be empty, but the
// registry rejects the fully empty combination before it reaches here.
func NewPrefixSuffix(prefix, suffix string) Operation {
	return Operation{kind: KindPrefixSuffix, prefix: prefix, suffix: suffix}
}

// NewReplace builds the literal stem-replacement variant from a single
// "old=new" rule. The extension is never touched.
func NewReplace(rule string) (Operation, error) {
	if strings.Count(rule, "=") != 1 {
		return Operation{}, errors.Errorf("%w: %q must contain exactly one '='", ErrInvalidReplaceRule, rule)
	}
	old, new_, _ := strings.Cut(rule, "=")
	if old == "" {
		return Operation{}, errors.Errorf("%w: %q has an empty search side", ErrInvalidReplaceRule, rule)
	}
	return Operation{kind: KindReplace, replaceOld: old, replaceNew: new_}, nil
}

// NewFormat builds the template variant. The template expands to the full
// target file name; unknown placeholders stay as literal text.
func NewFormat(template string) Operation {
	return Operation{kind: KindFormat, template: template}
}

// NewDelete builds the deletion variant; planned targets are nil.
func NewDelete() Operation {
	return Operation{kind: KindDelete}
}

// WithOutputDir re-parents all planned targets into dir. Deletion ignores
// it. An empty dir keeps targets next to their sources.
func (op Operation) WithOutputDir(dir string) Operation {
	op.outputDir = dir
	return op
}

// Kind returns the operation variant.
func (op Operation) Kind() Kind { return op.kind }

// IsDelete reports whether the operation removes files instead of
// producing targets.
func (op Operation) IsDelete() bool { return op.kind == KindDelete }

// OutputDir returns the configured target directory, if any.
func (op Operation) OutputDir() string { return op.outputDir }
