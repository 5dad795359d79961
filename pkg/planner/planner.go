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

package planner

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/renamerc/pkg/matcher"
	"gitlab.com/tozd/go/errors"
)

// timestampLayout is shared by {datetime} expansion, conflict suffixes and
// backup names so one run stamps everything identically.
const timestampLayout = "20060102_150405"

const (
	maxNameBytes = 255
	maxPathBytes = 4096
)

// 📄 Entry is the planned transformation for one matched file. Target is
// empty for deletions. ConflictResolved is set when the raw target had to
// be suffixed to become unique.
type Entry struct {
	Source           string
	Target           string
	Kind             Kind
	ConflictResolved bool
}

// 📋 Plan is one entry per matched file, in MatchSet order. Within a plan
// no two entries share a non-empty Target.
type Plan []Entry

// 🧮 Compute builds the plan for a MatchSet. now is fixed by the caller for
// the whole invocation, which makes planning idempotent: the same set and
// the same timestamp always yield the same resolved targets, so a dry run
// previews exactly what the commit will do.
func Compute(ctx context.Context, set matcher.MatchSet, op Operation, now time.Time) (Plan, error) {
	plan := make(Plan, 0, len(set))

	for i, source := range set {
		target, err := rawTarget(source, i+1, op, now)
		if err != nil {
			return nil, err
		}
		plan = append(plan, Entry{Source: source, Target: target, Kind: op.Kind()})
	}

	if !op.IsDelete() {
		if err := resolveConflicts(ctx, plan, set, now); err != nil {
			return nil, err
		}
	}

	return plan, nil
}

// rawTarget computes the pre-conflict target path for one file.
func rawTarget(source string, index int, op Operation, now time.Time) (string, error) {
	if op.IsDelete() {
		return "", nil
	}

	name := filepath.Base(source)
	stem, ext := splitStem(name)

	var newName string
	switch op.kind {
	case KindPrefixSuffix:
		newName = op.prefix + stem + op.suffix + ext
	case KindReplace:
		newName = strings.ReplaceAll(stem, op.replaceOld, op.replaceNew) + ext
	case KindFormat:
		newName = expandTemplate(op.template, templateVars{
			name:  name,
			stem:  stem,
			ext:   ext,
			index: index,
			now:   now,
		})
	default:
		return "", errors.Errorf("unhandled operation kind %s", op.kind)
	}

	dir := filepath.Dir(source)
	if op.outputDir != "" {
		dir = op.outputDir
	}
	return filepath.Join(dir, newName), nil
}

// resolveConflicts rewrites colliding targets in place. A target collides
// when an earlier entry already claimed it, or when a filesystem entry
// occupies it that the batch will not have vacated by the time this entry
// applies. Entries are processed in MatchSet order, so resolution is
// deterministic; the colliding name gets a _<timestamp> segment before the
// extension, re-checked until unique.
func resolveConflicts(ctx context.Context, plan Plan, set matcher.MatchSet, now time.Time) error {
	claimed := make(map[string]struct{}, len(plan))
	stamp := now.Format(timestampLayout)

	for i := range plan {
		entry := &plan[i]
		target := entry.Target

		for collides(target, entry.Source, claimed, plan, i, set) {
			stem, ext := splitStem(filepath.Base(target))
			renamed := stem + "_" + stamp + ext

			if len(renamed) > maxNameBytes {
				return errors.Errorf("%w: %q", ErrPathTooLong, renamed)
			}
			target = filepath.Join(filepath.Dir(target), renamed)
			if len(target) > maxPathBytes {
				return errors.Errorf("%w: %q", ErrPathTooLong, target)
			}
		}

		if target != entry.Target {
			zerolog.Ctx(ctx).Debug().
				Str("source", entry.Source).
				Str("target", target).
				Msg("target conflict resolved")
			entry.Target = target
			entry.ConflictResolved = true
		}
		claimed[target] = struct{}{}
	}
	return nil
}

// collides reports whether the entry at index may not use target. The apply
// loop runs in plan order, one file at a time, so a slot held by another
// MatchSet member counts as free only when an earlier entry renames that
// member away; a later or in-place member still occupies its slot when this
// entry applies, and landing on it would overwrite an unprocessed file.
func collides(target, source string, claimed map[string]struct{}, plan Plan, index int, set matcher.MatchSet) bool {
	if _, taken := claimed[target]; taken {
		return true
	}
	if target == source {
		// Renaming a file to its own name is a no-op, not a conflict.
		return false
	}
	if j := set.Index(target); j >= 0 {
		vacated := j < index && plan[j].Target != plan[j].Source
		return !vacated
	}
	_, err := os.Lstat(target)
	return err == nil
}
