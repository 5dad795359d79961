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

// Package matcher selects the candidate files for a batch operation. A
// query is a shell-glob include pattern (with {a,b} alternation), a set of
// exclude patterns, and a recursion flag; the result is a deterministic,
// sorted list of absolute file paths.
package matcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ❗ ErrInvalidPattern marks a malformed glob. It aborts the batch before
// any file is touched.
var ErrInvalidPattern = errors.New("invalid pattern")

// 📋 MatchSet is the ordered set of matched absolute paths. Ordering is
// lexicographic so {index} template variables are reproducible between a
// dry run and the commit that follows it.
type MatchSet []string

// Index returns the position of path in the set, or -1 when absent.
func (m MatchSet) Index(path string) int {
	i := sort.SearchStrings(m, path)
	if i < len(m) && m[i] == path {
		return i
	}
	return -1
}

// Has reports whether path is part of the set.
func (m MatchSet) Has(path string) bool {
	return m.Index(path) >= 0
}

// 🔍 Match resolves the query against the directory tree rooted at root.
// The include pattern is evaluated first; a file is then dropped if any
// exclude pattern matches it. Patterns without a path separator are matched
// against base names, patterns with one against the path relative to root.
// Directories whose base name matches an exclude pattern are pruned whole.
func Match(ctx context.Context, root, pattern string, excludes []string, recursive bool) (MatchSet, error) {
	if pattern == "" {
		pattern = "*"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, errors.Errorf("%w: %q", ErrInvalidPattern, pattern)
	}
	for _, exclude := range excludes {
		if !doublestar.ValidatePattern(exclude) {
			return nil, errors.Errorf("%w: exclude %q", ErrInvalidPattern, exclude)
		}
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Errorf("resolving root %s: %w", root, err)
	}

	var set MatchSet
	if recursive {
		set, err = walkMatches(absRoot, pattern, excludes)
	} else {
		set, err = listMatches(absRoot, pattern, excludes)
	}
	if err != nil {
		return nil, err
	}

	// Traversal is depth-first, but plan order must not depend on it.
	sort.Strings(set)

	zerolog.Ctx(ctx).Debug().
		Str("root", absRoot).
		Str("pattern", pattern).
		Int("matches", len(set)).
		Msg("matched files")

	return set, nil
}

// SplitExcludes turns the comma-separated exclude option into a pattern
// list, dropping empty segments.
func SplitExcludes(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func walkMatches(root, pattern string, excludes []string) (MatchSet, error) {
	var set MatchSet

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if os.IsPermission(err) {
				return nil
			}
			return errors.Errorf("walking %s: %w", path, err)
		}

		if entry.IsDir() {
			if path != root && matchesAny(excludes, root, path) {
				return filepath.SkipDir
			}
			return nil
		}
		if !entry.Type().IsRegular() {
			return nil
		}

		ok, err := matches(pattern, root, path)
		if err != nil {
			return err
		}
		if ok && !matchesAny(excludes, root, path) {
			set = append(set, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

func listMatches(root, pattern string, excludes []string) (MatchSet, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, errors.Errorf("reading directory %s: %w", root, err)
	}

	var set MatchSet
	for _, entry := range entries {
		if entry.IsDir() || !entry.Type().IsRegular() {
			continue
		}
		path := filepath.Join(root, entry.Name())
		ok, err := matches(pattern, root, path)
		if err != nil {
			return nil, err
		}
		if ok && !matchesAny(excludes, root, path) {
			set = append(set, path)
		}
	}
	return set, nil
}

// matches evaluates one pattern against one path. Base-name patterns apply
// at any depth; patterns containing a separator apply to the slash-relative
// path under root.
func matches(pattern, root, path string) (bool, error) {
	var subject string
	if strings.ContainsRune(pattern, '/') {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return false, errors.Errorf("relativizing %s: %w", path, err)
		}
		subject = filepath.ToSlash(rel)
	} else {
		subject = filepath.Base(path)
	}

	ok, err := doublestar.Match(pattern, subject)
	if err != nil {
		return false, errors.Errorf("%w: %q", ErrInvalidPattern, pattern)
	}
	return ok, nil
}

func matchesAny(patterns []string, root, path string) bool {
	for _, pattern := range patterns {
		if ok, err := matches(pattern, root, path); err == nil && ok {
			return true
		}
	}
	return false
}
