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

// Package engine orchestrates the match → plan → backup → apply pipeline.
// A batch runs sequentially in MatchSet order; per-file failures are
// recorded and skipped so independent work always completes, and dry-run
// produces the full plan without a single filesystem write.
package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/renamerc/pkg/backup"
	"github.com/walteh/renamerc/pkg/matcher"
	"github.com/walteh/renamerc/pkg/planner"
	"gitlab.com/tozd/go/errors"
)

// ❗ ErrFilesystem marks a rename/copy/delete failure on one file:
// permission denied, file vanished between match and apply, target in use.
var ErrFilesystem = errors.New("filesystem operation failure")

// 📢 Reporter receives progress events for one invocation. It is injected
// at call time and scoped to that invocation; the engine has no global
// output state.
type Reporter interface {
	BatchStarted(kind planner.Kind, total int, dryRun bool)
	FileDone(outcome FileOutcome, kind planner.Kind, conflictResolved, dryRun bool)
	FileFailed(failure FileError)
	BatchFinished(result *Result)
}

// 🙊 NopReporter discards all events.
type NopReporter struct{}

func (NopReporter) BatchStarted(planner.Kind, int, bool)           {}
func (NopReporter) FileDone(FileOutcome, planner.Kind, bool, bool) {}
func (NopReporter) FileFailed(FileError)                           {}
func (NopReporter) BatchFinished(*Result)                          {}

// 🔧 Request carries the already-validated parameters of one batch.
type Request struct {
	Root                string
	Pattern             string
	Excludes            []string
	Recursive           bool
	Operation           planner.Operation
	Backup              bool
	BackupDir           string
	DryRun              bool
	CopyInsteadOfRename bool
}

// ⚙️ Options configures an Engine.
type Options struct {
	Reporter Reporter         // nil means NopReporter
	Now      func() time.Time // nil means time.Now; fixed per invocation
}

// 🎮 Engine runs batches. One Engine may serve many invocations; each
// invocation reads the filesystem fresh and shares no mutable state.
type Engine struct {
	reporter Reporter
	now      func() time.Time
}

// 🏭 New creates an Engine.
func New(opts Options) *Engine {
	if opts.Reporter == nil {
		opts.Reporter = NopReporter{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Engine{reporter: opts.Reporter, now: opts.Now}
}

// 🏃 Execute runs one batch to completion. Pattern and rule validation
// failures abort before any file is touched; per-file failures land in
// ErrorDetails and the batch carries on. The timestamp is sampled once so
// planning, conflict suffixes and backup names all agree.
func (e *Engine) Execute(ctx context.Context, req Request) (*Result, error) {
	logger := zerolog.Ctx(ctx)
	now := e.now()

	set, err := matcher.Match(ctx, req.Root, req.Pattern, req.Excludes, req.Recursive)
	if err != nil {
		return nil, err
	}

	plan, err := planner.Compute(ctx, set, req.Operation, now)
	if err != nil {
		return nil, err
	}

	result := &Result{TotalFiles: len(plan), DryRun: req.DryRun}
	e.reporter.BatchStarted(req.Operation.Kind(), len(plan), req.DryRun)

	if len(plan) == 0 {
		result.Success = true
		result.Message = fmt.Sprintf("no files matched pattern %q", req.Pattern)
		e.reporter.BatchFinished(result)
		return result, nil
	}

	if req.DryRun {
		e.preview(plan, result)
		e.reporter.BatchFinished(result)
		return result, nil
	}

	backups := backup.New(req.BackupDir)
	for _, entry := range plan {
		outcome, err := e.apply(ctx, entry, req, backups, now)
		if err != nil {
			failure := FileError{Source: entry.Source, Reason: err.Error()}
			result.ErrorDetails = append(result.ErrorDetails, failure)
			e.reporter.FileFailed(failure)
			logger.Warn().Err(err).Str("source", entry.Source).Msg("file skipped")
			continue
		}
		result.Details = append(result.Details, outcome)
		e.reporter.FileDone(outcome, entry.Kind, entry.ConflictResolved, false)
	}

	result.ProcessedFiles = len(result.Details)
	result.Errors = len(result.ErrorDetails)
	result.Success = result.Errors == 0
	result.Message = fmt.Sprintf("processed %d of %d file(s), %d error(s)",
		result.ProcessedFiles, result.TotalFiles, result.Errors)

	e.reporter.BatchFinished(result)
	return result, nil
}

// preview fills the result straight from the plan. No backups, no writes,
// no backup directory: dry-run is side-effect-free by contract.
func (e *Engine) preview(plan planner.Plan, result *Result) {
	for _, entry := range plan {
		outcome := FileOutcome{Source: entry.Source, Target: entry.Target, BackedUp: false}
		result.Details = append(result.Details, outcome)
		e.reporter.FileDone(outcome, entry.Kind, entry.ConflictResolved, true)
	}
	result.ProcessedFiles = len(result.Details)
	result.Success = true
	result.Message = fmt.Sprintf("preview: %d file(s) would be processed", result.ProcessedFiles)
}

// apply executes one entry: optional backup first, then the mutation. A
// backup failure aborts this file only, leaving it untouched.
func (e *Engine) apply(ctx context.Context, entry planner.Entry, req Request, backups *backup.Manager, now time.Time) (FileOutcome, error) {
	outcome := FileOutcome{Source: entry.Source, Target: entry.Target}

	if req.Backup {
		record, err := backups.Backup(entry.Source, now)
		if err != nil {
			return outcome, err
		}
		outcome.BackedUp = true
		zerolog.Ctx(ctx).Debug().
			Str("source", entry.Source).
			Str("backup", record.BackupPath).
			Msg("backup created")
	}

	if entry.Kind == planner.KindDelete {
		if err := os.Remove(entry.Source); err != nil {
			return outcome, errors.Errorf("%w: deleting %s: %w", ErrFilesystem, entry.Source, err)
		}
		return outcome, nil
	}

	if entry.Target == entry.Source {
		// Nothing to move; still counts as processed.
		return outcome, nil
	}

	if dir := filepath.Dir(entry.Target); dir != filepath.Dir(entry.Source) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return outcome, errors.Errorf("%w: creating %s: %w", ErrFilesystem, dir, err)
		}
	}

	if req.CopyInsteadOfRename {
		if err := copyFile(entry.Source, entry.Target); err != nil {
			return outcome, err
		}
		return outcome, nil
	}

	if err := os.Rename(entry.Source, entry.Target); err != nil {
		return outcome, errors.Errorf("%w: renaming %s: %w", ErrFilesystem, entry.Source, err)
	}
	return outcome, nil
}

func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return errors.Errorf("%w: opening %s: %w", ErrFilesystem, src, err)
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		return errors.Errorf("%w: creating %s: %w", ErrFilesystem, dst, err)
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		_ = os.Remove(dst)
		return errors.Errorf("%w: copying to %s: %w", ErrFilesystem, dst, err)
	}

	if info, err := os.Stat(src); err == nil {
		_ = os.Chmod(dst, info.Mode())
	}
	return nil
}
