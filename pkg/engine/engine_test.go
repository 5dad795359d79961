package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/renamerc/pkg/matcher"
	"github.com/walteh/renamerc/pkg/planner"
)

var batchTime = time.Date(2025, 6, 1, 12, 30, 45, 0, time.UTC)

func newTestEngine() *Engine {
	return New(Options{Now: func() time.Time { return batchTime }})
}

func seed(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("content of "+name), 0o644), "fixture %s", name)
	}
}

func listNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names
}

func TestExecutePrefixWithBackup(t *testing.T) {
	dir := t.TempDir()
	seed(t, dir, "a.txt", "b.txt")
	backupDir := filepath.Join(dir, "backup")

	result, err := newTestEngine().Execute(context.Background(), Request{
		Root:      dir,
		Pattern:   "*.txt",
		Recursive: true,
		Operation: planner.NewPrefixSuffix("new_", ""),
		Backup:    true,
		BackupDir: backupDir,
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 2, result.TotalFiles)
	assert.Equal(t, 2, result.ProcessedFiles)
	assert.Zero(t, result.Errors)
	assert.False(t, result.DryRun)

	assert.ElementsMatch(t, []string{"new_a.txt", "new_b.txt"}, listNames(t, dir), "originals renamed in place")
	assert.Len(t, listNames(t, backupDir), 2, "one backup per renamed file")

	for _, outcome := range result.Details {
		assert.True(t, outcome.BackedUp)
	}

	// Backups preserve the original bytes.
	saved, err := os.ReadFile(filepath.Join(backupDir, "a_backup_20250601_123045.txt"))
	require.NoError(t, err)
	assert.Equal(t, "content of a.txt", string(saved))
}

func TestExecuteDryRunWritesNothing(t *testing.T) {
	dir := t.TempDir()
	seed(t, dir, "a.txt", "b.txt")
	backupDir := filepath.Join(dir, "backup")

	req := Request{
		Root:      dir,
		Pattern:   "*.txt",
		Recursive: true,
		Operation: planner.NewPrefixSuffix("new_", ""),
		Backup:    true,
		BackupDir: backupDir,
		DryRun:    true,
	}

	preview, err := newTestEngine().Execute(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, preview.Success)
	assert.True(t, preview.DryRun)
	assert.Equal(t, 2, preview.ProcessedFiles)
	assert.ElementsMatch(t, []string{"a.txt", "b.txt"}, listNames(t, dir), "dry-run must not touch the tree")
	_, err = os.Stat(backupDir)
	assert.True(t, os.IsNotExist(err), "dry-run must not create the backup directory")
	for _, outcome := range preview.Details {
		assert.False(t, outcome.BackedUp, "nothing is backed up during a preview")
	}

	// The committed run lands exactly where the preview said it would.
	req.DryRun = false
	committed, err := newTestEngine().Execute(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, committed.Details, len(preview.Details))
	for i := range preview.Details {
		assert.Equal(t, preview.Details[i].Target, committed.Details[i].Target)
	}
}

func TestExecuteDelete(t *testing.T) {
	dir := t.TempDir()
	seed(t, dir, "a.tmp", "b.tmp", "keep.txt")
	backupDir := filepath.Join(dir, "backup")

	result, err := newTestEngine().Execute(context.Background(), Request{
		Root:      dir,
		Pattern:   "*.tmp",
		Recursive: true,
		Operation: planner.NewDelete(),
		Backup:    true,
		BackupDir: backupDir,
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 2, result.ProcessedFiles)
	assert.ElementsMatch(t, []string{"keep.txt"}, listNames(t, dir), "only the matched files are deleted")
	assert.Len(t, listNames(t, backupDir), 2, "deleted files leave backups behind")
	for _, outcome := range result.Details {
		assert.Empty(t, outcome.Target)
	}
}

func TestExecuteInvalidPatternAborts(t *testing.T) {
	dir := t.TempDir()
	seed(t, dir, "a.txt")

	result, err := newTestEngine().Execute(context.Background(), Request{
		Root:      dir,
		Pattern:   "[",
		Recursive: true,
		Operation: planner.NewDelete(),
	})
	require.ErrorIs(t, err, matcher.ErrInvalidPattern)
	assert.Nil(t, result)
	assert.ElementsMatch(t, []string{"a.txt"}, listNames(t, dir), "a validation failure touches nothing")
}

func TestExecuteNoMatchesIsSuccess(t *testing.T) {
	dir := t.TempDir()
	seed(t, dir, "a.txt")

	result, err := newTestEngine().Execute(context.Background(), Request{
		Root:      dir,
		Pattern:   "*.jpg",
		Recursive: true,
		Operation: planner.NewDelete(),
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Zero(t, result.TotalFiles)
	assert.Contains(t, result.Message, `"*.jpg"`)
}

func TestExecuteBackupFailureSkipsFileOnly(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("root ignores file permissions")
	}

	dir := t.TempDir()
	seed(t, dir, "a.txt", "b.txt")
	// An unreadable source makes its backup fail; the other file proceeds.
	require.NoError(t, os.Chmod(filepath.Join(dir, "a.txt"), 0o000))

	result, err := newTestEngine().Execute(context.Background(), Request{
		Root:      dir,
		Pattern:   "*.txt",
		Recursive: true,
		Operation: planner.NewPrefixSuffix("new_", ""),
		Backup:    true,
		BackupDir: filepath.Join(dir, "backup"),
	})
	require.NoError(t, err, "per-file failures do not fail the invocation")

	assert.False(t, result.Success)
	assert.Equal(t, 2, result.TotalFiles)
	assert.Equal(t, 1, result.ProcessedFiles)
	assert.Equal(t, 1, result.Errors)
	require.Len(t, result.ErrorDetails, 1)
	assert.Equal(t, filepath.Join(dir, "a.txt"), result.ErrorDetails[0].Source)
	assert.NotEmpty(t, result.ErrorDetails[0].Reason)

	names := listNames(t, dir)
	assert.Contains(t, names, "a.txt", "the failed file stays where it was")
	assert.Contains(t, names, "new_b.txt", "independent files are still processed")
}

func TestExecuteRenameOntoPendingSourceKeepsBothFiles(t *testing.T) {
	// The first entry's target collides with the second entry's source,
	// which is still sitting in place when the first rename runs. The
	// planner must divert the first entry so no matched file is overwritten.
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "axtxt.keep"), []byte("CONTENT-A"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.keep"), []byte("CONTENT-B"), 0o644))

	op, err := planner.NewReplace("axtxt=b")
	require.NoError(t, err)

	result, err := newTestEngine().Execute(context.Background(), Request{
		Root:      dir,
		Pattern:   "*.keep",
		Recursive: true,
		Operation: op,
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 2, result.ProcessedFiles)
	assert.Zero(t, result.Errors)

	diverted, err := os.ReadFile(filepath.Join(dir, "b_20250601_123045.keep"))
	require.NoError(t, err)
	assert.Equal(t, "CONTENT-A", string(diverted))

	kept, err := os.ReadFile(filepath.Join(dir, "b.keep"))
	require.NoError(t, err)
	assert.Equal(t, "CONTENT-B", string(kept), "the unrenamed file must survive the batch untouched")
}

func TestExecuteChainIntoVacatedSlot(t *testing.T) {
	// 2.txt moves to 1.txt first, freeing its slot for 3.txt.
	dir := t.TempDir()
	seed(t, dir, "2.txt", "3.txt")

	result, err := newTestEngine().Execute(context.Background(), Request{
		Root:      dir,
		Pattern:   "*.txt",
		Recursive: true,
		Operation: planner.NewFormat("{index}{ext}"),
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.ElementsMatch(t, []string{"1.txt", "2.txt"}, listNames(t, dir))

	first, err := os.ReadFile(filepath.Join(dir, "1.txt"))
	require.NoError(t, err)
	assert.Equal(t, "content of 2.txt", string(first))

	second, err := os.ReadFile(filepath.Join(dir, "2.txt"))
	require.NoError(t, err)
	assert.Equal(t, "content of 3.txt", string(second))
}

func TestExecuteCopyInsteadOfRename(t *testing.T) {
	dir := t.TempDir()
	seed(t, dir, "a.txt")

	result, err := newTestEngine().Execute(context.Background(), Request{
		Root:                dir,
		Pattern:             "*.txt",
		Recursive:           true,
		Operation:           planner.NewPrefixSuffix("copy_", ""),
		CopyInsteadOfRename: true,
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.ElementsMatch(t, []string{"a.txt", "copy_a.txt"}, listNames(t, dir), "the source survives a copy")
}

func TestExecuteOutputDirCreated(t *testing.T) {
	dir := t.TempDir()
	seed(t, dir, "a.txt")
	out := filepath.Join(dir, "renamed", "here")

	result, err := newTestEngine().Execute(context.Background(), Request{
		Root:      dir,
		Pattern:   "*.txt",
		Recursive: true,
		Operation: planner.NewPrefixSuffix("new_", "").WithOutputDir(out),
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	moved, err := os.ReadFile(filepath.Join(out, "new_a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "content of a.txt", string(moved))
}

// recordingReporter captures the event stream for assertions.
type recordingReporter struct {
	started  int
	done     int
	failed   int
	finished *Result
}

func (r *recordingReporter) BatchStarted(planner.Kind, int, bool)           { r.started++ }
func (r *recordingReporter) FileDone(FileOutcome, planner.Kind, bool, bool) { r.done++ }
func (r *recordingReporter) FileFailed(FileError)                           { r.failed++ }
func (r *recordingReporter) BatchFinished(result *Result)                   { r.finished = result }

func TestExecuteReportsEvents(t *testing.T) {
	dir := t.TempDir()
	seed(t, dir, "a.txt", "b.txt")

	reporter := &recordingReporter{}
	eng := New(Options{Reporter: reporter, Now: func() time.Time { return batchTime }})

	result, err := eng.Execute(context.Background(), Request{
		Root:      dir,
		Pattern:   "*.txt",
		Recursive: true,
		Operation: planner.NewPrefixSuffix("new_", ""),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, reporter.started)
	assert.Equal(t, 2, reporter.done)
	assert.Zero(t, reporter.failed)
	assert.Same(t, result, reporter.finished, "BatchFinished receives the final result")
}

func TestExecuteBackupNamesMatchPlanTimestamp(t *testing.T) {
	// Plan conflict suffixes and backup names come from the same sampled
	// clock, so a single invocation is internally consistent.
	dir := t.TempDir()
	seed(t, dir, "a.txt")
	backupDir := filepath.Join(dir, "backup")

	_, err := newTestEngine().Execute(context.Background(), Request{
		Root:      dir,
		Pattern:   "*.txt",
		Recursive: true,
		Operation: planner.NewPrefixSuffix("new_", ""),
		Backup:    true,
		BackupDir: backupDir,
	})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"a_backup_20250601_123045.txt"}, listNames(t, backupDir))
}
