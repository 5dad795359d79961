package backup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var backupTime = time.Date(2025, 6, 1, 12, 30, 45, 0, time.UTC)

func TestBackupNamingAndContent(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "report.txt")
	require.NoError(t, os.WriteFile(src, []byte("hello"), 0o644))

	mgr := New(filepath.Join(dir, "backup"))

	record, err := mgr.Backup(src, backupTime)
	require.NoError(t, err)

	assert.Equal(t, src, record.OriginalPath)
	assert.Equal(t, filepath.Join(mgr.Dir(), "report_backup_20250601_123045.txt"), record.BackupPath)
	assert.Equal(t, backupTime, record.Timestamp)

	copied, err := os.ReadFile(record.BackupPath)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(copied), "backup must be a byte-for-byte copy")

	original, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(original), "source stays untouched")
}

func TestBackupCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))

	target := filepath.Join(dir, "nested", "deep", "backup")
	_, err := New(target).Backup(src, backupTime)
	require.NoError(t, err)

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestBackupSameStemDoesNotOverwrite(t *testing.T) {
	// a.txt and sub/a.txt share stem, extension and timestamp; both backups
	// must survive.
	dir := t.TempDir()
	first := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(first, []byte("one"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	second := filepath.Join(dir, "sub", "a.txt")
	require.NoError(t, os.WriteFile(second, []byte("two"), 0o644))

	mgr := New(filepath.Join(dir, "backup"))

	rec1, err := mgr.Backup(first, backupTime)
	require.NoError(t, err)
	rec2, err := mgr.Backup(second, backupTime)
	require.NoError(t, err)

	require.NotEqual(t, rec1.BackupPath, rec2.BackupPath)
	assert.Equal(t, filepath.Join(mgr.Dir(), "a_backup_20250601_123045.txt"), rec1.BackupPath)
	assert.Equal(t, filepath.Join(mgr.Dir(), "a_backup_20250601_123045_2.txt"), rec2.BackupPath)

	one, err := os.ReadFile(rec1.BackupPath)
	require.NoError(t, err)
	two, err := os.ReadFile(rec2.BackupPath)
	require.NoError(t, err)
	assert.Equal(t, "one", string(one))
	assert.Equal(t, "two", string(two))
}

func TestBackupMissingSource(t *testing.T) {
	dir := t.TempDir()

	_, err := New(filepath.Join(dir, "backup")).Backup(filepath.Join(dir, "gone.txt"), backupTime)
	require.ErrorIs(t, err, ErrWrite)
}

func TestBackupUnwritableDir(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("root ignores directory permissions")
	}

	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))

	locked := filepath.Join(dir, "locked")
	require.NoError(t, os.MkdirAll(locked, 0o555))

	_, err := New(filepath.Join(locked, "backup")).Backup(src, backupTime)
	require.ErrorIs(t, err, ErrWrite)
}

func TestNewDefaultsDir(t *testing.T) {
	assert.Equal(t, DefaultDir, New("").Dir())
	assert.Equal(t, "/custom", New("/custom").Dir())
}
