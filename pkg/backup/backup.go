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

// Package backup copies originals aside before a destructive operation
// touches them. Backups are append-only: the engine never deletes one, they
// are the manual recovery path in place of transactional rollback.
package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gitlab.com/tozd/go/errors"
)

// ❗ ErrWrite marks an I/O failure while creating a backup (disk full,
// permission denied). It aborts the affected file's operation, not the batch.
var ErrWrite = errors.New("backup write failure")

// DefaultDir is used when no backup directory is configured.
const DefaultDir = "./backup"

const timestampLayout = "20060102_150405"

// 🧾 Record describes one created backup.
type Record struct {
	OriginalPath string
	BackupPath   string
	Timestamp    time.Time
}

// 💾 Manager writes backups into a single directory, one file at a time,
// immediately before that file's destructive operation. Nothing is batched
// ahead of time, so a later failure never leaves unrelated backups around.
type Manager struct {
	dir string
}

// New creates a Manager targeting dir (DefaultDir when empty).
func New(dir string) *Manager {
	if dir == "" {
		dir = DefaultDir
	}
	return &Manager{dir: dir}
}

// Dir returns the backup directory.
func (m *Manager) Dir() string { return m.dir }

// Backup copies path into the backup directory as
// <stem>_backup_<timestamp><ext> and returns the record. The source file is
// never modified; any failure leaves it untouched.
func (m *Manager) Backup(path string, now time.Time) (Record, error) {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return Record{}, errors.Errorf("%w: creating %s: %w", ErrWrite, m.dir, err)
	}

	name := filepath.Base(path)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	backupPath := filepath.Join(m.dir, fmt.Sprintf("%s_backup_%s%s", stem, now.Format(timestampLayout), ext))
	// Same stem and timestamp can recur within one batch (a.txt and
	// sub/a.txt); backups must not overwrite each other.
	for n := 2; exists(backupPath); n++ {
		backupPath = filepath.Join(m.dir, fmt.Sprintf("%s_backup_%s_%d%s", stem, now.Format(timestampLayout), n, ext))
	}

	if err := copyFile(path, backupPath); err != nil {
		return Record{}, err
	}

	return Record{OriginalPath: path, BackupPath: backupPath, Timestamp: now}, nil
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return errors.Errorf("%w: opening %s: %w", ErrWrite, src, err)
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		return errors.Errorf("%w: creating %s: %w", ErrWrite, dst, err)
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		_ = os.Remove(dst)
		return errors.Errorf("%w: copying to %s: %w", ErrWrite, dst, err)
	}

	if info, err := os.Stat(src); err == nil {
		_ = os.Chmod(dst, info.Mode())
	}
	return nil
}
