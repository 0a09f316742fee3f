// Package listfile reads rule list files and replaces them without leaving
// partial output behind.
package listfile

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// BackupSuffix is appended to a file name to form its backup path.
const BackupSuffix = ".bak"

// Read returns the contents of path.
func Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return data, nil
}

// BackupPath returns the backup location for path.
func BackupPath(path string) string {
	return path + BackupSuffix
}

// Backup copies original to the backup path next to path and reads the copy
// back to confirm it holds exactly original.
func Backup(path string, original []byte) (string, error) {
	backup := BackupPath(path)
	if err := WriteAtomic(backup, original); err != nil {
		return "", errors.Wrap(err, "backup")
	}

	written, err := os.ReadFile(backup)
	if err != nil {
		return "", errors.Wrapf(err, "verify backup %s", backup)
	}
	if !bytes.Equal(written, original) {
		return "", errors.Errorf("verify backup %s: content mismatch", backup)
	}
	return backup, nil
}

// WriteAtomic writes data to a temporary file beside path, syncs it and
// renames it over path. On failure path is left untouched and the temporary
// file is removed.
func WriteAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "create dir %s", dir)
	}

	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	tmpPath := path + ".tmp"
	file, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return errors.Wrapf(err, "create %s", tmpPath)
	}

	_, err = file.Write(data)
	if err == nil {
		err = file.Sync()
	}
	closeErr := file.Close()
	if err != nil {
		os.Remove(tmpPath) // cleanup on failure
		return errors.Wrapf(err, "write %s", tmpPath)
	}
	if closeErr != nil {
		os.Remove(tmpPath) // cleanup on failure
		return errors.Wrapf(closeErr, "close %s", tmpPath)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return errors.Wrapf(err, "rename %s to %s", tmpPath, path)
	}
	return nil
}

// SamePath reports whether a and b name the same file. Paths that do not
// exist yet are compared after cleaning.
func SamePath(a, b string) bool {
	if filepath.Clean(a) == filepath.Clean(b) {
		return true
	}
	ia, errA := os.Stat(a)
	ib, errB := os.Stat(b)
	if errA != nil || errB != nil {
		return false
	}
	return os.SameFile(ia, ib)
}
