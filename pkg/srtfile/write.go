package srtfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DefaultBackupSuffix is appended to an input path to name its backup.
const DefaultBackupSuffix = ".bak"

// DefaultOutputSuffix is inserted before the extension of an input path
// to name the corrected file.
const DefaultOutputSuffix = "_fixed"

// OutputPath derives the corrected file name for input, e.g.
// "movie.srt" becomes "movie_fixed.srt". An empty suffix means
// DefaultOutputSuffix, so the result never names the input itself.
func OutputPath(input, suffix string) string {
	if suffix == "" {
		suffix = DefaultOutputSuffix
	}
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + suffix + ext
}

// WriteFile writes data to path through a temporary file in the same
// directory, so readers never see a partial file. An existing file keeps
// its permissions.
func WriteFile(path string, data []byte) error {
	perm := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("renaming into %s: %w", path, err)
	}
	return nil
}

// Write encodes the document and writes it to path.
func (d *Document) Write(path string, le LineEnding) error {
	return WriteFile(path, d.Bytes(le))
}

// Backup copies path to path+suffix, replacing any earlier backup,
// and returns the backup path.
func Backup(path, suffix string) (string, error) {
	if suffix == "" {
		suffix = DefaultBackupSuffix
	}

	data, err := os.ReadFile(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	dst := path + suffix
	if err := WriteFile(dst, data); err != nil {
		return "", fmt.Errorf("writing backup: %w", err)
	}
	return dst, nil
}
