package localstorage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// TempDir manages the single directory holding transient audio artifacts.
// Entries are named by unique ids, so concurrent runs never collide.
type TempDir struct {
	BaseDir string
}

// NewTempDir creates a TempDir rooted at baseDir.
func NewTempDir(baseDir string) *TempDir {
	return &TempDir{BaseDir: baseDir}
}

// Init creates the directory if it does not exist.
func (d *TempDir) Init() error {
	if err := os.MkdirAll(d.BaseDir, 0755); err != nil {
		return fmt.Errorf("failed to create temp directory %s: %w", d.BaseDir, err)
	}
	return nil
}

// Template returns the output template for a downloader that substitutes the
// extension itself.
func (d *TempDir) Template(id string) string {
	return filepath.Join(d.BaseDir, id+".%(ext)s")
}

// FindByPrefix returns the first entry (in name order) whose name begins with
// prefix.
func (d *TempDir) FindByPrefix(prefix string) (string, bool, error) {
	entries, err := os.ReadDir(d.BaseDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to read temp directory: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasPrefix(e.Name(), prefix) {
			return filepath.Join(d.BaseDir, e.Name()), true, nil
		}
	}
	return "", false, nil
}

// RemovePrefix deletes every entry whose name begins with prefix and returns
// how many were removed.
func (d *TempDir) RemovePrefix(prefix string) (int, error) {
	entries, err := os.ReadDir(d.BaseDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read temp directory: %w", err)
	}
	removed := 0
	var errs []error
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		if err := d.Remove(filepath.Join(d.BaseDir, e.Name())); err != nil {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}

// Remove deletes path. A missing file is not an error.
func (d *TempDir) Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}
