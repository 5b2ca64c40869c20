// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// File stores the blob in a single file. Writes go to a temporary file in
// the same directory and are renamed over the target.
type File struct {
	path     string
	maxBytes int64
}

// NewFile returns a file backend at path. maxBytes of zero disables the quota.
func NewFile(path string, maxBytes int64) *File {
	return &File{path: path, maxBytes: maxBytes}
}

// Load reads the file. A missing file is not an error.
func (f *File) Load() ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", f.path, err)
	}
	return data, nil
}

// Save replaces the file contents.
func (f *File) Save(data []byte) error {
	if err := checkQuota(data, f.maxBytes); err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		return fmt.Errorf("renaming %s: %w", tmpPath, err)
	}
	return nil
}

// Close is a no-op.
func (f *File) Close() error {
	return nil
}
