// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package storage keeps the serialized knowledge base as a single opaque
// blob. Backends are best-effort key/value stores: a write may be rejected
// when a capacity limit is reached, and the caller decides what to do about
// it. The last full write wins; there is no version check.
package storage

import (
	"errors"
	"fmt"

	"github.com/pdiddy/litreview/pkg/types"
)

const defaultKey = "knowledge_base"

// Backend loads and saves the knowledge base blob.
type Backend interface {
	// Load returns the stored blob, or nil with a nil error when nothing
	// has been stored yet.
	Load() ([]byte, error)

	// Save replaces the stored blob.
	Save(data []byte) error

	// Close releases any underlying resources.
	Close() error
}

// ErrQuotaExceeded reports that a write was larger than the backend allows.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// QuotaError carries the size of the rejected write and the limit.
type QuotaError struct {
	Size  int
	Limit int64
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("storage quota exceeded: write of %d bytes exceeds limit of %d", e.Size, e.Limit)
}

// Unwrap lets errors.Is match ErrQuotaExceeded.
func (e *QuotaError) Unwrap() error {
	return ErrQuotaExceeded
}

// checkQuota rejects data larger than limit. A non-positive limit disables
// the check.
func checkQuota(data []byte, limit int64) error {
	if limit > 0 && int64(len(data)) > limit {
		return &QuotaError{Size: len(data), Limit: limit}
	}
	return nil
}

// Open returns the backend selected by cfg.Backend.
func Open(cfg types.StorageConfig) (Backend, error) {
	key := cfg.Key
	if key == "" {
		key = defaultKey
	}

	switch cfg.Backend {
	case types.StorageFile, "":
		return NewFile(cfg.Path, cfg.MaxBytes), nil
	case types.StorageSQLite:
		return NewSQLite(cfg.Path, key, cfg.MaxBytes)
	case types.StorageBolt:
		return NewBolt(cfg.Path, key, cfg.MaxBytes)
	case types.StorageMemory:
		return NewMemory(cfg.MaxBytes), nil
	default:
		return nil, fmt.Errorf("unsupported storage backend %q: use file, sqlite, bolt, or memory", cfg.Backend)
	}
}
