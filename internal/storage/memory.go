// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package storage

import "sync"

// Memory keeps the blob in process memory. It is useful for tests and for
// throwaway sessions.
type Memory struct {
	mu       sync.Mutex
	data     []byte
	saves    int
	maxBytes int64

	// FailWith, when set, is returned by every Save.
	FailWith error
}

// NewMemory returns an empty memory backend.
func NewMemory(maxBytes int64) *Memory {
	return &Memory{maxBytes: maxBytes}
}

// Load returns a copy of the stored blob.
func (m *Memory) Load() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, nil
	}
	return append([]byte(nil), m.data...), nil
}

// Save replaces the stored blob.
func (m *Memory) Save(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	if err := checkQuota(data, m.maxBytes); err != nil {
		return err
	}
	m.data = append([]byte(nil), data...)
	m.saves++
	return nil
}

// Saves returns the number of successful writes.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}
