// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package localstate

import (
	"context"
	"sync"

	"github.com/MWaltz469/calendarPlanner-v2-sub000/selection"
)

// MemoryStore keeps records for the life of the process.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]Record
	resume  *Key
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

func (m *MemoryStore) Load(_ context.Context, key Key) (Record, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[key.ID()]
	if !ok {
		return Record{}, false, nil
	}
	rec.Selections = selection.Clone(rec.Selections)
	return rec, true, nil
}

func (m *MemoryStore) Save(_ context.Context, key Key, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec.Selections = selection.Clone(rec.Selections)
	m.records[key.ID()] = rec
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key Key) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, key.ID())
	return nil
}

func (m *MemoryStore) SetResume(_ context.Context, key Key) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key.Normalize()
	m.resume = &k
	return nil
}

func (m *MemoryStore) Resume(_ context.Context) (Key, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.resume == nil {
		return Key{}, false, nil
	}
	return *m.resume, true, nil
}

func (m *MemoryStore) ClearResume(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resume = nil
	return nil
}

func (m *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
