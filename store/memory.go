package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/firstline-systems/calltriage/analysis"
)

// MemoryStore is an in-memory Store with the same contract as FileStore.
// Suitable for tests and ephemeral runs; history is lost on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*SessionRecord
	now      func() time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*SessionRecord),
		now:      time.Now,
	}
}

func (m *MemoryStore) Create(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[sessionID]; ok {
		return fmt.Errorf("store: create %q: %w", sessionID, ErrSessionExists)
	}
	m.sessions[sessionID] = &SessionRecord{
		Version:   RecordVersion,
		SessionID: sessionID,
		CreatedAt: m.now().UTC(),
		Entries:   []analysis.SessionEntry{},
	}
	return nil
}

func (m *MemoryStore) Append(ctx context.Context, sessionID string, entry analysis.SessionEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.sessions[sessionID]
	if !ok {
		return fmt.Errorf("store: %q: %w", sessionID, ErrSessionNotFound)
	}
	if entry.Timestamp <= record.LastTimestamp() {
		return fmt.Errorf("store: append %q at t=%v: %w", sessionID, entry.Timestamp, ErrNonMonotonicEntry)
	}
	record.Entries = append(record.Entries, entry)
	return nil
}

func (m *MemoryStore) Load(ctx context.Context, sessionID string) (*SessionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("store: %q: %w", sessionID, ErrSessionNotFound)
	}
	// Copy so callers cannot mutate the stored history.
	out := *record
	out.Entries = append([]analysis.SessionEntry(nil), record.Entries...)
	return &out, nil
}

func (m *MemoryStore) Exists(ctx context.Context, sessionID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.sessions[sessionID]
	return ok, nil
}
