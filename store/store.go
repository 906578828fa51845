// Package store persists per-session analysis history. A session's entry
// sequence is append-only: entries are written in call order with strictly
// increasing timestamps and are never reordered or rewritten.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/firstline-systems/calltriage/analysis"
)

// RecordVersion is the current persisted session-record schema version.
// Readers ignore unknown fields and reject versions newer than this.
const RecordVersion = 1

var (
	// ErrSessionNotFound is returned for operations on a session id that was
	// never created.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionExists is returned by Create for a duplicate session id.
	ErrSessionExists = errors.New("session already exists")

	// ErrPersistence marks a failed durable write. The caller must retry the
	// whole run; until then the stored history is not authoritative.
	ErrPersistence = errors.New("session persistence failed")

	// ErrUnsupportedVersion is returned when a stored record carries a
	// schema version newer than this build understands.
	ErrUnsupportedVersion = errors.New("unsupported session record version")

	// ErrNonMonotonicEntry is returned when an append would break the
	// strictly-increasing timestamp invariant.
	ErrNonMonotonicEntry = errors.New("entry timestamp not after last entry")
)

// SessionRecord is the full persisted state of one session.
type SessionRecord struct {
	Version   int                     `json:"version"`
	SessionID string                  `json:"session_id"`
	CreatedAt time.Time               `json:"created_at"`
	Entries   []analysis.SessionEntry `json:"entries"`
}

// LastTimestamp returns the timestamp of the newest entry, or -1 for an
// empty record.
func (r *SessionRecord) LastTimestamp() float64 {
	if len(r.Entries) == 0 {
		return -1
	}
	return r.Entries[len(r.Entries)-1].Timestamp
}

// Store is the session context store. Implementations serialize concurrent
// appends to the same session id while leaving different sessions
// independent, and make Append durable before returning success.
type Store interface {
	// Create registers a new empty session. Fails with ErrSessionExists for
	// a duplicate id.
	Create(ctx context.Context, sessionID string) error

	// Append adds one entry to an existing session. Fails with
	// ErrSessionNotFound for an unknown id and ErrNonMonotonicEntry when the
	// entry's timestamp does not advance past the last one.
	Append(ctx context.Context, sessionID string, entry analysis.SessionEntry) error

	// Load returns the session's full record with entries in append order.
	Load(ctx context.Context, sessionID string) (*SessionRecord, error)

	// Exists reports whether the session id has been created.
	Exists(ctx context.Context, sessionID string) (bool, error)
}
