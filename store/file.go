package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/firstline-systems/calltriage/analysis"
	"github.com/firstline-systems/calltriage/fileutils"
)

// FileStore keeps one JSON record per session under a root directory.
// Writes go through a temp-file-and-rename cycle, so a crash during an
// append leaves the previous record intact and a successful append survives
// a crash. A per-session mutex serializes writers for the same session id;
// different sessions never block each other.
type FileStore struct {
	dir    string
	pretty bool
	logger *logrus.Entry
	now    func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates (if needed) the root directory and returns a store
// over it.
func NewFileStore(dir string, pretty bool, logger *logrus.Logger) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("NewFileStore: dir is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("NewFileStore: mkdir: %w", err)
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &FileStore{
		dir:    dir,
		pretty: pretty,
		logger: logger.WithField("component", "session_store"),
		now:    time.Now,
		locks:  make(map[string]*sync.Mutex),
	}, nil
}

func (s *FileStore) sessionLock(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[sessionID] = l
	}
	return l
}

func (s *FileStore) path(sessionID string) string {
	return filepath.Join(s.dir, sanitizeID(sessionID)+".json")
}

// sanitizeID keeps session ids safe to use as file names.
func sanitizeID(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '_'
		}
	}, id)
}

func (s *FileStore) Create(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return errors.New("store: session id is empty")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	path := s.path(sessionID)
	if fileutils.FileExists(path) {
		return fmt.Errorf("store: create %q: %w", sessionID, ErrSessionExists)
	}

	record := SessionRecord{
		Version:   RecordVersion,
		SessionID: sessionID,
		CreatedAt: s.now().UTC(),
		Entries:   []analysis.SessionEntry{},
	}
	if err := fileutils.WriteJSONFileAtomic(path, record, s.pretty); err != nil {
		return fmt.Errorf("store: create %q: %w: %v", sessionID, ErrPersistence, err)
	}
	s.logger.WithField("session_id", sessionID).Info("session created")
	return nil
}

func (s *FileStore) Append(ctx context.Context, sessionID string, entry analysis.SessionEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	record, err := s.read(sessionID)
	if err != nil {
		return err
	}
	if entry.Timestamp <= record.LastTimestamp() {
		return fmt.Errorf("store: append %q at t=%v: %w", sessionID, entry.Timestamp, ErrNonMonotonicEntry)
	}

	record.Entries = append(record.Entries, entry)
	if err := fileutils.WriteJSONFileAtomic(s.path(sessionID), record, s.pretty); err != nil {
		return fmt.Errorf("store: append %q: %w: %v", sessionID, ErrPersistence, err)
	}
	s.logger.WithFields(logrus.Fields{
		"session_id": sessionID,
		"entries":    len(record.Entries),
	}).Debug("session entry appended")
	return nil
}

func (s *FileStore) Load(ctx context.Context, sessionID string) (*SessionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	return s.read(sessionID)
}

func (s *FileStore) Exists(ctx context.Context, sessionID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return fileutils.FileExists(s.path(sessionID)), nil
}

func (s *FileStore) read(sessionID string) (*SessionRecord, error) {
	b, err := os.ReadFile(s.path(sessionID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("store: %q: %w", sessionID, ErrSessionNotFound)
		}
		return nil, fmt.Errorf("store: read %q: %w", sessionID, err)
	}

	var record SessionRecord
	if err := json.Unmarshal(b, &record); err != nil {
		return nil, fmt.Errorf("store: decode %q: %w", sessionID, err)
	}
	if record.Version == 0 {
		record.Version = 1
	}
	if record.Version > RecordVersion {
		return nil, fmt.Errorf("store: %q has version %d: %w", sessionID, record.Version, ErrUnsupportedVersion)
	}
	if record.Entries == nil {
		record.Entries = []analysis.SessionEntry{}
	}
	return &record, nil
}
