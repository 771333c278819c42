// Package session implements the session-scoped user snapshot on the
// filesystem.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smileynet/roster/internal/user"
)

// SnapshotKey is the storage key of the user list inside a session.
const SnapshotKey = "users"

// DefaultID is the session used when none is configured.
const DefaultID = "default"

// ErrInvalidID indicates a session ID is empty or contains path traversal components.
var ErrInvalidID = errors.New("session: invalid session ID")

// FileStore persists one session's user list as a JSON file under
// <baseDir>/<id>/users.json.
type FileStore struct {
	baseDir string
	id      string
	logger  *zap.Logger
}

// Option configures a FileStore.
type Option func(*FileStore)

// WithLogger sets the logger used for load fallbacks and writes.
func WithLogger(l *zap.Logger) Option {
	return func(s *FileStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewFileStore creates a FileStore for session id under baseDir.
// The ID is checked lazily; Load, Save and Clear return ErrInvalidID.
func NewFileStore(baseDir, id string, opts ...Option) *FileStore {
	s := &FileStore{baseDir: baseDir, id: id, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session ID.
func (s *FileStore) ID() string {
	return s.id
}

// Path returns the snapshot file path, or an error for an invalid ID.
func (s *FileStore) Path() (string, error) {
	dir, err := s.dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, SnapshotKey+".json"), nil
}

// Load reads the session snapshot. A missing snapshot yields an empty list.
// A snapshot that cannot be parsed also yields an empty list; the problem is
// logged rather than returned so a damaged file never blocks startup.
func (s *FileStore) Load() ([]user.Record, error) {
	p, err := s.Path()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p) //nolint:gosec // G304: path built from validated session ID
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []user.Record{}, nil
		}
		return nil, fmt.Errorf("session: reading %s: %w", p, err)
	}

	var users []user.Record
	if err := json.Unmarshal(data, &users); err != nil {
		s.logger.Warn("discarding malformed snapshot",
			zap.String("path", p),
			zap.Error(err))
		return []user.Record{}, nil
	}
	if users == nil {
		users = []user.Record{}
	}
	return users, nil
}

// Save overwrites the snapshot with users. The write holds an exclusive
// file lock and replaces the file atomically.
func (s *FileStore) Save(users []user.Record) error {
	p, err := s.Path()
	if err != nil {
		return err
	}
	dir := filepath.Dir(p)

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("session: creating directory: %w", err)
	}

	if users == nil {
		users = []user.Record{}
	}
	data, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("session: marshaling: %w", err)
	}

	lock := flock.New(p + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("session: locking %s: %w", p, err)
	}
	defer func() { _ = lock.Unlock() }()

	tmp, err := os.CreateTemp(dir, SnapshotKey+".*.tmp")
	if err != nil {
		return fmt.Errorf("session: writing %s: %w", p, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("session: writing %s: %w", p, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("session: writing %s: %w", p, err)
	}
	if err := os.Rename(tmpName, p); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("session: replacing %s: %w", p, err)
	}

	s.logger.Debug("snapshot saved", zap.String("path", p), zap.Int("count", len(users)))
	return nil
}

// Clear deletes the whole session directory. Clearing a session that was
// never written is not an error.
func (s *FileStore) Clear() error {
	dir, err := s.dir()
	if err != nil {
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("session: removing %s: %w", dir, err)
	}
	return nil
}

// dir returns the session directory.
// It rejects IDs that are empty, dot-segments, or contain path separators.
func (s *FileStore) dir() (string, error) {
	if err := ValidateID(s.id); err != nil {
		return "", err
	}
	return filepath.Join(s.baseDir, s.id), nil
}

// ValidateID returns ErrInvalidID unless id is a single path element.
func ValidateID(id string) error {
	if id == "" || id == "." || id == ".." || id != filepath.Base(id) {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

// NewID returns a fresh random session ID.
func NewID() string {
	return uuid.NewString()
}

// DefaultDir returns the base directory for sessions: $XDG_RUNTIME_DIR/roster
// when set, otherwise a per-user directory in the system temp dir. Both are
// cleared when the login session ends.
func DefaultDir() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "roster")
	}
	return filepath.Join(os.TempDir(), "roster-"+strconv.Itoa(os.Getuid()))
}
