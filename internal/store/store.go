package store

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/smileynet/roster/internal/user"
)

var (
	// ErrDuplicateEmail indicates AddUser was rejected because the email is
	// already in the list. Only returned with WithRejectDuplicates.
	ErrDuplicateEmail = errors.New("store: email already exists")

	// ErrUserNotFound indicates no record has the requested email.
	ErrUserNotFound = errors.New("store: user not found")
)

// Persister writes the full user list to the session snapshot.
type Persister interface {
	Save(users []user.Record) error
}

// Store owns the in-memory user list for one session.
// It is not safe for concurrent use; the TUI update loop and the CLI
// commands each drive it from a single goroutine.
type Store struct {
	users            []user.Record
	persister        Persister
	logger           *zap.Logger
	rejectDuplicates bool
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used to record dispatched actions.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRejectDuplicates makes AddUser fail with ErrDuplicateEmail when the
// email is already present.
func WithRejectDuplicates(reject bool) Option {
	return func(s *Store) {
		s.rejectDuplicates = reject
	}
}

// New creates a Store seeded with users, typically the session snapshot.
// A nil persister keeps the list in memory only.
func New(users []user.Record, p Persister, opts ...Option) *Store {
	s := &Store{
		users:     append([]user.Record(nil), users...),
		persister: p,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Users returns a copy of the current list in insertion order.
func (s *Store) Users() []user.Record {
	return append([]user.Record(nil), s.users...)
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.users)
}

// Find returns the first record with the given email.
func (s *Store) Find(email string) (user.Record, error) {
	idx := IndexOf(s.users, email)
	if idx < 0 {
		return user.Record{}, fmt.Errorf("%w: %s", ErrUserNotFound, email)
	}
	return s.users[idx], nil
}

// Dispatch applies a to the list and persists the result when the reducer
// asks for it. If the save fails the in-memory list keeps the new state and
// the error is returned.
func (s *Store) Dispatch(a Action) error {
	if add, ok := a.(AddUser); ok && s.rejectDuplicates && IndexOf(s.users, add.Record.Email) >= 0 {
		s.logger.Info("rejected duplicate email",
			zap.String("action", a.actionName()),
			zap.String("email", add.Record.Email))
		return fmt.Errorf("%w: %s", ErrDuplicateEmail, add.Record.Email)
	}

	next, persist := Reduce(s.users, a)
	s.users = next

	s.logger.Debug("dispatched",
		zap.String("action", a.actionName()),
		zap.String("email", actionEmail(a)),
		zap.Int("count", len(next)),
		zap.Bool("persist", persist))

	if !persist || s.persister == nil {
		return nil
	}
	if err := s.persister.Save(s.Users()); err != nil {
		s.logger.Error("saving snapshot", zap.String("action", a.actionName()), zap.Error(err))
		return fmt.Errorf("store: %s: %w", a.actionName(), err)
	}
	return nil
}

// actionEmail returns the identity key an action targets.
func actionEmail(a Action) string {
	switch a := a.(type) {
	case AddUser:
		return a.Record.Email
	case RemoveUser:
		return a.Email
	case EditUser:
		return a.Record.Email
	default:
		return ""
	}
}
