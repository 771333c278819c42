package main

import (
	"fmt"
	"io"
	"os"

	"github.com/smileynet/roster/internal/session"
	"github.com/smileynet/roster/internal/style"
)

// SessionCmd groups session management commands.
type SessionCmd struct {
	New   SessionNewCmd   `cmd:"" help:"Print a fresh session ID."`
	Clear SessionClearCmd `cmd:"" help:"Delete the current session snapshot."`
	Path  SessionPathCmd  `cmd:"" help:"Print the current session snapshot path."`
}

// SessionNewCmd prints a new random session ID.
type SessionNewCmd struct{}

// Run executes the session new command.
func (c *SessionNewCmd) Run() error {
	return c.run(os.Stdout, session.NewID)
}

// run prints an ID from newID with a hint for selecting it.
func (c *SessionNewCmd) run(w io.Writer, newID func() string) error {
	id := newID()
	writeLine(w, "%s", id)
	writeLine(w, "%s", style.Dim.Render("export ROSTER_SESSION="+id))
	return nil
}

// sessionOps abstracts the file store for testing clear and path.
type sessionOps interface {
	ID() string
	Path() (string, error)
	Clear() error
}

// SessionClearCmd deletes the current session snapshot.
type SessionClearCmd struct{}

// Run executes the session clear command.
func (c *SessionClearCmd) Run(g *Globals) error {
	a, err := g.setup()
	if err != nil {
		return fmt.Errorf("session clear: %w", err)
	}
	defer a.Close() //nolint:errcheck // best-effort log flush on exit
	return c.run(os.Stdout, a.files)
}

func (c *SessionClearCmd) run(w io.Writer, s sessionOps) error {
	if err := s.Clear(); err != nil {
		return fmt.Errorf("session clear: %w", err)
	}
	writeLine(w, "%s Cleared session %s", style.SuccessPrefix, s.ID())
	return nil
}

// SessionPathCmd prints where the current session snapshot is stored.
type SessionPathCmd struct{}

// Run executes the session path command.
func (c *SessionPathCmd) Run(g *Globals) error {
	a, err := g.setup()
	if err != nil {
		return fmt.Errorf("session path: %w", err)
	}
	defer a.Close() //nolint:errcheck // best-effort log flush on exit
	return c.run(os.Stdout, a.files)
}

func (c *SessionPathCmd) run(w io.Writer, s sessionOps) error {
	p, err := s.Path()
	if err != nil {
		return fmt.Errorf("session path: %w", err)
	}
	writeLine(w, "%s", p)
	return nil
}
