package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/smileynet/roster/internal/store"
	"github.com/smileynet/roster/internal/style"
	"github.com/smileynet/roster/internal/user"
	"github.com/smileynet/roster/internal/validate"
)

// ListCmd prints the users in the session.
type ListCmd struct{}

// Run executes the list command.
func (c *ListCmd) Run(g *Globals) error {
	a, err := g.setup()
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}
	defer a.Close() //nolint:errcheck // best-effort log flush on exit

	st, err := a.openStore()
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}
	return c.run(os.Stdout, st.Users(), terminalWidth(os.Stdout))
}

// run writes one line per user, truncated to width when width is positive.
func (c *ListCmd) run(w io.Writer, users []user.Record, width int) error {
	if len(users) == 0 {
		writeLine(w, "%s", style.Dim.Render("No User Found"))
		return nil
	}

	truncate := lipgloss.NewStyle().MaxWidth(width)
	for _, u := range users {
		line := style.Avatar.Render(u.Avatar()) + " " +
			style.Bold.Render(u.FullName()) + "  " +
			style.Dim.Render(u.Email+" · "+u.Phone)
		if width > 0 {
			line = truncate.Render(line)
		}
		writeLine(w, "%s", line)
	}
	return nil
}

// terminalWidth returns the column count of f, or 0 when f is not a terminal.
func terminalWidth(f *os.File) int {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return width
}

// AddCmd adds one user after create-form validation.
type AddCmd struct {
	First string `help:"First name."`
	Last  string `help:"Last name."`
	Email string `help:"Email address."`
	Phone string `help:"Ten digit phone number."`
}

// Run executes the add command.
func (c *AddCmd) Run(g *Globals) error {
	a, err := g.setup()
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}
	defer a.Close() //nolint:errcheck // best-effort log flush on exit

	st, err := a.openStore()
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}
	return c.run(os.Stdout, st, a.validator())
}

// run validates and dispatches the record, enabling testable wiring.
func (c *AddCmd) run(w io.Writer, st *store.Store, v *validate.Validator) error {
	r := user.Record{FirstName: c.First, LastName: c.Last, Email: c.Email, Phone: c.Phone}
	if errs := v.Check(validate.Create, r); !errs.OK() {
		printFieldErrors(w, errs)
		return fmt.Errorf("add: %w", errInvalidInput)
	}
	if err := st.Dispatch(store.AddUser{Record: r}); err != nil {
		return fmt.Errorf("add: %w", err)
	}
	writeLine(w, "%s Added %s <%s>", style.SuccessPrefix, r.FullName(), r.Email)
	return nil
}

// EditCmd updates the user with the given email. Only provided flags change;
// the email itself is the identity and cannot be edited.
type EditCmd struct {
	Email string `arg:"" help:"Email of the user to edit."`
	First string `help:"New first name."`
	Last  string `help:"New last name."`
	Phone string `help:"New phone number."`
}

// Run executes the edit command.
func (c *EditCmd) Run(g *Globals) error {
	a, err := g.setup()
	if err != nil {
		return fmt.Errorf("edit: %w", err)
	}
	defer a.Close() //nolint:errcheck // best-effort log flush on exit

	st, err := a.openStore()
	if err != nil {
		return fmt.Errorf("edit: %w", err)
	}
	return c.run(os.Stdout, st, a.validator())
}

// run applies the flag overrides to the stored record and dispatches it.
func (c *EditCmd) run(w io.Writer, st *store.Store, v *validate.Validator) error {
	r, err := st.Find(c.Email)
	if err != nil {
		return fmt.Errorf("edit: %w", err)
	}

	overrides := map[user.Field]string{
		user.FieldFirstName: c.First,
		user.FieldLastName:  c.Last,
		user.FieldPhone:     c.Phone,
	}
	for f, val := range overrides {
		if val != "" {
			r = r.Set(f, val)
		}
	}

	if errs := v.Check(validate.Edit, r); !errs.OK() {
		printFieldErrors(w, errs)
		return fmt.Errorf("edit: %w", errInvalidInput)
	}
	if err := st.Dispatch(store.EditUser{Record: r}); err != nil {
		return fmt.Errorf("edit: %w", err)
	}
	writeLine(w, "%s Saved %s <%s>", style.SuccessPrefix, r.FullName(), r.Email)
	return nil
}

// RemoveCmd removes every user with the given email.
type RemoveCmd struct {
	Email string `arg:"" help:"Email of the user to remove."`
}

// Run executes the remove command.
func (c *RemoveCmd) Run(g *Globals) error {
	a, err := g.setup()
	if err != nil {
		return fmt.Errorf("remove: %w", err)
	}
	defer a.Close() //nolint:errcheck // best-effort log flush on exit

	st, err := a.openStore()
	if err != nil {
		return fmt.Errorf("remove: %w", err)
	}
	return c.run(os.Stdout, st)
}

// run dispatches the removal. Unknown emails are reported without touching
// the snapshot.
func (c *RemoveCmd) run(w io.Writer, st *store.Store) error {
	if _, err := st.Find(c.Email); err != nil {
		return fmt.Errorf("remove: %w", err)
	}
	before := st.Len()
	if err := st.Dispatch(store.RemoveUser{Email: c.Email}); err != nil {
		return fmt.Errorf("remove: %w", err)
	}
	n := before - st.Len()
	noun := "users"
	if n == 1 {
		noun = "user"
	}
	writeLine(w, "%s Removed %d %s with email %s", style.SuccessPrefix, n, noun, c.Email)
	return nil
}

// printFieldErrors writes one line per invalid field in form order.
func printFieldErrors(w io.Writer, errs validate.Errors) {
	for _, f := range errs.Fields() {
		writeLine(w, "%s %s: %s", style.ErrorPrefix, f.Label(), errs.Get(f))
	}
}
