package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/smileynet/roster/internal/export"
	"github.com/smileynet/roster/internal/store"
	"github.com/smileynet/roster/internal/style"
	"github.com/smileynet/roster/internal/user"
	"github.com/smileynet/roster/internal/validate"
)

// ExportCmd writes the session users in an interchange format.
type ExportCmd struct {
	Format string `help:"Output format: json, yaml or toml. Inferred from --output when omitted." short:"f"`
	Output string `help:"Write to this file instead of stdout." short:"o" type:"path"`
}

// Run executes the export command.
func (c *ExportCmd) Run(g *Globals) error {
	a, err := g.setup()
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	defer a.Close() //nolint:errcheck // best-effort log flush on exit

	st, err := a.openStore()
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	if c.Output == "" {
		return c.run(os.Stdout, st.Users())
	}
	return c.save(st.Users())
}

// save writes users to c.Output through a temp file in the same directory.
// The format is resolved first, and the target is only replaced once the
// whole encoding has been written.
func (c *ExportCmd) save(users []user.Record) error {
	if _, err := resolveFormat(c.Format, c.Output); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.Output), "."+filepath.Base(c.Output)+".*.tmp")
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	tmpName := tmp.Name()
	if err := c.run(tmp, users); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("export: %w", err)
	}
	if err := os.Rename(tmpName, c.Output); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

// run encodes users to w in the resolved format.
func (c *ExportCmd) run(w io.Writer, users []user.Record) error {
	format, err := resolveFormat(c.Format, c.Output)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := export.Encode(w, format, users); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

// ImportCmd adds users from a file. Each record passes the create-form
// rules before it is added; rejected records are reported and skipped.
type ImportCmd struct {
	File   string `arg:"" help:"File to import." type:"existingfile"`
	Format string `help:"Input format: json, yaml or toml. Inferred from the file extension when omitted." short:"f"`
}

// Run executes the import command.
func (c *ImportCmd) Run(g *Globals) error {
	a, err := g.setup()
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	defer a.Close() //nolint:errcheck // best-effort log flush on exit

	st, err := a.openStore()
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	f, err := os.Open(c.File)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only

	return c.run(os.Stdout, f, st, a.validator())
}

// run decodes r and dispatches every valid record.
func (c *ImportCmd) run(w io.Writer, r io.Reader, st *store.Store, v *validate.Validator) error {
	format, err := resolveFormat(c.Format, c.File)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	records, err := export.Decode(r, format)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	var added, rejected int
	for i, rec := range records {
		if errs := v.Check(validate.Create, rec); !errs.OK() {
			rejected++
			writeLine(w, "%s record %d (%s): %s", style.ErrorPrefix, i+1, rec.Email, errs)
			continue
		}
		if err := st.Dispatch(store.AddUser{Record: rec}); err != nil {
			if errors.Is(err, store.ErrDuplicateEmail) {
				rejected++
				writeLine(w, "%s record %d (%s): Email already exists", style.ErrorPrefix, i+1, rec.Email)
				continue
			}
			return fmt.Errorf("import: %w", err)
		}
		added++
	}

	writeLine(w, "%s Imported %d, rejected %d", style.SuccessPrefix, added, rejected)
	return nil
}

// resolveFormat returns the named format, or infers it from path.
func resolveFormat(name, path string) (export.Format, error) {
	if name != "" {
		return export.ParseFormat(name)
	}
	if path == "" {
		return export.JSON, nil
	}
	return export.FormatFromPath(path)
}
