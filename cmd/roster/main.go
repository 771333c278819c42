package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/smileynet/roster/internal/config"
	"github.com/smileynet/roster/internal/dashboard"
	"github.com/smileynet/roster/internal/logging"
	"github.com/smileynet/roster/internal/session"
	"github.com/smileynet/roster/internal/store"
	"github.com/smileynet/roster/internal/validate"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Exit codes.
const (
	exitSuccess = 0
	exitInvalid = 1
	exitSetup   = 2
)

// errInvalidInput marks user input rejected by validation.
var errInvalidInput = errors.New("invalid input")

// Globals are flags shared by every command.
type Globals struct {
	Config     string `help:"Extra config file layered over the user and project files." type:"path"`
	Session    string `help:"Session ID (default from config or ROSTER_SESSION)." short:"s"`
	SessionDir string `help:"Base directory for session snapshots." type:"path"`
}

// CLI is the top-level command structure for roster.
type CLI struct {
	Globals

	Version  kong.VersionFlag `help:"Show version." short:"V"`
	TUI      TUICmd           `cmd:"" name:"tui" default:"1" help:"Open the interactive user form (default)."`
	List     ListCmd          `cmd:"" help:"List users in the session."`
	Add      AddCmd           `cmd:"" help:"Add a user."`
	Edit     EditCmd          `cmd:"" help:"Edit the user with the given email."`
	Remove   RemoveCmd        `cmd:"" help:"Remove every user with the given email."`
	Export   ExportCmd        `cmd:"" help:"Write the session users as JSON, YAML or TOML."`
	Import   ImportCmd        `cmd:"" help:"Add users from a JSON, YAML or TOML file."`
	Sessions SessionCmd       `cmd:"" name:"session" help:"Manage sessions."`
}

// app holds the wiring shared by commands after config is resolved.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	closeLog func() error
	files    *session.FileStore
}

// loadConfig loads layered config from user and project paths, then the
// optional extra file, with env overrides.
func loadConfig(extra string) (*config.Config, error) {
	paths := []string{
		os.ExpandEnv("$HOME/.config/roster/config.yaml"),
		".roster/config.yaml",
	}
	if extra != "" {
		paths = append(paths, extra)
	}
	cfg, err := config.LoadLayered(paths...)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setup resolves config, applies flag overrides, and opens the logger and
// session file store.
func (g *Globals) setup() (*app, error) {
	cfg, err := loadConfig(g.Config)
	if err != nil {
		return nil, err
	}

	// Apply CLI flag overrides.
	if g.Session != "" {
		cfg.Session.ID = g.Session
	}
	if g.SessionDir != "" {
		cfg.Session.Dir = g.SessionDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, closeLog, err := logging.New(logging.Options{
		File:  cfg.LogFile(),
		Level: cfg.Log.Level,
	})
	if err != nil {
		return nil, err
	}

	files := session.NewFileStore(cfg.SessionDir(), cfg.Session.ID, session.WithLogger(logger))
	return &app{cfg: cfg, logger: logger, closeLog: closeLog, files: files}, nil
}

// openStore loads the session snapshot into a Store.
func (a *app) openStore() (*store.Store, error) {
	users, err := a.files.Load()
	if err != nil {
		return nil, err
	}
	a.logger.Debug("session loaded",
		zap.String("session", a.files.ID()),
		zap.Int("users", len(users)))
	return store.New(users, a.files,
		store.WithLogger(a.logger),
		store.WithRejectDuplicates(a.cfg.Store.RejectDuplicates),
	), nil
}

// validator builds the form validator from config.
func (a *app) validator() *validate.Validator {
	return validate.New(validate.WithStrictEdit(a.cfg.Validation.StrictEdit))
}

// Close flushes and closes the log file.
func (a *app) Close() error {
	return a.closeLog()
}

// TUICmd opens the interactive dashboard.
type TUICmd struct{}

// teaRunner abstracts Bubble Tea program execution for testing.
type teaRunner interface {
	Run() (tea.Model, error)
}

// Run builds real dependencies and launches the dashboard TUI.
func (c *TUICmd) Run(g *Globals) error {
	isTTY := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	if !isTTY {
		return c.run(false, nil)
	}

	a, err := g.setup()
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	defer a.Close() //nolint:errcheck // best-effort log flush on exit

	st, err := a.openStore()
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}

	m := dashboard.NewModel(st,
		dashboard.WithValidator(a.validator()),
		dashboard.WithLogger(a.logger),
	)
	prog := tea.NewProgram(m, tea.WithAltScreen())
	return c.run(true, prog)
}

// run executes the tea program, enabling testable wiring.
func (c *TUICmd) run(isTTY bool, prog teaRunner) error {
	if !isTTY {
		return fmt.Errorf("tui: requires a terminal (TTY); use list, add, edit or remove instead")
	}
	_, err := prog.Run()
	return err
}

// exitCode maps an error to the appropriate exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	if errors.Is(err, errInvalidInput) ||
		errors.Is(err, store.ErrUserNotFound) ||
		errors.Is(err, store.ErrDuplicateEmail) {
		return exitInvalid
	}
	return exitSetup
}

// writeLine writes one line to w, ignoring errors on the terminal stream.
func writeLine(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format+"\n", args...)
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("roster"),
		kong.Description("Manage a session-scoped list of users."),
		kong.Vars{"version": version + " " + commit + " " + date},
	)
	err := ctx.Run(&cli.Globals)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(exitCode(err))
	}
}
