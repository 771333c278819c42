package dashboard

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/smileynet/roster/internal/store"
	"github.com/smileynet/roster/internal/user"
)

// Fixtures shared across dashboard tests.
var (
	ada = user.Record{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Phone: "5551234567"}
	bob = user.Record{FirstName: "Bob", LastName: "Babbage", Email: "bob@example.com", Phone: "5559876543"}
)

// containsText is a test alias for strings.Contains.
func containsText(s, sub string) bool {
	return strings.Contains(s, sub)
}

// stripANSI removes ANSI escape sequences from a string.
func stripANSI(s string) string {
	var out []byte
	i := 0
	for i < len(s) {
		if s[i] == '\x1b' && i+1 < len(s) && s[i+1] == '[' {
			j := i + 2
			for j < len(s) && (s[j] < 'A' || s[j] > 'Z') && (s[j] < 'a' || s[j] > 'z') {
				j++
			}
			if j < len(s) {
				j++
			}
			i = j
		} else {
			out = append(out, s[i])
			i++
		}
	}
	return string(out)
}

// containsPlainText checks if s contains sub after stripping ANSI escapes.
func containsPlainText(s, sub string) bool {
	return strings.Contains(stripANSI(s), sub)
}

// newTestModel returns a sized Model over an in-memory store seeded with users.
func newTestModel(t *testing.T, users ...user.Record) Model {
	t.Helper()
	return newSizedModelWith(store.New(users, nil), 90, 40)
}

func newSizedModelWith(st *store.Store, w, h int, opts ...Option) Model {
	m := NewModel(st, opts...)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: w, Height: h})
	return updated.(Model)
}

// send delivers msg and returns the updated Model and command.
func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	next, ok := updated.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", updated)
	}
	return next, cmd
}

// press sends one key by name: "enter", "tab", "esc", "up", "down" or a
// single rune.
func press(t *testing.T, m Model, k string) (Model, tea.Cmd) {
	t.Helper()
	return send(t, m, keyMsg(k))
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+u":
		return tea.KeyMsg{Type: tea.KeyCtrlU}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

// typeText types s into the focused input one rune at a time.
func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

// fillForm types r into the create form starting from the first field.
func fillForm(t *testing.T, m Model, r user.Record) Model {
	t.Helper()
	for i, f := range user.Fields {
		if i > 0 {
			m, _ = press(t, m, "down")
		}
		m = typeText(t, m, r.Get(f))
	}
	return m
}

// runCmd executes cmd and feeds its message back into m. Commands that
// would block, such as cursor blinks, must not be passed here.
func runCmd(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command, got nil")
	}
	m, _ = send(t, m, cmd())
	return m
}
