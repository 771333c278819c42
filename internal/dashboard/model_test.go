package dashboard

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"

	"github.com/smileynet/roster/internal/session"
	"github.com/smileynet/roster/internal/store"
	"github.com/smileynet/roster/internal/user"
)

// failingPersister rejects every save.
type failingPersister struct{}

func (failingPersister) Save([]user.Record) error { return errors.New("disk full") }

func TestNewModel_DefaultMode(t *testing.T) {
	m := NewModel(store.New(nil, nil))
	if m.mode != ModeMain {
		t.Errorf("mode = %d, want ModeMain (%d)", m.mode, ModeMain)
	}
}

func TestNewModel_DefaultFocus(t *testing.T) {
	m := NewModel(store.New(nil, nil))
	if m.focus != PaneForm {
		t.Errorf("focus = %d, want PaneForm (%d)", m.focus, PaneForm)
	}
	if !m.form.fields.inputs[user.FieldFirstName].Focused() {
		t.Error("first name input should have focus")
	}
}

func TestNewModel_ShowsSessionUsers(t *testing.T) {
	m := newTestModel(t, ada, bob)
	view := m.View()
	if !containsPlainText(view, "Ada Lovelace") || !containsPlainText(view, "Bob Babbage") {
		t.Error("View() should list the seeded users")
	}
}

func TestModel_EmptyListShowsNoUserFound(t *testing.T) {
	m := newTestModel(t)
	if !containsPlainText(m.View(), "No User Found") {
		t.Error("View() should contain 'No User Found'")
	}
}

func TestModel_TabTogglesFocus(t *testing.T) {
	m := newTestModel(t)

	// Tab should switch from form to list.
	m, _ = press(t, m, "tab")
	if m.focus != PaneList {
		t.Errorf("after first Tab: focus = %d, want PaneList (%d)", m.focus, PaneList)
	}
	if m.form.fields.inputs[user.FieldFirstName].Focused() {
		t.Error("form input should blur when the list has focus")
	}

	// Tab again should switch back to form.
	m, _ = press(t, m, "tab")
	if m.focus != PaneForm {
		t.Errorf("after second Tab: focus = %d, want PaneForm (%d)", m.focus, PaneForm)
	}
}

func TestModel_QuitInListPane(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(t, m, "tab")

	_, cmd := press(t, m, "q")
	if cmd == nil {
		t.Fatal("q in the list pane should return a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("q command produced %T, want tea.QuitMsg", cmd())
	}
}

func TestModel_QTypesInForm(t *testing.T) {
	m := newTestModel(t)
	m = typeText(t, m, "q")
	if got := m.form.Draft().FirstName; got != "q" {
		t.Errorf("FirstName = %q, want %q", got, "q")
	}
}

func TestModel_CtrlCQuits(t *testing.T) {
	m := newTestModel(t)

	_, cmd := press(t, m, "ctrl+c")
	if cmd == nil {
		t.Fatal("ctrl+c should return a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("ctrl+c command produced %T, want tea.QuitMsg", cmd())
	}
}

func TestModel_WindowSizeMsg(t *testing.T) {
	m := NewModel(store.New(nil, nil))
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 50})

	if m.width != 120 || m.height != 50 {
		t.Errorf("size = %dx%d, want 120x50", m.width, m.height)
	}
	if m.viewport.Height != m.listHeight() {
		t.Errorf("viewport height = %d, want %d", m.viewport.Height, m.listHeight())
	}
}

func TestModel_ViewBeforeSize(t *testing.T) {
	m := NewModel(store.New(nil, nil))
	if got := m.View(); got != "Initializing..." {
		t.Errorf("View() = %q, want %q", got, "Initializing...")
	}
}

func TestModel_CreateValidUser(t *testing.T) {
	// Given: an empty session
	m := newTestModel(t)

	// When: a valid user is typed and submitted
	m = fillForm(t, m, ada)
	m, _ = press(t, m, "enter")

	// Then: the store holds the user and the form is reset
	if got := m.store.Users(); len(got) != 1 || got[0] != ada {
		t.Fatalf("users = %+v, want [%+v]", got, ada)
	}
	if m.form.Draft() != (user.Record{}) {
		t.Errorf("form draft = %+v, want zero", m.form.Draft())
	}
	if !containsPlainText(m.View(), "Added Ada Lovelace") {
		t.Error("View() should show the added status")
	}
}

func TestModel_CreateWithCtrlS(t *testing.T) {
	m := newTestModel(t)
	m = fillForm(t, m, bob)
	m, _ = press(t, m, "ctrl+s")
	if m.store.Len() != 1 {
		t.Errorf("store len = %d, want 1", m.store.Len())
	}
}

func TestModel_CreateEmptyShowsErrors(t *testing.T) {
	// Given: an empty form
	m := newTestModel(t)

	// When: it is submitted
	m, _ = press(t, m, "enter")

	// Then: nothing is added and every required message is shown
	if m.store.Len() != 0 {
		t.Errorf("store len = %d, want 0", m.store.Len())
	}
	view := m.View()
	for _, want := range []string{"First Name is required", "Last Name is required", "Email is required", "Phone Number is required"} {
		if !containsPlainText(view, want) {
			t.Errorf("View() should contain %q", want)
		}
	}
}

func TestModel_CreateShortPhone(t *testing.T) {
	// Given: a draft whose phone has five digits
	m := newTestModel(t)
	m = fillForm(t, m, ada.Set(user.FieldPhone, "12345"))

	// When: it is submitted
	m, _ = press(t, m, "enter")

	// Then: only the phone message is shown and the draft is kept
	if m.store.Len() != 0 {
		t.Errorf("store len = %d, want 0", m.store.Len())
	}
	errs := m.form.Errors()
	if len(errs) != 1 || errs.Get(user.FieldPhone) != "Phone Number should be 10 digits" {
		t.Errorf("errors = %v", errs)
	}
	if m.form.Draft().FirstName != "Ada" {
		t.Error("draft should be kept after a failed submit")
	}
}

func TestModel_CreateDuplicateAllowedByDefault(t *testing.T) {
	m := newTestModel(t, ada)
	m = fillForm(t, m, ada)
	m, _ = press(t, m, "enter")
	if m.store.Len() != 2 {
		t.Errorf("store len = %d, want 2", m.store.Len())
	}
}

func TestModel_CreateDuplicateRejected(t *testing.T) {
	// Given: a store that rejects duplicate emails
	st := store.New([]user.Record{ada}, nil, store.WithRejectDuplicates(true))
	m := newSizedModelWith(st, 90, 40)

	// When: the same email is submitted again
	m = fillForm(t, m, ada.Set(user.FieldFirstName, "Augusta"))
	m, _ = press(t, m, "enter")

	// Then: the email field reports the conflict and the draft is kept
	if st.Len() != 1 {
		t.Errorf("store len = %d, want 1", st.Len())
	}
	if got := m.form.Errors().Get(user.FieldEmail); got != duplicateEmailText {
		t.Errorf("email error = %q, want %q", got, duplicateEmailText)
	}
	if m.form.Draft().FirstName != "Augusta" {
		t.Error("draft should be kept after a rejected add")
	}
}

func TestModel_CreatePersistFailureShowsStatus(t *testing.T) {
	// Given: a store whose snapshot writes fail
	st := store.New(nil, failingPersister{})
	m := newSizedModelWith(st, 90, 40)

	// When: a valid user is submitted
	m = fillForm(t, m, ada)
	m, _ = press(t, m, "enter")

	// Then: the user is listed and the failure is reported
	if st.Len() != 1 {
		t.Errorf("store len = %d, want 1", st.Len())
	}
	if !m.statusErr || !containsText(m.status, "disk full") {
		t.Errorf("status = %q (err=%v), want disk full error", m.status, m.statusErr)
	}
}

func TestModel_DeleteSelected(t *testing.T) {
	// Given: two users with the cursor on the second
	m := newTestModel(t, ada, bob)
	m, _ = press(t, m, "tab")
	m, _ = press(t, m, "down")

	// When: d is pressed
	m, _ = press(t, m, "d")

	// Then: only the first user remains
	if got := m.store.Users(); len(got) != 1 || got[0] != ada {
		t.Errorf("users = %+v, want [%+v]", got, ada)
	}
	if !containsPlainText(m.View(), "Removed Bob Babbage") {
		t.Error("View() should show the removed status")
	}
}

func TestModel_DeleteOnEmptyListIsNoop(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(t, m, "tab")
	m, cmd := press(t, m, "x")
	if cmd != nil || m.status != "" {
		t.Error("delete on an empty list should do nothing")
	}
}

func TestModel_EditFlow(t *testing.T) {
	// Given: two users and the list focused
	m := newTestModel(t, ada, bob)
	m, _ = press(t, m, "tab")

	// When: the first user is opened for editing
	m, _ = press(t, m, "e")

	// Then: the dialog is open on that user
	if m.mode != ModeEdit {
		t.Fatalf("mode = %d, want ModeEdit", m.mode)
	}
	if !containsPlainText(m.View(), "Edit Details") {
		t.Error("View() should show the dialog title")
	}

	// When: the first name is replaced and saved
	m, _ = press(t, m, "ctrl+u")
	m = typeText(t, m, "Augusta")
	m, cmd := press(t, m, "enter")
	if m.mode != ModeMain {
		t.Errorf("mode after save = %d, want ModeMain", m.mode)
	}
	m = runCmd(t, m, cmd)

	// Then: the record is replaced in place
	want := []user.Record{ada.Set(user.FieldFirstName, "Augusta"), bob}
	got := m.store.Users()
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("users = %+v, want %+v", got, want)
	}
	if !containsPlainText(m.View(), "Augusta Lovelace") {
		t.Error("View() should show the edited name")
	}
}

func TestModel_EditLongRecordSavesUnchanged(t *testing.T) {
	// Given: a stored record whose fields exceed the create-form input cap
	long := user.Record{
		FirstName: strings.Repeat("a", 200),
		LastName:  strings.Repeat("b", 200),
		Email:     strings.Repeat("c", 200) + "@example.com",
		Phone:     "5551234567",
	}
	m := newTestModel(t, long, bob)
	m, _ = press(t, m, "tab")

	// When: it is opened and saved without edits
	m, _ = press(t, m, "e")
	if got := m.dialog.Draft(); got != long {
		t.Fatalf("dialog draft = %+v, want %+v", got, long)
	}
	m, cmd := press(t, m, "enter")
	m = runCmd(t, m, cmd)

	// Then: the stored record is unchanged and no error is reported
	got := m.store.Users()
	if len(got) != 2 || got[0] != long || got[1] != bob {
		t.Errorf("users = %+v, want [%+v %+v]", got, long, bob)
	}
	if m.statusErr {
		t.Errorf("status = %q, want no error", m.status)
	}
}

func TestModel_EditInvalidKeepsDialog(t *testing.T) {
	m := newTestModel(t, ada)
	m, _ = press(t, m, "tab")
	m, _ = press(t, m, "enter")
	m, _ = press(t, m, "ctrl+u")

	m, cmd := press(t, m, "enter")

	if m.mode != ModeEdit {
		t.Errorf("mode = %d, want ModeEdit", m.mode)
	}
	if cmd != nil {
		t.Error("failed save should not return a command")
	}
	if !containsPlainText(m.View(), "First name is required") {
		t.Error("View() should show the edit message")
	}
	if got := m.store.Users()[0]; got != ada {
		t.Errorf("store record = %+v, want unchanged", got)
	}
}

func TestModel_EditEscLeavesStore(t *testing.T) {
	// Given: an open dialog with an unsaved change
	m := newTestModel(t, ada)
	m, _ = press(t, m, "tab")
	m, _ = press(t, m, "e")
	m, _ = press(t, m, "ctrl+u")
	m = typeText(t, m, "Zed")

	// When: esc is pressed
	m, cmd := press(t, m, "esc")
	m = runCmd(t, m, cmd)

	// Then: the dialog is closed and the store is unchanged
	if m.mode != ModeMain {
		t.Errorf("mode = %d, want ModeMain", m.mode)
	}
	if got := m.store.Users()[0]; got != ada {
		t.Errorf("store record = %+v, want unchanged", got)
	}

	// And: reopening shows the stored values again
	m, _ = press(t, m, "e")
	if m.dialog.Draft() != ada {
		t.Errorf("draft = %+v, want %+v", m.dialog.Draft(), ada)
	}
}

func TestModel_EditChangedEmailIsNoop(t *testing.T) {
	// Given: the dialog open on ada with the email replaced
	m := newTestModel(t, ada)
	m, _ = press(t, m, "tab")
	m, _ = press(t, m, "e")
	for i := 0; i < 2; i++ {
		m, _ = press(t, m, "down")
	}
	m, _ = press(t, m, "ctrl+u")
	m = typeText(t, m, "new@example.com")

	// When: it is saved
	m, cmd := press(t, m, "enter")
	m = runCmd(t, m, cmd)

	// Then: nothing changes and the status explains why
	if got := m.store.Users(); len(got) != 1 || got[0] != ada {
		t.Errorf("users = %+v, want [%+v]", got, ada)
	}
	if !m.statusErr || !containsText(m.status, "nothing changed") {
		t.Errorf("status = %q, want a nothing changed error", m.status)
	}
}

func TestModel_HelpBarReflectsState(t *testing.T) {
	tests := []struct {
		name     string
		keys     []string
		wantText string
	}{
		{"form", nil, "create"},
		{"list", []string{"tab"}, "delete"},
		{"dialog", []string{"tab", "e"}, "close"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t, ada)
			for _, k := range tt.keys {
				m, _ = press(t, m, k)
			}
			if !containsPlainText(m.View(), tt.wantText) {
				t.Errorf("View() should contain %q", tt.wantText)
			}
		})
	}
}

func TestModel_ListScrollsToCursor(t *testing.T) {
	// Given: more users than fit in a short terminal
	var users []user.Record
	for i := 0; i < 10; i++ {
		users = append(users, ada.Set(user.FieldEmail, string(rune('a'+i))+"@example.com"))
	}
	m := newSizedModelWith(store.New(users, nil), 90, 16)
	m, _ = press(t, m, "tab")

	// When: the cursor moves to the last row
	for i := 0; i < 9; i++ {
		m, _ = press(t, m, "down")
	}

	// Then: the viewport has scrolled so the row is visible
	if m.viewport.YOffset == 0 {
		t.Error("viewport should scroll down")
	}
	if !containsPlainText(m.viewport.View(), "j@example.com") {
		t.Error("last row should be visible")
	}
}

func TestModel_PersistsToSession(t *testing.T) {
	// Given: a model backed by a session snapshot
	fs := session.NewFileStore(t.TempDir(), "dash")
	m := newSizedModelWith(store.New(nil, fs), 90, 40)

	// When: two users are created and one removed
	m = fillForm(t, m, ada)
	m, _ = press(t, m, "enter")
	m = fillForm(t, m, bob)
	m, _ = press(t, m, "enter")
	m, _ = press(t, m, "tab")
	_, _ = press(t, m, "d")

	// Then: the snapshot holds the remaining user
	got, err := fs.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(got) != 1 || got[0] != bob {
		t.Errorf("snapshot = %+v, want [%+v]", got, bob)
	}
}

// TestModel_Teatest_CreateFlow drives the program end to end via teatest.
func TestModel_Teatest_CreateFlow(t *testing.T) {
	st := store.New(nil, nil)
	m := NewModel(st)

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(90, 30))

	for i, f := range user.Fields {
		if i > 0 {
			tm.Send(tea.KeyMsg{Type: tea.KeyDown})
		}
		tm.Type(ada.Get(f))
	}
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	tm.Send(tea.KeyMsg{Type: tea.KeyTab})
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})

	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))

	final := tm.FinalModel(t).(Model)
	if got := final.store.Users(); len(got) != 1 || got[0] != ada {
		t.Errorf("users = %+v, want [%+v]", got, ada)
	}
	if final.focus != PaneList {
		t.Errorf("focus = %d, want PaneList", final.focus)
	}
}
