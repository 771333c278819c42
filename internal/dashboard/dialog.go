package dashboard

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/smileynet/roster/internal/user"
	"github.com/smileynet/roster/internal/validate"
)

// dialogState is the modal "Edit Details" dialog. It edits a local draft of
// one record and never touches the store; a successful save is reported to
// the parent as a SaveUserMsg.
//
//	Closed --Open(R)--> Open(draft=R)
//	Open --edit--> Open(draft changed)
//	Open --save ok--> SaveUserMsg, Closed
//	Open --save fails--> Open(errors shown)
//	Open --close--> Closed
type dialogState struct {
	open   bool
	fields fieldSet
}

// newDialogState returns a closed dialog.
func newDialogState() dialogState {
	return dialogState{fields: newFieldSet(0, false)}
}

// IsOpen reports whether the dialog is visible.
func (ds dialogState) IsOpen() bool {
	return ds.open
}

// Draft returns the dialog's working copy.
func (ds dialogState) Draft() user.Record {
	return ds.fields.Draft()
}

// Errors returns the errors from the last save attempt.
func (ds dialogState) Errors() validate.Errors {
	return ds.fields.errs
}

// Open shows the dialog seeded with r. The draft always resets to r, so
// unsaved edits from an earlier opening are discarded.
func (ds dialogState) Open(r user.Record) (dialogState, tea.Cmd) {
	ds.open = true
	ds.fields = ds.fields.Load(r)
	ds.fields.active = user.FieldFirstName
	var cmd tea.Cmd
	ds.fields, cmd = ds.fields.Focus()
	return ds, cmd
}

// Close hides the dialog. The draft is left as-is until the next Open.
func (ds dialogState) Close() dialogState {
	ds.open = false
	ds.fields = ds.fields.Blur()
	return ds
}

// Save validates the draft with the edit-dialog rules. On success it returns the
// draft with ok set and the dialog closed; on failure the dialog stays open
// with the errors attached.
func (ds dialogState) Save(v *validate.Validator) (dialogState, user.Record, bool) {
	var ok bool
	ds.fields, ok = ds.fields.Check(v, validate.Edit)
	if !ok {
		return ds, user.Record{}, false
	}
	draft := ds.fields.Draft()
	return ds.Close(), draft, true
}

// Update handles keys while the dialog is open.
func (ds dialogState) Update(msg tea.Msg, v *validate.Validator) (dialogState, tea.Cmd) {
	if !ds.open {
		return ds, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		ds.fields, cmd = ds.fields.Update(msg)
		return ds, cmd
	}

	keys := DialogKeyMap()
	switch {
	case key.Matches(keyMsg, keys.Close):
		ds = ds.Close()
		return ds, func() tea.Msg { return CloseDialogMsg{} }

	case key.Matches(keyMsg, keys.Save):
		var (
			saved user.Record
			ok    bool
		)
		ds, saved, ok = ds.Save(v)
		if !ok {
			return ds, nil
		}
		return ds, func() tea.Msg { return SaveUserMsg{Record: saved} }

	case key.Matches(keyMsg, keys.Next):
		var cmd tea.Cmd
		ds.fields, cmd = ds.fields.Next()
		return ds, cmd

	case key.Matches(keyMsg, keys.Prev):
		var cmd tea.Cmd
		ds.fields, cmd = ds.fields.Prev()
		return ds, cmd
	}

	var cmd tea.Cmd
	ds.fields, cmd = ds.fields.Update(msg)
	return ds, cmd
}

// View renders the dialog box.
func (ds dialogState) View(width int) string {
	var b strings.Builder
	b.WriteString(titleText.Render("Edit Details"))
	b.WriteString("\n\n")
	b.WriteString(ds.fields.View())
	b.WriteString("\n\n")
	b.WriteString(buttonFocused.Render("Save"))
	b.WriteString("  ")
	b.WriteString(mutedText.Render("[esc] close"))

	boxWidth := dialogWidth(width)
	return DialogBorder().Width(boxWidth).Render(b.String())
}
