package dashboard

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/smileynet/roster/internal/user"
	"github.com/smileynet/roster/internal/validate"
)

// formState is the "Create User" pane: one draft plus its field errors.
type formState struct {
	fields fieldSet
}

// newFormState returns an empty create form with the first field active.
func newFormState() formState {
	return formState{fields: newFieldSet(createCharLimit, true)}
}

// Draft returns the record currently typed into the form.
func (fs formState) Draft() user.Record {
	return fs.fields.Draft()
}

// Errors returns the errors from the last submit.
func (fs formState) Errors() validate.Errors {
	return fs.fields.errs
}

// Submit validates the draft with the create rules. It returns the draft
// and true when it may be dispatched; otherwise the errors are kept for
// display and ok is false.
func (fs formState) Submit(v *validate.Validator) (formState, user.Record, bool) {
	var ok bool
	fs.fields, ok = fs.fields.Check(v, validate.Create)
	return fs, fs.fields.Draft(), ok
}

// Reset clears the draft and all errors, returning focus to the first field.
func (fs formState) Reset() (formState, tea.Cmd) {
	fs.fields = fs.fields.Load(user.Record{})
	fs.fields.active = user.FieldFirstName
	var cmd tea.Cmd
	fs.fields, cmd = fs.fields.Focus()
	return fs, cmd
}

// SetError attaches a message to one field, used for store rejections.
func (fs formState) SetError(f user.Field, msg string) formState {
	errs := make(validate.Errors, len(fs.fields.errs)+1)
	for k, v := range fs.fields.errs {
		errs[k] = v
	}
	errs[f] = msg
	fs.fields.errs = errs
	return fs
}

// View renders the form pane content.
func (fs formState) View(focused bool) string {
	var b strings.Builder
	b.WriteString(titleText.Render("Create User"))
	b.WriteString("\n\n")
	b.WriteString(fs.fields.View())
	b.WriteString("\n\n")
	if focused {
		b.WriteString(buttonFocused.Render("Create"))
	} else {
		b.WriteString(buttonBlurred.Render("Create"))
	}
	return b.String()
}
