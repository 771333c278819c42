package dashboard

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/smileynet/roster/internal/user"
	"github.com/smileynet/roster/internal/validate"
)

// createCharLimit caps each create-form input. The edit dialog has no cap
// so a stored record loads into it unchanged.
const createCharLimit = 128

// placeholders are shown in empty create-form inputs.
var placeholders = map[user.Field]string{
	user.FieldFirstName: "Enter your first name",
	user.FieldLastName:  "Enter your last name",
	user.FieldEmail:     "Enter your email",
	user.FieldPhone:     "Enter your phone number",
}

// fieldSet is the four-input editor shared by the create form and the edit
// dialog. Inputs are indexed by user.Field.
type fieldSet struct {
	inputs [4]textinput.Model
	active user.Field
	errs   validate.Errors
}

// newFieldSet builds an empty fieldSet. A charLimit of 0 means unlimited.
func newFieldSet(charLimit int, withPlaceholders bool) fieldSet {
	var fs fieldSet
	for _, f := range user.Fields {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.CharLimit = charLimit
		if withPlaceholders {
			ti.Placeholder = placeholders[f]
		}
		fs.inputs[f] = ti
	}
	return fs
}

// Draft returns the current input values as a record.
func (fs fieldSet) Draft() user.Record {
	var r user.Record
	for _, f := range user.Fields {
		r = r.Set(f, fs.inputs[f].Value())
	}
	return r
}

// Load replaces every input value with r's fields and clears errors.
func (fs fieldSet) Load(r user.Record) fieldSet {
	for _, f := range user.Fields {
		fs.inputs[f].SetValue(r.Get(f))
		fs.inputs[f].CursorEnd()
	}
	fs.errs = nil
	return fs
}

// Focus focuses the active input and blurs the others.
func (fs fieldSet) Focus() (fieldSet, tea.Cmd) {
	var cmd tea.Cmd
	for _, f := range user.Fields {
		if f == fs.active {
			cmd = fs.inputs[f].Focus()
		} else {
			fs.inputs[f].Blur()
		}
	}
	return fs, cmd
}

// Blur removes focus from every input.
func (fs fieldSet) Blur() fieldSet {
	for _, f := range user.Fields {
		fs.inputs[f].Blur()
	}
	return fs
}

// Next moves focus to the following field, wrapping around.
func (fs fieldSet) Next() (fieldSet, tea.Cmd) {
	fs.active = (fs.active + 1) % user.Field(len(user.Fields))
	return fs.Focus()
}

// Prev moves focus to the preceding field, wrapping around.
func (fs fieldSet) Prev() (fieldSet, tea.Cmd) {
	n := user.Field(len(user.Fields))
	fs.active = (fs.active + n - 1) % n
	return fs.Focus()
}

// Update forwards msg to the active input.
func (fs fieldSet) Update(msg tea.Msg) (fieldSet, tea.Cmd) {
	var cmd tea.Cmd
	fs.inputs[fs.active], cmd = fs.inputs[fs.active].Update(msg)
	return fs, cmd
}

// Check validates the draft with v under profile p and stores the result.
func (fs fieldSet) Check(v *validate.Validator, p validate.Profile) (fieldSet, bool) {
	fs.errs = v.Check(p, fs.Draft())
	return fs, fs.errs.OK()
}

// View renders label, input and inline error for each field.
func (fs fieldSet) View() string {
	var b strings.Builder
	for i, f := range user.Fields {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(labelText.Render(f.Label()))
		b.WriteByte('\n')
		b.WriteString(fs.inputs[f].View())
		if msg := fs.errs.Get(f); msg != "" {
			b.WriteByte('\n')
			b.WriteString(errorText.Render(msg))
		}
	}
	return b.String()
}
