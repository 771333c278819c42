// Package dashboard implements the two-pane roster TUI: a create form on the
// left, the user list on the right, and a modal dialog for editing one user.
package dashboard

import "github.com/smileynet/roster/internal/user"

// Mode represents the current dashboard view mode.
type Mode int

const (
	ModeMain Mode = iota // Form and list panes are visible.
	ModeEdit             // Edit dialog is open over the panes.
)

// Focus represents which pane has keyboard focus in ModeMain.
type Focus int

const (
	PaneForm Focus = iota // Create form has focus.
	PaneList              // User list has focus.
)

// --- tea.Msg types ---

// SaveUserMsg is emitted by the edit dialog when its draft passes
// validation. Model.Update dispatches it as an EditUser action.
type SaveUserMsg struct {
	Record user.Record
}

// CloseDialogMsg is emitted when the edit dialog is dismissed without saving.
type CloseDialogMsg struct{}
