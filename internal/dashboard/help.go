package dashboard

import "github.com/charmbracelet/bubbles/help"

// HelpBindings returns the help.KeyMap for the given mode and focus,
// providing context-aware help bar content.
func HelpBindings(mode Mode, focus Focus) help.KeyMap {
	switch {
	case mode == ModeEdit:
		return DialogKeyMap()
	case focus == PaneList:
		return ListKeyMap()
	default:
		return FormKeyMap()
	}
}
