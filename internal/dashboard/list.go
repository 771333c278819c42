package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/smileynet/roster/internal/user"
)

// CursorMarker is the prefix shown on the selected user row.
const CursorMarker = "▸ "

// emptyListText is shown when the session has no users.
const emptyListText = "No User Found"

// rowHeight is the number of lines one user occupies, including the gap.
const rowHeight = 3

// listState manages the user rows and cursor for the right pane.
type listState struct {
	users  []user.Record
	cursor int
}

// SetUsers replaces the rows and keeps the cursor in range.
func (ls listState) SetUsers(users []user.Record) listState {
	ls.users = append([]user.Record(nil), users...)
	if ls.cursor >= len(ls.users) {
		ls.cursor = len(ls.users) - 1
	}
	if ls.cursor < 0 {
		ls.cursor = 0
	}
	return ls
}

// Update processes navigation keys. Edit and delete are handled by Model
// since they act on the store.
func (ls listState) Update(msg tea.Msg) listState {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || len(ls.users) == 0 {
		return ls
	}

	keys := ListKeyMap()
	switch {
	case key.Matches(keyMsg, keys.Up):
		ls.cursor--
		if ls.cursor < 0 {
			ls.cursor = len(ls.users) - 1
		}
	case key.Matches(keyMsg, keys.Down):
		ls.cursor++
		if ls.cursor >= len(ls.users) {
			ls.cursor = 0
		}
	}
	return ls
}

// Selected returns the record under the cursor.
func (ls listState) Selected() (user.Record, bool) {
	if len(ls.users) == 0 || ls.cursor < 0 || ls.cursor >= len(ls.users) {
		return user.Record{}, false
	}
	return ls.users[ls.cursor], true
}

// CursorLine returns the first content line of the selected row.
func (ls listState) CursorLine() int {
	return ls.cursor * rowHeight
}

// View renders every user row. Each row shows the avatar and full name on
// the first line and the email and phone dimmed beneath.
func (ls listState) View() string {
	if len(ls.users) == 0 {
		return mutedText.Render(emptyListText)
	}

	var b strings.Builder
	for i, u := range ls.users {
		if i > 0 {
			b.WriteString("\n\n")
		}
		marker := "  "
		if i == ls.cursor {
			marker = CursorMarker
		}
		b.WriteString(marker)
		b.WriteString(AvatarBadge(u))
		b.WriteByte(' ')
		b.WriteString(u.FullName())
		b.WriteByte('\n')
		b.WriteString("      ")
		b.WriteString(mutedText.Render(fmt.Sprintf("%s · %s", u.Email, u.Phone)))
	}
	return b.String()
}

// Title returns the pane heading with the current count.
func (ls listState) Title() string {
	return fmt.Sprintf("Details (%d)", len(ls.users))
}
