package dashboard

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/smileynet/roster/internal/user"
)

// MinLeftWidth is the minimum character width for the left pane.
const MinLeftWidth = 28

// MaxDialogWidth caps the edit dialog on wide terminals.
const MaxDialogWidth = 60

var (
	accentColor = lipgloss.AdaptiveColor{Light: "4", Dark: "12"}
	dimColor    = lipgloss.AdaptiveColor{Light: "240", Dark: "245"}
	errorColor  = lipgloss.AdaptiveColor{Light: "1", Dark: "9"}
	okColor     = lipgloss.AdaptiveColor{Light: "2", Dark: "10"}

	titleText = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	labelText = lipgloss.NewStyle().Bold(true)
	errorText = lipgloss.NewStyle().Foreground(errorColor)
	mutedText = lipgloss.NewStyle().Foreground(dimColor)

	buttonFocused = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(accentColor).
			Padding(0, 2)
	buttonBlurred = lipgloss.NewStyle().
			Foreground(dimColor).
			Padding(0, 2)

	avatarBadge = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(accentColor).
			Padding(0, 1)

	statusError = lipgloss.NewStyle().Foreground(errorColor)
	statusOK    = lipgloss.NewStyle().Foreground(okColor)
)

// AvatarBadge returns the styled initial shown next to a user row.
func AvatarBadge(r user.Record) string {
	return avatarBadge.Render(r.Avatar())
}

// FocusedBorder returns a lipgloss style with an accent-colored rounded border.
func FocusedBorder() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accentColor)
}

// UnfocusedBorder returns a lipgloss style with a dim rounded border.
func UnfocusedBorder() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.AdaptiveColor{Light: "240", Dark: "240"})
}

// DialogBorder returns the thick accent border used by the edit dialog.
func DialogBorder() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.ThickBorder()).
		BorderForeground(accentColor).
		Padding(0, 1)
}

// PaneWidths calculates the left and right pane widths from a total width.
// Left pane gets 1/3 (minimum MinLeftWidth), right pane gets the rest.
func PaneWidths(totalWidth int) (left, right int) {
	if totalWidth <= 0 {
		return 0, 0
	}
	left = totalWidth / 3
	if left < MinLeftWidth {
		left = MinLeftWidth
	}
	right = totalWidth - left
	if right < 0 {
		right = 0
	}
	return left, right
}

// dialogWidth returns the inner width of the edit dialog for a terminal of
// totalWidth columns: two thirds of the screen, clamped to
// [MinLeftWidth, MaxDialogWidth].
func dialogWidth(totalWidth int) int {
	w := totalWidth * 2 / 3
	if w > MaxDialogWidth {
		w = MaxDialogWidth
	}
	if w < MinLeftWidth {
		w = MinLeftWidth
	}
	return w
}
