package dashboard

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/smileynet/roster/internal/store"
	"github.com/smileynet/roster/internal/user"
	"github.com/smileynet/roster/internal/validate"
)

// helpBarHeight is the number of lines reserved for the help bar at the bottom.
const helpBarHeight = 1

// statusBarHeight is the number of lines reserved for the status line.
const statusBarHeight = 1

// borderChrome is the number of lines consumed by top + bottom borders.
const borderChrome = 2

// listHeaderHeight is the pane title plus the blank line beneath it.
const listHeaderHeight = 2

// duplicateEmailText is shown under the email input when the store rejects
// an add because the address is taken.
const duplicateEmailText = "Email already exists"

// Model is the root Bubble Tea model for the roster TUI.
// It manages a two-pane layout with mode-based routing and focus management.
type Model struct {
	mode     Mode
	focus    Focus
	width    int
	height   int
	viewport viewport.Model
	help     help.Model

	store     *store.Store
	validator *validate.Validator
	logger    *zap.Logger

	form   formState
	list   listState
	dialog dialogState

	status    string
	statusErr bool
}

// Option configures a Model.
type Option func(*Model)

// WithValidator sets the validator used by the form and the dialog.
func WithValidator(v *validate.Validator) Option {
	return func(m *Model) {
		if v != nil {
			m.validator = v
		}
	}
}

// WithLogger sets the logger for UI events.
func WithLogger(l *zap.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewModel creates a dashboard Model over st with the create form focused.
func NewModel(st *store.Store, opts ...Option) Model {
	m := Model{
		mode:      ModeMain,
		focus:     PaneForm,
		viewport:  viewport.New(0, 0),
		help:      help.New(),
		store:     st,
		validator: validate.New(),
		logger:    zap.NewNop(),
		form:      newFormState(),
		dialog:    newDialogState(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.form.fields, _ = m.form.fields.Focus()
	m.refreshList()
	return m
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages with mode-based routing.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		_, rightWidth := PaneWidths(msg.Width)
		vpWidth := rightWidth - borderChrome
		if vpWidth < 0 {
			vpWidth = 0
		}
		m.viewport.Width = vpWidth
		m.viewport.Height = m.listHeight()
		m.refreshList()
		return m, nil

	case SaveUserMsg:
		m.mode = ModeMain
		m.applyEdit(msg.Record)
		return m, nil

	case CloseDialogMsg:
		m.mode = ModeMain
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.forward(msg)
}

// forward passes non-key messages, such as cursor blinks, to whichever
// input currently has focus.
func (m Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.mode == ModeEdit:
		m.dialog, cmd = m.dialog.Update(msg, m.validator)
	case m.focus == PaneForm:
		m.form.fields, cmd = m.form.fields.Update(msg)
	}
	return m, cmd
}

// handleKey processes key messages with global and mode-specific routing.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.mode == ModeEdit {
		var cmd tea.Cmd
		m.dialog, cmd = m.dialog.Update(msg, m.validator)
		if !m.dialog.IsOpen() {
			m.mode = ModeMain
		}
		return m, cmd
	}

	if msg.String() == "tab" {
		return m.toggleFocus()
	}

	if m.focus == PaneList {
		return m.handleListKey(msg)
	}
	return m.handleFormKey(msg)
}

// toggleFocus switches between the form and list panes.
func (m Model) toggleFocus() (tea.Model, tea.Cmd) {
	if m.focus == PaneForm {
		m.focus = PaneList
		m.form.fields = m.form.fields.Blur()
		return m, nil
	}
	m.focus = PaneForm
	var cmd tea.Cmd
	m.form.fields, cmd = m.form.fields.Focus()
	return m, cmd
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := FormKeyMap()
	var cmd tea.Cmd
	switch {
	case key.Matches(msg, keys.Submit):
		return m.submitCreate()
	case key.Matches(msg, keys.Next):
		m.form.fields, cmd = m.form.fields.Next()
	case key.Matches(msg, keys.Prev):
		m.form.fields, cmd = m.form.fields.Prev()
	default:
		m.form.fields, cmd = m.form.fields.Update(msg)
	}
	return m, cmd
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := ListKeyMap()
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Edit):
		selected, ok := m.list.Selected()
		if !ok {
			return m, nil
		}
		var cmd tea.Cmd
		m.dialog, cmd = m.dialog.Open(selected)
		m.mode = ModeEdit
		return m, cmd

	case key.Matches(msg, keys.Delete):
		selected, ok := m.list.Selected()
		if !ok {
			return m, nil
		}
		if err := m.store.Dispatch(store.RemoveUser{Email: selected.Email}); err != nil {
			m.setError(err)
		} else {
			m.setStatus(fmt.Sprintf("Removed %s", selected.FullName()))
		}
		m.refreshList()
		return m, nil
	}

	m.list = m.list.Update(msg)
	m.scrollToCursor()
	return m, nil
}

// submitCreate validates the create form and adds the draft on success.
func (m Model) submitCreate() (tea.Model, tea.Cmd) {
	var (
		draft user.Record
		ok    bool
	)
	m.form, draft, ok = m.form.Submit(m.validator)
	if !ok {
		m.logger.Debug("create rejected", zap.String("errors", m.form.Errors().String()))
		return m, nil
	}

	if err := m.store.Dispatch(store.AddUser{Record: draft}); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			m.form = m.form.SetError(user.FieldEmail, duplicateEmailText)
			return m, nil
		}
		// The record is in memory even though the snapshot write failed.
		m.setError(err)
	} else {
		m.setStatus(fmt.Sprintf("Added %s", draft.FullName()))
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Reset()
	m.refreshList()
	return m, cmd
}

// applyEdit dispatches a saved dialog draft. A draft whose email matches no
// record leaves the list unchanged.
func (m *Model) applyEdit(r user.Record) {
	if _, err := m.store.Find(r.Email); err != nil {
		m.setError(fmt.Errorf("no user with email %s; nothing changed", r.Email))
		return
	}
	if err := m.store.Dispatch(store.EditUser{Record: r}); err != nil {
		m.setError(err)
	} else {
		m.setStatus(fmt.Sprintf("Saved %s", r.FullName()))
	}
	m.refreshList()
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.logger.Warn("dashboard action failed", zap.Error(err))
	m.status = err.Error()
	m.statusErr = true
}

// refreshList reloads rows from the store and re-renders the viewport.
func (m *Model) refreshList() {
	m.list = m.list.SetUsers(m.store.Users())
	m.scrollToCursor()
}

// scrollToCursor re-renders the rows and keeps the selected row visible.
func (m *Model) scrollToCursor() {
	m.viewport.SetContent(m.list.View())
	if m.viewport.Height <= 0 {
		return
	}
	top := m.list.CursorLine()
	bottom := top + rowHeight - 2
	switch {
	case top < m.viewport.YOffset:
		m.viewport.SetYOffset(top)
	case bottom >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(bottom - m.viewport.Height + 1)
	}
}

// contentHeight returns the usable height for pane content,
// accounting for border chrome, the status line and the help bar.
func (m Model) contentHeight() int {
	h := m.height - borderChrome - statusBarHeight - helpBarHeight
	if h < 1 {
		return 1
	}
	return h
}

// listHeight returns the viewport height below the list title.
func (m Model) listHeight() int {
	h := m.contentHeight() - listHeaderHeight
	if h < 1 {
		return 1
	}
	return h
}

// View renders the two-pane layout, the status line and the help bar.
// While the edit dialog is open it is centered in place of the panes.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	leftWidth, rightWidth := PaneWidths(m.width)
	contentHeight := m.contentHeight()

	var body string
	if m.mode == ModeEdit {
		body = lipgloss.Place(
			m.width, contentHeight+borderChrome,
			lipgloss.Center, lipgloss.Center,
			m.dialog.View(m.width),
		)
	} else {
		var leftStyle, rightStyle lipgloss.Style
		if m.focus == PaneForm {
			leftStyle = FocusedBorder()
			rightStyle = UnfocusedBorder()
		} else {
			leftStyle = UnfocusedBorder()
			rightStyle = FocusedBorder()
		}

		leftStyle = leftStyle.
			Width(leftWidth - borderChrome).
			Height(contentHeight)
		rightStyle = rightStyle.
			Width(rightWidth - borderChrome).
			Height(contentHeight)

		leftPane := leftStyle.Render(m.form.View(m.focus == PaneForm))
		rightPane := rightStyle.Render(m.viewRight())
		body = lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane)
	}

	helpView := m.help.View(HelpBindings(m.mode, m.focus))
	return lipgloss.JoinVertical(lipgloss.Left, body, m.viewStatus(), helpView)
}

// viewRight renders the list title above the scrolling rows.
func (m Model) viewRight() string {
	return titleText.Render(m.list.Title()) + "\n\n" + m.viewport.View()
}

func (m Model) viewStatus() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return statusError.Render("✗ " + m.status)
	}
	return statusOK.Render("✓ " + m.status)
}
