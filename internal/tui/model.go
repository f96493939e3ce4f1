// Package tui provides the terminal settings dialog
package tui

import (
	"context"
	"errors"

	"aisettings/internal/catalog"
	"aisettings/internal/notify"
	"aisettings/internal/settings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewState represents the current view state
type ViewState int

const (
	ViewDialog      ViewState = iota // Settings dialog
	ViewModelSelect                  // Model list for one category
	ViewHelp                         // Help panel
	ViewClosed                       // Dialog closed after save
)

// Model is the core state model for TUI
type Model struct {
	ctrl   *settings.Controller
	bridge *Bridge
	keys   KeyMap

	viewState ViewState
	focus     Field
	snap      settings.Snapshot

	// API key editing
	keyInput   textinput.Model
	editingKey bool
	revealKey  bool

	// Model selection state
	modelCategory     catalog.Category
	modelList         []catalog.ModelDescriptor
	modelCursor       int
	modelScrollOffset int

	// Messages and errors
	message  string
	errorMsg string

	// Window size
	width  int
	height int

	quitting bool
}

// NewModel creates a new TUI model around ctrl. The bridge must be the
// controller's Notifier and ReloadTrigger.
func NewModel(ctrl *settings.Controller, bridge *Bridge) Model {
	return Model{
		ctrl:      ctrl,
		bridge:    bridge,
		keys:      DefaultKeyMap(),
		viewState: ViewDialog,
		keyInput:  newKeyInput(),
		width:     80,
		height:    24,
		snap:      ctrl.Snapshot(),
	}
}

// Init opens the dialog and starts listening for notices and reloads
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		openSettings(m.ctrl),
		m.bridge.waitForNotice(),
		m.bridge.waitForReload(),
	)
}

// openSettings starts a load cycle and reports once it finished
func openSettings(ctrl *settings.Controller) tea.Cmd {
	done := ctrl.Open(context.Background())
	return func() tea.Msg {
		<-done
		return LoadedMsg{}
	}
}

// saveSettings starts a save and reports once it finished
func saveSettings(ctrl *settings.Controller) tea.Cmd {
	done, err := ctrl.Save(context.Background())
	if err != nil {
		return func() tea.Msg { return SaveRejectedMsg{Err: err} }
	}
	return func() tea.Msg {
		<-done
		return SavedMsg{}
	}
}

func openHelp(ctrl *settings.Controller) tea.Cmd {
	url := ctrl.OpenHelp()
	return func() tea.Msg { return HelpOpenedMsg{URL: url} }
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.adjustModelScrollOffset()
		return m, nil

	case LoadedMsg:
		m.refresh()
		applyProvider(&m.keyInput, m.snap.Draft.Provider)
		return m, nil

	case SavedMsg:
		m.refresh()
		if m.snap.State == settings.StateClosed {
			m.viewState = ViewClosed
			m.editingKey = false
		}
		return m, nil

	case SaveRejectedMsg:
		m.refresh()
		m.message = ""
		m.errorMsg = describeRejection(msg.Err)
		return m, nil

	case NoticeMsg:
		if msg.Kind == notify.KindError {
			m.errorMsg = msg.Message
			m.message = ""
		} else {
			m.message = msg.Message
			m.errorMsg = ""
		}
		return m, m.bridge.waitForNotice()

	case ReloadMsg:
		// the saved settings take effect by reopening from the store
		m.viewState = ViewDialog
		m.focus = FieldProvider
		m.message = "Settings reloaded"
		m.errorMsg = ""
		cmd := tea.Batch(m.bridge.waitForReload(), openSettings(m.ctrl))
		m.refresh()
		return m, cmd

	case HelpOpenedMsg:
		m.message = "Opened " + msg.URL
		m.errorMsg = ""
		return m, nil
	}

	return m, nil
}

func describeRejection(err error) string {
	switch {
	case errors.Is(err, settings.ErrEmptyAPIKey):
		return "Enter an API key before saving"
	case errors.Is(err, settings.ErrBusy):
		return "Please wait for the current operation"
	case errors.Is(err, settings.ErrInvalidDraft):
		return "Pick a model offered by the selected provider"
	default:
		return err.Error()
	}
}

// refresh copies the controller state into the model
func (m *Model) refresh() {
	m.snap = m.ctrl.Snapshot()
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.ctrl.Close()
		m.quitting = true
		return m, tea.Quit
	}

	switch m.viewState {
	case ViewModelSelect:
		return m.handleModelSelectViewKeys(msg)
	case ViewHelp:
		if key.Matches(msg, m.keys.Cancel, m.keys.Help, m.keys.Quit) {
			m.viewState = ViewDialog
		}
		return m, nil
	case ViewClosed:
		if key.Matches(msg, m.keys.Quit, m.keys.Cancel) {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	if m.editingKey {
		return m.handleKeyInput(msg)
	}
	return m.handleDialogKeys(msg)
}

// handleDialogKeys handles keyboard input in the dialog
func (m Model) handleDialogKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.refresh()

	switch {
	case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Cancel):
		m.ctrl.Close()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.focus = (m.focus - 1 + FieldCount) % FieldCount
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.focus = (m.focus + 1) % FieldCount
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.focus = FieldProvider
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		m.focus = FieldSave
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.viewState = ViewHelp
		return m, nil

	case key.Matches(msg, m.keys.OpenHelp):
		return m, openHelp(m.ctrl)

	case key.Matches(msg, m.keys.Reveal):
		m.revealKey = !m.revealKey
		return m, nil

	case key.Matches(msg, m.keys.Save):
		return m.startSave()

	case key.Matches(msg, m.keys.Left) && m.focus == FieldProvider:
		return m.changeProvider(-1)

	case key.Matches(msg, m.keys.Right) && m.focus == FieldProvider:
		return m.changeProvider(1)

	case key.Matches(msg, m.keys.Select):
		return m.selectFocused()
	}

	return m, nil
}

func (m Model) selectFocused() (tea.Model, tea.Cmd) {
	switch m.focus {
	case FieldProvider:
		return m.changeProvider(1)
	case FieldAPIKey:
		if m.snap.State != settings.StateReady {
			return m, nil
		}
		m.editingKey = true
		m.keyInput.SetValue(m.snap.Draft.APIKey)
		m.keyInput.CursorEnd()
		return m, m.keyInput.Focus()
	case FieldSave:
		return m.startSave()
	}

	if c, ok := m.focus.Category(); ok {
		if m.snap.State != settings.StateReady {
			return m, nil
		}
		m.initModelSelect(c)
	}
	return m, nil
}

func (m Model) changeProvider(step int) (tea.Model, tea.Cmd) {
	next := nextProvider(m.snap.Draft.Provider, step)
	if err := m.ctrl.ChangeProvider(next); err != nil {
		m.errorMsg = err.Error()
		return m, nil
	}
	applyProvider(&m.keyInput, next)
	m.errorMsg = ""
	m.refresh()
	return m, nil
}

func (m Model) startSave() (tea.Model, tea.Cmd) {
	if !m.snap.CanSave() {
		// mirrors the disabled save button
		return m, nil
	}
	m.message = ""
	m.errorMsg = ""
	cmd := saveSettings(m.ctrl)
	m.refresh()
	return m, cmd
}

// handleKeyInput forwards keys to the API key field while it is edited
func (m Model) handleKeyInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.editingKey = false
		m.keyInput.Blur()
		if err := m.ctrl.SetAPIKey(m.keyInput.Value()); err != nil {
			m.errorMsg = err.Error()
		}
		m.refresh()
		return m, nil
	case tea.KeyEsc:
		m.editingKey = false
		m.keyInput.Blur()
		m.keyInput.SetValue(m.snap.Draft.APIKey)
		return m, nil
	}

	var cmd tea.Cmd
	m.keyInput, cmd = m.keyInput.Update(msg)
	return m, cmd
}

func (m *Model) initModelSelect(c catalog.Category) {
	m.modelCategory = c
	m.modelList = catalog.ListModels(m.snap.Draft.Provider, c)
	m.modelCursor = 0
	m.modelScrollOffset = 0
	current := m.snap.Draft.Model(c)
	for i, model := range m.modelList {
		if model.ID == current {
			m.modelCursor = i
			break
		}
	}
	m.adjustModelScrollOffset()
	m.viewState = ViewModelSelect
	m.message = ""
	m.errorMsg = ""
}

// handleModelSelectViewKeys handles keyboard input in model selection view
func (m Model) handleModelSelectViewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Quit):
		m.closeModelSelect()
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.modelCursor < len(m.modelList)-1 {
			m.modelCursor++
			m.adjustModelScrollOffset()
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.modelCursor > 0 {
			m.modelCursor--
			m.adjustModelScrollOffset()
		}
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.modelCursor = 0
		m.modelScrollOffset = 0
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		if len(m.modelList) > 0 {
			m.modelCursor = len(m.modelList) - 1
			m.adjustModelScrollOffset()
		}
		return m, nil

	case key.Matches(msg, m.keys.Select):
		if m.modelCursor >= 0 && m.modelCursor < len(m.modelList) {
			if err := m.ctrl.PickModel(m.modelCategory, m.modelList[m.modelCursor].ID); err != nil {
				m.errorMsg = err.Error()
			}
		}
		m.focus = fieldForCategory(m.modelCategory)
		m.closeModelSelect()
		m.refresh()
		return m, nil
	}
	return m, nil
}

func (m *Model) closeModelSelect() {
	m.viewState = ViewDialog
	m.modelList = nil
	m.modelCursor = 0
	m.modelScrollOffset = 0
}

// getVisibleModelListHeight returns the number of lines available for the model list
func (m *Model) getVisibleModelListHeight() int {
	// title, separator, blank, category info (2), blank, then footer
	headerLines := 6
	footerLines := 3

	available := m.height - headerLines - footerLines
	if available < 1 {
		available = 1
	}
	return available
}

// adjustModelScrollOffset keeps the model cursor visible
func (m *Model) adjustModelScrollOffset() {
	visibleHeight := m.getVisibleModelListHeight()

	if m.modelCursor < m.modelScrollOffset {
		m.modelScrollOffset = m.modelCursor
	}
	if m.modelCursor >= m.modelScrollOffset+visibleHeight {
		m.modelScrollOffset = m.modelCursor - visibleHeight + 1
	}

	maxOffset := len(m.modelList) - visibleHeight
	if maxOffset < 0 {
		maxOffset = 0
	}
	if m.modelScrollOffset > maxOffset {
		m.modelScrollOffset = maxOffset
	}
	if m.modelScrollOffset < 0 {
		m.modelScrollOffset = 0
	}
}

// View renders the current view
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	switch m.viewState {
	case ViewHelp:
		return m.RenderHelpView()
	case ViewModelSelect:
		return m.RenderModelSelectView()
	case ViewClosed:
		return m.RenderClosedView()
	default:
		return m.RenderDialogView()
	}
}
