package tui

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"aisettings/config/models"
	"aisettings/internal/catalog"
	"aisettings/internal/notify"
	"aisettings/internal/settings"

	tea "github.com/charmbracelet/bubbletea"
)

type memStore struct {
	mu       sync.Mutex
	cfg      models.Config
	setCalls int
}

func (s *memStore) Get(context.Context) (models.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg, nil
}

func (s *memStore) Set(_ context.Context, cfg models.Config) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setCalls++
	s.cfg = cfg
	return true, nil
}

func (s *memStore) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setCalls
}

// newTestModel returns a loaded dialog; reloads fire without delay
func newTestModel(t *testing.T, store *memStore) Model {
	t.Helper()
	bridge := NewBridge()
	ctrl, err := settings.New(settings.Options{
		Store:     store,
		Notifier:  bridge,
		Reload:    bridge,
		AfterFunc: func(_ time.Duration, f func()) { f() },
	})
	if err != nil {
		t.Fatalf("settings.New() error = %v", err)
	}
	m := NewModel(ctrl, bridge)
	return update(t, m, openSettings(ctrl)())
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		m = update(t, m, keyMsg(k))
	}
	return m
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func waitReady(t *testing.T, ctrl *settings.Controller) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for ctrl.Snapshot().State != settings.StateReady {
		if time.Now().After(deadline) {
			t.Fatal("controller never became ready")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestNewModelStartsOnDialog(t *testing.T) {
	m := newTestModel(t, &memStore{})

	if m.viewState != ViewDialog {
		t.Errorf("viewState = %v, want ViewDialog", m.viewState)
	}
	if m.snap.State != settings.StateReady {
		t.Errorf("state = %v, want ready", m.snap.State)
	}

	view := m.View()
	for _, want := range []string{"Groq API Key", "gsk_...", "Llama 4 Scout", "Problem Extraction", "https://console.groq.com/keys"} {
		if !strings.Contains(view, want) {
			t.Errorf("view does not contain %q", want)
		}
	}
}

func TestProviderCycling(t *testing.T) {
	m := newTestModel(t, &memStore{})

	m = press(t, m, "l")
	if m.snap.Draft.Provider != catalog.ProviderOpenAI {
		t.Fatalf("provider = %q, want openai after wrapping", m.snap.Draft.Provider)
	}
	for _, c := range catalog.Categories() {
		if m.snap.Draft.Model(c) != "gpt-4o" {
			t.Errorf("%s = %q, want gpt-4o", c, m.snap.Draft.Model(c))
		}
	}
	if !strings.Contains(m.View(), "OpenAI API Key") {
		t.Error("view should show the OpenAI key label")
	}
	if m.keyInput.Placeholder != "sk-..." {
		t.Errorf("placeholder = %q, want sk-...", m.keyInput.Placeholder)
	}

	m = press(t, m, "h", "h")
	if m.snap.Draft.Provider != catalog.ProviderGemini {
		t.Errorf("provider = %q, want gemini", m.snap.Draft.Provider)
	}

	// provider keys only act on the provider row
	m = press(t, m, "j", "l")
	if m.snap.Draft.Provider != catalog.ProviderGemini {
		t.Errorf("provider changed from the key row: %q", m.snap.Draft.Provider)
	}
}

func TestEditAPIKeyIsMasked(t *testing.T) {
	m := newTestModel(t, &memStore{})

	m = press(t, m, "j", "enter")
	if !m.editingKey {
		t.Fatal("enter on the key row should start editing")
	}
	m = typeText(t, m, "sk-1234567890")
	if strings.Contains(m.View(), "sk-1234567890") {
		t.Error("key must not be echoed while typing")
	}

	m = press(t, m, "enter")
	if m.editingKey {
		t.Error("enter should commit the key")
	}
	if m.snap.Draft.APIKey != "sk-1234567890" {
		t.Errorf("APIKey = %q", m.snap.Draft.APIKey)
	}

	view := m.View()
	if !strings.Contains(view, "sk-1....7890") {
		t.Error("view should show the masked key")
	}
	if strings.Contains(view, "sk-1234567890") {
		t.Error("view leaks the full key")
	}

	m = press(t, m, "v")
	if !strings.Contains(m.View(), "sk-1234567890") {
		t.Error("v should reveal the key")
	}
}

func TestEditAPIKeyCancel(t *testing.T) {
	m := newTestModel(t, &memStore{cfg: models.Config{APIKey: "gsk_original"}})

	m = press(t, m, "j", "enter")
	m = typeText(t, m, "XYZ")
	m = press(t, m, "esc")

	if m.editingKey {
		t.Error("esc should stop editing")
	}
	if m.snap.Draft.APIKey != "gsk_original" {
		t.Errorf("APIKey = %q, want gsk_original", m.snap.Draft.APIKey)
	}
	if m.quitting {
		t.Error("esc while editing must not close the dialog")
	}
}

func TestSaveDisabledWithoutKey(t *testing.T) {
	store := &memStore{}
	m := newTestModel(t, store)

	next, cmd := m.Update(keyMsg("ctrl+s"))
	if cmd != nil {
		t.Error("save should be disabled without a key")
	}
	if store.calls() != 0 {
		t.Errorf("Set calls = %d, want 0", store.calls())
	}
	if next.(Model).snap.CanSave() {
		t.Error("CanSave() = true without a key")
	}
}

func TestSaveFlow(t *testing.T) {
	store := &memStore{}
	m := newTestModel(t, store)

	m = press(t, m, "l", "j", "enter")
	m = typeText(t, m, "sk-1234567890")
	m = press(t, m, "enter")

	next, cmd := m.Update(keyMsg("ctrl+s"))
	if cmd == nil {
		t.Fatal("save returned no command")
	}
	m = update(t, next.(Model), cmd())

	if m.viewState != ViewClosed {
		t.Errorf("viewState = %v, want ViewClosed", m.viewState)
	}
	if store.calls() != 1 {
		t.Errorf("Set calls = %d, want 1", store.calls())
	}
	if store.cfg.APIProvider != "openai" || store.cfg.SolutionModel != "gpt-4o" {
		t.Errorf("saved = %+v", store.cfg)
	}

	m = update(t, m, m.bridge.waitForNotice()())
	if m.message != "Settings saved successfully" {
		t.Errorf("message = %q", m.message)
	}

	m = update(t, m, m.bridge.waitForReload()())
	if m.viewState != ViewDialog {
		t.Errorf("viewState after reload = %v, want ViewDialog", m.viewState)
	}
	waitReady(t, m.ctrl)
	m = update(t, m, LoadedMsg{})
	if m.snap.Draft.Provider != catalog.ProviderOpenAI || m.snap.Draft.APIKey != "sk-1234567890" {
		t.Errorf("reloaded draft = %+v", m.snap.Draft)
	}
}

func TestModelSelection(t *testing.T) {
	m := newTestModel(t, &memStore{})

	m = press(t, m, "j", "j", "j", "enter")
	if m.viewState != ViewModelSelect {
		t.Fatalf("viewState = %v, want ViewModelSelect", m.viewState)
	}
	if m.modelCategory != catalog.CategorySolution {
		t.Errorf("category = %q, want solution", m.modelCategory)
	}
	if len(m.modelList) != len(catalog.ListModels(catalog.ProviderGroq, catalog.CategorySolution)) {
		t.Errorf("model list has %d entries", len(m.modelList))
	}
	if m.modelList[m.modelCursor].ID != catalog.DefaultModel(catalog.ProviderGroq) {
		t.Error("cursor should start on the current selection")
	}

	m = press(t, m, "j", "enter")
	if m.viewState != ViewDialog {
		t.Errorf("viewState = %v, want ViewDialog", m.viewState)
	}
	if got := m.snap.Draft.Model(catalog.CategorySolution); got != "meta-llama/llama-4-maverick-17b-128e-instruct" {
		t.Errorf("solution model = %q", got)
	}
	if m.focus != FieldSolution {
		t.Errorf("focus = %v, want FieldSolution", m.focus)
	}
	if !strings.Contains(m.View(), "Llama 4 Maverick") {
		t.Error("view should show the picked model")
	}
}

func TestModelSelectionCancel(t *testing.T) {
	m := newTestModel(t, &memStore{})

	m = press(t, m, "j", "j", "enter", "G", "esc")
	if m.viewState != ViewDialog {
		t.Errorf("viewState = %v, want ViewDialog", m.viewState)
	}
	if got := m.snap.Draft.Model(catalog.CategoryExtraction); got != catalog.DefaultModel(catalog.ProviderGroq) {
		t.Errorf("extraction model changed to %q", got)
	}
}

func TestModelScrollOffset(t *testing.T) {
	m := newTestModel(t, &memStore{})
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 12})

	m = press(t, m, "j", "j", "j", "enter", "G")
	visible := m.getVisibleModelListHeight()
	if m.modelCursor != len(m.modelList)-1 {
		t.Fatalf("cursor = %d, want last", m.modelCursor)
	}
	if m.modelCursor < m.modelScrollOffset || m.modelCursor >= m.modelScrollOffset+visible {
		t.Errorf("cursor %d outside visible window [%d, %d)", m.modelCursor, m.modelScrollOffset, m.modelScrollOffset+visible)
	}
	if !strings.Contains(m.View(), "more...") {
		t.Error("scroll indicator missing")
	}
}

func TestNoticeMessages(t *testing.T) {
	m := newTestModel(t, &memStore{})

	m = update(t, m, NoticeMsg{Title: "Error", Message: "Failed to load settings", Kind: notify.KindError})
	if m.errorMsg != "Failed to load settings" || m.message != "" {
		t.Errorf("errorMsg = %q message = %q", m.errorMsg, m.message)
	}
	if !strings.Contains(m.View(), "✗ Failed to load settings") {
		t.Error("error notice not rendered")
	}

	m = update(t, m, NoticeMsg{Title: "Success", Message: "ok", Kind: notify.KindSuccess})
	if m.errorMsg != "" || m.message != "ok" {
		t.Errorf("errorMsg = %q message = %q", m.errorMsg, m.message)
	}
}

func TestHelpView(t *testing.T) {
	m := newTestModel(t, &memStore{})

	m = press(t, m, "?")
	if m.viewState != ViewHelp {
		t.Fatalf("viewState = %v, want ViewHelp", m.viewState)
	}
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Error("help view not rendered")
	}
	m = press(t, m, "esc")
	if m.viewState != ViewDialog {
		t.Errorf("viewState = %v, want ViewDialog", m.viewState)
	}
}

func TestQuitClosesController(t *testing.T) {
	m := newTestModel(t, &memStore{})

	next, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("quit returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
	if next.(Model).ctrl.Snapshot().State != settings.StateClosed {
		t.Error("quitting should close the controller")
	}
	if next.(Model).View() != "" {
		t.Error("view should be empty after quitting")
	}
}

func TestFocusWraps(t *testing.T) {
	m := newTestModel(t, &memStore{})

	m = press(t, m, "k")
	if m.focus != FieldSave {
		t.Errorf("focus = %v, want FieldSave", m.focus)
	}
	m = press(t, m, "tab")
	if m.focus != FieldProvider {
		t.Errorf("focus = %v, want FieldProvider", m.focus)
	}
}

func TestNextProvider(t *testing.T) {
	if got := nextProvider(catalog.ProviderGroq, 1); got != catalog.ProviderOpenAI {
		t.Errorf("nextProvider(groq, 1) = %q", got)
	}
	if got := nextProvider(catalog.ProviderOpenAI, -1); got != catalog.ProviderGroq {
		t.Errorf("nextProvider(openai, -1) = %q", got)
	}
}
