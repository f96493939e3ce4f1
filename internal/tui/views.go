package tui

import (
	"fmt"
	"strings"

	"aisettings/internal/catalog"
	"aisettings/internal/settings"
	"aisettings/internal/utils"

	"github.com/charmbracelet/lipgloss"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Bold(true)

	activeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	activeSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("42")).
				Background(lipgloss.Color("57")).
				Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205"))

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))
)

// getEffectiveWidth returns the rendering width, capped for readability
func (m Model) getEffectiveWidth(defaultWidth int) int {
	if m.width <= 0 {
		return defaultWidth
	}
	maxWidth := 80
	if m.width < maxWidth {
		return m.width
	}
	return maxWidth
}

func (m Model) separator() string {
	return separatorStyle.Render(strings.Repeat("─", m.getEffectiveWidth(40)))
}

func (m Model) label(f Field, text string) string {
	if f == m.focus && m.viewState == ViewDialog {
		return formFocusedStyle.Render(text)
	}
	return formLabelStyle.Render(text)
}

// RenderDialogView renders the settings dialog
func (m Model) RenderDialogView() string {
	var b strings.Builder
	d := m.snap.Draft
	info := catalog.Info(d.Provider)

	b.WriteString(titleStyle.Render("API Settings"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Configure your API key and model preferences."))
	b.WriteString("\n")
	b.WriteString(m.separator())
	b.WriteString("\n\n")

	switch m.snap.State {
	case settings.StateLoading:
		b.WriteString(dimStyle.Render("⏳ Loading current settings..."))
		b.WriteString("\n\n")
	case settings.StateSaving:
		b.WriteString(dimStyle.Render("⏳ Saving..."))
		b.WriteString("\n\n")
	}

	// Provider picker
	b.WriteString(m.label(FieldProvider, "API Provider"))
	b.WriteString(" ")
	options := make([]string, 0, len(catalog.Providers()))
	for _, p := range catalog.Providers() {
		name := catalog.Info(p).Name
		if p == d.Provider {
			options = append(options, activeStyle.Render("● "+name))
		} else {
			options = append(options, normalStyle.Render("○ "+name))
		}
	}
	b.WriteString(strings.Join(options, "  "))
	b.WriteString("\n\n")

	// API key
	b.WriteString(m.label(FieldAPIKey, info.Label))
	b.WriteString(" ")
	switch {
	case m.editingKey:
		b.WriteString(m.keyInput.View())
	case d.APIKey == "":
		b.WriteString(dimStyle.Render(info.Placeholder))
	case m.revealKey:
		b.WriteString(normalStyle.Render(d.APIKey))
	default:
		b.WriteString(normalStyle.Render(utils.MaskAPIKey(d.APIKey)))
	}
	b.WriteString("\n")
	b.WriteString(formLabelStyle.Render(""))
	b.WriteString(" ")
	b.WriteString(formHintStyle.Render(fmt.Sprintf("Your API key is stored locally and never sent to any server except %s", info.Name)))
	b.WriteString("\n")
	if info.HelpURL != "" {
		b.WriteString(formLabelStyle.Render(""))
		b.WriteString(" ")
		b.WriteString(formHintStyle.Render(fmt.Sprintf("Get a key from %s (press o): %s", info.HelpTitle, info.HelpURL)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	// Model categories
	b.WriteString(titleStyle.Render("AI Model Selection"))
	b.WriteString("\n")
	for _, c := range catalog.Categories() {
		f := fieldForCategory(c)
		meta := c.Describe()
		b.WriteString(m.label(f, meta.Title))
		b.WriteString(" ")
		b.WriteString(normalStyle.Render(modelName(d.Provider, c, d.Model(c))))
		b.WriteString("\n")
		if f == m.focus {
			b.WriteString(formLabelStyle.Render(""))
			b.WriteString(" ")
			b.WriteString(formHintStyle.Render(meta.Description))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")

	// Save button, disabled while loading or without a key
	buttonText := "Save Settings"
	if m.snap.State == settings.StateSaving {
		buttonText = "Saving..."
	}
	switch {
	case !m.snap.CanSave():
		b.WriteString(buttonDisabledStyle.Render(buttonText))
	case m.focus == FieldSave:
		b.WriteString(buttonFocusedStyle.Render(buttonText))
	default:
		b.WriteString(buttonStyle.Render(buttonText))
	}
	b.WriteString("\n\n")

	b.WriteString(m.separator())
	b.WriteString("\n")
	b.WriteString(m.RenderStatusBar())

	return b.String()
}

// modelName returns the display name of id, or id itself when not listed
func modelName(p catalog.Provider, c catalog.Category, id string) string {
	if md, ok := catalog.Lookup(p, c, id); ok {
		return md.DisplayName
	}
	return id
}

// RenderStatusBar renders messages and shortcut hints
func (m Model) RenderStatusBar() string {
	var b strings.Builder

	if m.errorMsg != "" {
		b.WriteString(errorStyle.Render("✗ " + m.errorMsg))
		b.WriteString("\n")
	}
	if m.message != "" {
		b.WriteString(messageStyle.Render("✓ " + m.message))
		b.WriteString("\n")
	}
	if m.errorMsg != "" || m.message != "" {
		b.WriteString("\n")
	}

	if m.editingKey {
		b.WriteString(helpStyle.Render("Enter: confirm │ Esc: cancel"))
		return b.String()
	}

	shortHelp := m.keys.ShortHelp()
	hints := make([]string, 0, len(shortHelp))
	for _, k := range shortHelp {
		keyStr := helpKeyStyle.Render(k.Help().Key)
		descStr := helpStyle.Render(k.Help().Desc)
		hints = append(hints, fmt.Sprintf("%s %s", keyStr, descStr))
	}
	b.WriteString(strings.Join(hints, helpStyle.Render(" │ ")))

	return b.String()
}

// RenderModelSelectView renders the model selection view
func (m Model) RenderModelSelectView() string {
	var b strings.Builder
	meta := m.modelCategory.Describe()
	provider := m.snap.Draft.Provider

	b.WriteString(titleStyle.Render(meta.Title))
	b.WriteString("\n")
	b.WriteString(m.separator())
	b.WriteString("\n\n")

	b.WriteString(dimStyle.Render(meta.Description))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Provider: %s", catalog.Info(provider).Name)))
	b.WriteString("\n\n")

	if len(m.modelList) == 0 {
		b.WriteString(dimStyle.Render("No models available"))
		b.WriteString("\n")
	} else {
		activeModel := m.snap.Draft.Model(m.modelCategory)

		visibleHeight := m.getVisibleModelListHeight()
		startIdx := m.modelScrollOffset
		endIdx := startIdx + visibleHeight
		if endIdx > len(m.modelList) {
			endIdx = len(m.modelList)
		}

		if startIdx > 0 {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  ↑ %d more...", startIdx)))
			b.WriteString("\n")
		}
		for i := startIdx; i < endIdx; i++ {
			b.WriteString(m.renderModelLine(i, m.modelList[i], activeModel))
			b.WriteString("\n")
		}
		if endIdx < len(m.modelList) {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  ↓ %d more...", len(m.modelList)-endIdx)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.separator())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("j/k: move │ Enter: choose │ Esc: cancel"))

	return b.String()
}

// renderModelLine renders a single model line in the selection list
func (m Model) renderModelLine(index int, model catalog.ModelDescriptor, activeModel string) string {
	isSelected := index == m.modelCursor
	isActive := model.ID == activeModel

	cursor := "  "
	if isSelected {
		cursor = "> "
	}
	activeMarker := "  "
	if isActive {
		activeMarker = "* "
	}

	content := fmt.Sprintf("%s%s%s", cursor, activeMarker, model.DisplayName)
	if isSelected {
		content += "  " + model.Description
	}

	if isSelected && isActive {
		return activeSelectedStyle.Render(content)
	} else if isSelected {
		return selectedStyle.Render(content)
	} else if isActive {
		return activeStyle.Render(content)
	}
	return normalStyle.Render(content)
}

// RenderHelpView renders the key binding reference
func (m Model) RenderHelpView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(m.separator())
	b.WriteString("\n\n")

	for _, group := range m.keys.FullHelp() {
		for _, k := range group {
			b.WriteString(renderHelpLine(k.Help().Key, k.Help().Desc))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(m.separator())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("Esc/?: back"))
	return b.String()
}

func renderHelpLine(key, desc string) string {
	return fmt.Sprintf("  %s  %s", helpKeyStyle.Width(12).Render(key), helpStyle.Render(desc))
}

// RenderClosedView is shown between a successful save and the reload
func (m Model) RenderClosedView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("API Settings"))
	b.WriteString("\n")
	b.WriteString(m.separator())
	b.WriteString("\n\n")
	if m.message != "" {
		b.WriteString(messageStyle.Render("✓ " + m.message))
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render("Applying new settings..."))
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("q: quit"))
	return b.String()
}
