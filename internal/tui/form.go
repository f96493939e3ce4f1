package tui

import (
	"aisettings/internal/catalog"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
)

// Field identifies a focusable row of the settings dialog
type Field int

const (
	FieldProvider Field = iota
	FieldAPIKey
	FieldExtraction
	FieldSolution
	FieldDebugging
	FieldSave
	FieldCount
)

// Category returns the model category edited by f
func (f Field) Category() (catalog.Category, bool) {
	switch f {
	case FieldExtraction:
		return catalog.CategoryExtraction, true
	case FieldSolution:
		return catalog.CategorySolution, true
	case FieldDebugging:
		return catalog.CategoryDebugging, true
	default:
		return "", false
	}
}

// fieldForCategory is the inverse of Field.Category
func fieldForCategory(c catalog.Category) Field {
	switch c {
	case catalog.CategoryExtraction:
		return FieldExtraction
	case catalog.CategorySolution:
		return FieldSolution
	default:
		return FieldDebugging
	}
}

// Form styles
var (
	formLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Width(22)

	formFocusedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("205")).
				Bold(true).
				Width(22)

	formHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)

	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Padding(0, 2)

	buttonFocusedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("205")).
				Bold(true).
				Padding(0, 2)

	buttonDisabledStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("241")).
				Background(lipgloss.Color("236")).
				Padding(0, 2)
)

// newKeyInput creates the API key input field
func newKeyInput() textinput.Model {
	input := textinput.New()
	input.CharLimit = 256
	input.Width = 40
	input.EchoMode = textinput.EchoPassword
	input.EchoCharacter = '•'
	input.Prompt = ""
	applyProvider(&input, catalog.DefaultProvider)
	return input
}

// applyProvider sets the provider specific placeholder
func applyProvider(input *textinput.Model, p catalog.Provider) {
	input.Placeholder = catalog.Info(p).Placeholder
}

// nextProvider cycles p within the picker order
func nextProvider(p catalog.Provider, step int) catalog.Provider {
	providers := catalog.Providers()
	idx := 0
	for i, candidate := range providers {
		if candidate == p {
			idx = i
			break
		}
	}
	idx = (idx + step + len(providers)) % len(providers)
	return providers[idx]
}
