package catalog

import (
	"fmt"
	"strings"
)

// Provider is the upstream AI vendor whose models are being selected
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
	ProviderGroq   Provider = "groq"
)

// DefaultProvider is used when the persisted configuration names no provider
const DefaultProvider = ProviderGroq

// ProviderInfo holds the static presentation data for a provider
type ProviderInfo struct {
	Name        string // short vendor name used in prose ("OpenAI")
	Label       string // label of the API key field
	Placeholder string // placeholder of the API key field
	HelpURL     string // page where a key can be created
	HelpTitle   string // link text for HelpURL
	KeyName     string // environment variable that carries the key
}

// providerOrder is the display order of the provider picker
var providerOrder = []Provider{ProviderOpenAI, ProviderGemini, ProviderGroq}

// registry stores the presentation data of every known provider
var registry = map[Provider]ProviderInfo{
	ProviderOpenAI: {
		Name:        "OpenAI",
		Label:       "OpenAI API Key",
		Placeholder: "sk-...",
		HelpURL:     "https://platform.openai.com/api-keys",
		HelpTitle:   "OpenAI API Keys",
		KeyName:     "OPENAI_API_KEY",
	},
	ProviderGemini: {
		Name:        "Google",
		Label:       "Google AI Studio API Key",
		Placeholder: "AIza...",
		HelpURL:     "https://aistudio.google.com/app/apikey",
		HelpTitle:   "Google AI Studio API Keys",
		KeyName:     "GEMINI_API_KEY",
	},
	ProviderGroq: {
		Name:        "Groq",
		Label:       "Groq API Key",
		Placeholder: "gsk_...",
		HelpURL:     "https://console.groq.com/keys",
		HelpTitle:   "Groq Cloud API Keys",
		KeyName:     "GROQ_API_KEY",
	},
}

// Providers returns all providers in display order
func Providers() []Provider {
	list := make([]Provider, len(providerOrder))
	copy(list, providerOrder)
	return list
}

// ParseProvider converts a raw name into a Provider
func ParseProvider(name string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := registry[p]; !ok {
		return "", fmt.Errorf("unknown provider: %s", name)
	}
	return p, nil
}

// Valid reports whether p is one of the known providers
func (p Provider) Valid() bool {
	_, ok := registry[p]
	return ok
}

// Info returns the presentation data for p.
// Unknown providers yield the zero ProviderInfo.
func Info(p Provider) ProviderInfo {
	return registry[p]
}

func (p Provider) String() string {
	return string(p)
}
