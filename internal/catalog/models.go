// Package catalog holds the static table of providers, pipeline categories and
// the models that can be assigned to each (provider, category) pair.
package catalog

import (
	"fmt"
	"strings"
)

// Category names a pipeline stage a model can be assigned to
type Category string

const (
	CategoryExtraction Category = "extraction"
	CategorySolution   Category = "solution"
	CategoryDebugging  Category = "debugging"
)

var categoryOrder = []Category{CategoryExtraction, CategorySolution, CategoryDebugging}

// CategoryInfo describes a pipeline stage for display
type CategoryInfo struct {
	Title       string
	Description string
}

var categoryInfo = map[Category]CategoryInfo{
	CategoryExtraction: {
		Title:       "Problem Extraction",
		Description: "Model used to analyze the screenshots and extract the problem statement",
	},
	CategorySolution: {
		Title:       "Solution Generation",
		Description: "Model used to generate the solution to the problem",
	},
	CategoryDebugging: {
		Title:       "Debugging",
		Description: "Model used to debug the solution",
	},
}

// Categories returns all categories in pipeline order
func Categories() []Category {
	list := make([]Category, len(categoryOrder))
	copy(list, categoryOrder)
	return list
}

// ParseCategory converts a raw name into a Category
func ParseCategory(name string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := categoryInfo[c]; !ok {
		return "", fmt.Errorf("unknown category: %s", name)
	}
	return c, nil
}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	_, ok := categoryInfo[c]
	return ok
}

// Describe returns the display metadata of c
func (c Category) Describe() CategoryInfo {
	return categoryInfo[c]
}

func (c Category) String() string {
	return string(c)
}

// ModelDescriptor is one selectable model
type ModelDescriptor struct {
	ID          string `json:"id" yaml:"id"`
	DisplayName string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

type catalogKey struct {
	provider Provider
	category Category
}

// defaultModels is provider-wide: a provider switch assigns the same id to all
// three categories even where a category lists a specialised first choice.
var defaultModels = map[Provider]string{
	ProviderOpenAI: "gpt-4o",
	ProviderGemini: "gemini-2.0-flash",
	ProviderGroq:   "meta-llama/llama-4-scout-17b-16e-instruct",
}

// DefaultModel returns the model id assigned to every category when p is selected
func DefaultModel(p Provider) string {
	return defaultModels[p]
}

// ListModels returns the models offered for (p, c) in display order.
// The returned slice is a copy; it is nil for an unknown pair.
func ListModels(p Provider, c Category) []ModelDescriptor {
	models, ok := table[catalogKey{p, c}]
	if !ok {
		return nil
	}
	list := make([]ModelDescriptor, len(models))
	copy(list, models)
	return list
}

// Contains reports whether id is offered for (p, c)
func Contains(p Provider, c Category, id string) bool {
	for _, m := range table[catalogKey{p, c}] {
		if m.ID == id {
			return true
		}
	}
	return false
}

// Lookup returns the descriptor of id within (p, c)
func Lookup(p Provider, c Category, id string) (ModelDescriptor, bool) {
	for _, m := range table[catalogKey{p, c}] {
		if m.ID == id {
			return m, true
		}
	}
	return ModelDescriptor{}, false
}

const (
	gpt4o     = "gpt-4o"
	gpt4oMini = "gpt-4o-mini"

	gemini25Pro       = "gemini-2.5-pro"
	gemini25Flash     = "gemini-2.5-flash"
	gemini25FlashLite = "gemini-2.5-flash-lite-preview-06-17"
	gemini20Flash     = "gemini-2.0-flash"
	gemini20FlashLite = "gemini-2.0-flash-lite"

	llama4Maverick = "meta-llama/llama-4-maverick-17b-128e-instruct"
	llama4Scout    = "meta-llama/llama-4-scout-17b-16e-instruct"
)

const reasoningBlurb = "Thinking and reasoning, multimodal understanding, advanced coding, and more"

func openAIModels(stage string) []ModelDescriptor {
	return []ModelDescriptor{
		{ID: gpt4o, DisplayName: "GPT-4o", Description: "Best overall performance for " + stage},
		{ID: gpt4oMini, DisplayName: "GPT-4o Mini", Description: "Faster, more cost-effective model for " + stage},
	}
}

func geminiModels(flash, flash20, flashLite20 string) []ModelDescriptor {
	return []ModelDescriptor{
		{ID: gemini25Pro, DisplayName: "Gemini 2.5 Pro", Description: "Enhanced thinking and reasoning, multimodal understanding, advanced coding, and more"},
		{ID: gemini25Flash, DisplayName: "Gemini 2.5 Flash", Description: flash},
		{ID: gemini25FlashLite, DisplayName: "Gemini 2.5 Flash Lite", Description: "A Gemini 2.5 Flash model optimized for cost efficiency and low latency."},
		{ID: gemini20Flash, DisplayName: "Gemini 2.0 Flash", Description: flash20},
		{ID: gemini20FlashLite, DisplayName: "Gemini 2.0 Flash Lite", Description: flashLite20},
	}
}

var table = map[catalogKey][]ModelDescriptor{
	{ProviderOpenAI, CategoryExtraction}: openAIModels("problem extraction"),
	{ProviderOpenAI, CategorySolution}:   openAIModels("solution generation"),
	{ProviderOpenAI, CategoryDebugging}:  openAIModels("debugging"),

	{ProviderGemini, CategoryExtraction}: geminiModels(
		"Adaptive thinking, best for complex problem extraction",
		"Next generation features, speed, and realtime streaming",
		"Cost efficient and low latency for basic extraction",
	),
	{ProviderGemini, CategorySolution}: geminiModels(
		"Adaptive thinking, best for complex solution generation",
		"Next generation features for high-quality solutions",
		"Cost efficient solution generation with low latency",
	),
	{ProviderGemini, CategoryDebugging}: geminiModels(
		"Adaptive thinking, best for complex debugging scenarios",
		"Next generation debugging with realtime analysis",
		"Cost efficient debugging with low latency",
	),

	{ProviderGroq, CategoryExtraction}: {
		{ID: llama4Maverick, DisplayName: "Llama 4 Maverick", Description: "Best overall performance for problem extraction"},
		{ID: llama4Scout, DisplayName: "Llama 4 Scout", Description: "Another capable model for problem extraction"},
	},
	{ProviderGroq, CategorySolution}: {
		{ID: llama4Scout, DisplayName: "Llama 4 Scout", Description: "Best overall performance for solution generation"},
		{ID: llama4Maverick, DisplayName: "Llama 4 Maverick", Description: "Another capable model for solution generation"},
		{ID: "deepseek-r1-distill-llama-70b", DisplayName: "Deepseek R1 Distill Llama 70B", Description: reasoningBlurb},
		{ID: "mistral-saba-24b", DisplayName: "Mistral Saba 24B", Description: reasoningBlurb},
		{ID: "qwen/qwen3-32b", DisplayName: "Qwen 3 32B", Description: reasoningBlurb},
		{ID: "qwen-qwq-32b", DisplayName: "Qwen QWQ 32B", Description: "Highly advanced model for reasoning and multimodal tasks"},
		{ID: "llama-3.3-70b-versatile", DisplayName: "Llama 3.3 70B Versatile", Description: "Very fast model of Llama"},
		{ID: "llama-3.1-8b-instant", DisplayName: "Llama 3.1 8B Instant", Description: "Optimized for instant responses and cost efficiency"},
		{ID: "llama3-70b-8192", DisplayName: "Llama 3 70B 8192", Description: "Very fast model of Llama"},
		{ID: "llama3-8b-8192", DisplayName: "Llama 3 8B 8192", Description: "Very Cheap and fast model of Llama"},
	},
	{ProviderGroq, CategoryDebugging}: {
		{ID: llama4Scout, DisplayName: "Llama 4 Scout", Description: "Best overall performance for solution generation"},
		{ID: llama4Maverick, DisplayName: "Llama 4 Maverick", Description: "Another capable model for solution generation"},
	},
}
