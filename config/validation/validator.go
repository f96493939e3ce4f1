package validation

import (
	"fmt"

	"aisettings/config/models"
	"aisettings/internal/catalog"
)

// Validator checks persisted records against the model catalog
type Validator struct {
	// AllowEmptyKey accepts records without an API key
	AllowEmptyKey bool
}

// NewValidator creates a new Validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateConfig validates a persisted configuration.
// The provider must be known and every model id must belong to that provider's
// list for its category. The key is only checked for presence.
func (v *Validator) ValidateConfig(cfg models.Config) error {
	if cfg.APIKey == "" && !v.AllowEmptyKey {
		return fmt.Errorf("API key cannot be empty")
	}

	provider, err := catalog.ParseProvider(cfg.APIProvider)
	if err != nil {
		return err
	}

	choices := map[catalog.Category]string{
		catalog.CategoryExtraction: cfg.ExtractionModel,
		catalog.CategorySolution:   cfg.SolutionModel,
		catalog.CategoryDebugging:  cfg.DebuggingModel,
	}
	for _, c := range catalog.Categories() {
		if err := ValidateModelChoice(provider, c, choices[c]); err != nil {
			return err
		}
	}
	return nil
}

// ValidateModelChoice checks that id is offered for provider in category
func ValidateModelChoice(provider catalog.Provider, category catalog.Category, id string) error {
	if id == "" {
		return fmt.Errorf("%s model cannot be empty", category)
	}
	if !catalog.Contains(provider, category, id) {
		available := catalog.ListModels(provider, category)
		ids := make([]string, len(available))
		for i, m := range available {
			ids[i] = m.ID
		}
		return fmt.Errorf("model '%s' is not available for %s %s, available: %v", id, provider, category, ids)
	}
	return nil
}
