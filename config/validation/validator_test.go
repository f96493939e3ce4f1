package validation

import (
	"testing"

	"aisettings/config/models"
	"aisettings/internal/catalog"
)

func TestValidateConfig(t *testing.T) {
	valid := models.Config{
		APIKey:          "gsk_abc",
		APIProvider:     "groq",
		ExtractionModel: "meta-llama/llama-4-maverick-17b-128e-instruct",
		SolutionModel:   "qwen/qwen3-32b",
		DebuggingModel:  "meta-llama/llama-4-scout-17b-16e-instruct",
	}

	tests := []struct {
		name    string
		mutate  func(c *models.Config)
		wantErr bool
	}{
		{"valid groq record", func(c *models.Config) {}, false},
		{"missing key", func(c *models.Config) { c.APIKey = "" }, true},
		{"unknown provider", func(c *models.Config) { c.APIProvider = "anthropic" }, true},
		{"model from another provider", func(c *models.Config) { c.SolutionModel = "gpt-4o" }, true},
		{"solution-only model in debugging", func(c *models.Config) { c.DebuggingModel = "qwen/qwen3-32b" }, true},
		{"empty model", func(c *models.Config) { c.ExtractionModel = "" }, true},
	}

	v := NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := v.ValidateConfig(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateConfigAllowEmptyKey(t *testing.T) {
	v := &Validator{AllowEmptyKey: true}
	err := v.ValidateConfig(models.Config{
		APIProvider:     "openai",
		ExtractionModel: "gpt-4o",
		SolutionModel:   "gpt-4o-mini",
		DebuggingModel:  "gpt-4o",
	})
	if err != nil {
		t.Errorf("ValidateConfig() error = %v", err)
	}
}

func TestValidateModelChoice(t *testing.T) {
	for _, p := range catalog.Providers() {
		for _, c := range catalog.Categories() {
			if err := ValidateModelChoice(p, c, catalog.DefaultModel(p)); err != nil {
				t.Errorf("default model of %s rejected for %s: %v", p, c, err)
			}
		}
	}

	if err := ValidateModelChoice(catalog.ProviderGemini, catalog.CategorySolution, "gpt-4o"); err == nil {
		t.Error("ValidateModelChoice() should reject a foreign model")
	}
}
