package settings

import (
	"fmt"
	"maps"

	"aisettings/config/models"
	"aisettings/internal/catalog"
)

// Draft is the in-memory, editable settings state behind the dialog.
// Every Models entry must be offered by the catalog for Provider before a save.
type Draft struct {
	APIKey   string
	Provider catalog.Provider
	Models   map[catalog.Category]string
}

// DefaultDraft is the state shown while loading and whenever the store has no value
func DefaultDraft() Draft {
	d := Draft{Models: make(map[catalog.Category]string)}
	d.resetModels(catalog.DefaultProvider)
	return d
}

// Clone returns a deep copy
func (d Draft) Clone() Draft {
	c := d
	c.Models = maps.Clone(d.Models)
	if c.Models == nil {
		c.Models = make(map[catalog.Category]string)
	}
	return c
}

// Model returns the selected id for c
func (d Draft) Model(c catalog.Category) string {
	return d.Models[c]
}

// resetModels selects p and assigns its default to every category
func (d *Draft) resetModels(p catalog.Provider) {
	if d.Models == nil {
		d.Models = make(map[catalog.Category]string)
	}
	d.Provider = p
	def := catalog.DefaultModel(p)
	for _, c := range catalog.Categories() {
		d.Models[c] = def
	}
}

// Validate reports the first category whose selection the provider does not offer
func (d Draft) Validate() error {
	if !d.Provider.Valid() {
		return fmt.Errorf("%w: unknown provider %q", ErrInvalidDraft, d.Provider)
	}
	for _, c := range catalog.Categories() {
		if !catalog.Contains(d.Provider, c, d.Models[c]) {
			return fmt.Errorf("%w: %s model %q for %s", ErrInvalidDraft, c, d.Models[c], d.Provider)
		}
	}
	return nil
}

// Config converts the draft to the persisted shape
func (d Draft) Config() models.Config {
	return models.Config{
		APIKey:          d.APIKey,
		APIProvider:     string(d.Provider),
		ExtractionModel: d.Models[catalog.CategoryExtraction],
		SolutionModel:   d.Models[catalog.CategorySolution],
		DebuggingModel:  d.Models[catalog.CategoryDebugging],
	}
}

// Adjustment records a loaded value that was replaced
type Adjustment struct {
	Field string
	From  string
	To    string
}

// DraftFromConfig builds a draft from a persisted record.
// Absent fields keep the defaults. An unknown provider falls back to the default
// provider, and any model the resulting provider does not offer for its category
// is reset to the provider default. The replacements are returned.
func DraftFromConfig(cfg models.Config) (Draft, []Adjustment) {
	d := DefaultDraft()
	var adjustments []Adjustment

	d.APIKey = cfg.APIKey

	if cfg.APIProvider != "" {
		if p, err := catalog.ParseProvider(cfg.APIProvider); err == nil {
			d.Provider = p
		} else {
			adjustments = append(adjustments, Adjustment{models.KeyAPIProvider, cfg.APIProvider, string(d.Provider)})
		}
	}

	loaded := map[catalog.Category]string{
		catalog.CategoryExtraction: cfg.ExtractionModel,
		catalog.CategorySolution:   cfg.SolutionModel,
		catalog.CategoryDebugging:  cfg.DebuggingModel,
	}
	def := catalog.DefaultModel(d.Provider)
	for _, c := range catalog.Categories() {
		id := loaded[c]
		if id == "" {
			id = d.Models[c]
		}
		if !catalog.Contains(d.Provider, c, id) {
			if loaded[c] != "" {
				adjustments = append(adjustments, Adjustment{string(c) + "Model", id, def})
			}
			id = def
		}
		d.Models[c] = id
	}
	return d, adjustments
}
