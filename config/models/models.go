package models

// Config is the persisted settings record owned by the host.
// Every field is optional; an empty string means the field is absent.
type Config struct {
	APIKey          string `json:"apiKey,omitempty" yaml:"apiKey,omitempty"`
	APIProvider     string `json:"apiProvider,omitempty" yaml:"apiProvider,omitempty"`
	ExtractionModel string `json:"extractionModel,omitempty" yaml:"extractionModel,omitempty"`
	SolutionModel   string `json:"solutionModel,omitempty" yaml:"solutionModel,omitempty"`
	DebuggingModel  string `json:"debuggingModel,omitempty" yaml:"debuggingModel,omitempty"`
}

// JSON paths of the persisted fields inside the host's settings document
const (
	KeyAPIKey          = "apiKey"
	KeyAPIProvider     = "apiProvider"
	KeyExtractionModel = "extractionModel"
	KeySolutionModel   = "solutionModel"
	KeyDebuggingModel  = "debuggingModel"
)

// Fields returns the record as path/value pairs in a stable order
func (c Config) Fields() [][2]string {
	return [][2]string{
		{KeyAPIKey, c.APIKey},
		{KeyAPIProvider, c.APIProvider},
		{KeyExtractionModel, c.ExtractionModel},
		{KeySolutionModel, c.SolutionModel},
		{KeyDebuggingModel, c.DebuggingModel},
	}
}
