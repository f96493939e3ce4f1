package sync

import (
	"fmt"
	"sort"
	"strings"

	"aisettings/config/models"
	"aisettings/config/storage"
	"aisettings/internal/catalog"
)

// Names of the variables exported for consumers of the active settings
const (
	EnvProvider        = "AISETTINGS_PROVIDER"
	EnvExtractionModel = "AISETTINGS_EXTRACTION_MODEL"
	EnvSolutionModel   = "AISETTINGS_SOLUTION_MODEL"
	EnvDebuggingModel  = "AISETTINGS_DEBUGGING_MODEL"
)

// ManagedVars returns every variable name this package may set, sorted
func ManagedVars() []string {
	vars := []string{EnvProvider, EnvExtractionModel, EnvSolutionModel, EnvDebuggingModel}
	for _, p := range catalog.Providers() {
		vars = append(vars, catalog.Info(p).KeyName)
	}
	sort.Strings(vars)
	return vars
}

// IsManaged reports whether name is owned by this package
func IsManaged(name string) bool {
	upper := strings.ToUpper(name)
	for _, v := range ManagedVars() {
		if upper == v {
			return true
		}
	}
	return false
}

// EnvVars maps cfg onto environment variables. Empty fields are left out.
// The key goes to the variable of the configured provider only.
func EnvVars(cfg models.Config) map[string]string {
	vars := make(map[string]string)
	if cfg.APIProvider != "" {
		vars[EnvProvider] = cfg.APIProvider
	}
	if cfg.ExtractionModel != "" {
		vars[EnvExtractionModel] = cfg.ExtractionModel
	}
	if cfg.SolutionModel != "" {
		vars[EnvSolutionModel] = cfg.SolutionModel
	}
	if cfg.DebuggingModel != "" {
		vars[EnvDebuggingModel] = cfg.DebuggingModel
	}
	if cfg.APIKey != "" {
		if p, err := catalog.ParseProvider(cfg.APIProvider); err == nil {
			vars[catalog.Info(p).KeyName] = cfg.APIKey
		}
	}
	return vars
}

// GenerateEnvScript renders a POSIX shell script for eval.
// Every managed variable is unset first so stale values from another provider
// do not leak into the new session.
func GenerateEnvScript(cfg models.Config) string {
	var b strings.Builder
	b.WriteString("# generated by aisettings, do not edit\n")

	for _, name := range ManagedVars() {
		fmt.Fprintf(&b, "unset %s\n", name)
	}

	vars := EnvVars(cfg)
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "export %s=%s\n", name, shellQuote(vars[name]))
	}
	return b.String()
}

// WriteEnvScript atomically replaces the script at path
func WriteEnvScript(path string, cfg models.Config) error {
	if err := storage.AtomicFileUpdate(path, GenerateEnvScript(cfg), false); err != nil {
		return fmt.Errorf("failed to write env script: %w", err)
	}
	return nil
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
