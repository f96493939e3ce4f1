package sync

import (
	"fmt"

	"aisettings/config/models"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// SyncOptions provides options for synchronization
type SyncOptions struct {
	DryRun        bool // validate only, do not write
	CreateBackup  bool // back up the settings file before updating
	PreserveOther bool // keep env variables this package does not manage
}

// UpdateEnvField rewrites the "env" object of a consumer's JSON settings file.
// Managed variables are replaced with the values derived from cfg; the rest of the
// document is left untouched.
func UpdateEnvField(originalContent string, cfg models.Config, opts SyncOptions) (string, error) {
	if originalContent == "" {
		originalContent = "{}"
	}
	if !gjson.Valid(originalContent) || !gjson.Parse(originalContent).IsObject() {
		return "", fmt.Errorf("invalid JSON content")
	}

	updated := originalContent
	var err error

	env := gjson.Get(originalContent, "env")
	if env.Exists() && !env.IsObject() {
		return "", fmt.Errorf("env field is not an object")
	}
	if !env.Exists() {
		if updated, err = sjson.SetRaw(updated, "env", "{}"); err != nil {
			return "", fmt.Errorf("failed to create env field: %w", err)
		}
	}

	env.ForEach(func(key, _ gjson.Result) bool {
		if IsManaged(key.Str) || !opts.PreserveOther {
			updated, err = sjson.Delete(updated, "env."+gjson.Escape(key.Str))
		}
		return err == nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to clear env field: %w", err)
	}

	for name, value := range EnvVars(cfg) {
		if updated, err = sjson.Set(updated, "env."+gjson.Escape(name), value); err != nil {
			return "", fmt.Errorf("failed to set %s: %w", name, err)
		}
	}

	updated = string(pretty.Pretty([]byte(updated)))
	if err := validateJSONUpdate(originalContent, updated, opts.PreserveOther); err != nil {
		return "", fmt.Errorf("update validation failed: %w", err)
	}
	return updated, nil
}

// validateJSONUpdate checks that only the env field changed and, when requested,
// that unmanaged variables inside it survived
func validateJSONUpdate(originalContent, updatedContent string, preserveOther bool) error {
	if !gjson.Valid(updatedContent) {
		return fmt.Errorf("updated JSON is invalid")
	}

	original := gjson.Parse(originalContent)
	updated := gjson.Parse(updatedContent)

	var problem error
	original.ForEach(func(key, value gjson.Result) bool {
		if key.Str == "env" {
			return true
		}
		problem = compareField(key.Str, value, updated.Get(gjson.Escape(key.Str)))
		return problem == nil
	})
	if problem != nil {
		return problem
	}

	updated.ForEach(func(key, _ gjson.Result) bool {
		if key.Str != "env" && !original.Get(gjson.Escape(key.Str)).Exists() {
			problem = fmt.Errorf("unexpected new field '%s'", key.Str)
		}
		return problem == nil
	})
	if problem != nil || !preserveOther {
		return problem
	}

	updatedEnv := updated.Get("env")
	original.Get("env").ForEach(func(key, value gjson.Result) bool {
		if IsManaged(key.Str) {
			return true
		}
		problem = compareField("env."+key.Str, value, updatedEnv.Get(gjson.Escape(key.Str)))
		return problem == nil
	})
	return problem
}

func compareField(name string, before, after gjson.Result) error {
	if !after.Exists() {
		return fmt.Errorf("field '%s' was deleted", name)
	}
	if string(pretty.Ugly([]byte(before.Raw))) != string(pretty.Ugly([]byte(after.Raw))) {
		return fmt.Errorf("field '%s' was modified", name)
	}
	return nil
}
