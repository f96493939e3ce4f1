package sync

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"aisettings/config/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

var groqConfig = models.Config{
	APIKey:          "gsk_test'key",
	APIProvider:     "groq",
	ExtractionModel: "meta-llama/llama-4-scout-17b-16e-instruct",
	SolutionModel:   "qwen/qwen3-32b",
	DebuggingModel:  "meta-llama/llama-4-scout-17b-16e-instruct",
}

func TestEnvVars(t *testing.T) {
	vars := EnvVars(groqConfig)
	assert.Equal(t, "groq", vars[EnvProvider])
	assert.Equal(t, "gsk_test'key", vars["GROQ_API_KEY"])
	assert.NotContains(t, vars, "OPENAI_API_KEY")
	assert.Equal(t, "qwen/qwen3-32b", vars[EnvSolutionModel])

	t.Run("unknown provider drops the key", func(t *testing.T) {
		vars := EnvVars(models.Config{APIKey: "k", APIProvider: "mystery"})
		assert.Len(t, vars, 1)
		assert.Equal(t, "mystery", vars[EnvProvider])
	})
}

func TestGenerateEnvScript(t *testing.T) {
	script := GenerateEnvScript(groqConfig)

	for _, name := range ManagedVars() {
		assert.Contains(t, script, "unset "+name+"\n")
	}
	assert.Contains(t, script, `export GROQ_API_KEY='gsk_test'\''key'`)
	assert.Contains(t, script, "export AISETTINGS_PROVIDER='groq'")

	lastUnset := strings.LastIndex(script, "unset ")
	firstExport := strings.Index(script, "export ")
	assert.Less(t, lastUnset, firstExport, "unsets must precede exports")
}

func TestWriteEnvScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "active.env")
	require.NoError(t, WriteEnvScript(path, groqConfig))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, GenerateEnvScript(groqConfig), string(data))
}

func TestIsManaged(t *testing.T) {
	assert.True(t, IsManaged("OPENAI_API_KEY"))
	assert.True(t, IsManaged("aisettings_provider"))
	assert.False(t, IsManaged("PATH"))
	assert.False(t, IsManaged("ANTHROPIC_API_KEY"))
}

func TestUpdateEnvField(t *testing.T) {
	original := `{
  "theme": "dark",
  "permissions": {"allow": ["Bash"]},
  "env": {"PATH_EXTRA": "/opt/bin", "OPENAI_API_KEY": "sk-stale"}
}`

	updated, err := UpdateEnvField(original, groqConfig, SyncOptions{PreserveOther: true})
	require.NoError(t, err)

	assert.Equal(t, "dark", gjson.Get(updated, "theme").String())
	assert.Equal(t, "Bash", gjson.Get(updated, "permissions.allow.0").String())
	assert.Equal(t, "/opt/bin", gjson.Get(updated, "env.PATH_EXTRA").String())
	assert.False(t, gjson.Get(updated, "env.OPENAI_API_KEY").Exists(), "stale provider key must be removed")
	assert.Equal(t, "gsk_test'key", gjson.Get(updated, "env.GROQ_API_KEY").String())

	t.Run("without preserve drops unmanaged vars", func(t *testing.T) {
		updated, err := UpdateEnvField(original, groqConfig, SyncOptions{})
		require.NoError(t, err)
		assert.False(t, gjson.Get(updated, "env.PATH_EXTRA").Exists())
		assert.Equal(t, "dark", gjson.Get(updated, "theme").String())
	})

	t.Run("creates env block", func(t *testing.T) {
		updated, err := UpdateEnvField(`{"theme":"light"}`, groqConfig, SyncOptions{PreserveOther: true})
		require.NoError(t, err)
		assert.Equal(t, "groq", gjson.Get(updated, "env.AISETTINGS_PROVIDER").String())
	})

	t.Run("rejects invalid documents", func(t *testing.T) {
		_, err := UpdateEnvField(`{"env":`, groqConfig, SyncOptions{})
		assert.Error(t, err)
		_, err = UpdateEnvField(`{"env":"oops"}`, groqConfig, SyncOptions{})
		assert.Error(t, err)
	})
}

func TestValidateJSONUpdate(t *testing.T) {
	assert.NoError(t, validateJSONUpdate(`{"a":1,"env":{}}`, `{"a":1,"env":{"X":"1"}}`, true))
	assert.Error(t, validateJSONUpdate(`{"a":1}`, `{"a":2,"env":{}}`, true))
	assert.Error(t, validateJSONUpdate(`{"a":1}`, `{"a":1,"b":2,"env":{}}`, true))
	assert.Error(t, validateJSONUpdate(`{"env":{"KEEP":"1"}}`, `{"env":{}}`, true))
	assert.NoError(t, validateJSONUpdate(`{"env":{"KEEP":"1"}}`, `{"env":{}}`, false))
}

type fakeSource struct {
	cfg models.Config
	err error
}

func (f fakeSource) Get(context.Context) (models.Config, error) {
	return f.cfg, f.err
}

func TestReloader(t *testing.T) {
	dir := t.TempDir()
	settingsPath := filepath.Join(dir, "settings.json")
	require.NoError(t, os.WriteFile(settingsPath, []byte(`{"env":{"KEEP":"yes"}}`), 0600))

	r := &Reloader{
		Source:       fakeSource{cfg: groqConfig},
		ScriptPath:   filepath.Join(dir, "active.env"),
		SettingsPath: settingsPath,
		Options:      SyncOptions{PreserveOther: true},
	}
	require.NoError(t, r.Reload(context.Background()))

	script, err := os.ReadFile(r.ScriptPath)
	require.NoError(t, err)
	assert.Contains(t, string(script), "export GROQ_API_KEY=")

	data, err := os.ReadFile(settingsPath)
	require.NoError(t, err)
	assert.Equal(t, "yes", gjson.GetBytes(data, "env.KEEP").String())
	assert.Equal(t, "groq", gjson.GetBytes(data, "env.AISETTINGS_PROVIDER").String())

	t.Run("dry run leaves settings alone", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.json")
		r := &Reloader{Source: fakeSource{cfg: groqConfig}, SettingsPath: path, Options: SyncOptions{DryRun: true}}
		require.NoError(t, r.Reload(context.Background()))
		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("source failure", func(t *testing.T) {
		r := &Reloader{Source: fakeSource{err: errors.New("boom")}, ScriptPath: filepath.Join(t.TempDir(), "x")}
		assert.Error(t, r.Reload(context.Background()))
		r.Fire()
	})
}
