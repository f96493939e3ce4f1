package config

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"

	"aisettings/config/models"
	"aisettings/config/storage"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// EnvStorePath overrides the default store location
const EnvStorePath = "AISETTINGS_STORE"

// Manager is a file-backed settings store.
// The settings file may carry keys owned by other parts of the host; Manager only
// reads and rewrites its own keys and leaves everything else untouched.
type Manager struct {
	configPath string
	mu         sync.Mutex // serializes writers within this process
	logger     *log.Logger
	backups    bool
}

// NewConfigManager creates a Manager at the resolved default path
func NewConfigManager() (*Manager, error) {
	configPath, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return NewManagerAt(configPath)
}

// NewManagerAt creates a Manager for the settings file at configPath
func NewManagerAt(configPath string) (*Manager, error) {
	if configPath == "" {
		return nil, fmt.Errorf("config path cannot be empty")
	}

	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	return &Manager{
		configPath: configPath,
		logger:     log.New(io.Discard, "", 0),
		backups:    true,
	}, nil
}

// DefaultConfigPath resolves the settings file location.
// AISETTINGS_STORE wins, then $XDG_CONFIG_HOME/aisettings/config.json, then ~/.config.
func DefaultConfigPath() (string, error) {
	if p := os.Getenv(EnvStorePath); p != "" {
		return p, nil
	}

	xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfigHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		xdgConfigHome = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(xdgConfigHome, "aisettings", "config.json"), nil
}

// SetLogger routes internal diagnostics to l
func (cm *Manager) SetLogger(l *log.Logger) {
	if l != nil {
		cm.logger = l
	}
}

// SetBackups toggles timestamped backups before each write
func (cm *Manager) SetBackups(enabled bool) {
	cm.backups = enabled
}

// GetConfigPath returns the path to the config file
func (cm *Manager) GetConfigPath() string {
	return cm.configPath
}

func (cm *Manager) lockPath() string {
	return cm.configPath + ".lock"
}

// withLock runs fn while holding the sidecar lock file.
// The settings file itself is replaced by rename, so it cannot carry the lock.
func (cm *Manager) withLock(exclusive bool, fn func() error) error {
	file, err := os.OpenFile(cm.lockPath(), os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return fmt.Errorf("failed to open lock file: %w", err)
	}
	defer file.Close()

	if exclusive {
		err = lockFileExclusive(file)
	} else {
		err = lockFileShared(file)
	}
	if err != nil {
		return fmt.Errorf("failed to lock config file: %w", err)
	}
	defer func() {
		if err := unlockFile(file); err != nil {
			cm.logger.Printf("failed to unlock %s: %v", cm.lockPath(), err)
		}
	}()

	return fn()
}

// readRaw returns the current document, "{}" when the file is missing or empty
func (cm *Manager) readRaw() (string, error) {
	data, err := os.ReadFile(cm.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "{}", nil
		}
		return "", fmt.Errorf("failed to read config file: %w", err)
	}
	if len(data) == 0 {
		return "{}", nil
	}
	if !gjson.ValidBytes(data) {
		return "", fmt.Errorf("failed to parse config file: invalid JSON")
	}
	if !gjson.ParseBytes(data).IsObject() {
		return "", fmt.Errorf("failed to parse config file: top level is not an object")
	}
	return string(data), nil
}

// Get reads the persisted settings. Missing fields come back empty.
func (cm *Manager) Get(ctx context.Context) (models.Config, error) {
	if err := ctx.Err(); err != nil {
		return models.Config{}, err
	}

	var cfg models.Config
	err := cm.withLock(false, func() error {
		raw, err := cm.readRaw()
		if err != nil {
			return err
		}
		cfg = cm.decode(raw)
		return nil
	})
	if err != nil {
		return models.Config{}, err
	}
	return cfg, nil
}

func (cm *Manager) decode(raw string) models.Config {
	fields := (models.Config{}).Fields()
	paths := make([]string, len(fields))
	for i, field := range fields {
		paths[i] = field[0]
	}

	values := make([]string, len(paths))
	for i, r := range gjson.GetMany(raw, paths...) {
		if !r.Exists() {
			continue
		}
		if r.Type != gjson.String {
			cm.logger.Printf("ignoring non-string value of %s in %s", paths[i], cm.configPath)
			continue
		}
		values[i] = r.Str
	}

	return models.Config{
		APIKey:          values[0],
		APIProvider:     values[1],
		ExtractionModel: values[2],
		SolutionModel:   values[3],
		DebuggingModel:  values[4],
	}
}

// Set replaces the persisted settings with cfg.
// The new document is written to a temporary file and renamed into place, so a
// concurrent Get observes either the old or the new record, never a mix.
func (cm *Manager) Set(ctx context.Context, cfg models.Config) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	cm.mu.Lock()
	defer cm.mu.Unlock()

	err := cm.withLock(true, func() error {
		original, err := cm.readRaw()
		if err != nil {
			return err
		}

		updated, err := encode(original, cfg)
		if err != nil {
			return err
		}

		if err := verifyUpdate(original, updated); err != nil {
			return fmt.Errorf("update validation failed: %w", err)
		}

		backup := cm.backups && storage.FileExists(cm.configPath)
		if err := storage.AtomicFileUpdate(cm.configPath, updated, backup); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	cm.logger.Printf("settings written to %s", cm.configPath)
	return true, nil
}

// encode writes the owned keys of cfg into the original document
func encode(original string, cfg models.Config) (string, error) {
	content := original
	var err error
	for _, field := range cfg.Fields() {
		path, value := field[0], field[1]
		if value == "" {
			content, err = sjson.Delete(content, path)
		} else {
			content, err = sjson.Set(content, path, value)
		}
		if err != nil {
			return "", fmt.Errorf("failed to update %s: %w", path, err)
		}
	}
	return string(pretty.Pretty([]byte(content))), nil
}

// verifyUpdate ensures keys the store does not own survived the rewrite
func verifyUpdate(original, updated string) error {
	if !gjson.Valid(updated) {
		return fmt.Errorf("updated JSON is invalid")
	}

	owned := make(map[string]bool)
	for _, field := range (models.Config{}).Fields() {
		owned[field[0]] = true
	}

	after := gjson.Parse(updated)
	var problem error
	gjson.Parse(original).ForEach(func(key, value gjson.Result) bool {
		if owned[key.Str] {
			return true
		}
		got := after.Get(gjson.Escape(key.Str))
		if !got.Exists() {
			problem = fmt.Errorf("field '%s' was deleted", key.Str)
			return false
		}
		if !jsonEqual(value, got) {
			problem = fmt.Errorf("field '%s' was modified", key.Str)
			return false
		}
		return true
	})
	return problem
}

func jsonEqual(a, b gjson.Result) bool {
	return string(pretty.Ugly([]byte(a.Raw))) == string(pretty.Ugly([]byte(b.Raw)))
}

// RestoreLatestBackup rolls the settings file back to its newest backup
func (cm *Manager) RestoreLatestBackup() (string, error) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	var restored string
	err := cm.withLock(true, func() error {
		var err error
		restored, err = storage.NewBackupManager(storage.DefaultBackupRetention).RestoreFromLatestBackup(cm.configPath)
		return err
	})
	return restored, err
}
