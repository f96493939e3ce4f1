package sync

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	stdsync "sync"
	"time"

	"aisettings/config/models"
	"aisettings/config/storage"
)

// Source reads the persisted settings
type Source interface {
	Get(ctx context.Context) (models.Config, error)
}

// Reloader regenerates the artifacts consumers load settings from.
// It is the reload trigger used outside the interactive dialog.
type Reloader struct {
	Source       Source
	ScriptPath   string // env script, skipped when empty
	SettingsPath string // consumer JSON settings with an env block, skipped when empty
	Options      SyncOptions
	Timeout      time.Duration
	Logger       *log.Logger

	mu stdsync.Mutex
}

// Fire regenerates every configured artifact. Failures are logged.
func (r *Reloader) Fire() {
	if err := r.Reload(context.Background()); err != nil {
		r.logger().Printf("reload failed: %v", err)
	}
}

// Reload reads the store once and rewrites the script and the settings file
func (r *Reloader) Reload(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Source == nil {
		return fmt.Errorf("reloader has no source")
	}
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cfg, err := r.Source.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}

	if r.ScriptPath != "" {
		if err := WriteEnvScript(r.ScriptPath, cfg); err != nil {
			return err
		}
		r.logger().Printf("env script written to %s", r.ScriptPath)
	}

	if r.SettingsPath != "" {
		if err := r.syncSettings(cfg); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reloader) syncSettings(cfg models.Config) error {
	original := "{}"
	data, err := os.ReadFile(r.SettingsPath)
	switch {
	case err == nil:
		original = string(data)
	case !os.IsNotExist(err):
		return fmt.Errorf("failed to read %s: %w", r.SettingsPath, err)
	}

	updated, err := UpdateEnvField(original, cfg, r.Options)
	if err != nil {
		return err
	}
	if r.Options.DryRun {
		r.logger().Printf("dry run, %s not written", r.SettingsPath)
		return nil
	}

	backup := r.Options.CreateBackup && storage.FileExists(r.SettingsPath)
	if err := storage.AtomicFileUpdate(r.SettingsPath, updated, backup); err != nil {
		return fmt.Errorf("failed to update %s: %w", r.SettingsPath, err)
	}
	r.logger().Printf("env block synced to %s", r.SettingsPath)
	return nil
}

func (r *Reloader) logger() *log.Logger {
	if r.Logger == nil {
		return log.New(io.Discard, "", 0)
	}
	return r.Logger
}
