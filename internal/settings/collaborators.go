package settings

import (
	"context"

	"aisettings/config/models"
	"aisettings/internal/notify"
)

// Store is the persisted configuration owned by the host.
// Set reports false when the write was declined.
type Store interface {
	Get(ctx context.Context) (models.Config, error)
	Set(ctx context.Context, cfg models.Config) (bool, error)
}

// Notifier shows transient outcome messages
type Notifier interface {
	Show(title, message string, kind notify.Kind)
}

// LinkOpener opens an external URL
type LinkOpener interface {
	Open(url string) error
}

// ReloadTrigger makes newly persisted settings take effect
type ReloadTrigger interface {
	Fire()
}

type noopOpener struct{}

func (noopOpener) Open(string) error { return nil }

type noopReload struct{}

func (noopReload) Fire() {}
