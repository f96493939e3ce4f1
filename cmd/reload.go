package cmd

import (
	"log"
	"time"

	"aisettings/config/sync"
)

var (
	envScriptFlag    string
	syncSettingsFlag string
)

const reloadTimeout = 10 * time.Second

func init() {
	rootCmd.PersistentFlags().StringVar(&envScriptFlag, "env-script", "", "env script rewritten after each save (default: active.env next to the store)")
	rootCmd.PersistentFlags().StringVar(&syncSettingsFlag, "sync-settings", "", "consumer JSON settings file whose env block is kept in sync")
}

// newReloader builds the reload trigger that regenerates consumer artifacts
func newReloader(store *openedStore, logger *log.Logger) *sync.Reloader {
	script := envScriptFlag
	if script == "" {
		script = store.defaultEnvScript()
	}
	return &sync.Reloader{
		Source:       store,
		ScriptPath:   script,
		SettingsPath: syncSettingsFlag,
		Options: sync.SyncOptions{
			CreateBackup:  true,
			PreserveOther: true,
		},
		Timeout: reloadTimeout,
		Logger:  logger,
	}
}
