package cmd

import (
	"aisettings/internal/tui"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Open the interactive settings dialog",
	Long: `Open the settings dialog to choose the AI provider, enter its API key and pick
a model for each task. Saving rewrites the env script once the application reloads.`,
	Args: cobra.NoArgs,
	RunE: runSettings,
}

func init() {
	rootCmd.RunE = runSettings
	rootCmd.AddCommand(settingsCmd)
}

func runSettings(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	logger := newLogger(cmd)
	return tui.Run(tui.Options{
		Store:  store,
		Logger: logger,
		Reload: newReloader(store, logger),
	})
}
