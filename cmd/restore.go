package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Roll the settings file back to its newest backup",
	Long: `Replace the settings file with the newest backup taken before a save.
Only JSON file stores keep backups.`,
	Args: cobra.NoArgs,
	RunE: runRestore,
}

func init() {
	rootCmd.AddCommand(restoreCmd)
}

func runRestore(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	if store.File == nil {
		return errors.New("restore is only supported for JSON file stores")
	}

	backup, err := store.File.RestoreLatestBackup()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Restored %s from %s\n", store.Path, backup)
	return nil
}
