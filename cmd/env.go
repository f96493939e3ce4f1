package cmd

import (
	"fmt"

	"aisettings/config/sync"

	"github.com/spf13/cobra"
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Print shell exports for the stored settings",
	Long: `Print the env script for the stored settings. Evaluate it to load the
provider, its API key and the model choices into the current shell:

  eval "$(aisettings env)"`,
	Args: cobra.NoArgs,
	RunE: runEnv,
}

func init() {
	rootCmd.AddCommand(envCmd)
}

func runEnv(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	cfg, err := store.Get(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), sync.GenerateEnvScript(cfg))
	return nil
}
