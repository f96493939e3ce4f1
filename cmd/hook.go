package cmd

import (
	"fmt"

	"aisettings/internal/shell"

	"github.com/spf13/cobra"
)

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Print the shell hook that loads the env script",
	Long: `Print a bash/zsh hook that sources the env script before each prompt
whenever it changed. Add this line to your shell rc:

  eval "$(aisettings hook)"`,
	Args: cobra.NoArgs,
	RunE: runHook,
}

func init() {
	rootCmd.AddCommand(hookCmd)
}

func runHook(cmd *cobra.Command, args []string) error {
	script := envScriptFlag
	if script == "" {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		script = store.defaultEnvScript()
		store.Close()
	}

	out, err := shell.NewGenerator(script).Generate()
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}
