package cmd

import (
	"fmt"

	"aisettings/internal/browser"
	"aisettings/internal/catalog"
	"aisettings/internal/settings"

	"github.com/spf13/cobra"
)

// openURL opens a link in the browser
var openURL = func(url string) error {
	return browser.New().Open(url)
}

var keysOpen bool

var keysCmd = &cobra.Command{
	Use:   "keys [provider]",
	Short: "Show where to create an API key",
	Long: `Show the page where an API key for the provider can be created and the
environment variable the env script exports it as. Without a provider the
configured one is used.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"openai", "gemini", "groq"},
	RunE:      runKeys,
}

func init() {
	keysCmd.Flags().BoolVar(&keysOpen, "open", false, "open the page in the browser")
	rootCmd.AddCommand(keysCmd)
}

func runKeys(cmd *cobra.Command, args []string) error {
	provider, err := keysProvider(cmd, args)
	if err != nil {
		return err
	}

	info := catalog.Info(provider)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %s\n", info.HelpTitle, info.HelpURL)
	fmt.Fprintf(out, "Environment variable: %s\n", info.KeyName)

	if keysOpen {
		if err := openURL(info.HelpURL); err != nil {
			return fmt.Errorf("failed to open %s: %w", info.HelpURL, err)
		}
	}
	return nil
}

// keysProvider resolves the provider from the argument or the store
func keysProvider(cmd *cobra.Command, args []string) (catalog.Provider, error) {
	if len(args) == 1 {
		return catalog.ParseProvider(args[0])
	}

	store, err := openStore(cmd)
	if err != nil {
		return "", err
	}
	defer store.Close()

	cfg, err := store.Get(cmd.Context())
	if err != nil {
		return "", err
	}
	// the draft falls back to the default provider on absent or unknown values
	draft, _ := settings.DraftFromConfig(cfg)
	return draft.Provider, nil
}
