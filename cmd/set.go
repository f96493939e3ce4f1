package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"aisettings/config/validation"
	"aisettings/internal/catalog"
	"aisettings/internal/notify"
	"aisettings/internal/settings"

	"github.com/spf13/cobra"
)

// reloadDelay is the pause between a successful save and the reload
var reloadDelay = settings.ReloadDelay

var (
	setProvider   string
	setKey        string
	setKeyStdin   bool
	setExtraction string
	setSolution   string
	setDebugging  string
)

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Change settings without the dialog",
	Long: `Load the current settings, apply the given changes and save them.

Changing the provider resets every model to the provider default before the
model flags are applied. The API key is required for a save to succeed.`,
	Example: `  aisettings set --provider openai --key sk-... --solution gpt-4o-mini
  printf '%s' "$KEY" | aisettings set --key-stdin`,
	Args: cobra.NoArgs,
	RunE: runSet,
}

func init() {
	setCmd.Flags().StringVar(&setProvider, "provider", "", "AI provider (openai, gemini, groq)")
	setCmd.Flags().StringVar(&setKey, "key", "", "API key for the provider")
	setCmd.Flags().BoolVar(&setKeyStdin, "key-stdin", false, "read the API key from stdin")
	setCmd.Flags().StringVar(&setExtraction, "extraction", "", "model used for problem extraction")
	setCmd.Flags().StringVar(&setSolution, "solution", "", "model used for solution generation")
	setCmd.Flags().StringVar(&setDebugging, "debugging", "", "model used for debugging")
	setCmd.MarkFlagsMutuallyExclusive("key", "key-stdin")
	rootCmd.AddCommand(setCmd)
}

func runSet(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	logger := newLogger(cmd)
	reloaded := make(chan struct{})
	var once sync.Once
	ctrl, err := settings.New(settings.Options{
		Store:       store,
		Notifier:    &notify.Console{Out: cmd.ErrOrStderr()},
		Reload:      notify.ReloadFunc(func() { once.Do(func() { close(reloaded) }) }),
		Logger:      logger,
		ReloadDelay: reloadDelay,
	})
	if err != nil {
		return err
	}
	defer ctrl.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	<-ctrl.Open(ctx)
	if err := ctrl.Snapshot().LastError; err != nil {
		return err
	}

	if err := applyChanges(cmd, ctrl); err != nil {
		return err
	}

	saved := ctrl.Snapshot().Draft
	done, err := ctrl.Save(ctx)
	if err != nil {
		if errors.Is(err, settings.ErrEmptyAPIKey) {
			return fmt.Errorf("settings not saved: %w (use --key or --key-stdin)", err)
		}
		return fmt.Errorf("settings not saved: %w", err)
	}
	<-done

	if err := ctrl.Snapshot().LastError; err != nil {
		return err
	}

	select {
	case <-reloaded:
	case <-ctx.Done():
		return ctx.Err()
	}
	if err := newReloader(store, logger).Reload(ctx); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Provider: %s\n", saved.Provider)
	for _, c := range catalog.Categories() {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", c.Describe().Title, saved.Model(c))
	}
	return nil
}

// applyChanges applies the flags that were given, provider first
func applyChanges(cmd *cobra.Command, ctrl *settings.Controller) error {
	flags := cmd.Flags()

	if flags.Changed("provider") {
		p, err := catalog.ParseProvider(setProvider)
		if err != nil {
			return err
		}
		if err := ctrl.ChangeProvider(p); err != nil {
			return err
		}
	}

	provider := ctrl.Snapshot().Draft.Provider
	picks := []struct {
		flag     string
		value    string
		category catalog.Category
	}{
		{"extraction", setExtraction, catalog.CategoryExtraction},
		{"solution", setSolution, catalog.CategorySolution},
		{"debugging", setDebugging, catalog.CategoryDebugging},
	}
	for _, pick := range picks {
		if !flags.Changed(pick.flag) {
			continue
		}
		if err := validation.ValidateModelChoice(provider, pick.category, pick.value); err != nil {
			return err
		}
		if err := ctrl.PickModel(pick.category, pick.value); err != nil {
			return err
		}
	}

	switch {
	case flags.Changed("key"):
		return ctrl.SetAPIKey(setKey)
	case setKeyStdin:
		key, err := readKey(cmd)
		if err != nil {
			return err
		}
		return ctrl.SetAPIKey(key)
	}
	return nil
}

// readKey reads the first line of stdin
func readKey(cmd *cobra.Command) (string, error) {
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read API key from stdin: %w", err)
	}
	return strings.TrimSpace(line), nil
}
