package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"aisettings/config/models"
	"aisettings/internal/catalog"
	"aisettings/internal/settings"
	"aisettings/internal/utils"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	showOutput string
	showReveal bool
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective settings",
	Long: `Show the settings the application runs with. Values the store holds that the
provider does not offer are reported and replaced by the provider default, the
same way the dialog loads them. The API key is masked unless --reveal is given.`,
	Args: cobra.NoArgs,
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVarP(&showOutput, "output", "o", "text", "output format (text, json, yaml)")
	showCmd.Flags().BoolVar(&showReveal, "reveal", false, "print the API key unmasked")
	rootCmd.AddCommand(showCmd)
}

// shownSettings is the machine readable form of show
type shownSettings struct {
	Store    string            `json:"store" yaml:"store"`
	Config   models.Config     `json:"settings" yaml:"settings"`
	Warnings []string          `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Models   map[string]string `json:"modelNames" yaml:"modelNames"`
}

func runShow(cmd *cobra.Command, args []string) error {
	if err := checkOutput(showOutput); err != nil {
		return err
	}

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	cfg, err := store.Get(cmd.Context())
	if err != nil {
		return fmt.Errorf("%w: %v", settings.ErrLoad, err)
	}

	draft, adjustments := settings.DraftFromConfig(cfg)
	shown := shownSettings{
		Store:  store.Path,
		Config: draft.Config(),
		Models: make(map[string]string),
	}
	if !showReveal {
		shown.Config.APIKey = utils.MaskAPIKey(shown.Config.APIKey)
	}
	for _, a := range adjustments {
		shown.Warnings = append(shown.Warnings, fmt.Sprintf("%s %q replaced by %q", a.Field, a.From, a.To))
	}
	for _, c := range catalog.Categories() {
		shown.Models[string(c)] = modelDisplayName(draft.Provider, c, draft.Model(c))
	}

	return writeOutput(cmd.OutOrStdout(), showOutput, shown, func(w io.Writer) error {
		return printSettings(w, draft, shown)
	})
}

func printSettings(w io.Writer, draft settings.Draft, shown shownSettings) error {
	bold := color.New(color.Bold)
	info := catalog.Info(draft.Provider)

	fmt.Fprintf(w, "Store: %s\n\n", shown.Store)
	bold.Fprintf(w, "Provider: ")
	fmt.Fprintf(w, "%s (%s)\n", info.Name, draft.Provider)

	bold.Fprintf(w, "%s: ", info.Label)
	if shown.Config.APIKey == "" {
		color.New(color.FgYellow).Fprintln(w, "not set")
	} else {
		fmt.Fprintln(w, shown.Config.APIKey)
	}

	for _, c := range catalog.Categories() {
		bold.Fprintf(w, "%s: ", c.Describe().Title)
		fmt.Fprintf(w, "%s (%s)\n", shown.Models[string(c)], draft.Model(c))
	}

	for _, warning := range shown.Warnings {
		color.New(color.FgYellow).Fprintf(w, "Warning: %s\n", warning)
	}
	return nil
}

func modelDisplayName(p catalog.Provider, c catalog.Category, id string) string {
	if m, ok := catalog.Lookup(p, c, id); ok {
		return m.DisplayName
	}
	return id
}

func checkOutput(format string) error {
	switch format {
	case "text", "json", "yaml":
		return nil
	default:
		return fmt.Errorf("unknown output format %q (use text, json or yaml)", format)
	}
}

// writeOutput encodes v as json or yaml, or calls text for the text format
func writeOutput(w io.Writer, format string, v interface{}, text func(io.Writer) error) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return text(w)
	}
}
