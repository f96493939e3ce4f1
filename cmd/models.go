package cmd

import (
	"fmt"
	"io"

	"aisettings/internal/catalog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var modelsOutput string

var modelsCmd = &cobra.Command{
	Use:   "models [provider]",
	Short: "List the models offered per provider and task",
	Long: `List the models each provider offers for problem extraction, solution
generation and debugging. The provider default is marked with *.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"openai", "gemini", "groq"},
	RunE:      runModels,
}

func init() {
	modelsCmd.Flags().StringVarP(&modelsOutput, "output", "o", "text", "output format (text, json, yaml)")
	rootCmd.AddCommand(modelsCmd)
}

// providerModels is the listing of one provider
type providerModels struct {
	Provider catalog.Provider                     `json:"provider" yaml:"provider"`
	Default  string                               `json:"default" yaml:"default"`
	Models   map[string][]catalog.ModelDescriptor `json:"models" yaml:"models"`
}

func runModels(cmd *cobra.Command, args []string) error {
	if err := checkOutput(modelsOutput); err != nil {
		return err
	}

	providers := catalog.Providers()
	if len(args) == 1 {
		p, err := catalog.ParseProvider(args[0])
		if err != nil {
			return err
		}
		providers = []catalog.Provider{p}
	}

	listing := make([]providerModels, 0, len(providers))
	for _, p := range providers {
		entry := providerModels{
			Provider: p,
			Default:  catalog.DefaultModel(p),
			Models:   make(map[string][]catalog.ModelDescriptor),
		}
		for _, c := range catalog.Categories() {
			entry.Models[string(c)] = catalog.ListModels(p, c)
		}
		listing = append(listing, entry)
	}

	return writeOutput(cmd.OutOrStdout(), modelsOutput, listing, func(w io.Writer) error {
		for i, entry := range listing {
			if i > 0 {
				fmt.Fprintln(w)
			}
			printProviderModels(w, entry)
		}
		return nil
	})
}

func printProviderModels(w io.Writer, entry providerModels) {
	color.New(color.Bold).Fprintf(w, "%s (%s)\n", catalog.Info(entry.Provider).Name, entry.Provider)
	for _, c := range catalog.Categories() {
		fmt.Fprintf(w, "  %s:\n", c.Describe().Title)
		for _, m := range entry.Models[string(c)] {
			marker := " "
			if m.ID == entry.Default {
				marker = "*"
			}
			fmt.Fprintf(w, "  %s %-28s %s\n", marker, m.ID, m.Description)
		}
	}
}
