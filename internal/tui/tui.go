package tui

import (
	"fmt"
	"log"
	"os"

	"aisettings/internal/browser"
	"aisettings/internal/notify"
	"aisettings/internal/settings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// Options configures Run
type Options struct {
	Store  settings.Store
	Logger *log.Logger

	// Reload runs after the dialog's own reload, e.g. to rewrite env scripts
	Reload settings.ReloadTrigger
}

// Run starts the settings dialog
func Run(opts Options) error {
	if !isTerminal() {
		return fmt.Errorf("aisettings dialog requires a terminal. Use subcommands for non-interactive mode")
	}

	bridge := NewBridge()
	reload := notify.Reloaders{bridge}
	if opts.Reload != nil {
		reload = append(reload, opts.Reload)
	}

	ctrl, err := settings.New(settings.Options{
		Store:    opts.Store,
		Notifier: bridge,
		Opener:   browser.New(),
		Reload:   reload,
		Logger:   opts.Logger,
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(NewModel(ctrl, bridge), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// isTerminal checks if stdin and stdout are terminals
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
