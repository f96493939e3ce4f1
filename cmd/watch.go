package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"aisettings/config/models"
	"aisettings/config/validation"
	"aisettings/internal/utils"
	"aisettings/internal/watch"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var watchReload bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow changes other processes make to the store",
	Long: `Print a line whenever the stored settings change. With --reload the env
script and the synced settings file are rewritten on every change.

SIGHUP forces a re-read of the store. SIGINT and SIGTERM stop watching.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchReload, "reload", false, "rewrite consumer artifacts on each change")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	logger := newLogger(cmd)
	reloader := newReloader(store, logger)
	out := cmd.OutOrStdout()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watch.New(watch.Options{
		Path:   store.Path,
		Source: store,
		Logger: logger,
		OnChange: func(change watch.Change) {
			printChange(out, change)
			if !watchReload {
				return
			}
			if err := reloader.Reload(ctx); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "reload failed: %v\n", err)
			}
		},
	})
	if err != nil {
		return err
	}

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer stop()
		return w.Run(ctx)
	})
	g.Go(func() error {
		for {
			select {
			case <-hup:
				if err := w.Reload(ctx); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%v\n", err)
				}
			case <-ctx.Done():
				return nil
			}
		}
	})

	if watchReload {
		if err := reloader.Reload(ctx); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "reload failed: %v\n", err)
		}
	}
	fmt.Fprintf(out, "Watching %s\n", store.Path)
	return g.Wait()
}

func printChange(w io.Writer, change watch.Change) {
	fmt.Fprintf(w, "settings changed (version %d)\n", change.Version)
	before := change.Previous.Fields()
	for i, field := range change.Current.Fields() {
		if field[1] == before[i][1] {
			continue
		}
		from, to := before[i][1], field[1]
		if field[0] == models.KeyAPIKey {
			from, to = utils.MaskAPIKey(from), utils.MaskAPIKey(to)
		}
		fmt.Fprintf(w, "  %s: %q -> %q\n", field[0], from, to)
	}
	if err := validation.NewValidator().ValidateConfig(change.Current); err != nil {
		fmt.Fprintf(w, "  warning: %v\n", err)
	}
}
