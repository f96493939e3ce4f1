package cmd

import (
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"aisettings/config"
	"aisettings/config/sqlstore"
	"aisettings/internal/settings"

	"github.com/spf13/cobra"
)

// Version information
var (
	version string
	commit  string
	date    string
)

// SetVersionInfo sets the version information
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

var (
	storeFlag   string
	verboseFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "aisettings",
	Short: "AI provider, API key and model settings",
	Long: `Manage the AI provider, API key and per-task model choices of the host application.

The store location is taken from --store, then AISETTINGS_STORE, then
$XDG_CONFIG_HOME/aisettings/config.json. Prefix the location with "sqlite:" to use
a SQLite database instead of a JSON file.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&storeFlag, "store", "", "settings store location (file path or sqlite:<path>)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "log diagnostics to stderr")
}

// Execute executes the root command
func Execute() error {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(`aisettings {{.Version}}
Commit: ` + commit + `
Date: ` + date + `
`)
	return rootCmd.Execute()
}

func newLogger(cmd *cobra.Command) *log.Logger {
	if !verboseFlag {
		return log.New(io.Discard, "", 0)
	}
	return log.New(cmd.ErrOrStderr(), "aisettings: ", 0)
}

// openedStore is a resolved settings store
type openedStore struct {
	settings.Store
	// Path is the file backing the store
	Path string
	// File is set for the JSON file store
	File  *config.Manager
	close func() error
}

func (s *openedStore) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// openStore resolves the store location and opens it
func openStore(cmd *cobra.Command) (*openedStore, error) {
	location := storeFlag
	if location == "" {
		var err error
		if location, err = config.DefaultConfigPath(); err != nil {
			return nil, err
		}
	}
	logger := newLogger(cmd)

	if strings.HasPrefix(location, sqlstore.Scheme) {
		path := strings.TrimPrefix(location, sqlstore.Scheme)
		db, err := sqlstore.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open settings database: %w", err)
		}
		db.SetLogger(logger)
		return &openedStore{Store: db, Path: path, close: db.Close}, nil
	}

	manager, err := config.NewManagerAt(location)
	if err != nil {
		return nil, err
	}
	manager.SetLogger(logger)
	return &openedStore{Store: manager, Path: location, File: manager}, nil
}

// defaultEnvScript is the env script kept next to the store
func (s *openedStore) defaultEnvScript() string {
	return filepath.Join(filepath.Dir(s.Path), "active.env")
}
