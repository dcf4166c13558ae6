package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"library-records/config"
	"library-records/console"
	"library-records/library"
	"library-records/ui"
)

func newRootCommand() *cobra.Command {
	var (
		dbPath  string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "library",
		Short: "Manage authors, books, members and borrow records",
		Long: `Interactive records manager for a small library.

Four tabs (authors, books, members, records) each hold a list and a form.
Type 'help' at the prompt for the available commands.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			config.LoadEnvFiles()
			cfg := config.NewConfig()
			if cmd.Flags().Changed("db") {
				cfg.Database.Path = dbPath
			}
			if cmd.Flags().Changed("verbose") {
				cfg.Log.Verbose = verbose
			}
			setupLogging(cfg.Log.Verbose)
			return runShell(cfg)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", config.DefaultDatabasePath, "path to the SQLite database file")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log database activity to stderr")
	return cmd
}

func setupLogging(verbose bool) {
	if !verbose {
		log.SetOutput(io.Discard)
		return
	}
	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}

func runShell(cfg *config.Config) error {
	manager, err := library.NewLibraryManager(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer manager.Close()

	sh := console.NewStdio()
	ctrl, err := ui.NewController(manager, sh)
	if err != nil {
		return fmt.Errorf("loading records: %w", err)
	}
	sh.Attach(ctrl)
	return sh.Run()
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
