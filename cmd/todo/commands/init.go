package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/openfroyo/todostore/pkg/config"
	"github.com/openfroyo/todostore/pkg/stores"
)

func newInitCommand(opts *globalOptions) *cobra.Command {
	var (
		dir       string
		dbPath    string
		overwrite bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file and initialize the store",
		Long: `Write a starter configuration file and initialize the selected backend:
the record directory for the file backend, or the database and todo table
for the sqlite backend.`,
		Example: `  # File backend in ./data/todos
  todo init

  # SQLite backend
  todo init --backend sqlite --db ./data/todo.db --config ./todo.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if opts.backend != "" {
				cfg.Store.Backend = opts.backend
			}
			if dir != "" {
				cfg.Store.File.Dir = dir
			}
			if dbPath != "" {
				cfg.Store.SQLite.Path = dbPath
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			path := opts.configPath
			if path == "" {
				path = "./todo.yaml"
			}

			log.Info().
				Str("backend", cfg.Store.Backend).
				Str("config", path).
				Msg("Initializing todo store")

			if err := cfg.Write(path, overwrite); err != nil {
				return err
			}

			store, err := stores.Open(cmd.Context(), cfg.Store)
			if err != nil {
				return fmt.Errorf("failed to initialize store: %w", err)
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created config file: %s\n", path)
			switch cfg.Store.Backend {
			case stores.BackendFile:
				fmt.Fprintf(out, "Initialized file store: %s\n", cfg.Store.File.Dir)
			case stores.BackendSQLite:
				fmt.Fprintf(out, "Initialized SQLite database: %s\n", cfg.Store.SQLite.Path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "record directory for the file backend")
	cmd.Flags().StringVar(&dbPath, "db", "", "database path for the sqlite backend")
	cmd.Flags().BoolVar(&overwrite, "force", false, "overwrite an existing config file")

	return cmd
}
