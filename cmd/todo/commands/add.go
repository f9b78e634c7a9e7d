package commands

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/openfroyo/todostore/pkg/stores"
)

func newAddCommand(opts *globalOptions) *cobra.Command {
	var (
		id        string
		completed bool
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a todo",
		Long: `Create a todo with the given title.

The id defaults to a random UUID. On the file backend an existing id is
overwritten; on the sqlite backend it is rejected.`,
		Example: `  todo add "Buy milk"
  todo add --id t1 "Buy milk"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, sess, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer sess.Close(ctx)

			if id == "" {
				id = uuid.New().String()
			}

			todo := &stores.Todo{
				ID:        id,
				Title:     args[0],
				Completed: completed,
			}
			if err := sess.store.Create(ctx, todo); err != nil {
				return err
			}

			return printTodo(cmd.OutOrStdout(), todo, opts.jsonOutput)
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "record id (default: random UUID)")
	cmd.Flags().BoolVar(&completed, "completed", false, "create the todo as completed")

	return cmd
}
