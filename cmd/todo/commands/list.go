package commands

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/openfroyo/todostore/pkg/stores"
)

func newListCommand(opts *globalOptions) *cobra.Command {
	var completed string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List todos",
		Example: `  # List every todo
  todo list

  # List only finished todos as JSON
  todo list --completed=true --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, sess, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer sess.Close(ctx)

			var todos []*stores.Todo
			if completed == "" {
				todos, err = sess.store.FetchAll(ctx)
			} else {
				flag, perr := strconv.ParseBool(completed)
				if perr != nil {
					return perr
				}
				todos, err = sess.store.FetchByCompleted(ctx, flag)
			}
			if err != nil {
				return err
			}

			return printTodos(cmd.OutOrStdout(), todos, opts.jsonOutput)
		},
	}

	cmd.Flags().StringVar(&completed, "completed", "", "filter by completion (true or false)")

	return cmd
}
