package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openfroyo/todostore/pkg/stores"
)

func newUpdateCommand(opts *globalOptions) *cobra.Command {
	var (
		title     string
		completed bool
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the title or completion of a todo",
		Long: `Change the title and/or completion of a todo. Only the flags that are
given are written; other fields keep their stored values.`,
		Example: `  todo update t1 --completed
  todo update t1 --title "Buy oat milk" --completed=false`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var update stores.TodoUpdate
			if cmd.Flags().Changed("title") {
				update.Title = stores.Some(title)
			}
			if cmd.Flags().Changed("completed") {
				update.Completed = stores.Some(completed)
			}
			if update.IsEmpty() {
				return fmt.Errorf("nothing to update: pass --title and/or --completed")
			}

			ctx, sess, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer sess.Close(ctx)

			todo, err := sess.store.Update(ctx, args[0], update)
			if err != nil {
				return err
			}
			if todo == nil {
				return fmt.Errorf("todo %s not found", args[0])
			}

			return printTodo(cmd.OutOrStdout(), todo, opts.jsonOutput)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().BoolVar(&completed, "completed", false, "mark completed (use --completed=false to reopen)")

	return cmd
}
