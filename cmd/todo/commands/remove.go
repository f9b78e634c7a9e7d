package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRemoveCommand(opts *globalOptions) *cobra.Command {
	var ignoreMissing bool

	cmd := &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a todo",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, sess, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer sess.Close(ctx)

			removed, err := sess.store.Remove(ctx, args[0])
			if err != nil {
				return err
			}
			if removed == nil {
				if ignoreMissing {
					return nil
				}
				return fmt.Errorf("todo %s not found", args[0])
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", *removed)
			return err
		},
	}

	cmd.Flags().BoolVar(&ignoreMissing, "ignore-missing", false, "succeed when the todo does not exist")

	return cmd
}
