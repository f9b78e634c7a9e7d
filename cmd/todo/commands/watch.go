package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/openfroyo/todostore/pkg/stores"
)

func newWatchCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print changes to a file-backed store as they happen",
		Long: `Watch the record directory of the file backend and print one line per
record that is written or removed, until interrupted. When a metrics listen
address is configured the metrics endpoint is served while watching.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, sess, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer sess.Close(context.Background())

			fileStore, ok := sess.backend.(*stores.FileStore)
			if !ok {
				return fmt.Errorf("watch requires the file backend, got %q", sess.cfg.Store.Backend)
			}

			server, err := sess.tel.Metrics.StartMetricsServer()
			if err != nil {
				return fmt.Errorf("failed to start metrics server: %w", err)
			}
			if server != nil {
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					_ = server.Shutdown(shutdownCtx)
				}()
			}

			out := cmd.OutOrStdout()
			err = fileStore.Watch(ctx, func(ev stores.ChangeEvent) {
				if opts.jsonOutput {
					_ = writeJSON(out, ev)
					return
				}
				fmt.Fprintf(out, "%s %s\n", ev.Op, ev.ID)
			})
			if err != nil {
				return err
			}

			log.Info().Str("dir", fileStore.Dir()).Msg("Watching for changes")
			<-ctx.Done()
			return nil
		},
	}

	return cmd
}
