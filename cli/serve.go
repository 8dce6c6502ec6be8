package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"space-missions/api"
)

func (a *app) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the queries over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// Fail fast on a broken dataset rather than on the first request.
			if _, err := a.queries.Table(ctx); err != nil {
				return err
			}
			return api.NewServer(a.queries, a.logger).Run(ctx, a.cfg.HTTPAddr)
		},
	}
	cmd.Flags().StringVar(&a.cfg.HTTPAddr, "addr", a.cfg.HTTPAddr, "listen address")
	return cmd
}
