package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/satcoach/internal/api"
	"github.com/abhisek/satcoach/internal/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc, closeFn, err := openCoach(ctx)
		if err != nil {
			return err
		}
		defer closeFn()

		return api.New(svc, logger).Run(ctx, cfg.Server.Addr, cfg.Server.ShutdownTimeout)
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "Listen address")
	bindFlag(v, serveCmd.Flags().Lookup("addr"), config.KeyServerAddr)
}
