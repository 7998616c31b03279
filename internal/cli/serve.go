package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/koustreak/ezschema/internal/logger"
	"github.com/koustreak/ezschema/internal/server"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the compiled models over HTTP",
		Long: `Start a read-only HTTP server exposing the compiled models:

  GET  /healthz         compilation status
  GET  /models          every model
  GET  /models/{model}  one model
  POST /compile         compile the request body without storing it

With --watch the document is recompiled whenever it changes on disk.`,
		Example: `  ezschema serve --addr :8088 --watch`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg := GetConfig(ctx)
			log := logger.FromContext(ctx)

			reader, err := newReader(ctx, cfg)
			if err != nil {
				return err
			}

			srv := server.New(server.Config{
				Addr:     cfg.Server.Addr,
				Location: cfg.Models,
				Reader:   reader,
				Logger:   log,
				Watch:    watch,
			})
			// A broken document is reported by /healthz; the server still
			// starts so it can pick up the fix.
			_ = srv.Reload(ctx)
			return srv.Serve(ctx)
		},
	}

	cmd.Flags().String("addr", "", "listen address (default: :8088)")
	cmd.Flags().BoolVar(&watch, "watch", false, "recompile when the document changes")
	return cmd
}
