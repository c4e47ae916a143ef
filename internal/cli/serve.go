package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mrpoffice-collab/Whispering-Art/internal/server"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the card rendering API",
		Long: `Serve the storefront API:

  POST /api/generate-pdf       render a card design
  POST /api/generate-envelope  render an envelope
  POST /api/admin/batch        render cards or envelopes for many orders
  GET  /healthz

PDFs are returned inline as data URLs. The server never reads local files;
artwork must be an http(s) URL, a data URI or an s3:// object.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080 or $PORT)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}

	runner, err := c.newRunner(ctx, runnerOptions{})
	if err != nil {
		return err
	}
	defer runner.Close()

	if !runner.Engine.Converter.Available() {
		c.Logger.Warn("rsvg-convert not found; PDF requests will fail until it is installed")
	}

	srv := server.New(runner, loggerFromContext(ctx))
	srv.MaxBodyBytes = cfg.Server.MaxBodyBytes
	srv.RequestTimeout = cfg.Server.RequestTimeout.Duration
	srv.Concurrency = cfg.Batch.Concurrency

	c.Logger.Info("cache", "backend", cfg.Cache.Backend)
	return srv.ListenAndServe(ctx, addr)
}
