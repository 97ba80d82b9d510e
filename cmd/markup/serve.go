package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/markup/internal/preview"
)

func serveCmd(a *app) *cobra.Command {
	var (
		port     int
		host     string
		noReload bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Preview documents with live reload",
		Long: `Serve the documents directory over HTTP.

Each request renders the matching document, so edits show up on the
next load. Connected browsers reload automatically when a watched file
changes. Prometheus metrics are exposed on /metrics when enabled.

Examples:
  markup serve
  markup serve --port=8080
  markup serve --host=0.0.0.0 --no-reload`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port > 0 {
				a.cfg.Preview.Port = port
			}
			if host != "" {
				a.cfg.Preview.Host = host
			}
			if noReload {
				a.cfg.Preview.Reload = false
			}
			return runServe(a)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from config)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from config)")
	cmd.Flags().BoolVar(&noReload, "no-reload", false, "Disable live reload")

	return cmd
}

func runServe(a *app) error {
	opts := preview.ServerOptions{
		Config:   a.cfg,
		Logger:   a.logger,
		Renderer: a.renderer,
	}
	if a.registry != nil {
		opts.Gatherer = a.registry
	}
	server := preview.NewServer(opts)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.success("Serving %s on %s", a.cfg.DocumentsPath(), a.cfg.PreviewURL())
	return server.Start(ctx)
}
