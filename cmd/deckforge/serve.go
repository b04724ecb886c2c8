package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lvillar/deckforge/ai"
	"github.com/lvillar/deckforge/logger"
	"github.com/lvillar/deckforge/mcp"
	"github.com/lvillar/deckforge/server"
)

func serveCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API over the workspace: generation, page editing, remix and
background exports. Prometheus metrics are served at /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()
			if addr != "" {
				a.cfg.Server.Addr = addr
			}

			srv := server.New(a.cfg.Server, a.ws, a.pdf, a.deck,
				server.WithLogger(a.log),
				server.WithMetrics(a.metrics),
				server.WithTemplates(a.reg),
				server.WithFormat(a.format))
			a.log.Info("starting deckforge",
				logger.String("version", version),
				logger.String("provider", a.ws.Provider().Provider),
				logger.String("storage", a.cfg.Storage.Backend))
			return srv.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}

func mcpCommand() *cobra.Command {
	var offline bool
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server on stdio",
		Long: `Serve the exporters as Model Context Protocol tools over stdin and stdout.
Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			var gen ai.Generator = a.ws.Generator()
			if offline {
				gen = nil
			}
			s := mcp.NewServer(mcp.WithLogger(a.log), mcp.WithVersion(version))
			mcp.RegisterDefaultTools(s, &mcp.Toolbox{
				PDF:       a.pdf,
				Deck:      a.deck,
				Templates: a.reg,
				Generator: gen,
				Style:     a.ws.Style(),
				Format:    a.format,
			})
			mcp.RegisterDefaultResources(s, a.reg)
			return s.Run(ctx)
		},
	}
	cmd.Flags().BoolVar(&offline, "no-generate", false, "leave out the generate_document tool")
	return cmd
}
