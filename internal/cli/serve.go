package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/soyeahso/octomcp/internal/config"
	"github.com/soyeahso/octomcp/internal/logging"
	"github.com/soyeahso/octomcp/internal/mcp"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve MCP over stdio",
		Long:  "Speaks newline-delimited JSON-RPC on stdin/stdout. Logs go to a file, never stdout.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(paths.Config)
			if err != nil {
				return err
			}

			// stdout carries the protocol, so the server logs to a file
			lg := log
			if err := paths.EnsureDirs(); err == nil {
				if w := openLogFile(filepath.Join(paths.Logs, "octomcp.log")); w != nil {
					level := logLevel
					if level == "" {
						level = cfg.Logging.Level
					}
					lg = logging.New(w, level)
				}
			}

			dispatcher, cleanup, err := buildDispatcher(cfg, lg)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := mcp.NewServer(dispatcher, os.Stdin, os.Stdout, lg)
			return srv.Run(ctx)
		},
	}
}

func openLogFile(path string) io.Writer {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil
	}
	return f
}
