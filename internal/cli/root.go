package cli

import (
	"github.com/spf13/cobra"

	"github.com/soyeahso/octomcp/internal/config"
	"github.com/soyeahso/octomcp/internal/logging"
)

var (
	cfgFile  string
	logLevel string

	// loaded at init time
	paths config.Paths
	log   *logging.Logger
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "octomcp",
		Short: "octomcp — GitHub MCP tool server",
		Long:  "octomcp exposes GitHub issues, pull requests, repositories, and search as MCP tools over stdio or an HTTP/WebSocket gateway.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			paths, err = config.ResolvePaths()
			if err != nil {
				return err
			}
			if cfgFile != "" {
				paths.Config = cfgFile
			}
			level := logLevel
			if level == "" {
				level = "info"
			}
			log = logging.New(nil, level)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.octomcp/config.yaml)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error, fatal, silent)")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newGatewayCmd())
	cmd.AddCommand(newToolsCmd())
	cmd.AddCommand(newCallCmd())
	cmd.AddCommand(newAuditCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}
