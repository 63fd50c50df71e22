package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/soyeahso/octomcp/internal/config"
)

func newCallCmd() *cobra.Command {
	var argsJSON string

	cmd := &cobra.Command{
		Use:   "call <tool>",
		Short: "Invoke a single tool and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			cfg, err := config.Load(paths.Config)
			if err != nil {
				return err
			}

			var rawArgs map[string]any
			if argsJSON != "" {
				if err := json.Unmarshal([]byte(argsJSON), &rawArgs); err != nil {
					return fmt.Errorf("invalid --args JSON: %w", err)
				}
			} else {
				rawArgs = map[string]any{}
			}

			dispatcher, cleanup, err := buildDispatcher(cfg, log)
			if err != nil {
				return err
			}
			defer cleanup()

			result, terr := dispatcher.Dispatch(context.Background(), cmdArgs[0], rawArgs)
			if terr != nil {
				return fmt.Errorf("%s", terr.Error())
			}

			var pretty bytes.Buffer
			if err := json.Indent(&pretty, result, "", "  "); err != nil {
				fmt.Println(string(result))
				return nil
			}
			pretty.WriteTo(os.Stdout)
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().StringVar(&argsJSON, "args", "", "tool arguments as a JSON object")
	return cmd
}
