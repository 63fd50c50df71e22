package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/soyeahso/octomcp/internal/tools"
)

func newToolsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the available tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := tools.NewRegistry()
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(reg.All())
			}
			for _, t := range reg.All() {
				marker := "  "
				if t.ReadOnly {
					marker = "ro"
				}
				fmt.Printf("%-34s %s  %s\n", t.Name, marker, t.Description)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print full schemas as JSON")
	return cmd
}
