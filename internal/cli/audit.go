package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/soyeahso/octomcp/internal/config"
	"github.com/soyeahso/octomcp/internal/store"
)

func newAuditCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show recent tool invocations from the audit log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(paths.Config)
			if err != nil {
				return err
			}
			dbPath := cfg.Audit.Path
			if dbPath == "" {
				dbPath = filepath.Join(paths.Data, "audit.db")
			}

			db, err := store.Open(dbPath, log)
			if err != nil {
				return fmt.Errorf("opening audit database: %w", err)
			}
			defer db.Close()

			audit := store.NewAuditLog(db, log)
			invs, err := audit.Recent(context.Background(), limit)
			if err != nil {
				return err
			}
			if len(invs) == 0 {
				fmt.Println("no invocations recorded")
				return nil
			}

			for _, inv := range invs {
				outcome := "ok"
				if !inv.OK {
					outcome = inv.ErrorKind
					if inv.Status != 0 {
						outcome = fmt.Sprintf("%s(%d)", inv.ErrorKind, inv.Status)
					}
				}
				fmt.Printf("%s  %-34s %-24s %5dms\n", inv.CreatedAt, inv.Tool, outcome, inv.DurationMS)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "maximum number of invocations to show")
	return cmd
}
