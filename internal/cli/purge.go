package cli

import (
	"fmt"

	"github.com/ahmetcoskunkizilkaya/stockroom/internal/session"
	"github.com/spf13/cobra"
)

func (a *app) purgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge-sessions",
		Short: "Delete expired and revoked sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store := session.NewStore(a.db, a.cfg.SessionSecret, a.cfg.SessionTTL)
			n, err := store.PurgeExpired(cmd.Context(), a.now())
			if err != nil {
				return fmt.Errorf("purge sessions: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "purged %d sessions\n", n)
			return nil
		},
	}
}
