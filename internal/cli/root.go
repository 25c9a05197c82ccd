// Package cli implements stockctl, the operator tool for the portal database.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/stockroom/internal/config"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/database"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// Opener returns the database the commands operate on.
type Opener func(ctx context.Context, cfg *config.Config) (*gorm.DB, error)

// Postgres connects with the server's settings.
func Postgres(_ context.Context, cfg *config.Config) (*gorm.DB, error) {
	if err := database.Connect(cfg); err != nil {
		return nil, err
	}
	return database.DB, nil
}

type app struct {
	open Opener
	cfg  *config.Config
	db   *gorm.DB
	now  func() time.Time
}

// NewRootCmd builds the stockctl command tree.
func NewRootCmd(open Opener) *cobra.Command {
	a := &app{open: open, now: time.Now}

	root := &cobra.Command{
		Use:           "stockctl",
		Short:         "Administer the stockroom portal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			db, err := a.open(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			a.cfg, a.db = cfg, db
			return nil
		},
	}

	root.AddCommand(a.migrateCmd(), a.provisionCmd(), a.purgeCmd())
	return root
}

func (a *app) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the portal tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := database.Migrate(a.db.WithContext(cmd.Context())); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrated", len(database.DomainModels()), "tables")
			return nil
		},
	}
}
