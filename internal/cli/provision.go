package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/stockroom/internal/depot"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/directory"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/guard"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/models"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func (a *app) provisionCmd() *cobra.Command {
	var email, role, agentID, depotsPath string

	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Assign a role and agent to a signed-up user",
		Long: `Assign a role and an agent to an existing login. Until this runs a new
account only ever sees the pending page.

Examples:
  stockctl provision --email tech@example.com --role technician --agent A1
  stockctl provision --email boss@example.com --role manager --agent B2`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := guard.ParseRole(role)
			if err != nil {
				return err
			}
			if depotsPath == "" {
				depotsPath = a.cfg.DepotsConfigPath
			}
			depots, err := depot.LoadFromFile(depotsPath)
			if err != nil {
				return err
			}

			var user models.User
			err = a.db.WithContext(cmd.Context()).
				Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
				First(&user).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("no account for %s", email)
			}
			if err != nil {
				return err
			}

			if err := directory.New(a.db).Provision(cmd.Context(), depots, user.ID, user.Email, r, agentID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s at %s\n", user.Email, r, depots.Name(agentID))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "login email of the account")
	cmd.Flags().StringVar(&role, "role", "", "merchant, technician or manager")
	cmd.Flags().StringVar(&agentID, "agent", "", "agent id from the depot registry")
	cmd.Flags().StringVar(&depotsPath, "depots", "", "depot registry file (default DEPOTS_CONFIG_PATH)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("role")
	_ = cmd.MarkFlagRequired("agent")
	return cmd
}
