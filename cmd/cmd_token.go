package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"partner-catalog-service/internal/api"
)

// catalog token <username>
var tokenCmd = &cobra.Command{
	Use:   "token <username>",
	Short: "Print a signed API token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := boot()
		if err != nil {
			return err
		}
		if cfg.Auth.JWTSecret == "" {
			return errors.New("AUTH_JWT_SECRET is not set")
		}

		ttl, _ := cmd.Flags().GetDuration("ttl")
		if ttl <= 0 {
			ttl = cfg.Auth.TokenTTL
		}
		staff, _ := cmd.Flags().GetBool("staff")

		token, err := api.NewAuthorizer(cfg.Auth.JWTSecret, false).IssueToken(args[0], staff, ttl)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().Duration("ttl", 0, "token lifetime (default AUTH_TOKEN_TTL)")
	tokenCmd.Flags().Bool("staff", true, "grant the staff role")
}
