package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmynk/tripledger/internal/auth"
	"github.com/mmynk/tripledger/internal/models"
)

func newTokenCmd(a *app) *cobra.Command {
	var (
		userID string
		email  string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for a user id",
		Long: `Signs a token with the configured secret. Useful for local development
and scripts; production tokens come from the identity provider that
shares the secret.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" {
				return fmt.Errorf("--user is required")
			}
			if err := a.cfg.RequireJWTSecret(); err != nil {
				return err
			}
			if ttl <= 0 {
				ttl = a.cfg.Auth.TokenTTL
			}

			m := auth.NewJWTManager(a.cfg.Auth.JWTSecret, a.cfg.Auth.Issuer, ttl)
			token, err := m.Generate(&models.User{ID: userID, Email: email})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id to put in the token")
	cmd.Flags().StringVar(&email, "email", "", "optional email claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default: auth.token_ttl)")
	return cmd
}
