package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agenthands/jai/internal/auth"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for a user id (development)",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetString("user")
		email, _ := cmd.Flags().GetString("email")
		ttl, _ := cmd.Flags().GetDuration("ttl")
		if user == "" {
			return errors.New("--user is required")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Auth.JWTSecret == "" {
			return errors.New("auth.jwt_secret (JWT_SECRET) is required")
		}
		if ttl <= 0 {
			ttl = cfg.TokenTTL()
		}

		tok, err := auth.NewJWT(cfg.Auth.JWTSecret, auth.WithIssuer(cfg.Auth.Issuer)).Issue(user, email, ttl)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

func init() {
	tokenCmd.Flags().String("user", "", "user id to put in the token")
	tokenCmd.Flags().String("email", "", "optional email claim")
	tokenCmd.Flags().Duration("ttl", 0, "token lifetime (defaults to auth.token_ttl_hours)")
}
