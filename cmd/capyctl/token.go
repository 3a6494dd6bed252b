package main

import (
	"fmt"
	"time"

	"CapybaraPetService/internal/auth"

	"github.com/spf13/cobra"
)

var (
	tokenUserID string
	tokenEmail  string
	tokenTTL    time.Duration
)

// tokenCmd выпускает долгоживущий токен, например для планировщика
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a signed bearer token",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ttl := tokenTTL
		if ttl <= 0 {
			ttl = cfg.Auth.ServiceTTL
		}

		tokens := auth.NewTokenManager(cfg.Auth.Secret, cfg.Auth.LoginTTL, cfg.Auth.ServiceTTL)
		token, err := tokens.Issue(tokenUserID, tokenEmail, ttl)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUserID, "id", "sched", "User id placed in the token")
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "scheduler@capybara.local", "Email placed in the token")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "Token lifetime (defaults to auth.service_ttl)")
	rootCmd.AddCommand(tokenCmd)
}
