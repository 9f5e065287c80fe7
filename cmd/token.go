package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vibast-solutions/ms-go-storefront/app/auth"
	"github.com/vibast-solutions/ms-go-storefront/config"
)

var (
	tokenUserID uint64
	tokenRole   string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Access token commands",
}

var tokenIssueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Issue an access token for a user",
	Run: func(_ *cobra.Command, _ []string) {
		cfg, err := config.Load()
		if err != nil {
			logrus.WithError(err).Fatal("Failed to load configuration")
		}
		if tokenUserID == 0 {
			logrus.Fatal("--user is required")
		}

		token, err := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL).GenerateAccessToken(tokenUserID, tokenRole)
		if err != nil {
			logrus.WithError(err).Fatal("Failed to issue token")
		}
		fmt.Println(token)
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.AddCommand(tokenIssueCmd)

	tokenIssueCmd.Flags().Uint64Var(&tokenUserID, "user", 0, "User id")
	tokenIssueCmd.Flags().StringVar(&tokenRole, "role", "customer", "User role (customer or admin)")
}
