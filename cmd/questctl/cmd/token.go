package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lifedash/questlog/internal/service"
)

func TokenCmd() *cobra.Command {
	var userID int64

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an access token for a user (needs JWT_SECRET)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := clientConfig(cmd)
			if cfg.JWTSecret == "" {
				return errors.New("JWT_SECRET is not set")
			}
			if userID <= 0 {
				return errors.New("--user must be a positive id")
			}

			token, err := service.NewAuthService(cfg.JWTSecret, cfg.JWTExpiry).GenerateJWT(userID)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 1, "user id")
	return cmd
}
