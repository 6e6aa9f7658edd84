// Package token mints service tokens for callers of the HTTP API.
package token

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pinegate/pinegate/internal/infrastructure/auth"
	"github.com/pinegate/pinegate/internal/interfaces/cli/bootstrap"
	"github.com/pinegate/pinegate/internal/shared/constants"
)

var (
	env        string
	configPath string
	actor      string
	role       string
	ttl        time.Duration
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a service token",
		Long:  `Sign a service token for an API caller with the configured auth secret.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.Flags().StringVar(&actor, "actor", "", "Caller identity recorded on grant logs (required)")
	cmd.Flags().StringVar(&role, "role", constants.RoleService, "Caller role (service, admin, seller)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("actor")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	rt, err := bootstrap.Load(env, configPath, false)
	if err != nil {
		return err
	}

	tokens := auth.NewServiceTokenService(rt.Config.Auth.ServiceSecret, rt.Config.Auth.Issuer)
	signed, err := tokens.Generate(actor, role, ttl)
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), signed)
	return nil
}
