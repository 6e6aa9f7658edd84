package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pinegate/pinegate/internal/interfaces/cli/catalogsync"
	"github.com/pinegate/pinegate/internal/interfaces/cli/migrate"
	"github.com/pinegate/pinegate/internal/interfaces/cli/probe"
	"github.com/pinegate/pinegate/internal/interfaces/cli/server"
	"github.com/pinegate/pinegate/internal/interfaces/cli/token"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pinegate",
		Short: "pinegate - script access automation for TradingView sellers",
		Long:  `pinegate grants and revokes invite-only script access on behalf of marketplace sellers, keeps their catalogs in sync and watches their platform sessions.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		probe.NewCommand(),
		catalogsync.NewCommand(),
		token.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
